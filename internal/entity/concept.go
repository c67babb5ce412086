package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// SourceType classifies where a piece of study content came from.
type SourceType string

const (
	SourceTypeLecture SourceType = "lecture"
	SourceTypeText    SourceType = "text"
	SourceTypeUpload  SourceType = "upload"
	SourceTypeManual  SourceType = "manual"
)

// ParseSourceType converts an arbitrary string into a supported SourceType
// value, defaulting to text.
func ParseSourceType(s string) SourceType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lecture":
		return SourceTypeLecture
	case "upload":
		return SourceTypeUpload
	case "manual":
		return SourceTypeManual
	default:
		return SourceTypeText
	}
}

// Concept is an atomic knowledge unit extracted from source content.
type Concept struct {
	// Stable snake_case identifier, unique within a graph
	// (e.g. "mitochondria_energy_production").
	ID string `json:"id"`

	// Concise, factual explanation of the concept. Required.
	Definition string `json:"definition"`

	// What this concept takes in, when it transforms something.
	Inputs []string `json:"inputs,omitempty"`

	// What this concept produces, when it transforms something.
	Outputs []string `json:"outputs,omitempty"`

	// Ordered steps when the concept represents a process.
	ProcessSteps []string `json:"process_steps,omitempty"`

	// IDs of concepts in the same graph this one presupposes.
	Dependencies []string `json:"dependencies"`

	// Known student confusions and misconceptions.
	CommonMistakes []string `json:"common_mistakes"`
}

// KnowledgeGraphSource records provenance for a knowledge graph.
type KnowledgeGraphSource struct {
	Type        SourceType     `json:"type"`
	ContentHash string         `json:"content_hash,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// KnowledgeGraph is the set of concepts extracted from one piece of source
// content. Graphs are created once and treated as immutable afterwards,
// except for optional title/emoji enrichment.
type KnowledgeGraph struct {
	ID        string               `json:"id"`
	OwnerID   string               `json:"owner_id"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
	Source    KnowledgeGraphSource `json:"source"`
	Concepts  []Concept            `json:"concepts"`

	// Display-only enrichment from extraction; not used by derivation.
	Title string `json:"title,omitempty"`
	Emoji string `json:"emoji,omitempty"`
}

// NewKnowledgeGraph assembles a graph with a fresh id and timestamps.
func NewKnowledgeGraph(ownerID string, source KnowledgeGraphSource, concepts []Concept) *KnowledgeGraph {
	now := time.Now().UTC()
	return &KnowledgeGraph{
		ID:        "kg_" + uuid.NewString(),
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
		Source:    source,
		Concepts:  concepts,
	}
}

// Concept returns the concept with the given id, or nil.
func (g *KnowledgeGraph) Concept(id string) *Concept {
	for i := range g.Concepts {
		if g.Concepts[i].ID == id {
			return &g.Concepts[i]
		}
	}
	return nil
}

// ValidateConcepts checks that every concept has a non-empty id and
// definition and that all dependency references resolve within the graph.
// Dangling references are tolerated at read time but must not be produced.
func (g *KnowledgeGraph) ValidateConcepts() error {
	ids := make(map[string]struct{}, len(g.Concepts))
	for _, c := range g.Concepts {
		if strings.TrimSpace(c.ID) == "" {
			return ErrInvalidConceptID
		}
		if strings.TrimSpace(c.Definition) == "" {
			return ErrInvalidConceptDefinition
		}
		if _, dup := ids[c.ID]; dup {
			return ErrDuplicateConceptID
		}
		ids[c.ID] = struct{}{}
	}
	for _, c := range g.Concepts {
		for _, dep := range c.Dependencies {
			if _, ok := ids[dep]; !ok {
				return ErrDanglingDependency
			}
		}
	}
	return nil
}
