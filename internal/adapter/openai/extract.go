package openai

import (
	"context"
	"fmt"

	"github.com/studypup/studypup/internal/entity"
)

// ConceptExtractor turns raw study content into knowledge graph concepts.
type ConceptExtractor struct {
	client *Client
}

func NewConceptExtractor(client *Client) *ConceptExtractor {
	return &ConceptExtractor{client: client}
}

type extractionResult struct {
	Title    string           `json:"title"`
	Emoji    string           `json:"emoji"`
	Concepts []entity.Concept `json:"concepts"`
}

// Extract analyzes content and returns the extracted concepts plus a topic
// title and emoji. Returns entity.ErrAINotConfigured without an API key.
func (e *ConceptExtractor) Extract(ctx context.Context, content string) ([]entity.Concept, string, string, error) {
	if !e.client.Configured() {
		return nil, "", "", entity.ErrAINotConfigured
	}

	var result extractionResult
	err := e.client.generateJSON(ctx, extractionSystemPrompt, content, chatOptions{Temperature: 0.7}, &result)
	if err != nil {
		return nil, "", "", fmt.Errorf("extract concepts: %w", err)
	}
	if len(result.Concepts) == 0 {
		return nil, "", "", fmt.Errorf("extract concepts: model returned no concepts")
	}

	// Models occasionally reference dependencies they never extracted;
	// drop those instead of rejecting the whole graph.
	known := make(map[string]struct{}, len(result.Concepts))
	for _, c := range result.Concepts {
		known[c.ID] = struct{}{}
	}
	for i := range result.Concepts {
		deps := result.Concepts[i].Dependencies[:0]
		for _, dep := range result.Concepts[i].Dependencies {
			if _, ok := known[dep]; ok {
				deps = append(deps, dep)
			}
		}
		result.Concepts[i].Dependencies = deps
	}

	graph := &entity.KnowledgeGraph{Concepts: result.Concepts}
	if err := graph.ValidateConcepts(); err != nil {
		return nil, "", "", fmt.Errorf("extract concepts: %w", err)
	}
	return result.Concepts, result.Title, result.Emoji, nil
}
