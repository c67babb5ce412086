// Package backup streams an owner's graphs and material sets to and from
// NDJSON. Each line is a typed record; the first line is a header carrying
// the format version.
package backup

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/studypup/studypup/internal/entity"
	"github.com/studypup/studypup/internal/repository"
)

const formatVersion = 1

const (
	recordHeader      = "header"
	recordGraph       = "knowledge_graph"
	recordMaterialSet = "study_material_set"
)

var errMissingHeader = errors.New("backup: first record must be a header")

type record struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`

	// Header fields.
	Version    int    `json:"version,omitempty"`
	OwnerID    string `json:"owner_id,omitempty"`
	ExportedAt string `json:"exported_at,omitempty"`
}

// Stats counts the records moved by one export or import run.
type Stats struct {
	Graphs       int
	MaterialSets int
}

type Service struct {
	graphs    repository.KnowledgeGraphRepository
	materials repository.StudyMaterialRepository
}

func NewService(graphs repository.KnowledgeGraphRepository, materials repository.StudyMaterialRepository) *Service {
	return &Service{graphs: graphs, materials: materials}
}

// Export writes all of an owner's graphs and material sets as NDJSON.
func (s *Service) Export(ctx context.Context, ownerID string, w io.Writer) (Stats, error) {
	var stats Stats
	enc := json.NewEncoder(w)

	header := record{
		Type:       recordHeader,
		Version:    formatVersion,
		OwnerID:    ownerID,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := enc.Encode(header); err != nil {
		return stats, err
	}

	graphs, err := s.graphs.List(ctx, &repository.ListGraphQuery{OwnerID: ownerID, PrimaryKey: "created_at"})
	if err != nil {
		return stats, err
	}
	for _, g := range graphs {
		if err := encodeRecord(enc, recordGraph, g); err != nil {
			return stats, err
		}
		stats.Graphs++
	}

	sets, err := s.materials.List(ctx, ownerID)
	if err != nil {
		return stats, err
	}
	for _, set := range sets {
		if err := encodeRecord(enc, recordMaterialSet, set); err != nil {
			return stats, err
		}
		stats.MaterialSets++
	}
	return stats, nil
}

// Import reads an NDJSON backup and upserts every record. Records keep
// their original ids, so re-importing a backup is idempotent.
func (s *Service) Import(ctx context.Context, r io.Reader) (Stats, error) {
	var stats Stats
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1<<20), 16<<20)

	sawHeader := false
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var rec record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return stats, fmt.Errorf("backup: line %d: %w", line, err)
		}

		if !sawHeader {
			if rec.Type != recordHeader {
				return stats, errMissingHeader
			}
			if rec.Version != formatVersion {
				return stats, fmt.Errorf("backup: unsupported format version %d", rec.Version)
			}
			sawHeader = true
			continue
		}

		switch rec.Type {
		case recordGraph:
			var g entity.KnowledgeGraph
			if err := json.Unmarshal(rec.Data, &g); err != nil {
				return stats, fmt.Errorf("backup: line %d: %w", line, err)
			}
			if err := s.graphs.Save(ctx, &g); err != nil {
				return stats, err
			}
			stats.Graphs++
		case recordMaterialSet:
			var set entity.StudyMaterialSet
			if err := json.Unmarshal(rec.Data, &set); err != nil {
				return stats, fmt.Errorf("backup: line %d: %w", line, err)
			}
			if err := s.materials.Save(ctx, &set); err != nil {
				return stats, err
			}
			stats.MaterialSets++
		default:
			return stats, fmt.Errorf("backup: line %d: unknown record type %q", line, rec.Type)
		}
	}
	if err := scanner.Err(); err != nil {
		return stats, err
	}
	if !sawHeader {
		return stats, errMissingHeader
	}
	return stats, nil
}

func encodeRecord(enc *json.Encoder, typ string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return enc.Encode(record{Type: typ, Data: data})
}
