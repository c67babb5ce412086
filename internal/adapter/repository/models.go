package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/studypup/studypup/internal/entity"
)

// knowledgeGraphRow is the persisted shape of a knowledge graph. Concepts
// and source metadata are stored as JSON documents; the (owner, hash) pair
// is indexed for dedup lookups.
type knowledgeGraphRow struct {
	ID          string         `gorm:"column:id;primaryKey"`
	OwnerID     string         `gorm:"column:owner_id;index;index:idx_graphs_owner_hash"`
	SourceType  string         `gorm:"column:source_type"`
	ContentHash string         `gorm:"column:content_hash;index:idx_graphs_owner_hash"`
	Metadata    datatypes.JSON `gorm:"column:metadata"`
	Concepts    datatypes.JSON `gorm:"column:concepts"`
	Title       string         `gorm:"column:title"`
	Emoji       string         `gorm:"column:emoji"`
	CreatedAt   time.Time      `gorm:"column:created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at"`
}

func (knowledgeGraphRow) TableName() string { return "knowledge_graphs" }

// studyMaterialRow is the persisted shape of a material set. Each material
// collection is an independent JSON column so partial updates touch only
// the fields that changed.
type studyMaterialRow struct {
	ID               string         `gorm:"column:id;primaryKey"`
	KnowledgeGraphID string         `gorm:"column:knowledge_graph_id;index"`
	OwnerID          string         `gorm:"column:owner_id;index"`
	Flashcards       datatypes.JSON `gorm:"column:flashcards"`
	QuizQuestions    datatypes.JSON `gorm:"column:quiz_questions"`
	WrittenQuestions datatypes.JSON `gorm:"column:written_questions"`
	FillInBlanks     datatypes.JSON `gorm:"column:fill_in_blank_questions"`
	Notes            string         `gorm:"column:notes"`
	GenerationMethod string         `gorm:"column:generation_method"`
	Model            string         `gorm:"column:model"`
	Title            string         `gorm:"column:title"`
	Emoji            string         `gorm:"column:emoji"`
	Progress         datatypes.JSON `gorm:"column:progress"`
	UserAnswers      datatypes.JSON `gorm:"column:user_answers"`
	CreatedAt        time.Time      `gorm:"column:created_at"`
	UpdatedAt        time.Time      `gorm:"column:updated_at"`
}

func (studyMaterialRow) TableName() string { return "study_material_sets" }

func marshalJSON(v any, column string) (datatypes.JSON, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", column, err)
	}
	return datatypes.JSON(raw), nil
}

func unmarshalJSON(raw datatypes.JSON, dest any, column string) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal %s: %w", column, err)
	}
	return nil
}

func graphToRow(g *entity.KnowledgeGraph) (*knowledgeGraphRow, error) {
	concepts, err := marshalJSON(g.Concepts, "concepts")
	if err != nil {
		return nil, err
	}
	metadata, err := marshalJSON(g.Source.Metadata, "metadata")
	if err != nil {
		return nil, err
	}
	return &knowledgeGraphRow{
		ID:          g.ID,
		OwnerID:     g.OwnerID,
		SourceType:  string(g.Source.Type),
		ContentHash: g.Source.ContentHash,
		Metadata:    metadata,
		Concepts:    concepts,
		Title:       g.Title,
		Emoji:       g.Emoji,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}, nil
}

func graphFromRow(row *knowledgeGraphRow) (*entity.KnowledgeGraph, error) {
	g := &entity.KnowledgeGraph{
		ID:      row.ID,
		OwnerID: row.OwnerID,
		Source: entity.KnowledgeGraphSource{
			Type:        entity.SourceType(row.SourceType),
			ContentHash: row.ContentHash,
		},
		Title:     row.Title,
		Emoji:     row.Emoji,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if err := unmarshalJSON(row.Concepts, &g.Concepts, "concepts"); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(row.Metadata, &g.Source.Metadata, "metadata"); err != nil {
		return nil, err
	}
	return g, nil
}

func materialSetToRow(s *entity.StudyMaterialSet) (*studyMaterialRow, error) {
	row := &studyMaterialRow{
		ID:               s.ID,
		KnowledgeGraphID: s.KnowledgeGraphID,
		OwnerID:          s.OwnerID,
		Notes:            s.Notes,
		GenerationMethod: string(s.GenerationMethod),
		Model:            s.Model,
		Title:            s.Title,
		Emoji:            s.Emoji,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
	var err error
	if row.Flashcards, err = marshalJSON(s.Flashcards, "flashcards"); err != nil {
		return nil, err
	}
	if row.QuizQuestions, err = marshalJSON(s.QuizQuestions, "quiz_questions"); err != nil {
		return nil, err
	}
	if row.WrittenQuestions, err = marshalJSON(s.WrittenQuestions, "written_questions"); err != nil {
		return nil, err
	}
	if row.FillInBlanks, err = marshalJSON(s.FillInBlankQuestions, "fill_in_blank_questions"); err != nil {
		return nil, err
	}
	if row.Progress, err = marshalJSON(s.Progress, "progress"); err != nil {
		return nil, err
	}
	if row.UserAnswers, err = marshalJSON(s.UserAnswers, "user_answers"); err != nil {
		return nil, err
	}
	return row, nil
}

func materialSetFromRow(row *studyMaterialRow) (*entity.StudyMaterialSet, error) {
	s := &entity.StudyMaterialSet{
		ID:               row.ID,
		KnowledgeGraphID: row.KnowledgeGraphID,
		OwnerID:          row.OwnerID,
		Notes:            row.Notes,
		GenerationMethod: entity.GenerationMethod(row.GenerationMethod),
		Model:            row.Model,
		Title:            row.Title,
		Emoji:            row.Emoji,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
	if err := unmarshalJSON(row.Flashcards, &s.Flashcards, "flashcards"); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(row.QuizQuestions, &s.QuizQuestions, "quiz_questions"); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(row.WrittenQuestions, &s.WrittenQuestions, "written_questions"); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(row.FillInBlanks, &s.FillInBlankQuestions, "fill_in_blank_questions"); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(row.Progress, &s.Progress, "progress"); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(row.UserAnswers, &s.UserAnswers, "user_answers"); err != nil {
		return nil, err
	}
	return s, nil
}

// Migrate creates or updates the store tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&knowledgeGraphRow{}, &studyMaterialRow{})
}
