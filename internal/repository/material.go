package repository

import (
	"context"

	"github.com/studypup/studypup/internal/entity"
)

// MaterialSetPatch is a partial update for a stored material set. Nil
// fields are left untouched; material collections are replaced wholesale,
// never merged item-by-item.
type MaterialSetPatch struct {
	Flashcards           []entity.Flashcard
	QuizQuestions        []entity.QuizQuestion
	WrittenQuestions     []entity.WrittenQuestion
	FillInBlankQuestions []entity.FillInBlankQuestion
	Notes                *string
	GenerationMethod     *entity.GenerationMethod
	Model                *string
	Progress             *entity.Progress
	UserAnswers          *entity.UserAnswers
}

// StudyMaterialRepository defines the local-cache-first store for derived
// material sets. Like the graph store, all operations tolerate an empty
// store.
type StudyMaterialRepository interface {
	Save(ctx context.Context, set *entity.StudyMaterialSet) error
	Get(ctx context.Context, id string) (*entity.StudyMaterialSet, error)
	// GetByGraphID returns the set derived from the given graph, or nil.
	GetByGraphID(ctx context.Context, graphID string) (*entity.StudyMaterialSet, error)
	// Update applies a partial update and returns the stored result.
	// Returns entity.ErrMaterialSetNotFound when no set has the id.
	Update(ctx context.Context, id string, patch *MaterialSetPatch) (*entity.StudyMaterialSet, error)
	List(ctx context.Context, ownerID string) ([]*entity.StudyMaterialSet, error)
	Delete(ctx context.Context, id string) error
}
