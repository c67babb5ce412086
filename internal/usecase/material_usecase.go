package usecase

import (
	"context"
	"strings"

	"github.com/studypup/studypup/internal/entity"
	"github.com/studypup/studypup/internal/repository"
)

// MaterialUsecase manages stored study material sets and the library view.
type MaterialUsecase interface {
	Get(ctx context.Context, id string) (*entity.StudyMaterialSet, error)
	GetByGraphID(ctx context.Context, graphID string) (*entity.StudyMaterialSet, error)
	// Update applies a caller patch (progress, answers, collections) and
	// returns the stored result.
	Update(ctx context.Context, id string, patch *repository.MaterialSetPatch) (*entity.StudyMaterialSet, error)
	// Library summarizes all of an owner's sets for the overview screen.
	Library(ctx context.Context, ownerID string) ([]entity.StudySetSummary, error)
	// ReviseNotes rewrites a set's notes per a user instruction and
	// persists the result.
	ReviseNotes(ctx context.Context, id, instruction string) (*entity.StudyMaterialSet, error)
}

type materialUsecase struct {
	materials repository.StudyMaterialRepository
	generator MaterialGenerator
}

func NewMaterialUsecase(materials repository.StudyMaterialRepository, generator MaterialGenerator) MaterialUsecase {
	return &materialUsecase{materials: materials, generator: generator}
}

func (u *materialUsecase) Get(ctx context.Context, id string) (*entity.StudyMaterialSet, error) {
	if strings.TrimSpace(id) == "" {
		return nil, entity.ErrMaterialSetNotFound
	}
	return u.materials.Get(ctx, id)
}

func (u *materialUsecase) GetByGraphID(ctx context.Context, graphID string) (*entity.StudyMaterialSet, error) {
	set, err := u.materials.GetByGraphID(ctx, graphID)
	if err != nil {
		return nil, err
	}
	if set == nil {
		return nil, entity.ErrMaterialSetNotFound
	}
	return set, nil
}

func (u *materialUsecase) Update(ctx context.Context, id string, patch *repository.MaterialSetPatch) (*entity.StudyMaterialSet, error) {
	return u.materials.Update(ctx, id, patch)
}

func (u *materialUsecase) Library(ctx context.Context, ownerID string) ([]entity.StudySetSummary, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, entity.ErrInvalidOwnerID
	}
	sets, err := u.materials.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	summaries := make([]entity.StudySetSummary, 0, len(sets))
	for _, set := range sets {
		summaries = append(summaries, entity.Summarize(set))
	}
	return summaries, nil
}

func (u *materialUsecase) ReviseNotes(ctx context.Context, id, instruction string) (*entity.StudyMaterialSet, error) {
	set, err := u.materials.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(set.Notes) == "" {
		return nil, entity.ErrNotesNotPopulated
	}
	revised, err := u.generator.ReviseNotes(ctx, set.Notes, instruction)
	if err != nil {
		return nil, err
	}
	return u.materials.Update(ctx, id, &repository.MaterialSetPatch{Notes: &revised})
}
