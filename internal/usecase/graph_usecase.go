package usecase

import (
	"context"
	"strings"

	"github.com/studypup/studypup/internal/entity"
	"github.com/studypup/studypup/internal/repository"
)

// GraphUsecase manages stored knowledge graphs.
type GraphUsecase interface {
	Get(ctx context.Context, id string) (*entity.KnowledgeGraph, error)
	List(ctx context.Context, query *repository.ListGraphQuery) ([]*entity.KnowledgeGraph, error)
	// Delete removes a graph together with its derived material set.
	Delete(ctx context.Context, id string) error
}

type graphUsecase struct {
	graphs    repository.KnowledgeGraphRepository
	materials repository.StudyMaterialRepository
}

func NewGraphUsecase(graphs repository.KnowledgeGraphRepository, materials repository.StudyMaterialRepository) GraphUsecase {
	return &graphUsecase{graphs: graphs, materials: materials}
}

func (u *graphUsecase) Get(ctx context.Context, id string) (*entity.KnowledgeGraph, error) {
	if strings.TrimSpace(id) == "" {
		return nil, entity.ErrGraphNotFound
	}
	return u.graphs.Get(ctx, id)
}

func (u *graphUsecase) List(ctx context.Context, query *repository.ListGraphQuery) ([]*entity.KnowledgeGraph, error) {
	return u.graphs.List(ctx, query)
}

func (u *graphUsecase) Delete(ctx context.Context, id string) error {
	set, err := u.materials.GetByGraphID(ctx, id)
	if err != nil {
		return err
	}
	if set != nil {
		if err := u.materials.Delete(ctx, set.ID); err != nil {
			return err
		}
	}
	return u.graphs.Delete(ctx, id)
}
