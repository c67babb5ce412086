// Package usecase holds the business logic between transports and stores:
// the content-to-materials pipeline, content conversion, and graph and
// material management.
package usecase

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/studypup/studypup/internal/derive"
	"github.com/studypup/studypup/internal/entity"
	"github.com/studypup/studypup/internal/repository"
	"github.com/studypup/studypup/pkg/contenthash"
)

// GenerateInput carries one pipeline run request.
type GenerateInput struct {
	OwnerID    string
	Content    string
	SourceType entity.SourceType
	Metadata   map[string]any
	// Methods are study-method names; unknown names are dropped. Empty
	// means all material types.
	Methods []string
	// UseAI selects AI-first generation with template fallback. When
	// false the template engine is used directly.
	UseAI bool
}

// GenerateResult reports what the pipeline produced.
type GenerateResult struct {
	Graph     *entity.KnowledgeGraph
	Materials *entity.StudyMaterialSet
	// GraphReused is true when an existing graph matched the content hash.
	GraphReused bool
	// Generated lists the material types produced by this run; types
	// already populated on the existing set are skipped.
	Generated []entity.MaterialType
}

// PipelineUsecase runs content through hashing, graph extraction and
// material generation.
type PipelineUsecase interface {
	Generate(ctx context.Context, input *GenerateInput) (*GenerateResult, error)
}

type pipelineUsecase struct {
	graphs    repository.KnowledgeGraphRepository
	materials repository.StudyMaterialRepository
	extractor ConceptExtractor
	generator MaterialGenerator
	log       *logrus.Logger
}

func NewPipelineUsecase(
	graphs repository.KnowledgeGraphRepository,
	materials repository.StudyMaterialRepository,
	extractor ConceptExtractor,
	generator MaterialGenerator,
	log *logrus.Logger,
) PipelineUsecase {
	return &pipelineUsecase{
		graphs:    graphs,
		materials: materials,
		extractor: extractor,
		generator: generator,
		log:       log,
	}
}

func (u *pipelineUsecase) Generate(ctx context.Context, input *GenerateInput) (*GenerateResult, error) {
	if strings.TrimSpace(input.OwnerID) == "" {
		return nil, entity.ErrInvalidOwnerID
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, entity.ErrInvalidContent
	}

	methods := input.Methods
	if len(methods) == 0 {
		methods = []string{"quiz", "flashcards", "written", "fill", "notes"}
	}
	types := entity.ParseMaterialTypes(methods)
	if len(types) == 0 {
		return nil, entity.ErrNoMaterialTypesRequested
	}

	hash := contenthash.Hash(input.Content)

	graph, reused, err := u.getOrCreateGraph(ctx, input, hash)
	if err != nil {
		return nil, err
	}

	existing, err := u.materials.GetByGraphID(ctx, graph.ID)
	if err != nil {
		return nil, err
	}

	// Gap-fill: only types that are requested and not already populated.
	missing := make([]entity.MaterialType, 0, len(types))
	for _, t := range types {
		if !existing.IsPopulated(t) {
			missing = append(missing, t)
		}
	}
	if len(missing) == 0 {
		return &GenerateResult{Graph: graph, Materials: existing, GraphReused: reused}, nil
	}

	generated, method, model := u.generateMaterials(ctx, graph, missing, input.UseAI)

	set, err := u.persistMaterials(ctx, graph, existing, generated, method, model)
	if err != nil {
		return nil, err
	}
	return &GenerateResult{Graph: graph, Materials: set, GraphReused: reused, Generated: missing}, nil
}

func (u *pipelineUsecase) getOrCreateGraph(ctx context.Context, input *GenerateInput, hash string) (*entity.KnowledgeGraph, bool, error) {
	graph, err := u.graphs.GetByContentHash(ctx, input.OwnerID, hash)
	if err != nil {
		return nil, false, err
	}
	if graph != nil {
		u.log.WithField("graph_id", graph.ID).Info("reusing knowledge graph for matching content")
		return graph, true, nil
	}

	concepts, title, emoji, err := u.extractor.Extract(ctx, input.Content)
	if err != nil {
		return nil, false, err
	}

	graph = entity.NewKnowledgeGraph(input.OwnerID, entity.KnowledgeGraphSource{
		Type:        input.SourceType,
		ContentHash: hash,
		Metadata:    input.Metadata,
	}, concepts)
	graph.Title = title
	graph.Emoji = emoji
	if err := u.graphs.Save(ctx, graph); err != nil {
		return nil, false, err
	}
	return graph, false, nil
}

// generateMaterials tries the AI generator for all missing types and falls
// back to the template engine for the whole batch on any failure. A set is
// never half AI and half template within one run.
func (u *pipelineUsecase) generateMaterials(ctx context.Context, graph *entity.KnowledgeGraph, missing []entity.MaterialType, useAI bool) (*derive.Materials, entity.GenerationMethod, string) {
	if useAI && u.generator != nil {
		generated, err := u.generator.Generate(ctx, graph, missing)
		if err == nil {
			return generated, entity.GenerationMethodAI, u.generator.Model()
		}
		u.log.WithError(err).Warn("AI generation failed, falling back to templates")
	}
	derived := derive.All(graph).Select(missing)
	return &derived, entity.GenerationMethodTemplate, ""
}

func (u *pipelineUsecase) persistMaterials(ctx context.Context, graph *entity.KnowledgeGraph, existing *entity.StudyMaterialSet, generated *derive.Materials, method entity.GenerationMethod, model string) (*entity.StudyMaterialSet, error) {
	if existing == nil {
		set := entity.NewStudyMaterialSet(graph.ID, graph.OwnerID, method)
		set.Flashcards = generated.Flashcards
		set.QuizQuestions = generated.QuizQuestions
		set.WrittenQuestions = generated.WrittenQuestions
		set.FillInBlankQuestions = generated.FillInBlankQuestions
		set.Notes = generated.Notes
		set.Model = model
		set.Title = graph.Title
		set.Emoji = graph.Emoji
		if err := u.materials.Save(ctx, set); err != nil {
			return nil, err
		}
		return set, nil
	}

	// Merge: newly generated non-empty collections win, prior values are
	// kept everywhere else.
	patch := &repository.MaterialSetPatch{GenerationMethod: &method}
	if len(generated.Flashcards) > 0 {
		patch.Flashcards = generated.Flashcards
	}
	if len(generated.QuizQuestions) > 0 {
		patch.QuizQuestions = generated.QuizQuestions
	}
	if len(generated.WrittenQuestions) > 0 {
		patch.WrittenQuestions = generated.WrittenQuestions
	}
	if len(generated.FillInBlankQuestions) > 0 {
		patch.FillInBlankQuestions = generated.FillInBlankQuestions
	}
	if generated.Notes != "" {
		patch.Notes = &generated.Notes
	}
	if model != "" {
		patch.Model = &model
	}
	return u.materials.Update(ctx, existing.ID, patch)
}
