// Package derive is the template derivation engine: pure mappings from a
// knowledge graph to each study material type, with no external calls.
//
// This is the offline fallback path and the reference semantics for the
// AI-backed generator: both produce the same structural shapes, so
// downstream consumers treat the two interchangeably. Distractor and
// option shuffling is randomized and may vary between calls; everything
// else is deterministic.
package derive

import (
	"github.com/studypup/studypup/internal/entity"
)

// Materials bundles the output of all five derivations.
type Materials struct {
	Flashcards           []entity.Flashcard
	QuizQuestions        []entity.QuizQuestion
	WrittenQuestions     []entity.WrittenQuestion
	FillInBlankQuestions []entity.FillInBlankQuestion
	Notes                string
}

// All derives every material type from the graph. There is no per-type
// entry point for callers that want a subset; derivation is pure local
// computation, so computing unused types and discarding them is cheap.
func All(graph *entity.KnowledgeGraph) Materials {
	return Materials{
		Flashcards:           Flashcards(graph),
		QuizQuestions:        QuizQuestions(graph),
		WrittenQuestions:     WrittenQuestions(graph),
		FillInBlankQuestions: FillInBlankQuestions(graph),
		Notes:                Notes(graph),
	}
}

// Select returns the derived value for each requested type and the zero
// value for the rest.
func (m Materials) Select(types []entity.MaterialType) Materials {
	requested := make(map[entity.MaterialType]struct{}, len(types))
	for _, t := range types {
		requested[t] = struct{}{}
	}
	var out Materials
	if _, ok := requested[entity.MaterialTypeFlashcards]; ok {
		out.Flashcards = m.Flashcards
	}
	if _, ok := requested[entity.MaterialTypeQuiz]; ok {
		out.QuizQuestions = m.QuizQuestions
	}
	if _, ok := requested[entity.MaterialTypeWritten]; ok {
		out.WrittenQuestions = m.WrittenQuestions
	}
	if _, ok := requested[entity.MaterialTypeFill]; ok {
		out.FillInBlankQuestions = m.FillInBlankQuestions
	}
	if _, ok := requested[entity.MaterialTypeNotes]; ok {
		out.Notes = m.Notes
	}
	return out
}
