package derive

import (
	"fmt"
	"math/rand"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/studypup/studypup/internal/entity"
)

// QuizQuestions builds a four-option multiple-choice question for every
// concept that has at least three other concepts to draw distractors from,
// and an additional step-ordering question for multi-step processes.
func QuizQuestions(graph *entity.KnowledgeGraph) []entity.QuizQuestion {
	questions := make([]entity.QuizQuestion, 0, len(graph.Concepts))
	for _, c := range graph.Concepts {
		others := lo.Filter(graph.Concepts, func(other entity.Concept, _ int) bool {
			return other.ID != c.ID
		})
		if len(others) >= 3 {
			questions = append(questions, definitionQuestion(c, others))
		}
		if len(c.ProcessSteps) > 1 {
			if q, ok := orderQuestion(c); ok {
				questions = append(questions, q)
			}
		}
	}
	return questions
}

// definitionQuestion asks for the concept's definition among three
// definitions of other concepts, all shuffled together.
func definitionQuestion(c entity.Concept, others []entity.Concept) entity.QuizQuestion {
	distractors := lo.Map(shuffled(others)[:3], func(other entity.Concept, _ int) string {
		return other.Definition
	})

	options := shuffled(append([]string{c.Definition}, distractors...))
	correct := slices.Index(options, c.Definition)

	return entity.QuizQuestion{
		ID:                 fmt.Sprintf("quiz_%s_def", c.ID),
		ConceptID:          c.ID,
		Question:           fmt.Sprintf("What is %s?", HumanizeConceptID(c.ID)),
		Options:            options,
		CorrectAnswerIndex: correct,
	}
}

// orderQuestion presents the correct step sequence next to shuffled
// permutations. Trivially-orderable sequences, where shuffling reproduces
// the original order, yield no question.
func orderQuestion(c entity.Concept) (entity.QuizQuestion, bool) {
	shuffledSteps := shuffled(c.ProcessSteps)
	if slices.Equal(shuffledSteps, c.ProcessSteps) {
		return entity.QuizQuestion{}, false
	}
	return entity.QuizQuestion{
		ID:        fmt.Sprintf("quiz_%s_order", c.ID),
		ConceptID: c.ID,
		Question:  fmt.Sprintf("What is the correct order of steps in %s?", HumanizeConceptID(c.ID)),
		Options: []string{
			strings.Join(c.ProcessSteps, " → "),
			strings.Join(shuffledSteps, " → "),
			strings.Join(shuffled(c.ProcessSteps), " → "),
			strings.Join(shuffled(c.ProcessSteps), " → "),
		},
		CorrectAnswerIndex: 0,
	}, true
}

// shuffled returns a shuffled copy, leaving the input untouched.
func shuffled[T any](in []T) []T {
	out := slices.Clone(in)
	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
