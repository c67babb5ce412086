package derive

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/studypup/studypup/internal/entity"
)

// WrittenQuestions asks for an explanation of every concept, extending the
// prompt with sub-asks for each optional field present and pairing it with
// a rubric built from the same fields.
func WrittenQuestions(graph *entity.KnowledgeGraph) []entity.WrittenQuestion {
	questions := make([]entity.WrittenQuestion, 0, len(graph.Concepts))
	for _, c := range graph.Concepts {
		question := fmt.Sprintf("Explain %s.", HumanizeConceptID(c.ID))
		rubric := []string{fmt.Sprintf("Provides accurate definition: %s", c.Definition)}

		if len(c.Inputs) > 0 {
			question += " Include what inputs it requires."
			rubric = append(rubric, fmt.Sprintf("Mentions inputs: %s", strings.Join(c.Inputs, ", ")))
		}
		if len(c.Outputs) > 0 {
			question += " Include what outputs it produces."
			rubric = append(rubric, fmt.Sprintf("Mentions outputs: %s", strings.Join(c.Outputs, ", ")))
		}
		if len(c.ProcessSteps) > 0 {
			question += " Describe the main steps involved."
			rubric = append(rubric, "Describes process steps in order")
		}
		if len(c.Dependencies) > 0 {
			deps := lo.Map(c.Dependencies, func(id string, _ int) string {
				return HumanizeConceptID(id)
			})
			rubric = append(rubric, fmt.Sprintf("Explains relationship to: %s", strings.Join(deps, ", ")))
		}

		questions = append(questions, entity.WrittenQuestion{
			ID:        fmt.Sprintf("written_%s", c.ID),
			ConceptID: c.ID,
			Question:  question,
			Rubric:    rubric,
		})
	}
	return questions
}
