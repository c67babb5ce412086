package derive

import (
	"fmt"
	"strings"

	"github.com/studypup/studypup/internal/entity"
)

// Flashcards emits a definition card for every concept, plus an inputs,
// outputs, and numbered process-steps card for each optional field that is
// present. A concept with no optional fields yields exactly one card.
func Flashcards(graph *entity.KnowledgeGraph) []entity.Flashcard {
	cards := make([]entity.Flashcard, 0, len(graph.Concepts))
	for _, c := range graph.Concepts {
		name := HumanizeConceptID(c.ID)

		cards = append(cards, entity.Flashcard{
			ID:        fmt.Sprintf("fc_%s_def", c.ID),
			ConceptID: c.ID,
			Front:     fmt.Sprintf("What is %s?", name),
			Back:      c.Definition,
		})

		if len(c.Inputs) > 0 {
			cards = append(cards, entity.Flashcard{
				ID:        fmt.Sprintf("fc_%s_inputs", c.ID),
				ConceptID: c.ID,
				Front:     fmt.Sprintf("What are the inputs for %s?", name),
				Back:      strings.Join(c.Inputs, ", "),
			})
		}

		if len(c.Outputs) > 0 {
			cards = append(cards, entity.Flashcard{
				ID:        fmt.Sprintf("fc_%s_outputs", c.ID),
				ConceptID: c.ID,
				Front:     fmt.Sprintf("What are the outputs of %s?", name),
				Back:      strings.Join(c.Outputs, ", "),
			})
		}

		if len(c.ProcessSteps) > 0 {
			steps := make([]string, len(c.ProcessSteps))
			for i, step := range c.ProcessSteps {
				steps[i] = fmt.Sprintf("%d. %s", i+1, step)
			}
			cards = append(cards, entity.Flashcard{
				ID:        fmt.Sprintf("fc_%s_steps", c.ID),
				ConceptID: c.ID,
				Front:     fmt.Sprintf("What are the steps in %s?", name),
				Back:      strings.Join(steps, "\n"),
			})
		}
	}
	return cards
}
