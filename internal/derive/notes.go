package derive

import (
	"fmt"
	"strings"

	"github.com/studypup/studypup/internal/entity"
)

// The five-section notes contract. Consuming renderers key off these exact
// heading lines, so both the template and AI paths must reproduce them
// verbatim and in order.
const (
	HeadingTitle       = "## 📌 Title"
	HeadingCoreIdea    = "## 🧠 Core Idea"
	HeadingKeySections = "## ⚙️ Key Sections"
	HeadingEquations   = "## 🧮 Equations / Formulas (if applicable)"
	HeadingSummary     = "## ✨ Simplified Summary"
	HeadingWhyMatters  = "## ⭐ Why This Matters"
)

// NotesHeadings lists the required headings in contract order.
var NotesHeadings = []string{
	HeadingTitle,
	HeadingCoreIdea,
	HeadingKeySections,
	HeadingEquations,
	HeadingSummary,
	HeadingWhyMatters,
}

// ValidNotes reports whether notes contain every required heading in
// contract order.
func ValidNotes(notes string) bool {
	offset := 0
	for _, heading := range NotesHeadings {
		idx := strings.Index(notes[offset:], heading)
		if idx < 0 {
			return false
		}
		offset += idx + len(heading)
	}
	return true
}

// Notes renders the fixed five-section markdown document. Concepts are
// ordered so dependencies appear before their dependents; within that
// constraint the original concept order is preserved.
func Notes(graph *entity.KnowledgeGraph) string {
	topic := "Study Notes"
	if len(graph.Concepts) > 0 {
		topic = HumanizeConceptID(graph.Concepts[0].ID)
	}

	sorted := topologicalSort(graph.Concepts)

	var coreIdea strings.Builder
	sections := make([]string, 0, len(sorted))
	for _, c := range sorted {
		coreIdea.WriteString(c.Definition)
		coreIdea.WriteString(" ")

		var section strings.Builder
		fmt.Fprintf(&section, "### %s\n- Explanation:\n  %s\n", HumanizeConceptID(c.ID), c.Definition)
		if len(c.ProcessSteps) > 0 {
			section.WriteString("- Steps / Mechanism:\n")
			for _, step := range c.ProcessSteps {
				fmt.Fprintf(&section, "  - %s\n", step)
			}
		}
		sections = append(sections, section.String())
	}

	return fmt.Sprintf(`%s
%s

%s
%s

%s
%s

%s
Not applicable

%s
Key concepts from the material for quick review.

%s
Understanding these concepts helps with exams and real-world applications.
`,
		HeadingTitle, topic,
		HeadingCoreIdea, strings.TrimSpace(coreIdea.String()),
		HeadingKeySections, strings.Join(sections, "\n"),
		HeadingEquations,
		HeadingSummary,
		HeadingWhyMatters,
	)
}

// topologicalSort orders concepts dependencies-first via depth-first visit.
// Each concept is visited once; a dependency cycle therefore cannot loop,
// and ties (including cycle members) resolve by original array order.
// Dangling dependency ids are skipped.
func topologicalSort(concepts []entity.Concept) []entity.Concept {
	byID := make(map[string]*entity.Concept, len(concepts))
	for i := range concepts {
		byID[concepts[i].ID] = &concepts[i]
	}

	sorted := make([]entity.Concept, 0, len(concepts))
	visited := make(map[string]struct{}, len(concepts))

	var visit func(c *entity.Concept)
	visit = func(c *entity.Concept) {
		if _, done := visited[c.ID]; done {
			return
		}
		visited[c.ID] = struct{}{}
		for _, depID := range c.Dependencies {
			if dep, ok := byID[depID]; ok {
				visit(dep)
			}
		}
		sorted = append(sorted, *c)
	}

	for i := range concepts {
		visit(&concepts[i])
	}
	return sorted
}
