package entity

import "math"

// CategoryStat pairs correct answers with the category's total item count.
type CategoryStat struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// StudySetSummary is the library-listing view of a material set: display
// fields plus per-category stats and an overall mastery percentage.
type StudySetSummary struct {
	ID               string   `json:"id"`
	KnowledgeGraphID string   `json:"knowledge_graph_id"`
	Title            string   `json:"title"`
	Emoji            string   `json:"emoji"`
	CreatedAt        string   `json:"created_at"`
	Mastery          int      `json:"mastery"` // 0-100
	Stats            SetStats `json:"stats"`
}

// SetStats groups the per-category answer stats for one set.
type SetStats struct {
	MultipleChoice CategoryStat `json:"multiple_choice"`
	Flashcards     CategoryStat `json:"flashcards"`
	FillInBlanks   CategoryStat `json:"fill_in_blanks"`
	Written        CategoryStat `json:"written"`
}

// Mastery computes the overall mastery percentage across categories that
// have at least one item.
func (s SetStats) Mastery() int {
	correct, total := 0, 0
	for _, stat := range []CategoryStat{s.MultipleChoice, s.Flashcards, s.FillInBlanks, s.Written} {
		if stat.Total > 0 {
			correct += stat.Correct
			total += stat.Total
		}
	}
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

// Summarize maps a stored material set to its library summary.
func Summarize(m *StudyMaterialSet) StudySetSummary {
	title := m.Title
	if title == "" {
		title = "Study Set"
	}
	emoji := m.Emoji
	if emoji == "" {
		emoji = "📚"
	}
	var p Progress
	if m.Progress != nil {
		p = *m.Progress
	}
	stats := SetStats{
		MultipleChoice: CategoryStat{Correct: p.MultipleChoice, Total: len(m.QuizQuestions)},
		Flashcards:     CategoryStat{Correct: p.Flashcards, Total: len(m.Flashcards)},
		FillInBlanks:   CategoryStat{Correct: p.FillInBlanks, Total: len(m.FillInBlankQuestions)},
		Written:        CategoryStat{Correct: p.Written, Total: len(m.WrittenQuestions)},
	}
	return StudySetSummary{
		ID:               m.ID,
		KnowledgeGraphID: m.KnowledgeGraphID,
		Title:            title,
		Emoji:            emoji,
		CreatedAt:        m.CreatedAt.Format("Jan 2, 2006"),
		Mastery:          stats.Mastery(),
		Stats:            stats,
	}
}
