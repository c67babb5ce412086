package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerationMethod records how the last populated batch of materials was
// produced. When a set accumulates a mix of AI and template output over
// successive calls, this is a coarse last-writer label.
type GenerationMethod string

const (
	GenerationMethodAI       GenerationMethod = "ai"
	GenerationMethodTemplate GenerationMethod = "template"
)

// MaterialType names one of the five derivable study material categories.
type MaterialType string

const (
	MaterialTypeFlashcards MaterialType = "flashcards"
	MaterialTypeQuiz       MaterialType = "quiz"
	MaterialTypeWritten    MaterialType = "written"
	MaterialTypeFill       MaterialType = "fill"
	MaterialTypeNotes      MaterialType = "notes"
)

// AllMaterialTypes lists every material type in canonical order.
var AllMaterialTypes = []MaterialType{
	MaterialTypeFlashcards,
	MaterialTypeQuiz,
	MaterialTypeWritten,
	MaterialTypeFill,
	MaterialTypeNotes,
}

// ParseMaterialTypes maps requested study-method names onto material types,
// dropping unknown names and duplicates while preserving order. A "tutor"
// request consumes notes as context, so it maps to notes.
func ParseMaterialTypes(methods []string) []MaterialType {
	seen := make(map[MaterialType]struct{}, len(methods))
	out := make([]MaterialType, 0, len(methods))
	for _, m := range methods {
		var t MaterialType
		switch strings.ToLower(strings.TrimSpace(m)) {
		case "flashcards":
			t = MaterialTypeFlashcards
		case "quiz":
			t = MaterialTypeQuiz
		case "written":
			t = MaterialTypeWritten
		case "fill":
			t = MaterialTypeFill
		case "notes", "tutor":
			t = MaterialTypeNotes
		default:
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Flashcard is a front/back study card derived from one concept.
type Flashcard struct {
	ID        string `json:"id"`
	ConceptID string `json:"concept_id"`
	Front     string `json:"front"`
	Back      string `json:"back"`
}

// QuizQuestion is a four-option multiple-choice question.
type QuizQuestion struct {
	ID                 string   `json:"id"`
	ConceptID          string   `json:"concept_id"`
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correct_answer_index"`
	Explanation        string   `json:"explanation,omitempty"`
}

// WrittenQuestion is a short-answer prompt with a grading rubric.
type WrittenQuestion struct {
	ID           string   `json:"id"`
	ConceptID    string   `json:"concept_id"`
	Question     string   `json:"question"`
	Rubric       []string `json:"rubric,omitempty"`
	SampleAnswer string   `json:"sample_answer,omitempty"`
}

// FillInBlankQuestion blanks a term out of a sentence; Text contains ___ at
// the blank location.
type FillInBlankQuestion struct {
	ID        string `json:"id"`
	ConceptID string `json:"concept_id"`
	Text      string `json:"text"`
	Answer    string `json:"answer"`
	Context   string `json:"context,omitempty"`
}

// Progress holds per-category correct-answer counts. Totals come from the
// material array lengths. Mutated by consumers, not by the pipeline.
type Progress struct {
	MultipleChoice int `json:"multiple_choice,omitempty"`
	Flashcards     int `json:"flashcards,omitempty"`
	FillInBlanks   int `json:"fill_in_blanks,omitempty"`
	Written        int `json:"written,omitempty"`
}

// WrittenAnswer records a user's response to a written or fill-in-the-blank
// question.
type WrittenAnswer struct {
	Answer      string `json:"answer"`
	Correct     bool   `json:"correct"`
	Explanation string `json:"explanation,omitempty"`
}

// UserAnswers keeps per-item responses for each study method.
type UserAnswers struct {
	QuizQuestions        map[string]int           `json:"quiz_questions,omitempty"`
	Flashcards           map[string]string        `json:"flashcards,omitempty"` // "correct" | "incorrect"
	WrittenQuestions     map[string]WrittenAnswer `json:"written_questions,omitempty"`
	FillInBlankQuestions map[string]WrittenAnswer `json:"fill_in_blank_questions,omitempty"`
}

// StudyMaterialSet bundles the derived artifacts for one knowledge graph.
// At most one set exists per graph, enforced by lookup-before-create.
type StudyMaterialSet struct {
	ID               string    `json:"id"`
	KnowledgeGraphID string    `json:"knowledge_graph_id"`
	OwnerID          string    `json:"owner_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Flashcards           []Flashcard           `json:"flashcards"`
	QuizQuestions        []QuizQuestion        `json:"quiz_questions"`
	WrittenQuestions     []WrittenQuestion     `json:"written_questions"`
	FillInBlankQuestions []FillInBlankQuestion `json:"fill_in_blank_questions"`
	Notes                string                `json:"notes"`

	GenerationMethod GenerationMethod `json:"generation_method"`
	Model            string           `json:"model,omitempty"`
	Title            string           `json:"title,omitempty"`
	Emoji            string           `json:"emoji,omitempty"`

	Progress    *Progress    `json:"progress,omitempty"`
	UserAnswers *UserAnswers `json:"user_answers,omitempty"`
}

// NewStudyMaterialSet assembles an empty set for a graph with a fresh id
// and timestamps.
func NewStudyMaterialSet(graphID, ownerID string, method GenerationMethod) *StudyMaterialSet {
	now := time.Now().UTC()
	return &StudyMaterialSet{
		ID:               "mat_" + uuid.NewString(),
		KnowledgeGraphID: graphID,
		OwnerID:          ownerID,
		CreatedAt:        now,
		UpdatedAt:        now,
		GenerationMethod: method,
	}
}

// IsPopulated reports whether the collection for the given material type is
// non-empty. This is the single emptiness contract used for per-type
// gap-fill decisions.
func (s *StudyMaterialSet) IsPopulated(t MaterialType) bool {
	if s == nil {
		return false
	}
	switch t {
	case MaterialTypeFlashcards:
		return len(s.Flashcards) > 0
	case MaterialTypeQuiz:
		return len(s.QuizQuestions) > 0
	case MaterialTypeWritten:
		return len(s.WrittenQuestions) > 0
	case MaterialTypeFill:
		return len(s.FillInBlankQuestions) > 0
	case MaterialTypeNotes:
		return strings.TrimSpace(s.Notes) != ""
	default:
		return false
	}
}
