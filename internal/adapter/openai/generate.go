package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/studypup/studypup/internal/derive"
	"github.com/studypup/studypup/internal/entity"
)

// Default item counts per material type.
const (
	defaultFlashcardCount = 10
	defaultQuizCount      = 10
	defaultWrittenCount   = 5
	defaultFillCount      = 10
)

// MaterialGenerator produces study materials with the chat model. Each
// material type is an independent request; requested types run in parallel
// and any single failure fails the batch so the caller can fall back to
// templates as a whole.
type MaterialGenerator struct {
	client *Client
}

func NewMaterialGenerator(client *Client) *MaterialGenerator {
	return &MaterialGenerator{client: client}
}

// Model reports which chat model generated materials are attributed to.
func (g *MaterialGenerator) Model() string { return g.client.Model() }

// Generate produces the requested material types for the graph.
func (g *MaterialGenerator) Generate(ctx context.Context, graph *entity.KnowledgeGraph, types []entity.MaterialType) (*derive.Materials, error) {
	if !g.client.Configured() {
		return nil, entity.ErrAINotConfigured
	}

	var out derive.Materials
	eg, ctx := errgroup.WithContext(ctx)
	for _, t := range types {
		switch t {
		case entity.MaterialTypeFlashcards:
			eg.Go(func() error {
				cards, err := g.flashcards(ctx, graph)
				out.Flashcards = cards
				return err
			})
		case entity.MaterialTypeQuiz:
			eg.Go(func() error {
				questions, err := g.quizQuestions(ctx, graph)
				out.QuizQuestions = questions
				return err
			})
		case entity.MaterialTypeWritten:
			eg.Go(func() error {
				questions, err := g.writtenQuestions(ctx, graph)
				out.WrittenQuestions = questions
				return err
			})
		case entity.MaterialTypeFill:
			eg.Go(func() error {
				questions, err := g.fillInBlanks(ctx, graph)
				out.FillInBlankQuestions = questions
				return err
			})
		case entity.MaterialTypeNotes:
			eg.Go(func() error {
				notes, err := g.notes(ctx, graph)
				out.Notes = notes
				return err
			})
		}
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

// ReviseNotes rewrites existing notes per a user instruction, preserving
// the heading structure. The revision is rejected if the model breaks it.
func (g *MaterialGenerator) ReviseNotes(ctx context.Context, notes, instruction string) (string, error) {
	if !g.client.Configured() {
		return "", entity.ErrAINotConfigured
	}
	user := fmt.Sprintf("Current notes:\n\n%s\n\nUser request: %s\n\nReturn JSON: { \"notes\": \"revised markdown here\" }", notes, instruction)
	var result struct {
		Notes string `json:"notes"`
	}
	if err := g.client.generateJSON(ctx, reviseNotesSystemPrompt, user, chatOptions{Temperature: 0.5, MaxTokens: 4000}, &result); err != nil {
		return "", fmt.Errorf("revise notes: %w", err)
	}
	if !derive.ValidNotes(result.Notes) {
		return "", fmt.Errorf("revise notes: model output broke the notes structure")
	}
	return result.Notes, nil
}

func conceptsJSON(graph *entity.KnowledgeGraph) string {
	raw, err := json.MarshalIndent(graph.Concepts, "", "  ")
	if err != nil {
		return "[]"
	}
	return string(raw)
}

// fallbackConceptID keeps model-invented concept references from leaking
// into stored materials; unknown ids fall back to the first concept.
func fallbackConceptID(graph *entity.KnowledgeGraph, id string) string {
	if graph.Concept(id) != nil {
		return id
	}
	if len(graph.Concepts) > 0 {
		return graph.Concepts[0].ID
	}
	return id
}

func (g *MaterialGenerator) flashcards(ctx context.Context, graph *entity.KnowledgeGraph) ([]entity.Flashcard, error) {
	user := fmt.Sprintf(`Create %d flashcards from this knowledge graph:

%s

Return JSON in this exact format:
{
  "flashcards": [
    {
      "concept_id": "concept_id_from_graph",
      "front": "Question on the front",
      "back": "Answer on the back"
    }
  ]
}`, defaultFlashcardCount, conceptsJSON(graph))

	var result struct {
		Flashcards []struct {
			ConceptID string `json:"concept_id"`
			Front     string `json:"front"`
			Back      string `json:"back"`
		} `json:"flashcards"`
	}
	if err := g.client.generateJSON(ctx, flashcardsSystemPrompt, user, chatOptions{Temperature: 0.7}, &result); err != nil {
		return nil, fmt.Errorf("generate flashcards: %w", err)
	}
	if len(result.Flashcards) == 0 {
		return nil, fmt.Errorf("generate flashcards: model returned none")
	}

	cards := make([]entity.Flashcard, 0, len(result.Flashcards))
	for i, fc := range result.Flashcards {
		if strings.TrimSpace(fc.Front) == "" || strings.TrimSpace(fc.Back) == "" {
			continue
		}
		cards = append(cards, entity.Flashcard{
			ID:        fmt.Sprintf("fc_ai_%s_%d", graph.ID, i),
			ConceptID: fallbackConceptID(graph, fc.ConceptID),
			Front:     fc.Front,
			Back:      fc.Back,
		})
	}
	return cards, nil
}

func (g *MaterialGenerator) quizQuestions(ctx context.Context, graph *entity.KnowledgeGraph) ([]entity.QuizQuestion, error) {
	user := fmt.Sprintf(`Create %d multiple-choice quiz questions from this knowledge graph:

%s

Return JSON in this exact format:
{
  "questions": [
    {
      "concept_id": "concept_id_from_graph",
      "question": "The question text",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "correct_answer_index": 0,
      "explanation": "Why this answer is correct"
    }
  ]
}`, defaultQuizCount, conceptsJSON(graph))

	var result struct {
		Questions []struct {
			ConceptID          string   `json:"concept_id"`
			Question           string   `json:"question"`
			Options            []string `json:"options"`
			CorrectAnswerIndex int      `json:"correct_answer_index"`
			Explanation        string   `json:"explanation"`
		} `json:"questions"`
	}
	if err := g.client.generateJSON(ctx, quizSystemPrompt, user, chatOptions{Temperature: 0.7}, &result); err != nil {
		return nil, fmt.Errorf("generate quiz questions: %w", err)
	}
	if len(result.Questions) == 0 {
		return nil, fmt.Errorf("generate quiz questions: model returned none")
	}

	questions := make([]entity.QuizQuestion, 0, len(result.Questions))
	for i, q := range result.Questions {
		if len(q.Options) < 2 || q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex >= len(q.Options) {
			continue
		}
		questions = append(questions, entity.QuizQuestion{
			ID:                 fmt.Sprintf("quiz_ai_%s_%d", graph.ID, i),
			ConceptID:          fallbackConceptID(graph, q.ConceptID),
			Question:           q.Question,
			Options:            q.Options,
			CorrectAnswerIndex: q.CorrectAnswerIndex,
			Explanation:        q.Explanation,
		})
	}
	return questions, nil
}

func (g *MaterialGenerator) writtenQuestions(ctx context.Context, graph *entity.KnowledgeGraph) ([]entity.WrittenQuestion, error) {
	user := fmt.Sprintf(`Create %d short-answer questions from this knowledge graph:

%s

Return JSON in this exact format:
{
  "questions": [
    {
      "concept_id": "concept_id_from_graph",
      "question": "The essay question",
      "rubric": ["Point 1 student should address", "Point 2 student should address"],
      "sample_answer": "Example of a good answer"
    }
  ]
}`, defaultWrittenCount, conceptsJSON(graph))

	var result struct {
		Questions []struct {
			ConceptID    string   `json:"concept_id"`
			Question     string   `json:"question"`
			Rubric       []string `json:"rubric"`
			SampleAnswer string   `json:"sample_answer"`
		} `json:"questions"`
	}
	if err := g.client.generateJSON(ctx, writtenSystemPrompt, user, chatOptions{Temperature: 0.7}, &result); err != nil {
		return nil, fmt.Errorf("generate written questions: %w", err)
	}
	if len(result.Questions) == 0 {
		return nil, fmt.Errorf("generate written questions: model returned none")
	}

	questions := make([]entity.WrittenQuestion, 0, len(result.Questions))
	for i, q := range result.Questions {
		questions = append(questions, entity.WrittenQuestion{
			ID:           fmt.Sprintf("written_ai_%s_%d", graph.ID, i),
			ConceptID:    fallbackConceptID(graph, q.ConceptID),
			Question:     q.Question,
			Rubric:       q.Rubric,
			SampleAnswer: q.SampleAnswer,
		})
	}
	return questions, nil
}

func (g *MaterialGenerator) fillInBlanks(ctx context.Context, graph *entity.KnowledgeGraph) ([]entity.FillInBlankQuestion, error) {
	user := fmt.Sprintf(`Create %d fill-in-the-blank questions from this knowledge graph:

%s

Return JSON in this exact format:
{
  "questions": [
    {
      "concept_id": "concept_id_from_graph",
      "text": "Text with ___ indicating the blank",
      "answer": "The correct word or phrase",
      "context": "Additional context if needed"
    }
  ]
}`, defaultFillCount, conceptsJSON(graph))

	var result struct {
		Questions []struct {
			ConceptID string `json:"concept_id"`
			Text      string `json:"text"`
			Answer    string `json:"answer"`
			Context   string `json:"context"`
		} `json:"questions"`
	}
	if err := g.client.generateJSON(ctx, fillSystemPrompt, user, chatOptions{Temperature: 0.7}, &result); err != nil {
		return nil, fmt.Errorf("generate fill-in-the-blank questions: %w", err)
	}
	if len(result.Questions) == 0 {
		return nil, fmt.Errorf("generate fill-in-the-blank questions: model returned none")
	}

	questions := make([]entity.FillInBlankQuestion, 0, len(result.Questions))
	for i, q := range result.Questions {
		if !strings.Contains(q.Text, "___") || strings.TrimSpace(q.Answer) == "" {
			continue
		}
		questions = append(questions, entity.FillInBlankQuestion{
			ID:        fmt.Sprintf("fib_ai_%s_%d", graph.ID, i),
			ConceptID: fallbackConceptID(graph, q.ConceptID),
			Text:      q.Text,
			Answer:    q.Answer,
			Context:   q.Context,
		})
	}
	return questions, nil
}

func (g *MaterialGenerator) notes(ctx context.Context, graph *entity.KnowledgeGraph) (string, error) {
	user := fmt.Sprintf(`Convert this knowledge graph into structured notes using the EXACT format specified:

%s

Return JSON with the notes in markdown:
{
  "notes": "## 📌 Title\n\n..."
}`, conceptsJSON(graph))

	var result struct {
		Notes string `json:"notes"`
	}
	if err := g.client.generateJSON(ctx, notesSystemPrompt, user, chatOptions{Temperature: 0.7, MaxTokens: 4000}, &result); err != nil {
		return "", fmt.Errorf("generate notes: %w", err)
	}
	if strings.TrimSpace(result.Notes) == "" {
		return "", fmt.Errorf("generate notes: model returned empty notes")
	}
	return result.Notes, nil
}
