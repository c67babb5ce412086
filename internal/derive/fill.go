package derive

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/studypup/studypup/internal/entity"
)

const blankMarker = "___"

// maxKeywordBlanks caps the extra blank-the-term items emitted per concept.
const maxKeywordBlanks = 2

// FillInBlankQuestions blanks the concept's own humanized name out of its
// definition when the definition mentions it, then blanks up to two
// capitalized terms longer than five characters. Items are only emitted
// when the substitution actually changed the text, so no question is ever
// identical to its source sentence.
func FillInBlankQuestions(graph *entity.KnowledgeGraph) []entity.FillInBlankQuestion {
	questions := make([]entity.FillInBlankQuestion, 0, len(graph.Concepts))
	for _, c := range graph.Concepts {
		name := HumanizeConceptID(c.ID)

		if text, ok := blankConceptName(c.Definition, name); ok {
			questions = append(questions, entity.FillInBlankQuestion{
				ID:        fmt.Sprintf("fib_%s_name", c.ID),
				ConceptID: c.ID,
				Text:      text,
				Answer:    name,
			})
		}

		for _, keyword := range keywordCandidates(c.Definition) {
			text := strings.Replace(c.Definition, keyword, blankMarker, 1)
			if text == c.Definition {
				continue
			}
			questions = append(questions, entity.FillInBlankQuestion{
				ID:        fmt.Sprintf("fib_%s_%s", c.ID, strings.ToLower(keyword)),
				ConceptID: c.ID,
				Text:      text,
				Answer:    keyword,
			})
		}
	}
	return questions
}

// blankConceptName replaces the first whole-word, case-insensitive
// occurrence of name inside definition. Some definitions never mention
// their own concept name; those produce no item.
func blankConceptName(definition, name string) (string, bool) {
	pattern, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(name) + `\b`)
	if err != nil {
		return "", false
	}
	loc := pattern.FindStringIndex(definition)
	if loc == nil {
		return "", false
	}
	return definition[:loc[0]] + blankMarker + definition[loc[1]:], true
}

// keywordCandidates picks capitalized tokens longer than five characters, a
// cheap proxy for terms worth testing.
func keywordCandidates(definition string) []string {
	var candidates []string
	for _, word := range strings.Split(definition, " ") {
		if len(word) <= 5 {
			continue
		}
		runes := []rune(word)
		if !unicode.IsUpper(runes[0]) {
			continue
		}
		candidates = append(candidates, word)
		if len(candidates) == maxKeywordBlanks {
			break
		}
	}
	return candidates
}
