package learning

import (
	"encoding/json"
	"strings"
	"unicode"

	"github.com/samber/lo"
)

// rawFlashcard accepts the front/back naming some models fall back to.
type rawFlashcard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Front    string `json:"front"`
	Back     string `json:"back"`
}

type rawQuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	Correct       string   `json:"correct"`
	CorrectAnswer string   `json:"correctAnswer"`
	Answer        string   `json:"answer"`
}

var materialKeys = []string{"flashcards", "quiz", "studyGuide", "assignment"}

// decodeObject builds a Material from a parsed JSON object, accepting both the
// {"type","content"} envelope and a bare material. Each field is decoded on its
// own so one malformed field does not discard the others.
func decodeObject(obj map[string]json.RawMessage) Material {
	hasField := lo.SomeBy(materialKeys, func(k string) bool {
		_, ok := obj[k]
		return ok
	})
	if !hasField {
		if inner, ok := obj["content"]; ok {
			var content map[string]json.RawMessage
			if err := json.Unmarshal(inner, &content); err == nil {
				obj = content
			}
		}
	}

	return Material{
		Flashcards: decodeFlashcards(obj["flashcards"]),
		Quiz:       decodeQuiz(obj["quiz"]),
		StudyGuide: decodeText(obj["studyGuide"]),
		Assignment: decodeText(obj["assignment"]),
	}
}

func decodeFlashcards(raw json.RawMessage) []Flashcard {
	var items []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil {
		return nil
	}
	return sanitizeFlashcards(decodeEach[rawFlashcard](items))
}

func decodeQuiz(raw json.RawMessage) []QuizQuestion {
	var items []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil {
		return nil
	}
	return sanitizeQuiz(decodeEach[rawQuizQuestion](items))
}

// decodeEach keeps every element that decodes into T and skips the rest.
func decodeEach[T any](items []json.RawMessage) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// decodeText reads a string field; an array of strings is joined with blank
// lines. Anything else yields "".
func decodeText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var parts []string
	if err := json.Unmarshal(raw, &parts); err == nil {
		parts = lo.Filter(lo.Map(parts, func(p string, _ int) string {
			return strings.TrimSpace(p)
		}), func(p string, _ int) bool { return p != "" })
		return strings.Join(parts, "\n\n")
	}
	return ""
}

func sanitizeFlashcards(cards []rawFlashcard) []Flashcard {
	out := make([]Flashcard, 0, len(cards))
	for _, c := range cards {
		q := strings.TrimSpace(lo.CoalesceOrEmpty(c.Question, c.Front))
		a := strings.TrimSpace(lo.CoalesceOrEmpty(c.Answer, c.Back))
		if q == "" || a == "" {
			continue
		}
		out = append(out, Flashcard{Question: q, Answer: a})
	}
	return out
}

// sanitizeQuiz enforces four options and a correct letter per question.
// Questions with fewer than four usable options or an unresolvable answer are
// dropped; extra options beyond the fourth are cut.
func sanitizeQuiz(questions []rawQuizQuestion) []QuizQuestion {
	out := make([]QuizQuestion, 0, len(questions))
	for _, q := range questions {
		text := strings.TrimSpace(q.Question)
		if text == "" {
			continue
		}
		options := lo.Filter(lo.Map(q.Options, func(o string, _ int) string {
			return strings.TrimSpace(o)
		}), func(o string, _ int) bool { return o != "" })
		if len(options) < 4 {
			continue
		}
		options = options[:4]

		correct, ok := normalizeCorrect(lo.CoalesceOrEmpty(q.Correct, q.CorrectAnswer, q.Answer), options)
		if !ok {
			continue
		}
		out = append(out, QuizQuestion{Question: text, Options: options, Correct: correct})
	}
	return out
}

var answerLetters = []string{"A", "B", "C", "D"}

// normalizeCorrect resolves "A", "b", "C)", "(D)", "Option B", "Answer: A" or
// the text of an option to a letter between A and D.
func normalizeCorrect(raw string, options []string) (string, bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return "", false
	}
	for _, prefix := range []string{"ANSWER:", "ANSWER", "OPTION", "CORRECT:"} {
		s = strings.TrimSpace(strings.TrimPrefix(s, prefix))
	}
	s = strings.TrimLeft(s, "( ")
	if s != "" && s[0] >= 'A' && s[0] <= 'D' {
		if len(s) == 1 || !unicode.IsLetter(rune(s[1])) {
			return s[:1], true
		}
	}

	want := stripOptionLabel(raw)
	for i, opt := range options {
		if strings.EqualFold(stripOptionLabel(opt), want) {
			return answerLetters[i], true
		}
	}
	return "", false
}

// stripOptionLabel removes a leading "A) ", "b. " or "(C) " label.
func stripOptionLabel(s string) string {
	s = strings.TrimSpace(s)
	t := strings.TrimPrefix(s, "(")
	if len(t) >= 2 {
		first := unicode.ToUpper(rune(t[0]))
		if first >= 'A' && first <= 'D' && (t[1] == ')' || t[1] == '.' || t[1] == ':') {
			return strings.TrimSpace(t[2:])
		}
	}
	return s
}
