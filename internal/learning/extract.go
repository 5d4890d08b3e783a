package learning

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Field extraction is best-effort recovery for text that no longer parses as a
// whole. Each field is located with one linear-time RE2 search and recovered on
// its own; a field that cannot be recovered stays empty.
var (
	flashcardsStart = regexp.MustCompile(`"flashcards"\s*:\s*\[`)
	quizStart       = regexp.MustCompile(`"quiz"\s*:\s*\[`)
	studyGuideText  = regexp.MustCompile(`(?s)"studyGuide"\s*:\s*"((?:[^"\\]|\\.)*)`)
	assignmentText  = regexp.MustCompile(`(?s)"assignment"\s*:\s*"((?:[^"\\]|\\.)*)`)
	studyGuideList  = regexp.MustCompile(`"studyGuide"\s*:\s*\[`)
	assignmentList  = regexp.MustCompile(`"assignment"\s*:\s*\[`)
)

func (nz *Normalizer) extractFields(raw string) (Material, error) {
	m := Material{
		Flashcards: sanitizeFlashcards(extractArray[rawFlashcard](raw, flashcardsStart, nz.maxRepairClosers)),
		Quiz:       sanitizeQuiz(extractArray[rawQuizQuestion](raw, quizStart, nz.maxRepairClosers)),
		StudyGuide: extractText(raw, studyGuideText, studyGuideList, nz.maxRepairClosers),
		Assignment: extractText(raw, assignmentText, assignmentList, nz.maxRepairClosers),
	}
	if m.IsEmpty() {
		return m, errNoContent
	}
	return m, nil
}

// extractArray recovers the elements of the array that follows start. The
// fragment is bracket-balanced and parsed; if that fails, the longest run of
// leading elements that decode cleanly is kept.
func extractArray[T any](raw string, start *regexp.Regexp, maxClosers int) []T {
	loc := start.FindStringIndex(raw)
	if loc == nil {
		return nil
	}
	fragment := balancedPrefix(raw[loc[1]-1:])

	if repaired, err := RepairSyntax(fragment, maxClosers); err == nil {
		var items []json.RawMessage
		if err := json.Unmarshal([]byte(repaired), &items); err == nil {
			return decodeEach[T](items)
		}
	}
	return decodeEach[T](decodeArrayPrefix(fragment))
}

// decodeArrayPrefix streams array elements until the first one that fails.
func decodeArrayPrefix(fragment string) []json.RawMessage {
	dec := json.NewDecoder(strings.NewReader(fragment))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('[') {
		return nil
	}
	var items []json.RawMessage
	for dec.More() {
		var item json.RawMessage
		if err := dec.Decode(&item); err != nil {
			break
		}
		items = append(items, item)
	}
	return items
}

// extractText recovers a string field, tolerating a missing closing quote and
// raw control characters inside the literal. A list of strings is accepted too.
func extractText(raw string, text, list *regexp.Regexp, maxClosers int) string {
	if sub := text.FindStringSubmatch(raw); sub != nil {
		return unquoteLenient(sub[1])
	}
	loc := list.FindStringIndex(raw)
	if loc == nil {
		return ""
	}
	repaired, err := RepairSyntax(balancedPrefix(raw[loc[1]-1:]), maxClosers)
	if err != nil {
		return ""
	}
	return decodeText(json.RawMessage(repaired))
}

var controlEscaper = strings.NewReplacer("\n", `\n`, "\r", `\r`, "\t", `\t`)

func unquoteLenient(body string) string {
	var s string
	if err := json.Unmarshal([]byte(`"`+controlEscaper.Replace(body)+`"`), &s); err != nil {
		return strings.TrimSpace(body)
	}
	return strings.TrimSpace(s)
}
