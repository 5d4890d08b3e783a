package learning

import (
	"errors"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

var ErrUnknownLearningStyle = errors.New("unknown learning style")

var styleAliases = map[string]LearningStyle{
	"flashcards":           StyleFlashcards,
	"flashcard":            StyleFlashcards,
	"flash cards":          StyleFlashcards,
	"practice quizzes":     StylePracticeQuizzes,
	"practice quizes":      StylePracticeQuizzes,
	"practice quiz":        StylePracticeQuizzes,
	"quiz":                 StylePracticeQuizzes,
	"quizzes":              StylePracticeQuizzes,
	"study guide":          StyleStudyGuide,
	"guide":                StyleStudyGuide,
	"practice assignments": StylePracticeAssignments,
	"practice assignment":  StylePracticeAssignments,
	"assignments":          StylePracticeAssignments,
	"assignment":           StylePracticeAssignments,
	"practice":             StylePracticeAssignments,
}

// ParseLearningStyle maps user-entered text onto a LearningStyle. Exact
// aliases win; otherwise the closest fuzzy match among the aliases is used.
func ParseLearningStyle(raw string) (LearningStyle, error) {
	key := strings.ToLower(strings.Join(strings.Fields(raw), " "))
	if key == "" {
		return "", ErrUnknownLearningStyle
	}
	if style, ok := styleAliases[key]; ok {
		return style, nil
	}

	targets := make([]string, 0, len(styleAliases))
	for alias := range styleAliases {
		targets = append(targets, alias)
	}
	ranks := fuzzy.RankFindNormalizedFold(key, targets)
	if len(ranks) == 0 {
		return "", ErrUnknownLearningStyle
	}
	best := ranks[0]
	for _, r := range ranks[1:] {
		if r.Distance < best.Distance || (r.Distance == best.Distance && r.Target < best.Target) {
			best = r
		}
	}
	return styleAliases[best.Target], nil
}
