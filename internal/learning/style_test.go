package learning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLearningStyle(t *testing.T) {
	tests := []struct {
		in   string
		want LearningStyle
	}{
		{"Flashcards", StyleFlashcards},
		{"  practice   QUIZZES ", StylePracticeQuizzes},
		{"Study Guide", StyleStudyGuide},
		{"Practice Assignments", StylePracticeAssignments},
		{"quiz", StylePracticeQuizzes},
		{"flashcrds", StyleFlashcards},
		{"studyguide", StyleStudyGuide},
	}
	for _, tt := range tests {
		got, err := ParseLearningStyle(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseLearningStyleUnknown(t *testing.T) {
	for _, in := range []string{"", "   ", "xylophone"} {
		_, err := ParseLearningStyle(in)
		assert.ErrorIs(t, err, ErrUnknownLearningStyle, in)
	}
}
