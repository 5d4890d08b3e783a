package learning

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	in := LearnerInputs{
		Topic:         "Photosynthesis",
		Goal:          "Pass my biology exam",
		Level:         "Beginner",
		LearningStyle: StylePracticeQuizzes,
	}

	got := BuildPrompt(in, 0)

	assert.Contains(t, got, "Topic: Photosynthesis")
	assert.Contains(t, got, "Goal: Pass my biology exam")
	assert.Contains(t, got, "Current Level: Beginner")
	assert.Contains(t, got, `"type": "learning_material"`)
	assert.Contains(t, got, "Always fill ALL four fields")
	assert.Contains(t, got, "15-20 quiz questions")
	assert.NotContains(t, got, "Source Document:")
	assert.Equal(t, got, BuildPrompt(in, 0))
}

func TestBuildPromptStyleGuidance(t *testing.T) {
	for _, style := range Styles {
		got := BuildPrompt(LearnerInputs{Topic: "t", Goal: "g", Level: "l", LearningStyle: style}, 0)
		assert.Contains(t, got, styleGuidance[style], style)
	}
}

func TestBuildPromptSourceDocument(t *testing.T) {
	in := LearnerInputs{
		Topic:          "Go",
		Goal:           "Learn channels",
		Level:          "Intermediate",
		LearningStyle:  StyleStudyGuide,
		SourceDocument: "Channels are typed conduits.",
	}

	got := BuildPrompt(in, 0)
	assert.Contains(t, got, "Source Document:\n\"\"\"\nChannels are typed conduits.\n\"\"\"")
	assert.Contains(t, got, "primarily on the source document")

	in.SourceDocument = "  \n\t "
	assert.NotContains(t, BuildPrompt(in, 0), "Source Document:")
}

func TestBuildPromptTruncatesSource(t *testing.T) {
	in := LearnerInputs{
		Topic:          "t",
		Goal:           "g",
		Level:          "l",
		LearningStyle:  StyleFlashcards,
		SourceDocument: strings.Repeat("é", 50),
	}

	got := BuildPrompt(in, 10)
	assert.Contains(t, got, strings.Repeat("é", 10)+"\n[source document truncated]")
	assert.NotContains(t, got, strings.Repeat("é", 11))
}
