package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"learningpal/internal/learning"
)

func TestResolveModel(t *testing.T) {
	assert.Equal(t, "gemini-2.0-flash", resolveModel("gemini-flash", geminiModels))
	assert.Equal(t, "gemini-1.5-flash", resolveModel("gemini-1.5-flash", geminiModels))
	assert.Equal(t, "claude-sonnet-4-20250514", resolveModel("claude-sonnet", anthropicModels))
}

func TestBuildGeminiSchemaFromMaterial(t *testing.T) {
	schema := buildGeminiSchema(learning.MaterialSchema())

	assert.Equal(t, genai.TypeObject, schema.Type)
	require.Contains(t, schema.Properties, "quiz")
	assert.ElementsMatch(t, []string{"flashcards", "quiz", "studyGuide", "assignment"}, schema.Required)

	quiz := schema.Properties["quiz"]
	assert.Equal(t, genai.TypeArray, quiz.Type)
	require.NotNil(t, quiz.Items)

	options := quiz.Items.Properties["options"]
	require.NotNil(t, options)
	require.NotNil(t, options.MinItems)
	assert.Equal(t, int64(4), *options.MinItems)
	assert.Equal(t, []string{"A", "B", "C", "D"}, quiz.Items.Properties["correct"].Enum)
	assert.Equal(t, genai.TypeString, schema.Properties["studyGuide"].Type)
}
