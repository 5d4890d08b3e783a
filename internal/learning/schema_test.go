package learning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterialSchema(t *testing.T) {
	schema := MaterialSchema()
	require.NotNil(t, schema)

	assert.Equal(t, "object", schema["type"])
	assert.NotContains(t, schema, "$schema")
	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	for _, key := range materialKeys {
		assert.Contains(t, props, key)
	}
	assert.ElementsMatch(t, []any{"flashcards", "quiz", "studyGuide", "assignment"}, schema["required"])

	// Callers get their own copy.
	schema["type"] = "mutated"
	assert.Equal(t, "object", MaterialSchema()["type"])
}

func TestValidateShape(t *testing.T) {
	assert.NoError(t, ValidateShape(ParseFailureMaterial()))
	assert.NoError(t, ValidateShape(Material{}))

	bad := Material{Quiz: []QuizQuestion{{Question: "Q", Options: []string{"a", "b"}, Correct: "E"}}}
	assert.Error(t, ValidateShape(bad))
}
