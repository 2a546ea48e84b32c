package ai

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeminiClientRequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), "   ", "gemini-2.5-flash")
	assert.Error(t, err)
}

func TestToGenaiSchema(t *testing.T) {
	s := &Schema{
		Type: TypeArray,
		Items: &Schema{
			Type: TypeObject,
			Properties: map[string]*Schema{
				"patientName": {Type: TypeString},
				"score":       {Type: TypeInteger},
				"status":      {Type: TypeString, Enum: []string{"pending", "confirmed"}},
			},
			Required: []string{"patientName"},
		},
	}

	got := toGenaiSchema(s)
	require.NotNil(t, got)
	assert.Equal(t, genai.TypeArray, got.Type)
	require.NotNil(t, got.Items)
	assert.Equal(t, genai.TypeObject, got.Items.Type)
	assert.Equal(t, genai.TypeInteger, got.Items.Properties["score"].Type)
	assert.Equal(t, []string{"pending", "confirmed"}, got.Items.Properties["status"].Enum)
	assert.Equal(t, []string{"patientName"}, got.Items.Required)
}

func TestToGenaiSchemaNil(t *testing.T) {
	assert.Nil(t, toGenaiSchema(nil))
}
