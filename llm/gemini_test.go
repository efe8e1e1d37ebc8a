package llm

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiText(t *testing.T) {
	t.Run("Should join the text parts of the first candidate", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []genai.Part{genai.Text(`{"resumo":`), genai.Text(` "ok"}`)}},
			}},
		}

		text, err := geminiText(resp)
		require.NoError(t, err)
		assert.Equal(t, `{"resumo": "ok"}`, text)
	})

	t.Run("Should fail without candidates", func(t *testing.T) {
		_, err := geminiText(&genai.GenerateContentResponse{})
		assert.ErrorIs(t, err, ErrEmptyResponse)

		_, err = geminiText(nil)
		assert.ErrorIs(t, err, ErrEmptyResponse)
	})

	t.Run("Should fail when the candidate was blocked", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
		}

		_, err := geminiText(resp)
		assert.ErrorIs(t, err, ErrEmptyResponse)
		assert.Contains(t, err.Error(), "finish reason")
	})
}
