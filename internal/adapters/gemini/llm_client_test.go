package gemini

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewGeminiClient_RequiresAPIKey(t *testing.T) {
	client, err := NewGeminiClient(context.Background(), "", "gemini-2.0-flash", 1024, 0.2, 0.9, zap.NewNop())
	require.Error(t, err)
	assert.EqualError(t, err, "gemini API key is required")
	assert.Nil(t, client)
}

func candidate(parts ...genai.Part) *genai.Candidate {
	return &genai.Candidate{Content: &genai.Content{Role: "model", Parts: parts}}
}

func TestResponseText(t *testing.T) {
	tests := []struct {
		name    string
		resp    *genai.GenerateContentResponse
		want    string
		wantErr bool
	}{
		{
			name: "text parts are joined",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
				candidate(genai.Text(`{"phishing_likelihood":`), genai.Text(`"High"}`)),
			}},
			want: `{"phishing_likelihood":"High"}`,
		},
		{
			name: "only the first candidate is used",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
				candidate(genai.Text("first")),
				candidate(genai.Text("second")),
			}},
			want: "first",
		},
		{
			name: "non text parts are skipped",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
				candidate(genai.Blob{MIMEType: "image/png", Data: []byte{0x89}}, genai.Text("ok")),
			}},
			want: "ok",
		},
		{name: "nil response", resp: nil, wantErr: true},
		{name: "no candidates", resp: &genai.GenerateContentResponse{}, wantErr: true},
		{
			name:    "candidate without content",
			resp:    &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}},
			wantErr: true,
		},
		{
			name: "candidate without text",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
				candidate(genai.Blob{MIMEType: "image/png"}),
			}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := responseText(tt.resp)
			if tt.wantErr {
				assert.ErrorIs(t, err, errEmptyResponse)
				assert.Empty(t, text)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, text)
		})
	}
}

func TestProviderAndClose(t *testing.T) {
	c := &GeminiClient{logger: zap.NewNop()}
	assert.Equal(t, "Gemini", c.Provider())
	assert.NoError(t, c.Close())
}
