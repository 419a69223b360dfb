package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRuntime struct {
	lastInput *bedrockruntime.InvokeModelInput
	body      string
	err       error
}

func (f *fakeRuntime) InvokeModel(_ context.Context, params *bedrockruntime.InvokeModelInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.lastInput = params
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: []byte(f.body)}, nil
}

func TestGenerate_ModelFamilies(t *testing.T) {
	tests := []struct {
		name      string
		modelID   string
		body      string
		want      string
		promptKey string
	}{
		{
			name:      "anthropic messages",
			modelID:   "anthropic.claude-3-haiku-20240307-v1:0",
			body:      `{"content":[{"type":"text","text":"{\"a\":"},{"type":"text","text":"1}"}]}`,
			want:      `{"a":1}`,
			promptKey: "messages",
		},
		{
			name:      "titan",
			modelID:   "amazon.titan-text-express-v1",
			body:      `{"results":[{"outputText":"titan says"}]}`,
			want:      "titan says",
			promptKey: "inputText",
		},
		{
			name:      "generic",
			modelID:   "meta.llama3-8b-instruct-v1:0",
			body:      `{"generation":"llama says"}`,
			want:      "llama says",
			promptKey: "prompt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := &fakeRuntime{body: tt.body}
			client := NewBedrockClient(rt, tt.modelID, 256, 0.2, 0.9, zap.NewNop())

			out, err := client.Generate(context.Background(), "analyze")
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)

			require.NotNil(t, rt.lastInput)
			assert.Equal(t, tt.modelID, *rt.lastInput.ModelId)

			var payload map[string]any
			require.NoError(t, json.Unmarshal(rt.lastInput.Body, &payload))
			assert.Contains(t, payload, tt.promptKey)
		})
	}
}

func TestGenerate_InvokeError(t *testing.T) {
	rt := &fakeRuntime{err: errors.New("throttled")}
	client := NewBedrockClient(rt, "anthropic.claude-3", 256, 0.2, 0.9, zap.NewNop())

	_, err := client.Generate(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestGenerate_EmptyClaudeResponse(t *testing.T) {
	rt := &fakeRuntime{body: `{"content":[]}`}
	client := NewBedrockClient(rt, "anthropic.claude-3", 256, 0.2, 0.9, zap.NewNop())

	_, err := client.Generate(context.Background(), "x")
	assert.Error(t, err)
}
