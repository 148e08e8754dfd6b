package bedrock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	pkgerrors "github.com/yogishpa/graph-samples/pkg/errors"
)

type mockBedrock struct {
	mock.Mock
}

func (m *mockBedrock) Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*bedrockruntime.ConverseOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func textOutput(parts ...string) *bedrockruntime.ConverseOutput {
	content := make([]types.ContentBlock, 0, len(parts))
	for _, p := range parts {
		content = append(content, &types.ContentBlockMemberText{Value: p})
	}
	return &bedrockruntime.ConverseOutput{
		Output: &types.ConverseOutputMemberMessage{
			Value: types.Message{Role: types.ConversationRoleAssistant, Content: content},
		},
		StopReason: types.StopReasonEndTurn,
		Usage:      &types.TokenUsage{InputTokens: aws.Int32(10), OutputTokens: aws.Int32(5)},
	}
}

func TestClient_Complete(t *testing.T) {
	api := new(mockBedrock)
	api.On("Converse", mock.Anything, mock.MatchedBy(func(in *bedrockruntime.ConverseInput) bool {
		block, ok := in.Messages[0].Content[0].(*types.ContentBlockMemberText)
		return aws.ToString(in.ModelId) == "model-1" &&
			ok && block.Value == "hello" &&
			aws.ToInt32(in.InferenceConfig.MaxTokens) == 256
	})).Return(textOutput("MATCH (n) ", "RETURN n"), nil).Once()

	out, err := NewClient(api, "model-1", 256, zap.NewNop()).Complete(context.Background(), "hello")

	require.NoError(t, err)
	assert.Equal(t, "MATCH (n) RETURN n", out)
	api.AssertExpectations(t)
}

func TestClient_Complete_Error(t *testing.T) {
	api := new(mockBedrock)
	api.On("Converse", mock.Anything, mock.Anything).Return(nil, errors.New("throttled")).Once()

	_, err := NewClient(api, "model-1", 0, zap.NewNop()).Complete(context.Background(), "hello")

	require.Error(t, err)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeExternal))
}

type stubGenerator struct {
	calls int
	err   error
}

func (s *stubGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return "ok:" + prompt, nil
}

func TestBreakingGenerator_PassesThrough(t *testing.T) {
	next := &stubGenerator{}
	g := NewBreakingGenerator(next, DefaultBreakerConfig("bedrock"), zap.NewNop())

	out, err := g.Complete(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "ok:x", out)
}

func TestBreakingGenerator_OpensAfterFailures(t *testing.T) {
	next := &stubGenerator{err: errors.New("model down")}
	config := DefaultBreakerConfig("bedrock")
	config.MinRequests = 2
	config.Timeout = time.Minute
	g := NewBreakingGenerator(next, config, zap.NewNop())

	for i := 0; i < 2; i++ {
		_, err := g.Complete(context.Background(), "x")
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, g.State())

	_, err := g.Complete(context.Background(), "x")
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeUnavailable))
	assert.Equal(t, 2, next.calls)
}

func TestBreakingGenerator_IgnoresCancellation(t *testing.T) {
	next := &stubGenerator{err: context.Canceled}
	config := DefaultBreakerConfig("bedrock")
	config.MinRequests = 1
	g := NewBreakingGenerator(next, config, zap.NewNop())

	for i := 0; i < 3; i++ {
		_, _ = g.Complete(context.Background(), "x")
	}
	assert.Equal(t, gobreaker.StateClosed, g.State())
}
