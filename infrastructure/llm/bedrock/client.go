// Package bedrock implements text generation on Amazon Bedrock.
package bedrock

import (
	"context"
	"errors"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"go.uber.org/zap"

	pkgerrors "github.com/yogishpa/graph-samples/pkg/errors"
)

// API is the subset of the Bedrock runtime client used here
type API interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// Client completes prompts with a single-turn Converse call
type Client struct {
	api       API
	modelID   string
	maxTokens int32
	logger    *zap.Logger
}

// NewClient creates a text generator for modelID
func NewClient(api API, modelID string, maxTokens int, logger *zap.Logger) *Client {
	return &Client{
		api:       api,
		modelID:   modelID,
		maxTokens: int32(maxTokens),
		logger:    logger,
	}
}

// Complete sends prompt as one user message and returns the text reply
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	input := &bedrockruntime.ConverseInput{
		ModelId: aws.String(c.modelID),
		Messages: []types.Message{
			{
				Role:    types.ConversationRoleUser,
				Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: prompt}},
			},
		},
	}
	if c.maxTokens > 0 {
		input.InferenceConfig = &types.InferenceConfiguration{MaxTokens: aws.Int32(c.maxTokens)}
	}

	out, err := c.api.Converse(ctx, input)
	if err != nil {
		c.logger.Error("Bedrock converse failed", zap.String("model", c.modelID), zap.Error(err))
		return "", pkgerrors.NewExternalError("bedrock", err)
	}

	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return "", pkgerrors.NewExternalError("bedrock", errors.New("response has no message"))
	}

	var sb strings.Builder
	for _, block := range msg.Value.Content {
		if text, ok := block.(*types.ContentBlockMemberText); ok {
			sb.WriteString(text.Value)
		}
	}

	if out.Usage != nil {
		c.logger.Debug("Bedrock completion",
			zap.String("model", c.modelID),
			zap.Int32("input_tokens", aws.ToInt32(out.Usage.InputTokens)),
			zap.Int32("output_tokens", aws.ToInt32(out.Usage.OutputTokens)),
			zap.String("stop_reason", string(out.StopReason)),
		)
	}
	return sb.String(), nil
}
