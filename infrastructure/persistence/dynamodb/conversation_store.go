// Package dynamodb persists chat history in a DynamoDB table keyed by
// session_id (partition) and sequence (sort).
package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"github.com/yogishpa/graph-samples/domain/core/entities"
	pkgerrors "github.com/yogishpa/graph-samples/pkg/errors"
)

// maxAppendAttempts bounds retries when two writers race for a sequence
const maxAppendAttempts = 3

// API is the subset of the DynamoDB client used by the store
type API interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// ConversationStore implements the conversation port on DynamoDB
type ConversationStore struct {
	client    API
	tableName string
	logger    *zap.Logger
}

// NewConversationStore creates a store on tableName
func NewConversationStore(client API, tableName string, logger *zap.Logger) *ConversationStore {
	return &ConversationStore{client: client, tableName: tableName, logger: logger}
}

// Append writes the turn under the next free sequence number
func (s *ConversationStore) Append(ctx context.Context, turn entities.Turn) (entities.Turn, error) {
	for attempt := 0; attempt < maxAppendAttempts; attempt++ {
		last, err := s.lastSequence(ctx, turn.SessionID)
		if err != nil {
			return entities.Turn{}, err
		}
		turn.Sequence = last + 1

		err = s.put(ctx, turn)
		if err == nil {
			return turn, nil
		}

		var conditionFailed *types.ConditionalCheckFailedException
		if !errors.As(err, &conditionFailed) {
			return entities.Turn{}, pkgerrors.NewExternalError("dynamodb", err)
		}
		s.logger.Debug("Sequence taken, retrying append",
			zap.String("session_id", turn.SessionID),
			zap.Int64("sequence", turn.Sequence),
		)
	}
	return entities.Turn{}, pkgerrors.NewInternalError(
		fmt.Sprintf("failed to append turn to session %s after %d attempts", turn.SessionID, maxAppendAttempts))
}

func (s *ConversationStore) put(ctx context.Context, turn entities.Turn) error {
	item, err := attributevalue.MarshalMap(turn)
	if err != nil {
		return fmt.Errorf("failed to marshal turn: %w", err)
	}

	cond := expression.AttributeNotExists(expression.Name("session_id"))
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("failed to build condition: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(s.tableName),
		Item:                     item,
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	return err
}

func (s *ConversationStore) lastSequence(ctx context.Context, sessionID string) (int64, error) {
	turns, err := s.query(ctx, sessionID, 1)
	if err != nil {
		return 0, err
	}
	if len(turns) == 0 {
		return 0, nil
	}
	return turns[0].Sequence, nil
}

// History returns the newest limit turns, oldest first
func (s *ConversationStore) History(ctx context.Context, sessionID string, limit int) ([]entities.Turn, error) {
	turns, err := s.query(ctx, sessionID, limit)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// query reads newest first
func (s *ConversationStore) query(ctx context.Context, sessionID string, limit int) ([]entities.Turn, error) {
	if limit <= 0 {
		return []entities.Turn{}, nil
	}

	keyCond := expression.Key("session_id").Equal(expression.Value(sessionID))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to build key condition").WithCause(err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(s.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(false),
		Limit:                     aws.Int32(int32(limit)),
	}

	turns := make([]entities.Turn, 0, limit)
	for len(turns) < limit {
		result, err := s.client.Query(ctx, input)
		if err != nil {
			return nil, pkgerrors.NewExternalError("dynamodb", err)
		}

		for _, item := range result.Items {
			var turn entities.Turn
			if err := attributevalue.UnmarshalMap(item, &turn); err != nil {
				return nil, fmt.Errorf("failed to unmarshal turn: %w", err)
			}
			turns = append(turns, turn)
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	if len(turns) > limit {
		turns = turns[:limit]
	}
	return turns, nil
}
