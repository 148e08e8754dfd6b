package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yogishpa/graph-samples/domain/config"
	"github.com/yogishpa/graph-samples/domain/core/entities"
	"github.com/yogishpa/graph-samples/domain/core/valueobjects"
	pkgerrors "github.com/yogishpa/graph-samples/pkg/errors"
)

type chatFixture struct {
	generator *MockTextGenerator
	executor  *MockQueryExecutor
	store     *MockConversationStore
	metrics   *recordingMetrics
	service   *ChatService
}

func newChatFixture() *chatFixture {
	f := &chatFixture{
		generator: new(MockTextGenerator),
		executor:  new(MockQueryExecutor),
		store:     new(MockConversationStore),
		metrics:   &recordingMetrics{},
	}
	f.service = NewChatService(f.generator, f.executor, f.store, config.DefaultPromptCatalog(), f.metrics, 20, zap.NewNop())
	return f
}

func isCypherPrompt(prompt string) bool {
	return strings.HasPrefix(prompt, "Given this natural language question:")
}

func isAnswerPrompt(prompt string) bool {
	return strings.HasPrefix(prompt, "Convert these database results")
}

func TestChatService_Ask(t *testing.T) {
	f := newChatFixture()
	query := "MATCH (a:airport) WHERE a.country = 'DE' RETURN a.code LIMIT 1"

	f.store.On("Append", mock.Anything, mock.MatchedBy(func(turn entities.Turn) bool {
		return turn.SessionID == "s1" && turn.Role == entities.RoleUser && turn.Content == "German airports?"
	})).Return(nil).Once()
	f.store.On("Append", mock.Anything, mock.MatchedBy(func(turn entities.Turn) bool {
		return turn.SessionID == "s1" && turn.Role == entities.RoleAssistant && turn.Query == query
	})).Return(nil).Once()

	f.generator.On("Complete", mock.Anything, mock.MatchedBy(isCypherPrompt)).
		Return("```cypher\n"+query+"\n```", nil).Once()
	f.executor.On("Execute", mock.Anything, valueobjects.NewOpenCypherQuery(query)).
		Return(valueobjects.FromNative([]any{map[string]any{"a.code": "FRA"}}), nil).Once()
	f.generator.On("Complete", mock.Anything, mock.MatchedBy(func(p string) bool {
		return isAnswerPrompt(p) && strings.Contains(p, `"a.code":"FRA"`)
	})).Return("Frankfurt (FRA) is a German airport.", nil).Once()

	reply, err := f.service.Ask(context.Background(), "s1", "German airports?")
	require.NoError(t, err)

	assert.Equal(t, "s1", reply.SessionID)
	assert.Equal(t, query, reply.Query)
	assert.Equal(t, "Frankfurt (FRA) is a German airport.", reply.Answer)
	assert.Equal(t, []any{map[string]any{"a.code": "FRA"}}, reply.Results)
	assert.Empty(t, reply.Error)
	assert.Equal(t, []string{"cypher:ok", "answer:ok"}, f.metrics.completions)
	assert.Equal(t, []string{"opencypher:ok"}, f.metrics.queries)

	f.generator.AssertExpectations(t)
	f.executor.AssertExpectations(t)
	f.store.AssertExpectations(t)
}

func TestChatService_Ask_QueryErrorBecomesAnswer(t *testing.T) {
	f := newChatFixture()
	f.store.On("Append", mock.Anything, mock.Anything).Return(nil)
	f.generator.On("Complete", mock.Anything, mock.MatchedBy(isCypherPrompt)).Return("MATCH (n RETURN n", nil).Once()
	f.executor.On("Execute", mock.Anything, mock.Anything).
		Return(valueobjects.Value{}, pkgerrors.NewQueryError("HTTP Error 400: MalformedQueryException")).Once()

	reply, err := f.service.Ask(context.Background(), "", "anything")
	require.NoError(t, err)

	assert.NotEmpty(t, reply.SessionID)
	assert.Equal(t, "Error executing query: HTTP Error 400: MalformedQueryException", reply.Answer)
	assert.Nil(t, reply.Results)
	f.generator.AssertNumberOfCalls(t, "Complete", 1)
}

func TestChatService_Ask_GeneratorFailure(t *testing.T) {
	f := newChatFixture()
	f.store.On("Append", mock.Anything, mock.Anything).Return(nil)
	f.generator.On("Complete", mock.Anything, mock.Anything).
		Return("", pkgerrors.NewExternalError("bedrock", assert.AnError)).Once()

	_, err := f.service.Ask(context.Background(), "s1", "q")

	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeExternal))
	f.executor.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestChatService_Ask_HistoryFailureIsNotFatal(t *testing.T) {
	f := newChatFixture()
	f.store.On("Append", mock.Anything, mock.Anything).Return(assert.AnError)
	f.generator.On("Complete", mock.Anything, mock.MatchedBy(isCypherPrompt)).Return("MATCH (n) RETURN n", nil)
	f.generator.On("Complete", mock.Anything, mock.MatchedBy(isAnswerPrompt)).Return("nothing", nil)
	f.executor.On("Execute", mock.Anything, mock.Anything).Return(valueobjects.Sequence(), nil)

	reply, err := f.service.Ask(context.Background(), "s1", "q")
	require.NoError(t, err)
	assert.Equal(t, "nothing", reply.Answer)
}

func TestChatService_Ask_RequiresQuestion(t *testing.T) {
	f := newChatFixture()
	_, err := f.service.Ask(context.Background(), "s1", "   ")
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestChatService_RunQuery(t *testing.T) {
	f := newChatFixture()
	f.executor.On("Execute", mock.Anything, valueobjects.NewOpenCypherQuery("MATCH (n) RETURN count(n)")).
		Return(valueobjects.FromNative([]any{map[string]any{"count(n)": int64(3)}}), nil)

	results, err := f.service.RunQuery(context.Background(), " MATCH (n) RETURN count(n) ")
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"count(n)": int64(3)}}, results)

	_, err = f.service.RunQuery(context.Background(), "")
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestChatService_TestConnection(t *testing.T) {
	f := newChatFixture()
	connectionTest := valueobjects.NewOpenCypherQuery(config.DefaultPromptCatalog().ConnectionTest)
	f.executor.On("Execute", mock.Anything, connectionTest).
		Return(valueobjects.FromNative([]any{map[string]any{"n.code": "ATL"}}), nil).Once()
	f.executor.On("Execute", mock.Anything, connectionTest).
		Return(valueobjects.Value{}, pkgerrors.NewConnectionError("https://db:8182/openCypher", assert.AnError)).Once()

	status := f.service.TestConnection(context.Background())
	assert.True(t, status.OK)
	assert.Equal(t, "Connection successful", status.Message)

	status = f.service.TestConnection(context.Background())
	assert.False(t, status.OK)
	assert.True(t, strings.HasPrefix(status.Message, "Connection failed: connection to 'https://db:8182/openCypher' failed"))
}

func TestChatService_ExploreSchema(t *testing.T) {
	f := newChatFixture()
	exploration := config.DefaultPromptCatalog().Exploration

	f.executor.On("Execute", mock.Anything, valueobjects.NewOpenCypherQuery(exploration["countries"])).
		Return(valueobjects.Value{}, pkgerrors.NewQueryError("HTTP Error 500: boom"))
	f.executor.On("Execute", mock.Anything, mock.Anything).
		Return(valueobjects.FromNative([]any{"x"}), nil)

	sections := f.service.ExploreSchema(context.Background())

	require.Len(t, sections, len(exploration))
	names := make([]string, len(sections))
	for i, s := range sections {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"airport_sample", "countries", "german_airports", "labels", "relationships"}, names)
	assert.Equal(t, "HTTP Error 500: boom", sections[1].Error)
	assert.Nil(t, sections[1].Results)
	assert.Equal(t, []any{"x"}, sections[0].Results)
}

func TestChatService_History(t *testing.T) {
	f := newChatFixture()
	turns := []entities.Turn{entities.NewUserTurn("s1", "hi")}
	f.store.On("History", mock.Anything, "s1", 20).Return(turns, nil)

	got, err := f.service.History(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, turns, got)

	_, err = f.service.History(context.Background(), "")
	assert.True(t, pkgerrors.IsValidation(err))
}
