package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/yogishpa/graph-samples/domain/core/entities"
	"github.com/yogishpa/graph-samples/domain/core/valueobjects"
	"github.com/yogishpa/graph-samples/domain/events"
)

type MockQuerySource struct {
	mock.Mock
}

func (m *MockQuerySource) Resolve(ctx context.Context, name string) valueobjects.Resolution {
	args := m.Called(ctx, name)
	return args.Get(0).(valueobjects.Resolution)
}

type MockQueryExecutor struct {
	mock.Mock
}

func (m *MockQueryExecutor) Execute(ctx context.Context, query valueobjects.Query) (valueobjects.Value, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(valueobjects.Value), args.Error(1)
}

type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

type MockConversationStore struct {
	mock.Mock
}

func (m *MockConversationStore) Append(ctx context.Context, turn entities.Turn) (entities.Turn, error) {
	args := m.Called(ctx, turn)
	return turn, args.Error(0)
}

func (m *MockConversationStore) History(ctx context.Context, sessionID string, limit int) ([]entities.Turn, error) {
	args := m.Called(ctx, sessionID, limit)
	if turns := args.Get(0); turns != nil {
		return turns.([]entities.Turn), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockNotebookController struct {
	mock.Mock
}

func (m *MockNotebookController) Describe(ctx context.Context, name string) (entities.NotebookInstance, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(entities.NotebookInstance), args.Error(1)
}

func (m *MockNotebookController) Start(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func (m *MockNotebookController) Stop(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	return m.Called(ctx, event).Error(0)
}

type MockNotebookMetrics struct {
	mock.Mock
}

func (m *MockNotebookMetrics) RecordNotebookAction(ctx context.Context, name, action string, applied bool, err error) {
	m.Called(ctx, name, action, applied, err)
}

// recordingMetrics captures query and completion outcomes
type recordingMetrics struct {
	queries     []string
	completions []string
}

func (r *recordingMetrics) RecordQuery(transport string, _ time.Duration, err error) {
	r.queries = append(r.queries, outcomeLabel(transport, err))
}

func (r *recordingMetrics) RecordCompletion(purpose string, _ time.Duration, err error) {
	r.completions = append(r.completions, outcomeLabel(purpose, err))
}

func outcomeLabel(name string, err error) string {
	if err != nil {
		return name + ":error"
	}
	return name + ":ok"
}
