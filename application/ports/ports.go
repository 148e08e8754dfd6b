package ports

import (
	"context"
	"time"

	"github.com/yogishpa/graph-samples/domain/config"
	"github.com/yogishpa/graph-samples/domain/core/entities"
	"github.com/yogishpa/graph-samples/domain/core/valueobjects"
	"github.com/yogishpa/graph-samples/domain/events"
)

// QuerySource looks a query up by logical name in a remote configuration store.
// It never returns an error directly; failures are carried in the Resolution.
type QuerySource interface {
	Resolve(ctx context.Context, name string) valueobjects.Resolution
}

// QueryExecutor submits a query to the graph database.
// Implementations open exactly one connection per call and always release it.
// Failures are *errors.AppError of type CONNECTION or QUERY.
type QueryExecutor interface {
	Execute(ctx context.Context, query valueobjects.Query) (valueobjects.Value, error)
}

// TextGenerator is the language model used to write queries and answers
type TextGenerator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// PromptCatalogSource returns the prompt catalog currently in effect
type PromptCatalogSource interface {
	Catalog() *config.PromptCatalog
}

// NotebookController drives a managed notebook instance
type NotebookController interface {
	// Describe returns the notebook with its current status
	Describe(ctx context.Context, name string) (entities.NotebookInstance, error)

	// Start initiates a start of a stopped notebook
	Start(ctx context.Context, name string) error

	// Stop initiates a stop of a running notebook
	Stop(ctx context.Context, name string) error
}

// ConversationStore keeps chat turns per session
type ConversationStore interface {
	// Append stores a turn and returns it with its sequence number assigned
	Append(ctx context.Context, turn entities.Turn) (entities.Turn, error)

	// History returns up to limit most recent turns in chronological order
	History(ctx context.Context, sessionID string, limit int) ([]entities.Turn, error)
}

// EventPublisher publishes domain events
type EventPublisher interface {
	Publish(ctx context.Context, event events.DomainEvent) error
}

// QueryMetrics records query and completion outcomes
type QueryMetrics interface {
	RecordQuery(transport string, duration time.Duration, err error)
	RecordCompletion(purpose string, duration time.Duration, err error)
}

// NotebookMetrics records lifecycle decisions
type NotebookMetrics interface {
	RecordNotebookAction(ctx context.Context, name, action string, applied bool, err error)
}
