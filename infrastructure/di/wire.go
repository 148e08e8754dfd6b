//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"github.com/yogishpa/graph-samples/infrastructure/config"
)

// CoreSet provides the logger and AWS configuration
var CoreSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
)

// ChatSet provides the chat service and its collaborators
var ChatSet = wire.NewSet(
	ProvideSigner,
	ProvideOpenCypherExecutor,
	ProvideBedrockClient,
	ProvideTextGenerator,
	ProvideConversationStore,
	ProvidePromptCatalogSource,
	ProvideCollector,
	ProvideQueryMetrics,
	ProvideChatService,
)

// SchedulerSet provides the notebook scheduler
var SchedulerSet = wire.NewSet(
	ProvideSageMakerClient,
	ProvideNotebookController,
	ProvideEventBridgeClient,
	ProvideEventPublisher,
	ProvideCloudWatchClient,
	ProvideNotebookMetrics,
	ProvideNotebookScheduler,
)

// InitializeChatContainer creates a fully wired chat container
func InitializeChatContainer(ctx context.Context, cfg *config.Config) (*ChatContainer, func(), error) {
	wire.Build(
		CoreSet,
		ChatSet,
		ProvideJWTValidator,
		wire.Struct(new(ChatContainer), "*"),
	)
	return nil, nil, nil // Wire will replace this
}

// InitializeQueryContainer creates a fully wired query CLI container
func InitializeQueryContainer(ctx context.Context, cfg *config.Config) (*QueryContainer, func(), error) {
	wire.Build(
		CoreSet,
		ChatSet,
		ProvideGremlinExecutor,
		ProvideSSMClient,
		ProvideQuerySource,
		ProvideQueryRunner,
		wire.Struct(new(QueryContainer), "*"),
	)
	return nil, nil, nil // Wire will replace this
}

// InitializeSchedulerContainer creates a fully wired scheduler container
func InitializeSchedulerContainer(ctx context.Context, cfg *config.Config) (*SchedulerContainer, error) {
	wire.Build(
		CoreSet,
		SchedulerSet,
		wire.Struct(new(SchedulerContainer), "*"),
	)
	return nil, nil // Wire will replace this
}
