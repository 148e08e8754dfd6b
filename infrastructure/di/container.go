package di

import (
	"go.uber.org/zap"

	"github.com/yogishpa/graph-samples/application/ports"
	"github.com/yogishpa/graph-samples/application/services"
	"github.com/yogishpa/graph-samples/infrastructure/config"
	"github.com/yogishpa/graph-samples/pkg/auth"
	"github.com/yogishpa/graph-samples/pkg/observability"
)

// ChatContainer holds what the chat API needs
type ChatContainer struct {
	Config    *config.Config
	Logger    *zap.Logger
	Chat      *services.ChatService
	Collector *observability.Collector
	Validator *auth.Validator
}

// QueryContainer holds what the query CLI needs
type QueryContainer struct {
	Config  *config.Config
	Logger  *zap.Logger
	Runner  *services.QueryRunner
	Chat    *services.ChatService
	Catalog ports.PromptCatalogSource
}

// SchedulerContainer holds what the notebook scheduler needs
type SchedulerContainer struct {
	Config    *config.Config
	Logger    *zap.Logger
	Scheduler *services.NotebookScheduler
}
