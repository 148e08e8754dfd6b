package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/yogishpa/graph-samples/application/services"
	"github.com/yogishpa/graph-samples/infrastructure/config"
	"github.com/yogishpa/graph-samples/infrastructure/di"
)

// ScheduleEvent is the scheduler payload; empty fields fall back to the
// NOTEBOOK_NAME and ACTION environment variables.
type ScheduleEvent struct {
	Action       string `json:"action,omitempty"`
	NotebookName string `json:"notebook_name,omitempty"`
}

type lifecycleApplier interface {
	Apply(ctx context.Context, name, action string) services.LifecycleResponse
}

func newHandler(scheduler lifecycleApplier, cfg *config.Config) func(context.Context, ScheduleEvent) (services.LifecycleResponse, error) {
	return func(ctx context.Context, event ScheduleEvent) (services.LifecycleResponse, error) {
		name := cfg.NotebookName
		if event.NotebookName != "" {
			name = event.NotebookName
		}
		action := cfg.Action
		if event.Action != "" {
			action = event.Action
		}
		return scheduler.Apply(ctx, name, action), nil
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err := di.InitializeSchedulerContainer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer container.Logger.Sync()

	lambda.Start(newHandler(container.Scheduler, cfg))
}
