package services

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/yogishpa/graph-samples/application/ports"
	"github.com/yogishpa/graph-samples/domain/core/entities"
	"github.com/yogishpa/graph-samples/domain/events"
	pkgerrors "github.com/yogishpa/graph-samples/pkg/errors"
)

// LifecycleResponse is the function result returned to the scheduler
type LifecycleResponse struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// NotebookScheduler applies scheduled start and stop actions to a notebook
type NotebookScheduler struct {
	controller ports.NotebookController
	publisher  ports.EventPublisher
	metrics    ports.NotebookMetrics
	now        func() time.Time
	logger     *zap.Logger
}

// NewNotebookScheduler creates a scheduler; publisher and metrics may be nil
func NewNotebookScheduler(
	controller ports.NotebookController,
	publisher ports.EventPublisher,
	metrics ports.NotebookMetrics,
	logger *zap.Logger,
) *NotebookScheduler {
	return &NotebookScheduler{
		controller: controller,
		publisher:  publisher,
		metrics:    metrics,
		now:        time.Now,
		logger:     logger,
	}
}

// Apply starts a Stopped notebook or stops an InService one. Any other
// status is left alone. Failures yield status 500.
func (s *NotebookScheduler) Apply(ctx context.Context, name, action string) LifecycleResponse {
	tr, err := s.apply(ctx, name, action)
	if s.metrics != nil {
		s.metrics.RecordNotebookAction(ctx, name, action, tr.Apply, err)
	}
	if err != nil {
		s.logger.Error("Error managing notebook instance",
			zap.String("notebook", name),
			zap.String("action", action),
			zap.Error(err),
		)
		return LifecycleResponse{
			StatusCode: http.StatusInternalServerError,
			Body:       "Error managing notebook instance: " + pkgerrors.Payload(err),
		}
	}
	return LifecycleResponse{StatusCode: http.StatusOK, Body: tr.Message()}
}

func (s *NotebookScheduler) apply(ctx context.Context, name, rawAction string) (entities.Transition, error) {
	if name == "" {
		return entities.Transition{}, pkgerrors.NewValidationError("notebook name is required")
	}
	action, err := entities.ParseLifecycleAction(rawAction)
	if err != nil {
		return entities.Transition{}, err
	}

	notebook, err := s.controller.Describe(ctx, name)
	if err != nil {
		return entities.Transition{}, err
	}

	tr := notebook.Plan(action)
	if !tr.Apply {
		s.logger.Info("Notebook not in required state, no action taken",
			zap.String("notebook", name),
			zap.String("required", string(action.RequiredStatus())),
			zap.String("current", string(notebook.Status)),
		)
		return tr, nil
	}

	switch action {
	case entities.ActionStart:
		err = s.controller.Start(ctx, name)
	case entities.ActionStop:
		err = s.controller.Stop(ctx, name)
	}
	if err != nil {
		tr.Apply = false
		return tr, err
	}

	s.publish(ctx, tr)
	return tr, nil
}

// publish announces an applied transition; a publish failure is logged only
func (s *NotebookScheduler) publish(ctx context.Context, tr entities.Transition) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.NewNotebookLifecycleChanged(tr, s.now())); err != nil {
		s.logger.Warn("Failed to publish lifecycle event",
			zap.String("notebook", tr.Notebook.Name),
			zap.Error(err),
		)
	}
}
