package events

import (
	"time"

	"github.com/yogishpa/graph-samples/domain/core/entities"
)

// SourceNotebookScheduler is the EventBridge source for lifecycle events
const SourceNotebookScheduler = "graph-samples.notebook-scheduler"

// DomainEvent is the base interface for all domain events
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// NotebookLifecycleChanged is raised when a start or stop was initiated
type NotebookLifecycleChanged struct {
	BaseEvent
	NotebookName   string `json:"notebook_name"`
	Action         string `json:"action"`
	PreviousStatus string `json:"previous_status"`
}

// NewNotebookLifecycleChanged creates the event for an applied transition
func NewNotebookLifecycleChanged(tr entities.Transition, timestamp time.Time) NotebookLifecycleChanged {
	return NotebookLifecycleChanged{
		BaseEvent: BaseEvent{
			AggregateID: tr.Notebook.Name,
			EventType:   "notebook." + string(tr.Action) + "_initiated",
			Timestamp:   timestamp,
			Version:     1,
		},
		NotebookName:   tr.Notebook.Name,
		Action:         string(tr.Action),
		PreviousStatus: string(tr.Notebook.Status),
	}
}
