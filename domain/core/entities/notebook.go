package entities

import (
	"fmt"
	"strings"

	pkgerrors "github.com/yogishpa/graph-samples/pkg/errors"
)

// NotebookStatus mirrors the managed notebook instance status values
type NotebookStatus string

const (
	NotebookPending   NotebookStatus = "Pending"
	NotebookInService NotebookStatus = "InService"
	NotebookStopping  NotebookStatus = "Stopping"
	NotebookStopped   NotebookStatus = "Stopped"
	NotebookFailed    NotebookStatus = "Failed"
	NotebookDeleting  NotebookStatus = "Deleting"
	NotebookUpdating  NotebookStatus = "Updating"
)

// LifecycleAction is the scheduled action applied to a notebook
type LifecycleAction string

const (
	ActionStart LifecycleAction = "start"
	ActionStop  LifecycleAction = "stop"
)

// ParseLifecycleAction accepts "start" or "stop" in any case
func ParseLifecycleAction(s string) (LifecycleAction, error) {
	switch LifecycleAction(strings.ToLower(strings.TrimSpace(s))) {
	case ActionStart:
		return ActionStart, nil
	case ActionStop:
		return ActionStop, nil
	default:
		return "", pkgerrors.NewValidationError(fmt.Sprintf("unsupported action %q", s))
	}
}

// RequiredStatus is the only status from which the action is applied
func (a LifecycleAction) RequiredStatus() NotebookStatus {
	if a == ActionStart {
		return NotebookStopped
	}
	return NotebookInService
}

// NotebookInstance is a named notebook together with its observed status
type NotebookInstance struct {
	Name   string
	Status NotebookStatus
}

// Transition is the outcome of evaluating an action against a notebook
type Transition struct {
	Notebook NotebookInstance
	Action   LifecycleAction
	Apply    bool
}

// Plan decides whether the action should be applied. Stop applies only to an
// InService notebook and start only to a Stopped one; anything else is a no-op.
func (n NotebookInstance) Plan(action LifecycleAction) Transition {
	return Transition{
		Notebook: n,
		Action:   action,
		Apply:    n.Status == action.RequiredStatus(),
	}
}

// Message is the human readable result of the transition
func (t Transition) Message() string {
	if t.Apply {
		return fmt.Sprintf("Successfully initiated %s for notebook instance %s", t.Action, t.Notebook.Name)
	}
	return fmt.Sprintf("Notebook instance %s is already in %s state, no action taken", t.Notebook.Name, t.Notebook.Status)
}
