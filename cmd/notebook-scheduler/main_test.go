package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yogishpa/graph-samples/application/services"
	"github.com/yogishpa/graph-samples/infrastructure/config"
)

type recordingApplier struct {
	name, action string
}

func (r *recordingApplier) Apply(_ context.Context, name, action string) services.LifecycleResponse {
	r.name, r.action = name, action
	return services.LifecycleResponse{StatusCode: 200, Body: "ok"}
}

func TestHandler_EventOverridesEnvironment(t *testing.T) {
	cfg := &config.Config{NotebookName: "workbench", Action: "stop"}

	tests := []struct {
		name       string
		event      ScheduleEvent
		wantName   string
		wantAction string
	}{
		{name: "environment only", wantName: "workbench", wantAction: "stop"},
		{name: "action override", event: ScheduleEvent{Action: "start"}, wantName: "workbench", wantAction: "start"},
		{name: "full override", event: ScheduleEvent{Action: "start", NotebookName: "other"}, wantName: "other", wantAction: "start"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			applier := &recordingApplier{}
			resp, err := newHandler(applier, cfg)(context.Background(), tt.event)
			require.NoError(t, err)
			assert.Equal(t, 200, resp.StatusCode)
			assert.Equal(t, tt.wantName, applier.name)
			assert.Equal(t, tt.wantAction, applier.action)
		})
	}
}
