package gremlin

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/yogishpa/graph-samples/domain/core/valueobjects"
	pkgerrors "github.com/yogishpa/graph-samples/pkg/errors"
)

const tracerName = "github.com/yogishpa/graph-samples/infrastructure/neptune/gremlin"

// Executor opens one session per query, drains every response frame and
// closes the session before returning.
type Executor struct {
	url    string
	dialer Dialer
	logger *zap.Logger
}

// NewExecutor creates an executor for the WebSocket endpoint at url
// (for example wss://cluster:8182/gremlin).
func NewExecutor(url string, dialer Dialer, logger *zap.Logger) *Executor {
	if dialer == nil {
		dialer = NewWebSocketDialer(nil)
	}
	return &Executor{url: url, dialer: dialer, logger: logger}
}

// URL is the session endpoint
func (e *Executor) URL() string {
	return e.url
}

// Execute submits the traversal and returns all results as a Sequence
func (e *Executor) Execute(ctx context.Context, query valueobjects.Query) (valueobjects.Value, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "gremlin.Execute")
	defer span.End()
	span.SetAttributes(attribute.String("db.system", "neptune"), attribute.String("db.statement", query.Text()))

	result, err := e.execute(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, pkgerrors.Payload(err))
	}
	return result, err
}

func (e *Executor) execute(ctx context.Context, query valueobjects.Query) (valueobjects.Value, error) {
	conn, err := e.dialer.Dial(ctx, e.url, nil)
	if err != nil {
		e.logger.Warn("Gremlin connection failed", zap.String("url", e.url), zap.Error(err))
		return valueobjects.Value{}, pkgerrors.NewConnectionError(e.url, err)
	}

	var closeOnce sync.Once
	release := func() {
		closeOnce.Do(func() {
			if err := conn.Close(); err != nil {
				e.logger.Debug("Error closing gremlin connection", zap.Error(err))
			}
		})
	}
	defer release()

	// Reads block without a deadline, so cancellation closes the connection.
	stop := context.AfterFunc(ctx, release)
	defer stop()

	requestID := uuid.New()
	frame, err := encodeRequest(requestID, query.Text())
	if err != nil {
		return valueobjects.Value{}, pkgerrors.NewQueryError(fmt.Sprintf("failed to encode request: %v", err))
	}
	if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		return valueobjects.Value{}, pkgerrors.NewConnectionError(e.url, contextErr(ctx, err))
	}

	items, err := e.drain(ctx, conn)
	if err != nil {
		return valueobjects.Value{}, err
	}

	e.logger.Debug("Gremlin query completed",
		zap.String("request_id", requestID.String()),
		zap.Int("results", len(items)),
	)
	return valueobjects.Sequence(items...), nil
}

// drain reads frames until a final status arrives
func (e *Executor) drain(ctx context.Context, conn Conn) ([]valueobjects.Value, error) {
	items := []valueobjects.Value{}
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return nil, pkgerrors.NewConnectionError(e.url, contextErr(ctx, err))
		}

		resp, err := decodeResponse(data)
		if err != nil {
			return nil, pkgerrors.NewConnectionError(e.url, err)
		}

		switch code := resp.Status.Code; {
		case code >= 400:
			return nil, pkgerrors.NewQueryError(fmt.Sprintf("%d: %s", code, resp.Status.Message)).
				WithDetails(map[string]interface{}{"status_code": code})

		case code == statusNoContent:
			return items, nil

		case code == statusSuccess || code == statusPartialContent:
			batch, err := decodeGraphSON(resp.Result.Data)
			if err != nil {
				return nil, pkgerrors.NewQueryError(fmt.Sprintf("failed to decode result: %v", err))
			}
			if batch.Kind() == valueobjects.KindSequence {
				items = append(items, batch.Items()...)
			} else if resp.Result.Data != nil {
				items = append(items, batch)
			}
			if code == statusSuccess {
				return items, nil
			}

		default:
			return nil, pkgerrors.NewQueryError(fmt.Sprintf("unexpected status %d: %s", code, resp.Status.Message))
		}
	}
}

func contextErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}
