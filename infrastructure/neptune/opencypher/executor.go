// Package opencypher runs OpenCypher queries over the HTTP-form transport.
package opencypher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/yogishpa/graph-samples/domain/core/valueobjects"
	"github.com/yogishpa/graph-samples/infrastructure/neptune"
	pkgerrors "github.com/yogishpa/graph-samples/pkg/errors"
)

const tracerName = "github.com/yogishpa/graph-samples/infrastructure/neptune/opencypher"

// Executor posts each query to {endpoint}/openCypher on a fresh connection
type Executor struct {
	endpoint string
	client   *http.Client
	signer   *neptune.Signer
	logger   *zap.Logger
}

// Option configures an Executor
type Option func(*Executor)

// WithHTTPClient replaces the default client
func WithHTTPClient(client *http.Client) Option {
	return func(e *Executor) {
		e.client = client
	}
}

// WithSigner signs every request for IAM-auth clusters
func WithSigner(signer *neptune.Signer) Option {
	return func(e *Executor) {
		e.signer = signer
	}
}

// NewExecutor creates an executor for the cluster at baseURL
// (for example https://cluster:8182).
func NewExecutor(baseURL string, logger *zap.Logger, opts ...Option) *Executor {
	e := &Executor{
		endpoint: strings.TrimRight(baseURL, "/") + "/openCypher",
		client: &http.Client{
			Transport: &http.Transport{
				Proxy:             http.ProxyFromEnvironment,
				DisableKeepAlives: true,
			},
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Endpoint is the URL queries are posted to
func (e *Executor) Endpoint() string {
	return e.endpoint
}

// Execute runs one query and returns its rows as a Sequence
func (e *Executor) Execute(ctx context.Context, query valueobjects.Query) (valueobjects.Value, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "opencypher.Execute")
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
	body := []byte(url.Values{"query": {query.Text()}}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return valueobjects.Value{}, pkgerrors.NewConnectionError(e.endpoint, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	if err := e.signer.Sign(ctx, req, body); err != nil {
		return valueobjects.Value{}, pkgerrors.NewConnectionError(e.endpoint, err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		e.logger.Warn("OpenCypher request failed", zap.String("endpoint", e.endpoint), zap.Error(err))
		return valueobjects.Value{}, pkgerrors.NewConnectionError(e.endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return valueobjects.Value{}, pkgerrors.NewConnectionError(e.endpoint, err)
	}

	if resp.StatusCode != http.StatusOK {
		e.logger.Warn("OpenCypher query rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("query", query.Text()),
		)
		return valueobjects.Value{}, pkgerrors.NewQueryError(fmt.Sprintf("HTTP Error %d: %s", resp.StatusCode, string(data)))
	}

	return decodeResults(data)
}

// decodeResults requires a "results" key; null is read as no rows
func decodeResults(data []byte) (valueobjects.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return valueobjects.Value{}, pkgerrors.NewQueryError(fmt.Sprintf("invalid response body: %v", err))
	}

	results, ok := payload["results"]
	if !ok {
		return valueobjects.Value{}, pkgerrors.NewQueryError("response has no results")
	}
	if results == nil {
		return valueobjects.Sequence(), nil
	}
	return valueobjects.FromNative(results), nil
}
