package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/yogishpa/graph-samples/application/ports"
	"github.com/yogishpa/graph-samples/domain/core/valueobjects"
	domainservices "github.com/yogishpa/graph-samples/domain/services"
	pkgerrors "github.com/yogishpa/graph-samples/pkg/errors"
)

// RunReport is the outcome of one QueryRunner.Run
type RunReport struct {
	// Query is the query that was executed
	Query valueobjects.Query

	// UsedFallback is set when the stored query was unavailable
	UsedFallback bool

	// ResolveErr explains why the fallback was used
	ResolveErr error

	// Result is the normalized result; nil when Err is set
	Result any

	// Err is the connection or query failure, if any
	Err error
}

// QueryRunner resolves a stored query, falls back to a literal when the
// store has none, executes it and normalizes the result.
type QueryRunner struct {
	source    ports.QuerySource
	executor  ports.QueryExecutor
	metrics   ports.QueryMetrics
	transport string
	logger    *zap.Logger
}

// NewQueryRunner creates a runner; metrics may be nil
func NewQueryRunner(
	source ports.QuerySource,
	executor ports.QueryExecutor,
	metrics ports.QueryMetrics,
	transport string,
	logger *zap.Logger,
) *QueryRunner {
	return &QueryRunner{
		source:    source,
		executor:  executor,
		metrics:   metrics,
		transport: transport,
		logger:    logger,
	}
}

// Run never panics; every failure is reported in the returned RunReport
func (r *QueryRunner) Run(ctx context.Context, parameterName string, fallback valueobjects.Query) (report RunReport) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("Query run panicked", zap.Any("panic", p))
			report.Result = nil
			report.Err = pkgerrors.NewInternalError(fmt.Sprintf("panic: %v", p))
		}
	}()

	resolution := r.source.Resolve(ctx, parameterName)
	if !resolution.OK() {
		r.logger.Warn("Parameter store access failed, falling back to direct query",
			zap.String("parameter", parameterName),
			zap.String("error", pkgerrors.Payload(resolution.Err())),
			zap.String("fallback", fallback.Text()),
		)
		report.UsedFallback = true
		report.ResolveErr = resolution.Err()
	}
	report.Query = resolution.OrElse(fallback)

	start := time.Now()
	value, err := r.executor.Execute(ctx, report.Query)
	if r.metrics != nil {
		r.metrics.RecordQuery(r.transport, time.Since(start), err)
	}
	if err != nil {
		r.logger.Error("Query execution failed",
			zap.String("query", report.Query.Text()),
			zap.Error(err),
		)
		report.Err = err
		return report
	}

	report.Result = domainservices.Normalize(value)
	return report
}
