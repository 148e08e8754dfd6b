package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// CloudWatchAPI is the subset of the CloudWatch client used for metrics
type CloudWatchAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Metrics records notebook lifecycle decisions in CloudWatch
type Metrics struct {
	namespace string
	client    CloudWatchAPI
	logger    *zap.Logger
}

// NewMetrics creates a new metrics instance; a nil client disables it
func NewMetrics(namespace string, client CloudWatchAPI, logger *zap.Logger) *Metrics {
	return &Metrics{
		namespace: namespace,
		client:    client,
		logger:    logger,
	}
}

// RecordNotebookAction records whether an action was applied, skipped or failed
func (m *Metrics) RecordNotebookAction(ctx context.Context, name, action string, applied bool, err error) {
	if m == nil || m.client == nil {
		return
	}

	result := "skipped"
	switch {
	case err != nil:
		result = "failure"
	case applied:
		result = "applied"
	}

	input := &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(m.namespace),
		MetricData: []types.MetricDatum{
			{
				MetricName: aws.String("NotebookAction"),
				Dimensions: []types.Dimension{
					{Name: aws.String("NotebookName"), Value: aws.String(name)},
					{Name: aws.String("Action"), Value: aws.String(action)},
					{Name: aws.String("Result"), Value: aws.String(result)},
				},
				Value:     aws.Float64(1),
				Unit:      types.StandardUnitCount,
				Timestamp: aws.Time(time.Now()),
			},
		},
	}

	// Metrics never fail the operation
	if _, err := m.client.PutMetricData(ctx, input); err != nil {
		m.logger.Warn("Failed to send metrics", zap.Error(err))
	}
}
