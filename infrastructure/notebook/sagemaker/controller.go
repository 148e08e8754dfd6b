// Package sagemaker controls managed notebook instances.
package sagemaker

import (
	"context"
	"errors"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"github.com/yogishpa/graph-samples/domain/core/entities"
	pkgerrors "github.com/yogishpa/graph-samples/pkg/errors"
)

// API is the subset of the SageMaker client used by the controller
type API interface {
	DescribeNotebookInstance(ctx context.Context, params *sagemaker.DescribeNotebookInstanceInput, optFns ...func(*sagemaker.Options)) (*sagemaker.DescribeNotebookInstanceOutput, error)
	StartNotebookInstance(ctx context.Context, params *sagemaker.StartNotebookInstanceInput, optFns ...func(*sagemaker.Options)) (*sagemaker.StartNotebookInstanceOutput, error)
	StopNotebookInstance(ctx context.Context, params *sagemaker.StopNotebookInstanceInput, optFns ...func(*sagemaker.Options)) (*sagemaker.StopNotebookInstanceOutput, error)
}

// Controller implements the notebook port on SageMaker
type Controller struct {
	client API
	logger *zap.Logger
}

// NewController creates a notebook controller
func NewController(client API, logger *zap.Logger) *Controller {
	return &Controller{client: client, logger: logger}
}

// Describe returns the notebook with its current status
func (c *Controller) Describe(ctx context.Context, name string) (entities.NotebookInstance, error) {
	out, err := c.client.DescribeNotebookInstance(ctx, &sagemaker.DescribeNotebookInstanceInput{
		NotebookInstanceName: aws.String(name),
	})
	if err != nil {
		return entities.NotebookInstance{}, c.translate(name, err)
	}

	notebook := entities.NotebookInstance{
		Name:   name,
		Status: entities.NotebookStatus(out.NotebookInstanceStatus),
	}
	c.logger.Info("Current status of notebook",
		zap.String("notebook", name),
		zap.String("status", string(notebook.Status)),
	)
	return notebook, nil
}

// Start initiates a start
func (c *Controller) Start(ctx context.Context, name string) error {
	c.logger.Info("Starting notebook instance", zap.String("notebook", name))
	_, err := c.client.StartNotebookInstance(ctx, &sagemaker.StartNotebookInstanceInput{
		NotebookInstanceName: aws.String(name),
	})
	if err != nil {
		return c.translate(name, err)
	}
	return nil
}

// Stop initiates a stop
func (c *Controller) Stop(ctx context.Context, name string) error {
	c.logger.Info("Stopping notebook instance", zap.String("notebook", name))
	_, err := c.client.StopNotebookInstance(ctx, &sagemaker.StopNotebookInstanceInput{
		NotebookInstanceName: aws.String(name),
	})
	if err != nil {
		return c.translate(name, err)
	}
	return nil
}

// translate maps SageMaker failures; a missing notebook is reported as a
// ValidationException mentioning RecordNotFound.
func (c *Controller) translate(name string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ValidationException" &&
		strings.Contains(apiErr.ErrorMessage(), "RecordNotFound") {
		return pkgerrors.NewNotFoundError("notebook instance " + name).WithCause(err)
	}
	return pkgerrors.NewExternalError("sagemaker", err)
}
