package sagemaker

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yogishpa/graph-samples/domain/core/entities"
	pkgerrors "github.com/yogishpa/graph-samples/pkg/errors"
)

type mockSageMaker struct {
	mock.Mock
}

func (m *mockSageMaker) DescribeNotebookInstance(ctx context.Context, params *sagemaker.DescribeNotebookInstanceInput, optFns ...func(*sagemaker.Options)) (*sagemaker.DescribeNotebookInstanceOutput, error) {
	args := m.Called(ctx, aws.ToString(params.NotebookInstanceName))
	if out := args.Get(0); out != nil {
		return out.(*sagemaker.DescribeNotebookInstanceOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSageMaker) StartNotebookInstance(ctx context.Context, params *sagemaker.StartNotebookInstanceInput, optFns ...func(*sagemaker.Options)) (*sagemaker.StartNotebookInstanceOutput, error) {
	args := m.Called(ctx, aws.ToString(params.NotebookInstanceName))
	return &sagemaker.StartNotebookInstanceOutput{}, args.Error(0)
}

func (m *mockSageMaker) StopNotebookInstance(ctx context.Context, params *sagemaker.StopNotebookInstanceInput, optFns ...func(*sagemaker.Options)) (*sagemaker.StopNotebookInstanceOutput, error) {
	args := m.Called(ctx, aws.ToString(params.NotebookInstanceName))
	return &sagemaker.StopNotebookInstanceOutput{}, args.Error(0)
}

func TestController_Describe(t *testing.T) {
	api := new(mockSageMaker)
	api.On("DescribeNotebookInstance", mock.Anything, "nb").Return(&sagemaker.DescribeNotebookInstanceOutput{
		NotebookInstanceStatus: types.NotebookInstanceStatusInService,
	}, nil).Once()

	nb, err := NewController(api, zap.NewNop()).Describe(context.Background(), "nb")

	require.NoError(t, err)
	assert.Equal(t, entities.NotebookInstance{Name: "nb", Status: entities.NotebookInService}, nb)
}

func TestController_Describe_NotFound(t *testing.T) {
	api := new(mockSageMaker)
	api.On("DescribeNotebookInstance", mock.Anything, "missing").Return(nil, &smithy.GenericAPIError{
		Code:    "ValidationException",
		Message: "RecordNotFound",
	}).Once()

	_, err := NewController(api, zap.NewNop()).Describe(context.Background(), "missing")

	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestController_StartStop(t *testing.T) {
	api := new(mockSageMaker)
	api.On("StartNotebookInstance", mock.Anything, "nb").Return(nil).Once()
	api.On("StopNotebookInstance", mock.Anything, "nb").Return(errors.New("throttled")).Once()

	c := NewController(api, zap.NewNop())

	require.NoError(t, c.Start(context.Background(), "nb"))

	err := c.Stop(context.Background(), "nb")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeExternal))
	api.AssertExpectations(t)
}
