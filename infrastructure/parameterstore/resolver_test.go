package parameterstore

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yogishpa/graph-samples/domain/core/valueobjects"
	pkgerrors "github.com/yogishpa/graph-samples/pkg/errors"
)

type mockSSM struct {
	mock.Mock
}

func (m *mockSSM) GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*ssm.GetParameterOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func newTestResolver(client API) *Resolver {
	return NewResolver(client, Options{
		Decrypt:    true,
		Region:     "us-east-1",
		AccountID:  "123456789012",
		PathPrefix: "/app/gremlin/",
	}, zap.NewNop())
}

func TestResolver_Resolve_Found(t *testing.T) {
	client := new(mockSSM)
	client.On("GetParameter", mock.Anything, mock.MatchedBy(func(in *ssm.GetParameterInput) bool {
		return aws.ToString(in.Name) == "/app/gremlin/query1" && aws.ToBool(in.WithDecryption)
	})).Return(&ssm.GetParameterOutput{
		Parameter: &types.Parameter{Value: aws.String("g.V().count()")},
	}, nil).Once()

	res := newTestResolver(client).Resolve(context.Background(), "/app/gremlin/query1")

	require.True(t, res.OK())
	assert.Equal(t, "g.V().count()", res.Query().Text())
	assert.Equal(t, valueobjects.LanguageGremlin, res.Query().Language())
	client.AssertExpectations(t)
}

func TestResolver_Resolve_DecryptFlagPassedThrough(t *testing.T) {
	client := new(mockSSM)
	client.On("GetParameter", mock.Anything, mock.MatchedBy(func(in *ssm.GetParameterInput) bool {
		return !aws.ToBool(in.WithDecryption)
	})).Return(&ssm.GetParameterOutput{
		Parameter: &types.Parameter{Value: aws.String("g.E().limit(1)")},
	}, nil).Once()

	r := NewResolver(client, Options{Decrypt: false}, zap.NewNop())
	res := r.Resolve(context.Background(), "q")

	require.True(t, res.OK())
	client.AssertExpectations(t)
}

func TestResolver_Resolve_NotFound(t *testing.T) {
	client := new(mockSSM)
	client.On("GetParameter", mock.Anything, mock.Anything).
		Return(nil, &types.ParameterNotFound{Message: aws.String("missing")}).Once()

	res := newTestResolver(client).Resolve(context.Background(), "/app/gremlin/missing")

	assert.False(t, res.OK())
	assert.True(t, pkgerrors.IsConfigUnavailable(res.Err()))
	assert.Equal(t, "ParameterNotFound", pkgerrors.GetAppError(res.Err()).Code)
	assert.Equal(t, "g.V().limit(1)", res.OrElse(valueobjects.NewGremlinQuery("g.V().limit(1)")).Text())
}

func TestResolver_Resolve_AccessDenied(t *testing.T) {
	client := new(mockSSM)
	client.On("GetParameter", mock.Anything, mock.Anything).
		Return(nil, &smithy.GenericAPIError{Code: "AccessDeniedException", Message: "not authorized"}).Once()

	res := newTestResolver(client).Resolve(context.Background(), "/app/gremlin/query1")

	assert.False(t, res.OK())
	assert.True(t, pkgerrors.IsConfigUnavailable(res.Err()))
	assert.Equal(t, "AccessDeniedException", pkgerrors.GetAppError(res.Err()).Code)
}

func TestResolver_Resolve_OtherFailure(t *testing.T) {
	client := new(mockSSM)
	client.On("GetParameter", mock.Anything, mock.Anything).
		Return(nil, errors.New("network down")).Once()

	res := newTestResolver(client).Resolve(context.Background(), "q")

	assert.False(t, res.OK())
	assert.True(t, pkgerrors.IsConfigUnavailable(res.Err()))
}

func TestResolver_Resolve_EmptyValue(t *testing.T) {
	client := new(mockSSM)
	client.On("GetParameter", mock.Anything, mock.Anything).
		Return(&ssm.GetParameterOutput{Parameter: &types.Parameter{Value: aws.String("")}}, nil).Once()

	res := newTestResolver(client).Resolve(context.Background(), "q")
	assert.False(t, res.OK())
}

func TestResolver_RequiredPolicy(t *testing.T) {
	var doc struct {
		Statement []struct {
			Action   []string
			Resource string
		}
	}
	require.NoError(t, json.Unmarshal([]byte(newTestResolver(nil).RequiredPolicy()), &doc))

	require.Len(t, doc.Statement, 1)
	assert.Equal(t, []string{"ssm:GetParameter", "ssm:GetParameters"}, doc.Statement[0].Action)
	assert.Equal(t, "arn:aws:ssm:us-east-1:123456789012:parameter/app/gremlin/*", doc.Statement[0].Resource)
}
