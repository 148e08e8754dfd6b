package parameterstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"github.com/yogishpa/graph-samples/domain/core/valueobjects"
	pkgerrors "github.com/yogishpa/graph-samples/pkg/errors"
)

// API is the subset of the SSM client used by the resolver
type API interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// Options configures a Resolver
type Options struct {
	// Decrypt is passed through as WithDecryption
	Decrypt bool

	// Language of the queries stored under the names resolved
	Language valueobjects.QueryLanguage

	// Region, AccountID and PathPrefix only shape the IAM policy logged on
	// access denied.
	Region     string
	AccountID  string
	PathPrefix string
}

// Resolver fetches named queries from the SSM parameter store. Each call is a
// single round trip with no retry and no caching.
type Resolver struct {
	client API
	opts   Options
	logger *zap.Logger
}

// NewResolver creates a parameter store backed query source
func NewResolver(client API, opts Options, logger *zap.Logger) *Resolver {
	if opts.Language == "" {
		opts.Language = valueobjects.LanguageGremlin
	}
	return &Resolver{client: client, opts: opts, logger: logger}
}

// Resolve returns the stored query or a CONFIG_UNAVAILABLE error
func (r *Resolver) Resolve(ctx context.Context, name string) valueobjects.Resolution {
	out, err := r.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(r.opts.Decrypt),
	})
	if err != nil {
		return valueobjects.Unresolved(r.classify(name, err))
	}

	if out.Parameter == nil || aws.ToString(out.Parameter.Value) == "" {
		return valueobjects.Unresolved(pkgerrors.NewConfigUnavailableError(name, errors.New("parameter has no value")))
	}

	r.logger.Debug("Resolved query from parameter store",
		zap.String("name", name),
		zap.Int64("version", out.Parameter.Version),
	)
	return valueobjects.Resolved(valueobjects.NewQuery(r.opts.Language, aws.ToString(out.Parameter.Value)))
}

func (r *Resolver) classify(name string, err error) error {
	var notFound *types.ParameterNotFound
	if errors.As(err, &notFound) {
		r.logger.Warn("Parameter not found", zap.String("name", name))
		return pkgerrors.NewConfigUnavailableError(name, err).WithCode("ParameterNotFound")
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "AccessDeniedException" {
		r.logger.Warn("Access denied reading parameter; attach this policy to the caller",
			zap.String("name", name),
			zap.String("policy", r.RequiredPolicy()),
		)
		return pkgerrors.NewConfigUnavailableError(name, err).WithCode("AccessDeniedException")
	}

	r.logger.Error("Failed to read parameter", zap.String("name", name), zap.Error(err))
	return pkgerrors.NewConfigUnavailableError(name, err)
}

// RequiredPolicy is the minimal IAM policy document granting read access to
// the configured parameter path.
func (r *Resolver) RequiredPolicy() string {
	prefix := strings.TrimPrefix(r.opts.PathPrefix, "/")
	return fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Action":["ssm:GetParameter","ssm:GetParameters"],"Resource":"arn:aws:ssm:%s:%s:parameter/%s*"}]}`,
		r.opts.Region, r.opts.AccountID, prefix)
}
