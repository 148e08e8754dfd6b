package di

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"go.uber.org/zap"

	"github.com/yogishpa/graph-samples/application/ports"
	"github.com/yogishpa/graph-samples/application/services"
	domainconfig "github.com/yogishpa/graph-samples/domain/config"
	"github.com/yogishpa/graph-samples/domain/core/valueobjects"
	"github.com/yogishpa/graph-samples/domain/events"
	"github.com/yogishpa/graph-samples/infrastructure/config"
	"github.com/yogishpa/graph-samples/infrastructure/llm/bedrock"
	"github.com/yogishpa/graph-samples/infrastructure/messaging/eventbridge"
	"github.com/yogishpa/graph-samples/infrastructure/neptune"
	"github.com/yogishpa/graph-samples/infrastructure/neptune/gremlin"
	"github.com/yogishpa/graph-samples/infrastructure/neptune/opencypher"
	notebooksagemaker "github.com/yogishpa/graph-samples/infrastructure/notebook/sagemaker"
	"github.com/yogishpa/graph-samples/infrastructure/parameterstore"
	"github.com/yogishpa/graph-samples/infrastructure/persistence/dynamodb"
	"github.com/yogishpa/graph-samples/infrastructure/persistence/memory"
	"github.com/yogishpa/graph-samples/pkg/auth"
	"github.com/yogishpa/graph-samples/pkg/observability"
)

const (
	metricsNamespace    = "graph_samples"
	cloudWatchNamespace = "GraphSamples"
	transportGremlin    = "gremlin"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.IsProduction() {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}

	if cfg.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
		}
		zcfg.Level = level
	}

	return zcfg.Build()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideSigner returns a SigV4 signer for IAM-auth clusters, nil otherwise
func ProvideSigner(awsCfg aws.Config, cfg *config.Config) *neptune.Signer {
	if !cfg.NeptuneIAMAuth {
		return nil
	}
	return neptune.NewSigner(awsCfg.Credentials, cfg.AWSRegion)
}

// ProvideOpenCypherExecutor creates the HTTP-form executor
func ProvideOpenCypherExecutor(cfg *config.Config, signer *neptune.Signer, logger *zap.Logger) *opencypher.Executor {
	return opencypher.NewExecutor(cfg.NeptuneHTTPURL(), logger, opencypher.WithSigner(signer))
}

// ProvideGremlinExecutor creates the persistent-session executor
func ProvideGremlinExecutor(cfg *config.Config, signer *neptune.Signer, logger *zap.Logger) *gremlin.Executor {
	return gremlin.NewExecutor(cfg.NeptuneGremlinURL(), gremlin.NewWebSocketDialer(signer), logger)
}

// ProvideSSMClient creates a parameter store client
func ProvideSSMClient(awsCfg aws.Config) *ssm.Client {
	return ssm.NewFromConfig(awsCfg)
}

// ProvideQuerySource creates the stored-query resolver
func ProvideQuerySource(client *ssm.Client, cfg *config.Config, logger *zap.Logger) ports.QuerySource {
	return parameterstore.NewResolver(client, parameterstore.Options{
		Decrypt:    cfg.ParameterDecrypt,
		Language:   valueobjects.LanguageGremlin,
		Region:     cfg.AWSRegion,
		AccountID:  cfg.AWSAccountID,
		PathPrefix: cfg.ParameterPathPrefix,
	}, logger)
}

// ProvideBedrockClient creates a runtime client, honoring a separate region
func ProvideBedrockClient(awsCfg aws.Config, cfg *config.Config) *bedrockruntime.Client {
	return bedrockruntime.NewFromConfig(awsCfg, func(o *bedrockruntime.Options) {
		if cfg.BedrockRegion != "" {
			o.Region = cfg.BedrockRegion
		}
	})
}

// ProvideTextGenerator wraps the model client in a circuit breaker
func ProvideTextGenerator(client *bedrockruntime.Client, cfg *config.Config, logger *zap.Logger) ports.TextGenerator {
	model := bedrock.NewClient(client, cfg.BedrockModelID, cfg.BedrockMaxTokens, logger)
	return bedrock.NewBreakingGenerator(model, bedrock.DefaultBreakerConfig("bedrock"), logger)
}

// ProvideConversationStore uses DynamoDB when a table is configured and
// process memory otherwise.
func ProvideConversationStore(awsCfg aws.Config, cfg *config.Config, logger *zap.Logger) ports.ConversationStore {
	if cfg.ConversationsTable == "" {
		logger.Info("No conversations table configured, keeping chat history in memory")
		return memory.NewConversationStore(cfg.HistoryLimit)
	}
	return dynamodb.NewConversationStore(awsdynamodb.NewFromConfig(awsCfg), cfg.ConversationsTable, logger)
}

// ProvidePromptCatalogSource watches the catalog file when one is configured.
// Reloads are counted when collector is non-nil. The cleanup stops the watcher.
func ProvidePromptCatalogSource(cfg *config.Config, collector *observability.Collector, logger *zap.Logger) (ports.PromptCatalogSource, func(), error) {
	if cfg.PromptCatalogPath == "" {
		return domainconfig.DefaultPromptCatalog(), func() {}, nil
	}

	watcher, err := config.NewCatalogWatcher(cfg.PromptCatalogPath, logger)
	if err != nil {
		return nil, nil, err
	}
	if collector != nil {
		watcher.OnChange(func(*domainconfig.PromptCatalog) {
			collector.RecordCatalogReload()
		})
	}
	watcher.Start()
	return watcher, watcher.Stop, nil
}

// ProvideCollector creates the Prometheus collector, nil when metrics are off
func ProvideCollector(cfg *config.Config) *observability.Collector {
	if !cfg.EnableMetrics {
		return nil
	}
	return observability.NewCollector(metricsNamespace)
}

// ProvideQueryMetrics exposes the collector to the services
func ProvideQueryMetrics(collector *observability.Collector) ports.QueryMetrics {
	if collector == nil {
		return nil
	}
	return collector
}

// ProvideChatService creates the chat orchestrator
func ProvideChatService(
	generator ports.TextGenerator,
	executor *opencypher.Executor,
	store ports.ConversationStore,
	catalog ports.PromptCatalogSource,
	metrics ports.QueryMetrics,
	cfg *config.Config,
	logger *zap.Logger,
) *services.ChatService {
	return services.NewChatService(generator, executor, store, catalog, metrics, cfg.HistoryLimit, logger)
}

// ProvideQueryRunner creates the stored-query runner over the Gremlin transport
func ProvideQueryRunner(
	source ports.QuerySource,
	executor *gremlin.Executor,
	metrics ports.QueryMetrics,
	logger *zap.Logger,
) *services.QueryRunner {
	return services.NewQueryRunner(source, executor, metrics, transportGremlin, logger)
}

// ProvideJWTValidator returns nil when no secret is configured, which leaves
// the API unauthenticated.
func ProvideJWTValidator(cfg *config.Config) (*auth.Validator, error) {
	if cfg.JWTSecret == "" {
		return nil, nil
	}
	return auth.NewValidator(cfg.JWTSecret, cfg.JWTIssuer)
}

// ProvideSageMakerClient creates a SageMaker client
func ProvideSageMakerClient(awsCfg aws.Config) *sagemaker.Client {
	return sagemaker.NewFromConfig(awsCfg)
}

// ProvideNotebookController creates the notebook controller
func ProvideNotebookController(client *sagemaker.Client, logger *zap.Logger) ports.NotebookController {
	return notebooksagemaker.NewController(client, logger)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideEventPublisher returns nil when no bus is configured
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	if cfg.EventBusName == "" {
		return nil
	}
	return eventbridge.NewPublisher(client, cfg.EventBusName, events.SourceNotebookScheduler, logger)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideNotebookMetrics returns nil when metrics are off
func ProvideNotebookMetrics(client *awscloudwatch.Client, cfg *config.Config, logger *zap.Logger) ports.NotebookMetrics {
	if !cfg.EnableMetrics {
		return nil
	}
	return observability.NewMetrics(cloudWatchNamespace, client, logger)
}

// ProvideNotebookScheduler creates the lifecycle service
func ProvideNotebookScheduler(
	controller ports.NotebookController,
	publisher ports.EventPublisher,
	metrics ports.NotebookMetrics,
	logger *zap.Logger,
) *services.NotebookScheduler {
	return services.NewNotebookScheduler(controller, publisher, metrics, logger)
}
