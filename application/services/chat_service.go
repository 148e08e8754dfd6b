package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yogishpa/graph-samples/application/ports"
	"github.com/yogishpa/graph-samples/domain/core/entities"
	"github.com/yogishpa/graph-samples/domain/core/valueobjects"
	domainservices "github.com/yogishpa/graph-samples/domain/services"
	pkgerrors "github.com/yogishpa/graph-samples/pkg/errors"
)

const transportOpenCypher = "opencypher"

// ChatReply is one answered question
type ChatReply struct {
	SessionID string `json:"session_id"`
	Query     string `json:"query"`
	Answer    string `json:"answer"`
	Results   any    `json:"results,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ConnectionStatus is the result of a connection check
type ConnectionStatus struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	Results any    `json:"results,omitempty"`
}

// SchemaSection is one exploration query and what it returned
type SchemaSection struct {
	Name    string `json:"name"`
	Query   string `json:"query"`
	Results any    `json:"results,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ChatService answers natural-language questions about the graph by having
// the text generator write OpenCypher and then summarize the rows.
type ChatService struct {
	generator    ports.TextGenerator
	executor     ports.QueryExecutor
	store        ports.ConversationStore
	catalog      ports.PromptCatalogSource
	metrics      ports.QueryMetrics
	historyLimit int
	logger       *zap.Logger
}

// NewChatService creates a chat service; metrics may be nil
func NewChatService(
	generator ports.TextGenerator,
	executor ports.QueryExecutor,
	store ports.ConversationStore,
	catalog ports.PromptCatalogSource,
	metrics ports.QueryMetrics,
	historyLimit int,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		generator:    generator,
		executor:     executor,
		store:        store,
		catalog:      catalog,
		metrics:      metrics,
		historyLimit: historyLimit,
		logger:       logger,
	}
}

// Ask turns question into a query, runs it and phrases the answer. A failed
// query is reported in the answer rather than as an error; only text
// generation failures are returned.
func (s *ChatService) Ask(ctx context.Context, sessionID, question string) (*ChatReply, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, pkgerrors.NewValidationError("question is required")
	}
	if sessionID == "" {
		sessionID = entities.NewSessionID()
	}

	s.remember(ctx, entities.NewUserTurn(sessionID, question))

	reply, err := s.complete(ctx, "cypher", BuildCypherPrompt(s.catalog.Catalog(), question))
	if err != nil {
		return nil, err
	}
	query := CleanQuery(reply)

	s.logger.Info("Generated query",
		zap.String("session_id", sessionID),
		zap.String("query", query),
	)

	out := &ChatReply{SessionID: sessionID, Query: query}

	results, err := s.run(ctx, query)
	if err != nil {
		out.Error = pkgerrors.Payload(err)
		out.Answer = "Error executing query: " + out.Error
	} else {
		out.Results = results
		answer, err := s.complete(ctx, "answer", BuildAnswerPrompt(question, results))
		if err != nil {
			return nil, err
		}
		out.Answer = answer
	}

	s.remember(ctx, entities.NewAssistantTurn(sessionID, out.Answer, query))
	return out, nil
}

// RunQuery executes an OpenCypher query as given
func (s *ChatService) RunQuery(ctx context.Context, query string) (any, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, pkgerrors.NewValidationError("query is required")
	}
	return s.run(ctx, query)
}

// TestConnection runs the catalog's connection test query
func (s *ChatService) TestConnection(ctx context.Context) ConnectionStatus {
	results, err := s.run(ctx, s.catalog.Catalog().ConnectionTest)
	if err != nil {
		return ConnectionStatus{Message: "Connection failed: " + pkgerrors.Payload(err)}
	}
	return ConnectionStatus{OK: true, Message: "Connection successful", Results: results}
}

// ExploreSchema runs every exploration query of the catalog, in name order.
// A failing section carries its error and does not stop the others.
func (s *ChatService) ExploreSchema(ctx context.Context) []SchemaSection {
	exploration := s.catalog.Catalog().Exploration
	names := make([]string, 0, len(exploration))
	for name := range exploration {
		names = append(names, name)
	}
	sort.Strings(names)

	sections := make([]SchemaSection, 0, len(names))
	for _, name := range names {
		section := SchemaSection{Name: name, Query: exploration[name]}
		results, err := s.run(ctx, section.Query)
		if err != nil {
			section.Error = pkgerrors.Payload(err)
		} else {
			section.Results = results
		}
		sections = append(sections, section)
	}
	return sections
}

// History returns the most recent turns of a session, oldest first
func (s *ChatService) History(ctx context.Context, sessionID string) ([]entities.Turn, error) {
	if sessionID == "" {
		return nil, pkgerrors.NewValidationError("session id is required")
	}
	return s.store.History(ctx, sessionID, s.historyLimit)
}

func (s *ChatService) run(ctx context.Context, query string) (any, error) {
	start := time.Now()
	value, err := s.executor.Execute(ctx, valueobjects.NewOpenCypherQuery(query))
	if s.metrics != nil {
		s.metrics.RecordQuery(transportOpenCypher, time.Since(start), err)
	}
	if err != nil {
		return nil, err
	}
	return domainservices.Normalize(value), nil
}

func (s *ChatService) complete(ctx context.Context, purpose, prompt string) (string, error) {
	start := time.Now()
	text, err := s.generator.Complete(ctx, prompt)
	if s.metrics != nil {
		s.metrics.RecordCompletion(purpose, time.Since(start), err)
	}
	if err != nil {
		s.logger.Error("Text generation failed", zap.String("purpose", purpose), zap.Error(err))
		return "", err
	}
	return text, nil
}

// remember stores a turn; history is best effort and never fails a request
func (s *ChatService) remember(ctx context.Context, turn entities.Turn) {
	if _, err := s.store.Append(ctx, turn); err != nil {
		s.logger.Warn("Failed to record chat turn",
			zap.String("session_id", turn.SessionID),
			zap.String("role", string(turn.Role)),
			zap.Error(err),
		)
	}
}
