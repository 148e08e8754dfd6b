package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yogishpa/graph-samples/application/services"
	"github.com/yogishpa/graph-samples/domain/core/entities"
	"github.com/yogishpa/graph-samples/pkg/auth"
	"github.com/yogishpa/graph-samples/pkg/observability"
)

type stubChat struct{}

func (stubChat) Ask(_ context.Context, sessionID, question string) (*services.ChatReply, error) {
	return &services.ChatReply{SessionID: sessionID, Answer: "echo: " + question}, nil
}

func (stubChat) RunQuery(context.Context, string) (any, error) { return []any{}, nil }

func (stubChat) TestConnection(context.Context) services.ConnectionStatus {
	return services.ConnectionStatus{OK: true, Message: "Connection successful"}
}

func (stubChat) ExploreSchema(context.Context) []services.SchemaSection { return nil }

func (stubChat) History(context.Context, string) ([]entities.Turn, error) { return nil, nil }

func do(h http.Handler, method, path, body, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_HealthAndReady(t *testing.T) {
	h := NewRouter(stubChat{}, nil, nil, Options{}, zap.NewNop()).Setup()

	rec := do(h, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())

	rec = do(h, http.MethodGet, "/ready", "", "")
	assert.JSONEq(t, `{"status":"ready"}`, rec.Body.String())

	rec = do(h, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_ChatWithoutAuth(t *testing.T) {
	h := NewRouter(stubChat{}, nil, nil, Options{}, zap.NewNop()).Setup()

	rec := do(h, http.MethodPost, "/api/v1/chat", `{"session_id":"s","question":"hello"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"answer":"echo: hello"`)
}

func TestRouter_AuthenticatedRoutes(t *testing.T) {
	validator, err := auth.NewValidator("secret", "graph-samples")
	require.NoError(t, err)
	h := NewRouter(stubChat{}, nil, validator, Options{}, zap.NewNop()).Setup()

	rec := do(h, http.MethodGet, "/api/v1/connection-test", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	claims := auth.Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "graph-samples",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	rec = do(h, http.MethodGet, "/api/v1/connection-test", "", token)
	assert.Equal(t, http.StatusOK, rec.Code)

	// health stays public
	rec = do(h, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	collector := observability.NewCollector("graph_samples_test")
	h := NewRouter(stubChat{}, collector, nil, Options{}, zap.NewNop()).Setup()

	do(h, http.MethodPost, "/api/v1/query", `{"query":"MATCH (n) RETURN n"}`, "")

	rec := do(h, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `route="/api/v1/query"`)
}

func TestRouter_CORSPreflight(t *testing.T) {
	h := NewRouter(stubChat{}, nil, nil, Options{EnableCORS: true, AllowedOrigins: []string{"https://app.example.com"}}, zap.NewNop()).Setup()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/chat", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}
