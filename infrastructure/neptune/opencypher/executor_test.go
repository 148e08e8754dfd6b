package opencypher

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yogishpa/graph-samples/domain/core/valueobjects"
	"github.com/yogishpa/graph-samples/domain/services"
	pkgerrors "github.com/yogishpa/graph-samples/pkg/errors"
)

// countingBody counts Close calls on a canned response body
type countingBody struct {
	io.Reader
	closes *int32
}

func (b countingBody) Close() error {
	atomic.AddInt32(b.closes, 1)
	return nil
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func cannedClient(status int, body string, closes *int32) *http.Client {
	return &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: status,
			Body:       countingBody{Reader: strings.NewReader(body), closes: closes},
			Header:     make(http.Header),
			Request:    r,
		}, nil
	})}
}

func TestExecutor_Execute_Success(t *testing.T) {
	var gotQuery, gotContentType, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		assert.NoError(t, r.ParseForm())
		gotQuery = r.PostForm.Get("query")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"a.code":"JFK","a.city":"New York"},{"a.code":"SEA","a.city":"Seattle"}]}`))
	}))
	defer srv.Close()

	e := NewExecutor(srv.URL, zap.NewNop())
	v, err := e.Execute(context.Background(), valueobjects.NewOpenCypherQuery("MATCH (a:airport) RETURN a.code, a.city LIMIT 2"))
	require.NoError(t, err)

	assert.Equal(t, "/openCypher", gotPath)
	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	assert.Equal(t, "MATCH (a:airport) RETURN a.code, a.city LIMIT 2", gotQuery)

	want := []any{
		map[string]any{"a.code": "JFK", "a.city": "New York"},
		map[string]any{"a.code": "SEA", "a.city": "Seattle"},
	}
	if diff := cmp.Diff(want, services.Normalize(v)); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestExecutor_Execute_NumbersKeepPrecision(t *testing.T) {
	var closes int32
	e := NewExecutor("https://db.local:8182", zap.NewNop(),
		WithHTTPClient(cannedClient(http.StatusOK, `{"results":[{"count":9007199254740993}]}`, &closes)))

	v, err := e.Execute(context.Background(), valueobjects.NewOpenCypherQuery("MATCH (n) RETURN count(n) AS count"))
	require.NoError(t, err)

	rows := services.Normalize(v).([]any)
	require.Len(t, rows, 1)
	assert.Equal(t, json.Number("9007199254740993"), rows[0].(map[string]any)["count"])
	assert.Equal(t, int32(1), atomic.LoadInt32(&closes))
}

func TestExecutor_Execute_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer srv.Close()

	_, err := NewExecutor(srv.URL, zap.NewNop()).Execute(context.Background(), valueobjects.NewOpenCypherQuery("MATCH (n) RETURN n"))

	require.Error(t, err)
	assert.True(t, pkgerrors.IsQuery(err))
	assert.Equal(t, "HTTP Error 500: boom", pkgerrors.Payload(err))
}

func TestExecutor_Execute_BodyClosedOnceOnEveryPath(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
	}{
		{"ok", http.StatusOK, `{"results":[]}`, false},
		{"http error", http.StatusBadRequest, `{"code":"MalformedQueryException"}`, true},
		{"missing results", http.StatusOK, `{"rows":[]}`, true},
		{"invalid json", http.StatusOK, `not json`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var closes int32
			e := NewExecutor("https://db.local:8182", zap.NewNop(), WithHTTPClient(cannedClient(tt.status, tt.body, &closes)))

			_, err := e.Execute(context.Background(), valueobjects.NewOpenCypherQuery("MATCH (n) RETURN n"))

			if tt.wantErr {
				assert.True(t, pkgerrors.IsQuery(err))
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, int32(1), atomic.LoadInt32(&closes))
		})
	}
}

func TestExecutor_Execute_EmptyResults(t *testing.T) {
	var closes int32
	e := NewExecutor("https://db.local:8182", zap.NewNop(), WithHTTPClient(cannedClient(http.StatusOK, `{"results":[]}`, &closes)))

	v, err := e.Execute(context.Background(), valueobjects.NewOpenCypherQuery("MATCH (n:nothing) RETURN n"))
	require.NoError(t, err)

	assert.Equal(t, valueobjects.KindSequence, v.Kind())
	assert.Equal(t, 0, v.Len())
}

func TestExecutor_Execute_ConnectionError(t *testing.T) {
	client := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("dial tcp: connection refused")
	})}
	e := NewExecutor("https://db.local:8182", zap.NewNop(), WithHTTPClient(client))

	_, err := e.Execute(context.Background(), valueobjects.NewOpenCypherQuery("MATCH (n) RETURN n"))

	require.Error(t, err)
	assert.True(t, pkgerrors.IsConnection(err))
	assert.Contains(t, pkgerrors.Payload(err), "connection refused")
}

func TestNewExecutor_UsesFreshConnections(t *testing.T) {
	e := NewExecutor("https://db.local:8182/", zap.NewNop())

	assert.Equal(t, "https://db.local:8182/openCypher", e.Endpoint())
	transport, ok := e.client.Transport.(*http.Transport)
	require.True(t, ok)
	assert.True(t, transport.DisableKeepAlives)
}
