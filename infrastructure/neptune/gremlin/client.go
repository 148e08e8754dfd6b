// Package gremlin runs traversal strings over a Gremlin Server WebSocket
// session.
package gremlin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/yogishpa/graph-samples/infrastructure/neptune"
)

const (
	mimeType = "application/vnd.gremlin-v3.0+json"

	// TraversalSource is the alias the session binds g to
	TraversalSource = "g"
)

// Response status codes
const (
	statusSuccess        = 200
	statusNoContent      = 204
	statusPartialContent = 206
)

// Conn is the part of a WebSocket connection the executor uses
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
}

// Dialer opens WebSocket connections
type Dialer interface {
	Dial(ctx context.Context, url string, header http.Header) (Conn, error)
}

// WebSocketDialer dials with gorilla/websocket, optionally signing the
// handshake for IAM-auth clusters.
type WebSocketDialer struct {
	dialer *websocket.Dialer
	signer *neptune.Signer
}

// NewWebSocketDialer creates a dialer; signer may be nil
func NewWebSocketDialer(signer *neptune.Signer) *WebSocketDialer {
	return &WebSocketDialer{
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: websocket.DefaultDialer.HandshakeTimeout,
		},
		signer: signer,
	}
}

// Dial opens a connection to url
func (d *WebSocketDialer) Dial(ctx context.Context, url string, header http.Header) (Conn, error) {
	if header == nil {
		header = http.Header{}
	}
	if d.signer != nil {
		if err := d.signHandshake(ctx, url, header); err != nil {
			return nil, err
		}
	}

	conn, resp, err := d.dialer.DialContext(ctx, url, header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("handshake failed with status %d: %w", resp.StatusCode, err)
		}
		return nil, err
	}
	return conn, nil
}

// signHandshake signs the upgrade request as the equivalent HTTPS GET
func (d *WebSocketDialer) signHandshake(ctx context.Context, url string, header http.Header) error {
	httpURL := strings.Replace(strings.Replace(url, "wss://", "https://", 1), "ws://", "http://", 1)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, httpURL, nil)
	if err != nil {
		return err
	}
	if err := d.signer.Sign(ctx, req, nil); err != nil {
		return err
	}
	for _, name := range []string{"Authorization", "X-Amz-Date", "X-Amz-Security-Token"} {
		if v := req.Header.Get(name); v != "" {
			header.Set(name, v)
		}
	}
	return nil
}

// request is an eval request message
type request struct {
	RequestID typedValue  `json:"requestId"`
	Op        string      `json:"op"`
	Processor string      `json:"processor"`
	Args      requestArgs `json:"args"`
}

type typedValue struct {
	Type  string `json:"@type"`
	Value string `json:"@value"`
}

type requestArgs struct {
	Gremlin  string            `json:"gremlin"`
	Bindings map[string]any    `json:"bindings"`
	Language string            `json:"language"`
	Aliases  map[string]string `json:"aliases"`
}

// encodeRequest builds the binary frame: mime length, mime type, JSON body
func encodeRequest(requestID uuid.UUID, traversal string) ([]byte, error) {
	body, err := json.Marshal(request{
		RequestID: typedValue{Type: typeUUID, Value: requestID.String()},
		Op:        "eval",
		Processor: "",
		Args: requestArgs{
			Gremlin:  traversal,
			Bindings: map[string]any{},
			Language: "gremlin-groovy",
			Aliases:  map[string]string{TraversalSource: TraversalSource},
		},
	})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteByte(byte(len(mimeType)))
	buf.WriteString(mimeType)
	buf.Write(body)
	return buf.Bytes(), nil
}

// response is one frame of a server reply
type response struct {
	RequestID any            `json:"requestId"`
	Status    responseStatus `json:"status"`
	Result    responseResult `json:"result"`
}

type responseStatus struct {
	Message    string         `json:"message"`
	Code       int            `json:"code"`
	Attributes map[string]any `json:"attributes"`
}

type responseResult struct {
	Data any `json:"data"`
	Meta any `json:"meta"`
}

func decodeResponse(data []byte) (response, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var resp response
	if err := dec.Decode(&resp); err != nil {
		return response{}, fmt.Errorf("invalid response frame: %w", err)
	}
	return resp, nil
}
