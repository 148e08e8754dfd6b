package entities

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a chat turn
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in a chat session
type Turn struct {
	SessionID string    `json:"session_id" dynamodbav:"session_id"`
	Sequence  int64     `json:"sequence" dynamodbav:"sequence"`
	Role      Role      `json:"role" dynamodbav:"role"`
	Content   string    `json:"content" dynamodbav:"content"`
	Query     string    `json:"query,omitempty" dynamodbav:"query,omitempty"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
}

// NewSessionID returns a fresh chat session identifier
func NewSessionID() string {
	return uuid.New().String()
}

// NewUserTurn records a question asked by the user
func NewUserTurn(sessionID, question string) Turn {
	return Turn{
		SessionID: sessionID,
		Role:      RoleUser,
		Content:   question,
		CreatedAt: time.Now().UTC(),
	}
}

// NewAssistantTurn records an answer together with the query that produced it
func NewAssistantTurn(sessionID, answer, query string) Turn {
	return Turn{
		SessionID: sessionID,
		Role:      RoleAssistant,
		Content:   answer,
		Query:     query,
		CreatedAt: time.Now().UTC(),
	}
}
