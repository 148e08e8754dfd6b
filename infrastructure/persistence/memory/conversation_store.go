// Package memory keeps chat history in process memory.
package memory

import (
	"context"
	"sync"

	"github.com/yogishpa/graph-samples/domain/core/entities"
)

// ConversationStore is used when no table is configured
type ConversationStore struct {
	mu       sync.RWMutex
	sessions map[string][]entities.Turn
	maxTurns int
}

// NewConversationStore keeps at most maxTurns turns per session; zero keeps all
func NewConversationStore(maxTurns int) *ConversationStore {
	return &ConversationStore{
		sessions: make(map[string][]entities.Turn),
		maxTurns: maxTurns,
	}
}

// Append stores the turn under the next sequence number
func (s *ConversationStore) Append(_ context.Context, turn entities.Turn) (entities.Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := s.sessions[turn.SessionID]
	turn.Sequence = 1
	if len(turns) > 0 {
		turn.Sequence = turns[len(turns)-1].Sequence + 1
	}
	turns = append(turns, turn)
	if s.maxTurns > 0 && len(turns) > s.maxTurns {
		turns = turns[len(turns)-s.maxTurns:]
	}
	s.sessions[turn.SessionID] = turns
	return turn, nil
}

// History returns up to limit most recent turns, oldest first
func (s *ConversationStore) History(_ context.Context, sessionID string, limit int) ([]entities.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns := s.sessions[sessionID]
	if limit <= 0 {
		return []entities.Turn{}, nil
	}
	if len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	out := make([]entities.Turn, len(turns))
	copy(out, turns)
	return out, nil
}
