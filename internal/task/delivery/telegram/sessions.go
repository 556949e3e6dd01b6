package telegram

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"todoflow/internal/model"
)

const (
	sessionCapacity   = 256
	defaultSessionTTL = 10 * time.Minute
)

// sessionStore keeps decomposition plans pending user confirmation. Entries
// expire on their own; an expired session simply tells the user to resend.
type sessionStore struct {
	lru *expirable.LRU[string, *model.DecompositionResult]
}

func newSessionStore(ttl time.Duration) *sessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &sessionStore{
		lru: expirable.NewLRU[string, *model.DecompositionResult](sessionCapacity, nil, ttl),
	}
}

// put stores a plan and returns the token to embed in callback data.
func (s *sessionStore) put(dec *model.DecompositionResult) string {
	id := uuid.NewString()
	s.lru.Add(id, dec)
	return id
}

// take removes and returns a pending plan. Each token is single use.
func (s *sessionStore) take(id string) (*model.DecompositionResult, bool) {
	dec, ok := s.lru.Get(id)
	if ok {
		s.lru.Remove(id)
	}
	return dec, ok
}
