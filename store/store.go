// Package store holds the per-user data set for the bot: conversation
// history, pending reminders, and schedules. Everything lives in process
// memory; lifetime equals process lifetime.
package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/lithammer/shortuuid/v4"
)

// DefaultHistoryLimit is the maximum number of messages kept per
// conversation when no explicit limit is configured.
const DefaultHistoryLimit = 20

// Store provides concurrent-safe access to all user-owned collections.
// It is an injected instance, not a package singleton; handlers receive
// it via explicit construction.
type Store struct {
	mu            sync.RWMutex
	conversations map[string]*Conversation
	reminders     map[string]*Reminder
	schedules     map[string]*Schedule
	historyLimit  int
}

// New creates a new Store. historyLimit bounds each user's conversation
// history; values <= 0 fall back to DefaultHistoryLimit.
func New(historyLimit int) *Store {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &Store{
		conversations: make(map[string]*Conversation),
		reminders:     make(map[string]*Reminder),
		schedules:     make(map[string]*Schedule),
		historyLimit:  historyLimit,
	}
}

// ClearUserData removes the user's conversation, reminders, and
// schedules in one shot.
func (s *Store) ClearUserData(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.conversations, userID)
	for id, r := range s.reminders {
		if r.UserID == userID {
			delete(s.reminders, id)
		}
	}
	for id, sc := range s.schedules {
		if sc.UserID == userID {
			delete(s.schedules, id)
		}
	}
}

// newID generates a collision-resistant entity ID. The timestamp prefix
// keeps IDs roughly sortable; the shortuuid suffix makes them unique.
func newID(prefix string) string {
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixMilli(), shortuuid.New())
}
