// Package state holds the authoritative in-memory model of conversations.
// The Store is the only writer of conversation truth: repository responses
// are mirrored into it, and every UI surface reads snapshots from it
// rather than holding its own copy.
package state

import (
	"sync"

	"github.com/assisitant-dever/docgen/internal/api"
)

// Store is a reducer-style state container. Each transition is
// synchronous over the in-memory snapshot; subscribers are notified after
// every mutation.
type Store struct {
	mu            sync.RWMutex
	conversations []*api.Conversation
	// currentID is zero when no conversation is selected.
	currentID   int64
	subscribers []func()
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// Subscribe registers a callback invoked after every state transition.
// Callbacks run on the mutating goroutine, outside the store lock.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

// clone copies a conversation and its message slice. Messages themselves
// are immutable once built, so sharing their pointers is safe; the slice
// is what AppendMessage grows in place and must not be shared.
func clone(conversation *api.Conversation) *api.Conversation {
	if conversation == nil {
		return nil
	}
	cloned := *conversation
	cloned.Messages = make([]*api.Message, len(conversation.Messages))
	copy(cloned.Messages, conversation.Messages)
	return &cloned
}

// ReplaceAll replaces the collection wholesale after a full list refresh.
// Last write wins: stale local edits are not merged. A current selection
// that no longer exists in the new list is cleared.
func (s *Store) ReplaceAll(conversations []*api.Conversation) {
	s.mu.Lock()
	s.conversations = make([]*api.Conversation, len(conversations))
	for i, conversation := range conversations {
		s.conversations[i] = clone(conversation)
	}
	if s.currentID != 0 && s.find(s.currentID) == nil {
		s.currentID = 0
	}
	subscribers := s.subscribers
	s.mu.Unlock()
	for _, fn := range subscribers {
		fn()
	}
}

// Upsert inserts the conversation if absent, otherwise replaces it by id.
// The store keeps its own copy; later caller mutations are not observed.
func (s *Store) Upsert(conversation *api.Conversation) {
	s.mu.Lock()
	cloned := clone(conversation)
	replaced := false
	for i, existing := range s.conversations {
		if existing.ID == cloned.ID {
			s.conversations[i] = cloned
			replaced = true
			break
		}
	}
	if !replaced {
		s.conversations = append(s.conversations, cloned)
	}
	subscribers := s.subscribers
	s.mu.Unlock()
	for _, fn := range subscribers {
		fn()
	}
}

// Remove deletes a conversation by id. If it was the current one, the
// selection is cleared; the caller is responsible for navigating away.
func (s *Store) Remove(id int64) {
	s.mu.Lock()
	filtered := s.conversations[:0]
	for _, conversation := range s.conversations {
		if conversation.ID != id {
			filtered = append(filtered, conversation)
		}
	}
	s.conversations = filtered
	if s.currentID == id {
		s.currentID = 0
	}
	subscribers := s.subscribers
	s.mu.Unlock()
	for _, fn := range subscribers {
		fn()
	}
}

// SetCurrent selects a conversation, or clears the selection with zero.
func (s *Store) SetCurrent(id int64) {
	s.mu.Lock()
	s.currentID = id
	subscribers := s.subscribers
	s.mu.Unlock()
	for _, fn := range subscribers {
		fn()
	}
}

// AppendMessage appends to the matching conversation's transcript,
// preserving insertion order. A no-op when the conversation is absent:
// a late response must not resurrect deleted state.
func (s *Store) AppendMessage(conversationID int64, message *api.Message) {
	s.mu.Lock()
	conversation := s.find(conversationID)
	if conversation == nil {
		s.mu.Unlock()
		return
	}
	conversation.Messages = append(conversation.Messages, message)
	subscribers := s.subscribers
	s.mu.Unlock()
	for _, fn := range subscribers {
		fn()
	}
}

// Conversations returns a snapshot of the collection, in insertion
// order. Each entry is a copy: readers never share memory with a
// concurrent AppendMessage.
func (s *Store) Conversations() []*api.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := make([]*api.Conversation, len(s.conversations))
	for i, conversation := range s.conversations {
		snapshot[i] = clone(conversation)
	}
	return snapshot
}

// Get returns a copy of the conversation with the given id, or nil.
func (s *Store) Get(id int64) *api.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.find(id))
}

// CurrentID returns the selected conversation id, zero when none.
func (s *Store) CurrentID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentID
}

// Current returns a copy of the selected conversation, or nil.
func (s *Store) Current() *api.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentID == 0 {
		return nil
	}
	return clone(s.find(s.currentID))
}

func (s *Store) find(id int64) *api.Conversation {
	for _, conversation := range s.conversations {
		if conversation.ID == id {
			return conversation
		}
	}
	return nil
}
