package store

import "time"

// Message roles within a conversation.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single turn in a user's conversation history.
type Message struct {
	Role      string
	Content   string
	Timestamp time.Time
}

// Conversation is the bounded, append-only turn history for one user.
type Conversation struct {
	UserID   string
	Messages []Message
}

// GetConversation returns a snapshot of the user's conversation, or nil
// if the user has no history yet. The returned messages are a copy and
// safe to keep across store mutations.
func (s *Store) GetConversation(userID string) *Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[userID]
	if !ok {
		return nil
	}
	snapshot := &Conversation{
		UserID:   conv.UserID,
		Messages: make([]Message, len(conv.Messages)),
	}
	copy(snapshot.Messages, conv.Messages)
	return snapshot
}

// AppendConversationMessage appends one turn to the user's history,
// creating the conversation on first use. When the history exceeds the
// configured window the oldest entries are evicted first.
func (s *Store) AppendConversationMessage(userID, role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[userID]
	if !ok {
		conv = &Conversation{UserID: userID}
		s.conversations[userID] = conv
	}

	conv.Messages = append(conv.Messages, Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
	if overflow := len(conv.Messages) - s.historyLimit; overflow > 0 {
		conv.Messages = append(conv.Messages[:0], conv.Messages[overflow:]...)
	}
}

// RecentMessages returns up to n most recent messages for the user in
// chronological order. Used to build the LLM context window.
func (s *Store) RecentMessages(userID string, n int) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[userID]
	if !ok || n <= 0 {
		return nil
	}
	messages := conv.Messages
	if len(messages) > n {
		messages = messages[len(messages)-n:]
	}
	result := make([]Message, len(messages))
	copy(result, messages)
	return result
}
