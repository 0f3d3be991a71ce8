package session

import "convocatoria-ai/internal/index"

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one utterance in the conversation.
type Turn struct {
	Role    Role
	Content string
}

// Session holds the in-memory conversation state: the chat history and
// the current index handle. History is never persisted and survives
// index rebuilds. Not safe for concurrent use; callers serialize access.
type Session struct {
	Index   *index.Index
	History []Turn
}

// Append adds a turn to the end of the history.
func (s *Session) Append(role Role, content string) {
	s.History = append(s.History, Turn{Role: role, Content: content})
}

// ClearHistory drops all turns. The index handle is kept.
func (s *Session) ClearHistory() {
	s.History = nil
}
