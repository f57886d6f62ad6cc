package domain

import "github.com/google/uuid"

// Message roles for the conversation transcript.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of the conversation transcript sent to the
// interpreter for context.
type Message struct {
	Role    string
	Content string
}

// Session holds the state of one research conversation: the transcript
// used for interpretation context and the latest presentation list used
// for drill-down selection.
type Session struct {
	ID           uuid.UUID
	Conversation []Message
	Results      PresentationList
	LastQuery    string
}

// NewSession returns an empty session with a fresh identity.
func NewSession() *Session {
	return &Session{ID: uuid.New()}
}

// Append records a transcript turn.
func (s *Session) Append(role, content string) {
	s.Conversation = append(s.Conversation, Message{Role: role, Content: content})
}

// SetResults replaces the presentation list after a successful search
// turn. Failed searches leave the previous list selectable.
func (s *Session) SetResults(query string, results PresentationList) {
	s.LastQuery = query
	s.Results = results
}

// Reset clears all conversational state and assigns a new identity.
func (s *Session) Reset() {
	s.ID = uuid.New()
	s.Conversation = nil
	s.Results = PresentationList{}
	s.LastQuery = ""
}
