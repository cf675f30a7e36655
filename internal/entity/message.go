package entity

import "time"

// Role identifies the author of a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether the role is known.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message is one turn of the conversation transcript.
type Message struct {
	ID          string          `json:"id"`
	Role        Role            `json:"role"`
	Content     string          `json:"content"`
	Translation string          `json:"translation,omitempty"`
	Words       []WordInContext `json:"words,omitempty"`
	Timestamp   time.Time       `json:"timestamp"`
}

// Clone returns a deep copy of the message.
func (m Message) Clone() Message {
	out := m
	if m.Words != nil {
		out.Words = append([]WordInContext(nil), m.Words...)
	}
	return out
}
