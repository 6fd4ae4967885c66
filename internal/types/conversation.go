package types

import "time"

// ConversationKind distinguishes one-on-one chats from group rooms.
type ConversationKind string

const (
	ConversationDirect ConversationKind = "direct"
	ConversationRoom   ConversationKind = "room"
)

// Conversation is a set of participant characters plus their ordered messages.
type Conversation struct {
	ID             string           `json:"id"`
	Title          string           `json:"title,omitempty"`
	Kind           ConversationKind `json:"kind"`
	ParticipantIDs []string         `json:"participant_ids"`
	IsActive       bool             `json:"is_active"`
	CreatedAt      time.Time        `json:"created_at"`
}

// Message is one utterance inside a conversation. An empty CharacterID marks
// a user message. Seq is strictly increasing and gapless per conversation.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	CharacterID    string    `json:"character_id,omitempty"`
	Seq            int       `json:"seq"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}
