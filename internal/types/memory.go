package types

import "time"

// CharacterMemory is one embedded memory snippet attached to a character,
// retrieved by similarity when building prompts.
type CharacterMemory struct {
	ID          string    `json:"id"`
	CharacterID string    `json:"character_id"`
	Content     string    `json:"content"`
	Embedding   []float32 `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}
