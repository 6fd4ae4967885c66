// Package handler exposes the HTTP API.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/PKM100/mnemocyte-sub001/internal/turn"
	"github.com/PKM100/mnemocyte-sub001/internal/types"
)

// CharacterStore is the character access the handlers need.
type CharacterStore interface {
	Create(ctx context.Context, character *types.Character) error
	GetByID(ctx context.Context, id string) (*types.Character, error)
	List(ctx context.Context, includeInactive bool) ([]types.Character, error)
	Update(ctx context.Context, character *types.Character) error
	Deactivate(ctx context.Context, id string) error
}

// ConversationStore is the conversation access the handlers need.
type ConversationStore interface {
	CreateRoom(ctx context.Context, title string, participantIDs []string) (*types.Conversation, error)
	GetOrCreateDirect(ctx context.Context, characterID string) (*types.Conversation, error)
	GetByID(ctx context.Context, id string) (*types.Conversation, error)
	ListRooms(ctx context.Context) ([]types.Conversation, error)
	Deactivate(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// MessageStore is the message access the handlers need.
type MessageStore interface {
	Recent(ctx context.Context, conversationID string, limit int) ([]types.Message, error)
}

// TurnEngine resolves one chat turn.
type TurnEngine interface {
	ResolveTurn(ctx context.Context, conversationID, userMessage string) ([]turn.TurnEntry, error)
}

// MemoryWriter embeds and stores a character memory. Nil when no embedder is
// configured.
type MemoryWriter interface {
	Remember(ctx context.Context, characterID, content string) error
}

// NewRouter wires HTTP routes to the stores and turn engine.
func NewRouter(characters CharacterStore, conversations ConversationStore, messages MessageStore, engine TurnEngine, memories MemoryWriter) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	characterHandler := &CharacterHandler{characters: characters, memories: memories}
	conversationHandler := &ConversationHandler{conversations: conversations, messages: messages}
	chatHandler := &ChatHandler{characters: characters, conversations: conversations, engine: engine}

	r.Route("/api", func(api chi.Router) {
		characterHandler.RegisterRoutes(api)
		conversationHandler.RegisterRoutes(api)
		chatHandler.RegisterRoutes(api)
	})

	return r
}
