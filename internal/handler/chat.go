package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/PKM100/mnemocyte-sub001/internal/turn"
)

// ChatHandler serves one-on-one and room chat turns.
type ChatHandler struct {
	characters    CharacterStore
	conversations ConversationStore
	engine        TurnEngine
}

// RegisterRoutes mounts the chat routes.
func (h *ChatHandler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleDirectChat)
	r.Post("/rooms/{id}/chat", h.handleRoomChat)
}

type directChatRequest struct {
	CharacterID string `json:"character_id"`
	Message     string `json:"message"`
}

type roomChatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	ConversationID string           `json:"conversation_id"`
	Turn           []turn.TurnEntry `json:"turn"`
}

// handleDirectChat resolves a turn against the character's one-on-one
// conversation, creating it on first contact.
func (h *ChatHandler) handleDirectChat(w http.ResponseWriter, r *http.Request) {
	var req directChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CharacterID == "" || req.Message == "" {
		respondError(w, http.StatusBadRequest, "character_id and message are required")
		return
	}

	if _, err := h.characters.GetByID(r.Context(), req.CharacterID); err != nil {
		if notFound(err) {
			respondError(w, http.StatusNotFound, "character not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to load character")
		return
	}

	conversation, err := h.conversations.GetOrCreateDirect(r.Context(), req.CharacterID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to open conversation")
		return
	}

	entries, err := h.engine.ResolveTurn(r.Context(), conversation.ID, req.Message)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to resolve turn")
		return
	}
	respondJSON(w, http.StatusOK, chatResponse{ConversationID: conversation.ID, Turn: entries})
}

func (h *ChatHandler) handleRoomChat(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req roomChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		respondError(w, http.StatusBadRequest, "message is required")
		return
	}

	conversation, err := h.conversations.GetByID(r.Context(), id)
	if err != nil {
		if notFound(err) {
			respondError(w, http.StatusNotFound, "room not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to load room")
		return
	}
	if !conversation.IsActive {
		respondError(w, http.StatusConflict, "room is inactive")
		return
	}

	entries, err := h.engine.ResolveTurn(r.Context(), conversation.ID, req.Message)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to resolve turn")
		return
	}
	respondJSON(w, http.StatusOK, chatResponse{ConversationID: conversation.ID, Turn: entries})
}
