package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/PKM100/mnemocyte-sub001/internal/types"
)

const messageHistoryLimit = 100

// ConversationHandler serves room management and message history.
type ConversationHandler struct {
	conversations ConversationStore
	messages      MessageStore
}

// RegisterRoutes mounts the room and history routes.
func (h *ConversationHandler) RegisterRoutes(r chi.Router) {
	r.Post("/rooms", h.handleCreateRoom)
	r.Get("/rooms", h.handleListRooms)
	r.Delete("/rooms/{id}", h.handleDeleteRoom)
	r.Get("/conversations/{id}/messages", h.handleMessages)
}

type createRoomRequest struct {
	Title          string   `json:"title"`
	ParticipantIDs []string `json:"participant_ids"`
}

func (h *ConversationHandler) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.ParticipantIDs) == 0 {
		respondError(w, http.StatusBadRequest, "participant_ids is required")
		return
	}

	conversation, err := h.conversations.CreateRoom(r.Context(), req.Title, req.ParticipantIDs)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create room")
		return
	}
	respondJSON(w, http.StatusCreated, conversation)
}

func (h *ConversationHandler) handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.conversations.ListRooms(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list rooms")
		return
	}
	respondJSON(w, http.StatusOK, rooms)
}

// handleDeleteRoom deactivates a room, or removes it with its messages when
// ?hard=true. One-on-one conversations are never deletable.
func (h *ConversationHandler) handleDeleteRoom(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	conversation, err := h.conversations.GetByID(r.Context(), id)
	if err != nil {
		if notFound(err) {
			respondError(w, http.StatusNotFound, "room not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to load room")
		return
	}
	if conversation.Kind != types.ConversationRoom {
		respondError(w, http.StatusBadRequest, "conversation is not a room")
		return
	}

	if r.URL.Query().Get("hard") == "true" {
		if err := h.conversations.Delete(r.Context(), id); err != nil {
			respondError(w, http.StatusInternalServerError, "failed to delete room")
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
		return
	}

	if err := h.conversations.Deactivate(r.Context(), id); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to deactivate room")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}

func (h *ConversationHandler) handleMessages(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := h.conversations.GetByID(r.Context(), id); err != nil {
		if notFound(err) {
			respondError(w, http.StatusNotFound, "conversation not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to load conversation")
		return
	}

	messages, err := h.messages.Recent(r.Context(), id, messageHistoryLimit)
	if err != nil && !notFound(err) {
		respondError(w, http.StatusInternalServerError, "failed to load messages")
		return
	}
	respondJSON(w, http.StatusOK, messages)
}
