package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/PKM100/mnemocyte-sub001/internal/npc"
	"github.com/PKM100/mnemocyte-sub001/internal/types"
)

// CharacterHandler serves character CRUD and memory seeding.
type CharacterHandler struct {
	characters CharacterStore
	memories   MemoryWriter
}

// RegisterRoutes mounts the character routes.
func (h *CharacterHandler) RegisterRoutes(r chi.Router) {
	r.Post("/characters", h.handleCreate)
	r.Get("/characters", h.handleList)
	r.Get("/characters/{id}", h.handleGet)
	r.Put("/characters/{id}", h.handleUpdate)
	r.Delete("/characters/{id}", h.handleDeactivate)
	r.Post("/characters/{id}/memories", h.handleAddMemory)
}

func (h *CharacterHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var character types.Character
	if err := json.NewDecoder(r.Body).Decode(&character); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateCharacter(&character); err != "" {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	character.ID = ""
	character.CurrentMood = npc.Clamp01(character.CurrentMood)
	if err := h.characters.Create(r.Context(), &character); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create character")
		return
	}
	respondJSON(w, http.StatusCreated, character)
}

func (h *CharacterHandler) handleList(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("include_inactive") == "true"
	characters, err := h.characters.List(r.Context(), includeInactive)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list characters")
		return
	}
	respondJSON(w, http.StatusOK, characters)
}

func (h *CharacterHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	character, err := h.characters.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if notFound(err) {
			respondError(w, http.StatusNotFound, "character not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to load character")
		return
	}
	respondJSON(w, http.StatusOK, character)
}

func (h *CharacterHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	existing, err := h.characters.GetByID(r.Context(), id)
	if err != nil {
		if notFound(err) {
			respondError(w, http.StatusNotFound, "character not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to load character")
		return
	}

	character := *existing
	if err := json.NewDecoder(r.Body).Decode(&character); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateCharacter(&character); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	character.ID = id
	character.CurrentMood = npc.Clamp01(character.CurrentMood)
	if err := h.characters.Update(r.Context(), &character); err != nil {
		if notFound(err) {
			respondError(w, http.StatusNotFound, "character not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to update character")
		return
	}
	respondJSON(w, http.StatusOK, character)
}

func (h *CharacterHandler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	if err := h.characters.Deactivate(r.Context(), chi.URLParam(r, "id")); err != nil {
		if notFound(err) {
			respondError(w, http.StatusNotFound, "character not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to deactivate character")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}

type addMemoryRequest struct {
	Content string `json:"content"`
}

func (h *CharacterHandler) handleAddMemory(w http.ResponseWriter, r *http.Request) {
	if h.memories == nil {
		respondError(w, http.StatusServiceUnavailable, "memory embedding is not configured")
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := h.characters.GetByID(r.Context(), id); err != nil {
		if notFound(err) {
			respondError(w, http.StatusNotFound, "character not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to load character")
		return
	}

	var req addMemoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Content == "" {
		respondError(w, http.StatusBadRequest, "content is required")
		return
	}

	if err := h.memories.Remember(r.Context(), id, req.Content); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to store memory")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"status": "stored"})
}

func validateCharacter(character *types.Character) string {
	if character.Name == "" {
		return "name is required"
	}
	if !character.Role.Valid() {
		return "unknown role"
	}
	return ""
}
