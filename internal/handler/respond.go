package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/PKM100/mnemocyte-sub001/internal/storage"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// notFound reports whether err is a missing-record error from either store.
func notFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}
