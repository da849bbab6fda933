package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"moodlog/internal/service"
	"moodlog/internal/store"
)

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// respondError maps service/store errors onto the HTTP error envelope.
// Anything unrecognized is logged and surfaced as an opaque 500.
func respondError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var status int
	var body errorBody

	switch {
	case errors.Is(err, service.ErrValidation):
		status, body = http.StatusBadRequest, errorBody{Kind: "validation", Message: err.Error()}
	case errors.Is(err, service.ErrInvalidCredentials):
		status, body = http.StatusUnauthorized, errorBody{Kind: "unauthorized", Message: err.Error()}
	case errors.Is(err, store.ErrEmailTaken), errors.Is(err, store.ErrEntryDateConflict):
		status, body = http.StatusConflict, errorBody{Kind: "conflict", Message: err.Error()}
	case errors.Is(err, store.ErrEntryNotFound), errors.Is(err, store.ErrUserNotFound):
		status, body = http.StatusNotFound, errorBody{Kind: "not_found", Message: err.Error()}
	default:
		logger.Error("request failed", zap.Error(err))
		status, body = http.StatusInternalServerError, errorBody{Kind: "internal", Message: "internal server error"}
	}

	respondJSON(w, status, errorResponse{Error: body})
}

func respondValidation(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusBadRequest, errorResponse{Error: errorBody{Kind: "validation", Message: message}})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// decodeStrict unmarshals a request body, rejecting unknown fields so
// client/server schema drift fails loudly instead of being dropped.
func decodeStrict(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
