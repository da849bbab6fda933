// Package handlers translates between the HTTP wire surface and the auth
// and mood services.
package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"moodlog/internal/middleware"
)

// callerID pulls the authenticated user id out of the request context. The
// auth middleware always sets it on protected routes, so a miss means a
// wiring bug; respond 401 and bail.
func callerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: errorBody{Kind: "unauthorized", Message: "missing identity"}})
	}
	return id, ok
}
