package controllers

import (
	"encoding/json"
	"net/http"

	"scrunchie-store/middleware"
	"scrunchie-store/utils"
)

// Expected business failures (validation, not-found, conflicts) are reported
// as {success:false, message} envelopes with a 200 status; only auth failures
// surface as protocol-level errors.

func respond(w http.ResponseWriter, payload map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}

func respondMessage(w http.ResponseWriter, message string) {
	respond(w, map[string]interface{}{"success": true, "message": message})
}

func respondFailure(w http.ResponseWriter, message string) {
	respond(w, map[string]interface{}{"success": false, "message": message})
}

// claimsFrom extracts the authenticated user's claims; writes a 401 and
// returns false when the middleware did not attach them.
func claimsFrom(w http.ResponseWriter, r *http.Request) (*utils.Claims, bool) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil, false
	}
	return claims, true
}
