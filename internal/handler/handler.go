// Package handler holds the REST endpoints of the analysis API.
package handler

import (
	"encoding/json"
	"net/http"
	"strings"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"status": "error",
		"error":  msg,
	})
}

// userID resolves the acting user. There is no auth layer here; the
// frontend passes its session identity through the X-User-ID header.
func userID(r *http.Request) string {
	uid := strings.TrimSpace(r.Header.Get("X-User-ID"))
	if uid == "" {
		uid = "anonymous"
	}
	return uid
}
