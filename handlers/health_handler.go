package handlers

import (
	"net/http"

	"github.com/medtrack/pharmacy-inventory/utils"
)

// HandleHealth handles GET /healthz
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleReady handles GET /readyz. Hydration is synchronous at construction,
// so a running process is always ready.
func HandleReady(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
