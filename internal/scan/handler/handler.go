package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"liquitrace/internal/scan"
)

type Handler struct {
	runner     scan.Runner
	cronSecret string
	runTimeout time.Duration
}

// NewScanHandler builds the trigger handler. An empty cronSecret disables authorization.
func NewScanHandler(runner scan.Runner, cronSecret string, runTimeout time.Duration) *Handler {
	return &Handler{runner: runner, cronSecret: cronSecret, runTimeout: runTimeout}
}

type errorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error" example:"scan aborted after processing: context deadline exceeded"`
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, statusCode int, errorMsg string) {
	writeJSON(w, statusCode, errorResponse{Error: errorMsg})
}
