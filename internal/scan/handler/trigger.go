package handler

import (
	"context"
	"crypto/subtle"
	"net/http"

	"liquitrace/internal/scan"

	"github.com/sirupsen/logrus"
)

type ScanResponse struct {
	Success   bool            `json:"success" example:"true"`
	Processed int             `json:"processed" example:"4"`
	Top       []scan.TopEntry `json:"top"`
	Notified  int             `json:"notified" example:"12"`
}

type NoGainersResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"No gainers found"`
}

// TriggerScan godoc
// @Summary Run a top-gainers scan
// @Description Fetches candidates from all sources, ranks them, stores signals and notifies subscribers
// @Tags Scan
// @Produce json
// @Param Authorization header string false "Bearer <cron secret>"
// @Success 200 {object} ScanResponse "without gainers the body is {success, message} instead"
// @Failure 401 {string} string "Unauthorized"
// @Failure 500 {object} errorResponse
// @Router /cron/scan [get]
func (h *Handler) TriggerScan(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx := r.Context()
	if h.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.runTimeout)
		defer cancel()
	}

	res, err := h.runner.Run(ctx)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "TriggerScan", "exec_id": res.ExecID}).Error("scan failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if res.Message != "" {
		writeJSON(w, http.StatusOK, NoGainersResponse{Success: true, Message: res.Message})
		return
	}

	top := res.Top
	if top == nil {
		top = []scan.TopEntry{}
	}
	writeJSON(w, http.StatusOK, ScanResponse{
		Success:   true,
		Processed: res.Processed,
		Top:       top,
		Notified:  res.Notified,
	})
}

func (h *Handler) authorized(r *http.Request) bool {
	if h.cronSecret == "" {
		return true
	}
	expected := "Bearer " + h.cronSecret
	got := r.Header.Get("Authorization")
	return subtle.ConstantTimeCompare([]byte(got), []byte(expected)) == 1
}
