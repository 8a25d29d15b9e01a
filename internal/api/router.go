package api

import (
	"net/http"

	_ "liquitrace/docs"
	"liquitrace/internal/scan/handler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	swagger "github.com/swaggo/http-swagger"
)

func NewRouter(scanHandler *handler.Handler, metrics http.Handler) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Heartbeat("/healthz"))

	// Swagger UI
	router.Get("/swagger/*", swagger.WrapHandler)

	if metrics != nil {
		router.Method(http.MethodGet, "/metrics", metrics)
	}

	router.Get("/api/cron/scan", scanHandler.TriggerScan)
	return router
}
