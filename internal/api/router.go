package api

import (
	"banguat/internal/rate/handler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(rateHandler *handler.Handler) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Heartbeat("/healthz"))

	router.Route("/api/v1/rates", func(r chi.Router) {
		r.Get("/", rateHandler.GetRange)
		r.Get("/current", rateHandler.GetCurrent)
		r.Get("/day/{date}", rateHandler.GetForDay)
		r.Get("/average/{year:[0-9]+}/{month:[0-9]+}", rateHandler.GetAverage)
	})
	return router
}
