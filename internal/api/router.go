package api

import (
	"net/http"
	_ "ratehub/docs"
	"ratehub/internal/rate/handler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swagger "github.com/swaggo/http-swagger"
)

func NewRouter(rateHandler *handler.Handler, gatherer prometheus.Gatherer) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.Heartbeat("/healthz"))

	// Swagger UI
	router.Get("/swagger/*", swagger.WrapHandler)
	router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/currencies", rateHandler.GetSupportedCodes)
		r.Get("/rates", rateHandler.GetCache)
		r.Post("/rates/refresh", rateHandler.Refresh)
		r.Get("/rates/history", rateHandler.GetHistory)
		r.Get("/rates/{from}/{to}", rateHandler.GetRate)
		r.Post("/valuations", rateHandler.Value)
	})
	return router
}
