package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/farmhunt/backend/internal/catalog"
	"github.com/farmhunt/backend/internal/hub"
	"github.com/farmhunt/backend/internal/ws"
)

func SetupRoutes(h *hub.Hub, cat *catalog.Catalog, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Public routes
	r.Post("/matches", CreateMatch(h, log))
	r.Get("/matches/{code}", MatchState(h))
	r.Get("/cards/{id}", CardInfo(cat))
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h, log))
	return r
}
