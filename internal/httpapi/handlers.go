package httpapi

import (
	"crypto/rand"
	"encoding/json"
	"math/big"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/farmhunt/backend/internal/catalog"
	"github.com/farmhunt/backend/internal/hub"
	"github.com/farmhunt/backend/internal/match"
)

func GenerateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, 6)
	for i := 0; i < 6; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

func CreateMatch(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var code string
		for {
			c, err := GenerateCode()
			if err != nil {
				http.Error(w, "failed to generate code", http.StatusInternalServerError)
				return
			}
			reply := make(chan *match.Match, 1)
			h.Inbox() <- hub.GetMatch{Code: c, Reply: reply}
			if <-reply == nil {
				code = c
				break
			}
			log.Info("collision on code, regenerating", zap.String("code", c))
		}

		reply := make(chan *match.Match, 1)
		h.Inbox() <- hub.EnsureMatch{Code: code, Reply: reply}
		if <-reply == nil {
			http.Error(w, "failed to create match", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(struct {
			Code string `json:"code"`
		}{Code: code})
	}
}

// MatchState exposes the unredacted server-side view. Useful for ops
// tooling and the lobby screen; not consumed by game clients.
func MatchState(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		reply := make(chan *match.Match, 1)
		h.Inbox() <- hub.GetMatch{Code: code, Reply: reply}
		mt := <-reply
		if mt == nil {
			http.Error(w, "match not found", http.StatusNotFound)
			return
		}
		vr := make(chan match.View, 1)
		mt.Inbox() <- match.GetState{Reply: vr}
		view := <-vr

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			Version    int            `json:"version"`
			NumClients int            `json:"num_clients"`
			State      match.Snapshot `json:"state"`
		}{view.Version, view.NumClients, view.Snapshot})
	}
}

// CardInfo is the read accessor for card definitions and localized text.
func CardInfo(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		def, ok := cat.Definition(id)
		if !ok {
			http.Error(w, "unknown card", http.StatusNotFound)
			return
		}
		locale := r.URL.Query().Get("locale")
		if locale == "" {
			locale = "en"
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			catalog.Definition
			DisplayText string `json:"display_text"`
		}{def, cat.DisplayText(id, locale)})
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
