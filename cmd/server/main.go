package main

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/farmhunt/backend/internal/archive"
	"github.com/farmhunt/backend/internal/catalog"
	"github.com/farmhunt/backend/internal/config"
	"github.com/farmhunt/backend/internal/engine"
	"github.com/farmhunt/backend/internal/httpapi"
	"github.com/farmhunt/backend/internal/hub"
	"github.com/farmhunt/backend/internal/match"
)

func main() {
	cfg := config.Load()

	logger, err := initLogger(cfg.Dev)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cat := catalog.Default()
	if cfg.CardData != "" {
		cat, err = catalog.Load(cfg.CardData)
		if err != nil {
			logger.Fatal("loading card catalog", zap.String("path", cfg.CardData), zap.Error(err))
		}
	}

	var arch *archive.Archive
	if cfg.DatabaseURL != "" {
		arch, err = archive.Open(cfg.DatabaseURL, logger)
		if err != nil {
			logger.Fatal("opening match archive", zap.Error(err))
		}
	}

	newState := func() *engine.State {
		s := engine.NewState(cat, engine.DefaultRules(), time.Now().UnixNano())
		for _, v := range engine.FarmVents() {
			s.AddVent(v)
		}
		return s
	}

	var onDone func(string, match.Summary)
	if arch != nil {
		onDone = arch.Record
	}

	ctx := context.Background()
	h := hub.NewHub(ctx, newState, cfg.TickInterval, onDone, logger)

	// Build the router *with* the hub injected
	handler := httpapi.SetupRoutes(h, cat, logger)

	logger.Info("listening", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func initLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
