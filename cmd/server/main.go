package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wordrush/wordrush-backend/internal/config"
	"github.com/wordrush/wordrush-backend/internal/game"
	"github.com/wordrush/wordrush-backend/internal/httpapi"
	"github.com/wordrush/wordrush-backend/internal/hub"
	"github.com/wordrush/wordrush-backend/internal/ledger"
	"github.com/wordrush/wordrush-backend/internal/validator"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	gateway, err := validator.New(validator.Config{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		Timeout: cfg.OracleTimeout,
	}, log)
	if err != nil {
		log.Fatal("oracle gateway unavailable", zap.Error(err))
	}

	var scores ledger.Ledger
	if cfg.PostgresDSN != "" {
		store, err := ledger.OpenPostgres(cfg.PostgresDSN)
		if err != nil {
			log.Fatal("score ledger unavailable", zap.Error(err))
		}
		scores = store
	} else {
		log.Warn("no postgres DSN configured, scores are kept in memory")
		scores = ledger.NewMemory()
	}

	genOpts := []game.GeneratorOption{
		game.WithCategoryCount(cfg.CategoriesPerRound),
		game.WithRoundSeconds(cfg.RoundSeconds),
	}
	if cfg.ProbeRounds {
		genOpts = append(genOpts, game.WithProbe(gateway))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	h := hub.New(ctx, hub.Deps{
		Generator: game.NewGenerator(genOpts...),
		Validator: gateway,
		Ledger:    scores,
		Logger:    log,
	})

	srv := &http.Server{
		Addr:    cfg.Listen,
		Handler: httpapi.SetupRoutes(h, scores, log),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", cfg.Listen))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		h.Inbox() <- hub.Shutdown{}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}
