package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/eliteGoblin/focusd/secsim/internal/daemon"
	"github.com/eliteGoblin/focusd/secsim/internal/domain"
	"github.com/eliteGoblin/focusd/secsim/internal/httpapi"
	"github.com/eliteGoblin/focusd/secsim/internal/infra"
	"github.com/eliteGoblin/focusd/secsim/internal/profile"
	"github.com/eliteGoblin/focusd/secsim/internal/usecase"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a live session behind the HTTP API",
	Long: `Starts one simulation session. Actions arrive over HTTP (POST /actions);
scans, update installs, the phishing prompt and toast expiry run in the
background. Evaluation reports go to the configured report sink.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := createLogger(cfg.LogLevel())
	defer func() { _ = logger.Sync() }()

	sessionID := uuid.NewString()
	logger = logger.With(zap.String("session_id", sessionID))

	sink, closeSink, err := infra.OpenSink(cfg.SinkOptions(), logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeSink(); err != nil {
			logger.Warn("failed to close report sink", zap.Error(err))
		}
	}()

	clock := clockwork.NewRealClock()
	profiles := profile.NewRegistry()
	store := usecase.NewStore(domain.NewState(cfg.Settings()), clock, logger)

	supervisor := daemon.NewSupervisor(
		cfg.SupervisorConfig(),
		store,
		daemon.SupervisorDeps{
			Targets:   profiles.Targets,
			Rand:      daemon.NewRand(cfg.Simulation.Seed),
			Sink:      sink,
			SessionID: sessionID,
		},
		clock,
		logger,
	)

	api := httpapi.New(store, profiles, infra.NewHostHealthChecker(infra.DefaultHealthThresholds()), clock, logger)
	server := &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           api.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Set up graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			logger.Info("received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := supervisor.Run(gctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		logger.Info("http api listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
		defer done()
		return server.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	logger.Info("session ended", zap.Int("score", store.Score()))
	return err
}
