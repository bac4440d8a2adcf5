// EntegrAPI - Unified Data and AI Gateway
// Copyright 2026 kebapcore
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kebapcore/entegrapi

// Command server runs the EntegrAPI gateway: a unified REST surface over
// public data providers and the Gemini generative models.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/kebapcore/entegrapi/internal/api"
	"github.com/kebapcore/entegrapi/internal/config"
	"github.com/kebapcore/entegrapi/internal/gemini"
	"github.com/kebapcore/entegrapi/internal/logging"
	"github.com/kebapcore/entegrapi/internal/supervisor"
	"github.com/kebapcore/entegrapi/internal/tempstore"
)

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("gateway exited with error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	temp, err := tempstore.New(cfg.Temp.Dir, cfg.Temp.TTL)
	if err != nil {
		return err
	}

	gc := gemini.NewClient(cfg.Gemini.APIKey, cfg.Gemini.Timeout)
	server := api.NewServer(cfg, gc, temp)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      server.Router(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	// The supervisor reports through slog; the request path stays on zerolog.
	supervisorLog := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout

	tree := supervisor.NewTree(supervisorLog, treeCfg)
	tree.AddAPIService(supervisor.NewHTTPService(httpServer, cfg.Server.ShutdownTimeout))
	tree.AddMaintenanceService(temp)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("temp_dir", cfg.Temp.Dir).
		Msg("starting gateway")

	if err := tree.Serve(ctx); err != nil && err != context.Canceled {
		return err
	}

	logging.Info().Msg("gateway stopped")
	return nil
}
