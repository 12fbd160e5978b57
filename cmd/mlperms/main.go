// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

// mlperms serves permission resolution for an MLflow tracking deployment.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/mlperms/internal/api"
	"github.com/hashicorp/mlperms/internal/config"
	"github.com/hashicorp/mlperms/internal/errors"
	"github.com/hashicorp/mlperms/internal/event"
	"github.com/hashicorp/mlperms/internal/perms"
	"github.com/hashicorp/mlperms/internal/store"
)

const shutdownGrace = 10 * time.Second

func main() {
	os.Exit(realMain())
}

func realMain() int {
	ctx := context.Background()

	conf, err := config.Load(ctx)
	if err != nil {
		hclog.Default().Error("invalid configuration", "error", err)
		return 2
	}
	logger := conf.Logger("mlperms")

	db, err := store.Open(ctx, store.WithUrl(conf.DatabaseUrl), store.WithLogger(logger.Named("store")))
	if err != nil {
		logger.Error("failed to open permission store", "error", err)
		return 1
	}
	defer func() {
		if err := db.Close(ctx); err != nil {
			logger.Error("failed to close permission store", "error", err)
		}
	}()

	repo, err := store.NewRepository(ctx, db, store.WithLogger(logger.Named("repo")))
	if err != nil {
		logger.Error("failed to create repository", "error", err)
		return 1
	}
	if err := bootstrapAdmins(ctx, repo, conf.AdminUsernames()); err != nil {
		logger.Error("failed to provision admin users", "error", err)
		return 1
	}

	var eventerOpts []event.Option
	if conf.AuditLogPath != "" {
		eventerOpts = append(eventerOpts, event.WithAuditFilePath(conf.AuditLogPath))
	}
	eventer, err := event.NewEventer(ctx, logger.Named("audit"), eventerOpts...)
	if err != nil {
		logger.Error("failed to create audit eventer", "error", err)
		return 1
	}

	resolution, err := conf.ResolutionConfig(ctx)
	if err != nil {
		logger.Error("invalid resolution policy", "error", err)
		return 2
	}
	resolver, err := perms.NewResolver(ctx, repo, resolution,
		perms.WithLogger(logger.Named("resolver")), perms.WithAuditor(eventer))
	if err != nil {
		logger.Error("failed to create resolver", "error", err)
		return 1
	}

	srv, err := api.NewServer(ctx, db, repo, resolver, logger.Named("api"))
	if err != nil {
		logger.Error("failed to create server", "error", err)
		return 1
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", conf.ListenAddr,
			"source_order", conf.SourceOrder, "default_permission", conf.DefaultPermission)
		errCh <- srv.Start(conf.ListenAddr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Error("server stopped", "error", err)
		return 1
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
		return 1
	}
	return 0
}

// bootstrapAdmins provisions the configured admin usernames, skipping the
// ones that already exist.
func bootstrapAdmins(ctx context.Context, repo *store.Repository, usernames []string) error {
	for _, username := range usernames {
		_, err := repo.LookupUserByUsername(ctx, username)
		switch {
		case err == nil:
			continue
		case errors.IsNotFoundError(err):
			if _, err := repo.CreateUser(ctx, username, "", true); err != nil {
				return err
			}
		default:
			return err
		}
	}
	return nil
}
