// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

// Package api exposes the permission engine over HTTP: a resolution endpoint
// for the tracking-server plugins, and an admin surface for managing users,
// groups, grants and pattern rules.
package api

import (
	"context"
	"net/http"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/mlperms/internal/errors"
	"github.com/hashicorp/mlperms/internal/perms"
	"github.com/hashicorp/mlperms/internal/store"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const requestBodyLimit = "1M"

// Server is the HTTP front end over the repository and resolver.
type Server struct {
	echo     *echo.Echo
	logger   hclog.Logger
	repo     *store.Repository
	db       *store.Store
	resolver *perms.Resolver
	metrics  *metrics
}

// NewServer wires the routes.  The resolver and repository are required; a
// nil logger falls back to a null logger.
func NewServer(ctx context.Context, db *store.Store, repo *store.Repository, resolver *perms.Resolver, logger hclog.Logger) (*Server, error) {
	const op = "api.NewServer"
	if db == nil {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing store")
	}
	if repo == nil {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing repository")
	}
	if resolver == nil {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing resolver")
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.BodyLimit(requestBodyLimit))

	m, err := newMetrics(ctx)
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}

	s := &Server{
		echo:     e,
		logger:   logger,
		repo:     repo,
		db:       db,
		resolver: resolver,
		metrics:  m,
	}

	e.GET("/health", s.health)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})))

	v1 := e.Group("/api/v1")

	v1.POST("/resolve", s.resolve)
	v1.POST("/resolve/batch", s.resolveBatch)

	v1.POST("/users", s.createUser)
	v1.GET("/users", s.listUsers)
	v1.GET("/users/:user_id", s.getUser)
	v1.DELETE("/users/:user_id", s.deleteUser)

	v1.POST("/groups", s.createGroup)
	v1.GET("/groups", s.listGroups)
	v1.DELETE("/groups/:group_id", s.deleteGroup)
	v1.PUT("/groups/:group_id/members", s.setGroupMembers)

	v1.PUT("/users/:user_id/grants", s.setUserGrant)
	v1.GET("/users/:user_id/grants", s.listUserGrants)
	v1.DELETE("/users/:user_id/grants", s.deleteUserGrant)
	v1.PUT("/groups/:group_id/grants", s.setGroupGrant)
	v1.GET("/groups/:group_id/grants", s.listGroupGrants)
	v1.DELETE("/groups/:group_id/grants", s.deleteGroupGrant)

	v1.POST("/users/:user_id/pattern-rules", s.createUserPatternRule)
	v1.GET("/users/:user_id/pattern-rules", s.listUserPatternRules)
	v1.PUT("/users/:user_id/pattern-rules/:rule_id", s.updateUserPatternRule)
	v1.DELETE("/users/:user_id/pattern-rules/:rule_id", s.deleteUserPatternRule)
	v1.POST("/groups/:group_id/pattern-rules", s.createGroupPatternRule)
	v1.GET("/groups/:group_id/pattern-rules", s.listGroupPatternRules)
	v1.PUT("/groups/:group_id/pattern-rules/:rule_id", s.updateGroupPatternRule)
	v1.DELETE("/groups/:group_id/pattern-rules/:rule_id", s.deleteGroupPatternRule)

	v1.POST("/resources/rename", s.renameResource)

	return s, nil
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) health(c echo.Context) error {
	if err := s.db.Ping(c.Request().Context()); err != nil {
		s.logger.Error("health check failed", "error", err)
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
