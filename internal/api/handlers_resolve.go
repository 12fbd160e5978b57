// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package api

import (
	"net/http"
	"time"

	"github.com/hashicorp/mlperms/internal/errors"
	"github.com/hashicorp/mlperms/internal/perms"
	"github.com/labstack/echo/v4"
)

type resolveRequest struct {
	Username     string `json:"username"`
	ResourceType string `json:"resource_type"`
	ResourceId   string `json:"resource_id"`
	ResourceName string `json:"resource_name,omitempty"`
}

type decisionResponse struct {
	Level        string             `json:"level"`
	Source       string             `json:"source"`
	RuleId       string             `json:"rule_id,omitempty"`
	Admin        bool               `json:"admin,omitempty"`
	Capabilities perms.Capabilities `json:"capabilities"`
}

// adminDecision is the response for admin users, who bypass resolution
// entirely.
func adminDecision() decisionResponse {
	return decisionResponse{
		Level:        perms.Manage.String(),
		Source:       "admin",
		Admin:        true,
		Capabilities: perms.Manage.Capabilities(),
	}
}

func decisionFrom(result *perms.Result) decisionResponse {
	return decisionResponse{
		Level:        result.Level.String(),
		Source:       result.Source.String(),
		RuleId:       result.RuleId,
		Capabilities: result.Level.Capabilities(),
	}
}

// resolve answers the effective permission one user holds on one resource.
func (s *Server) resolve(c echo.Context) error {
	ctx := c.Request().Context()
	var req resolveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errResponse{Error: "invalid request body"})
	}
	if req.Username == "" {
		return c.JSON(http.StatusBadRequest, errResponse{Error: "missing username"})
	}
	rt, err := parseResourceType(ctx, req.ResourceType)
	if err != nil {
		return s.respondErr(c, err)
	}

	p, u, err := s.principalFor(ctx, req.Username)
	if err != nil {
		return s.respondErr(c, err)
	}
	if u.IsAdmin {
		return c.JSON(http.StatusOK, adminDecision())
	}

	start := time.Now()
	result, err := s.resolver.Resolve(ctx, p, perms.Resource{Type: rt, Id: req.ResourceId, Name: req.ResourceName})
	s.metrics.resolutionSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.resolutionErrors.Inc()
		return s.respondErr(c, err)
	}
	s.metrics.resolutions.WithLabelValues(result.Source.String(), result.Level.String()).Inc()
	return c.JSON(http.StatusOK, decisionFrom(result))
}

type resolveBatchRequest struct {
	Username     string `json:"username"`
	ResourceType string `json:"resource_type"`
	Resources    []struct {
		Id   string `json:"id"`
		Name string `json:"name,omitempty"`
	} `json:"resources"`
}

// resolveBatch answers permissions for many resources of one type in a fixed
// number of store queries, for listing endpoints.
func (s *Server) resolveBatch(c echo.Context) error {
	ctx := c.Request().Context()
	var req resolveBatchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errResponse{Error: "invalid request body"})
	}
	if req.Username == "" {
		return c.JSON(http.StatusBadRequest, errResponse{Error: "missing username"})
	}
	rt, err := parseResourceType(ctx, req.ResourceType)
	if err != nil {
		return s.respondErr(c, err)
	}

	p, u, err := s.principalFor(ctx, req.Username)
	if err != nil {
		return s.respondErr(c, err)
	}

	out := make(map[string]decisionResponse, len(req.Resources))
	if u.IsAdmin {
		for _, res := range req.Resources {
			out[res.Id] = adminDecision()
		}
		return c.JSON(http.StatusOK, out)
	}

	start := time.Now()
	snap, err := s.resolver.Snapshot(ctx, s.repo, p, rt)
	if err != nil {
		s.metrics.resolutionErrors.Inc()
		return s.respondErr(c, err)
	}
	for _, res := range req.Resources {
		result, err := snap.Resolve(ctx, perms.Resource{Type: rt, Id: res.Id, Name: res.Name})
		if err != nil {
			s.metrics.resolutionErrors.Inc()
			return s.respondErr(c, errors.Wrap(ctx, err, "api.(Server).resolveBatch"))
		}
		s.metrics.resolutions.WithLabelValues(result.Source.String(), result.Level.String()).Inc()
		out[res.Id] = decisionFrom(result)
	}
	s.metrics.resolutionSeconds.Observe(time.Since(start).Seconds())
	return c.JSON(http.StatusOK, out)
}
