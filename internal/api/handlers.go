// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hashicorp/mlperms/internal/errors"
	"github.com/hashicorp/mlperms/internal/perms"
	"github.com/hashicorp/mlperms/internal/store"
	"github.com/hashicorp/mlperms/internal/types/resource"
	"github.com/labstack/echo/v4"
)

type errResponse struct {
	Error string `json:"error"`
}

// respondErr maps domain error codes onto HTTP statuses.  Unmapped errors are
// internal: the detail is logged, not leaked.
func (s *Server) respondErr(c echo.Context, err error) error {
	var status int
	switch {
	case errors.IsNotFoundError(err):
		status = http.StatusNotFound
	case errors.IsUniqueError(err):
		status = http.StatusConflict
	case errors.IsUnavailableError(err):
		status = http.StatusServiceUnavailable
	case errors.Match(errors.T(errors.InvalidParameter), err),
		errors.Match(errors.T(errors.InvalidPublicId), err),
		errors.Match(errors.T(errors.InvalidPattern), err),
		errors.Match(errors.T(errors.InvalidPriority), err),
		errors.Match(errors.T(errors.UnknownResourceType), err),
		errors.IsCheckConstraintError(err):
		status = http.StatusBadRequest
	default:
		s.logger.Error("request failed", "method", c.Request().Method, "path", c.Path(), "error", err)
		return c.JSON(http.StatusInternalServerError, errResponse{Error: "internal error"})
	}
	return c.JSON(status, errResponse{Error: err.Error()})
}

func parseResourceType(ctx context.Context, value string) (resource.Type, error) {
	const op = "api.parseResourceType"
	rt, ok := resource.Map[value]
	if !ok {
		return resource.Unknown, errors.New(ctx, errors.UnknownResourceType, op, fmt.Sprintf("%q is not a known resource type", value))
	}
	return rt, nil
}

// principalFor loads the stored user for a username and assembles the
// request principal with its group memberships.
func (s *Server) principalFor(ctx context.Context, username string) (perms.Principal, *store.User, error) {
	const op = "api.(Server).principalFor"
	u, err := s.repo.LookupUserByUsername(ctx, username)
	if err != nil {
		return perms.Principal{}, nil, errors.Wrap(ctx, err, op)
	}
	groupIds, err := s.repo.GroupIdsForUser(ctx, u.PublicId)
	if err != nil {
		return perms.Principal{}, nil, errors.Wrap(ctx, err, op)
	}
	return perms.Principal{UserId: u.PublicId, GroupIds: groupIds}, u, nil
}
