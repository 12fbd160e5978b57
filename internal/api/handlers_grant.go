// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package api

import (
	"net/http"

	"github.com/hashicorp/mlperms/internal/perms"
	"github.com/labstack/echo/v4"
)

type grantRequest struct {
	ResourceType string `json:"resource_type"`
	ResourceId   string `json:"resource_id"`
	Permission   string `json:"permission"`
}

type deleteGrantRequest struct {
	ResourceType string `json:"resource_type"`
	ResourceId   string `json:"resource_id"`
}

type grantResponse struct {
	OwnerId      string `json:"owner_id"`
	ResourceType string `json:"resource_type"`
	ResourceId   string `json:"resource_id"`
	Permission   string `json:"permission"`
}

func (s *Server) setUserGrant(c echo.Context) error {
	ctx := c.Request().Context()
	var req grantRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errResponse{Error: "invalid request body"})
	}
	rt, err := parseResourceType(ctx, req.ResourceType)
	if err != nil {
		return s.respondErr(c, err)
	}
	level, err := perms.ParseLevel(ctx, req.Permission)
	if err != nil {
		return s.respondErr(c, err)
	}
	if err := s.repo.SetUserGrant(ctx, c.Param("user_id"), rt, req.ResourceId, level); err != nil {
		return s.respondErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) deleteUserGrant(c echo.Context) error {
	ctx := c.Request().Context()
	var req deleteGrantRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errResponse{Error: "invalid request body"})
	}
	rt, err := parseResourceType(ctx, req.ResourceType)
	if err != nil {
		return s.respondErr(c, err)
	}
	rows, err := s.repo.DeleteUserGrant(ctx, c.Param("user_id"), rt, req.ResourceId)
	if err != nil {
		return s.respondErr(c, err)
	}
	if rows == 0 {
		return c.JSON(http.StatusNotFound, errResponse{Error: "grant not found"})
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) listUserGrants(c echo.Context) error {
	ctx := c.Request().Context()
	grants, err := s.repo.ListUserGrants(ctx, c.Param("user_id"))
	if err != nil {
		return s.respondErr(c, err)
	}
	out := make([]grantResponse, 0, len(grants))
	for _, g := range grants {
		out = append(out, grantResponse{
			OwnerId:      g.UserId,
			ResourceType: g.ResourceType,
			ResourceId:   g.ResourceId,
			Permission:   g.Permission,
		})
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) setGroupGrant(c echo.Context) error {
	ctx := c.Request().Context()
	var req grantRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errResponse{Error: "invalid request body"})
	}
	rt, err := parseResourceType(ctx, req.ResourceType)
	if err != nil {
		return s.respondErr(c, err)
	}
	level, err := perms.ParseLevel(ctx, req.Permission)
	if err != nil {
		return s.respondErr(c, err)
	}
	if err := s.repo.SetGroupGrant(ctx, c.Param("group_id"), rt, req.ResourceId, level); err != nil {
		return s.respondErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) deleteGroupGrant(c echo.Context) error {
	ctx := c.Request().Context()
	var req deleteGrantRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errResponse{Error: "invalid request body"})
	}
	rt, err := parseResourceType(ctx, req.ResourceType)
	if err != nil {
		return s.respondErr(c, err)
	}
	rows, err := s.repo.DeleteGroupGrant(ctx, c.Param("group_id"), rt, req.ResourceId)
	if err != nil {
		return s.respondErr(c, err)
	}
	if rows == 0 {
		return c.JSON(http.StatusNotFound, errResponse{Error: "grant not found"})
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) listGroupGrants(c echo.Context) error {
	ctx := c.Request().Context()
	grants, err := s.repo.ListGroupGrants(ctx, c.Param("group_id"))
	if err != nil {
		return s.respondErr(c, err)
	}
	out := make([]grantResponse, 0, len(grants))
	for _, g := range grants {
		out = append(out, grantResponse{
			OwnerId:      g.GroupId,
			ResourceType: g.ResourceType,
			ResourceId:   g.ResourceId,
			Permission:   g.Permission,
		})
	}
	return c.JSON(http.StatusOK, out)
}

type renameResourceRequest struct {
	ResourceType string `json:"resource_type"`
	OldId        string `json:"old_id"`
	NewId        string `json:"new_id"`
}

func (s *Server) renameResource(c echo.Context) error {
	ctx := c.Request().Context()
	var req renameResourceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errResponse{Error: "invalid request body"})
	}
	rt, err := parseResourceType(ctx, req.ResourceType)
	if err != nil {
		return s.respondErr(c, err)
	}
	if err := s.repo.RenameResource(ctx, rt, req.OldId, req.NewId); err != nil {
		return s.respondErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
