// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type createGroupRequest struct {
	Name string `json:"name"`
}

type groupResponse struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

func (s *Server) createGroup(c echo.Context) error {
	ctx := c.Request().Context()
	var req createGroupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errResponse{Error: "invalid request body"})
	}
	g, err := s.repo.CreateGroup(ctx, req.Name)
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, groupResponse{Id: g.PublicId, Name: g.Name})
}

func (s *Server) listGroups(c echo.Context) error {
	ctx := c.Request().Context()
	groups, err := s.repo.ListGroups(ctx)
	if err != nil {
		return s.respondErr(c, err)
	}
	out := make([]groupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, groupResponse{Id: g.PublicId, Name: g.Name})
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) deleteGroup(c echo.Context) error {
	ctx := c.Request().Context()
	rows, err := s.repo.DeleteGroup(ctx, c.Param("group_id"))
	if err != nil {
		return s.respondErr(c, err)
	}
	if rows == 0 {
		return c.JSON(http.StatusNotFound, errResponse{Error: "group not found"})
	}
	return c.NoContent(http.StatusNoContent)
}

type setGroupMembersRequest struct {
	UserIds []string `json:"user_ids"`
}

func (s *Server) setGroupMembers(c echo.Context) error {
	ctx := c.Request().Context()
	var req setGroupMembersRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errResponse{Error: "invalid request body"})
	}
	if err := s.repo.SetGroupMembers(ctx, c.Param("group_id"), req.UserIds); err != nil {
		return s.respondErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
