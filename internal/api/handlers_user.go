// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package api

import (
	"net/http"
	"time"

	"github.com/hashicorp/mlperms/internal/store"
	"github.com/labstack/echo/v4"
)

type createUserRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
	IsAdmin     bool   `json:"is_admin,omitempty"`
}

type userResponse struct {
	Id          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name,omitempty"`
	IsAdmin     bool      `json:"is_admin"`
	CreateTime  time.Time `json:"create_time"`
}

func userFrom(u *store.User) userResponse {
	return userResponse{
		Id:          u.PublicId,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		IsAdmin:     u.IsAdmin,
		CreateTime:  u.CreateTime,
	}
}

func (s *Server) createUser(c echo.Context) error {
	ctx := c.Request().Context()
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errResponse{Error: "invalid request body"})
	}
	u, err := s.repo.CreateUser(ctx, req.Username, req.DisplayName, req.IsAdmin)
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, userFrom(u))
}

func (s *Server) getUser(c echo.Context) error {
	ctx := c.Request().Context()
	u, err := s.repo.LookupUser(ctx, c.Param("user_id"))
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.JSON(http.StatusOK, userFrom(u))
}

func (s *Server) listUsers(c echo.Context) error {
	ctx := c.Request().Context()
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return s.respondErr(c, err)
	}
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userFrom(u))
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) deleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	rows, err := s.repo.DeleteUser(ctx, c.Param("user_id"))
	if err != nil {
		return s.respondErr(c, err)
	}
	if rows == 0 {
		return c.JSON(http.StatusNotFound, errResponse{Error: "user not found"})
	}
	return c.NoContent(http.StatusNoContent)
}
