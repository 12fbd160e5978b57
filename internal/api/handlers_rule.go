// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package api

import (
	"net/http"

	"github.com/hashicorp/mlperms/internal/perms"
	"github.com/hashicorp/mlperms/internal/store"
	"github.com/labstack/echo/v4"
)

type createRuleRequest struct {
	ResourceType string `json:"resource_type"`
	Pattern      string `json:"pattern"`
	Priority     int    `json:"priority"`
	Permission   string `json:"permission"`
}

type updateRuleRequest struct {
	Priority   int    `json:"priority"`
	Permission string `json:"permission"`
}

type ruleResponse struct {
	Id           string `json:"id"`
	OwnerId      string `json:"owner_id"`
	ResourceType string `json:"resource_type"`
	Pattern      string `json:"pattern"`
	Priority     int    `json:"priority"`
	Permission   string `json:"permission"`
}

func userRuleResponse(r *store.UserPatternRule) ruleResponse {
	return ruleResponse{
		Id:           r.PublicId,
		OwnerId:      r.UserId,
		ResourceType: r.ResourceType,
		Pattern:      r.Pattern,
		Priority:     r.Priority,
		Permission:   r.Permission,
	}
}

func groupRuleResponse(r *store.GroupPatternRule) ruleResponse {
	return ruleResponse{
		Id:           r.PublicId,
		OwnerId:      r.GroupId,
		ResourceType: r.ResourceType,
		Pattern:      r.Pattern,
		Priority:     r.Priority,
		Permission:   r.Permission,
	}
}

func (s *Server) createUserPatternRule(c echo.Context) error {
	ctx := c.Request().Context()
	var req createRuleRequest
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
	rule, err := s.repo.CreateUserPatternRule(ctx, c.Param("user_id"), rt, req.Pattern, req.Priority, level)
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, userRuleResponse(rule))
}

func (s *Server) listUserPatternRules(c echo.Context) error {
	ctx := c.Request().Context()
	rules, err := s.repo.ListUserPatternRules(ctx, c.Param("user_id"))
	if err != nil {
		return s.respondErr(c, err)
	}
	out := make([]ruleResponse, 0, len(rules))
	for _, r := range rules {
		out = append(out, userRuleResponse(r))
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) updateUserPatternRule(c echo.Context) error {
	ctx := c.Request().Context()
	var req updateRuleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errResponse{Error: "invalid request body"})
	}
	level, err := perms.ParseLevel(ctx, req.Permission)
	if err != nil {
		return s.respondErr(c, err)
	}
	if err := s.repo.UpdateUserPatternRule(ctx, c.Param("rule_id"), req.Priority, level); err != nil {
		return s.respondErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) deleteUserPatternRule(c echo.Context) error {
	ctx := c.Request().Context()
	rows, err := s.repo.DeleteUserPatternRule(ctx, c.Param("rule_id"))
	if err != nil {
		return s.respondErr(c, err)
	}
	if rows == 0 {
		return c.JSON(http.StatusNotFound, errResponse{Error: "pattern rule not found"})
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) createGroupPatternRule(c echo.Context) error {
	ctx := c.Request().Context()
	var req createRuleRequest
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
	rule, err := s.repo.CreateGroupPatternRule(ctx, c.Param("group_id"), rt, req.Pattern, req.Priority, level)
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, groupRuleResponse(rule))
}

func (s *Server) listGroupPatternRules(c echo.Context) error {
	ctx := c.Request().Context()
	rules, err := s.repo.ListGroupPatternRules(ctx, c.Param("group_id"))
	if err != nil {
		return s.respondErr(c, err)
	}
	out := make([]ruleResponse, 0, len(rules))
	for _, r := range rules {
		out = append(out, groupRuleResponse(r))
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) updateGroupPatternRule(c echo.Context) error {
	ctx := c.Request().Context()
	var req updateRuleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errResponse{Error: "invalid request body"})
	}
	level, err := perms.ParseLevel(ctx, req.Permission)
	if err != nil {
		return s.respondErr(c, err)
	}
	if err := s.repo.UpdateGroupPatternRule(ctx, c.Param("rule_id"), req.Priority, level); err != nil {
		return s.respondErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) deleteGroupPatternRule(c echo.Context) error {
	ctx := c.Request().Context()
	rows, err := s.repo.DeleteGroupPatternRule(ctx, c.Param("rule_id"))
	if err != nil {
		return s.respondErr(c, err)
	}
	if rows == 0 {
		return c.JSON(http.StatusNotFound, errResponse{Error: "pattern rule not found"})
	}
	return c.NoContent(http.StatusNoContent)
}
