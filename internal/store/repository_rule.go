// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package store

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-dbw"
	"github.com/hashicorp/mlperms/internal/errors"
	"github.com/hashicorp/mlperms/internal/perms"
	"github.com/hashicorp/mlperms/internal/types/resource"
)

// validateRule enforces the write-boundary invariants for pattern rules: the
// regex must compile, the priority must be non-negative, and the granted
// level must be valid for the resource type.  Invalid rules never reach the
// database; a corrupt pattern discovered at read time is a data bug, not a
// request error.
func validateRule(ctx context.Context, op errors.Op, rt resource.Type, pattern string, priority int, level perms.Level) error {
	if _, ok := resource.Map[rt.String()]; !ok {
		return errors.New(ctx, errors.UnknownResourceType, op, fmt.Sprintf("%q is not a known resource type", rt.String()))
	}
	if err := perms.ValidatePatternRule(ctx, pattern, priority); err != nil {
		return errors.Wrap(ctx, err, op)
	}
	if !level.ValidFor(rt) {
		return errors.New(ctx, errors.InvalidParameter, op,
			fmt.Sprintf("level %q cannot be granted on resource type %q", level.String(), rt.String()))
	}
	return nil
}

// CreateUserPatternRule stores a regex grant owned by the user.
func (r *Repository) CreateUserPatternRule(ctx context.Context, userId string, rt resource.Type, pattern string, priority int, level perms.Level) (*UserPatternRule, error) {
	const op = "store.(Repository).CreateUserPatternRule"
	if userId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing user id")
	}
	if err := validateRule(ctx, op, rt, pattern, priority, level); err != nil {
		return nil, err
	}
	id, err := newPatternRuleId(ctx)
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	rule := &UserPatternRule{
		PublicId:     id,
		UserId:       userId,
		ResourceType: rt.String(),
		Pattern:      pattern,
		Priority:     priority,
		Permission:   level.String(),
	}
	if err := r.rw.Create(ctx, rule); err != nil {
		return nil, errors.Wrap(ctx, errors.Convert(err), op)
	}
	return rule, nil
}

// CreateGroupPatternRule stores a regex grant owned by the group.
func (r *Repository) CreateGroupPatternRule(ctx context.Context, groupId string, rt resource.Type, pattern string, priority int, level perms.Level) (*GroupPatternRule, error) {
	const op = "store.(Repository).CreateGroupPatternRule"
	if groupId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing group id")
	}
	if err := validateRule(ctx, op, rt, pattern, priority, level); err != nil {
		return nil, err
	}
	id, err := newPatternRuleId(ctx)
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	rule := &GroupPatternRule{
		PublicId:     id,
		GroupId:      groupId,
		ResourceType: rt.String(),
		Pattern:      pattern,
		Priority:     priority,
		Permission:   level.String(),
	}
	if err := r.rw.Create(ctx, rule); err != nil {
		return nil, errors.Wrap(ctx, errors.Convert(err), op)
	}
	return rule, nil
}

// UpdateUserPatternRule replaces the priority and level of an existing rule.
// The pattern itself is immutable; replacing a pattern is a delete plus
// create so that audit records stay attributable to one rule id.
func (r *Repository) UpdateUserPatternRule(ctx context.Context, publicId string, priority int, level perms.Level) error {
	const op = "store.(Repository).UpdateUserPatternRule"
	if publicId == "" {
		return errors.New(ctx, errors.InvalidPublicId, op, "missing public id")
	}
	rule := &UserPatternRule{}
	if err := r.rw.LookupWhere(ctx, rule, "public_id = ?", []interface{}{publicId}); err != nil {
		return errors.Wrap(ctx, errors.Convert(err), op)
	}
	rt, ok := resource.Map[rule.ResourceType]
	if !ok {
		return errors.New(ctx, errors.UnknownResourceType, op, fmt.Sprintf("rule %q has unknown resource type %q", publicId, rule.ResourceType))
	}
	if err := validateRule(ctx, op, rt, rule.Pattern, priority, level); err != nil {
		return err
	}
	_, err := r.rw.Exec(ctx,
		"update perm_user_pattern_rule set priority = ?, permission = ? where public_id = ?",
		[]interface{}{priority, level.String(), publicId})
	if err != nil {
		return errors.Wrap(ctx, errors.Convert(err), op)
	}
	return nil
}

// UpdateGroupPatternRule replaces the priority and level of an existing rule.
func (r *Repository) UpdateGroupPatternRule(ctx context.Context, publicId string, priority int, level perms.Level) error {
	const op = "store.(Repository).UpdateGroupPatternRule"
	if publicId == "" {
		return errors.New(ctx, errors.InvalidPublicId, op, "missing public id")
	}
	rule := &GroupPatternRule{}
	if err := r.rw.LookupWhere(ctx, rule, "public_id = ?", []interface{}{publicId}); err != nil {
		return errors.Wrap(ctx, errors.Convert(err), op)
	}
	rt, ok := resource.Map[rule.ResourceType]
	if !ok {
		return errors.New(ctx, errors.UnknownResourceType, op, fmt.Sprintf("rule %q has unknown resource type %q", publicId, rule.ResourceType))
	}
	if err := validateRule(ctx, op, rt, rule.Pattern, priority, level); err != nil {
		return err
	}
	_, err := r.rw.Exec(ctx,
		"update perm_group_pattern_rule set priority = ?, permission = ? where public_id = ?",
		[]interface{}{priority, level.String(), publicId})
	if err != nil {
		return errors.Wrap(ctx, errors.Convert(err), op)
	}
	return nil
}

// DeleteUserPatternRule removes the rule with the given public id.
func (r *Repository) DeleteUserPatternRule(ctx context.Context, publicId string) (int, error) {
	const op = "store.(Repository).DeleteUserPatternRule"
	if publicId == "" {
		return 0, errors.New(ctx, errors.InvalidPublicId, op, "missing public id")
	}
	rows, err := r.rw.Delete(ctx, &UserPatternRule{PublicId: publicId})
	if err != nil {
		return 0, errors.Wrap(ctx, errors.Convert(err), op)
	}
	return rows, nil
}

// DeleteGroupPatternRule removes the rule with the given public id.
func (r *Repository) DeleteGroupPatternRule(ctx context.Context, publicId string) (int, error) {
	const op = "store.(Repository).DeleteGroupPatternRule"
	if publicId == "" {
		return 0, errors.New(ctx, errors.InvalidPublicId, op, "missing public id")
	}
	rows, err := r.rw.Delete(ctx, &GroupPatternRule{PublicId: publicId})
	if err != nil {
		return 0, errors.Wrap(ctx, errors.Convert(err), op)
	}
	return rows, nil
}

// ListUserPatternRules returns the user's stored rules across all resource
// types in evaluation order.  Supports WithLimit.
func (r *Repository) ListUserPatternRules(ctx context.Context, userId string, opt ...Option) ([]*UserPatternRule, error) {
	const op = "store.(Repository).ListUserPatternRules"
	if userId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing user id")
	}
	opts, err := getOpts(opt...)
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	limit := r.defaultLimit
	if opts.withLimit != 0 {
		limit = opts.withLimit
	}
	var rules []*UserPatternRule
	err = r.rw.SearchWhere(ctx, &rules, "user_id = ?", []interface{}{userId},
		dbw.WithLimit(limit), dbw.WithOrder("resource_type asc, priority asc, create_time asc"))
	if err != nil {
		return nil, errors.Wrap(ctx, errors.Convert(err), op)
	}
	return rules, nil
}

// ListGroupPatternRules returns the group's stored rules across all resource
// types in evaluation order.  Supports WithLimit.
func (r *Repository) ListGroupPatternRules(ctx context.Context, groupId string, opt ...Option) ([]*GroupPatternRule, error) {
	const op = "store.(Repository).ListGroupPatternRules"
	if groupId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing group id")
	}
	opts, err := getOpts(opt...)
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	limit := r.defaultLimit
	if opts.withLimit != 0 {
		limit = opts.withLimit
	}
	var rules []*GroupPatternRule
	err = r.rw.SearchWhere(ctx, &rules, "group_id = ?", []interface{}{groupId},
		dbw.WithLimit(limit), dbw.WithOrder("resource_type asc, priority asc, create_time asc"))
	if err != nil {
		return nil, errors.Wrap(ctx, errors.Convert(err), op)
	}
	return rules, nil
}
