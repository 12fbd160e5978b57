// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package store

import (
	"context"
	"sort"

	"github.com/hashicorp/go-dbw"
	"github.com/hashicorp/mlperms/internal/errors"
	"github.com/hashicorp/mlperms/internal/perms"
	"github.com/hashicorp/mlperms/internal/types/resource"
)

// The repository's read path.  These methods satisfy perms.Grants and
// perms.SnapshotLoader; the resolver treats RecordNotFound and empty slices
// as "no decision at this source" and anything else as a hard store failure.

// UserPermission returns the exact-match grant the user holds on the
// resource, or a RecordNotFound error when none exists.
func (r *Repository) UserPermission(ctx context.Context, userId string, rt resource.Type, resourceId string) (perms.Level, error) {
	const op = "store.(Repository).UserPermission"
	if userId == "" {
		return perms.UnknownLevel, errors.New(ctx, errors.InvalidParameter, op, "missing user id")
	}
	if resourceId == "" {
		return perms.UnknownLevel, errors.New(ctx, errors.InvalidParameter, op, "missing resource id")
	}
	grant := &UserGrant{}
	err := r.rw.LookupWhere(ctx, grant,
		"user_id = ? and resource_type = ? and resource_id = ?",
		[]interface{}{userId, rt.String(), resourceId})
	if err != nil {
		return perms.UnknownLevel, errors.Wrap(ctx, errors.Convert(err), op)
	}
	level, err := perms.ParseLevel(ctx, grant.Permission)
	if err != nil {
		return perms.UnknownLevel, errors.Wrap(ctx, err, op)
	}
	return level, nil
}

// GroupPermissions returns the exact-match grants any of the groups hold on
// the resource.  The slice is empty when no group has a grant.
func (r *Repository) GroupPermissions(ctx context.Context, groupIds []string, rt resource.Type, resourceId string) ([]perms.GroupGrant, error) {
	const op = "store.(Repository).GroupPermissions"
	if resourceId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing resource id")
	}
	if len(groupIds) == 0 {
		return nil, nil
	}
	var grants []*GroupGrant
	err := r.rw.SearchWhere(ctx, &grants,
		"group_id in ? and resource_type = ? and resource_id = ?",
		[]interface{}{groupIds, rt.String(), resourceId},
		dbw.WithLimit(-1))
	if err != nil {
		return nil, errors.Wrap(ctx, errors.Convert(err), op)
	}
	out := make([]perms.GroupGrant, 0, len(grants))
	for _, g := range grants {
		level, err := perms.ParseLevel(ctx, g.Permission)
		if err != nil {
			return nil, errors.Wrap(ctx, err, op)
		}
		out = append(out, perms.GroupGrant{GroupId: g.GroupId, Level: level})
	}
	return out, nil
}

// UserPatternRules returns the user's pattern rules for the resource type in
// ascending priority then insertion order.
func (r *Repository) UserPatternRules(ctx context.Context, userId string, rt resource.Type) ([]perms.PatternRule, error) {
	const op = "store.(Repository).UserPatternRules"
	if userId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing user id")
	}
	var rules []*UserPatternRule
	err := r.rw.SearchWhere(ctx, &rules,
		"user_id = ? and resource_type = ?",
		[]interface{}{userId, rt.String()},
		dbw.WithLimit(-1), dbw.WithOrder("priority asc, create_time asc"))
	if err != nil {
		return nil, errors.Wrap(ctx, errors.Convert(err), op)
	}
	out := make([]perms.PatternRule, 0, len(rules))
	for _, rule := range rules {
		level, err := perms.ParseLevel(ctx, rule.Permission)
		if err != nil {
			return nil, errors.Wrap(ctx, err, op)
		}
		out = append(out, perms.PatternRule{
			PublicId: rule.PublicId,
			OwnerId:  rule.UserId,
			Pattern:  rule.Pattern,
			Priority: rule.Priority,
			Level:    level,
		})
	}
	return out, nil
}

// GroupPatternRules returns the pattern rules pooled across the groups for
// the resource type in ascending priority then insertion order.
func (r *Repository) GroupPatternRules(ctx context.Context, groupIds []string, rt resource.Type) ([]perms.PatternRule, error) {
	const op = "store.(Repository).GroupPatternRules"
	if len(groupIds) == 0 {
		return nil, nil
	}
	var rules []*GroupPatternRule
	err := r.rw.SearchWhere(ctx, &rules,
		"group_id in ? and resource_type = ?",
		[]interface{}{groupIds, rt.String()},
		dbw.WithLimit(-1), dbw.WithOrder("priority asc, create_time asc"))
	if err != nil {
		return nil, errors.Wrap(ctx, errors.Convert(err), op)
	}
	out := make([]perms.PatternRule, 0, len(rules))
	for _, rule := range rules {
		level, err := perms.ParseLevel(ctx, rule.Permission)
		if err != nil {
			return nil, errors.Wrap(ctx, err, op)
		}
		out = append(out, perms.PatternRule{
			PublicId: rule.PublicId,
			OwnerId:  rule.GroupId,
			Pattern:  rule.Pattern,
			Priority: rule.Priority,
			Level:    level,
		})
	}
	return out, nil
}

// UserPermissionsByType returns all of the user's exact-match grants for the
// resource type, keyed by resource id.  The listing endpoints use this to
// pre-fetch a resolution snapshot in a fixed number of queries.
func (r *Repository) UserPermissionsByType(ctx context.Context, userId string, rt resource.Type) (map[string]perms.Level, error) {
	const op = "store.(Repository).UserPermissionsByType"
	if userId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing user id")
	}
	var grants []*UserGrant
	err := r.rw.SearchWhere(ctx, &grants,
		"user_id = ? and resource_type = ?",
		[]interface{}{userId, rt.String()},
		dbw.WithLimit(-1))
	if err != nil {
		return nil, errors.Wrap(ctx, errors.Convert(err), op)
	}
	out := make(map[string]perms.Level, len(grants))
	for _, g := range grants {
		level, err := perms.ParseLevel(ctx, g.Permission)
		if err != nil {
			return nil, errors.Wrap(ctx, err, op)
		}
		out[g.ResourceId] = level
	}
	return out, nil
}

// GroupPermissionsByType returns the exact-match grants held by any of the
// groups for the resource type, keyed by resource id.
func (r *Repository) GroupPermissionsByType(ctx context.Context, groupIds []string, rt resource.Type) (map[string][]perms.GroupGrant, error) {
	const op = "store.(Repository).GroupPermissionsByType"
	if len(groupIds) == 0 {
		return map[string][]perms.GroupGrant{}, nil
	}
	var grants []*GroupGrant
	err := r.rw.SearchWhere(ctx, &grants,
		"group_id in ? and resource_type = ?",
		[]interface{}{groupIds, rt.String()},
		dbw.WithLimit(-1))
	if err != nil {
		return nil, errors.Wrap(ctx, errors.Convert(err), op)
	}
	out := make(map[string][]perms.GroupGrant)
	for _, g := range grants {
		level, err := perms.ParseLevel(ctx, g.Permission)
		if err != nil {
			return nil, errors.Wrap(ctx, err, op)
		}
		out[g.ResourceId] = append(out[g.ResourceId], perms.GroupGrant{GroupId: g.GroupId, Level: level})
	}
	return out, nil
}

// GroupIdsForUser returns the sorted public ids of the groups the user
// belongs to.  The API layer resolves membership once per request and carries
// it in the principal.
func (r *Repository) GroupIdsForUser(ctx context.Context, userId string) ([]string, error) {
	const op = "store.(Repository).GroupIdsForUser"
	if userId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing user id")
	}
	var members []*GroupMember
	err := r.rw.SearchWhere(ctx, &members,
		"user_id = ?", []interface{}{userId}, dbw.WithLimit(-1))
	if err != nil {
		return nil, errors.Wrap(ctx, errors.Convert(err), op)
	}
	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.GroupId)
	}
	sort.Strings(ids)
	return ids, nil
}
