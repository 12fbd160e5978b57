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

const (
	upsertUserGrant = `
insert into perm_user_grant
  (user_id, resource_type, resource_id, permission)
values
  (?, ?, ?, ?)
on conflict (user_id, resource_type, resource_id)
do update set
  permission = excluded.permission,
  update_time = current_timestamp
`
	upsertGroupGrant = `
insert into perm_group_grant
  (group_id, resource_type, resource_id, permission)
values
  (?, ?, ?, ?)
on conflict (group_id, resource_type, resource_id)
do update set
  permission = excluded.permission,
  update_time = current_timestamp
`
)

// validateGrant enforces the write-boundary invariants shared by user and
// group grants.
func validateGrant(ctx context.Context, op errors.Op, rt resource.Type, resourceId string, level perms.Level) error {
	if _, ok := resource.Map[rt.String()]; !ok {
		return errors.New(ctx, errors.UnknownResourceType, op, fmt.Sprintf("%q is not a known resource type", rt.String()))
	}
	if resourceId == "" {
		return errors.New(ctx, errors.InvalidParameter, op, "missing resource id")
	}
	if !level.ValidFor(rt) {
		return errors.New(ctx, errors.InvalidParameter, op,
			fmt.Sprintf("level %q cannot be granted on resource type %q", level.String(), rt.String()))
	}
	return nil
}

// SetUserGrant creates or replaces the user's exact-match grant on the
// resource.
func (r *Repository) SetUserGrant(ctx context.Context, userId string, rt resource.Type, resourceId string, level perms.Level) error {
	const op = "store.(Repository).SetUserGrant"
	if userId == "" {
		return errors.New(ctx, errors.InvalidParameter, op, "missing user id")
	}
	if err := validateGrant(ctx, op, rt, resourceId, level); err != nil {
		return err
	}
	_, err := r.rw.Exec(ctx, upsertUserGrant,
		[]interface{}{userId, rt.String(), resourceId, level.String()})
	if err != nil {
		return errors.Wrap(ctx, errors.Convert(err), op)
	}
	return nil
}

// DeleteUserGrant removes the user's exact-match grant on the resource.
func (r *Repository) DeleteUserGrant(ctx context.Context, userId string, rt resource.Type, resourceId string) (int, error) {
	const op = "store.(Repository).DeleteUserGrant"
	if userId == "" {
		return 0, errors.New(ctx, errors.InvalidParameter, op, "missing user id")
	}
	if resourceId == "" {
		return 0, errors.New(ctx, errors.InvalidParameter, op, "missing resource id")
	}
	rows, err := r.rw.Exec(ctx,
		"delete from perm_user_grant where user_id = ? and resource_type = ? and resource_id = ?",
		[]interface{}{userId, rt.String(), resourceId})
	if err != nil {
		return 0, errors.Wrap(ctx, errors.Convert(err), op)
	}
	return rows, nil
}

// SetGroupGrant creates or replaces the group's exact-match grant on the
// resource.
func (r *Repository) SetGroupGrant(ctx context.Context, groupId string, rt resource.Type, resourceId string, level perms.Level) error {
	const op = "store.(Repository).SetGroupGrant"
	if groupId == "" {
		return errors.New(ctx, errors.InvalidParameter, op, "missing group id")
	}
	if err := validateGrant(ctx, op, rt, resourceId, level); err != nil {
		return err
	}
	_, err := r.rw.Exec(ctx, upsertGroupGrant,
		[]interface{}{groupId, rt.String(), resourceId, level.String()})
	if err != nil {
		return errors.Wrap(ctx, errors.Convert(err), op)
	}
	return nil
}

// DeleteGroupGrant removes the group's exact-match grant on the resource.
func (r *Repository) DeleteGroupGrant(ctx context.Context, groupId string, rt resource.Type, resourceId string) (int, error) {
	const op = "store.(Repository).DeleteGroupGrant"
	if groupId == "" {
		return 0, errors.New(ctx, errors.InvalidParameter, op, "missing group id")
	}
	if resourceId == "" {
		return 0, errors.New(ctx, errors.InvalidParameter, op, "missing resource id")
	}
	rows, err := r.rw.Exec(ctx,
		"delete from perm_group_grant where group_id = ? and resource_type = ? and resource_id = ?",
		[]interface{}{groupId, rt.String(), resourceId})
	if err != nil {
		return 0, errors.Wrap(ctx, errors.Convert(err), op)
	}
	return rows, nil
}

// ListUserGrants returns all of the user's exact-match grants.  Supports
// WithLimit.
func (r *Repository) ListUserGrants(ctx context.Context, userId string, opt ...Option) ([]*UserGrant, error) {
	const op = "store.(Repository).ListUserGrants"
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
	var grants []*UserGrant
	err = r.rw.SearchWhere(ctx, &grants, "user_id = ?", []interface{}{userId},
		dbw.WithLimit(limit), dbw.WithOrder("resource_type asc, resource_id asc"))
	if err != nil {
		return nil, errors.Wrap(ctx, errors.Convert(err), op)
	}
	return grants, nil
}

// ListGroupGrants returns all of the group's exact-match grants.  Supports
// WithLimit.
func (r *Repository) ListGroupGrants(ctx context.Context, groupId string, opt ...Option) ([]*GroupGrant, error) {
	const op = "store.(Repository).ListGroupGrants"
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
	var grants []*GroupGrant
	err = r.rw.SearchWhere(ctx, &grants, "group_id = ?", []interface{}{groupId},
		dbw.WithLimit(limit), dbw.WithOrder("resource_type asc, resource_id asc"))
	if err != nil {
		return nil, errors.Wrap(ctx, errors.Convert(err), op)
	}
	return grants, nil
}

// RenameResource moves every exact-match grant from one resource id to
// another in a single transaction, keeping grants attached when the tracking
// server renames a resource.  Pattern rules are unaffected: they match the
// new name on their own.
func (r *Repository) RenameResource(ctx context.Context, rt resource.Type, oldId, newId string) error {
	const op = "store.(Repository).RenameResource"
	if _, ok := resource.Map[rt.String()]; !ok {
		return errors.New(ctx, errors.UnknownResourceType, op, fmt.Sprintf("%q is not a known resource type", rt.String()))
	}
	if oldId == "" {
		return errors.New(ctx, errors.InvalidParameter, op, "missing current resource id")
	}
	if newId == "" {
		return errors.New(ctx, errors.InvalidParameter, op, "missing new resource id")
	}
	tx, err := r.rw.Begin(ctx)
	if err != nil {
		return errors.Wrap(ctx, errors.Convert(err), op)
	}
	for _, table := range []string{"perm_user_grant", "perm_group_grant"} {
		stmt := fmt.Sprintf(
			"update %s set resource_id = ?, update_time = current_timestamp where resource_type = ? and resource_id = ?", table)
		if _, err := tx.Exec(ctx, stmt, []interface{}{newId, rt.String(), oldId}); err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				r.logger.Error("failed to rollback resource rename", "error", rollbackErr)
			}
			return errors.Wrap(ctx, errors.Convert(err), op)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(ctx, errors.Convert(err), op)
	}
	return nil
}
