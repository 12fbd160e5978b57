// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package store

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-dbw"
	"github.com/hashicorp/mlperms/internal/errors"
)

// CreateUser provisions a user.  Usernames are unique; users are typically
// created at first login by the authenticating proxy.
func (r *Repository) CreateUser(ctx context.Context, username, displayName string, isAdmin bool) (*User, error) {
	const op = "store.(Repository).CreateUser"
	if username == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing username")
	}
	id, err := newUserId(ctx)
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	u := &User{
		PublicId:    id,
		Username:    username,
		DisplayName: displayName,
		IsAdmin:     isAdmin,
	}
	if err := r.rw.Create(ctx, u); err != nil {
		return nil, errors.Wrap(ctx, errors.Convert(err), op,
			errors.WithMsg(fmt.Sprintf("failed to create user %q", username)))
	}
	return u, nil
}

// LookupUser returns the user with the given public id, or a RecordNotFound
// error.
func (r *Repository) LookupUser(ctx context.Context, publicId string) (*User, error) {
	const op = "store.(Repository).LookupUser"
	if publicId == "" {
		return nil, errors.New(ctx, errors.InvalidPublicId, op, "missing public id")
	}
	u := &User{}
	if err := r.rw.LookupWhere(ctx, u, "public_id = ?", []interface{}{publicId}); err != nil {
		return nil, errors.Wrap(ctx, errors.Convert(err), op)
	}
	return u, nil
}

// LookupUserByUsername returns the user with the given username, or a
// RecordNotFound error.
func (r *Repository) LookupUserByUsername(ctx context.Context, username string) (*User, error) {
	const op = "store.(Repository).LookupUserByUsername"
	if username == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing username")
	}
	u := &User{}
	if err := r.rw.LookupWhere(ctx, u, "username = ?", []interface{}{username}); err != nil {
		return nil, errors.Wrap(ctx, errors.Convert(err), op)
	}
	return u, nil
}

// ListUsers returns users ordered by username.  Supports WithLimit.
func (r *Repository) ListUsers(ctx context.Context, opt ...Option) ([]*User, error) {
	const op = "store.(Repository).ListUsers"
	opts, err := getOpts(opt...)
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	limit := r.defaultLimit
	if opts.withLimit != 0 {
		limit = opts.withLimit
	}
	var users []*User
	err = r.rw.SearchWhere(ctx, &users, "1 = 1", nil,
		dbw.WithLimit(limit), dbw.WithOrder("username asc"))
	if err != nil {
		return nil, errors.Wrap(ctx, errors.Convert(err), op)
	}
	return users, nil
}

// DeleteUser removes the user.  Grants, pattern rules and group memberships
// cascade through the schema's foreign keys.
func (r *Repository) DeleteUser(ctx context.Context, publicId string) (int, error) {
	const op = "store.(Repository).DeleteUser"
	if publicId == "" {
		return 0, errors.New(ctx, errors.InvalidPublicId, op, "missing public id")
	}
	rows, err := r.rw.Delete(ctx, &User{PublicId: publicId})
	if err != nil {
		return 0, errors.Wrap(ctx, errors.Convert(err), op)
	}
	return rows, nil
}

// CreateGroup creates a named group.
func (r *Repository) CreateGroup(ctx context.Context, name string) (*Group, error) {
	const op = "store.(Repository).CreateGroup"
	if name == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing group name")
	}
	id, err := newGroupId(ctx)
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	g := &Group{PublicId: id, Name: name}
	if err := r.rw.Create(ctx, g); err != nil {
		return nil, errors.Wrap(ctx, errors.Convert(err), op,
			errors.WithMsg(fmt.Sprintf("failed to create group %q", name)))
	}
	return g, nil
}

// LookupGroupByName returns the group with the given name, or a
// RecordNotFound error.
func (r *Repository) LookupGroupByName(ctx context.Context, name string) (*Group, error) {
	const op = "store.(Repository).LookupGroupByName"
	if name == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing group name")
	}
	g := &Group{}
	if err := r.rw.LookupWhere(ctx, g, "name = ?", []interface{}{name}); err != nil {
		return nil, errors.Wrap(ctx, errors.Convert(err), op)
	}
	return g, nil
}

// ListGroups returns groups ordered by name.  Supports WithLimit.
func (r *Repository) ListGroups(ctx context.Context, opt ...Option) ([]*Group, error) {
	const op = "store.(Repository).ListGroups"
	opts, err := getOpts(opt...)
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	limit := r.defaultLimit
	if opts.withLimit != 0 {
		limit = opts.withLimit
	}
	var groups []*Group
	err = r.rw.SearchWhere(ctx, &groups, "1 = 1", nil,
		dbw.WithLimit(limit), dbw.WithOrder("name asc"))
	if err != nil {
		return nil, errors.Wrap(ctx, errors.Convert(err), op)
	}
	return groups, nil
}

// DeleteGroup removes the group.  Grants, pattern rules and memberships
// cascade through the schema's foreign keys.
func (r *Repository) DeleteGroup(ctx context.Context, publicId string) (int, error) {
	const op = "store.(Repository).DeleteGroup"
	if publicId == "" {
		return 0, errors.New(ctx, errors.InvalidPublicId, op, "missing public id")
	}
	rows, err := r.rw.Delete(ctx, &Group{PublicId: publicId})
	if err != nil {
		return 0, errors.Wrap(ctx, errors.Convert(err), op)
	}
	return rows, nil
}

// SetGroupMembers replaces the group's membership with the given user ids in
// a single transaction, mirroring how identity-provider claims are synced at
// login.
func (r *Repository) SetGroupMembers(ctx context.Context, groupId string, userIds []string) error {
	const op = "store.(Repository).SetGroupMembers"
	if groupId == "" {
		return errors.New(ctx, errors.InvalidPublicId, op, "missing group id")
	}
	tx, err := r.rw.Begin(ctx)
	if err != nil {
		return errors.Wrap(ctx, errors.Convert(err), op)
	}
	if _, err := tx.Exec(ctx, "delete from perm_group_member where group_id = ?", []interface{}{groupId}); err != nil {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
			r.logger.Error("failed to rollback group membership sync", "error", rollbackErr)
		}
		return errors.Wrap(ctx, errors.Convert(err), op)
	}
	if len(userIds) > 0 {
		members := make([]*GroupMember, 0, len(userIds))
		for _, userId := range userIds {
			members = append(members, &GroupMember{GroupId: groupId, UserId: userId})
		}
		if err := tx.CreateItems(ctx, members); err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				r.logger.Error("failed to rollback group membership sync", "error", rollbackErr)
			}
			return errors.Wrap(ctx, errors.Convert(err), op)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(ctx, errors.Convert(err), op)
	}
	return nil
}
