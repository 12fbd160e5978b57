// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package store

import (
	"context"
	"testing"

	"github.com/hashicorp/mlperms/internal/errors"
	"github.com/hashicorp/mlperms/internal/perms"
	"github.com/hashicorp/mlperms/internal/types/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_Users(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := TestRepository(t, TestStore(t))

	t.Run("create-and-lookup", func(t *testing.T) {
		u, err := repo.CreateUser(ctx, "alice", "Alice", false)
		require.NoError(t, err)
		assert.NotEmpty(t, u.PublicId)

		got, err := repo.LookupUser(ctx, u.PublicId)
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Username)
		assert.Equal(t, "Alice", got.DisplayName)
		assert.False(t, got.IsAdmin)

		byName, err := repo.LookupUserByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, u.PublicId, byName.PublicId)
	})

	t.Run("duplicate-username", func(t *testing.T) {
		_, err := repo.CreateUser(ctx, "bob", "", false)
		require.NoError(t, err)
		_, err = repo.CreateUser(ctx, "bob", "", false)
		require.Error(t, err)
		assert.True(t, errors.IsUniqueError(err))
	})

	t.Run("lookup-missing", func(t *testing.T) {
		_, err := repo.LookupUser(ctx, "u_DoesNotExist")
		require.Error(t, err)
		assert.True(t, errors.IsNotFoundError(err))
	})

	t.Run("list-and-delete", func(t *testing.T) {
		users, err := repo.ListUsers(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, users)

		rows, err := repo.DeleteUser(ctx, users[0].PublicId)
		require.NoError(t, err)
		assert.Equal(t, 1, rows)
	})
}

func TestRepository_GroupMembership(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := TestRepository(t, TestStore(t))

	alice := TestUser(t, repo, "alice")
	bob := TestUser(t, repo, "bob")
	ml := TestGroup(t, repo, "ml-team")
	ops := TestGroup(t, repo, "ops-team")

	require.NoError(t, repo.SetGroupMembers(ctx, ml.PublicId, []string{alice.PublicId, bob.PublicId}))
	require.NoError(t, repo.SetGroupMembers(ctx, ops.PublicId, []string{alice.PublicId}))

	ids, err := repo.GroupIdsForUser(ctx, alice.PublicId)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{ml.PublicId, ops.PublicId}, ids)

	// sync replaces the whole membership set
	require.NoError(t, repo.SetGroupMembers(ctx, ml.PublicId, []string{bob.PublicId}))
	ids, err = repo.GroupIdsForUser(ctx, alice.PublicId)
	require.NoError(t, err)
	assert.Equal(t, []string{ops.PublicId}, ids)

	// unknown member fails the whole sync
	err = repo.SetGroupMembers(ctx, ml.PublicId, []string{"u_DoesNotExist"})
	require.Error(t, err)
	ids, err = repo.GroupIdsForUser(ctx, bob.PublicId)
	require.NoError(t, err)
	assert.Equal(t, []string{ml.PublicId}, ids, "failed sync must not change membership")
}

func TestRepository_DeleteUserCascades(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := TestRepository(t, TestStore(t))

	alice := TestUser(t, repo, "alice")
	ml := TestGroup(t, repo, "ml-team")
	require.NoError(t, repo.SetGroupMembers(ctx, ml.PublicId, []string{alice.PublicId}))
	require.NoError(t, repo.SetUserGrant(ctx, alice.PublicId, resource.Experiment, "123", perms.Edit))
	_, err := repo.CreateUserPatternRule(ctx, alice.PublicId, resource.RegisteredModel, `dev-.*`, 1, perms.Manage)
	require.NoError(t, err)

	_, err = repo.DeleteUser(ctx, alice.PublicId)
	require.NoError(t, err)

	_, err = repo.UserPermission(ctx, alice.PublicId, resource.Experiment, "123")
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))

	rules, err := repo.UserPatternRules(ctx, alice.PublicId, resource.RegisteredModel)
	require.NoError(t, err)
	assert.Empty(t, rules)

	members, err := repo.GroupIdsForUser(ctx, alice.PublicId)
	require.NoError(t, err)
	assert.Empty(t, members)
}
