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

func TestRepository_UserGrants(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := TestRepository(t, TestStore(t))
	alice := TestUser(t, repo, "alice")

	t.Run("set-and-read", func(t *testing.T) {
		require.NoError(t, repo.SetUserGrant(ctx, alice.PublicId, resource.Experiment, "123", perms.Edit))
		got, err := repo.UserPermission(ctx, alice.PublicId, resource.Experiment, "123")
		require.NoError(t, err)
		assert.Equal(t, perms.Edit, got)
	})

	t.Run("set-replaces", func(t *testing.T) {
		require.NoError(t, repo.SetUserGrant(ctx, alice.PublicId, resource.Experiment, "123", perms.NoPermissions))
		got, err := repo.UserPermission(ctx, alice.PublicId, resource.Experiment, "123")
		require.NoError(t, err)
		assert.Equal(t, perms.NoPermissions, got)
	})

	t.Run("use-restricted-to-gateway", func(t *testing.T) {
		err := repo.SetUserGrant(ctx, alice.PublicId, resource.Experiment, "123", perms.Use)
		require.Error(t, err)

		require.NoError(t, repo.SetUserGrant(ctx, alice.PublicId, resource.GatewayEndpoint, "chat", perms.Use))
		got, err := repo.UserPermission(ctx, alice.PublicId, resource.GatewayEndpoint, "chat")
		require.NoError(t, err)
		assert.Equal(t, perms.Use, got)
	})

	t.Run("unknown-user-rejected-by-fk", func(t *testing.T) {
		err := repo.SetUserGrant(ctx, "u_DoesNotExist", resource.Experiment, "123", perms.Read)
		require.Error(t, err)
	})

	t.Run("delete", func(t *testing.T) {
		rows, err := repo.DeleteUserGrant(ctx, alice.PublicId, resource.Experiment, "123")
		require.NoError(t, err)
		assert.Equal(t, 1, rows)
		_, err = repo.UserPermission(ctx, alice.PublicId, resource.Experiment, "123")
		require.Error(t, err)
		assert.True(t, errors.IsNotFoundError(err))
	})
}

func TestRepository_GroupGrants(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := TestRepository(t, TestStore(t))

	ml := TestGroup(t, repo, "ml-team")
	ops := TestGroup(t, repo, "ops-team")
	require.NoError(t, repo.SetGroupGrant(ctx, ml.PublicId, resource.RegisteredModel, "churn", perms.Read))
	require.NoError(t, repo.SetGroupGrant(ctx, ops.PublicId, resource.RegisteredModel, "churn", perms.Manage))

	grants, err := repo.GroupPermissions(ctx, []string{ml.PublicId, ops.PublicId}, resource.RegisteredModel, "churn")
	require.NoError(t, err)
	assert.ElementsMatch(t, []perms.GroupGrant{
		{GroupId: ml.PublicId, Level: perms.Read},
		{GroupId: ops.PublicId, Level: perms.Manage},
	}, grants)

	// only the requested groups are considered
	grants, err = repo.GroupPermissions(ctx, []string{ml.PublicId}, resource.RegisteredModel, "churn")
	require.NoError(t, err)
	assert.Equal(t, []perms.GroupGrant{{GroupId: ml.PublicId, Level: perms.Read}}, grants)

	byType, err := repo.GroupPermissionsByType(ctx, []string{ml.PublicId, ops.PublicId}, resource.RegisteredModel)
	require.NoError(t, err)
	assert.Len(t, byType["churn"], 2)
}

func TestRepository_RenameResource(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := TestRepository(t, TestStore(t))

	alice := TestUser(t, repo, "alice")
	ml := TestGroup(t, repo, "ml-team")
	require.NoError(t, repo.SetUserGrant(ctx, alice.PublicId, resource.RegisteredModel, "churn", perms.Edit))
	require.NoError(t, repo.SetGroupGrant(ctx, ml.PublicId, resource.RegisteredModel, "churn", perms.Read))
	require.NoError(t, repo.SetUserGrant(ctx, alice.PublicId, resource.Prompt, "churn", perms.Read))

	require.NoError(t, repo.RenameResource(ctx, resource.RegisteredModel, "churn", "churn-v2"))

	got, err := repo.UserPermission(ctx, alice.PublicId, resource.RegisteredModel, "churn-v2")
	require.NoError(t, err)
	assert.Equal(t, perms.Edit, got)
	_, err = repo.UserPermission(ctx, alice.PublicId, resource.RegisteredModel, "churn")
	assert.True(t, errors.IsNotFoundError(err))

	grants, err := repo.GroupPermissions(ctx, []string{ml.PublicId}, resource.RegisteredModel, "churn-v2")
	require.NoError(t, err)
	require.Len(t, grants, 1)

	// other resource types sharing the id are untouched
	got, err = repo.UserPermission(ctx, alice.PublicId, resource.Prompt, "churn")
	require.NoError(t, err)
	assert.Equal(t, perms.Read, got)
}

// TestRepository_ResolverIntegration drives the resolution engine against the
// real sqlite-backed repository.
func TestRepository_ResolverIntegration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := TestRepository(t, TestStore(t))

	alice := TestUser(t, repo, "alice")
	ml := TestGroup(t, repo, "ml-team")
	require.NoError(t, repo.SetGroupMembers(ctx, ml.PublicId, []string{alice.PublicId}))
	require.NoError(t, repo.SetUserGrant(ctx, alice.PublicId, resource.Experiment, "123", perms.Edit))
	require.NoError(t, repo.SetGroupGrant(ctx, ml.PublicId, resource.Experiment, "123", perms.Manage))
	_, err := repo.CreateUserPatternRule(ctx, alice.PublicId, resource.Experiment, `shared-.*`, 1, perms.Read)
	require.NoError(t, err)

	conf, err := perms.NewConfig(ctx, perms.DefaultSourceOrder(), perms.Read)
	require.NoError(t, err)
	resolver, err := perms.NewResolver(ctx, repo, conf)
	require.NoError(t, err)

	groupIds, err := repo.GroupIdsForUser(ctx, alice.PublicId)
	require.NoError(t, err)
	p := perms.Principal{UserId: alice.PublicId, GroupIds: groupIds}

	got, err := resolver.Resolve(ctx, p, perms.Resource{Type: resource.Experiment, Id: "123"})
	require.NoError(t, err)
	assert.Equal(t, perms.Edit, got.Level, "user grant short-circuits the group grant")

	got, err = resolver.Resolve(ctx, p, perms.Resource{Type: resource.Experiment, Id: "shared-benchmarks"})
	require.NoError(t, err)
	assert.Equal(t, perms.Read, got.Level)

	// snapshot against the repository matches direct resolution
	snap, err := resolver.Snapshot(ctx, repo, p, resource.Experiment)
	require.NoError(t, err)
	for _, id := range []string{"123", "shared-benchmarks", "unrelated"} {
		direct, err := resolver.Resolve(ctx, p, perms.Resource{Type: resource.Experiment, Id: id})
		require.NoError(t, err)
		fromSnap, err := snap.Resolve(ctx, perms.Resource{Type: resource.Experiment, Id: id})
		require.NoError(t, err)
		assert.Equal(t, direct, fromSnap)
	}
}
