// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package config

import (
	"context"
	"testing"

	"github.com/hashicorp/mlperms/internal/perms"
	"github.com/hashicorp/mlperms/internal/types/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults", func(t *testing.T) {
		c, err := Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "user,group,regex,group-regex", c.SourceOrder)
		assert.Equal(t, "READ", c.DefaultPermission)
		assert.Equal(t, ":8486", c.ListenAddr)

		conf, err := c.ResolutionConfig(ctx)
		require.NoError(t, err)
		assert.Equal(t, perms.DefaultSourceOrder(), conf.SourceOrder())
		assert.Equal(t, perms.Read, conf.DefaultLevel())
	})

	t.Run("custom-order-and-default", func(t *testing.T) {
		t.Setenv("PERMISSION_SOURCE_ORDER", "group, user, group-regex, regex")
		t.Setenv("DEFAULT_MLFLOW_PERMISSION", "NO_PERMISSIONS")
		c, err := Load(ctx)
		require.NoError(t, err)

		conf, err := c.ResolutionConfig(ctx)
		require.NoError(t, err)
		assert.Equal(t, []source.Kind{source.Group, source.User, source.GroupRegex, source.Regex}, conf.SourceOrder())
		assert.Equal(t, perms.NoPermissions, conf.DefaultLevel())
	})

	t.Run("invalid-source-order-fails-startup", func(t *testing.T) {
		t.Setenv("PERMISSION_SOURCE_ORDER", "user,group,regex")
		_, err := Load(ctx)
		require.Error(t, err)
	})

	t.Run("invalid-default-permission-fails-startup", func(t *testing.T) {
		t.Setenv("DEFAULT_MLFLOW_PERMISSION", "sudo")
		_, err := Load(ctx)
		require.Error(t, err)
	})

	t.Run("use-not-allowed-as-default", func(t *testing.T) {
		t.Setenv("DEFAULT_MLFLOW_PERMISSION", "USE")
		_, err := Load(ctx)
		require.Error(t, err)
	})

	t.Run("invalid-log-format", func(t *testing.T) {
		t.Setenv("LOG_FORMAT", "yaml")
		_, err := Load(ctx)
		require.Error(t, err)
	})

	t.Run("admin-users", func(t *testing.T) {
		t.Setenv("ADMIN_USERS", "carol, alice,carol")
		c, err := Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"alice", "carol"}, c.AdminUsernames())
	})
}
