// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package perms

import (
	"context"
	"testing"

	"github.com/hashicorp/mlperms/internal/errors"
	"github.com/hashicorp/mlperms/internal/types/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	allKinds := []source.Kind{source.User, source.Group, source.Regex, source.GroupRegex}

	tests := []struct {
		name         string
		order        []source.Kind
		defaultLevel Level
		wantErr      bool
	}{
		{name: "valid", order: allKinds, defaultLevel: Read},
		{
			name:         "valid-reordered",
			order:        []source.Kind{source.GroupRegex, source.Regex, source.Group, source.User},
			defaultLevel: Manage,
		},
		{name: "valid-deny-default", order: allKinds, defaultLevel: NoPermissions},
		{
			name:         "duplicate-kind",
			order:        []source.Kind{source.User, source.User, source.Regex, source.GroupRegex},
			defaultLevel: Read,
			wantErr:      true,
		},
		{
			name:         "missing-kind",
			order:        []source.Kind{source.User, source.Group, source.Regex},
			defaultLevel: Read,
			wantErr:      true,
		},
		{
			name:         "default-provenance-not-configurable",
			order:        []source.Kind{source.User, source.Group, source.Regex, source.Default},
			defaultLevel: Read,
			wantErr:      true,
		},
		{name: "use-not-defaultable", order: allKinds, defaultLevel: Use, wantErr: true},
		{name: "unknown-default", order: allKinds, defaultLevel: UnknownLevel, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewConfig(ctx, tt.order, tt.defaultLevel)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsConfigurationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.order, c.SourceOrder())
			assert.Equal(t, tt.defaultLevel, c.DefaultLevel())
		})
	}

	t.Run("source-order-is-copied", func(t *testing.T) {
		order := []source.Kind{source.User, source.Group, source.Regex, source.GroupRegex}
		c, err := NewConfig(ctx, order, Read)
		require.NoError(t, err)
		order[0] = source.Group
		assert.Equal(t, source.User, c.SourceOrder()[0])
		got := c.SourceOrder()
		got[0] = source.Regex
		assert.Equal(t, source.User, c.SourceOrder()[0])
	})
}

func TestParseSourceOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		got, err := ParseSourceOrder(ctx, "user,group,regex,group-regex")
		require.NoError(t, err)
		assert.Equal(t, []source.Kind{source.User, source.Group, source.Regex, source.GroupRegex}, got)
	})
	t.Run("whitespace-tolerant", func(t *testing.T) {
		got, err := ParseSourceOrder(ctx, " group , user , group-regex , regex ")
		require.NoError(t, err)
		assert.Equal(t, []source.Kind{source.Group, source.User, source.GroupRegex, source.Regex}, got)
	})
	t.Run("unknown-token", func(t *testing.T) {
		_, err := ParseSourceOrder(ctx, "user,group,ldap,group-regex")
		require.Error(t, err)
		assert.True(t, errors.IsConfigurationError(err))
	})
	t.Run("default-is-not-a-source", func(t *testing.T) {
		_, err := ParseSourceOrder(ctx, "user,group,regex,default")
		require.Error(t, err)
	})
}
