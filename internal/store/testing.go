// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestStore opens an isolated sqlite store for a test, backed by a file in
// the test's temp dir so parallel tests never share state.
func TestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	url := filepath.Join(t.TempDir(), "perms.db")
	s, err := Open(ctx, WithUrl(url))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close(ctx))
	})
	return s
}

// TestRepository creates a repository over a TestStore.
func TestRepository(t *testing.T, s *Store) *Repository {
	t.Helper()
	repo, err := NewRepository(context.Background(), s)
	require.NoError(t, err)
	return repo
}

// TestUser creates a user for a test.
func TestUser(t *testing.T, repo *Repository, username string) *User {
	t.Helper()
	u, err := repo.CreateUser(context.Background(), username, "", false)
	require.NoError(t, err)
	return u
}

// TestGroup creates a group for a test.
func TestGroup(t *testing.T, repo *Repository, name string) *Group {
	t.Helper()
	g, err := repo.CreateGroup(context.Background(), name)
	require.NoError(t, err)
	return g
}
