// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package store

import (
	"context"

	"github.com/hashicorp/go-dbw"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/mlperms/internal/errors"
)

const defaultLimit = 500

// Repository is the permission database repository.  It implements the read
// contracts the resolution engine consumes (perms.Grants and
// perms.SnapshotLoader) and the write path the admin API uses.  All writes
// validate their inputs before touching the database.
type Repository struct {
	rw     *dbw.RW
	logger hclog.Logger

	// defaultLimit caps list results when no WithLimit option is given.
	defaultLimit int
}

// NewRepository creates a repository over an open store.  Supported options:
// WithLogger, WithLimit.
func NewRepository(ctx context.Context, s *Store, opt ...Option) (*Repository, error) {
	const op = "store.NewRepository"
	if s == nil {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing store")
	}
	opts, err := getOpts(opt...)
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	logger := opts.withLogger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	limit := opts.withLimit
	if limit == 0 {
		limit = defaultLimit
	}
	return &Repository{
		rw:           dbw.New(s.Conn()),
		logger:       logger,
		defaultLimit: limit,
	}, nil
}
