// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package store

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-secure-stdlib/base62"
	"github.com/hashicorp/mlperms/internal/errors"
)

const (
	// UserPrefix is the public id prefix for users.
	UserPrefix = "u"
	// GroupPrefix is the public id prefix for groups.
	GroupPrefix = "g"
	// PatternRulePrefix is the public id prefix for pattern rules.
	PatternRulePrefix = "pr"
)

// newPublicId creates a new random base62 public id with the given prefix.
func newPublicId(ctx context.Context, prefix string) (string, error) {
	const op = "store.newPublicId"
	if prefix == "" {
		return "", errors.New(ctx, errors.InvalidParameter, op, "missing prefix")
	}
	id, err := base62.Random(10)
	if err != nil {
		return "", errors.Wrap(ctx, err, op)
	}
	return fmt.Sprintf("%s_%s", prefix, id), nil
}

func newUserId(ctx context.Context) (string, error) {
	return newPublicId(ctx, UserPrefix)
}

func newGroupId(ctx context.Context) (string, error) {
	return newPublicId(ctx, GroupPrefix)
}

func newPatternRuleId(ctx context.Context) (string, error) {
	return newPublicId(ctx, PatternRulePrefix)
}
