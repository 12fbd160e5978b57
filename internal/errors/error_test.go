// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package errors_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/hashicorp/mlperms/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tests := []struct {
		name    string
		code    errors.Code
		op      errors.Op
		msg     string
		opt     []errors.Option
		want    error
		wantStr string
	}{
		{
			name:    "all-fields",
			code:    errors.InvalidPattern,
			op:      "perms.ValidatePatternRule",
			msg:     "regex \"[\" failed to compile",
			wantStr: `perms.ValidatePatternRule: regex "[" failed to compile: error #102`,
		},
		{
			name:    "no-msg-uses-code-info",
			code:    errors.RecordNotFound,
			op:      "store.lookupGrant",
			wantStr: "store.lookupGrant: record not found, search issue: error #1100",
		},
		{
			name:    "with-wrap",
			code:    errors.Unavailable,
			op:      "store.ping",
			msg:     "connectivity check failed",
			opt:     []errors.Option{errors.WithWrap(stderrors.New("dial timeout"))},
			wantStr: "store.ping: connectivity check failed: error #1200: dial timeout",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert, require := assert.New(t), require.New(t)
			err := errors.New(ctx, tt.code, tt.op, tt.msg, tt.opt...)
			require.Error(err)
			var e *errors.Err
			require.True(stderrors.As(err, &e))
			assert.Equal(tt.code, e.Code)
			assert.Equal(tt.op, e.Op)
			assert.Equal(tt.wantStr, err.Error())
		})
	}
}

func TestWrap(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("inherits-code", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		inner := errors.New(ctx, errors.RecordNotFound, "store.lookupGrant", "")
		err := errors.Wrap(ctx, inner, "perms.(Resolver).Resolve")
		require.Error(err)
		assert.True(errors.IsNotFoundError(err))
		assert.True(stderrors.Is(err, inner))
	})
	t.Run("override-code", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		inner := stderrors.New("i/o timeout")
		err := errors.Wrap(ctx, inner, "store.ping", errors.WithCode(errors.Unavailable))
		require.Error(err)
		assert.True(errors.IsUnavailableError(err))
	})
	t.Run("nil-error", func(t *testing.T) {
		assert.NoError(t, errors.Wrap(ctx, nil, "store.ping"))
	})
}

func TestConvert(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		wantCode errors.Code
	}{
		{"unique", stderrors.New("UNIQUE constraint failed: user_permission.user_id"), errors.NotUnique},
		{"not-found", stderrors.New("record not found"), errors.RecordNotFound},
		{"check", stderrors.New("CHECK constraint failed: priority"), errors.CheckConstraint},
		{"not-null", stderrors.New("NOT NULL constraint failed: users.username"), errors.NotNull},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.Convert(tt.err)
			var e *errors.Err
			require.True(t, stderrors.As(err, &e))
			assert.Equal(t, tt.wantCode, e.Code)
		})
	}
	t.Run("unconvertible-passes-through", func(t *testing.T) {
		in := stderrors.New("something else")
		assert.Equal(t, in, errors.Convert(in))
	})
	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, errors.Convert(nil))
	})
}

func TestMatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	err := errors.New(ctx, errors.InvalidPriority, "store.CreatePatternRule", "priority -1")

	assert.True(t, errors.Match(errors.T(errors.InvalidPriority), err))
	assert.True(t, errors.Match(errors.T(errors.Op("store.CreatePatternRule")), err))
	assert.True(t, errors.Match(errors.T(errors.Parameter), err))
	assert.False(t, errors.Match(errors.T(errors.InvalidPattern), err))
	assert.False(t, errors.Match(errors.T(errors.InvalidPriority), nil))
	assert.False(t, errors.Match(nil, err))
}
