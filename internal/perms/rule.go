// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package perms

import (
	"context"
	"fmt"
	"regexp"

	"github.com/hashicorp/mlperms/internal/errors"
)

// PatternRule is a regex grant: any resource name matched by Pattern is
// granted Level.  Rules are evaluated in ascending Priority order; equal
// priorities keep their stored insertion order, so evaluation is
// deterministic for a fixed rule set.
type PatternRule struct {
	// PublicId of the rule, retained in resolution results for audit.
	PublicId string

	// OwnerId is the public id of the user or group the rule belongs to.
	OwnerId string

	// Pattern is a regular expression over resource names.  It is validated
	// at write time and matched anchored at the start of the name.
	Pattern string

	// Priority orders evaluation; lower values are evaluated first.  It is
	// not required to be unique.
	Priority int

	// Level granted when the pattern matches.
	Level Level
}

// compilePattern compiles a stored pattern anchored at the start of the
// subject, matching the original engine's match semantics.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile(`\A(?:` + pattern + `)`)
}

// ValidatePatternRule enforces the write-boundary invariants for pattern
// rules: the regex must compile and the priority must be non-negative.
// Rules failing validation must never reach the store.
func ValidatePatternRule(ctx context.Context, pattern string, priority int) error {
	const op = "perms.ValidatePatternRule"
	if _, err := compilePattern(pattern); err != nil {
		return errors.New(ctx, errors.InvalidPattern, op, fmt.Sprintf("regex %q failed to compile", pattern), errors.WithWrap(err))
	}
	if priority < 0 {
		return errors.New(ctx, errors.InvalidPriority, op, fmt.Sprintf("priority %d is negative", priority))
	}
	return nil
}
