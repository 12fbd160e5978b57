// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package perms

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/mlperms/internal/errors"
	"github.com/hashicorp/mlperms/internal/types/source"
)

// Config is the process-wide resolution configuration: the order sources are
// consulted in and the level returned when no source yields a decision.  It
// is loaded once at startup, validated by NewConfig, and never mutated, so
// it is safe to share across concurrent resolutions without locking.
type Config struct {
	sourceOrder  []source.Kind
	defaultLevel Level
}

// defaultableLevels are the levels permitted as a configured default.  USE
// is excluded: it is a gateway-only grant, not a blanket fallback.
var defaultableLevels = map[Level]struct{}{
	Read:          {},
	Edit:          {},
	Manage:        {},
	NoPermissions: {},
}

// NewConfig validates and builds a resolution config.  The order must be a
// permutation of the four source kinds and the default level must be one of
// READ, EDIT, MANAGE or NO_PERMISSIONS.  Violations are aggregated and
// returned as a configuration error; the caller must refuse to start rather
// than run with ambiguous policy.
func NewConfig(ctx context.Context, order []source.Kind, defaultLevel Level) (*Config, error) {
	const op = "perms.NewConfig"
	var merr *multierror.Error

	seen := make(map[source.Kind]struct{}, len(order))
	for _, k := range order {
		if _, ok := source.Map[k.String()]; !ok {
			merr = multierror.Append(merr, fmt.Errorf("%q is not a configurable source kind", k.String()))
			continue
		}
		if _, dup := seen[k]; dup {
			merr = multierror.Append(merr, fmt.Errorf("duplicate source kind %q", k.String()))
		}
		seen[k] = struct{}{}
	}
	for _, required := range []source.Kind{source.User, source.Group, source.Regex, source.GroupRegex} {
		if _, ok := seen[required]; !ok {
			merr = multierror.Append(merr, fmt.Errorf("source order is missing kind %q", required.String()))
		}
	}
	if _, ok := defaultableLevels[defaultLevel]; !ok {
		merr = multierror.Append(merr, fmt.Errorf("%q is not a valid default permission level", defaultLevel.String()))
	}
	if err := merr.ErrorOrNil(); err != nil {
		return nil, errors.New(ctx, errors.InvalidConfiguration, op, "invalid resolution config", errors.WithWrap(err))
	}

	c := &Config{
		sourceOrder:  make([]source.Kind, len(order)),
		defaultLevel: defaultLevel,
	}
	copy(c.sourceOrder, order)
	return c, nil
}

// DefaultSourceOrder returns the out-of-the-box consultation order: user,
// group, regex, group-regex.
func DefaultSourceOrder() []source.Kind {
	return []source.Kind{source.User, source.Group, source.Regex, source.GroupRegex}
}

// ParseSourceOrder parses the comma-separated source order, e.g.
// "user,group,regex,group-regex".  Tokens are trimmed; the permutation
// itself is validated by NewConfig.
func ParseSourceOrder(ctx context.Context, s string) ([]source.Kind, error) {
	const op = "perms.ParseSourceOrder"
	parts := strings.Split(s, ",")
	order := make([]source.Kind, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		k, ok := source.Map[p]
		if !ok {
			return nil, errors.New(ctx, errors.InvalidConfiguration, op, fmt.Sprintf("%q is not a valid permission source", p))
		}
		order = append(order, k)
	}
	return order, nil
}

// SourceOrder returns a copy of the configured source order.
func (c *Config) SourceOrder() []source.Kind {
	order := make([]source.Kind, len(c.sourceOrder))
	copy(order, c.sourceOrder)
	return order
}

// DefaultLevel returns the level used when no source yields a decision.
func (c *Config) DefaultLevel() Level {
	return c.defaultLevel
}
