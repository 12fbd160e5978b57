// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package perms

import (
	"context"
	"fmt"

	"github.com/hashicorp/mlperms/internal/errors"
	"github.com/hashicorp/mlperms/internal/types/resource"
	"github.com/hashicorp/mlperms/internal/types/source"
)

// SnapshotLoader is the bulk read contract used to pre-fetch a principal's
// grants for one resource type in a fixed number of store queries, so that a
// listing endpoint can resolve permissions for many resources without
// per-resource round-trips.
type SnapshotLoader interface {
	// UserPermissionsByType returns all of the user's exact-match grants for
	// the resource type, keyed by resource id.
	UserPermissionsByType(ctx context.Context, userId string, rt resource.Type) (map[string]Level, error)

	// GroupPermissionsByType returns the exact-match grants held by any of
	// the groups for the resource type, keyed by resource id.
	GroupPermissionsByType(ctx context.Context, groupIds []string, rt resource.Type) (map[string][]GroupGrant, error)

	// UserPatternRules and GroupPatternRules carry the same contract as the
	// Grants interface.
	UserPatternRules(ctx context.Context, userId string, rt resource.Type) ([]PatternRule, error)
	GroupPatternRules(ctx context.Context, groupIds []string, rt resource.Type) ([]PatternRule, error)
}

// Snapshot is a pre-fetched view of one principal's grants for one resource
// type.  Resolve answers from the snapshot without store round-trips and
// must produce output identical to Resolver.Resolve against the same store
// state.
type Snapshot struct {
	principal  Principal
	rt         resource.Type
	conf       *Config
	matcher    *Matcher
	userExact  map[string]Level
	groupExact map[string][]GroupGrant
	userRules  []PatternRule
	groupRules []PatternRule
}

// Snapshot pre-fetches the principal's grants for the resource type.  The
// loader is typically the same store backing the resolver.
func (r *Resolver) Snapshot(ctx context.Context, loader SnapshotLoader, p Principal, rt resource.Type) (*Snapshot, error) {
	const op = "perms.(Resolver).Snapshot"
	if loader == nil {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing snapshot loader")
	}
	if p.UserId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing principal user id")
	}
	if _, ok := resource.Map[rt.String()]; !ok {
		return nil, errors.New(ctx, errors.UnknownResourceType, op, fmt.Sprintf("%q is not a known resource type", rt.String()))
	}

	userExact, err := loader.UserPermissionsByType(ctx, p.UserId, rt)
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	userRules, err := loader.UserPatternRules(ctx, p.UserId, rt)
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	groupExact := map[string][]GroupGrant{}
	var groupRules []PatternRule
	if len(p.GroupIds) > 0 {
		groupExact, err = loader.GroupPermissionsByType(ctx, p.GroupIds, rt)
		if err != nil {
			return nil, errors.Wrap(ctx, err, op)
		}
		groupRules, err = loader.GroupPatternRules(ctx, p.GroupIds, rt)
		if err != nil {
			return nil, errors.Wrap(ctx, err, op)
		}
	}

	return &Snapshot{
		principal:  p,
		rt:         rt,
		conf:       r.conf,
		matcher:    r.matcher,
		userExact:  userExact,
		groupExact: groupExact,
		userRules:  userRules,
		groupRules: groupRules,
	}, nil
}

// Resolve answers from the snapshot, walking the same configured source
// order with the same short-circuit semantics as Resolver.Resolve.
func (s *Snapshot) Resolve(ctx context.Context, res Resource) (*Result, error) {
	const op = "perms.(Snapshot).Resolve"
	if res.Type != s.rt {
		return nil, errors.New(ctx, errors.InvalidParameter, op,
			fmt.Sprintf("snapshot holds %q grants, resource is %q", s.rt.String(), res.Type.String()))
	}
	if res.Id == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing resource id")
	}

	for _, kind := range s.conf.sourceOrder {
		switch kind {
		case source.User:
			if level, ok := s.userExact[res.Id]; ok {
				return &Result{Level: level, Source: source.User}, nil
			}
		case source.Group:
			if grantList, ok := s.groupExact[res.Id]; ok && len(grantList) > 0 {
				candidates := make([]Level, 0, len(grantList))
				for _, g := range grantList {
					candidates = append(candidates, g.Level)
				}
				return &Result{Level: ReduceGroupLevels(candidates), Source: source.Group}, nil
			}
		case source.Regex:
			if m, ok := s.matcher.First(res.name(), s.userRules); ok {
				return &Result{Level: m.Level, Source: source.Regex, RuleId: m.RuleId}, nil
			}
		case source.GroupRegex:
			if m, ok := s.matcher.First(res.name(), s.groupRules); ok {
				return &Result{Level: m.Level, Source: source.GroupRegex, RuleId: m.RuleId}, nil
			}
		}
	}
	return &Result{Level: s.conf.defaultLevel, Source: source.Default}, nil
}
