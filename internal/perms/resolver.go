// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package perms

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/mlperms/internal/errors"
	"github.com/hashicorp/mlperms/internal/types/resource"
	"github.com/hashicorp/mlperms/internal/types/source"
)

// Principal is an authenticated identity: a user id plus the group ids
// resolved once at authentication time.  It is treated as immutable for the
// lifetime of a request and is never re-resolved mid-resolution.
type Principal struct {
	UserId   string
	GroupIds []string
}

// Resource addresses a protected resource.  Name is the subject of regex
// matching; when empty the Id doubles as the name (models, prompts and
// gateway resources are addressed by name, experiments carry a separate
// display name).
type Resource struct {
	Type resource.Type
	Id   string
	Name string
}

func (r Resource) name() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Id
}

// GroupGrant is one group's exact-match grant on a resource.
type GroupGrant struct {
	GroupId string
	Level   Level
}

// Grants is the minimal read contract the resolver needs from the permission
// store.  Absence of a record is reported as a RecordNotFound error (exact
// user grants) or an empty slice (group grants and rules), never as a nil
// level; store connectivity failures surface as distinct errors and are
// never treated as "no decision".
type Grants interface {
	// UserPermission returns the exact-match grant the user holds on the
	// resource, or a RecordNotFound error.
	UserPermission(ctx context.Context, userId string, rt resource.Type, resourceId string) (Level, error)

	// GroupPermissions returns the exact-match grants held by any of the
	// given groups on the resource; the slice is empty when none exist.
	GroupPermissions(ctx context.Context, groupIds []string, rt resource.Type, resourceId string) ([]GroupGrant, error)

	// UserPatternRules returns the user's pattern rules for the resource
	// type, ordered by ascending priority then insertion order.
	UserPatternRules(ctx context.Context, userId string, rt resource.Type) ([]PatternRule, error)

	// GroupPatternRules returns the pattern rules pooled across all the
	// given groups for the resource type, ordered by ascending priority
	// then insertion order.
	GroupPatternRules(ctx context.Context, groupIds []string, rt resource.Type) ([]PatternRule, error)
}

// Result is one authoritative resolution decision plus its provenance.
type Result struct {
	// Level is the effective permission level.
	Level Level

	// Source is the configured source kind that produced the decision, or
	// source.Default when every source was exhausted.
	Source source.Kind

	// RuleId is set for regex-sourced decisions, for audit.
	RuleId string
}

// Decision is the audit record of one resolution.
type Decision struct {
	PrincipalId  string
	GroupIds     []string
	ResourceType resource.Type
	ResourceId   string
	Level        Level
	Source       source.Kind
	RuleId       string
}

// Auditor receives one Decision per resolution.  Implementations must not
// block resolution; delivery failures are logged by the resolver and never
// fail the decision.
type Auditor interface {
	Decision(ctx context.Context, d Decision) error
}

// Resolver is the public entry point of the permission engine.  It is
// stateless per call and safe for concurrent use.
type Resolver struct {
	grants  Grants
	conf    *Config
	matcher *Matcher
	logger  hclog.Logger
	auditor Auditor
}

// NewResolver creates a Resolver over the given grants store and immutable
// resolution config.  Supported options: WithLogger, WithAuditor.
func NewResolver(ctx context.Context, grants Grants, conf *Config, opt ...Option) (*Resolver, error) {
	const op = "perms.NewResolver"
	if grants == nil {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing grants store")
	}
	if conf == nil {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing resolution config")
	}
	opts := getOpts(opt...)
	logger := opts.withLogger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Resolver{
		grants:  grants,
		conf:    conf,
		matcher: NewMatcher(logger),
		logger:  logger,
		auditor: opts.withAuditor,
	}, nil
}

// Resolve determines the effective permission level the principal holds on
// the resource.  It consults the configured sources in order and
// short-circuits at the first one yielding any decision; when none does, the
// configured default is returned with provenance source.Default.  "No grant
// found" at a source is the expected negative result and drives fallthrough;
// any other store failure aborts resolution and must be treated by callers
// as a deny.
func (r *Resolver) Resolve(ctx context.Context, p Principal, res Resource) (*Result, error) {
	const op = "perms.(Resolver).Resolve"
	if p.UserId == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing principal user id")
	}
	if _, ok := resource.Map[res.Type.String()]; !ok {
		return nil, errors.New(ctx, errors.UnknownResourceType, op, fmt.Sprintf("%q is not a known resource type", res.Type.String()))
	}
	if res.Id == "" {
		return nil, errors.New(ctx, errors.InvalidParameter, op, "missing resource id")
	}

	for _, kind := range r.conf.sourceOrder {
		result, err := r.consult(ctx, kind, p, res)
		if err != nil {
			return nil, errors.Wrap(ctx, err, op)
		}
		if result != nil {
			r.logger.Debug("permission resolved", "source", kind.String(),
				"user_id", p.UserId, "resource_type", res.Type.String(), "resource_id", res.Id,
				"level", result.Level.String())
			r.audit(ctx, p, res, result)
			return result, nil
		}
		r.logger.Debug("no permission found at source", "source", kind.String(),
			"user_id", p.UserId, "resource_type", res.Type.String(), "resource_id", res.Id)
	}

	result := &Result{Level: r.conf.defaultLevel, Source: source.Default}
	r.logger.Debug("default permission used",
		"user_id", p.UserId, "resource_type", res.Type.String(), "resource_id", res.Id,
		"level", result.Level.String())
	r.audit(ctx, p, res, result)
	return result, nil
}

// consult evaluates a single source kind.  A nil result with nil error means
// the source yielded no decision and the caller proceeds to the next one.
func (r *Resolver) consult(ctx context.Context, kind source.Kind, p Principal, res Resource) (*Result, error) {
	const op = "perms.(Resolver).consult"
	switch kind {
	case source.User:
		level, err := r.grants.UserPermission(ctx, p.UserId, res.Type, res.Id)
		if err != nil {
			if errors.IsNotFoundError(err) {
				return nil, nil
			}
			return nil, errors.Wrap(ctx, err, op)
		}
		return &Result{Level: level, Source: source.User}, nil

	case source.Group:
		if len(p.GroupIds) == 0 {
			return nil, nil
		}
		grantList, err := r.grants.GroupPermissions(ctx, p.GroupIds, res.Type, res.Id)
		if err != nil {
			return nil, errors.Wrap(ctx, err, op)
		}
		if len(grantList) == 0 {
			return nil, nil
		}
		candidates := make([]Level, 0, len(grantList))
		for _, g := range grantList {
			candidates = append(candidates, g.Level)
		}
		return &Result{Level: ReduceGroupLevels(candidates), Source: source.Group}, nil

	case source.Regex:
		rules, err := r.grants.UserPatternRules(ctx, p.UserId, res.Type)
		if err != nil {
			return nil, errors.Wrap(ctx, err, op)
		}
		if m, ok := r.matcher.First(res.name(), rules); ok {
			return &Result{Level: m.Level, Source: source.Regex, RuleId: m.RuleId}, nil
		}
		return nil, nil

	case source.GroupRegex:
		if len(p.GroupIds) == 0 {
			return nil, nil
		}
		rules, err := r.grants.GroupPatternRules(ctx, p.GroupIds, res.Type)
		if err != nil {
			return nil, errors.Wrap(ctx, err, op)
		}
		if m, ok := r.matcher.First(res.name(), rules); ok {
			return &Result{Level: m.Level, Source: source.GroupRegex, RuleId: m.RuleId}, nil
		}
		return nil, nil

	default:
		return nil, errors.New(ctx, errors.InvalidParameter, op, fmt.Sprintf("%q is not a consultable source kind", kind.String()))
	}
}

func (r *Resolver) audit(ctx context.Context, p Principal, res Resource, result *Result) {
	if r.auditor == nil {
		return
	}
	d := Decision{
		PrincipalId:  p.UserId,
		GroupIds:     p.GroupIds,
		ResourceType: res.Type,
		ResourceId:   res.Id,
		Level:        result.Level,
		Source:       result.Source,
		RuleId:       result.RuleId,
	}
	if err := r.auditor.Decision(ctx, d); err != nil {
		r.logger.Error("failed to write resolution audit event", "error", err)
	}
}
