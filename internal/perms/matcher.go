// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package perms

import (
	"sort"

	"github.com/hashicorp/go-hclog"
)

// Matcher evaluates pattern rules against resource names: first match wins
// after a stable sort by priority.  Stored patterns are validated at write
// time, so a compile failure here means data corruption; such rules are
// logged and skipped rather than failing the match.
type Matcher struct {
	logger hclog.Logger
}

// NewMatcher creates a Matcher.  A nil logger is replaced with a null logger.
func NewMatcher(logger hclog.Logger) *Matcher {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Matcher{logger: logger}
}

// RuleMatch is the outcome of a successful pattern match.
type RuleMatch struct {
	Level  Level
	RuleId string
}

// First returns the level of the first rule whose pattern matches name,
// evaluating rules by ascending priority with stored order breaking ties.
// The second return is false when no rule matches.
func (m *Matcher) First(name string, rules []PatternRule) (RuleMatch, bool) {
	if len(rules) == 0 {
		return RuleMatch{}, false
	}
	ordered := make([]PatternRule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})
	for _, r := range ordered {
		re, err := compilePattern(r.Pattern)
		if err != nil {
			m.logger.Error("skipping pattern rule with uncompilable regex",
				"rule_id", r.PublicId, "pattern", r.Pattern, "error", err)
			continue
		}
		if re.MatchString(name) {
			m.logger.Debug("pattern rule matched",
				"rule_id", r.PublicId, "pattern", r.Pattern, "priority", r.Priority, "level", r.Level.String())
			return RuleMatch{Level: r.Level, RuleId: r.PublicId}, true
		}
	}
	return RuleMatch{}, false
}
