// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package source

// Kind defines the configured permission sources the resolver consults, in
// the order given by the resolution config.  Default is provenance-only: it
// is never part of a source order, it marks decisions produced by the
// configured default level after every source has been exhausted.
type Kind int

const (
	Unknown    Kind = 0
	User       Kind = 1
	Group      Kind = 2
	Regex      Kind = 3
	GroupRegex Kind = 4
	Default    Kind = 5
)

func (k Kind) String() string {
	return [...]string{
		"unknown",
		"user",
		"group",
		"regex",
		"group-regex",
		"default",
	}[k]
}

// Map holds the configurable source kinds; Default is intentionally absent.
var Map = map[string]Kind{
	User.String():       User,
	Group.String():      Group,
	Regex.String():      Regex,
	GroupRegex.String(): GroupRegex,
}
