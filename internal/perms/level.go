// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package perms

import (
	"context"
	"fmt"

	"github.com/hashicorp/mlperms/internal/errors"
	"github.com/hashicorp/mlperms/internal/types/resource"
)

// Level is a permission level held on a resource.  The non-sentinel levels
// form a total order (READ < USE < EDIT < MANAGE) used only when reconciling
// multiple group grants for the same principal.  NoPermissions is an
// absorbing deny sentinel: it is never ranked as weaker or stronger, it is
// simply terminal wherever it is produced.
type Level int

const (
	UnknownLevel  Level = 0
	Read          Level = 1
	Use           Level = 2
	Edit          Level = 3
	Manage        Level = 4
	NoPermissions Level = 5
)

func (l Level) String() string {
	return [...]string{
		"UNKNOWN",
		"READ",
		"USE",
		"EDIT",
		"MANAGE",
		"NO_PERMISSIONS",
	}[l]
}

// LevelMap maps the stored string representation to a Level.
var LevelMap = map[string]Level{
	Read.String():          Read,
	Use.String():           Use,
	Edit.String():          Edit,
	Manage.String():        Manage,
	NoPermissions.String(): NoPermissions,
}

// Capabilities is the record of operations a Level permits.  CanUse is only
// meaningful for gateway resources, where it permits invocation without
// granting any write capability.
type Capabilities struct {
	CanRead   bool `json:"can_read"`
	CanUpdate bool `json:"can_update"`
	CanDelete bool `json:"can_delete"`
	CanManage bool `json:"can_manage"`
	CanUse    bool `json:"can_use"`
}

var levelCapabilities = map[Level]Capabilities{
	Read:          {CanRead: true},
	Use:           {CanRead: true, CanUse: true},
	Edit:          {CanRead: true, CanUpdate: true, CanUse: true},
	Manage:        {CanRead: true, CanUpdate: true, CanDelete: true, CanManage: true, CanUse: true},
	NoPermissions: {},
}

// Capabilities returns the capability record for the level.  Unknown levels
// have no capabilities.
func (l Level) Capabilities() Capabilities {
	return levelCapabilities[l]
}

// rank gives the position of a non-sentinel level within the hierarchy.
// NoPermissions deliberately has no rank; see ReduceGroupLevels.
var levelRank = map[Level]int{
	Read:   1,
	Use:    2,
	Edit:   3,
	Manage: 4,
}

// Sentinel reports whether the level is the absorbing NoPermissions deny.
func (l Level) Sentinel() bool {
	return l == NoPermissions
}

// Valid reports whether the level is a known, grantable level.
func (l Level) Valid() bool {
	_, ok := LevelMap[l.String()]
	return l != UnknownLevel && ok
}

// ValidFor reports whether the level may be granted on the given resource
// type.  USE is restricted to gateway resources.
func (l Level) ValidFor(rt resource.Type) bool {
	if !l.Valid() {
		return false
	}
	if l == Use {
		return rt.Gateway()
	}
	return true
}

// ParseLevel parses the stored string representation of a permission level.
func ParseLevel(ctx context.Context, s string) (Level, error) {
	const op = "perms.ParseLevel"
	l, ok := LevelMap[s]
	if !ok {
		return UnknownLevel, errors.New(ctx, errors.InvalidParameter, op, fmt.Sprintf("%q is not a valid permission level", s))
	}
	return l, nil
}
