// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package store

import "time"

// User is a principal known to the permission system.  Users are provisioned
// at first login by the authenticating proxy; IsAdmin bypasses resolution
// entirely at the API layer.
type User struct {
	PublicId    string `gorm:"primaryKey"`
	Username    string
	DisplayName string
	IsAdmin     bool
	CreateTime  time.Time `gorm:"->"`
	UpdateTime  time.Time `gorm:"->"`
}

// TableName returns the table name.
func (*User) TableName() string { return "perm_user" }

// GetPublicId returns the user's public id.
func (u *User) GetPublicId() string { return u.PublicId }

// Group is a named collection of users, typically mirrored from the identity
// provider's claims.
type Group struct {
	PublicId   string `gorm:"primaryKey"`
	Name       string
	CreateTime time.Time `gorm:"->"`
}

func (*Group) TableName() string { return "perm_group" }

func (g *Group) GetPublicId() string { return g.PublicId }

// GroupMember associates a user with a group.
type GroupMember struct {
	GroupId    string `gorm:"primaryKey"`
	UserId     string `gorm:"primaryKey"`
	CreateTime time.Time `gorm:"->"`
}

func (*GroupMember) TableName() string { return "perm_group_member" }

// UserGrant is an exact-match permission a user holds on one resource.
// Permission is the stored string form of a perms.Level.
type UserGrant struct {
	UserId       string `gorm:"primaryKey"`
	ResourceType string `gorm:"primaryKey"`
	ResourceId   string `gorm:"primaryKey"`
	Permission   string
	CreateTime   time.Time `gorm:"->"`
	UpdateTime   time.Time `gorm:"->"`
}

func (*UserGrant) TableName() string { return "perm_user_grant" }

// GroupGrant is an exact-match permission a group holds on one resource.
type GroupGrant struct {
	GroupId      string `gorm:"primaryKey"`
	ResourceType string `gorm:"primaryKey"`
	ResourceId   string `gorm:"primaryKey"`
	Permission   string
	CreateTime   time.Time `gorm:"->"`
	UpdateTime   time.Time `gorm:"->"`
}

func (*GroupGrant) TableName() string { return "perm_group_grant" }

// UserPatternRule is a stored regex grant owned by a user, scoped to one
// resource type.
type UserPatternRule struct {
	PublicId     string `gorm:"primaryKey"`
	UserId       string
	ResourceType string
	Pattern      string
	Priority     int
	Permission   string
	CreateTime   time.Time `gorm:"->"`
}

func (*UserPatternRule) TableName() string { return "perm_user_pattern_rule" }

func (r *UserPatternRule) GetPublicId() string { return r.PublicId }

// GroupPatternRule is a stored regex grant owned by a group, scoped to one
// resource type.
type GroupPatternRule struct {
	PublicId     string `gorm:"primaryKey"`
	GroupId      string
	ResourceType string
	Pattern      string
	Priority     int
	Permission   string
	CreateTime   time.Time `gorm:"->"`
}

func (*GroupPatternRule) TableName() string { return "perm_group_pattern_rule" }

func (r *GroupPatternRule) GetPublicId() string { return r.PublicId }
