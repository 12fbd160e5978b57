// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

// Package perms provides the permission-resolution engine: given a principal
// (a user plus the group memberships resolved at authentication time) and a
// protected resource, it determines the effective permission level the
// principal holds on that resource.
//
// Resolution walks the configured source order (user, group, regex,
// group-regex) and short-circuits at the first source that yields any
// decision, including NO_PERMISSIONS.  Later sources are never consulted;
// source order is a precedence list, not a union.  When every source is
// exhausted the configured default level is returned with provenance
// "default".
//
// The engine holds no mutable shared state beyond its immutable Config and
// is safe for concurrent use, provided the backing Grants implementation is
// safe for concurrent reads.
package perms
