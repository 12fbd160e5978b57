// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package perms

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/hashicorp/mlperms/internal/types/resource"
)

// RequestCache memoizes resolver output for the lifetime of a single inbound
// request, where several middleware layers commonly re-check the same
// resource.  It must never be shared across requests: group membership or
// grants could change between them.  It is purely a latency optimization;
// resolution output is identical with the cache absent.
type RequestCache struct {
	resolver *Resolver

	mu sync.Mutex
	m  map[cacheKey]*Result
}

type cacheKey struct {
	userId     string
	groupsHash string
	rt         resource.Type
	resourceId string
}

// NewRequestCache creates a cache scoped to one inbound request.
func NewRequestCache(r *Resolver) *RequestCache {
	return &RequestCache{
		resolver: r,
		m:        make(map[cacheKey]*Result),
	}
}

// Resolve returns the memoized decision for (principal, resource) or
// delegates to the underlying resolver.  Errors are never cached.
func (c *RequestCache) Resolve(ctx context.Context, p Principal, res Resource) (*Result, error) {
	key := cacheKey{
		userId:     p.UserId,
		groupsHash: hashGroupIds(p.GroupIds),
		rt:         res.Type,
		resourceId: res.Id,
	}
	c.mu.Lock()
	if result, ok := c.m[key]; ok {
		c.mu.Unlock()
		return result, nil
	}
	c.mu.Unlock()

	result, err := c.resolver.Resolve(ctx, p, res)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.m[key] = result
	c.mu.Unlock()
	return result, nil
}

func hashGroupIds(groupIds []string) string {
	if len(groupIds) == 0 {
		return ""
	}
	sorted := make([]string, len(groupIds))
	copy(sorted, groupIds)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}
