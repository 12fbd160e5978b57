// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package perms

// ReduceGroupLevels reconciles the candidate levels produced for the same
// principal at the group source, which arises when a principal belongs to
// multiple groups holding differing grants on the same resource.  Group
// membership is additive-permissive: the highest-ranked (most permissive)
// candidate wins.  NoPermissions does not automatically win a mixed set; it
// is returned only when it is the sole kind of candidate present.
func ReduceGroupLevels(candidates []Level) Level {
	var best Level
	var bestRank int
	var sawSentinel bool
	for _, c := range candidates {
		if c.Sentinel() {
			sawSentinel = true
			continue
		}
		if r, ok := levelRank[c]; ok && r > bestRank {
			best, bestRank = c, r
		}
	}
	switch {
	case bestRank > 0:
		return best
	case sawSentinel:
		return NoPermissions
	default:
		return UnknownLevel
	}
}
