// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package event

import (
	"fmt"

	"github.com/hashicorp/go-secure-stdlib/base62"
)

// IdPrefix is the prefix for audit event ids.
const IdPrefix = "e"

// NewId generates a random base62 id with the given prefix.
func NewId(prefix string) (string, error) {
	const op = "event.NewId"
	if prefix == "" {
		return "", fmt.Errorf("%s: missing prefix", op)
	}
	id, err := base62.Random(10)
	if err != nil {
		return "", fmt.Errorf("%s: unable to generate id: %w", op, err)
	}
	return fmt.Sprintf("%s_%s", prefix, id), nil
}
