// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package event

import (
	"context"

	"github.com/hashicorp/mlperms/internal/errors"
	"github.com/hashicorp/mlperms/internal/perms"
)

// resolution is the audit payload for one permission decision.
type resolution struct {
	Id           string   `json:"id"`
	PrincipalId  string   `json:"principal_id"`
	GroupIds     []string `json:"group_ids,omitempty"`
	ResourceType string   `json:"resource_type"`
	ResourceId   string   `json:"resource_id"`
	Level        string   `json:"level"`
	Source       string   `json:"source"`
	RuleId       string   `json:"rule_id,omitempty"`
}

// Decision implements perms.Auditor: it emits one audit event per resolution
// with the decision's full provenance.
func (e *Eventer) Decision(ctx context.Context, d perms.Decision) error {
	const op = "event.(Eventer).Decision"
	id, err := NewId(IdPrefix)
	if err != nil {
		return errors.Wrap(ctx, err, op)
	}
	payload := &resolution{
		Id:           id,
		PrincipalId:  d.PrincipalId,
		GroupIds:     d.GroupIds,
		ResourceType: d.ResourceType.String(),
		ResourceId:   d.ResourceId,
		Level:        d.Level.String(),
		Source:       d.Source.String(),
		RuleId:       d.RuleId,
	}
	if _, err := e.broker.Send(ctx, resolutionEventType, payload); err != nil {
		return errors.Wrap(ctx, err, op)
	}
	return nil
}
