// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package resource

// Type defines the types of protected resources in the system.  Each is
// addressed by a resource identifier: experiments by their numeric id,
// models/prompts/gateway resources by name or key, and scorers by the
// composite "experiment_id/scorer_name".
type Type int

const (
	Unknown         Type = 0
	Experiment      Type = 1
	RegisteredModel Type = 2
	Prompt          Type = 3
	Scorer          Type = 4
	GatewayEndpoint Type = 5
	GatewaySecret   Type = 6
	GatewayModel    Type = 7
)

func (r Type) String() string {
	return [...]string{
		"unknown",
		"experiment",
		"registered-model",
		"prompt",
		"scorer",
		"gateway-endpoint",
		"gateway-secret",
		"gateway-model",
	}[r]
}

// Gateway reports whether the type is an AI-gateway resource, which are the
// only resources the USE permission level may be granted on.
func (r Type) Gateway() bool {
	switch r {
	case GatewayEndpoint, GatewaySecret, GatewayModel:
		return true
	}
	return false
}

var Map = map[string]Type{
	Experiment.String():      Experiment,
	RegisteredModel.String(): RegisteredModel,
	Prompt.String():          Prompt,
	Scorer.String():          Scorer,
	GatewayEndpoint.String(): GatewayEndpoint,
	GatewaySecret.String():   GatewaySecret,
	GatewayModel.String():    GatewayModel,
}
