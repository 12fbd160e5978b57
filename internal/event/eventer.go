// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

// Package event emits resolution audit events through eventlogger pipelines.
// Every resolution decision is written to the configured sinks with its full
// provenance, so access decisions can be traced after the fact.
package event

import (
	"context"
	"os"
	"path/filepath"

	"github.com/hashicorp/eventlogger"
	"github.com/hashicorp/eventlogger/sinks/writer"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/mlperms/internal/errors"
)

const resolutionEventType = eventlogger.EventType("resolution")

// Eventer routes audit events to the broker's registered sinks.  It is safe
// for concurrent use.
type Eventer struct {
	broker *eventlogger.Broker
	logger hclog.Logger
}

// NewEventer creates an eventer with a json formatter feeding the configured
// sinks.  Supported options: WithAuditWriter, WithAuditFilePath.  When no
// sink is configured, audit events go to stderr.
func NewEventer(ctx context.Context, logger hclog.Logger, opt ...Option) (*Eventer, error) {
	const op = "event.NewEventer"
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	opts := getOpts(opt...)

	broker, err := eventlogger.NewBroker()
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	if err := broker.RegisterNode("json-format", &eventlogger.JSONFormatter{}); err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}

	var sink eventlogger.Node
	switch {
	case opts.withAuditWriter != nil:
		sink = &writer.Sink{Writer: opts.withAuditWriter, Format: eventlogger.JSONFormat}
	case opts.withAuditFilePath != "":
		dir, file := filepath.Split(opts.withAuditFilePath)
		if dir == "" {
			dir = "."
		}
		sink = &eventlogger.FileSink{Path: dir, FileName: file, Format: eventlogger.JSONFormat}
	default:
		sink = &writer.Sink{Writer: os.Stderr, Format: eventlogger.JSONFormat}
	}
	if err := broker.RegisterNode("audit-sink", sink); err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	err = broker.RegisterPipeline(eventlogger.Pipeline{
		PipelineID: "resolution-audit",
		EventType:  resolutionEventType,
		NodeIDs:    []eventlogger.NodeID{"json-format", "audit-sink"},
	})
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	return &Eventer{broker: broker, logger: logger}, nil
}
