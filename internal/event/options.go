// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package event

import "io"

type options struct {
	withAuditWriter   io.Writer
	withAuditFilePath string
}

// Option is a function that takes in an options struct and sets values.
type Option func(*options)

func getOpts(opt ...Option) options {
	opts := options{}
	for _, o := range opt {
		o(&opts)
	}
	return opts
}

// WithAuditWriter routes audit events to the given writer.  It takes
// precedence over WithAuditFilePath and is primarily for tests.
func WithAuditWriter(w io.Writer) Option {
	return func(o *options) {
		o.withAuditWriter = w
	}
}

// WithAuditFilePath routes audit events to a file.
func WithAuditFilePath(path string) Option {
	return func(o *options) {
		o.withAuditFilePath = path
	}
}
