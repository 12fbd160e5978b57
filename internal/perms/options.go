// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package perms

import "github.com/hashicorp/go-hclog"

// getOpts - iterate the inbound Options and return a struct
func getOpts(opt ...Option) options {
	opts := getDefaultOptions()
	for _, o := range opt {
		if o != nil {
			o(&opts)
		}
	}
	return opts
}

// Option - how Options are passed as arguments
type Option func(*options)

type options struct {
	withLogger  hclog.Logger
	withAuditor Auditor
}

func getDefaultOptions() options {
	return options{}
}

// WithLogger provides a logger for resolution debug and error output.
func WithLogger(l hclog.Logger) Option {
	return func(o *options) {
		o.withLogger = l
	}
}

// WithAuditor provides an Auditor which receives one Decision per
// resolution.
func WithAuditor(a Auditor) Option {
	return func(o *options) {
		o.withAuditor = a
	}
}
