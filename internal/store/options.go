// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package store

import (
	"github.com/hashicorp/go-hclog"
)

type options struct {
	withUrl    string
	withDebug  bool
	withLogger hclog.Logger
	withLimit  int
}

// Option is a function that takes in an options struct and sets values or
// returns an error
type Option func(*options) error

func getOpts(opt ...Option) (options, error) {
	opts := options{}
	for _, o := range opt {
		if err := o(&opts); err != nil {
			return options{}, err
		}
	}
	return opts, nil
}

// WithUrl provides an optional database connection url; when omitted an
// in-memory sqlite database is used.
func WithUrl(url string) Option {
	return func(o *options) error {
		o.withUrl = url
		return nil
	}
}

// WithDebug enables sql debug logging on the underlying connection.
func WithDebug(debug bool) Option {
	return func(o *options) error {
		o.withDebug = debug
		return nil
	}
}

// WithLogger provides an optional logger for the underlying connection.
func WithLogger(l hclog.Logger) Option {
	return func(o *options) error {
		o.withLogger = l
		return nil
	}
}

// WithLimit provides an optional limit on list results.  A value of 0 uses
// the repository default; a negative value removes the limit.
func WithLimit(limit int) Option {
	return func(o *options) error {
		o.withLimit = limit
		return nil
	}
}
