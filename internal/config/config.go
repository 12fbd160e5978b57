// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

// Package config loads the process configuration from the environment and
// validates it at startup.  An invalid resolution policy refuses to start
// rather than run with ambiguous semantics.
package config

import (
	"context"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/go-secure-stdlib/strutil"
	"github.com/hashicorp/mlperms/internal/errors"
	"github.com/hashicorp/mlperms/internal/perms"
	"github.com/kelseyhightower/envconfig"
)

// Config is the environment-driven process configuration.
// PERMISSION_SOURCE_ORDER and DEFAULT_MLFLOW_PERMISSION keep the names the
// tracking-server deployments already set.
type Config struct {
	SourceOrder       string `envconfig:"PERMISSION_SOURCE_ORDER" default:"user,group,regex,group-regex"`
	DefaultPermission string `envconfig:"DEFAULT_MLFLOW_PERMISSION" default:"READ"`

	DatabaseUrl  string `envconfig:"DATABASE_URL"`
	ListenAddr   string `envconfig:"LISTEN_ADDR" default:":8486"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"LOG_FORMAT" default:"standard"`
	AuditLogPath string `envconfig:"AUDIT_LOG_PATH"`

	// AdminUsers is a comma-separated list of usernames provisioned as
	// admins at startup.
	AdminUsers string `envconfig:"ADMIN_USERS"`
}

// Load reads the configuration from the environment.
func Load(ctx context.Context) (*Config, error) {
	const op = "config.Load"
	c := &Config{}
	if err := envconfig.Process("", c); err != nil {
		return nil, errors.New(ctx, errors.InvalidConfiguration, op, "failed to process environment", errors.WithWrap(err))
	}
	if err := c.validate(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

var logFormats = []string{"standard", "json"}

func (c *Config) validate(ctx context.Context) error {
	const op = "config.(Config).validate"
	var merr *multierror.Error
	if !strutil.StrListContains(logFormats, c.LogFormat) {
		merr = multierror.Append(merr, errors.New(ctx, errors.InvalidConfiguration, op,
			"LOG_FORMAT must be one of "+strings.Join(logFormats, ", ")))
	}
	if hclog.LevelFromString(c.LogLevel) == hclog.NoLevel {
		merr = multierror.Append(merr, errors.New(ctx, errors.InvalidConfiguration, op,
			"LOG_LEVEL is not a valid log level"))
	}
	if c.ListenAddr == "" {
		merr = multierror.Append(merr, errors.New(ctx, errors.InvalidConfiguration, op,
			"LISTEN_ADDR must not be empty"))
	}
	// surface policy errors at startup, not on the first request
	if _, err := c.ResolutionConfig(ctx); err != nil {
		merr = multierror.Append(merr, err)
	}
	return merr.ErrorOrNil()
}

// ResolutionConfig builds the immutable resolution policy from the configured
// source order and default permission.
func (c *Config) ResolutionConfig(ctx context.Context) (*perms.Config, error) {
	const op = "config.(Config).ResolutionConfig"
	order, err := perms.ParseSourceOrder(ctx, c.SourceOrder)
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	level, err := perms.ParseLevel(ctx, c.DefaultPermission)
	if err != nil {
		return nil, errors.New(ctx, errors.InvalidConfiguration, op,
			"DEFAULT_MLFLOW_PERMISSION is not a valid permission level", errors.WithWrap(err))
	}
	conf, err := perms.NewConfig(ctx, order, level)
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	return conf, nil
}

// AdminUsernames returns the deduplicated, sorted admin usernames.
func (c *Config) AdminUsernames() []string {
	return strutil.ParseDedupAndSortStrings(c.AdminUsers, ",")
}

// Logger builds the process logger from the configured level and format.
func (c *Config) Logger(name string) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(c.LogLevel),
		JSONFormat: c.LogFormat == "json",
	})
}
