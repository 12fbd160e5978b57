// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

// Package store persists permission grants and pattern rules and implements
// the read contracts the resolution engine consumes.  It is backed by sqlite
// through go-dbw; the schema is created on open.
package store

import (
	"context"

	_ "github.com/glebarez/go-sqlite"
	"github.com/hashicorp/go-dbw"
	"github.com/hashicorp/mlperms/internal/errors"
)

// DefaultStoreUrl uses a temp in-memory sqlite database (shared) see: https://www.sqlite.org/inmemorydb.html
const DefaultStoreUrl = "file::memory:?cache=shared"

type Store struct {
	conn *dbw.DB
}

// Open connects to the permission database and ensures the schema exists.
// Supported options: WithUrl, WithDebug, WithLogger.
func Open(ctx context.Context, opt ...Option) (*Store, error) {
	const op = "store.Open"
	opts, err := getOpts(opt...)
	if err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	url := opts.withUrl
	if url == "" {
		url = DefaultStoreUrl
	}
	var dbwOpts []dbw.Option
	if opts.withLogger != nil {
		dbwOpts = append(dbwOpts, dbw.WithLogger(opts.withLogger))
	}
	underlying, err := dbw.Open(dbw.Sqlite, url, dbwOpts...)
	if err != nil {
		return nil, errors.Wrap(ctx, err, op, errors.WithCode(errors.Unavailable))
	}
	s := &Store{conn: underlying}
	s.conn.Debug(opts.withDebug)
	if err := s.createTables(ctx); err != nil {
		return nil, errors.Wrap(ctx, err, op)
	}
	return s, nil
}

func (s *Store) createTables(ctx context.Context) error {
	const op = "store.(Store).createTables"
	rw := dbw.New(s.conn)
	if _, err := rw.Exec(ctx, createTables, nil); err != nil {
		return errors.Wrap(ctx, err, op)
	}
	return nil
}

// Conn returns the underlying database for readers/writers.
func (s *Store) Conn() *dbw.DB {
	return s.conn
}

// Ping verifies the database is reachable.  Used by the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	const op = "store.(Store).Ping"
	rw := dbw.New(s.conn)
	if _, err := rw.Exec(ctx, "select 1", nil); err != nil {
		return errors.Wrap(ctx, err, op, errors.WithCode(errors.Unavailable))
	}
	return nil
}

// Close releases the underlying connection.
func (s *Store) Close(ctx context.Context) error {
	const op = "store.(Store).Close"
	if err := s.conn.Close(ctx); err != nil {
		return errors.Wrap(ctx, err, op)
	}
	return nil
}

const (
	createTables = `
begin;

create table if not exists perm_user (
  public_id text not null primary key,
  username text not null unique,
  display_name text,
  is_admin boolean not null default false,
  create_time timestamp not null default current_timestamp,
  update_time timestamp not null default current_timestamp
);

create table if not exists perm_group (
  public_id text not null primary key,
  name text not null unique,
  create_time timestamp not null default current_timestamp
);

create table if not exists perm_group_member (
  group_id text not null
    references perm_group(public_id)
    on delete cascade,
  user_id text not null
    references perm_user(public_id)
    on delete cascade,
  create_time timestamp not null default current_timestamp,
  primary key (group_id, user_id)
);

create table if not exists perm_user_grant (
  user_id text not null
    references perm_user(public_id)
    on delete cascade,
  resource_type text not null,
  resource_id text not null,
  permission text not null
    check (permission in ('READ', 'USE', 'EDIT', 'MANAGE', 'NO_PERMISSIONS')),
  create_time timestamp not null default current_timestamp,
  update_time timestamp not null default current_timestamp,
  primary key (user_id, resource_type, resource_id)
);

create table if not exists perm_group_grant (
  group_id text not null
    references perm_group(public_id)
    on delete cascade,
  resource_type text not null,
  resource_id text not null,
  permission text not null
    check (permission in ('READ', 'USE', 'EDIT', 'MANAGE', 'NO_PERMISSIONS')),
  create_time timestamp not null default current_timestamp,
  update_time timestamp not null default current_timestamp,
  primary key (group_id, resource_type, resource_id)
);

create table if not exists perm_user_pattern_rule (
  public_id text not null primary key,
  user_id text not null
    references perm_user(public_id)
    on delete cascade,
  resource_type text not null,
  pattern text not null,
  priority integer not null
    check (priority >= 0),
  permission text not null
    check (permission in ('READ', 'USE', 'EDIT', 'MANAGE', 'NO_PERMISSIONS')),
  create_time timestamp not null default current_timestamp,
  unique (user_id, resource_type, pattern)
);

create table if not exists perm_group_pattern_rule (
  public_id text not null primary key,
  group_id text not null
    references perm_group(public_id)
    on delete cascade,
  resource_type text not null,
  pattern text not null,
  priority integer not null
    check (priority >= 0),
  permission text not null
    check (permission in ('READ', 'USE', 'EDIT', 'MANAGE', 'NO_PERMISSIONS')),
  create_time timestamp not null default current_timestamp,
  unique (group_id, resource_type, pattern)
);

create index if not exists perm_user_pattern_rule_lookup_ix
  on perm_user_pattern_rule (user_id, resource_type, priority);

create index if not exists perm_group_pattern_rule_lookup_ix
  on perm_group_pattern_rule (group_id, resource_type, priority);

commit;
`
)
