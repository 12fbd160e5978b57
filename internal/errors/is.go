// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package errors

import "errors"

// IsNotFoundError returns a boolean indicating whether the error is known to
// report a "record not found" result.  The resolver treats this as the
// expected negative result which drives fallthrough to the next configured
// source, never as a failure.
func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var domainErr *Err
	if errors.As(err, &domainErr) {
		return domainErr.Code == RecordNotFound
	}
	return false
}

// IsUniqueError returns a boolean indicating whether the error is known to
// report a unique constraint violation.
func IsUniqueError(err error) bool {
	if err == nil {
		return false
	}
	var domainErr *Err
	if errors.As(err, &domainErr) {
		return domainErr.Code == NotUnique
	}
	return false
}

// IsCheckConstraintError returns a boolean indicating whether the error is
// known to report a check constraint violation.
func IsCheckConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var domainErr *Err
	if errors.As(err, &domainErr) {
		return domainErr.Code == CheckConstraint
	}
	return false
}

// IsUnavailableError returns a boolean indicating whether the error is known
// to report that the backing store could not be reached or timed out.
// Callers must treat this as a hard failure (deny-by-default), never as
// "no grant found".
func IsUnavailableError(err error) bool {
	if err == nil {
		return false
	}
	var domainErr *Err
	if errors.As(err, &domainErr) {
		return domainErr.Code == Unavailable
	}
	return false
}

// IsConfigurationError returns a boolean indicating whether the error is
// known to report an invalid resolution configuration, which is fatal at
// process startup.
func IsConfigurationError(err error) bool {
	if err == nil {
		return false
	}
	var domainErr *Err
	if errors.As(err, &domainErr) {
		return domainErr.Code.Info().Kind == Configuration
	}
	return false
}
