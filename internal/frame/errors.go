//-------------------------------------------------------------------------
//
// martctl Warehouse Builder
//
// Copyright (c) 2025 - 2026, OpenMart Data, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package frame

import "fmt"

// MissingColumnError reports a reference to a column the frame does not
// carry. Transform code never recovers from it; it aborts the run.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing column %q", e.Column)
}

// JoinCardinalityError reports a row-count change across a join that was
// required to preserve rows one-to-one.
type JoinCardinalityError struct {
	Stage  string
	Before int
	After  int
}

func (e *JoinCardinalityError) Error() string {
	return fmt.Sprintf("join %q changed row count from %d to %d",
		e.Stage, e.Before, e.After)
}

// TypeCoercionError reports a cell that could not be coerced to the type a
// builder requires.
type TypeCoercionError struct {
	Column string
	Value  any
	Err    error
}

func (e *TypeCoercionError) Error() string {
	return fmt.Sprintf("column %q: cannot coerce %v (%T): %v",
		e.Column, e.Value, e.Value, e.Err)
}

func (e *TypeCoercionError) Unwrap() error { return e.Err }
