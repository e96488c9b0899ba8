package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping, re-exported so callers only import this package.
var (
	New    = crdb.New
	Newf   = crdb.Newf
	Wrap   = crdb.Wrap
	Wrapf  = crdb.Wrapf
	Is     = crdb.Is
	As     = crdb.As
	Unwrap = crdb.Unwrap
)

// User-facing hints
var (
	WithHint     = crdb.WithHint
	WithHintf    = crdb.WithHintf
	GetAllHints  = crdb.GetAllHints
	FlattenHints = crdb.FlattenHints
)
