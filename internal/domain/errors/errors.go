package errors

import "errors"

var (
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrNotFound          = errors.New("not found")
	ErrMalformedProperty = errors.New("malformed property")
	ErrUnknownKind       = errors.New("unknown sanction kind")
	ErrBatchHalted       = errors.New("batch halted")
)
