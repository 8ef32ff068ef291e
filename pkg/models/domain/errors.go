package domain

import "errors"

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrReportNotFound = errors.New("report category not found")
	ErrTableNotFound  = errors.New("table not found")
	ErrSchemaMismatch = errors.New("schema mismatch")
)
