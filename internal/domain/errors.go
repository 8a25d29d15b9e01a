package domain

import "errors"

var (
	ErrMissingDependency = errors.New("scan job dependency is not configured")
	ErrInvalidConfig     = errors.New("invalid configuration")
)
