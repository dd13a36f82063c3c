package domain

import "errors"

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrEmptyMessage      = errors.New("empty message")
	ErrRequestPending    = errors.New("active request exists")
	ErrMalformedResponse = errors.New("malformed completion response")
	ErrRateLimited       = errors.New("rate limited by completion endpoint")
	ErrUnavailable       = errors.New("completion endpoint unavailable")
)
