package store

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrUnknownStore      = errors.New("unknown store")

	// ErrUpstreamUnavailable marks failures talking to a remote backend so
	// the HTTP layer can answer 503 instead of 500.
	ErrUpstreamUnavailable = errors.New("upstream data source unavailable")
)

func upstream(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, ErrUpstreamUnavailable)
}
