package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRateNotFound        = errors.New("rate not found")
	ErrInvalidCurrencyCode = errors.New("currency code must be 2 to 5 characters without whitespace")
	ErrInvalidPairKey      = errors.New("invalid pair key")
	ErrNonPositiveRate     = errors.New("rate must be a positive finite number")
	ErrCurrencyNotFound    = errors.New("unknown currency")
)

// SourceError is returned by a rate source that could not produce quotes.
type SourceError struct {
	Source string
	Reason string
	Err    error
}

func (e *SourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("source %s: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("source %s: %s", e.Source, e.Reason)
}

func (e *SourceError) Unwrap() error { return e.Err }

// RateUnavailableError means neither the pair nor its reverse is cached.
type RateUnavailableError struct {
	Pair Pair
}

func (e *RateUnavailableError) Error() string {
	return "rate unavailable: " + e.Pair.Key()
}

// PersistenceError wraps a failed write or read of durable rate state.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
