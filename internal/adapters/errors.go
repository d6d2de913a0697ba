package adapters

import "errors"

var (
	ErrStateNotFound = errors.New("persisted state not found")
	ErrStateCorrupt  = errors.New("persisted state is corrupt")
)
