package repo_errors

import "errors"

var (
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	// ErrStaleVersion means the row changed since it was read; the caller
	// must re-fetch and retry, nothing is merged silently.
	ErrStaleVersion = errors.New("stale version")
)
