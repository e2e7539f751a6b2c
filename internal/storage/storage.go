// Package storage provides the string key/value stores the client persists into:
// a local store that survives restarts and a session store that lives for one run.
package storage

import "errors"

// ErrNotFound is returned by GetItem when the key has no value
var ErrNotFound = errors.New("storage: key not found")

// Backend is a string key/value store
type Backend interface {
	GetItem(key string) (string, error)
	SetItem(key, value string) error
	RemoveItem(key string) error
}
