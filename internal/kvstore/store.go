// Package kvstore provides the key-value persistence used for game session
// snapshots. Values are stored under a scope (one per session owner) and a
// logical key, so a session can be resumed after a reload or a new request.
package kvstore

// Store is the persistence adapter injected into the game engine.
type Store interface {
	// Get returns the value for key within scope; ok is false when absent.
	Get(scope, key string) (value string, ok bool, err error)

	// Set writes or replaces the value for key within scope.
	Set(scope, key, value string) error

	// Remove deletes the value for key within scope. Removing an absent key
	// is not an error.
	Remove(scope, key string) error
}
