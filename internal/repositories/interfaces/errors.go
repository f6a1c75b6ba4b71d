package interfaces

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when the requested document does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrConflict is returned when a conditional write found the document
	// in a state other than the one it required.
	ErrConflict = errors.New("entity state conflict")
)

// Cache is the read-through cache used by repositories. A nil Cache
// disables caching.
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
}
