package lock

import (
	"context"
	"errors"
)

var ErrLockTimeout = errors.New("lock: timed out waiting for key")

// Locker serializes work per key. The returned release func must be called
// exactly once.
type Locker interface {
	Lock(ctx context.Context, key string) (release func(), err error)
}
