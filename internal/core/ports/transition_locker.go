package ports

import "context"

// ReleaseFunc releases a lock obtained from a TransitionLocker.
type ReleaseFunc func(ctx context.Context) error

// TransitionLocker serializes state transitions of one disbursement across processes.
type TransitionLocker interface {
	// Obtain locks key. apperrors.ErrConflict is returned when the lock is held elsewhere.
	Obtain(ctx context.Context, key string) (ReleaseFunc, error)
}
