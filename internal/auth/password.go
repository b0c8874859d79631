package auth

import (
	"context"
	"errors"
	"runtime"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// Hasher hashes and verifies passwords with bcrypt. Calls are bounded by a semaphore so
// that a burst of logins cannot occupy every CPU, and each call honours its context.
type Hasher struct {
	cost    int
	timeout time.Duration
	slots   *semaphore.Weighted
}

// NewHasher builds a Hasher. Non-positive concurrency defaults to the number of CPUs and
// a zero timeout disables the per-call deadline.
func NewHasher(cost, concurrency int, timeout time.Duration) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	return &Hasher{
		cost:    cost,
		timeout: timeout,
		slots:   semaphore.NewWeighted(int64(concurrency)),
	}
}

// Hash returns a salted bcrypt hash of password.
func (h *Hasher) Hash(ctx context.Context, password string) (string, error) {
	var hashed []byte
	err := h.run(ctx, func() error {
		var err error
		hashed, err = bcrypt.GenerateFromPassword([]byte(password), h.cost)
		return err
	})
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether password matches hashed. A mismatch is not an error; a malformed
// hash or an expired context is.
func (h *Hasher) Verify(ctx context.Context, password, hashed string) (bool, error) {
	var cmpErr error
	err := h.run(ctx, func() error {
		cmpErr = bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password))
		return nil
	})
	if err != nil {
		return false, err
	}
	if errors.Is(cmpErr, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if cmpErr != nil {
		return false, cmpErr
	}
	return true, nil
}

func (h *Hasher) run(ctx context.Context, fn func() error) error {
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := h.slots.Acquire(ctx, 1); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		defer h.slots.Release(1)
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		// the goroutine finishes in the background and releases its slot
		return ctx.Err()
	}
}
