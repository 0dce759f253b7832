package bot

import (
	"context"
	"sync"
	"time"
)

// emailChecker debounces deliverability lookups per user. Every new
// address bumps the user's sequence number; a lookup whose sequence is
// no longer current when it settles is discarded, so a fast reply for an
// old address can never overwrite the verdict for the one the user
// actually submitted.
type emailChecker struct {
	delay  time.Duration
	verify func(ctx context.Context, email string) (string, error)
	apply  func(userID int64, email, status string)

	mu  sync.Mutex
	seq map[int64]uint64
}

func newEmailChecker(delay time.Duration, verify func(context.Context, string) (string, error), apply func(int64, string, string)) *emailChecker {
	return &emailChecker{
		delay:  delay,
		verify: verify,
		apply:  apply,
		seq:    map[int64]uint64{},
	}
}

// Check schedules a verification for the user's latest address.
func (e *emailChecker) Check(ctx context.Context, userID int64, email string) {
	e.mu.Lock()
	e.seq[userID]++
	seq := e.seq[userID]
	e.mu.Unlock()

	go e.run(ctx, userID, seq, email)
}

func (e *emailChecker) run(ctx context.Context, userID int64, seq uint64, email string) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(e.delay):
	}
	if !e.current(userID, seq) {
		return
	}

	status, err := e.verify(ctx, email)
	if err != nil {
		status = "error"
	}
	if status == "" {
		status = "error"
	}

	if !e.current(userID, seq) {
		return // user moved on while we were waiting
	}
	e.apply(userID, email, status)
}

func (e *emailChecker) current(userID int64, seq uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seq[userID] == seq
}
