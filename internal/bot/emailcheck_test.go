package bot

import (
	"context"
	"sync"
	"testing"
	"time"
)

type statusRecorder struct {
	mu      sync.Mutex
	applied []string
}

func (r *statusRecorder) apply(userID int64, email, status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applied = append(r.applied, email+"="+status)
}

func (r *statusRecorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.applied))
	copy(out, r.applied)
	return out
}

func TestEmailCheckerDebouncesStaleLookups(t *testing.T) {
	rec := &statusRecorder{}
	verify := func(ctx context.Context, email string) (string, error) {
		return "valid", nil
	}
	checker := newEmailChecker(30*time.Millisecond, verify, rec.apply)

	ctx := context.Background()
	// Three rapid corrections; only the last should ever be verified.
	checker.Check(ctx, 1, "a@example.com")
	checker.Check(ctx, 1, "ab@example.com")
	checker.Check(ctx, 1, "abc@example.com")

	time.Sleep(150 * time.Millisecond)

	got := rec.snapshot()
	if len(got) != 1 {
		t.Fatalf("expected exactly one applied verdict, got %v", got)
	}
	if got[0] != "abc@example.com=valid" {
		t.Errorf("applied = %q", got[0])
	}
}

func TestEmailCheckerSlowResultForOldAddressDiscarded(t *testing.T) {
	rec := &statusRecorder{}
	var mu sync.Mutex
	delays := map[string]time.Duration{
		"old@example.com": 80 * time.Millisecond, // settles after the new one
		"new@example.com": 0,
	}
	verify := func(ctx context.Context, email string) (string, error) {
		mu.Lock()
		d := delays[email]
		mu.Unlock()
		time.Sleep(d)
		return "valid", nil
	}
	checker := newEmailChecker(time.Millisecond, verify, rec.apply)

	ctx := context.Background()
	checker.Check(ctx, 1, "old@example.com")
	time.Sleep(20 * time.Millisecond) // let the old lookup start
	checker.Check(ctx, 1, "new@example.com")

	time.Sleep(200 * time.Millisecond)

	for _, applied := range rec.snapshot() {
		if applied == "old@example.com=valid" {
			t.Fatal("stale verdict for the old address was applied")
		}
	}
	got := rec.snapshot()
	if len(got) != 1 || got[0] != "new@example.com=valid" {
		t.Errorf("applied = %v, want only the new address", got)
	}
}

func TestEmailCheckerErrorBecomesErrorStatus(t *testing.T) {
	rec := &statusRecorder{}
	verify := func(ctx context.Context, email string) (string, error) {
		return "", context.DeadlineExceeded
	}
	checker := newEmailChecker(time.Millisecond, verify, rec.apply)

	checker.Check(context.Background(), 1, "x@example.com")
	time.Sleep(100 * time.Millisecond)

	got := rec.snapshot()
	if len(got) != 1 || got[0] != "x@example.com=error" {
		t.Errorf("applied = %v, want error status", got)
	}
}

func TestEmailCheckerUsersIndependent(t *testing.T) {
	rec := &statusRecorder{}
	verify := func(ctx context.Context, email string) (string, error) {
		return "valid", nil
	}
	checker := newEmailChecker(time.Millisecond, verify, rec.apply)

	ctx := context.Background()
	checker.Check(ctx, 1, "one@example.com")
	checker.Check(ctx, 2, "two@example.com")
	time.Sleep(100 * time.Millisecond)

	if got := rec.snapshot(); len(got) != 2 {
		t.Errorf("each user's lookup should apply, got %v", got)
	}
}
