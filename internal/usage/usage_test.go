package usage

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/abhisek/pastpapers/internal/store/storetest"
)

func newTracker(t *testing.T, limit int, now time.Time) *Tracker {
	t.Helper()
	tr := NewTracker(storetest.Open(t).UsageRepo(), limit)
	tr.now = func() time.Time { return now }
	return tr
}

func TestTracker_EnforcesDailyLimit(t *testing.T) {
	ctx := context.Background()
	tr := newTracker(t, 2, time.Date(2026, 5, 10, 23, 0, 0, 0, time.UTC))

	for i := 0; i < 2; i++ {
		if _, err := tr.Reserve(ctx, "u"); err != nil {
			t.Fatalf("request %d: unexpected error: %v", i+1, err)
		}
	}
	if _, err := tr.Reserve(ctx, "u"); !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
	if _, err := tr.Reserve(ctx, "someone-else"); err != nil {
		t.Fatalf("quota must be per user, got %v", err)
	}

	// Next UTC day starts fresh.
	tr.now = func() time.Time { return time.Date(2026, 5, 11, 0, 0, 1, 0, time.UTC) }
	if _, err := tr.Reserve(ctx, "u"); err != nil {
		t.Fatalf("expected reset on new day, got %v", err)
	}
}

func TestTracker_ReleaseReturnsSlot(t *testing.T) {
	ctx := context.Background()
	tr := newTracker(t, 1, time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC))

	release, err := tr.Reserve(ctx, "u")
	if err != nil {
		t.Fatal(err)
	}
	release()
	release() // second call is a no-op

	st, err := tr.Remaining(ctx, "u")
	if err != nil {
		t.Fatal(err)
	}
	if st.Used != 0 {
		t.Fatalf("used = %d after release, want 0", st.Used)
	}
	if _, err := tr.Reserve(ctx, "u"); err != nil {
		t.Fatalf("released slot not reusable: %v", err)
	}
}

func TestTracker_ConcurrentReservationsRespectLimit(t *testing.T) {
	ctx := context.Background()
	const limit = 3
	tr := newTracker(t, limit, time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC))

	var (
		wg       sync.WaitGroup
		granted  atomic.Int32
		rejected atomic.Int32
	)
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := tr.Reserve(ctx, "u")
			switch {
			case err == nil:
				granted.Add(1)
			case errors.Is(err, ErrQuotaExceeded):
				rejected.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if granted.Load() != limit || rejected.Load() != 12-limit {
		t.Fatalf("granted %d, rejected %d; want %d and %d", granted.Load(), rejected.Load(), limit, 12-limit)
	}
	st, err := tr.Remaining(ctx, "u")
	if err != nil {
		t.Fatal(err)
	}
	if st.Used != limit {
		t.Errorf("used = %d, want %d", st.Used, limit)
	}
}

func TestTracker_Unlimited(t *testing.T) {
	ctx := context.Background()
	tr := newTracker(t, 0, time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC))
	for i := 0; i < 5; i++ {
		if _, err := tr.Reserve(ctx, "u"); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := tr.Reserve(ctx, "u"); err != nil {
		t.Fatalf("unlimited quota rejected request: %v", err)
	}
	st, err := tr.Remaining(ctx, "u")
	if err != nil {
		t.Fatal(err)
	}
	if !st.Unlimited || st.Used != 6 {
		t.Errorf("unexpected status: %+v", st)
	}
}

func TestTracker_Remaining(t *testing.T) {
	ctx := context.Background()
	// 01:30 in UTC+2 is still the previous UTC day.
	local := time.Date(2026, 5, 11, 1, 30, 0, 0, time.FixedZone("CEST", 2*60*60))
	tr := newTracker(t, 3, local)

	if _, err := tr.Reserve(ctx, "u"); err != nil {
		t.Fatal(err)
	}
	st, err := tr.Remaining(ctx, "u")
	if err != nil {
		t.Fatal(err)
	}
	if st.Day != "2026-05-10" {
		t.Errorf("expected UTC day 2026-05-10, got %s", st.Day)
	}
	if st.Used != 1 || st.Remaining != 2 || st.Limit != 3 {
		t.Errorf("unexpected status: %+v", st)
	}
	if want := time.Date(2026, 5, 11, 0, 0, 0, 0, time.UTC); !st.ResetsAt.Equal(want) {
		t.Errorf("ResetsAt = %s, want %s", st.ResetsAt, want)
	}
}
