package dedup

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestGetOrExecute_SecondCallHitsCache(t *testing.T) {
	t.Parallel()

	d := New[string](Config{TTL: time.Minute})
	ctx := context.Background()
	calls := 0
	fn := func(context.Context) (string, error) {
		calls++
		return "reply", nil
	}

	got, cached, err := d.GetOrExecute(ctx, "u1", "hello Paris", "c1", fn)
	if err != nil || cached || got != "reply" {
		t.Fatalf("first call = (%q, %v, %v), want (reply, false, nil)", got, cached, err)
	}

	got, cached, err = d.GetOrExecute(ctx, "u1", "hello Paris", "c1", fn)
	if err != nil || !cached || got != "reply" {
		t.Fatalf("second call = (%q, %v, %v), want (reply, true, nil)", got, cached, err)
	}
	if calls != 1 {
		t.Fatalf("inner function ran %d times, want 1", calls)
	}
}

func TestGetOrExecute_NormalizationCollapsesRetries(t *testing.T) {
	t.Parallel()

	d := New[string](Config{})
	ctx := context.Background()
	calls := 0
	fn := func(context.Context) (string, error) {
		calls++
		return "ok", nil
	}

	_, _, _ = d.GetOrExecute(ctx, "u1", "Take me to Rome", "c1", fn)
	_, cached, _ := d.GetOrExecute(ctx, "u1", "  take me to rome  ", "c1", fn)

	if !cached || calls != 1 {
		t.Fatalf("normalized retry: cached=%v calls=%d, want true/1", cached, calls)
	}
}

func TestGetOrExecute_KeySensitivity(t *testing.T) {
	t.Parallel()

	d := New[string](Config{})
	ctx := context.Background()
	fn := func(context.Context) (string, error) { return "ok", nil }

	_, _, _ = d.GetOrExecute(ctx, "u1", "msg", "c1", fn)

	variants := []struct {
		name                    string
		user, message, convID   string
	}{
		{"different user", "u2", "msg", "c1"},
		{"different conversation", "u1", "msg", "c2"},
		{"different message", "u1", "msg!", "c1"},
		{"no conversation", "u1", "msg", ""},
	}
	for _, v := range variants {
		if _, cached, _ := d.GetOrExecute(ctx, v.user, v.message, v.convID, fn); cached {
			t.Errorf("%s: expected cache miss", v.name)
		}
	}
}

func TestKey_DeterministicAndSentinel(t *testing.T) {
	t.Parallel()

	if Key("u", "m", "c") != Key("u", "m", "c") {
		t.Error("identical inputs produced different keys")
	}
	if Key("u", "m", "") != Key("u", "m", "new") {
		t.Error(`empty conversation ID must use the "new" sentinel`)
	}
}

func TestGetOrExecute_ExpiredEntryIsReplaced(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	d := New[int](Config{TTL: 60 * time.Second})
	d.now = func() time.Time { return now }

	ctx := context.Background()
	calls := 0
	fn := func(context.Context) (int, error) {
		calls++
		return calls, nil
	}

	_, _, _ = d.GetOrExecute(ctx, "u", "m", "c", fn)

	now = now.Add(60 * time.Second) // age == TTL is already expired
	got, cached, _ := d.GetOrExecute(ctx, "u", "m", "c", fn)
	if cached || got != 2 {
		t.Fatalf("expired entry returned: got (%d, cached=%v), want (2, false)", got, cached)
	}
}

func TestGetOrExecute_ErrorNotCached(t *testing.T) {
	t.Parallel()

	d := New[string](Config{})
	ctx := context.Background()
	boom := errors.New("backend down")
	calls := 0

	fail := func(context.Context) (string, error) {
		calls++
		return "", boom
	}

	if _, _, err := d.GetOrExecute(ctx, "u", "m", "c", fail); !errors.Is(err, boom) {
		t.Fatalf("error not propagated: %v", err)
	}

	// A later call must execute again, not serve the failed attempt.
	ok := func(context.Context) (string, error) {
		calls++
		return "fine", nil
	}
	got, cached, err := d.GetOrExecute(ctx, "u", "m", "c", ok)
	if err != nil || cached || got != "fine" {
		t.Fatalf("retry after error = (%q, %v, %v), want (fine, false, nil)", got, cached, err)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}

func TestGetOrExecute_CapacityEvictsOldest(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	d := New[string](Config{TTL: time.Hour, MaxEntries: 2})
	d.now = func() time.Time { return now }

	ctx := context.Background()
	fn := func(context.Context) (string, error) { return "v", nil }

	_, _, _ = d.GetOrExecute(ctx, "u", "first", "c", fn)
	now = now.Add(time.Second)
	_, _, _ = d.GetOrExecute(ctx, "u", "second", "c", fn)
	now = now.Add(time.Second)

	// Cache is full and nothing is expired: the oldest entry must go.
	_, _, _ = d.GetOrExecute(ctx, "u", "third", "c", fn)

	if stats := d.Stats(); stats.TotalEntries > 2 {
		t.Fatalf("cache grew past capacity: %d entries", stats.TotalEntries)
	}
	// Check the survivor before the victim: a miss inserts and may evict again.
	if _, cached, _ := d.GetOrExecute(ctx, "u", "second", "c", fn); !cached {
		t.Error("newer entry was evicted instead of the oldest")
	}
	if _, cached, _ := d.GetOrExecute(ctx, "u", "first", "c", fn); cached {
		t.Error("oldest entry survived eviction")
	}
}

func TestGetOrExecute_CapacityPrefersExpiredEviction(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	d := New[string](Config{TTL: time.Minute, MaxEntries: 2})
	d.now = func() time.Time { return now }

	ctx := context.Background()
	fn := func(context.Context) (string, error) { return "v", nil }

	_, _, _ = d.GetOrExecute(ctx, "u", "stale", "c", fn)
	now = now.Add(2 * time.Minute) // let it expire
	_, _, _ = d.GetOrExecute(ctx, "u", "live", "c", fn)
	now = now.Add(time.Second)
	_, _, _ = d.GetOrExecute(ctx, "u", "incoming", "c", fn)

	// The expired entry should have been dropped, the live one kept.
	if _, cached, _ := d.GetOrExecute(ctx, "u", "live", "c", fn); !cached {
		t.Error("live entry evicted while an expired one was available")
	}
}

func TestStats(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	d := New[string](Config{TTL: time.Minute, MaxEntries: 10})
	d.now = func() time.Time { return now }

	ctx := context.Background()
	fn := func(context.Context) (string, error) { return "v", nil }

	_, _, _ = d.GetOrExecute(ctx, "u", "a", "c", fn)
	now = now.Add(2 * time.Minute)
	_, _, _ = d.GetOrExecute(ctx, "u", "b", "c", fn)

	got := d.Stats()
	want := Stats{TotalEntries: 2, ValidEntries: 1, ExpiredEntries: 1, MaxEntries: 10, TTL: time.Minute}
	if got != want {
		t.Fatalf("Stats() = %+v, want %+v", got, want)
	}

	if dropped := d.Purge(); dropped != 1 {
		t.Fatalf("Purge() = %d, want 1", dropped)
	}
	d.Clear()
	if got := d.Stats().TotalEntries; got != 0 {
		t.Fatalf("entries after Clear = %d, want 0", got)
	}
}

func TestGetOrExecute_ConcurrentDistinctKeys(t *testing.T) {
	t.Parallel()

	d := New[string](Config{})
	ctx := context.Background()

	done := make(chan struct{})
	// A slow generation on one key must not block another key's lookup.
	go func() {
		_, _, _ = d.GetOrExecute(ctx, "u", "slow", "c", func(context.Context) (string, error) {
			<-done
			return "slow", nil
		})
	}()

	fastDone := make(chan struct{})
	go func() {
		_, _, _ = d.GetOrExecute(ctx, "u", "fast", "c", func(context.Context) (string, error) {
			return "fast", nil
		})
		close(fastDone)
	}()

	select {
	case <-fastDone:
	case <-time.After(2 * time.Second):
		t.Fatal("fast key blocked behind slow key's generation")
	}
	close(done)
}
