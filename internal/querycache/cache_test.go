package querycache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCanonicalize_OrderIndependent(t *testing.T) {
	a := map[string]string{"date": "2025-10-08", "specialty_id": "9", "modality": "presencial"}
	b := map[string]string{"modality": "presencial", "specialty_id": "9", "date": "2025-10-08"}

	if Canonicalize(a) != Canonicalize(b) {
		t.Fatalf("expected equal keys, got %q and %q", Canonicalize(a), Canonicalize(b))
	}
}

func TestCanonicalize_DropsEmptyValues(t *testing.T) {
	withEmpty := map[string]string{"date": "2025-10-08", "doctor_id": ""}
	without := map[string]string{"date": "2025-10-08"}

	if Canonicalize(withEmpty) != Canonicalize(without) {
		t.Fatalf("expected empty values dropped, got %q", Canonicalize(withEmpty))
	}
}

func TestLoad_CacheHitWithinTTL(t *testing.T) {
	calls := 0
	c := New(5*time.Minute, func(ctx context.Context, params map[string]string) ([]int, error) {
		calls++
		return []int{1, 2, 3}, nil
	})

	params := map[string]string{"date": "2025-10-08"}

	first, err := c.Load(context.Background(), params, false)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	second, err := c.Load(context.Background(), params, false)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}

	if calls != 1 {
		t.Fatalf("expected 1 fetch, got %d", calls)
	}
	if len(first.Items) != 3 || len(second.Items) != 3 {
		t.Fatalf("expected 3 items on both loads")
	}
	if second.Stale || second.Err != nil {
		t.Fatalf("cache hit should be fresh, got stale=%v err=%v", second.Stale, second.Err)
	}
}

func TestLoad_ExpiredEntryRefetches(t *testing.T) {
	calls := 0
	c := New(5*time.Minute, func(ctx context.Context, params map[string]string) ([]int, error) {
		calls++
		return []int{calls}, nil
	})

	clock := time.Date(2025, 10, 8, 8, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	params := map[string]string{"date": "2025-10-08"}
	if _, err := c.Load(context.Background(), params, false); err != nil {
		t.Fatalf("first load: %v", err)
	}

	clock = clock.Add(5*time.Minute + time.Second)
	if _, err := c.Load(context.Background(), params, false); err != nil {
		t.Fatalf("second load: %v", err)
	}

	if calls != 2 {
		t.Fatalf("expected refetch after TTL, got %d fetches", calls)
	}
}

func TestLoad_KeyMismatchRefetches(t *testing.T) {
	calls := 0
	c := New(5*time.Minute, func(ctx context.Context, params map[string]string) ([]int, error) {
		calls++
		return []int{1}, nil
	})

	if _, err := c.Load(context.Background(), map[string]string{"date": "2025-10-08"}, false); err != nil {
		t.Fatalf("first load: %v", err)
	}
	if _, err := c.Load(context.Background(), map[string]string{"date": "2025-10-09"}, false); err != nil {
		t.Fatalf("second load: %v", err)
	}

	if calls != 2 {
		t.Fatalf("expected fetch per distinct key, got %d", calls)
	}
}

func TestLoad_ForceRefreshAlwaysFetches(t *testing.T) {
	calls := 0
	c := New(5*time.Minute, func(ctx context.Context, params map[string]string) ([]int, error) {
		calls++
		return []int{1}, nil
	})

	params := map[string]string{"date": "2025-10-08"}
	for i := 0; i < 3; i++ {
		if _, err := c.Load(context.Background(), params, true); err != nil {
			t.Fatalf("load %d: %v", i, err)
		}
	}

	if calls != 3 {
		t.Fatalf("expected 3 fetches under forceRefresh, got %d", calls)
	}
}

func TestLoad_EmptyResultIsNotACacheHit(t *testing.T) {
	calls := 0
	c := New(5*time.Minute, func(ctx context.Context, params map[string]string) ([]int, error) {
		calls++
		return nil, nil
	})

	params := map[string]string{"date": "2025-10-08"}
	if _, err := c.Load(context.Background(), params, false); err != nil {
		t.Fatalf("first load: %v", err)
	}
	if _, err := c.Load(context.Background(), params, false); err != nil {
		t.Fatalf("second load: %v", err)
	}

	if calls != 2 {
		t.Fatalf("empty cached result should not satisfy a load, got %d fetches", calls)
	}
}

func TestLoad_FailFastWithNoCache(t *testing.T) {
	boom := errors.New("upstream down")
	c := New[int](5*time.Minute, func(ctx context.Context, params map[string]string) ([]int, error) {
		return nil, boom
	})

	_, err := c.Load(context.Background(), map[string]string{"date": "2025-10-08"}, false)
	if !errors.Is(err, boom) {
		t.Fatalf("expected hard failure, got %v", err)
	}
	if !errors.Is(c.Err(), boom) {
		t.Fatalf("expected error retained on cache, got %v", c.Err())
	}
}

func TestLoad_StaleFallbackOnFetchError(t *testing.T) {
	boom := errors.New("upstream down")
	fail := false
	c := New(5*time.Minute, func(ctx context.Context, params map[string]string) ([]int, error) {
		if fail {
			return nil, boom
		}
		return []int{7, 8}, nil
	})

	params := map[string]string{"date": "2025-10-08"}
	if _, err := c.Load(context.Background(), params, false); err != nil {
		t.Fatalf("warm-up load: %v", err)
	}

	fail = true
	res, err := c.Load(context.Background(), params, true)
	if err != nil {
		t.Fatalf("stale fallback should not error hard: %v", err)
	}
	if !res.Stale {
		t.Fatal("expected stale result")
	}
	if !errors.Is(res.Err, boom) {
		t.Fatalf("expected side-channel error, got %v", res.Err)
	}
	if len(res.Items) != 2 {
		t.Fatalf("expected stale items preserved, got %d", len(res.Items))
	}
}

func TestClear(t *testing.T) {
	c := New(5*time.Minute, func(ctx context.Context, params map[string]string) ([]int, error) {
		return []int{1}, nil
	})

	params := map[string]string{"date": "2025-10-08"}
	if _, err := c.Load(context.Background(), params, false); err != nil {
		t.Fatalf("load: %v", err)
	}

	c.Clear()
	if len(c.Items()) != 0 {
		t.Fatal("expected empty cache after Clear")
	}
}

// A fetch that started before a newer one completed must not clobber the
// newer entry once it finally returns.
func TestLoad_SupersededFetchDoesNotOverwrite(t *testing.T) {
	c := New[int](5*time.Minute, nil)

	release := make(chan struct{})
	slowStarted := make(chan struct{})
	c.fetch = func(ctx context.Context, params map[string]string) ([]int, error) {
		if params["date"] == "2025-10-08" {
			close(slowStarted)
			<-release
			return []int{1}, nil
		}
		return []int{2}, nil
	}

	done := make(chan Result[int])
	go func() {
		res, _ := c.Load(context.Background(), map[string]string{"date": "2025-10-08"}, false)
		done <- res
	}()
	<-slowStarted

	fresh, err := c.Load(context.Background(), map[string]string{"date": "2025-10-09"}, false)
	if err != nil {
		t.Fatalf("newer load: %v", err)
	}
	if fresh.Items[0] != 2 {
		t.Fatalf("expected newer result 2, got %d", fresh.Items[0])
	}

	close(release)
	old := <-done
	if old.Items[0] != 1 {
		t.Fatalf("superseded caller should still get its own items, got %d", old.Items[0])
	}

	// The cache must still hold the newer entry.
	items := c.Items()
	if len(items) != 1 || items[0] != 2 {
		t.Fatalf("expected cache to keep newer entry, got %v", items)
	}
}
