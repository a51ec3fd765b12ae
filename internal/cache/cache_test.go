package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

func newTestCache() (*Cache, *time.Time) {
	c := New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	now := time.Unix(1000, 0)
	c.SetClock(func() time.Time { return now })
	return c, &now
}

func countingCompute(calls *int, value interface{}) ComputeFunc {
	return func(ctx context.Context) (interface{}, error) {
		*calls++
		return value, nil
	}
}

func TestGetOrComputeTTL(t *testing.T) {
	c, now := newTestCache()
	ctx := context.Background()
	calls := 0

	t.Run("FirstCallComputes", func(t *testing.T) {
		value, err := c.GetOrCompute(ctx, "orders", time.Second, countingCompute(&calls, "v1"))
		if err != nil {
			t.Fatalf("GetOrCompute failed: %v", err)
		}
		if value != "v1" {
			t.Errorf("Expected v1, got %v", value)
		}
		if calls != 1 {
			t.Errorf("Expected 1 compute call, got %d", calls)
		}
	})

	t.Run("FreshEntryServedWithoutRecompute", func(t *testing.T) {
		*now = now.Add(999 * time.Millisecond)
		value, err := c.GetOrCompute(ctx, "orders", time.Second, countingCompute(&calls, "v2"))
		if err != nil {
			t.Fatalf("GetOrCompute failed: %v", err)
		}
		if value != "v1" {
			t.Errorf("Expected cached v1, got %v", value)
		}
		if calls != 1 {
			t.Errorf("Expected no recompute at t=999ms, got %d calls", calls)
		}
	})

	t.Run("ExpiredEntryRecomputed", func(t *testing.T) {
		*now = now.Add(2 * time.Millisecond) // t = 1001ms
		value, err := c.GetOrCompute(ctx, "orders", time.Second, countingCompute(&calls, "v2"))
		if err != nil {
			t.Fatalf("GetOrCompute failed: %v", err)
		}
		if value != "v2" {
			t.Errorf("Expected recomputed v2, got %v", value)
		}
		if calls != 2 {
			t.Errorf("Expected recompute at t=1001ms, got %d calls", calls)
		}
	})
}

func TestInvalidateForcesRecompute(t *testing.T) {
	c, now := newTestCache()
	ctx := context.Background()
	calls := 0

	if _, err := c.GetOrCompute(ctx, "products", time.Second, countingCompute(&calls, "v1")); err != nil {
		t.Fatalf("GetOrCompute failed: %v", err)
	}

	// Invalidate well before the TTL elapses
	*now = now.Add(500 * time.Millisecond)
	c.Invalidate("products")

	*now = now.Add(time.Millisecond)
	value, err := c.GetOrCompute(ctx, "products", time.Second, countingCompute(&calls, "v2"))
	if err != nil {
		t.Fatalf("GetOrCompute failed: %v", err)
	}
	if value != "v2" {
		t.Errorf("Expected recomputed v2 after invalidate, got %v", value)
	}
	if calls != 2 {
		t.Errorf("Expected 2 compute calls, got %d", calls)
	}
}

func TestInvalidateMissingKeyIsNoOp(t *testing.T) {
	c, _ := newTestCache()
	c.Invalidate("never_stored")
	if c.Len() != 0 {
		t.Errorf("Expected empty cache, got %d entries", c.Len())
	}
}

func TestFailedComputeDoesNotPopulate(t *testing.T) {
	c, _ := newTestCache()
	ctx := context.Background()
	computeErr := errors.New("store unreachable")

	_, err := c.GetOrCompute(ctx, "orders", time.Second, func(ctx context.Context) (interface{}, error) {
		return nil, computeErr
	})
	if !errors.Is(err, computeErr) {
		t.Fatalf("Expected compute error to propagate, got %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Failed compute must not populate the cache, got %d entries", c.Len())
	}

	// Next call must retry the compute rather than serving anything
	calls := 0
	value, err := c.GetOrCompute(ctx, "orders", time.Second, countingCompute(&calls, "recovered"))
	if err != nil {
		t.Fatalf("GetOrCompute failed: %v", err)
	}
	if value != "recovered" || calls != 1 {
		t.Errorf("Expected fresh compute after failure, got value=%v calls=%d", value, calls)
	}
}

func TestInvalidateMultipleKeys(t *testing.T) {
	c, _ := newTestCache()
	ctx := context.Background()
	calls := 0

	for _, key := range []string{KeyProducts, KeyAvailableProducts, KeyAllProducts} {
		if _, err := c.GetOrCompute(ctx, key, time.Minute, countingCompute(&calls, key)); err != nil {
			t.Fatalf("GetOrCompute(%s) failed: %v", key, err)
		}
	}
	if c.Len() != 3 {
		t.Fatalf("Expected 3 entries, got %d", c.Len())
	}

	c.Invalidate(KeyProducts, KeyAvailableProducts, KeyAllProducts)
	if c.Len() != 0 {
		t.Errorf("Expected all product keys removed, got %d entries", c.Len())
	}
}
