package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestPool_RunsAllTasks(t *testing.T) {
	pool := NewPool(context.Background(), 3)
	pool.Start()

	var count int64
	for i := 0; i < 20; i++ {
		if err := pool.Submit(func(ctx context.Context) error {
			atomic.AddInt64(&count, 1)
			return nil
		}); err != nil {
			t.Fatalf("Failed to submit task: %v", err)
		}
	}

	if err := pool.Wait(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if count != 20 {
		t.Errorf("Expected 20 tasks run, got %d", count)
	}
}

func TestPool_ReturnsFirstError(t *testing.T) {
	pool := NewPool(context.Background(), 1)
	pool.Start()

	errFirst := errors.New("first")
	_ = pool.Submit(func(ctx context.Context) error { return errFirst })

	if err := pool.Wait(); !errors.Is(err, errFirst) {
		t.Errorf("Expected first error, got %v", err)
	}
}
