package future_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-webtempl/pkg/future"
)

func TestPromise_CompleteOnce(t *testing.T) {
	p := future.NewPromise[string]()

	if !p.Complete("first") {
		t.Fatalf("expected first completion to succeed")
	}
	if p.Complete("second") {
		t.Fatalf("expected second completion to be ignored")
	}
	if p.Fail(errors.New("late")) {
		t.Fatalf("expected late failure to be ignored")
	}

	got, err := p.Future().Await(context.Background())
	if err != nil {
		t.Fatalf("await: %v", err)
	}
	if got != "first" {
		t.Fatalf("want first, got %q", got)
	}
}

func TestFuture_OnCompleteBeforeAndAfter(t *testing.T) {
	p := future.NewPromise[int]()
	f := p.Future()

	var (
		mu    sync.Mutex
		calls []int
	)
	record := func(v int, err error) {
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		mu.Lock()
		calls = append(calls, v)
		mu.Unlock()
	}

	f.OnComplete(record)
	p.Complete(7)
	f.OnComplete(record)

	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 2 || calls[0] != 7 || calls[1] != 7 {
		t.Fatalf("unexpected handler calls: %v", calls)
	}
}

func TestFuture_FailurePropagates(t *testing.T) {
	boom := errors.New("boom")
	f := future.Failed[string](boom)

	if !f.IsComplete() {
		t.Fatalf("expected failed future to be complete")
	}
	_, err := f.Await(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
}

func TestFuture_AwaitHonoursContext(t *testing.T) {
	p := future.NewPromise[string]()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := p.Future().Await(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("want deadline exceeded, got %v", err)
	}
	if p.Future().IsComplete() {
		t.Fatalf("await timeout must not complete the future")
	}
}

func TestMap(t *testing.T) {
	upper := future.Map(future.Succeeded("badger"), func(s string) (string, error) {
		return strings.ToUpper(s), nil
	})
	got, err := upper.Await(context.Background())
	if err != nil || got != "BADGER" {
		t.Fatalf("map: got %q, %v", got, err)
	}

	boom := errors.New("boom")
	failed := future.Map(future.Failed[string](boom), func(s string) (int, error) {
		t.Fatalf("mapper must not run on failure")
		return 0, nil
	})
	if _, err := failed.Await(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
}
