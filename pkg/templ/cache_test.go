package templ_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-webtempl/pkg/templ"
)

type compiled struct {
	source string
}

func TestRenderCache_ProductionReusesEntry(t *testing.T) {
	cache := templ.NewRenderCache[*compiled]()

	var loads int32
	source := "before"
	load := func() (*compiled, error) {
		atomic.AddInt32(&loads, 1)
		return &compiled{source: source}, nil
	}

	first, hit, err := cache.Get("page.templ", templ.Production, load)
	if err != nil || hit {
		t.Fatalf("first get: hit=%v err=%v", hit, err)
	}

	source = "after"
	second, hit, err := cache.Get("page.templ", templ.Production, load)
	if err != nil || !hit {
		t.Fatalf("second get: hit=%v err=%v", hit, err)
	}
	if first != second {
		t.Fatalf("expected the same compiled instance")
	}
	if second.source != "before" {
		t.Fatalf("expected original compilation, got %q", second.source)
	}
	if loads != 1 {
		t.Fatalf("expected one load, got %d", loads)
	}
	if diff := cmp.Diff([]string{"page.templ"}, cache.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderCache_DevelopmentBypasses(t *testing.T) {
	cache := templ.NewRenderCache[*compiled]()

	var loads int32
	load := func() (*compiled, error) {
		n := atomic.AddInt32(&loads, 1)
		return &compiled{source: string(rune('a' + n - 1))}, nil
	}

	first, hit, _ := cache.Get("page.templ", templ.Development, load)
	second, hit2, _ := cache.Get("page.templ", templ.Development, load)
	if hit || hit2 {
		t.Fatalf("development mode must never hit")
	}
	if first == second || first.source != "a" || second.source != "b" {
		t.Fatalf("expected two fresh compilations, got %q and %q", first.source, second.source)
	}
	if cache.Len() != 0 {
		t.Fatalf("development mode must not store entries, have %d", cache.Len())
	}
}

func TestRenderCache_DevelopmentIgnoresExistingEntries(t *testing.T) {
	cache := templ.NewRenderCache[*compiled]()
	cached, _, _ := cache.Get("page.templ", templ.Production, func() (*compiled, error) {
		return &compiled{source: "cached"}, nil
	})

	fresh, hit, _ := cache.Get("page.templ", templ.Development, func() (*compiled, error) {
		return &compiled{source: "fresh"}, nil
	})
	if hit || fresh == cached || fresh.source != "fresh" {
		t.Fatalf("development mode must reload, got %q (hit=%v)", fresh.source, hit)
	}

	again, hit, _ := cache.Get("page.templ", templ.Production, func() (*compiled, error) {
		t.Fatalf("production must reuse the stored entry")
		return nil, nil
	})
	if !hit || again != cached {
		t.Fatalf("expected stored entry after switching back to production")
	}
}

func TestRenderCache_FailuresAreNotStored(t *testing.T) {
	cache := templ.NewRenderCache[*compiled]()
	boom := errors.New("boom")

	_, _, err := cache.Get("bad.templ", templ.Production, func() (*compiled, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
	if cache.Len() != 0 {
		t.Fatalf("failed load must not be cached")
	}
}

func TestRenderCache_ConcurrentMissesCompileOnce(t *testing.T) {
	cache := templ.NewRenderCache[*compiled]()

	var loads int32
	release := make(chan struct{})
	load := func() (*compiled, error) {
		atomic.AddInt32(&loads, 1)
		<-release
		return &compiled{source: "shared"}, nil
	}

	const callers = 16
	var wg sync.WaitGroup
	results := make([]*compiled, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, _, err := cache.Get("page.templ", templ.Production, load)
			if err != nil {
				t.Errorf("get: %v", err)
			}
			results[i] = got
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if loads != 1 {
		t.Fatalf("expected a single compilation, got %d", loads)
	}
	for i, got := range results {
		if got != results[0] {
			t.Fatalf("caller %d observed a different instance", i)
		}
	}
}

func TestRenderCache_Purge(t *testing.T) {
	cache := templ.NewRenderCache[*compiled]()
	load := func() (*compiled, error) { return &compiled{}, nil }

	cache.Get("a.templ", templ.Production, load)
	cache.Get("b.templ", templ.Production, load)
	if cache.Len() != 2 {
		t.Fatalf("expected two entries, got %d", cache.Len())
	}
	cache.Purge()
	if cache.Len() != 0 {
		t.Fatalf("expected empty cache after purge")
	}
}
