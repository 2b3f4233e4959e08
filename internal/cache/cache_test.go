package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"fireshot/internal/core"
	"fireshot/internal/log"
)

func countingLoader(counter *atomic.Int32, entities map[core.EntityKind][]core.Entity) LoaderFunc {
	return func(ctx context.Context, kind core.EntityKind) ([]core.Entity, error) {
		counter.Add(1)
		return entities[kind], nil
	}
}

func TestGet_PopulatesOncePerKind(t *testing.T) {
	var calls atomic.Int32
	c := New(countingLoader(&calls, map[core.EntityKind][]core.Entity{
		core.KindAccount:  {{ID: "1", Name: "Supermarket"}},
		core.KindCategory: {{ID: "7", Name: "Food"}},
	}), log.Discard())

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := c.Get(ctx, core.KindAccount); err != nil {
			t.Fatalf("Get: %v", err)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times for one kind, want 1", got)
	}

	if _, err := c.Get(ctx, core.KindCategory); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("loader called %d times for two kinds, want 2", got)
	}
}

func TestInvalidate_DropsOnlyThatKind(t *testing.T) {
	var calls atomic.Int32
	c := New(countingLoader(&calls, map[core.EntityKind][]core.Entity{
		core.KindAccount:  {{ID: "1", Name: "Supermarket"}},
		core.KindCategory: {{ID: "7", Name: "Food"}},
	}), log.Discard())

	ctx := context.Background()
	c.Get(ctx, core.KindAccount)
	c.Get(ctx, core.KindCategory)

	c.Invalidate(core.KindCategory)

	c.Get(ctx, core.KindAccount) // still memoized
	c.Get(ctx, core.KindCategory)

	if got := calls.Load(); got != 3 {
		t.Fatalf("loader called %d times, want 3 (one refetch after invalidation)", got)
	}
}

func TestGet_ReflectsListAfterInvalidation(t *testing.T) {
	entities := []core.Entity{{ID: "1", Name: "Supermarket"}}
	var mu sync.Mutex
	c := New(func(ctx context.Context, kind core.EntityKind) ([]core.Entity, error) {
		mu.Lock()
		defer mu.Unlock()
		return append([]core.Entity(nil), entities...), nil
	}, log.Discard())

	ctx := context.Background()
	list, err := c.Get(ctx, core.KindAccount)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if list.Len() != 1 {
		t.Fatalf("Len = %d, want 1", list.Len())
	}

	mu.Lock()
	entities = append(entities, core.Entity{ID: "2", Name: "Bakery"})
	mu.Unlock()
	c.Invalidate(core.KindAccount)

	list, err = c.Get(ctx, core.KindAccount)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if id, ok := list.ID("Bakery"); !ok || id != "2" {
		t.Fatalf("new entity not visible after invalidation, got %q/%v", id, ok)
	}
}

func TestGet_DiscardsLoadStartedBeforeInvalidation(t *testing.T) {
	entities := []core.Entity{{ID: "1", Name: "Supermarket"}}
	var mu sync.Mutex
	started := make(chan struct{})
	release := make(chan struct{})
	first := true
	c := New(func(ctx context.Context, kind core.EntityKind) ([]core.Entity, error) {
		mu.Lock()
		snapshot := append([]core.Entity(nil), entities...)
		gate := first
		first = false
		mu.Unlock()
		if gate {
			close(started)
			<-release
		}
		return snapshot, nil
	}, log.Discard())

	ctx := context.Background()
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Get(ctx, core.KindAccount)
	}()
	<-started

	// A new entity lands and the kind is invalidated while the first load
	// is still in flight with its pre-creation snapshot.
	mu.Lock()
	entities = append(entities, core.Entity{ID: "2", Name: "Snacks"})
	mu.Unlock()
	c.Invalidate(core.KindAccount)
	close(release)
	<-done

	list, err := c.Get(ctx, core.KindAccount)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if id, ok := list.ID("Snacks"); !ok || id != "2" {
		t.Fatalf("stale pre-invalidation snapshot was stored, got %q/%v", id, ok)
	}
}

func TestGet_LoaderError(t *testing.T) {
	loadErr := errors.New("backend down")
	c := New(func(ctx context.Context, kind core.EntityKind) ([]core.Entity, error) {
		return nil, loadErr
	}, log.Discard())

	if _, err := c.Get(context.Background(), core.KindAccount); !errors.Is(err, loadErr) {
		t.Fatalf("Get error = %v, want %v", err, loadErr)
	}
}

func TestGet_ConcurrentReaders(t *testing.T) {
	var calls atomic.Int32
	c := New(countingLoader(&calls, map[core.EntityKind][]core.Entity{
		core.KindAccount: {{ID: "1", Name: "Supermarket"}},
	}), log.Discard())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			list, err := c.Get(context.Background(), core.KindAccount)
			if err != nil {
				t.Errorf("Get: %v", err)
				return
			}
			if list.Len() != 1 {
				t.Errorf("Len = %d, want 1", list.Len())
			}
		}()
	}
	wg.Wait()
	// Duplicate populations are allowed but every reader must see a full list.
}

func TestList_PreservesOrder(t *testing.T) {
	list := newList([]core.Entity{
		{ID: "3", Name: "Cafe"},
		{ID: "1", Name: "Supermarket"},
		{ID: "2", Name: "Bakery"},
	})
	want := []string{"Cafe", "Supermarket", "Bakery"}
	got := list.Names()
	if len(got) != len(want) {
		t.Fatalf("Names = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Names[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
