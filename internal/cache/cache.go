// Package cache memoizes the backend's entity lists per kind.
//
// Each kind (expense accounts, categories) is fetched at most once between
// invalidations. Creating a new entity invalidates its kind so the next
// lookup re-fetches the authoritative list instead of patching in place.
// Concurrent populations of the same kind are benign: both fetch the same
// snapshot and the last write wins. A reader racing another request's
// invalidation may see a list that is stale by one round trip; that window
// is accepted, but a load that started before an invalidation is never
// stored, so staleness cannot outlive the in-flight fetch.
package cache

import (
	"context"
	"fmt"
	"sync"

	"fireshot/internal/core"
	"fireshot/internal/log"
)

// LoaderFunc fetches the authoritative entity list for a kind.
type LoaderFunc func(ctx context.Context, kind core.EntityKind) ([]core.Entity, error)

// Cache memoizes one entity list per kind.
type Cache struct {
	load   LoaderFunc
	logger *log.Logger

	mu    sync.Mutex
	lists map[core.EntityKind]*List
	// generations move on every Invalidate; a load begun under an older
	// generation carries a pre-invalidation snapshot and is not stored.
	generations map[core.EntityKind]uint64
}

func New(load LoaderFunc, logger *log.Logger) *Cache {
	return &Cache{
		load:        load,
		logger:      logger,
		lists:       make(map[core.EntityKind]*List),
		generations: make(map[core.EntityKind]uint64),
	}
}

// Get returns the cached list for kind, populating it through the loader on
// first access. The lock is never held across the network call; if an
// invalidation lands while the load is in flight, the loaded snapshot is
// returned to this caller but discarded rather than stored.
func (c *Cache) Get(ctx context.Context, kind core.EntityKind) (*List, error) {
	c.mu.Lock()
	if list, ok := c.lists[kind]; ok {
		c.mu.Unlock()
		return list, nil
	}
	generation := c.generations[kind]
	c.mu.Unlock()

	entities, err := c.load(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("load %s list: %w", kind, err)
	}
	list := newList(entities)

	c.mu.Lock()
	switch {
	case c.generations[kind] != generation:
		c.logger.Debug("discarding entity list loaded before invalidation",
			log.FieldKind, string(kind))
		if cached, ok := c.lists[kind]; ok {
			list = cached
		}
	default:
		c.lists[kind] = list
		c.logger.Debug("populated entity list",
			log.FieldKind, string(kind), "entries", list.Len())
	}
	c.mu.Unlock()
	return list, nil
}

// Invalidate drops the memoized list for kind only.
func (c *Cache) Invalidate(kind core.EntityKind) {
	c.mu.Lock()
	delete(c.lists, kind)
	c.generations[kind]++
	c.mu.Unlock()
	c.logger.Debug("invalidated entity list", log.FieldKind, string(kind))
}

// List is an immutable name→id snapshot preserving the backend's order.
type List struct {
	names []string
	ids   map[string]string
}

func newList(entities []core.Entity) *List {
	l := &List{
		names: make([]string, 0, len(entities)),
		ids:   make(map[string]string, len(entities)),
	}
	for _, e := range entities {
		if _, seen := l.ids[e.Name]; !seen {
			l.names = append(l.names, e.Name)
		}
		l.ids[e.Name] = e.ID
	}
	return l
}

// Names returns the entity names in backend order.
func (l *List) Names() []string {
	return l.names
}

// ID returns the id for a canonical name.
func (l *List) ID(name string) (string, bool) {
	id, ok := l.ids[name]
	return id, ok
}

func (l *List) Len() int {
	return len(l.names)
}
