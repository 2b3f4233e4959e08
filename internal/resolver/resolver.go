// Package resolver maps loosely-specified entity name fragments to backend
// ids: explicit creation with the "+" marker, fuzzy matching against the
// cached list otherwise, and a configured default when the fragment is
// absent.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"fireshot/internal/cache"
	"fireshot/internal/core"
	"fireshot/internal/log"
)

// ErrEmptyName is returned when a creation marker carries no name. The
// backend is never called in that case.
var ErrEmptyName = errors.New("cannot create an entity with an empty name")

// DefaultThreshold is the score below which a match is logged as low
// confidence. Calibrated for WRatio; a different scorer would need a
// different value, which is why it is configurable.
const DefaultThreshold = 60

// Creator creates a new entity of a kind in the backend.
type Creator interface {
	CreateEntity(ctx context.Context, kind core.EntityKind, name string) (core.Entity, error)
}

// Options tunes a Resolver.
type Options struct {
	// Threshold is the minimum confident WRatio score; zero means
	// DefaultThreshold.
	Threshold int

	// Defaults maps a kind to the name resolved when the fragment is empty.
	// Kinds without a default resolve an empty fragment to no entity.
	Defaults map[core.EntityKind]string
}

type Resolver struct {
	cache     *cache.Cache
	creator   Creator
	threshold int
	defaults  map[core.EntityKind]string
	logger    *log.Logger
}

func New(c *cache.Cache, creator Creator, opts Options, logger *log.Logger) *Resolver {
	threshold := opts.Threshold
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	return &Resolver{
		cache:     c,
		creator:   creator,
		threshold: threshold,
		defaults:  opts.Defaults,
		logger:    logger,
	}
}

// Resolve maps a fragment to an entity of the given kind.
//
// An empty fragment resolves to the kind's configured default name, or to no
// entity (ok=false) when the kind has none. A fragment starting with the
// creation marker creates a new entity and invalidates the kind's cache so
// the next lookup re-fetches the authoritative list. Anything else is fuzzy
// matched; a best score below the threshold is logged but the match is
// still returned, leaving correction to /undo.
func (r *Resolver) Resolve(ctx context.Context, kind core.EntityKind, fragment string) (entity core.Entity, ok bool, err error) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		def, has := r.defaults[kind]
		if !has {
			return core.Entity{}, false, nil
		}
		fragment = def
	}

	if strings.HasPrefix(fragment, core.CreateMarker) {
		name := strings.TrimSpace(strings.TrimPrefix(fragment, core.CreateMarker))
		if name == "" {
			return core.Entity{}, false, ErrEmptyName
		}
		created, err := r.creator.CreateEntity(ctx, kind, name)
		if err != nil {
			return core.Entity{}, false, fmt.Errorf("create %s %q: %w", kind, name, err)
		}
		r.cache.Invalidate(kind)
		r.logger.Info("created entity",
			log.FieldKind, string(kind),
			log.FieldEntityID, created.ID,
			log.FieldMatch, created.Name)
		return created, true, nil
	}

	list, err := r.cache.Get(ctx, kind)
	if err != nil {
		return core.Entity{}, false, err
	}
	if list.Len() == 0 {
		return core.Entity{}, false, fmt.Errorf("no %s entries to match %q against", kind, fragment)
	}

	best, score := bestMatch(fragment, list.Names())
	if score < r.threshold {
		r.logger.Warn("low confidence match",
			log.FieldKind, string(kind),
			log.FieldFragment, fragment,
			log.FieldMatch, best,
			log.FieldScore, score)
	}
	id, _ := list.ID(best)
	return core.Entity{ID: id, Name: best}, true, nil
}

// bestMatch scores the fragment against every candidate with WRatio and
// returns the highest scorer. Candidates are scanned in slice order and only
// a strictly better score replaces the current best, so ties resolve to the
// first-encountered name. The candidate order comes from the cache snapshot,
// which preserves backend order, making tie-breaking stable.
func bestMatch(fragment string, candidates []string) (string, int) {
	best := ""
	bestScore := -1
	for _, name := range candidates {
		score := fuzzy.WRatio(fragment, name)
		if score > bestScore {
			best = name
			bestScore = score
		}
	}
	return best, bestScore
}
