package content

import (
	"context"
	"errors"
	"log"
	"sync"

	"studio/blob"
	"studio/docstore"
	"studio/types"
)

// FeaturedLimit bounds the landing-page highlight subset.
const FeaturedLimit = 3

// EventSink receives best-effort content change notifications.
// Implementations must not block.
type EventSink interface {
	PublishChange(collection, op, id string)
}

// Change operation names passed to the EventSink.
const (
	OpCreated = "created"
	OpUpdated = "updated"
	OpDeleted = "deleted"
)

// Config tunes the content service.
type Config struct {
	// StrictReads makes list/point reads surface remote failures.
	// The default (lenient) mode logs them and serves empty results so
	// transient read failures never break the public site.
	StrictReads bool
	// Blobs handles file uploads. Optional; uploads fail cleanly when absent.
	Blobs blob.Store
	// Events receives change notifications. Optional.
	Events EventSink
}

// Service is the single owner of the four cached content collections
// and of every operation that reads or writes them. Mutations follow
// one contract: perform the remote write, then unconditionally re-fetch
// the whole collection so the cache always matches server-observed
// order and server-assigned timestamps.
type Service struct {
	store  docstore.Store
	blobs  blob.Store
	events EventSink
	strict bool

	mu         sync.RWMutex
	profile    *types.Profile
	articles   []types.Article
	projects   []types.Project
	categories []types.Category
	ready      bool

	// Refresh generations: a re-list that finished after a newer one
	// must not clobber the newer cache contents.
	nextGen    map[string]uint64
	appliedGen map[string]uint64
}

// NewService creates the content service. Call Load before serving.
func NewService(store docstore.Store, cfg Config) *Service {
	return &Service{
		store:      store,
		blobs:      cfg.Blobs,
		events:     cfg.Events,
		strict:     cfg.StrictReads,
		nextGen:    make(map[string]uint64),
		appliedGen: make(map[string]uint64),
	}
}

// Load issues the four initial fetches concurrently and marks the
// service ready once all of them have settled, successful or not.
func (s *Service) Load(ctx context.Context) error {
	var wg sync.WaitGroup
	errs := make([]error, 4)

	wg.Add(4)
	go func() { defer wg.Done(); _, errs[0] = s.RefreshProfile(ctx) }()
	go func() { defer wg.Done(); _, errs[1] = s.RefreshArticles(ctx) }()
	go func() { defer wg.Done(); _, errs[2] = s.RefreshProjects(ctx) }()
	go func() { defer wg.Done(); _, errs[3] = s.RefreshCategories(ctx) }()
	wg.Wait()

	s.mu.Lock()
	s.ready = true
	s.mu.Unlock()

	return errors.Join(errs...)
}

// Ready reports whether the initial load has settled.
func (s *Service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// beginRefresh reserves a refresh generation for the collection.
func (s *Service) beginRefresh(collection string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextGen[collection]++
	return s.nextGen[collection]
}

// commit runs apply under the write lock if gen is still the newest
// completed refresh for the collection. Stale refreshes are dropped.
func (s *Service) commit(collection string, gen uint64, apply func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen <= s.appliedGen[collection] {
		return
	}
	s.appliedGen[collection] = gen
	apply()
}

// absorbReadError implements the read failure policy: strict mode
// returns the error, lenient mode logs and absorbs it.
func (s *Service) absorbReadError(what string, err error) error {
	if err == nil {
		return nil
	}
	if s.strict {
		return err
	}
	log.Printf("failed to fetch %s: %v", what, err)
	return nil
}

func (s *Service) publish(collection, op, id string) {
	if s.events != nil {
		s.events.PublishChange(collection, op, id)
	}
}

// refreshAfterMutation re-lists the collection after a successful
// write. The mutation itself already succeeded, so a refresh failure
// is logged rather than turned into a caller-visible error.
func (s *Service) refreshAfterMutation(ctx context.Context, collection string) {
	var err error
	switch collection {
	case types.CollectionSettings:
		_, err = s.RefreshProfile(ctx)
	case types.CollectionBlogs:
		_, err = s.RefreshArticles(ctx)
	case types.CollectionProjects:
		_, err = s.RefreshProjects(ctx)
	case types.CollectionCategories:
		_, err = s.RefreshCategories(ctx)
	}
	if err != nil {
		log.Printf("cache refresh for %s failed after mutation: %v", collection, err)
	}
}
