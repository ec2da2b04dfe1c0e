package alumni

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"alumni/internal/queue"
)

const publishTimeout = 2 * time.Second

// Store is the persistence contract shared by Repository and MemoryRepository.
type Store interface {
	Create(ctx context.Context, rec Record) (Record, error)
	List(ctx context.Context) ([]Record, error)
	Get(ctx context.Context, id string) (Record, error)
	ExistsByName(ctx context.Context, firstName, lastName string) (bool, error)
	UpdatePicture(ctx context.Context, id, picture string) error
}

// Service coordinates the store, the listing cache and picture offload events.
type Service struct {
	store  Store
	cache  Cache
	events queue.Publisher
	log    *zap.Logger
}

// NewService creates a service. cache and events may be nil.
func NewService(store Store, cache Cache, events queue.Publisher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, cache: cache, events: events, log: logger}
}

// Create stores a new record. The id and timestamp are always assigned by the store.
func (s *Service) Create(ctx context.Context, rec Record) (Record, error) {
	rec = rec.Normalize()
	rec.ID = ""
	rec.CreatedAt = time.Time{}
	created, err := s.store.Create(ctx, rec)
	if err != nil {
		return Record{}, err
	}
	s.invalidate(ctx)

	if s.events != nil && created.HasInlinePicture() {
		s.publish(ctx, queue.Message{Type: queue.TypeAlumniCreated, Body: []byte(created.ID)})
	}
	return created, nil
}

// List returns all records in creation order, never nil.
func (s *Service) List(ctx context.Context) ([]Record, error) {
	var (
		gen      int64
		cacheErr error
	)
	if s.cache != nil {
		var (
			recs []Record
			ok   bool
		)
		recs, gen, ok, cacheErr = s.cache.Load(ctx)
		if cacheErr != nil {
			s.log.Debug("list cache load failed", zap.Error(cacheErr))
		}
		if ok {
			return nonNil(recs), nil
		}
	}
	recs, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	recs = nonNil(recs)
	// an unreadable generation cannot guard the write
	if s.cache != nil && cacheErr == nil {
		if err := s.cache.Store(ctx, gen, recs); err != nil {
			s.log.Debug("list cache store failed", zap.Error(err))
		}
	}
	return recs, nil
}

// Get returns one record.
func (s *Service) Get(ctx context.Context, id string) (Record, error) {
	return s.store.Get(ctx, id)
}

// ExistsByName is the advisory pre-write check used by the submission form.
func (s *Service) ExistsByName(ctx context.Context, firstName, lastName string) (bool, error) {
	return s.store.ExistsByName(ctx, firstName, lastName)
}

// ReplacePicture swaps an inline picture for its hosted URL.
func (s *Service) ReplacePicture(ctx context.Context, id, url string) error {
	if url == "" {
		return errors.New("picture url required")
	}
	if err := s.store.UpdatePicture(ctx, id, url); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// publish never holds up the request: it runs detached from the request's
// cancellation under publishTimeout. The record is already stored, so a
// dropped event only leaves its picture inline.
func (s *Service) publish(ctx context.Context, msg queue.Message) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.events.Publish(ctx, msg); err != nil {
		s.log.Warn("offload event dropped", zap.String("id", string(msg.Body)), zap.Error(err))
	}
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn("list cache invalidate failed", zap.Error(err))
	}
}

func nonNil(recs []Record) []Record {
	if recs == nil {
		return []Record{}
	}
	return recs
}
