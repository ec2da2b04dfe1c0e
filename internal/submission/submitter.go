package submission

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alumni/internal/alumni"
)

// Store is the part of the record store the workflow talks to.
type Store interface {
	ExistsByName(ctx context.Context, firstName, lastName string) (bool, error)
	Create(ctx context.Context, rec alumni.Record) (alumni.Record, error)
}

// Submitter runs validate, name check and create for one form.
// Overlapping calls are rejected with ErrInFlight.
type Submitter struct {
	store    Store
	inFlight atomic.Bool
	newID    func() string
	log      *zap.Logger
}

// NewSubmitter creates a submitter bound to store.
func NewSubmitter(store Store, logger *zap.Logger) *Submitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Submitter{store: store, newID: uuid.NewString, log: logger}
}

// InFlight reports whether a submission is running.
func (s *Submitter) InFlight() bool { return s.inFlight.Load() }

// Submit validates d, checks the name is free and persists the record.
func (s *Submitter) Submit(ctx context.Context, d Draft) (alumni.Record, error) {
	valid, err := d.Validate()
	if err != nil {
		return alumni.Record{}, err
	}
	if !s.inFlight.CompareAndSwap(false, true) {
		return alumni.Record{}, ErrInFlight
	}
	defer s.inFlight.Store(false)

	rec := valid.Record()
	exists, err := s.store.ExistsByName(ctx, rec.FirstName, rec.LastName)
	if err != nil {
		s.log.Warn("name check failed", zap.Error(err))
		return alumni.Record{}, fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}
	if exists {
		return alumni.Record{}, ErrDuplicateName
	}

	created, err := s.store.Create(ctx, rec)
	if errors.Is(err, alumni.ErrDuplicateName) {
		// lost the race against another writer
		return alumni.Record{}, ErrDuplicateName
	}
	if err != nil {
		s.log.Warn("create failed", zap.Error(err))
		return alumni.Record{}, fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}
	if created.FirstName == "" && created.LastName == "" {
		// the store answered with an acknowledgement only
		id := created.ID
		created = rec
		created.ID = id
	}
	if created.ID == "" {
		created.ID = s.newID()
	}
	s.log.Info("alumni submitted", zap.String("id", created.ID), zap.String("field", created.Occupation.Field))
	return created, nil
}
