package submission

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alumni/internal/alumni"
	"alumni/internal/recordstore"
)

type fakeStore struct {
	mu       sync.Mutex
	records  []alumni.Record
	checks   int
	creates  int
	checkErr error
	createFn func(alumni.Record) (alumni.Record, error)
	block    chan struct{}
}

func (f *fakeStore) ExistsByName(_ context.Context, first, last string) (bool, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checks++
	if f.checkErr != nil {
		return false, f.checkErr
	}
	for _, r := range f.records {
		if alumni.NameKey(r.FirstName, r.LastName) == alumni.NameKey(first, last) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) Create(_ context.Context, rec alumni.Record) (alumni.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.createFn != nil {
		return f.createFn(rec)
	}
	f.records = append(f.records, rec)
	return rec, nil
}

func completeDraft() Draft {
	d := NewDraft()
	d.FirstName = "A"
	d.LastName = "B"
	d.Email = "a@b.com"
	d.Phone = "1234567890"
	d.SubField = "IT"
	return d
}

func TestSubmitSuccessAssignsClientID(t *testing.T) {
	store := &fakeStore{}
	s := NewSubmitter(store, nil)
	s.newID = func() string { return "client-1" }

	rec, err := s.Submit(context.Background(), completeDraft())
	require.NoError(t, err)
	assert.Equal(t, "client-1", rec.ID)
	assert.Equal(t, alumni.Occupation{Field: "engineer", SubField: "IT"}, rec.Occupation)
	assert.Equal(t, alumni.AttendingNo, rec.AttendingMeet)
	assert.Equal(t, 1, store.creates)
	assert.False(t, s.InFlight())
}

func TestSubmitKeepsStoreID(t *testing.T) {
	store := &fakeStore{createFn: func(r alumni.Record) (alumni.Record, error) {
		r.ID = "srv-9"
		return r, nil
	}}
	rec, err := NewSubmitter(store, nil).Submit(context.Background(), completeDraft())
	require.NoError(t, err)
	assert.Equal(t, "srv-9", rec.ID)
}

func TestSubmitAcknowledgementOnly(t *testing.T) {
	store := &fakeStore{createFn: func(alumni.Record) (alumni.Record, error) {
		return alumni.Record{ID: "ack-1"}, nil
	}}
	rec, err := NewSubmitter(store, nil).Submit(context.Background(), completeDraft())
	require.NoError(t, err)
	assert.Equal(t, "ack-1", rec.ID)
	assert.Equal(t, "A", rec.FirstName)
	assert.Equal(t, "a@b.com", rec.Email)
}

func TestSubmitDuplicateIgnoresCase(t *testing.T) {
	store := &fakeStore{records: []alumni.Record{{FirstName: "Asha", LastName: "Rao"}}}
	d := completeDraft()
	d.FirstName = "Asha"
	d.LastName = "rao"

	_, err := NewSubmitter(store, nil).Submit(context.Background(), d)
	assert.ErrorIs(t, err, ErrDuplicateName)
	assert.Equal(t, 0, store.creates)
}

func TestSubmitDuplicateFromStoreRace(t *testing.T) {
	store := &fakeStore{createFn: func(alumni.Record) (alumni.Record, error) {
		return alumni.Record{}, alumni.ErrDuplicateName
	}}
	_, err := NewSubmitter(store, nil).Submit(context.Background(), completeDraft())
	assert.ErrorIs(t, err, ErrDuplicateName)
	assert.NotErrorIs(t, err, ErrSubmissionFailed)
}

func TestSubmitValidationMakesNoCalls(t *testing.T) {
	store := &fakeStore{}
	d := completeDraft()
	d.Email = "   "
	d.Phone = ""

	_, err := NewSubmitter(store, nil).Submit(context.Background(), d)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{FieldEmail, FieldPhone}, ve.Fields)
	assert.Zero(t, store.checks)
	assert.Zero(t, store.creates)
}

func TestSubmitRejectsValuesOutsideEnums(t *testing.T) {
	store := &fakeStore{}
	d := completeDraft()
	d.Gender = "robot"
	d.AttendingMeet = "Maybe"

	_, err := NewSubmitter(store, nil).Submit(context.Background(), d)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Empty(t, ve.Fields)
	assert.Equal(t, []string{FieldGender, FieldAttendingMeet}, ve.Invalid)
	assert.Zero(t, store.checks)
	assert.Zero(t, store.creates)

	d.Gender = " female "
	d.AttendingMeet = alumni.AttendingYes
	rec, err := NewSubmitter(store, nil).Submit(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, alumni.GenderFemale, rec.Gender)
}

func TestSubmitOtherFieldUsesFreeText(t *testing.T) {
	store := &fakeStore{}
	d := completeDraft()
	d.Field = "other"
	d.SubField = "IT"

	_, err := NewSubmitter(store, nil).Submit(context.Background(), d)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"occupation.subField"}, ve.Fields)

	d.OtherSubField = "Photography"
	rec, err := NewSubmitter(store, nil).Submit(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, "Photography", rec.Occupation.SubField)
}

func TestSubmitTransportErrorIsSubmissionFailed(t *testing.T) {
	te := &recordstore.TransportError{Op: "check-name", StatusCode: 500}
	store := &fakeStore{checkErr: te}

	_, err := NewSubmitter(store, nil).Submit(context.Background(), completeDraft())
	assert.ErrorIs(t, err, ErrSubmissionFailed)
	assert.NotErrorIs(t, err, ErrDuplicateName)
	var got *recordstore.TransportError
	assert.True(t, errors.As(err, &got))
	assert.Zero(t, store.creates)
}

func TestSubmitRejectsOverlap(t *testing.T) {
	store := &fakeStore{block: make(chan struct{})}
	s := NewSubmitter(store, nil)

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background(), completeDraft())
		done <- err
	}()
	require.Eventually(t, s.InFlight, time.Second, 5*time.Millisecond)

	_, err := s.Submit(context.Background(), completeDraft())
	assert.ErrorIs(t, err, ErrInFlight)

	close(store.block)
	require.NoError(t, <-done)
	assert.False(t, s.InFlight())
	assert.Equal(t, 1, store.creates)
}
