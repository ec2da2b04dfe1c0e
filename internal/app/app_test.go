package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alumni/internal/alumni"
	"alumni/internal/directory"
	"alumni/internal/submission"
)

type countingStore struct {
	*alumni.MemoryRepository
	creates int
	listErr error
}

func (s *countingStore) Create(ctx context.Context, rec alumni.Record) (alumni.Record, error) {
	s.creates++
	return s.MemoryRepository.Create(ctx, rec)
}

func (s *countingStore) List(ctx context.Context) ([]alumni.Record, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.MemoryRepository.List(ctx)
}

func fill(a *App, first, last string) {
	for _, e := range []submission.Event{
		submission.SetField{Name: submission.FieldFirstName, Value: first},
		submission.SetField{Name: submission.FieldLastName, Value: last},
		submission.SetField{Name: submission.FieldEmail, Value: "a@b.com"},
		submission.SetField{Name: submission.FieldPhone, Value: "1234567890"},
		submission.SetField{Name: submission.FieldGender, Value: alumni.GenderMale},
		submission.SelectOccupation{Field: "engineer"},
		submission.SetField{Name: submission.FieldSubField, Value: "IT"},
		submission.SetField{Name: submission.FieldAttendingMeet, Value: alumni.AttendingNo},
	} {
		a.Dispatch(e)
	}
}

func TestSubmitIntoEmptyStore(t *testing.T) {
	store := &countingStore{MemoryRepository: alumni.NewMemoryRepository()}
	a := New(store, nil)
	ctx := context.Background()
	a.Mount(ctx)
	a.Show(ScreenForm)

	fill(a, "A", "B")
	rec, err := a.Submit(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, store.creates)
	assert.Equal(t, ScreenDirectory, a.Screen())
	visible := directory.List(a.Directory().Records(), directory.All)
	require.Len(t, visible, 1)
	assert.Equal(t, rec.ID, visible[0].ID)
	assert.Equal(t, alumni.Occupation{Field: "engineer", SubField: "IT"}, visible[0].Occupation)
}

func TestSubmitDuplicateStaysOnForm(t *testing.T) {
	repo := alumni.NewMemoryRepository()
	_, err := repo.Create(context.Background(), alumni.Record{FirstName: "Asha", LastName: "Rao"})
	require.NoError(t, err)
	store := &countingStore{MemoryRepository: repo}

	a := New(store, nil)
	a.Mount(context.Background())
	a.Show(ScreenForm)
	fill(a, "Asha", "rao")

	_, err = a.Submit(context.Background())
	assert.ErrorIs(t, err, submission.ErrDuplicateName)
	assert.Zero(t, store.creates)
	assert.Equal(t, ScreenForm, a.Screen())
	assert.Equal(t, "Asha", a.Form().Draft.FirstName)
	assert.Len(t, a.Directory().Records(), 1)
}

func TestMountFailureDegrades(t *testing.T) {
	store := &countingStore{MemoryRepository: alumni.NewMemoryRepository(), listErr: errors.New("down")}
	a := New(store, nil)
	a.SelectTab("banking")
	a.Mount(context.Background())

	assert.Empty(t, a.Directory().Visible())
	assert.Equal(t, "Failed to load alumni data", a.Directory().Notice())
	assert.Equal(t, "banking", a.Directory().ActiveTab())
}
