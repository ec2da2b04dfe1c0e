// Package app is the client shell: it owns the directory view, the
// submission form and which of the two is on screen.
package app

import (
	"context"

	"go.uber.org/zap"

	"alumni/internal/alumni"
	"alumni/internal/directory"
	"alumni/internal/submission"
)

// Screen is the visible page.
type Screen string

const (
	ScreenDirectory Screen = "view"
	ScreenForm      Screen = "add"
)

// Store is what the shell needs from the record store.
type Store interface {
	directory.Loader
	submission.Store
}

// App holds client state for one user session.
type App struct {
	screen    Screen
	directory directory.View
	form      *submission.Form
	store     Store
	log       *zap.Logger
}

// New creates a shell showing an empty directory.
func New(store Store, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		screen:    ScreenDirectory,
		directory: directory.NewView(nil),
		form:      submission.NewForm(submission.NewSubmitter(store, logger)),
		store:     store,
		log:       logger,
	}
}

// Mount loads the directory. A load failure leaves an empty directory with a
// notice; it is logged, not returned.
func (a *App) Mount(ctx context.Context) {
	v, err := directory.Load(ctx, a.store)
	if err != nil {
		a.log.Warn("directory load failed", zap.Error(err))
	}
	a.directory = v.WithTab(a.directory.ActiveTab())
}

// Screen is the page on display.
func (a *App) Screen() Screen { return a.screen }

// Show switches pages.
func (a *App) Show(s Screen) { a.screen = s }

// Directory returns the directory state.
func (a *App) Directory() directory.View { return a.directory }

// SelectTab switches the directory filter.
func (a *App) SelectTab(tab string) { a.directory = a.directory.WithTab(tab) }

// Form returns the form state.
func (a *App) Form() submission.State { return a.form.State() }

// Dispatch applies a form event.
func (a *App) Dispatch(e submission.Event) submission.State { return a.form.Dispatch(e) }

// Submit runs the submission workflow. On success the record is appended to
// the directory and the directory is shown.
func (a *App) Submit(ctx context.Context) (alumni.Record, error) {
	rec, err := a.form.Submit(ctx)
	if err != nil {
		return alumni.Record{}, err
	}
	a.directory = a.directory.Append(rec)
	a.screen = ScreenDirectory
	return rec, nil
}
