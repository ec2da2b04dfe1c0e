package submission

import (
	"context"

	"alumni/internal/alumni"
)

// Form binds a State to a Submitter.
type Form struct {
	state     State
	submitter *Submitter
}

// NewForm creates a form with the initial state.
func NewForm(submitter *Submitter) *Form {
	return &Form{state: NewState(), submitter: submitter}
}

// State returns the current state.
func (f *Form) State() State { return f.state }

// Dispatch applies e.
func (f *Form) Dispatch(e Event) State {
	f.state = Reduce(f.state, e)
	return f.state
}

// Submit runs the workflow on the current draft.
// The draft is kept on failure and reset on success.
func (f *Form) Submit(ctx context.Context) (alumni.Record, error) {
	if f.state.InFlight || f.submitter.InFlight() {
		f.Dispatch(SubmitFailed{Err: ErrInFlight})
		return alumni.Record{}, ErrInFlight
	}
	f.Dispatch(SubmitStarted{})
	rec, err := f.submitter.Submit(ctx, f.state.Draft)
	if err != nil {
		f.Dispatch(SubmitFailed{Err: err})
		return alumni.Record{}, err
	}
	f.Dispatch(SubmitSucceeded{Record: rec})
	return rec, nil
}
