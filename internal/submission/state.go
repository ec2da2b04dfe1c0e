package submission

import (
	"errors"

	"alumni/internal/alumni"
	"alumni/internal/taxonomy"
)

// Form input names accepted by SetField.
const (
	FieldFirstName     = "firstName"
	FieldLastName      = "lastName"
	FieldEmail         = "email"
	FieldPhone         = "phone"
	FieldGender        = "gender"
	FieldSubField      = "subField"
	FieldOtherSubField = "otherSubField"
	FieldAttendingMeet = "attendingMeet"
	FieldMessage       = "message"
)

// Notice levels.
const (
	LevelSuccess = "success"
	LevelError   = "error"
)

// Notice is a user-visible notification produced by a transition.
type Notice struct {
	Level  string
	Title  string
	Detail string
}

// State is the whole form state. Transitions never mutate a State in place.
type State struct {
	Draft    Draft
	InFlight bool
	Notice   *Notice
	Last     *alumni.Record // most recently submitted record
}

// NewState returns the initial form state.
func NewState() State {
	return State{Draft: NewDraft()}
}

// Event is a form transition.
type Event interface {
	apply(State) State
}

// Reduce returns the state after e.
func Reduce(s State, e Event) State {
	if e == nil {
		return s
	}
	return e.apply(s)
}

// SetField sets one text input. Unknown names leave the state unchanged.
type SetField struct {
	Name  string
	Value string
}

func (e SetField) apply(s State) State {
	d := s.Draft
	switch e.Name {
	case FieldFirstName:
		d.FirstName = e.Value
	case FieldLastName:
		d.LastName = e.Value
	case FieldEmail:
		d.Email = e.Value
	case FieldPhone:
		d.Phone = e.Value
	case FieldGender:
		d.Gender = e.Value
	case FieldSubField:
		d.SubField = e.Value
	case FieldOtherSubField:
		d.OtherSubField = e.Value
	case FieldAttendingMeet:
		d.AttendingMeet = e.Value
	case FieldMessage:
		d.Message = e.Value
	default:
		return s
	}
	s.Draft = d
	return s
}

// SelectOccupation changes the occupation field and resets the sub-field to
// the field's first taxonomy entry. Selecting taxonomy.Other clears both the
// sub-field and the free-text input.
type SelectOccupation struct {
	Field string
}

func (e SelectOccupation) apply(s State) State {
	s.Draft.Field = e.Field
	s.Draft.SubField = taxonomy.DefaultSubField(e.Field)
	if e.Field == taxonomy.Other {
		s.Draft.OtherSubField = ""
	}
	return s
}

// AttachPicture sets the profile picture data URL. An empty value removes it.
type AttachPicture struct {
	DataURL string
}

func (e AttachPicture) apply(s State) State {
	s.Draft.ProfilePicture = e.DataURL
	return s
}

// SubmitStarted marks the form busy and clears the previous notice.
type SubmitStarted struct{}

func (SubmitStarted) apply(s State) State {
	s.InFlight = true
	s.Notice = nil
	return s
}

// SubmitSucceeded resets the draft and records the stored record.
type SubmitSucceeded struct {
	Record alumni.Record
}

func (e SubmitSucceeded) apply(s State) State {
	rec := e.Record
	return State{
		Draft: NewDraft(),
		Last:  &rec,
		Notice: &Notice{
			Level:  LevelSuccess,
			Title:  "Profile added successfully!",
			Detail: "Welcome to the alumni network, " + rec.FirstName + "!",
		},
	}
}

// SubmitFailed keeps the draft and reports the failure.
type SubmitFailed struct {
	Err error
}

func (e SubmitFailed) apply(s State) State {
	if !errors.Is(e.Err, ErrInFlight) {
		s.InFlight = false
	}
	s.Notice = &Notice{Level: LevelError, Title: failureTitle(e.Err)}
	var ve *ValidationError
	if errors.As(e.Err, &ve) {
		s.Notice.Detail = ve.Error()
	}
	return s
}

// Reset restores the initial draft.
type Reset struct{}

func (Reset) apply(State) State { return NewState() }

func failureTitle(err error) string {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve) && len(ve.Fields) == 0:
		return "Please correct the highlighted fields"
	case errors.As(err, &ve):
		return "Please fill in all required fields"
	case errors.Is(err, ErrDuplicateName):
		return "An alumni with this name already exists"
	case errors.Is(err, ErrInFlight):
		return "A submission is already in progress"
	default:
		return "Failed to save alumni data"
	}
}
