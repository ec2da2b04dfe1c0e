package alumni

import (
	"errors"
	"strings"
	"time"
)

// Gender values accepted by the form.
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// Attendance answers for the alumni meet.
const (
	AttendingYes = "Yes"
	AttendingNo  = "No"
)

// ErrDuplicateName is returned when a record with the same first and last
// name (case-insensitive) is already stored.
var ErrDuplicateName = errors.New("an alumni with this name already exists")

// ErrNotFound is returned when a record id does not exist.
var ErrNotFound = errors.New("alumni record not found")

// Occupation is a taxonomy field plus its sub-field.
type Occupation struct {
	Field    string `json:"field" binding:"required"`
	SubField string `json:"subField" binding:"required"`
}

// Record is one alumni profile.
type Record struct {
	ID             string     `json:"id"`
	FirstName      string     `json:"firstName" binding:"required"`
	LastName       string     `json:"lastName" binding:"required"`
	Email          string     `json:"email" binding:"required"`
	Phone          string     `json:"phone" binding:"required"`
	Gender         string     `json:"gender"`
	Occupation     Occupation `json:"occupation"`
	ProfilePicture string     `json:"profilePicture,omitempty"` // data URL, or CDN URL once offloaded
	Message        string     `json:"message,omitempty"`
	AttendingMeet  string     `json:"attendingMeet" binding:"required"`
	CreatedAt      time.Time  `json:"createdAt,omitzero"`
}

// FullName joins first and last name.
func (r Record) FullName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

// HasInlinePicture reports whether the picture is still an embedded data URL.
func (r Record) HasInlinePicture() bool {
	return strings.HasPrefix(r.ProfilePicture, "data:")
}

// Normalize trims text fields and fills defaults for optional enums.
func (r Record) Normalize() Record {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Occupation.Field = strings.TrimSpace(r.Occupation.Field)
	r.Occupation.SubField = strings.TrimSpace(r.Occupation.SubField)
	r.Message = strings.TrimSpace(r.Message)
	r.Gender = strings.TrimSpace(r.Gender)
	if r.Gender == "" {
		r.Gender = GenderMale
	}
	return r
}

// ValidGender reports whether g is one of the accepted gender values.
func ValidGender(g string) bool {
	return g == GenderMale || g == GenderFemale
}

// ValidAttending reports whether a is Yes or No.
func ValidAttending(a string) bool {
	return a == AttendingYes || a == AttendingNo
}

// NameKey is the case-insensitive identity used by the uniqueness check.
func NameKey(firstName, lastName string) string {
	return strings.ToLower(strings.TrimSpace(firstName)) + "\x00" + strings.ToLower(strings.TrimSpace(lastName))
}
