package submission

import (
	"strings"

	"alumni/internal/alumni"
	"alumni/internal/taxonomy"
)

// Draft is a not-yet-persisted record as held by the form.
// Every field except Message and ProfilePicture must be filled before submit.
type Draft struct {
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	Gender        string
	Field         string
	SubField      string // selected from the taxonomy list
	OtherSubField string // free text, used when Field is taxonomy.Other
	AttendingMeet string

	Message        string
	ProfilePicture string
}

// NewDraft returns the form's initial values.
func NewDraft() Draft {
	return Draft{
		Gender:        alumni.GenderMale,
		Field:         "engineer",
		SubField:      taxonomy.DefaultSubField("engineer"),
		AttendingMeet: alumni.AttendingNo,
	}
}

// EffectiveSubField is the sub-field that will be stored.
func (d Draft) EffectiveSubField() string {
	if d.Field == taxonomy.Other {
		return d.OtherSubField
	}
	return d.SubField
}

// Valid is a draft that passed Validate. It can only be built by Validate.
type Valid struct {
	rec alumni.Record
}

// Record returns the record to persist. It carries no id.
func (v Valid) Record() alumni.Record { return v.rec }

// Validate checks required fields and enum values, and fills defaults.
func (d Draft) Validate() (Valid, error) {
	rec := alumni.Record{
		FirstName:      d.FirstName,
		LastName:       d.LastName,
		Email:          d.Email,
		Phone:          d.Phone,
		Gender:         d.Gender,
		Occupation:     alumni.Occupation{Field: d.Field, SubField: d.EffectiveSubField()},
		ProfilePicture: d.ProfilePicture,
		Message:        d.Message,
		AttendingMeet:  strings.TrimSpace(d.AttendingMeet),
	}.Normalize()

	required := []struct {
		name  string
		value string
	}{
		{FieldFirstName, rec.FirstName},
		{FieldLastName, rec.LastName},
		{FieldEmail, rec.Email},
		{FieldPhone, rec.Phone},
		{"occupation.field", rec.Occupation.Field},
		{"occupation.subField", rec.Occupation.SubField},
		{FieldAttendingMeet, rec.AttendingMeet},
	}
	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.name)
		}
	}
	var invalid []string
	if !alumni.ValidGender(rec.Gender) {
		invalid = append(invalid, FieldGender)
	}
	if rec.AttendingMeet != "" && !alumni.ValidAttending(rec.AttendingMeet) {
		invalid = append(invalid, FieldAttendingMeet)
	}
	if len(missing) > 0 || len(invalid) > 0 {
		return Valid{}, &ValidationError{Fields: missing, Invalid: invalid}
	}
	return Valid{rec: rec}, nil
}
