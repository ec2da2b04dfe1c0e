// Package taxonomy holds the static occupation field to sub-field mapping
// that drives the submission form and the directory tabs.
package taxonomy

import "strings"

// Other is the field whose sub-field is free text.
const Other = "other"

var fields = []string{"engineer", "business", "government", "banking", "healthcare", "education", Other}

var subFields = map[string][]string{
	"engineer":   {"Software Development", "IT", "Mechanical", "Civil", "Electrical", "Chemical"},
	"business":   {"Retail", "Agriculture", "Manufacturing", "E-commerce", "Consulting", "Real Estate"},
	"government": {"Administration", "Forest Department", "Rural Development", "Water Resources", "Education"},
	"banking":    {"Probationary Officer", "Clerk", "Risk Management", "Investment Banking", "Financial Analysis"},
	"healthcare": {"Medicine", "Nursing", "Pharmacy", "Research", "Administration"},
	"education":  {"Teaching", "Research", "Administration", "Counseling"},
	Other:        nil,
}

// Category is one field with its ordered sub-fields.
type Category struct {
	Field     string   `json:"field"`
	Label     string   `json:"label"`
	SubFields []string `json:"subFields"`
	FreeText  bool     `json:"freeText"`
}

// Fields returns the field keys in presentation order.
func Fields() []string {
	return append([]string(nil), fields...)
}

// SubFields returns a copy of the sub-field list for field, and whether the field is known.
func SubFields(field string) ([]string, bool) {
	subs, ok := subFields[field]
	if !ok {
		return nil, false
	}
	return append([]string(nil), subs...), true
}

// DefaultSubField is the sub-field selected when field is chosen.
// It is empty for Other and for unknown fields.
func DefaultSubField(field string) string {
	if subs := subFields[field]; len(subs) > 0 {
		return subs[0]
	}
	return ""
}

// Known reports whether field is a taxonomy key.
func Known(field string) bool {
	_, ok := subFields[field]
	return ok
}

// Label capitalises a field key for display ("engineer" -> "Engineer").
func Label(field string) string {
	if field == "" {
		return ""
	}
	return strings.ToUpper(field[:1]) + field[1:]
}

// Categories lists the whole taxonomy in presentation order.
func Categories() []Category {
	out := make([]Category, 0, len(fields))
	for _, f := range fields {
		subs, _ := SubFields(f)
		out = append(out, Category{Field: f, Label: Label(f), SubFields: subs, FreeText: f == Other})
	}
	return out
}
