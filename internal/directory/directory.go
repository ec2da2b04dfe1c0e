// Package directory filters, groups and exports alumni records for display.
package directory

import (
	"regexp"
	"sort"
	"strings"

	"alumni/internal/alumni"
)

// All is the tab that disables filtering.
const All = "All"

// Tab is one occupation tab with the number of records it shows.
type Tab struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// List returns the records whose occupation field equals filter, ignoring
// case, in their original order. All (or an empty filter) returns recs as is.
func List(recs []alumni.Record, filter string) []alumni.Record {
	if filter == All || filter == "" {
		return recs
	}
	out := make([]alumni.Record, 0, len(recs))
	for _, r := range recs {
		if strings.EqualFold(r.Occupation.Field, filter) {
			out = append(out, r)
		}
	}
	return out
}

// Tabs returns All followed by every distinct occupation field present, sorted,
// each with its List count. Fields differing only in case share one tab,
// named after the first spelling seen.
func Tabs(recs []alumni.Record) []Tab {
	names := map[string]string{}
	counts := map[string]int{}
	for _, r := range recs {
		field := r.Occupation.Field
		if field == "" {
			continue
		}
		key := strings.ToLower(field)
		if _, ok := names[key]; !ok {
			names[key] = field
		}
		counts[key]++
	}

	tabs := make([]Tab, 0, len(names)+1)
	tabs = append(tabs, Tab{Name: All, Count: len(recs)})
	for key, name := range names {
		tabs = append(tabs, Tab{Name: name, Count: counts[key]})
	}
	rest := tabs[1:]
	sort.Slice(rest, func(i, j int) bool { return rest[i].Name < rest[j].Name })
	return tabs
}

var nonDigit = regexp.MustCompile(`\D`)

// FormatPhone renders a ten digit number, optionally prefixed with 91, as
// "+91 XXXXXXXXXX". Anything else is returned unchanged.
func FormatPhone(phone string) string {
	digits := nonDigit.ReplaceAllString(phone, "")
	digits = strings.TrimPrefix(digits, "91")
	if len(digits) == 10 {
		return "+91 " + digits
	}
	return phone
}
