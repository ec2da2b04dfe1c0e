package directory

import (
	"context"
	"io"

	"alumni/internal/alumni"
)

// Loader fetches the full record collection.
type Loader interface {
	List(ctx context.Context) ([]alumni.Record, error)
}

// View is the directory screen state: the loaded collection and the active tab.
// Methods return a new View and leave the receiver untouched.
type View struct {
	records []alumni.Record
	active  string
	notice  string
}

// NewView creates a view over recs with the All tab active.
func NewView(recs []alumni.Record) View {
	return View{records: append([]alumni.Record(nil), recs...), active: All}
}

// Load fetches the collection. On failure the view is empty, carries a
// notice, and the error is returned for logging.
func Load(ctx context.Context, l Loader) (View, error) {
	recs, err := l.List(ctx)
	if err != nil {
		v := NewView(nil)
		v.notice = "Failed to load alumni data"
		return v, err
	}
	return NewView(recs), nil
}

// Records is the full collection.
func (v View) Records() []alumni.Record { return v.records }

// ActiveTab is the current filter value.
func (v View) ActiveTab() string { return v.active }

// Notice is the load failure message, if any.
func (v View) Notice() string { return v.notice }

// WithTab switches the filter.
func (v View) WithTab(tab string) View {
	if tab == "" {
		tab = All
	}
	v.active = tab
	return v
}

// Append adds a newly submitted record to the end of the collection.
func (v View) Append(rec alumni.Record) View {
	recs := make([]alumni.Record, 0, len(v.records)+1)
	recs = append(recs, v.records...)
	v.records = append(recs, rec)
	return v
}

// Visible is the filtered subset for the active tab.
func (v View) Visible() []alumni.Record { return List(v.records, v.active) }

// Tabs lists the tabs for the full collection.
func (v View) Tabs() []Tab { return Tabs(v.records) }

// Export writes the visible subset.
func (v View) Export(w io.Writer, f Format) error { return Export(w, v.Visible(), f) }
