package directory

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"alumni/internal/alumni"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Columns are the exported column headers, in order.
var Columns = []string{"First Name", "Last Name", "Email", "Phone", "Gender", "Occupation", "Attending Meet"}

const sheetName = "Alumni"

// ParseFormat accepts "csv" or "xlsx", defaulting to csv when empty.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// ContentType is the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// Filename is the download name of the export.
func (f Format) Filename() string {
	return "alumni-data." + string(f)
}

// Export writes recs in format f.
func Export(w io.Writer, recs []alumni.Record, f Format) error {
	switch f {
	case FormatCSV:
		return ExportCSV(w, recs)
	case FormatXLSX:
		return ExportXLSX(w, recs)
	}
	return fmt.Errorf("unsupported export format %q", f)
}

func row(r alumni.Record) []string {
	return []string{
		r.FirstName,
		r.LastName,
		r.Email,
		r.Phone,
		r.Gender,
		r.Occupation.Field + " - " + r.Occupation.SubField,
		r.AttendingMeet,
	}
}

// ExportCSV writes a header line followed by one line per record. Every data
// value is double-quoted, with embedded quotes doubled.
func ExportCSV(w io.Writer, recs []alumni.Record) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(Columns, ",") + "\n"); err != nil {
		return err
	}
	for _, r := range recs {
		values := row(r)
		for i, v := range values {
			values[i] = `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
		}
		if _, err := bw.WriteString(strings.Join(values, ",") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ExportXLSX writes the same table as ExportCSV to a single-sheet workbook.
func ExportXLSX(w io.Writer, recs []alumni.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}
	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return err
	}
	for i, r := range recs {
		values := row(r)
		cells := make([]interface{}, len(values))
		for j, v := range values {
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
			return err
		}
	}
	return f.Write(w)
}
