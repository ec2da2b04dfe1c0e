package main

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"alumni/internal/alumni"
	"alumni/internal/directory"
	"alumni/internal/taxonomy"
)

var (
	accent = lipgloss.Color("#7D56F4")

	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	activeStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(accent).Padding(0, 1)
	tabStyle     = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C6C6C"))
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575"))
)

func renderTabs(tabs []directory.Tab, active string) string {
	parts := make([]string, 0, len(tabs))
	for _, t := range tabs {
		label := t.Name + " (" + strconv.Itoa(t.Count) + ")"
		if strings.EqualFold(t.Name, active) {
			parts = append(parts, activeStyle.Render(label))
		} else {
			parts = append(parts, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func renderRecords(recs []alumni.Record) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(accent)).
		Headers("Name", "Email", "Phone", "Occupation", "Meet").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, r := range recs {
		t.Row(r.FullName(), r.Email, directory.FormatPhone(r.Phone),
			taxonomy.Label(r.Occupation.Field)+" / "+r.Occupation.SubField, r.AttendingMeet)
	}
	return t.String()
}

func renderCategories(cats []taxonomy.Category) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Field", "Label", "Sub-fields").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, c := range cats {
		subs := strings.Join(c.SubFields, ", ")
		if c.FreeText {
			subs = mutedStyle.Render("free text")
		}
		t.Row(c.Field, c.Label, subs)
	}
	return t.String()
}
