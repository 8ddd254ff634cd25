package cli

import (
	"io"
	"strings"

	"github.com/dmitrijs2005/myjournal/internal/client/models"
	"github.com/dmitrijs2005/myjournal/internal/client/pages"
	"github.com/jedib0t/go-pretty/v6/table"
)

const previewLen = 40

// renderEntries prints entries as a table, in list order.
func renderEntries(w io.Writer, entries []models.Entry) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"ID", "Title", "Preview", "Created", "Updated"})

	for _, e := range entries {
		t.AppendRow(table.Row{
			e.ID,
			e.DisplayTitle(),
			preview(e.Body),
			pages.FormatTimestamp(e.TimeCreated),
			pages.FormatTimestamp(e.TimeUpdated),
		})
	}

	t.Render()
}

// renderEntry prints one entry in full.
func renderEntry(w io.Writer, e models.Entry) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendRows([]table.Row{
		{"ID", e.ID},
		{"Title", e.DisplayTitle()},
		{"Created", pages.FormatTimestamp(e.TimeCreated)},
		{"Updated", pages.FormatTimestamp(e.TimeUpdated)},
	})
	t.AppendSeparator()
	t.AppendRow(table.Row{"Body", e.Body})
	t.Render()
}

func preview(body string) string {
	s := strings.Join(strings.Fields(body), " ")
	r := []rune(s)
	if len(r) <= previewLen {
		return s
	}
	return string(r[:previewLen-1]) + "…"
}
