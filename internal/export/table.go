package export

import (
	"io"

	"fidescrape/internal/scrapers/fide"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func NewTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	return t
}

// RenderTable prints the tournaments as a table, numeric columns are right aligned.
func RenderTable(out io.Writer, tournaments []fide.Tournament) {
	t := NewTable(out)

	header := make(table.Row, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	t.AppendHeader(header)

	for _, tournament := range tournaments {
		cells := row(tournament)
		r := make(table.Row, len(cells))
		for i, c := range cells {
			r[i] = c
		}
		t.AppendRow(r)
	}

	configs := []table.ColumnConfig{}
	for _, name := range Columns[4:] {
		configs = append(configs, table.ColumnConfig{Name: name, Align: text.AlignRight})
	}
	t.SetColumnConfigs(configs)

	t.AppendFooter(table.Row{"", "", "", "", "", "", "", "Tournaments", len(tournaments)})
	t.Render()
}
