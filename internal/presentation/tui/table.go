package tui

import (
	"github.com/aretw0/journey/pkg/domain"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// StatusTable renders one row per step: answered state, mode and cursor marker.
func StatusTable(c domain.Catalog, ledger *domain.Ledger, cursor string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"", "Step", "Title", "Answered", "Mode", "Chars"})

	for _, step := range c {
		marker := ""
		if step.ID == cursor {
			marker = ">"
		}
		answered, mode, chars := "no", "", 0
		if e, ok := ledger.Entry(step.ID); ok {
			chars = len([]rune(e.Text))
			if chars > 0 || e.HasInk() {
				answered = "yes"
			}
			mode = string(e.Mode)
			if e.Kind == domain.EntryPlain {
				mode = "plain"
			}
		}
		tw.AppendRow(table.Row{marker, step.ID, step.Title, answered, mode, chars})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 6, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	if cursor == domain.CompleteSentinel {
		tw.AppendFooter(table.Row{">", "complete", "", "", "", ""})
	}
	return tw.Render()
}
