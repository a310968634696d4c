package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// LateReturnItem represents one late-return log entry in the list
type LateReturnItem struct {
	LogID    int
	Rental   string
	Customer string
	Movie    string
	DaysLate int
	LoggedAt string
}

func (i LateReturnItem) FilterValue() string { return i.Customer }
func (i LateReturnItem) Title() string {
	return fmt.Sprintf("%s #%d — customer %s, movie %s, %d days late",
		warningStyle.Render("⚑"), i.LogID, i.Customer, i.Movie, i.DaysLate)
}
func (i LateReturnItem) Description() string {
	return mutedStyle.Render(fmt.Sprintf("rental %s • logged %s", i.Rental, i.LoggedAt))
}

// LateReturnItemDelegate is a custom delegate for late-return list items
type LateReturnItemDelegate struct{}

func (d LateReturnItemDelegate) Height() int                             { return 2 }
func (d LateReturnItemDelegate) Spacing() int                            { return 1 }
func (d LateReturnItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d LateReturnItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(LateReturnItem)
	if !ok {
		return
	}

	var s string
	if index == m.Index() {
		s = selectedItemStyle.Render("▸ " + i.Title() + "\n  " + i.Description())
	} else {
		s = unselectedItemStyle.Render("  " + i.Title() + "\n  " + i.Description())
	}

	_, _ = fmt.Fprint(w, s)
}
