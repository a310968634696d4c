// Package tui implements the interactive late-return log browser.
package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/marshallshelly/reelstore/pkg/report"
	"github.com/marshallshelly/reelstore/pkg/store"
)

// BrowseMode represents the current mode of the browse UI
type BrowseMode int

const (
	ModeLoading BrowseMode = iota
	ModeList
	ModeError
)

// BrowseModel is the main Bubbletea model for browsing the late-return log
type BrowseModel struct {
	mode    BrowseMode
	list    list.Model
	summary string
	err     error
	width   int
	height  int
	dbURL   string
	db      *store.DB
}

// NewBrowseModel creates a new browse UI model
func NewBrowseModel(dbURL string) BrowseModel {
	l := list.New([]list.Item{}, LateReturnItemDelegate{}, 0, 0)
	l.Title = "Late-Return Log"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	return BrowseModel{
		mode:  ModeLoading,
		list:  l,
		dbURL: dbURL,
	}
}

// Init initializes the model
func (m BrowseModel) Init() tea.Cmd {
	return tea.Batch(
		loadDataCmd(m.dbURL, nil),
		tea.EnterAltScreen,
	)
}

// Messages
type dataLoadedMsg struct {
	entries []store.LateReturn
	summary string
	db      *store.DB
}

type errorMsg struct {
	err error
}

// Commands
func loadDataCmd(dbURL string, db *store.DB) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		if db == nil {
			var err error
			db, err = store.ConnectWithURL(ctx, dbURL)
			if err != nil {
				return errorMsg{err: fmt.Errorf("failed to connect to database: %w", err)}
			}
		}

		entries, err := db.ListLateReturns(ctx)
		if err != nil {
			db.Close()
			return errorMsg{err: fmt.Errorf("failed to load late returns: %w", err)}
		}

		summary, err := buildSummary(ctx, db)
		if err != nil {
			db.Close()
			return errorMsg{err: err}
		}

		return dataLoadedMsg{entries: entries, summary: summary, db: db}
	}
}

// buildSummary renders the one-line report header shown above the list.
func buildSummary(ctx context.Context, db *store.DB) (string, error) {
	reporter := report.New(db)

	genre, err := reporter.TopGenre(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return mutedStyle.Render("no rentals yet"), nil
		}
		return "", err
	}

	duration, err := reporter.TopMovieDuration(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Sprintf("top genre %s (%d rentals)", genre.Genre, genre.RentalCount), nil
		}
		return "", err
	}

	return fmt.Sprintf("top genre %s (%d rentals) • longest average rental %s (%.1f days)",
		genre.Genre, genre.RentalCount, duration.Title, duration.AvgDays), nil
}

// Update handles messages
func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case dataLoadedMsg:
		m.db = msg.db
		m.summary = msg.summary
		m.mode = ModeList

		items := make([]list.Item, len(msg.entries))
		for i, e := range msg.entries {
			items[i] = LateReturnItem{
				LogID:    e.LogID,
				Rental:   store.FormatRef(e.RentalID),
				Customer: store.FormatRef(e.CustomerID),
				Movie:    store.FormatRef(e.MovieID),
				DaysLate: e.DaysLate,
				LoggedAt: e.LoggedAt.Format("2006-01-02 15:04:05"),
			}
		}
		m.list.SetItems(items)

		return m, nil

	case errorMsg:
		m.mode = ModeError
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeList:
			switch msg.String() {
			case "ctrl+c", "q":
				if m.db != nil {
					m.db.Close()
				}
				return m, tea.Quit

			case "r":
				m.mode = ModeLoading
				return m, loadDataCmd(m.dbURL, m.db)
			}

		case ModeError:
			switch msg.String() {
			case "ctrl+c", "q", "enter":
				if m.db != nil {
					m.db.Close()
				}
				return m, tea.Quit
			}
		}
	}

	// Update list
	if m.mode == ModeList {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the UI
func (m BrowseModel) View() string {
	switch m.mode {
	case ModeLoading:
		return infoStyle.Render("Loading late-return log...")

	case ModeList:
		help := helpStyle.Render(
			FormatKey("↑/↓", "navigate") + " • " +
				FormatKey("r", "refresh") + " • " +
				FormatKey("q", "quit"),
		)
		return lipgloss.JoinVertical(lipgloss.Left,
			m.list.View(),
			mutedStyle.Render(m.summary),
			help,
		)

	case ModeError:
		msg := titleStyle.Render("Browse Failed") + "\n\n" +
			errorStyle.Render(m.err.Error()) + "\n\n" +
			helpStyle.Render(FormatKey("enter/q", "exit"))

		return lipgloss.Place(
			m.width,
			m.height,
			lipgloss.Center,
			lipgloss.Center,
			boxStyle.Render(msg),
		)
	}

	return "Unknown mode"
}

// RunBrowseUI starts the interactive late-return browser
func RunBrowseUI(dbURL string) error {
	p := tea.NewProgram(NewBrowseModel(dbURL))
	_, err := p.Run()
	return err
}
