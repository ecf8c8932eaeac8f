package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/JanMyst/Chub-Search-Fixedv2/internal/models"
)

type libraryModel struct {
	deps     BrowseDeps
	notifier *StatusNotifier

	layout Layout
	table  table.Model
	cards  []models.ImportedCard

	deleteTarget *models.ImportedCard
	quitting     bool
	loadErr      error
}

func newLibraryModel(deps BrowseDeps) libraryModel {
	layout := DefaultLayout()

	t := table.New(
		table.WithColumns(LibraryColumns(layout.TableWidth)),
		table.WithRows([]table.Row{}),
		table.WithFocused(true),
		table.WithHeight(layout.TableHeight),
	)
	ApplyTableStyles(&t)

	m := libraryModel{
		deps:     deps,
		notifier: NewStatusNotifier(deps.Logger),
		layout:   layout,
		table:    t,
	}
	m.reload()
	return m
}

func (m *libraryModel) reload() {
	cards, err := m.deps.Database.ListCharacters()
	if err != nil {
		m.loadErr = err
		return
	}
	m.cards = cards
	columns := LibraryColumns(m.layout.TableWidth)
	m.table.SetColumns(columns)
	m.table.SetRows(LibraryRows(cards, columns))
	if m.table.Cursor() >= len(cards) {
		m.table.SetCursor(0)
	}
}

func (m libraryModel) Init() tea.Cmd {
	return nil
}

func (m libraryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = NewLayout(msg.Width, msg.Height)
		m.table.SetHeight(m.layout.TableHeight)
		m.reload()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "up", "k":
			m.table.MoveUp(1)
			return m, nil

		case "down", "j":
			m.table.MoveDown(1)
			return m, nil

		case "o":
			if card, ok := m.selectedCard(); ok {
				if err := OpenInBrowser("https://chub.ai/characters/" + card.FullPath); err != nil {
					m.notifier.Error("Browser", err.Error())
				}
			}
			return m, nil

		case "d", "delete":
			// confirmation runs outside the program; hand off and quit
			if card, ok := m.selectedCard(); ok {
				m.deleteTarget = &card
				m.quitting = true
				return m, tea.Quit
			}
		}
	}

	return m, nil
}

func (m libraryModel) selectedCard() (models.ImportedCard, bool) {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.cards) {
		return models.ImportedCard{}, false
	}
	return m.cards[cursor], true
}

func (m libraryModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(ViewHeader("Card Library", m.layout.InnerWidth))

	if m.loadErr != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf(" Error: %v", m.loadErr)))
	} else if len(m.cards) == 0 {
		b.WriteString(HintStyle.Render(" Nothing imported yet. Import cards from the browse view."))
	} else {
		b.WriteString(AccentStyle.Render(fmt.Sprintf(" %d imported cards", len(m.cards))))
		b.WriteString("\n\n")
		b.WriteString(RenderTableWithSelection(m.table, m.layout))
	}

	if status := m.notifier.Render(); status != "" {
		b.WriteString("\n ")
		b.WriteString(status)
	}

	return BuildTwoBoxView(b.String(), "d: delete | o: open page | esc: back", m.layout)
}

// RunLibrary shows the imported-card library. Deletion confirms through a
// huh form between program invocations, mirroring the browse loop.
func RunLibrary(deps BrowseDeps) error {
	for {
		model := newLibraryModel(deps)

		p := tea.NewProgram(model, tea.WithAltScreen())
		finalModel, err := p.Run()
		if err != nil {
			return fmt.Errorf("library TUI failed: %w", err)
		}

		m, ok := finalModel.(libraryModel)
		if !ok || m.deleteTarget == nil {
			return nil
		}

		confirmed, err := ConfirmDelete(m.deleteTarget.Name)
		if err != nil {
			return err
		}
		if confirmed {
			if err := deps.Importer.Remove(*m.deleteTarget); err != nil {
				if deps.Logger != nil {
					deps.Logger.Error("failed to delete card", "fullPath", m.deleteTarget.FullPath, "err", err)
				}
			}
		}
	}
}
