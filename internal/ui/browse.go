package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/JanMyst/Chub-Search-Fixedv2/internal/api"
	"github.com/JanMyst/Chub-Search-Fixedv2/internal/db"
	"github.com/JanMyst/Chub-Search-Fixedv2/internal/importer"
	"github.com/JanMyst/Chub-Search-Fixedv2/internal/models"
	"github.com/JanMyst/Chub-Search-Fixedv2/internal/settings"
)

// debounceQuiet is the minimum keystroke quiet period before an as-you-type
// search fires. Explicit submits bypass it.
const debounceQuiet = 600 * time.Millisecond

// BrowseDeps bundles the collaborators the browse view needs.
type BrowseDeps struct {
	Client   *api.Client
	Store    *settings.Store
	Database *db.DB
	Importer *importer.Importer
	Logger   *log.Logger
}

// browseState survives the program restarts around modal forms and the
// library view.
type browseState struct {
	session  *SearchSession
	notifier *StatusNotifier
	filters  api.RawOptions
	term     string
	page     int
}

// searchResultMsg carries one search outcome back into the event loop.
// Gen is the generation token from SearchSession.Begin.
type searchResultMsg struct {
	Gen     uint64
	Records []models.Character
	Err     error
	Term    string
	Query   string
	Elapsed time.Duration
}

// debounceTickMsg fires after the keystroke quiet period; stale sequence
// numbers are dropped.
type debounceTickMsg struct {
	Seq int
}

// importDoneMsg carries one download/import outcome.
type importDoneMsg struct {
	Character   models.Character
	Path        string
	UnknownKind bool
	Err         error
}

type browseModel struct {
	deps  BrowseDeps
	state *browseState

	layout    Layout
	table     table.Model
	textInput textinput.Model
	spinner   spinner.Model

	inputMode   bool
	debounceSeq int

	history    []string
	historyIdx int // -1 = live input

	actionURL string // manual-fallback page from the last failed download

	quitting          bool
	launchFilter      bool
	launchLibrary     bool
	pendingSearch     bool
	layoutInitialized bool
}

func newBrowseModel(deps BrowseDeps, state *browseState) browseModel {
	ti := textinput.New()
	ti.Placeholder = "Search the catalog..."
	ti.CharLimit = 200
	ti.SetValue(state.term)
	ti.Focus()

	layout := DefaultLayout()

	t := table.New(
		table.WithColumns(CharacterColumns(layout.TableWidth)),
		table.WithRows([]table.Row{}),
		table.WithFocused(true),
		table.WithHeight(layout.TableHeight),
	)
	ApplyTableStyles(&t)

	var history []string
	if deps.Database != nil {
		history, _ = deps.Database.RecentTerms(10)
	}

	m := browseModel{
		deps:       deps,
		state:      state,
		layout:     layout,
		table:      t,
		textInput:  ti,
		spinner:    NewAppSpinner(),
		inputMode:  true,
		history:    history,
		historyIdx: -1,
	}
	if len(state.session.Characters) > 0 {
		m.inputMode = false
		m.refreshTable()
	}
	return m
}

func (m browseModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = NewLayout(msg.Width, msg.Height)
		m.table.SetHeight(m.layout.TableHeight)
		m.table.SetColumns(CharacterColumns(m.layout.TableWidth))
		m.textInput.Width = m.layout.InnerWidth - 12
		m.refreshTable()
		if m.pendingSearch && !m.layoutInitialized {
			m.pendingSearch = false
			m.layoutInitialized = true
			return m, m.startSearch()
		}
		m.layoutInitialized = true
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case debounceTickMsg:
		if m.inputMode && msg.Seq == m.debounceSeq && strings.TrimSpace(m.textInput.Value()) != "" {
			m.state.term = m.textInput.Value()
			m.state.page = 1
			return m, m.startSearch()
		}
		return m, nil

	case searchResultMsg:
		if !m.state.session.Apply(msg.Gen, msg.Records, msg.Err) {
			return m, nil
		}
		m.refreshTable()
		if msg.Err == nil && m.deps.Database != nil {
			rec := models.SearchRecord{
				Term:        msg.Term,
				Query:       msg.Query,
				ResultCount: len(msg.Records),
				DurationMS:  msg.Elapsed.Milliseconds(),
			}
			if err := m.deps.Database.RecordSearch(rec); err != nil && m.deps.Logger != nil {
				m.deps.Logger.Warn("failed to record search history", "err", err)
			}
		}
		if len(msg.Records) > 0 {
			m.inputMode = false
		}
		return m, nil

	case importDoneMsg:
		return m.handleImportDone(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if m.inputMode {
			return m.updateInputMode(msg)
		}
		return m.updateTableMode(msg)
	}

	return m, nil
}

func (m browseModel) updateInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if strings.TrimSpace(m.textInput.Value()) != "" {
			m.state.term = m.textInput.Value()
			m.state.page = 1
			m.historyIdx = -1
			// invalidate any pending debounce tick for the same keystrokes
			m.debounceSeq++
			return m, m.startSearch()
		}
		return m, nil

	case "esc":
		if len(m.state.session.Characters) > 0 {
			m.inputMode = false
			return m, nil
		}
		m.quitting = true
		m.state.session.Close()
		return m, tea.Quit

	case "up":
		// cycle recent search terms
		if len(m.history) > 0 && m.historyIdx < len(m.history)-1 {
			m.historyIdx++
			m.textInput.SetValue(m.history[m.historyIdx])
			m.textInput.CursorEnd()
		}
		return m, nil

	case "down":
		if m.historyIdx > 0 {
			m.historyIdx--
			m.textInput.SetValue(m.history[m.historyIdx])
			m.textInput.CursorEnd()
		} else if m.historyIdx == 0 {
			m.historyIdx = -1
			m.textInput.SetValue("")
		}
		return m, nil

	default:
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		m.debounceSeq++
		seq := m.debounceSeq
		debounce := tea.Tick(debounceQuiet, func(time.Time) tea.Msg {
			return debounceTickMsg{Seq: seq}
		})
		return m, tea.Batch(cmd, debounce)
	}
}

func (m browseModel) updateTableMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.quitting = true
		m.state.session.Close()
		return m, tea.Quit

	case "esc", "/":
		m.inputMode = true
		m.textInput.Focus()
		return m, textinput.Blink

	case "f":
		m.launchFilter = true
		m.quitting = true
		return m, tea.Quit

	case "L":
		m.launchLibrary = true
		m.quitting = true
		return m, tea.Quit

	case "]", "right":
		if len(m.state.session.Characters) > 0 && !m.state.session.Searching {
			m.state.page++
			return m, m.startSearch()
		}

	case "[", "left":
		if m.state.page > 1 && !m.state.session.Searching {
			m.state.page--
			return m, m.startSearch()
		}

	case "up", "k":
		m.table.MoveUp(1)
		return m, nil

	case "down", "j":
		m.table.MoveDown(1)
		return m, nil

	case "o":
		if m.actionURL != "" {
			if err := OpenInBrowser(m.actionURL); err != nil {
				m.state.notifier.Error("Browser", err.Error())
			}
			m.actionURL = ""
			return m, nil
		}
		if ch, ok := m.selectedCharacter(); ok {
			if err := OpenInBrowser(api.CatalogPageURL(ch.FullPath)); err != nil {
				m.state.notifier.Error("Browser", err.Error())
			}
		}
		return m, nil

	case "enter":
		if ch, ok := m.selectedCharacter(); ok {
			m.state.notifier.Info("Importing", ch.FullPath)
			return m, m.doImport(ch)
		}
	}

	return m, nil
}

func (m browseModel) handleImportDone(msg importDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		var unavailable *api.ImportUnavailableError
		if errors.As(msg.Err, &unavailable) {
			m.state.notifier.ErrorWithAction(
				"Download failed",
				fmt.Sprintf("Could not import %s from either endpoint", msg.Character.FullPath),
				unavailable.PageURL,
			)
			m.actionURL = unavailable.PageURL
		} else {
			m.state.notifier.Error("Import failed", msg.Err.Error())
		}
		return m, nil
	}
	if msg.UnknownKind {
		m.state.notifier.Warn("Unknown content type",
			fmt.Sprintf("The catalog returned an unrecognized payload for %s; nothing was imported", msg.Character.FullPath))
		return m, nil
	}
	m.state.notifier.Info("Imported", fmt.Sprintf("%s → %s", msg.Character.Name, msg.Path))
	return m, nil
}

// startSearch begins a new generation and fetches asynchronously. The
// session marks searching now; the paired Apply happens when the result
// message arrives, stale or not.
func (m browseModel) startSearch() tea.Cmd {
	gen := m.state.session.Begin()
	raw := m.rawOptions()
	client := m.deps.Client
	term := m.state.term

	return func() tea.Msg {
		start := time.Now()
		records, err := client.SearchCharacters(context.Background(), raw)
		return searchResultMsg{
			Gen:     gen,
			Records: records,
			Err:     err,
			Term:    term,
			Query:   api.EncodeQuery(api.NormalizeOptions(raw, client.Settings())).Encode(),
			Elapsed: time.Since(start),
		}
	}
}

// rawOptions assembles the raw search input from the text box, the filter
// form state, and the pagination cursor.
func (m browseModel) rawOptions() api.RawOptions {
	raw := m.state.filters
	raw.SearchTerm = m.state.term
	raw.PageNumber = m.state.page
	return raw
}

func (m browseModel) doImport(ch models.Character) tea.Cmd {
	client := m.deps.Client
	imp := m.deps.Importer
	return func() tea.Msg {
		file, err := client.DownloadCharacter(context.Background(), ch.FullPath)
		if err != nil {
			return importDoneMsg{Character: ch, Err: err}
		}
		if file.Kind == api.KindUnknown {
			return importDoneMsg{Character: ch, UnknownKind: true}
		}
		path, err := imp.Import(file, ch)
		return importDoneMsg{Character: ch, Path: path, Err: err}
	}
}

func (m browseModel) selectedCharacter() (models.Character, bool) {
	records := m.state.session.Characters
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(records) {
		return models.Character{}, false
	}
	return records[cursor], true
}

func (m *browseModel) refreshTable() {
	columns := CharacterColumns(m.layout.TableWidth)
	m.table.SetColumns(columns)
	m.table.SetRows(CharacterRows(m.state.session.Characters, columns))
	if m.table.Cursor() >= len(m.state.session.Characters) {
		m.table.SetCursor(0)
	}
}

func (m browseModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(ViewHeader("Character Catalog", m.layout.InnerWidth))

	if m.inputMode {
		b.WriteString(" Search: ")
		b.WriteString(m.textInput.View())
		b.WriteString("\n")
	} else {
		info := fmt.Sprintf(" Query: %s  |  Page %d  |  %d results",
			m.state.term, m.state.page, len(m.state.session.Characters))
		b.WriteString(AccentStyle.Render(info))
		b.WriteString("\n")
	}

	if status := m.state.notifier.Render(); status != "" {
		b.WriteString(" ")
		b.WriteString(status)
	}
	b.WriteString("\n")

	if m.state.session.Searching {
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(HintStyle.Render("Searching..."))
	} else if len(m.state.session.Characters) > 0 {
		b.WriteString(RenderTableWithSelection(m.table, m.layout))
	} else if !m.inputMode {
		b.WriteString(HintStyle.Render(" No results. Press / to search again."))
	}

	var help string
	if m.inputMode {
		help = "enter: search | up/down: history | esc: back"
	} else {
		help = "enter: import | o: open page | f: filters | L: library | [/]: page | /: search | q: quit"
	}
	return BuildTwoBoxView(b.String(), help, m.layout)
}

// RunBrowse drives the interactive browse loop. Modal surfaces (the filter
// form, the library view) run between program invocations; search state
// survives in browseState across restarts.
func RunBrowse(deps BrowseDeps) error {
	state := &browseState{
		notifier: NewStatusNotifier(deps.Logger),
		page:     1,
	}
	state.session = NewSearchSession(state.notifier)

	pending := false
	for {
		// A fetch started on a previous program can never deliver its
		// message here; drop it so the searching flag cannot stick.
		state.session.Abandon()

		model := newBrowseModel(deps, state)
		if pending {
			model.pendingSearch = true
			pending = false
		}

		p := tea.NewProgram(model, tea.WithAltScreen())
		finalModel, err := p.Run()
		if err != nil {
			return fmt.Errorf("browse TUI failed: %w", err)
		}

		m, ok := finalModel.(browseModel)
		if !ok {
			return nil
		}

		switch {
		case m.launchFilter:
			filters, submitted, err := RunFilterForm(state.filters, deps.Store)
			if err != nil {
				return err
			}
			if submitted {
				state.filters = filters
				state.page = 1
				if strings.TrimSpace(state.term) != "" || len(state.session.Characters) > 0 {
					pending = true
				}
			}
			continue

		case m.launchLibrary:
			if err := RunLibrary(deps); err != nil {
				return err
			}
			continue

		default:
			return nil
		}
	}
}
