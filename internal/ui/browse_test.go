package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBrowseState() *browseState {
	state := &browseState{
		notifier: NewStatusNotifier(nil),
		page:     1,
	}
	state.session = NewSearchSession(state.notifier)
	return state
}

func TestBrowse_RestartAfterInFlightSearch(t *testing.T) {
	state := newTestBrowseState()

	gen := state.session.Begin()
	require.True(t, state.session.Apply(gen, someCharacters(3), nil))

	// a page fetch is in flight when the user jumps to a modal surface;
	// the program quits and the result message is lost
	state.session.Begin()
	require.True(t, state.session.Searching)

	// the relaunch drops the orphaned fetch before mounting a new model
	state.session.Abandon()
	m := newBrowseModel(BrowseDeps{}, state)

	assert.False(t, state.session.Searching)
	assert.False(t, m.inputMode)
	assert.Len(t, state.session.Characters, 3)

	// paging still works on the restarted model
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("]")})
	require.NotNil(t, cmd)
	assert.True(t, state.session.Searching)
	assert.Equal(t, 2, state.page)
}

func TestBrowse_EnterInvalidatesPendingDebounce(t *testing.T) {
	state := newTestBrowseState()
	m := newBrowseModel(BrowseDeps{}, state)
	require.True(t, m.inputMode)
	m.textInput.SetValue("drago")

	// keystroke schedules a debounce tick
	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	m = model.(browseModel)
	require.NotNil(t, cmd)
	staleSeq := m.debounceSeq

	// explicit submit fires immediately
	model, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = model.(browseModel)
	require.NotNil(t, cmd)
	assert.True(t, state.session.Searching)

	// the keystroke's tick arrives late and must not fire a second search
	_, cmd = m.Update(debounceTickMsg{Seq: staleSeq})
	assert.Nil(t, cmd)
}
