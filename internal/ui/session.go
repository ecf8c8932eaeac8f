package ui

import (
	"errors"

	"github.com/JanMyst/Chub-Search-Fixedv2/internal/api"
	"github.com/JanMyst/Chub-Search-Fixedv2/internal/models"
)

// Notifier surfaces user-facing notices. The TUI renders them in the status
// bar; one-shot commands log them to stderr. Every failure and empty-result
// path goes through here exactly once.
type Notifier interface {
	Info(title, message string)
	Warn(title, message string)
	Error(title, message string)
	// ErrorWithAction carries a URL the user can open as a manual fallback
	ErrorWithAction(title, message, actionURL string)
}

// SearchSession owns the display state of the search view: the current
// record list, the searching flag, and the request generation. Each search
// invocation pairs one Begin with exactly one Apply, so the searching flag
// cannot stay stuck on any path. Responses carrying a stale generation are
// discarded: the newest request wins, not the last response to arrive.
//
// The session has a single writer (the event loop it lives on) and needs no
// locking.
type SearchSession struct {
	notifier Notifier

	gen     uint64 // newest generation handed out by Begin
	applied uint64 // generation of the last response applied

	Searching  bool
	Characters []models.Character
}

// NewSearchSession creates a session publishing notices to the given notifier.
func NewSearchSession(notifier Notifier) *SearchSession {
	return &SearchSession{notifier: notifier}
}

// Begin marks a new search as in flight and returns its generation token.
func (s *SearchSession) Begin() uint64 {
	s.gen++
	s.Searching = true
	return s.gen
}

// Abandon drops an in-flight search whose response can no longer be
// delivered, such as when the event loop it was started on has been torn
// down. The searching flag clears, the current record list stays, and the
// pending generation is invalidated so a late Apply remains a no-op.
func (s *SearchSession) Abandon() {
	if !s.Searching {
		return
	}
	s.gen++
	s.Searching = false
}

// Apply publishes the outcome of a search invocation. Stale generations are
// dropped and the method reports false. For the current generation it
// clears the searching flag, replaces the record list wholesale, and
// notifies on failure or empty results. Errors never propagate: a failed
// search displays as an empty list.
func (s *SearchSession) Apply(gen uint64, records []models.Character, err error) bool {
	if gen != s.gen {
		return false
	}
	s.Searching = false
	s.applied = gen

	if err != nil {
		s.Characters = nil
		var statusErr *api.StatusError
		if errors.As(err, &statusErr) {
			s.notifier.Error("Search failed", statusErr.Message)
		} else {
			s.notifier.Error("Search failed", err.Error())
		}
		return true
	}

	s.Characters = records
	if len(records) == 0 {
		s.notifier.Info("No results", "The catalog returned no matching characters.")
	}
	return true
}

// Close discards the current result list.
func (s *SearchSession) Close() {
	s.Characters = nil
	s.Searching = false
}
