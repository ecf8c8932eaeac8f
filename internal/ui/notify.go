package ui

import (
	"time"

	"github.com/charmbracelet/log"
)

// noticeTTL is how long a status-bar notice stays visible
const noticeTTL = 6 * time.Second

// Notice is one user-facing notification
type Notice struct {
	Level     string // "info", "warn", "error"
	Title     string
	Message   string
	ActionURL string
	At        time.Time
}

// StatusNotifier renders notices in the TUI status bar and mirrors them to
// the log file. It implements Notifier.
type StatusNotifier struct {
	logger  *log.Logger
	current *Notice
}

// NewStatusNotifier creates a TUI notifier backed by the given logger.
func NewStatusNotifier(logger *log.Logger) *StatusNotifier {
	return &StatusNotifier{logger: logger}
}

func (n *StatusNotifier) Info(title, message string) {
	n.push("info", title, message, "")
	if n.logger != nil {
		n.logger.Info(title, "msg", message)
	}
}

func (n *StatusNotifier) Warn(title, message string) {
	n.push("warn", title, message, "")
	if n.logger != nil {
		n.logger.Warn(title, "msg", message)
	}
}

func (n *StatusNotifier) Error(title, message string) {
	n.push("error", title, message, "")
	if n.logger != nil {
		n.logger.Error(title, "msg", message)
	}
}

func (n *StatusNotifier) ErrorWithAction(title, message, actionURL string) {
	n.push("error", title, message, actionURL)
	if n.logger != nil {
		n.logger.Error(title, "msg", message, "url", actionURL)
	}
}

func (n *StatusNotifier) push(level, title, message, actionURL string) {
	n.current = &Notice{
		Level:     level,
		Title:     title,
		Message:   message,
		ActionURL: actionURL,
		At:        time.Now(),
	}
}

// Current returns the active notice, clearing it once it expires.
func (n *StatusNotifier) Current() *Notice {
	if n.current == nil {
		return nil
	}
	if time.Since(n.current.At) > noticeTTL {
		n.current = nil
		return nil
	}
	return n.current
}

// Clear drops the active notice.
func (n *StatusNotifier) Clear() {
	n.current = nil
}

// Render formats the active notice for the status line, or "" when idle.
func (n *StatusNotifier) Render() string {
	notice := n.Current()
	if notice == nil {
		return ""
	}
	text := notice.Title + ": " + notice.Message
	if notice.ActionURL != "" {
		text += "  (o: open " + notice.ActionURL + ")"
	}
	switch notice.Level {
	case "error":
		return ErrorStyle.Render(text)
	case "warn":
		return WarnStyle.Render(text)
	default:
		return AccentStyle.Render(text)
	}
}

// LogNotifier is the Notifier used by one-shot commands: everything goes to
// the logger on stderr.
type LogNotifier struct {
	logger *log.Logger
}

// NewLogNotifier creates a stderr-backed notifier.
func NewLogNotifier(logger *log.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Info(title, message string) {
	n.logger.Info(title, "msg", message)
}

func (n *LogNotifier) Warn(title, message string) {
	n.logger.Warn(title, "msg", message)
}

func (n *LogNotifier) Error(title, message string) {
	n.logger.Error(title, "msg", message)
}

func (n *LogNotifier) ErrorWithAction(title, message, actionURL string) {
	n.logger.Error(title, "msg", message, "fallback", actionURL)
}
