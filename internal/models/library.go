package models

import "time"

// ImportedCard is one entry in the local card library
type ImportedCard struct {
	ID          int64
	FullPath    string
	Name        string
	Author      string
	Description string
	Tags        string // comma-joined
	ImageURL    string
	FileName    string // relative to the library home
	ContentKind string // "character" or "lorebook"
	FileSize    int64
	ImportedAt  time.Time
}

// SearchRecord captures one completed search for the history view
type SearchRecord struct {
	ID          int64
	Term        string
	Query       string // encoded query string as sent
	ResultCount int
	DurationMS  int64
	SearchedAt  time.Time
}
