package db

import (
	"fmt"
	"time"

	"github.com/JanMyst/Chub-Search-Fixedv2/internal/models"
)

// RecordSearch appends one completed search to the history log
func (db *DB) RecordSearch(rec models.SearchRecord) error {
	searchedAt := rec.SearchedAt
	if searchedAt.IsZero() {
		searchedAt = time.Now()
	}
	_, err := db.conn.Exec(insertSearch,
		rec.Term,
		rec.Query,
		rec.ResultCount,
		rec.DurationMS,
		searchedAt.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("failed to record search: %w", err)
	}
	return nil
}

// RecentSearches returns up to limit history entries, newest first
func (db *DB) RecentSearches(limit int) ([]models.SearchRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(selectRecentSearches, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query search history: %w", err)
	}
	defer rows.Close()

	var records []models.SearchRecord
	for rows.Next() {
		var rec models.SearchRecord
		var searchedAt string
		if err := rows.Scan(&rec.ID, &rec.Term, &rec.Query, &rec.ResultCount, &rec.DurationMS, &searchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan search row: %w", err)
		}
		rec.SearchedAt, _ = time.Parse(timeFormat, searchedAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// RecentTerms returns distinct search terms, most recently used first.
// Used by the browse view to cycle history in the search box.
func (db *DB) RecentTerms(limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := db.conn.Query(selectRecentTerms, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent terms: %w", err)
	}
	defer rows.Close()

	var terms []string
	for rows.Next() {
		var term string
		if err := rows.Scan(&term); err != nil {
			return nil, fmt.Errorf("failed to scan term: %w", err)
		}
		terms = append(terms, term)
	}
	return terms, rows.Err()
}
