package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/JanMyst/Chub-Search-Fixedv2/internal/models"
)

// SaveCharacter inserts or updates a library entry keyed by full_path.
// Re-importing an existing card replaces its metadata and file reference.
func (db *DB) SaveCharacter(card models.ImportedCard) error {
	_, err := db.conn.Exec(upsertCharacter,
		card.FullPath,
		card.Name,
		card.Author,
		card.Description,
		card.Tags,
		card.ImageURL,
		card.FileName,
		card.ContentKind,
		card.FileSize,
		card.ImportedAt.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("failed to save character %s: %w", card.FullPath, err)
	}
	return nil
}

// ListCharacters returns every library entry, newest import first
func (db *DB) ListCharacters() ([]models.ImportedCard, error) {
	rows, err := db.conn.Query(selectCharacters)
	if err != nil {
		return nil, fmt.Errorf("failed to query characters: %w", err)
	}
	defer rows.Close()

	var cards []models.ImportedCard
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

// GetCharacter looks up one library entry by fullPath.
// Returns (zero, false, nil) when the card is not in the library.
func (db *DB) GetCharacter(fullPath string) (models.ImportedCard, bool, error) {
	row := db.conn.QueryRow(selectCharacterByPath, fullPath)
	card, err := scanCard(row)
	if err == sql.ErrNoRows {
		return models.ImportedCard{}, false, nil
	}
	if err != nil {
		return models.ImportedCard{}, false, err
	}
	return card, true, nil
}

// DeleteCharacter removes a library entry by fullPath
func (db *DB) DeleteCharacter(fullPath string) error {
	if _, err := db.conn.Exec(deleteCharacterByPath, fullPath); err != nil {
		return fmt.Errorf("failed to delete character %s: %w", fullPath, err)
	}
	return nil
}

// CountCharacters returns the number of imported cards
func (db *DB) CountCharacters() (int, error) {
	var total int
	if err := db.conn.QueryRow(countCharacters).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count characters: %w", err)
	}
	return total, nil
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanCard(s scanner) (models.ImportedCard, error) {
	var card models.ImportedCard
	var importedAt string
	err := s.Scan(
		&card.ID,
		&card.FullPath,
		&card.Name,
		&card.Author,
		&card.Description,
		&card.Tags,
		&card.ImageURL,
		&card.FileName,
		&card.ContentKind,
		&card.FileSize,
		&importedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return card, err
		}
		return card, fmt.Errorf("failed to scan character row: %w", err)
	}
	card.ImportedAt, _ = time.Parse(timeFormat, importedAt)
	return card, nil
}
