package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/JanMyst/Chub-Search-Fixedv2/internal/api"
	"github.com/JanMyst/Chub-Search-Fixedv2/internal/db"
	"github.com/JanMyst/Chub-Search-Fixedv2/internal/models"
)

// subdirs by content kind
const (
	cardsDir     = "cards"
	lorebooksDir = "lorebooks"
)

// Importer writes downloaded payloads into the local card library and
// records them in the SQLite index.
type Importer struct {
	home     string
	database *db.DB
	logger   *log.Logger
}

// New creates an importer rooted at the given library home directory.
func New(home string, database *db.DB, logger *log.Logger) *Importer {
	return &Importer{home: home, database: database, logger: logger}
}

// Import persists a downloaded file and indexes it under the character's
// identity. Returns the path the payload was written to. Unknown content
// kinds are the caller's problem; the importer only accepts known kinds.
func (im *Importer) Import(file *api.ImportFile, ch models.Character) (string, error) {
	var subdir string
	switch file.Kind {
	case api.KindCharacter:
		subdir = cardsDir
	case api.KindLorebook:
		subdir = lorebooksDir
	default:
		return "", fmt.Errorf("refusing to import unknown content kind %q", file.Kind)
	}

	dir := filepath.Join(im.home, subdir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create library directory: %w", err)
	}

	name := sanitizeFileName(file.Name)
	if name == "" {
		name = sanitizeFileName(ch.Slug()) + ".png"
	}
	relPath := filepath.Join(subdir, name)
	absPath := filepath.Join(im.home, relPath)

	if err := os.WriteFile(absPath, file.Data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", relPath, err)
	}

	card := models.ImportedCard{
		FullPath:    ch.FullPath,
		Name:        ch.Name,
		Author:      ch.Author,
		Description: ch.Description,
		Tags:        strings.Join(ch.Tags, ","),
		ImageURL:    ch.ImageURL,
		FileName:    relPath,
		ContentKind: string(file.Kind),
		FileSize:    int64(len(file.Data)),
		ImportedAt:  time.Now(),
	}
	if err := im.database.SaveCharacter(card); err != nil {
		// don't leave an unindexed payload behind
		os.Remove(absPath)
		return "", err
	}

	if im.logger != nil {
		im.logger.Info("imported card", "fullPath", ch.FullPath, "file", relPath, "bytes", len(file.Data))
	}
	return absPath, nil
}

// Remove deletes a card's file and its index row.
func (im *Importer) Remove(card models.ImportedCard) error {
	if card.FileName != "" {
		path := filepath.Join(im.home, card.FileName)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", card.FileName, err)
		}
	}
	return im.database.DeleteCharacter(card.FullPath)
}

// sanitizeFileName strips path separators and control characters so a
// server-supplied filename cannot escape the library directory.
func sanitizeFileName(name string) string {
	name = filepath.Base(name)
	cleaned := strings.Map(func(r rune) rune {
		if r < 32 || r == '/' || r == '\\' || r == ':' {
			return '_'
		}
		return r
	}, name)
	cleaned = strings.Trim(cleaned, ". ")
	if cleaned == "." || cleaned == ".." {
		return ""
	}
	return cleaned
}
