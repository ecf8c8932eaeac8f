package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JanMyst/Chub-Search-Fixedv2/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := New(filepath.Join(t.TempDir(), "library.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func testCard(fullPath string) models.ImportedCard {
	return models.ImportedCard{
		FullPath:    fullPath,
		Name:        "Alice",
		Author:      "alice",
		Description: "A test card",
		Tags:        "fantasy,elf",
		ImageURL:    "https://example.com/alice.png",
		FileName:    "cards/my-char.png",
		ContentKind: "character",
		FileSize:    2048,
		ImportedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestSaveAndGetCharacter(t *testing.T) {
	database := newTestDB(t)
	require.NoError(t, database.SaveCharacter(testCard("alice/my-char")))

	card, found, err := database.GetCharacter("alice/my-char")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Alice", card.Name)
	assert.Equal(t, "cards/my-char.png", card.FileName)
	assert.Equal(t, "character", card.ContentKind)
	assert.Equal(t, int64(2048), card.FileSize)
	assert.Equal(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), card.ImportedAt)
}

func TestGetCharacter_NotFound(t *testing.T) {
	database := newTestDB(t)

	_, found, err := database.GetCharacter("nobody/nothing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSaveCharacter_UpsertsOnFullPath(t *testing.T) {
	database := newTestDB(t)
	require.NoError(t, database.SaveCharacter(testCard("alice/my-char")))

	updated := testCard("alice/my-char")
	updated.Name = "Alice v2"
	updated.FileSize = 4096
	require.NoError(t, database.SaveCharacter(updated))

	count, err := database.CountCharacters()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	card, found, err := database.GetCharacter("alice/my-char")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Alice v2", card.Name)
	assert.Equal(t, int64(4096), card.FileSize)
}

func TestListCharacters_NewestFirst(t *testing.T) {
	database := newTestDB(t)

	older := testCard("alice/older")
	older.ImportedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := testCard("bob/newer")
	newer.ImportedAt = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, database.SaveCharacter(older))
	require.NoError(t, database.SaveCharacter(newer))

	cards, err := database.ListCharacters()
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "bob/newer", cards[0].FullPath)
	assert.Equal(t, "alice/older", cards[1].FullPath)
}

func TestDeleteCharacter(t *testing.T) {
	database := newTestDB(t)
	require.NoError(t, database.SaveCharacter(testCard("alice/my-char")))
	require.NoError(t, database.DeleteCharacter("alice/my-char"))

	_, found, err := database.GetCharacter("alice/my-char")
	require.NoError(t, err)
	assert.False(t, found)

	// deleting a missing row is not an error
	require.NoError(t, database.DeleteCharacter("alice/my-char"))
}

func TestSearchHistory(t *testing.T) {
	database := newTestDB(t)

	for i, term := range []string{"dragon", "elf", "dragon"} {
		err := database.RecordSearch(models.SearchRecord{
			Term:        term,
			Query:       "search=" + term,
			ResultCount: i + 1,
			DurationMS:  120,
			SearchedAt:  time.Date(2025, 6, 1, 12, i, 0, 0, time.UTC),
		})
		require.NoError(t, err)
	}

	records, err := database.RecentSearches(10)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "dragon", records[0].Term)
	assert.Equal(t, 3, records[0].ResultCount)

	terms, err := database.RecentTerms(10)
	require.NoError(t, err)
	assert.Equal(t, []string{"dragon", "elf"}, terms)
}

func TestRecentSearches_LimitApplies(t *testing.T) {
	database := newTestDB(t)
	for i := 0; i < 5; i++ {
		require.NoError(t, database.RecordSearch(models.SearchRecord{
			Term:       "term",
			SearchedAt: time.Date(2025, 6, 1, 12, i, 0, 0, time.UTC),
		}))
	}

	records, err := database.RecentSearches(2)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}
