package db

const createCharactersTable = `
CREATE TABLE IF NOT EXISTS characters (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    full_path TEXT NOT NULL UNIQUE,
    name TEXT,
    author TEXT,
    description TEXT,
    tags TEXT,
    image_url TEXT,
    file_name TEXT,
    content_kind TEXT,
    file_size INTEGER,
    imported_at TEXT
);

CREATE INDEX IF NOT EXISTS idx_characters_author ON characters(author);
CREATE INDEX IF NOT EXISTS idx_characters_kind ON characters(content_kind);
`

const upsertCharacter = `
INSERT INTO characters (
    full_path, name, author, description, tags,
    image_url, file_name, content_kind, file_size, imported_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(full_path) DO UPDATE SET
    name = excluded.name,
    author = excluded.author,
    description = excluded.description,
    tags = excluded.tags,
    image_url = excluded.image_url,
    file_name = excluded.file_name,
    content_kind = excluded.content_kind,
    file_size = excluded.file_size,
    imported_at = excluded.imported_at
`

const selectCharacters = `
SELECT id, full_path, name, author, description, tags,
       image_url, file_name, content_kind, file_size, imported_at
FROM characters
ORDER BY imported_at DESC
`

const selectCharacterByPath = `
SELECT id, full_path, name, author, description, tags,
       image_url, file_name, content_kind, file_size, imported_at
FROM characters
WHERE full_path = ?
`

const deleteCharacterByPath = `
DELETE FROM characters WHERE full_path = ?
`

const countCharacters = `
SELECT COUNT(*) FROM characters
`

// Schema for the search history log
const createSearchesTable = `
CREATE TABLE IF NOT EXISTS searches (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    term TEXT,
    query TEXT,
    result_count INTEGER,
    duration_ms INTEGER,
    searched_at TEXT
);

CREATE INDEX IF NOT EXISTS idx_searches_at ON searches(searched_at);
`

const insertSearch = `
INSERT INTO searches (term, query, result_count, duration_ms, searched_at)
VALUES (?, ?, ?, ?, ?)
`

const selectRecentSearches = `
SELECT id, term, query, result_count, duration_ms, searched_at
FROM searches
ORDER BY searched_at DESC, id DESC
LIMIT ?
`

const selectRecentTerms = `
SELECT term FROM searches
WHERE term != ''
GROUP BY term
ORDER BY MAX(searched_at) DESC
LIMIT ?
`
