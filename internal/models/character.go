package models

// Character is the canonical, normalized form of one catalog search result.
// Identity is FullPath ("<author>/<slug>"), which doubles as the download key.
// Records are built once by the result normalizer and never mutated.
type Character struct {
	FullPath    string
	Name        string
	Description string
	Author      string // derived from FullPath, never a dedicated API field
	Tags        []string
	ImageURL    string

	// Display extras, zero when the catalog omits them
	Rating    float64
	Tokens    int
	ChatCount int
}

// Slug returns the part of FullPath after the author segment.
func (c Character) Slug() string {
	for i := 0; i < len(c.FullPath); i++ {
		if c.FullPath[i] == '/' {
			return c.FullPath[i+1:]
		}
	}
	return c.FullPath
}
