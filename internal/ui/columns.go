package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"

	"github.com/JanMyst/Chub-Search-Fixedv2/internal/models"
)

// CharacterColumns calculates browse-table column widths so they sum to
// exactly totalW, which keeps the selection highlight full-width.
func CharacterColumns(totalW int) []table.Column {
	if totalW < 60 {
		totalW = 60
	}

	nameW := 20
	authorW := 14
	ratingW := 6
	tokensW := 7
	chatsW := 7
	fixed := nameW + authorW + ratingW + tokensW + chatsW

	descW := totalW - fixed
	if descW < 12 {
		descW = 12
		if shrink := fixed + descW - totalW; nameW > shrink {
			nameW -= shrink
		}
	}
	if adjust := totalW - (nameW + authorW + ratingW + tokensW + chatsW + descW); adjust != 0 {
		descW += adjust
	}

	return []table.Column{
		{Title: "Name", Width: nameW},
		{Title: "Author", Width: authorW},
		{Title: "Rating", Width: ratingW},
		{Title: "Tokens", Width: tokensW},
		{Title: "Chats", Width: chatsW},
		{Title: "Description", Width: descW},
	}
}

// CharacterRows formats canonical records for the browse table.
func CharacterRows(records []models.Character, columns []table.Column) []table.Row {
	nameW := columns[0].Width
	authorW := columns[1].Width
	descW := columns[5].Width

	rows := make([]table.Row, len(records))
	for i, ch := range records {
		rating := ""
		if ch.Rating > 0 {
			rating = fmt.Sprintf("%.1f", ch.Rating)
		}
		tokens := ""
		if ch.Tokens > 0 {
			tokens = fmt.Sprintf("%d", ch.Tokens)
		}
		chats := ""
		if ch.ChatCount > 0 {
			chats = fmt.Sprintf("%d", ch.ChatCount)
		}
		desc := ch.Description
		if len(ch.Tags) > 0 {
			desc = "[" + strings.Join(ch.Tags, " ") + "] " + desc
		}
		rows[i] = table.Row{
			Truncate(ch.Name, nameW),
			Truncate(ch.Author, authorW),
			rating,
			tokens,
			chats,
			Truncate(desc, descW),
		}
	}
	return rows
}

// LibraryColumns calculates library-table column widths summing to totalW.
func LibraryColumns(totalW int) []table.Column {
	if totalW < 60 {
		totalW = 60
	}

	nameW := 24
	authorW := 16
	kindW := 10
	sizeW := 9
	fixed := nameW + authorW + kindW + sizeW

	importedW := totalW - fixed
	if importedW < 12 {
		importedW = 12
		if shrink := fixed + importedW - totalW; nameW > shrink {
			nameW -= shrink
		}
	}
	if adjust := totalW - (nameW + authorW + kindW + sizeW + importedW); adjust != 0 {
		importedW += adjust
	}

	return []table.Column{
		{Title: "Name", Width: nameW},
		{Title: "Author", Width: authorW},
		{Title: "Kind", Width: kindW},
		{Title: "Size", Width: sizeW},
		{Title: "Imported", Width: importedW},
	}
}

// LibraryRows formats library entries for the library table.
func LibraryRows(cards []models.ImportedCard, columns []table.Column) []table.Row {
	nameW := columns[0].Width
	authorW := columns[1].Width

	rows := make([]table.Row, len(cards))
	for i, card := range cards {
		rows[i] = table.Row{
			Truncate(card.Name, nameW),
			Truncate(card.Author, authorW),
			card.ContentKind,
			HumanReadableSize(card.FileSize),
			card.ImportedAt.Format("2006-01-02 15:04"),
		}
	}
	return rows
}

// HumanReadableSize converts bytes to a human-readable string
func HumanReadableSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
