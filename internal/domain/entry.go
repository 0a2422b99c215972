package domain

import "time"

// EntryType distinguishes questions from answers on a sheet.
type EntryType string

const (
	EntryQuestion EntryType = "question"
	EntryAnswer   EntryType = "answer"
)

// Entry is one contribution on a sheet. Entries are append-only; only the text
// of the last entry may be edited, and only while nobody has responded yet.
type Entry struct {
	ID        int64
	SheetID   int64
	Position  int
	UserID    int64
	Type      EntryType
	Text      string
	ChatID    int64 // private chat the text arrived in
	MessageID int   // Telegram message id, used to look entries up on edits
	CreatedAt time.Time
}

// NextEntryType returns the type the next entry on a sheet must have: chains
// open with a question and strictly alternate afterwards.
func NextEntryType(last *Entry) EntryType {
	if last == nil || last.Type == EntryAnswer {
		return EntryQuestion
	}
	return EntryAnswer
}
