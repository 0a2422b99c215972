package domain

// Sheet is one evolving chain of alternating questions and answers within a
// game. CurrentUserID tells in whose pending queue the sheet waits; nil means
// the sheet is parked (between synchronous rounds, or the game is over).
type Sheet struct {
	ID              int64
	GameID          int64
	CurrentUserID   *int64
	PendingPosition *int
}

// SheetProgress bundles a sheet with its entry count and last entry, so the
// completion checks can look at a whole game without re-reading every entry.
type SheetProgress struct {
	Sheet      Sheet
	NumEntries int
	LastEntry  *Entry
}
