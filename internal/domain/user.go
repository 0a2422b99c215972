package domain

// User is a registered player, reachable through their private chat with the
// bot. Users are created on first registration and never deleted.
type User struct {
	ID     int64
	APIID  int64 // Telegram user id
	ChatID int64 // private chat with the bot
	Name   string
	// CurrentSheetID points at the sheet the user was asked to write on.
	// When set, it is always the head of the user's pending queue: handing a
	// sheet out does not dequeue it, submitting does.
	CurrentSheetID *int64
}
