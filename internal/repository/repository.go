package repository

import (
	"context"
	"errors"

	"qaqabot/internal/domain"
)

// ErrSerialization marks a write-write conflict detected by the store. Game
// actions run inside serializable transactions and are re-run from scratch
// when they hit it.
var ErrSerialization = errors.New("serialization conflict")

// IsSerialization reports whether err is, or wraps, a serialization conflict.
func IsSerialization(err error) bool { return errors.Is(err, ErrSerialization) }

// Store opens transactions against the entity store.
type Store interface {
	Begin(ctx context.Context) (Tx, error)
}

// Tx is one atomic view of the game model. Lookups return nil without an error
// when no row matches. Mutations become visible to other transactions only on
// Commit.
type Tx interface {
	Commit() error
	Rollback() error

	// Users
	UserByID(id int64) (*domain.User, error)
	UserByAPIID(apiID int64) (*domain.User, error)
	UserByChatID(chatID int64) (*domain.User, error)
	CreateUser(u *domain.User) error
	UpdateUser(u *domain.User) error

	// Games
	GameByID(id int64) (*domain.Game, error)
	// OpenGameByChat returns the chat's single non-finished game, if any.
	OpenGameByChat(chatID int64) (*domain.Game, error)
	CreateGame(g *domain.Game) error
	UpdateGame(g *domain.Game) error

	// Participants, ordered by game_order
	Participants(gameID int64) ([]domain.Participant, error)
	ParticipationsByUser(userID int64) ([]domain.Participant, error)
	AddParticipant(p *domain.Participant) error
	RemoveParticipant(gameID, userID int64) error

	// Sheets
	SheetByID(id int64) (*domain.Sheet, error)
	SheetsByGame(gameID int64) ([]domain.Sheet, error)
	// PendingSheets returns the sheets queued to a user, head first.
	PendingSheets(userID int64) ([]domain.Sheet, error)
	SheetProgressByGame(gameID int64) ([]domain.SheetProgress, error)
	CreateSheet(s *domain.Sheet) error
	UpdateSheet(s *domain.Sheet) error
	DeleteSheet(id int64) error

	// Entries, ordered by position
	Entries(sheetID int64) ([]domain.Entry, error)
	LastEntry(sheetID int64) (*domain.Entry, error)
	EntryByMessage(chatID int64, messageID int) (*domain.Entry, error)
	CreateEntry(e *domain.Entry) error
	UpdateEntryText(id int64, text string) error
}
