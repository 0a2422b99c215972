package postgres

import (
	"database/sql"

	"qaqabot/internal/domain"
)

const entryColumns = `id, sheet_id, position, user_id, type, text, chat_id, message_id, created_at`

func (t *Tx) Entries(sheetID int64) ([]domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE sheet_id = $1 ORDER BY position`
	rows, err := t.tx.Query(query, sheetID)
	if err != nil {
		return nil, wrapConflict(err)
	}
	defer rows.Close()

	var entries []domain.Entry
	for rows.Next() {
		var e domain.Entry
		if err := rows.Scan(&e.ID, &e.SheetID, &e.Position, &e.UserID, &e.Type, &e.Text,
			&e.ChatID, &e.MessageID, &e.CreatedAt); err != nil {
			return nil, wrapConflict(err)
		}
		entries = append(entries, e)
	}
	return entries, wrapConflict(rows.Err())
}

func (t *Tx) LastEntry(sheetID int64) (*domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE sheet_id = $1 ORDER BY position DESC LIMIT 1`
	return t.entryRow(query, sheetID)
}

func (t *Tx) EntryByMessage(chatID int64, messageID int) (*domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE chat_id = $1 AND message_id = $2 ORDER BY id DESC LIMIT 1`
	return t.entryRow(query, chatID, messageID)
}

func (t *Tx) entryRow(query string, args ...interface{}) (*domain.Entry, error) {
	var e domain.Entry
	err := t.tx.QueryRow(query, args...).Scan(&e.ID, &e.SheetID, &e.Position, &e.UserID, &e.Type,
		&e.Text, &e.ChatID, &e.MessageID, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrapConflict(err)
	}
	return &e, nil
}

func (t *Tx) CreateEntry(e *domain.Entry) error {
	query := `
		INSERT INTO entries (sheet_id, position, user_id, type, text, chat_id, message_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := t.tx.QueryRow(query, e.SheetID, e.Position, e.UserID, string(e.Type), e.Text,
		e.ChatID, e.MessageID, e.CreatedAt).Scan(&e.ID)
	return wrapConflict(err)
}

func (t *Tx) UpdateEntryText(id int64, text string) error {
	_, err := t.tx.Exec(`UPDATE entries SET text = $1 WHERE id = $2`, text, id)
	return wrapConflict(err)
}
