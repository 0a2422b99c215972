package postgres

import (
	"database/sql"

	"qaqabot/internal/domain"
)

const userColumns = `id, api_id, chat_id, name, current_sheet_id`

func (t *Tx) UserByID(id int64) (*domain.User, error) {
	return t.userBy(`id = $1`, id)
}

func (t *Tx) UserByAPIID(apiID int64) (*domain.User, error) {
	return t.userBy(`api_id = $1`, apiID)
}

func (t *Tx) UserByChatID(chatID int64) (*domain.User, error) {
	return t.userBy(`chat_id = $1`, chatID)
}

func (t *Tx) userBy(where string, arg interface{}) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where
	u, err := scanUser(t.tx.QueryRow(query, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrapConflict(err)
	}
	return u, nil
}

func scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	var currentSheet sql.NullInt64
	if err := row.Scan(&u.ID, &u.APIID, &u.ChatID, &u.Name, &currentSheet); err != nil {
		return nil, err
	}
	if currentSheet.Valid {
		u.CurrentSheetID = &currentSheet.Int64
	}
	return &u, nil
}

func (t *Tx) CreateUser(u *domain.User) error {
	query := `
		INSERT INTO users (api_id, chat_id, name, current_sheet_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := t.tx.QueryRow(query, u.APIID, u.ChatID, u.Name, nullInt64(u.CurrentSheetID)).Scan(&u.ID)
	return wrapConflict(err)
}

func (t *Tx) UpdateUser(u *domain.User) error {
	query := `
		UPDATE users
		SET api_id = $1, chat_id = $2, name = $3, current_sheet_id = $4
		WHERE id = $5
	`
	_, err := t.tx.Exec(query, u.APIID, u.ChatID, u.Name, nullInt64(u.CurrentSheetID), u.ID)
	return wrapConflict(err)
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
