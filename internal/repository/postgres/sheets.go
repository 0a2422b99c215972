package postgres

import (
	"database/sql"

	"qaqabot/internal/domain"
)

func (t *Tx) SheetByID(id int64) (*domain.Sheet, error) {
	query := `SELECT id, game_id, current_user_id, pending_position FROM sheets WHERE id = $1`
	s, err := scanSheet(t.tx.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrapConflict(err)
	}
	return s, nil
}

func (t *Tx) SheetsByGame(gameID int64) ([]domain.Sheet, error) {
	query := `
		SELECT id, game_id, current_user_id, pending_position
		FROM sheets
		WHERE game_id = $1
		ORDER BY id
	`
	return t.sheetRows(query, gameID)
}

func (t *Tx) PendingSheets(userID int64) ([]domain.Sheet, error) {
	query := `
		SELECT id, game_id, current_user_id, pending_position
		FROM sheets
		WHERE current_user_id = $1
		ORDER BY pending_position
	`
	return t.sheetRows(query, userID)
}

func (t *Tx) sheetRows(query string, arg interface{}) ([]domain.Sheet, error) {
	rows, err := t.tx.Query(query, arg)
	if err != nil {
		return nil, wrapConflict(err)
	}
	defer rows.Close()

	var sheets []domain.Sheet
	for rows.Next() {
		var s domain.Sheet
		var currentUser, pendingPos sql.NullInt64
		if err := rows.Scan(&s.ID, &s.GameID, &currentUser, &pendingPos); err != nil {
			return nil, wrapConflict(err)
		}
		if currentUser.Valid {
			s.CurrentUserID = &currentUser.Int64
		}
		if pendingPos.Valid {
			p := int(pendingPos.Int64)
			s.PendingPosition = &p
		}
		sheets = append(sheets, s)
	}
	return sheets, wrapConflict(rows.Err())
}

func scanSheet(row *sql.Row) (*domain.Sheet, error) {
	var s domain.Sheet
	var currentUser, pendingPos sql.NullInt64
	if err := row.Scan(&s.ID, &s.GameID, &currentUser, &pendingPos); err != nil {
		return nil, err
	}
	if currentUser.Valid {
		s.CurrentUserID = &currentUser.Int64
	}
	if pendingPos.Valid {
		p := int(pendingPos.Int64)
		s.PendingPosition = &p
	}
	return &s, nil
}

// SheetProgressByGame fetches every sheet of a game together with its entry
// count and last entry in a single query, so the completion checks never issue
// per-sheet reads.
func (t *Tx) SheetProgressByGame(gameID int64) ([]domain.SheetProgress, error) {
	query := `
		SELECT s.id, s.game_id, s.current_user_id, s.pending_position,
			COALESCE(c.num_entries, 0),
			e.id, e.sheet_id, e.position, e.user_id, e.type, e.text, e.chat_id, e.message_id, e.created_at
		FROM sheets s
		LEFT JOIN (
			SELECT sheet_id, COUNT(*) AS num_entries FROM entries GROUP BY sheet_id
		) c ON c.sheet_id = s.id
		LEFT JOIN (
			SELECT sheet_id, MAX(position) AS max_position FROM entries GROUP BY sheet_id
		) m ON m.sheet_id = s.id
		LEFT JOIN entries e ON e.sheet_id = s.id AND e.position = m.max_position
		WHERE s.game_id = $1
		ORDER BY s.id
	`
	rows, err := t.tx.Query(query, gameID)
	if err != nil {
		return nil, wrapConflict(err)
	}
	defer rows.Close()

	var progress []domain.SheetProgress
	for rows.Next() {
		var pi domain.SheetProgress
		var currentUser, pendingPos sql.NullInt64
		var entryID, entrySheet, entryPos, entryUser, entryChat, entryMsg sql.NullInt64
		var entryType, entryText sql.NullString
		var entryCreated sql.NullTime
		err := rows.Scan(
			&pi.Sheet.ID, &pi.Sheet.GameID, &currentUser, &pendingPos,
			&pi.NumEntries,
			&entryID, &entrySheet, &entryPos, &entryUser, &entryType, &entryText,
			&entryChat, &entryMsg, &entryCreated,
		)
		if err != nil {
			return nil, wrapConflict(err)
		}
		if currentUser.Valid {
			pi.Sheet.CurrentUserID = &currentUser.Int64
		}
		if pendingPos.Valid {
			p := int(pendingPos.Int64)
			pi.Sheet.PendingPosition = &p
		}
		if entryID.Valid {
			pi.LastEntry = &domain.Entry{
				ID:        entryID.Int64,
				SheetID:   entrySheet.Int64,
				Position:  int(entryPos.Int64),
				UserID:    entryUser.Int64,
				Type:      domain.EntryType(entryType.String),
				Text:      entryText.String,
				ChatID:    entryChat.Int64,
				MessageID: int(entryMsg.Int64),
				CreatedAt: entryCreated.Time,
			}
		}
		progress = append(progress, pi)
	}
	return progress, wrapConflict(rows.Err())
}

func (t *Tx) CreateSheet(s *domain.Sheet) error {
	query := `
		INSERT INTO sheets (game_id, current_user_id, pending_position)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := t.tx.QueryRow(query, s.GameID, nullInt64(s.CurrentUserID), nullInt(s.PendingPosition)).Scan(&s.ID)
	return wrapConflict(err)
}

func (t *Tx) UpdateSheet(s *domain.Sheet) error {
	query := `
		UPDATE sheets
		SET current_user_id = $1, pending_position = $2
		WHERE id = $3
	`
	_, err := t.tx.Exec(query, nullInt64(s.CurrentUserID), nullInt(s.PendingPosition), s.ID)
	return wrapConflict(err)
}

func (t *Tx) DeleteSheet(id int64) error {
	// entries are removed by the ON DELETE CASCADE on entries.sheet_id
	_, err := t.tx.Exec(`DELETE FROM sheets WHERE id = $1`, id)
	return wrapConflict(err)
}
