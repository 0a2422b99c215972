package postgres

import (
	"database/sql"
	"time"

	"qaqabot/internal/domain"
)

const gameColumns = `id, chat_id, name, started_at, finished_at, is_waiting_for_finish,
		rounds, is_synchronous, is_showing_result_names, result_token`

func (t *Tx) GameByID(id int64) (*domain.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`
	return t.gameRow(query, id)
}

func (t *Tx) OpenGameByChat(chatID int64) (*domain.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE chat_id = $1 AND finished_at IS NULL`
	return t.gameRow(query, chatID)
}

func (t *Tx) gameRow(query string, arg interface{}) (*domain.Game, error) {
	var g domain.Game
	var startedAt, finishedAt sql.NullTime
	var rounds sql.NullInt64
	var resultToken sql.NullString
	err := t.tx.QueryRow(query, arg).Scan(
		&g.ID, &g.ChatID, &g.Name, &startedAt, &finishedAt, &g.IsWaitingForFinish,
		&rounds, &g.IsSynchronous, &g.IsShowingResultNames, &resultToken,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, wrapConflict(err)
	}
	if startedAt.Valid {
		g.StartedAt = &startedAt.Time
	}
	if finishedAt.Valid {
		g.FinishedAt = &finishedAt.Time
	}
	if rounds.Valid {
		r := int(rounds.Int64)
		g.Rounds = &r
	}
	if resultToken.Valid {
		g.ResultToken = &resultToken.String
	}
	return &g, nil
}

func (t *Tx) CreateGame(g *domain.Game) error {
	query := `
		INSERT INTO games (chat_id, name, started_at, finished_at, is_waiting_for_finish,
			rounds, is_synchronous, is_showing_result_names, result_token)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err := t.tx.QueryRow(query,
		g.ChatID, g.Name, nullTime(g.StartedAt), nullTime(g.FinishedAt), g.IsWaitingForFinish,
		nullInt(g.Rounds), g.IsSynchronous, g.IsShowingResultNames, nullString(g.ResultToken),
	).Scan(&g.ID)
	return wrapConflict(err)
}

func (t *Tx) UpdateGame(g *domain.Game) error {
	query := `
		UPDATE games
		SET started_at = $1, finished_at = $2, is_waiting_for_finish = $3,
			rounds = $4, is_synchronous = $5, is_showing_result_names = $6, result_token = $7
		WHERE id = $8
	`
	_, err := t.tx.Exec(query,
		nullTime(g.StartedAt), nullTime(g.FinishedAt), g.IsWaitingForFinish,
		nullInt(g.Rounds), g.IsSynchronous, g.IsShowingResultNames, nullString(g.ResultToken),
		g.ID,
	)
	return wrapConflict(err)
}

func (t *Tx) Participants(gameID int64) ([]domain.Participant, error) {
	query := `
		SELECT game_id, user_id, game_order
		FROM participants
		WHERE game_id = $1
		ORDER BY game_order
	`
	return t.participantRows(query, gameID)
}

func (t *Tx) ParticipationsByUser(userID int64) ([]domain.Participant, error) {
	query := `
		SELECT game_id, user_id, game_order
		FROM participants
		WHERE user_id = $1
		ORDER BY game_id
	`
	return t.participantRows(query, userID)
}

func (t *Tx) participantRows(query string, arg interface{}) ([]domain.Participant, error) {
	rows, err := t.tx.Query(query, arg)
	if err != nil {
		return nil, wrapConflict(err)
	}
	defer rows.Close()

	var parts []domain.Participant
	for rows.Next() {
		var p domain.Participant
		if err := rows.Scan(&p.GameID, &p.UserID, &p.GameOrder); err != nil {
			return nil, wrapConflict(err)
		}
		parts = append(parts, p)
	}
	return parts, wrapConflict(rows.Err())
}

func (t *Tx) AddParticipant(p *domain.Participant) error {
	query := `
		INSERT INTO participants (game_id, user_id, game_order)
		VALUES ($1, $2, $3)
	`
	_, err := t.tx.Exec(query, p.GameID, p.UserID, p.GameOrder)
	return wrapConflict(err)
}

func (t *Tx) RemoveParticipant(gameID, userID int64) error {
	query := `DELETE FROM participants WHERE game_id = $1 AND user_id = $2`
	_, err := t.tx.Exec(query, gameID, userID)
	return wrapConflict(err)
}

func nullTime(v *time.Time) sql.NullTime {
	if v == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *v, Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
