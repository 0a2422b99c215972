package postgres

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qaqabot/internal/domain"
	"qaqabot/internal/testutil"
)

var sheetTestColumns = []string{"id", "game_id", "current_user_id", "pending_position"}

func TestPendingSheets(t *testing.T) {
	tx, mock := newMockTx(t)
	rows := sqlmock.NewRows(sheetTestColumns).
		AddRow(int64(7), int64(4), int64(2), 0).
		AddRow(int64(5), int64(4), int64(2), 1)
	mock.ExpectQuery("SELECT id, game_id, current_user_id, pending_position\\s+FROM sheets\\s+WHERE current_user_id").
		WithArgs(int64(2)).
		WillReturnRows(rows)

	sheets, err := tx.PendingSheets(2)
	require.NoError(t, err)
	require.Len(t, sheets, 2)
	assert.Equal(t, int64(7), sheets[0].ID)
	require.NotNil(t, sheets[1].PendingPosition)
	assert.Equal(t, 1, *sheets[1].PendingPosition)
}

func TestSheetByID_NotFound(t *testing.T) {
	tx, mock := newMockTx(t)
	mock.ExpectQuery("SELECT id, game_id, current_user_id, pending_position FROM sheets WHERE id").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(sheetTestColumns))

	sheet, err := tx.SheetByID(7)
	require.NoError(t, err)
	assert.Nil(t, sheet)
}

func TestSheetProgressByGame(t *testing.T) {
	tx, mock := newMockTx(t)
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	columns := []string{
		"id", "game_id", "current_user_id", "pending_position", "num_entries",
		"e_id", "e_sheet_id", "e_position", "e_user_id", "e_type", "e_text",
		"e_chat_id", "e_message_id", "e_created_at",
	}
	rows := sqlmock.NewRows(columns).
		AddRow(int64(5), int64(4), int64(2), 0, 1,
			int64(9), int64(5), 0, int64(1), "question", "What is blue?", int64(101), 11, created).
		AddRow(int64(6), int64(4), nil, nil, 0,
			nil, nil, nil, nil, nil, nil, nil, nil, nil)
	mock.ExpectQuery("FROM sheets s").
		WithArgs(int64(4)).
		WillReturnRows(rows)

	progress, err := tx.SheetProgressByGame(4)
	require.NoError(t, err)
	require.Len(t, progress, 2)

	assert.Equal(t, 1, progress[0].NumEntries)
	require.NotNil(t, progress[0].LastEntry)
	assert.Equal(t, domain.EntryQuestion, progress[0].LastEntry.Type)
	assert.Equal(t, "What is blue?", progress[0].LastEntry.Text)

	assert.Equal(t, 0, progress[1].NumEntries)
	assert.Nil(t, progress[1].LastEntry)
	assert.Nil(t, progress[1].Sheet.CurrentUserID)
}

func TestCreateSheet(t *testing.T) {
	tx, mock := newMockTx(t)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO sheets (game_id, current_user_id, pending_position)")).
		WithArgs(int64(4), nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))

	sheet := &domain.Sheet{GameID: 4}
	require.NoError(t, tx.CreateSheet(sheet))
	assert.Equal(t, int64(5), sheet.ID)
}

func TestUpdateSheet(t *testing.T) {
	tx, mock := newMockTx(t)
	mock.ExpectExec("UPDATE sheets").
		WithArgs(int64(2), int64(1), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	sheet := &domain.Sheet{ID: 5, GameID: 4, CurrentUserID: testutil.Int64Ptr(2), PendingPosition: testutil.IntPtr(1)}
	require.NoError(t, tx.UpdateSheet(sheet))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteSheet(t *testing.T) {
	tx, mock := newMockTx(t)
	mock.ExpectExec("DELETE FROM sheets").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, tx.DeleteSheet(5))
	assert.NoError(t, mock.ExpectationsWereMet())
}
