package postgres

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qaqabot/internal/domain"
)

var entryTestColumns = []string{
	"id", "sheet_id", "position", "user_id", "type", "text", "chat_id", "message_id", "created_at",
}

func TestLastEntry(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		tx, mock := newMockTx(t)
		created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		rows := sqlmock.NewRows(entryTestColumns).
			AddRow(int64(9), int64(5), 1, int64(2), "answer", "The sky.", int64(102), 21, created)
		mock.ExpectQuery("FROM entries WHERE sheet_id = \\$1 ORDER BY position DESC LIMIT 1").
			WithArgs(int64(5)).
			WillReturnRows(rows)

		entry, err := tx.LastEntry(5)
		require.NoError(t, err)
		require.NotNil(t, entry)
		assert.Equal(t, domain.EntryAnswer, entry.Type)
		assert.Equal(t, 1, entry.Position)
		assert.Equal(t, "The sky.", entry.Text)
	})

	t.Run("empty sheet", func(t *testing.T) {
		tx, mock := newMockTx(t)
		mock.ExpectQuery("FROM entries WHERE sheet_id").
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows(entryTestColumns))

		entry, err := tx.LastEntry(5)
		require.NoError(t, err)
		assert.Nil(t, entry)
	})
}

func TestEntryByMessage(t *testing.T) {
	tx, mock := newMockTx(t)
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(entryTestColumns).
		AddRow(int64(9), int64(5), 0, int64(1), "question", "What is blue?", int64(101), 11, created)
	mock.ExpectQuery("FROM entries WHERE chat_id = \\$1 AND message_id = \\$2 ORDER BY id DESC LIMIT 1").
		WithArgs(int64(101), 11).
		WillReturnRows(rows)

	entry, err := tx.EntryByMessage(101, 11)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, int64(9), entry.ID)
	assert.Equal(t, 11, entry.MessageID)
}

func TestEntries(t *testing.T) {
	tx, mock := newMockTx(t)
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(entryTestColumns).
		AddRow(int64(8), int64(5), 0, int64(1), "question", "What is blue?", int64(101), 11, created).
		AddRow(int64(9), int64(5), 1, int64(2), "answer", "The sky.", int64(102), 21, created)
	mock.ExpectQuery("FROM entries WHERE sheet_id = \\$1 ORDER BY position").
		WithArgs(int64(5)).
		WillReturnRows(rows)

	entries, err := tx.Entries(5)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.EntryQuestion, entries[0].Type)
	assert.Equal(t, domain.EntryAnswer, entries[1].Type)
}

func TestCreateEntry(t *testing.T) {
	tx, mock := newMockTx(t)
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO entries (sheet_id, position, user_id, type, text, chat_id, message_id, created_at)")).
		WithArgs(int64(5), 0, int64(1), "question", "What is blue?", int64(101), 11, created).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(9)))

	entry := &domain.Entry{
		SheetID:   5,
		Position:  0,
		UserID:    1,
		Type:      domain.EntryQuestion,
		Text:      "What is blue?",
		ChatID:    101,
		MessageID: 11,
		CreatedAt: created,
	}
	require.NoError(t, tx.CreateEntry(entry))
	assert.Equal(t, int64(9), entry.ID)
}

func TestUpdateEntryText(t *testing.T) {
	tx, mock := newMockTx(t)
	mock.ExpectExec("UPDATE entries SET text").
		WithArgs("What is green?", int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, tx.UpdateEntryText(9, "What is green?"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
