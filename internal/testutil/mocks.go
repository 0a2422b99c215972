package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"qaqabot/internal/domain"
	"qaqabot/internal/repository"
)

// SinkRecorder captures every delivered notification for assertions.
type SinkRecorder struct {
	Messages []domain.Message
}

func (r *SinkRecorder) Deliver(chatID int64, text string) error {
	r.Messages = append(r.Messages, domain.Message{ChatID: chatID, Text: text})
	return nil
}

// Reset drops the captured messages.
func (r *SinkRecorder) Reset() {
	r.Messages = nil
}

// TextsFor returns the texts delivered to one chat, in order.
func (r *SinkRecorder) TextsFor(chatID int64) []string {
	var texts []string
	for _, m := range r.Messages {
		if m.ChatID == chatID {
			texts = append(texts, m.Text)
		}
	}
	return texts
}

// MockSink is a mock for service.Sink
type MockSink struct {
	mock.Mock
}

func (m *MockSink) Deliver(chatID int64, text string) error {
	args := m.Called(chatID, text)
	return args.Error(0)
}

// ConflictStore wraps another store and fails the first Remaining commits with
// a serialization conflict, to exercise the engine's retry loop.
type ConflictStore struct {
	Inner     repository.Store
	Remaining int
}

func (s *ConflictStore) Begin(ctx context.Context) (repository.Tx, error) {
	tx, err := s.Inner.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &conflictTx{Tx: tx, store: s}, nil
}

type conflictTx struct {
	repository.Tx
	store *ConflictStore
}

func (t *conflictTx) Commit() error {
	if t.store.Remaining > 0 {
		t.store.Remaining--
		_ = t.Tx.Rollback()
		return repository.ErrSerialization
	}
	return t.Tx.Commit()
}
