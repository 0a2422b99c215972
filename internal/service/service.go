package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"qaqabot/internal/domain"
	"qaqabot/internal/repository"
)

// maxTxAttempts bounds the conflict-retry loop of a single action.
const maxTxAttempts = 30

// ErrTooManyConflicts is returned when an action keeps losing against
// concurrent transactions and exhausts its retry budget.
var ErrTooManyConflicts = errors.New("too many serialization conflicts")

// Sink delivers outgoing notifications. The engine invokes it only after the
// triggering transaction has committed; delivery failures are logged and never
// roll game state back.
type Sink interface {
	Deliver(chatID int64, text string) error
}

// GameService holds the game state machine. One method per player action; each
// runs inside a serializable transaction and emits its notifications through
// the sink after a successful commit.
type GameService struct {
	store     repository.Store
	sink      Sink
	publisher ResultPublisher
	logger    *zap.Logger
}

// NewGameService creates a new game service
func NewGameService(store repository.Store, sink Sink, publisher ResultPublisher, logger *zap.Logger) *GameService {
	return &GameService{
		store:     store,
		sink:      sink,
		publisher: publisher,
		logger:    logger,
	}
}

// runAction executes fn inside one serializable transaction and retries the
// whole closure on write-write conflicts. fn must keep all side effects inside
// the transaction: the messages it returns are handed to the sink only once
// the commit went through.
func (s *GameService) runAction(ctx context.Context, name string, fn func(tx repository.Tx) ([]domain.Message, error)) error {
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		msgs, err := s.tryAction(ctx, fn)
		if err != nil {
			if repository.IsSerialization(err) {
				s.logger.Warn("action lost a serialization conflict, retrying",
					zap.String("action", name),
					zap.Int("attempt", attempt),
				)
				continue
			}
			return fmt.Errorf("%s: %w", name, err)
		}
		s.deliver(msgs)
		return nil
	}
	return fmt.Errorf("%s: %w", name, ErrTooManyConflicts)
}

func (s *GameService) tryAction(ctx context.Context, fn func(tx repository.Tx) ([]domain.Message, error)) ([]domain.Message, error) {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	msgs, err := fn(tx)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (s *GameService) deliver(msgs []domain.Message) {
	for _, m := range msgs {
		if err := s.sink.Deliver(m.ChatID, m.Text); err != nil {
			s.logger.Error("failed to deliver notification",
				zap.Int64("chat_id", m.ChatID),
				zap.Error(err),
			)
		}
	}
}

// reply is a shorthand for a single-message notification list.
func reply(chatID int64, text string) []domain.Message {
	return []domain.Message{{ChatID: chatID, Text: text}}
}
