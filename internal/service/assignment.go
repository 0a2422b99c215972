package service

import (
	"fmt"

	"qaqabot/internal/domain"
	"qaqabot/internal/repository"
)

// nextSheet hands the head of each given user's pending queue out as their
// current sheet and produces the matching prompt. The sheet stays enqueued
// until the user submits. Users already working on a sheet are skipped unless
// repeat is set, which re-sends the current prompt without consuming the
// queue (used on re-registration and status queries).
func (s *GameService) nextSheet(tx repository.Tx, users []*domain.User, repeat bool) ([]domain.Message, error) {
	var msgs []domain.Message
	for _, user := range users {
		if user.CurrentSheetID != nil && !repeat {
			continue
		}
		pending, err := tx.PendingSheets(user.ID)
		if err != nil {
			return nil, err
		}
		if len(pending) == 0 {
			continue
		}
		head := pending[0]
		user.CurrentSheetID = &head.ID
		if err := tx.UpdateUser(user); err != nil {
			return nil, err
		}
		last, err := tx.LastEntry(head.ID)
		if err != nil {
			return nil, err
		}
		game, err := tx.GameByID(head.GameID)
		if err != nil {
			return nil, err
		}
		if game == nil {
			return nil, fmt.Errorf("sheet %d references missing game %d", head.ID, head.GameID)
		}
		msgs = append(msgs, domain.Message{ChatID: user.ChatID, Text: formatPrompt(game.Name, last)})
	}
	return msgs, nil
}
