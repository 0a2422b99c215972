package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"qaqabot/internal/domain"
	"qaqabot/internal/repository"
)

// finishIfComplete finalizes the game once every sheet carries at least the
// configured number of entries. Checked after every submission.
func (s *GameService) finishIfComplete(tx repository.Tx, game *domain.Game, progress []domain.SheetProgress) ([]domain.Message, bool, error) {
	if game.Rounds == nil {
		return nil, false, nil
	}
	for _, pi := range progress {
		if pi.NumEntries < *game.Rounds {
			return nil, false, nil
		}
	}
	msgs, err := s.finalize(tx, game)
	return msgs, err == nil, err
}

// finishIfStopRequested finalizes a game that is waiting to finish once no
// sheet ends mid-question: every sheet is either empty or its last entry is an
// answer. Checked after every submission and right when the stop is requested.
func (s *GameService) finishIfStopRequested(tx repository.Tx, game *domain.Game, progress []domain.SheetProgress) ([]domain.Message, bool, error) {
	if !game.IsWaitingForFinish {
		return nil, false, nil
	}
	for _, pi := range progress {
		if pi.LastEntry != nil && pi.LastEntry.Type == domain.EntryQuestion {
			return nil, false, nil
		}
	}
	msgs, err := s.finalize(tx, game)
	return msgs, err == nil, err
}

// finalize is the terminal transition of a game: retract every sheet still
// queued to a user (telling holders no answer is needed and handing them their
// next sheet from other games), reveal the written sheets in the group chat
// together with the published result link, and stamp the game finished. The
// finished timestamp guards against running this twice.
func (s *GameService) finalize(tx repository.Tx, game *domain.Game) ([]domain.Message, error) {
	if game.Finished() {
		return nil, nil
	}
	sheets, err := tx.SheetsByGame(game.ID)
	if err != nil {
		return nil, err
	}

	var msgs []domain.Message
	var affected []*domain.User
	holders := make(map[int64]*domain.User)
	for i := range sheets {
		sheet := &sheets[i]
		if sheet.CurrentUserID == nil {
			continue
		}
		holderID := *sheet.CurrentUserID
		holder := holders[holderID]
		if holder == nil {
			holder, err = tx.UserByID(holderID)
			if err != nil {
				return nil, err
			}
			if holder == nil {
				return nil, fmt.Errorf("sheet %d queued to missing user %d", sheet.ID, holderID)
			}
			holders[holderID] = holder
		}
		sheet.CurrentUserID = nil
		sheet.PendingPosition = nil
		if err := tx.UpdateSheet(sheet); err != nil {
			return nil, err
		}
		if holder.CurrentSheetID != nil && *holder.CurrentSheetID == sheet.ID {
			holder.CurrentSheetID = nil
			if err := tx.UpdateUser(holder); err != nil {
				return nil, err
			}
			msgs = append(msgs, domain.Message{ChatID: holder.ChatID, Text: "The game was ended. No answer is required anymore."})
			affected = append(affected, holder)
		}
	}

	// hand the affected users their next sheet from a still-running game
	prompts, err := s.nextSheet(tx, affected, false)
	if err != nil {
		return nil, err
	}
	msgs = append(msgs, prompts...)

	for i := range sheets {
		entries, err := tx.Entries(sheets[i].ID)
		if err != nil {
			return nil, err
		}
		if len(entries) == 0 {
			continue
		}
		text, err := s.formatResult(tx, game, entries)
		if err != nil {
			return nil, err
		}
		for _, chunk := range domain.SplitText(text, domain.MaxMessageLength) {
			msgs = append(msgs, domain.Message{ChatID: game.ChatID, Text: chunk})
		}
	}

	token := uuid.NewString()
	now := time.Now()
	game.ResultToken = &token
	game.FinishedAt = &now
	if err := tx.UpdateGame(game); err != nil {
		return nil, err
	}
	msgs = append(msgs, domain.Message{
		ChatID: game.ChatID,
		Text:   fmt.Sprintf("Game %q finished! Full results: %s", game.Name, s.publisher.ResultLink(token)),
	})
	return msgs, nil
}
