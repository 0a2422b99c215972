package service

import (
	"fmt"

	"qaqabot/internal/domain"
	"qaqabot/internal/repository"
)

// assignToNext hands each sheet to the successor of its last entry's author in
// the game's rotation. The successor map is built once for the whole batch so
// every sheet of a synchronous round rotates against the same participant
// order. Sheets nobody has written on yet are abandoned chains; they are
// deleted instead of being passed around. Returns the users that received a
// sheet.
func (s *GameService) assignToNext(tx repository.Tx, game *domain.Game, sheets []domain.Sheet, parts []domain.Participant) ([]*domain.User, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("game %d has no participants to rotate to", game.ID)
	}
	successor := make(map[int64]int64, len(parts))
	for i, p := range parts {
		successor[p.UserID] = parts[(i+1)%len(parts)].UserID
	}

	var holders []*domain.User
	fetched := make(map[int64]*domain.User)
	for i := range sheets {
		sheet := sheets[i]
		last, err := tx.LastEntry(sheet.ID)
		if err != nil {
			return nil, err
		}
		if last == nil {
			if err := tx.DeleteSheet(sheet.ID); err != nil {
				return nil, err
			}
			continue
		}
		nextID, ok := successor[last.UserID]
		if !ok {
			// the author already left the rotation
			nextID = parts[0].UserID
		}
		holder := fetched[nextID]
		if holder == nil {
			holder, err = tx.UserByID(nextID)
			if err != nil {
				return nil, err
			}
			if holder == nil {
				return nil, fmt.Errorf("participant user %d not found", nextID)
			}
			fetched[nextID] = holder
		}
		if err := s.enqueueSheet(tx, &sheet, holder.ID); err != nil {
			return nil, err
		}
		holders = append(holders, holder)
	}
	return holders, nil
}

// enqueueSheet appends a sheet to the tail of a user's pending queue.
func (s *GameService) enqueueSheet(tx repository.Tx, sheet *domain.Sheet, userID int64) error {
	pending, err := tx.PendingSheets(userID)
	if err != nil {
		return err
	}
	pos := 0
	if n := len(pending); n > 0 {
		if pending[n-1].PendingPosition == nil {
			return fmt.Errorf("queued sheet %d of user %d has no pending position", pending[n-1].ID, userID)
		}
		pos = *pending[n-1].PendingPosition + 1
	}
	sheet.CurrentUserID = &userID
	sheet.PendingPosition = &pos
	return tx.UpdateSheet(sheet)
}
