package service

import (
	"context"
	"fmt"
	"time"

	"qaqabot/internal/domain"
	"qaqabot/internal/repository"
)

// RegisterUser records a user and their private chat when they start talking
// to the bot. Re-registration updates the stored chat and name and re-sends
// the current prompt, so a user who lost the conversation can pick up again.
func (s *GameService) RegisterUser(ctx context.Context, chatID, apiID int64, name string) error {
	return s.runAction(ctx, "register_user", func(tx repository.Tx) ([]domain.Message, error) {
		user, err := tx.UserByAPIID(apiID)
		if err != nil {
			return nil, err
		}
		if user != nil {
			user.ChatID = chatID
			user.Name = name
			if err := tx.UpdateUser(user); err != nil {
				return nil, err
			}
			msgs := reply(chatID, "Welcome back! You are all set to play.")
			prompts, err := s.nextSheet(tx, []*domain.User{user}, true)
			if err != nil {
				return nil, err
			}
			return append(msgs, prompts...), nil
		}
		user = &domain.User{APIID: apiID, ChatID: chatID, Name: name}
		if err := tx.CreateUser(user); err != nil {
			return nil, err
		}
		return reply(chatID, "Hi! You are registered now. Join a game in your group chat with /join_game."), nil
	})
}

// NewGame creates a pending game in a group chat. Only one non-finished game
// may exist per chat.
func (s *GameService) NewGame(ctx context.Context, chatID int64, name string) error {
	return s.runAction(ctx, "new_game", func(tx repository.Tx) ([]domain.Message, error) {
		open, err := tx.OpenGameByChat(chatID)
		if err != nil {
			return nil, err
		}
		if open != nil {
			return reply(chatID, "There is already a pending or running game in this chat."), nil
		}
		game := &domain.Game{ChatID: chatID, Name: name, IsSynchronous: true}
		if err := tx.CreateGame(game); err != nil {
			return nil, err
		}
		return reply(chatID, "New game created. Use /join_game to join it."), nil
	})
}

// SetRounds configures the target chain length of the chat's pending game.
func (s *GameService) SetRounds(ctx context.Context, chatID int64, rounds int) error {
	return s.runAction(ctx, "set_rounds", func(tx repository.Tx) ([]domain.Message, error) {
		game, msgs, err := s.configurableGame(tx, chatID)
		if game == nil {
			return msgs, err
		}
		if rounds < 1 {
			return reply(chatID, "The number of rounds must be at least 1."), nil
		}
		game.Rounds = &rounds
		if err := tx.UpdateGame(game); err != nil {
			return nil, err
		}
		return reply(chatID, fmt.Sprintf("Number of rounds set to %d.", rounds)), nil
	})
}

// SetSynchronous switches the chat's pending game between synchronous and
// asynchronous sheet passing.
func (s *GameService) SetSynchronous(ctx context.Context, chatID int64, synchronous bool) error {
	return s.runAction(ctx, "set_synchronous", func(tx repository.Tx) ([]domain.Message, error) {
		game, msgs, err := s.configurableGame(tx, chatID)
		if game == nil {
			return msgs, err
		}
		game.IsSynchronous = synchronous
		if err := tx.UpdateGame(game); err != nil {
			return nil, err
		}
		if synchronous {
			return reply(chatID, "The game is now synchronous: sheets advance together, round by round."), nil
		}
		return reply(chatID, "The game is now asynchronous: each sheet moves on as soon as it is answered."), nil
	})
}

// SetShowResultNames configures whether the revealed results carry author
// names. Like all configuration, only allowed before the game starts.
func (s *GameService) SetShowResultNames(ctx context.Context, chatID int64, show bool) error {
	return s.runAction(ctx, "set_show_result_names", func(tx repository.Tx) ([]domain.Message, error) {
		game, msgs, err := s.configurableGame(tx, chatID)
		if game == nil {
			return msgs, err
		}
		game.IsShowingResultNames = show
		if err := tx.UpdateGame(game); err != nil {
			return nil, err
		}
		if show {
			return reply(chatID, "Results will show who wrote each line."), nil
		}
		return reply(chatID, "Results will not show author names."), nil
	})
}

// configurableGame loads the chat's open game if it can still be configured.
// A nil game means the returned messages already explain the refusal.
func (s *GameService) configurableGame(tx repository.Tx, chatID int64) (*domain.Game, []domain.Message, error) {
	game, err := tx.OpenGameByChat(chatID)
	if err != nil {
		return nil, nil, err
	}
	if game == nil {
		return nil, reply(chatID, "There is no game to configure in this chat. Use /new_game to create one."), nil
	}
	if game.Started() {
		return nil, reply(chatID, "The game has already started."), nil
	}
	return game, nil, nil
}

// JoinGame adds a registered user to the chat's open game. Joining a running
// game is possible under conditions: a synchronous game only while every sheet
// is still blank (first round), an asynchronous game anytime, with a fresh
// sheet only while the least-advanced sheet has fewer than rounds/4 entries so
// a late joiner cannot trivially shorten the game.
func (s *GameService) JoinGame(ctx context.Context, chatID, apiID int64) error {
	return s.runAction(ctx, "join_game", func(tx repository.Tx) ([]domain.Message, error) {
		game, err := tx.OpenGameByChat(chatID)
		if err != nil {
			return nil, err
		}
		if game == nil {
			return reply(chatID, "There is currently no pending game in this chat. Use /new_game to create one."), nil
		}
		user, err := tx.UserByAPIID(apiID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return reply(chatID, "You must talk to the bot first. Open a private chat with it and send /start."), nil
		}
		parts, err := tx.Participants(game.ID)
		if err != nil {
			return nil, err
		}
		for _, p := range parts {
			if p.UserID == user.ID {
				return reply(chatID, "You already joined this game."), nil
			}
		}

		order := 0
		if len(parts) > 0 {
			order = parts[len(parts)-1].GameOrder + 1
		}
		participant := &domain.Participant{GameID: game.ID, UserID: user.ID, GameOrder: order}

		if !game.Started() {
			if err := tx.AddParticipant(participant); err != nil {
				return nil, err
			}
			return reply(chatID, fmt.Sprintf("%s joined the game.", user.Name)), nil
		}

		progress, err := tx.SheetProgressByGame(game.ID)
		if err != nil {
			return nil, err
		}
		if game.IsSynchronous {
			for _, pi := range progress {
				if pi.NumEntries > 0 {
					return reply(chatID, "Too late: the first round of this synchronous game is already over."), nil
				}
			}
		}
		if err := tx.AddParticipant(participant); err != nil {
			return nil, err
		}
		msgs := reply(chatID, fmt.Sprintf("%s joined the game.", user.Name))

		if game.IsSynchronous || leastEntries(progress) < *game.Rounds/4 {
			sheet := &domain.Sheet{GameID: game.ID}
			if err := tx.CreateSheet(sheet); err != nil {
				return nil, err
			}
			if err := s.enqueueSheet(tx, sheet, user.ID); err != nil {
				return nil, err
			}
			prompts, err := s.nextSheet(tx, []*domain.User{user}, false)
			if err != nil {
				return nil, err
			}
			msgs = append(msgs, prompts...)
		}
		return msgs, nil
	})
}

func leastEntries(progress []domain.SheetProgress) int {
	least := 0
	for i, pi := range progress {
		if i == 0 || pi.NumEntries < least {
			least = pi.NumEntries
		}
	}
	return least
}

// StartGame starts the chat's pending game: one blank sheet per participant,
// handed out right away. A game needs at least two participants; when the
// group never picked a round count, an even default based on the player count
// is used.
func (s *GameService) StartGame(ctx context.Context, chatID int64) error {
	return s.runAction(ctx, "start_game", func(tx repository.Tx) ([]domain.Message, error) {
		game, err := tx.OpenGameByChat(chatID)
		if err != nil {
			return nil, err
		}
		if game == nil {
			return reply(chatID, "There is currently no pending game in this chat. Use /new_game to create one."), nil
		}
		if game.Started() {
			return reply(chatID, "The game is already running."), nil
		}
		parts, err := tx.Participants(game.ID)
		if err != nil {
			return nil, err
		}
		if len(parts) < 2 {
			return reply(chatID, "At least two participants are needed to start the game."), nil
		}

		if game.Rounds == nil {
			rounds := domain.DefaultRounds(len(parts))
			game.Rounds = &rounds
		}
		now := time.Now()
		game.StartedAt = &now
		if err := tx.UpdateGame(game); err != nil {
			return nil, err
		}

		users, err := s.participantUsers(tx, parts)
		if err != nil {
			return nil, err
		}
		for _, user := range users {
			sheet := &domain.Sheet{GameID: game.ID}
			if err := tx.CreateSheet(sheet); err != nil {
				return nil, err
			}
			if err := s.enqueueSheet(tx, sheet, user.ID); err != nil {
				return nil, err
			}
		}

		msgs := reply(chatID, "The game is on! Check your private chat with the bot.")
		prompts, err := s.nextSheet(tx, users, false)
		if err != nil {
			return nil, err
		}
		return append(msgs, prompts...), nil
	})
}

// LeaveGame removes a participant. A started game keeps at least two players.
// Sheets the leaver still held are rotated onward to their successors; the
// leaver gets their next sheet from other games, if any.
func (s *GameService) LeaveGame(ctx context.Context, chatID, apiID int64) error {
	return s.runAction(ctx, "leave_game", func(tx repository.Tx) ([]domain.Message, error) {
		game, err := tx.OpenGameByChat(chatID)
		if err != nil {
			return nil, err
		}
		if game == nil {
			return reply(chatID, "There is currently no running or pending game in this chat."), nil
		}
		user, err := tx.UserByAPIID(apiID)
		if err != nil {
			return nil, err
		}
		var participates bool
		var parts []domain.Participant
		if user != nil {
			parts, err = tx.Participants(game.ID)
			if err != nil {
				return nil, err
			}
			for _, p := range parts {
				if p.UserID == user.ID {
					participates = true
					break
				}
			}
		}
		if !participates {
			return reply(chatID, "You didn't participate in this game."), nil
		}
		if game.Started() && len(parts) <= 2 {
			return reply(chatID, "You are one of the last two players, the game needs you. Use /stop_game to end it."), nil
		}

		if err := tx.RemoveParticipant(game.ID, user.ID); err != nil {
			return nil, err
		}
		msgs := reply(chatID, fmt.Sprintf("%s left the game.", user.Name))
		if !game.Started() {
			return msgs, nil
		}

		remaining := make([]domain.Participant, 0, len(parts)-1)
		for _, p := range parts {
			if p.UserID != user.ID {
				remaining = append(remaining, p)
			}
		}

		pending, err := tx.PendingSheets(user.ID)
		if err != nil {
			return nil, err
		}
		var obsolete []domain.Sheet
		for _, sheet := range pending {
			if sheet.GameID == game.ID {
				obsolete = append(obsolete, sheet)
			}
		}
		if user.CurrentSheetID != nil {
			for _, sheet := range obsolete {
				if sheet.ID == *user.CurrentSheetID {
					user.CurrentSheetID = nil
					if err := tx.UpdateUser(user); err != nil {
						return nil, err
					}
					msgs = append(msgs, domain.Message{ChatID: user.ChatID, Text: "You left the game. No answer is required anymore."})
					break
				}
			}
		}

		holders, err := s.assignToNext(tx, game, obsolete, remaining)
		if err != nil {
			return nil, err
		}
		prompts, err := s.nextSheet(tx, holders, false)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, prompts...)

		prompts, err = s.nextSheet(tx, []*domain.User{user}, false)
		if err != nil {
			return nil, err
		}
		return append(msgs, prompts...), nil
	})
}

// SubmitText processes a text a user sent in their private chat: it becomes
// the next entry on their current sheet, the completion checks run, and the
// sheet moves on according to the game mode.
func (s *GameService) SubmitText(ctx context.Context, chatID int64, messageID int, text string) error {
	return s.runAction(ctx, "submit_text", func(tx repository.Tx) ([]domain.Message, error) {
		user, err := tx.UserByChatID(chatID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return reply(chatID, "Unexpected message. Please use /start to register with the bot."), nil
		}
		if user.CurrentSheetID == nil {
			return reply(chatID, "Unexpected message. There is no sheet waiting for you right now."), nil
		}
		sheet, err := tx.SheetByID(*user.CurrentSheetID)
		if err != nil {
			return nil, err
		}
		if sheet == nil {
			return nil, fmt.Errorf("current sheet %d of user %d not found", *user.CurrentSheetID, user.ID)
		}
		last, err := tx.LastEntry(sheet.ID)
		if err != nil {
			return nil, err
		}

		entryType := domain.NextEntryType(last)
		position := 0
		if last != nil {
			position = last.Position + 1
		}
		entry := &domain.Entry{
			SheetID:   sheet.ID,
			Position:  position,
			UserID:    user.ID,
			Type:      entryType,
			Text:      text,
			ChatID:    chatID,
			MessageID: messageID,
			CreatedAt: time.Now(),
		}
		if err := tx.CreateEntry(entry); err != nil {
			return nil, err
		}

		// the submission both releases the user and dequeues the sheet
		user.CurrentSheetID = nil
		if err := tx.UpdateUser(user); err != nil {
			return nil, err
		}
		sheet.CurrentUserID = nil
		sheet.PendingPosition = nil
		if err := tx.UpdateSheet(sheet); err != nil {
			return nil, err
		}

		game, err := tx.GameByID(sheet.GameID)
		if err != nil {
			return nil, err
		}
		if game == nil {
			return nil, fmt.Errorf("sheet %d references missing game %d", sheet.ID, sheet.GameID)
		}
		progress, err := tx.SheetProgressByGame(game.ID)
		if err != nil {
			return nil, err
		}

		var msgs []domain.Message
		finished := false
		finishMsgs, finished, err := s.finishIfComplete(tx, game, progress)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, finishMsgs...)
		if !finished {
			finishMsgs, finished, err = s.finishIfStopRequested(tx, game, progress)
			if err != nil {
				return nil, err
			}
			msgs = append(msgs, finishMsgs...)
		}

		numEntries := position + 1
		if !finished && game.Rounds != nil && numEntries < *game.Rounds {
			parts, err := tx.Participants(game.ID)
			if err != nil {
				return nil, err
			}
			if game.IsSynchronous {
				// a synchronous round turns over only once every sheet has
				// caught up
				turnover := true
				for _, pi := range progress {
					if pi.NumEntries != numEntries {
						turnover = false
						break
					}
				}
				if turnover {
					sheets, err := tx.SheetsByGame(game.ID)
					if err != nil {
						return nil, err
					}
					if _, err := s.assignToNext(tx, game, sheets, parts); err != nil {
						return nil, err
					}
					users, err := s.participantUsers(tx, parts)
					if err != nil {
						return nil, err
					}
					prompts, err := s.nextSheet(tx, users, false)
					if err != nil {
						return nil, err
					}
					msgs = append(msgs, prompts...)
				}
			} else if !(game.IsWaitingForFinish && entryType == domain.EntryAnswer) {
				// during wind-down an answered sheet is not passed on, so no
				// new question gets started
				holders, err := s.assignToNext(tx, game, []domain.Sheet{*sheet}, parts)
				if err != nil {
					return nil, err
				}
				prompts, err := s.nextSheet(tx, holders, false)
				if err != nil {
					return nil, err
				}
				msgs = append(msgs, prompts...)
			}
		}

		// hand the submitter their next queued sheet; re-read them, the
		// turnover above may already have assigned one
		fresh, err := tx.UserByID(user.ID)
		if err != nil {
			return nil, err
		}
		if fresh == nil {
			return nil, fmt.Errorf("user %d disappeared mid-action", user.ID)
		}
		prompts, err := s.nextSheet(tx, []*domain.User{fresh}, false)
		if err != nil {
			return nil, err
		}
		return append(msgs, prompts...), nil
	})
}

// EditSubmittedText applies an edit a user made to one of their messages. The
// edit is accepted only while the entry is still the last one on its sheet and
// the game is not finished; whoever currently works on that sheet gets an
// updated prompt.
func (s *GameService) EditSubmittedText(ctx context.Context, chatID int64, messageID int, text string) error {
	return s.runAction(ctx, "edit_submitted_text", func(tx repository.Tx) ([]domain.Message, error) {
		entry, err := tx.EntryByMessage(chatID, messageID)
		if err != nil {
			return nil, err
		}
		if entry == nil {
			return reply(chatID, "This change cannot be accepted."), nil
		}
		sheet, err := tx.SheetByID(entry.SheetID)
		if err != nil {
			return nil, err
		}
		if sheet == nil {
			return reply(chatID, "This change cannot be accepted."), nil
		}
		game, err := tx.GameByID(sheet.GameID)
		if err != nil {
			return nil, err
		}
		if game == nil || game.Finished() {
			return reply(chatID, "This change cannot be accepted anymore, the game is over."), nil
		}
		last, err := tx.LastEntry(sheet.ID)
		if err != nil {
			return nil, err
		}
		if last == nil || last.ID != entry.ID {
			return reply(chatID, "Someone already responded to your text, the change cannot be accepted."), nil
		}
		if err := tx.UpdateEntryText(entry.ID, text); err != nil {
			return nil, err
		}

		msgs := reply(chatID, "Your change was saved.")
		if sheet.CurrentUserID != nil {
			holder, err := tx.UserByID(*sheet.CurrentUserID)
			if err != nil {
				return nil, err
			}
			if holder == nil {
				return nil, fmt.Errorf("sheet %d queued to missing user %d", sheet.ID, *sheet.CurrentUserID)
			}
			if holder.CurrentSheetID != nil && *holder.CurrentSheetID == sheet.ID {
				msgs = append(msgs, domain.Message{ChatID: holder.ChatID, Text: "The text you were given was updated:"})
				prompts, err := s.nextSheet(tx, []*domain.User{holder}, true)
				if err != nil {
					return nil, err
				}
				msgs = append(msgs, prompts...)
			}
		}
		return msgs, nil
	})
}

// StopGame requests a graceful stop: the game finishes as soon as no sheet
// ends mid-question. Sheets whose holders would start a new question are
// retracted right away.
func (s *GameService) StopGame(ctx context.Context, chatID int64) error {
	return s.runAction(ctx, "stop_game", func(tx repository.Tx) ([]domain.Message, error) {
		game, err := tx.OpenGameByChat(chatID)
		if err != nil {
			return nil, err
		}
		if game == nil || !game.Started() {
			return reply(chatID, "There is currently no running game in this chat."), nil
		}
		game.IsWaitingForFinish = true
		if err := tx.UpdateGame(game); err != nil {
			return nil, err
		}

		progress, err := tx.SheetProgressByGame(game.ID)
		if err != nil {
			return nil, err
		}
		finishMsgs, finished, err := s.finishIfStopRequested(tx, game, progress)
		if err != nil {
			return nil, err
		}
		if finished {
			return finishMsgs, nil
		}

		// not satisfiable yet: pull back every sheet that would solicit a new
		// question, open questions stay out to be answered
		msgs := reply(chatID, "The game will finish as soon as all open questions are answered.")
		var affected []*domain.User
		holders := make(map[int64]*domain.User)
		for _, pi := range progress {
			if pi.LastEntry != nil && pi.LastEntry.Type == domain.EntryQuestion {
				continue
			}
			if pi.Sheet.CurrentUserID == nil {
				continue
			}
			holderID := *pi.Sheet.CurrentUserID
			holder := holders[holderID]
			if holder == nil {
				holder, err = tx.UserByID(holderID)
				if err != nil {
					return nil, err
				}
				if holder == nil {
					return nil, fmt.Errorf("sheet %d queued to missing user %d", pi.Sheet.ID, holderID)
				}
				holders[holderID] = holder
			}
			sheet := pi.Sheet
			sheet.CurrentUserID = nil
			sheet.PendingPosition = nil
			if err := tx.UpdateSheet(&sheet); err != nil {
				return nil, err
			}
			if holder.CurrentSheetID != nil && *holder.CurrentSheetID == sheet.ID {
				holder.CurrentSheetID = nil
				if err := tx.UpdateUser(holder); err != nil {
					return nil, err
				}
				msgs = append(msgs, domain.Message{ChatID: holder.ChatID, Text: "The game is wrapping up. No new question is needed anymore."})
				affected = append(affected, holder)
			}
		}
		prompts, err := s.nextSheet(tx, affected, false)
		if err != nil {
			return nil, err
		}
		return append(msgs, prompts...), nil
	})
}

// ImmediatelyStopGame finalizes the chat's running game right away.
func (s *GameService) ImmediatelyStopGame(ctx context.Context, chatID int64) error {
	return s.runAction(ctx, "immediately_stop_game", func(tx repository.Tx) ([]domain.Message, error) {
		game, err := tx.OpenGameByChat(chatID)
		if err != nil {
			return nil, err
		}
		if game == nil || !game.Started() {
			return reply(chatID, "There is currently no running game in this chat."), nil
		}
		return s.finalize(tx, game)
	})
}

func (s *GameService) participantUsers(tx repository.Tx, parts []domain.Participant) ([]*domain.User, error) {
	users := make([]*domain.User, 0, len(parts))
	for _, p := range parts {
		user, err := tx.UserByID(p.UserID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, fmt.Errorf("participant user %d not found", p.UserID)
		}
		users = append(users, user)
	}
	return users, nil
}
