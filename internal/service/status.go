package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"qaqabot/internal/domain"
	"qaqabot/internal/repository"
)

// UserStatus tells a user which games they are in and how many sheets wait
// for them, and re-sends the current prompt so they can continue right away.
func (s *GameService) UserStatus(ctx context.Context, chatID int64) error {
	return s.runAction(ctx, "user_status", func(tx repository.Tx) ([]domain.Message, error) {
		user, err := tx.UserByChatID(chatID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return reply(chatID, "You are not registered yet. Use /start to register with the bot."), nil
		}
		participations, err := tx.ParticipationsByUser(user.ID)
		if err != nil {
			return nil, err
		}
		var running, pending []string
		for _, p := range participations {
			game, err := tx.GameByID(p.GameID)
			if err != nil {
				return nil, err
			}
			if game == nil || game.Finished() {
				continue
			}
			if game.Started() {
				running = append(running, game.Name)
			} else {
				pending = append(pending, game.Name)
			}
		}

		var b strings.Builder
		switch {
		case len(running) > 0:
			fmt.Fprintf(&b, "You are currently playing in: %s.", strings.Join(running, ", "))
			if len(pending) > 0 {
				fmt.Fprintf(&b, "\nYou will also play in %s once they start.", strings.Join(pending, ", "))
			}
		case len(pending) > 0:
			fmt.Fprintf(&b, "You will play in %s once they start.", strings.Join(pending, ", "))
		default:
			b.WriteString("You are currently not part of any game.")
		}
		if len(running) > 0 {
			queued, err := tx.PendingSheets(user.ID)
			if err != nil {
				return nil, err
			}
			if len(queued) > 0 {
				fmt.Fprintf(&b, "\n\n%d sheets are waiting for you, including the current one.", len(queued))
			} else {
				b.WriteString("\n\nNo sheets are waiting for you right now.")
			}
		}

		msgs := reply(chatID, b.String())
		prompts, err := s.nextSheet(tx, []*domain.User{user}, true)
		if err != nil {
			return nil, err
		}
		return append(msgs, prompts...), nil
	})
}

// GroupStatus reports the chat's open game: players, configuration and, when
// running, aggregate sheet statistics plus who everyone is waiting for.
func (s *GameService) GroupStatus(ctx context.Context, chatID int64) error {
	return s.runAction(ctx, "group_status", func(tx repository.Tx) ([]domain.Message, error) {
		game, err := tx.OpenGameByChat(chatID)
		if err != nil {
			return nil, err
		}
		if game == nil {
			return reply(chatID, "There is currently no game in this chat. Use /new_game to create one."), nil
		}
		parts, err := tx.Participants(game.ID)
		if err != nil {
			return nil, err
		}
		users, err := s.participantUsers(tx, parts)
		if err != nil {
			return nil, err
		}
		players := "– none –"
		if len(users) > 0 {
			names := make([]string, len(users))
			for i, u := range users {
				names[i] = "• " + u.Name
			}
			players = strings.Join(names, "\n")
		}

		rounds := "decided at start"
		if game.Rounds != nil {
			rounds = fmt.Sprintf("%d", *game.Rounds)
		}
		configuration := fmt.Sprintf("Rounds: %s\nSynchronous: %s\nShow names in results: %s",
			rounds, yesNo(game.IsSynchronous), yesNo(game.IsShowingResultNames))

		if !game.Started() {
			return reply(chatID, fmt.Sprintf(
				"The game has been created and waits to be started.\nUse /start_game to start it.\n\nPlayers:\n%s\n\nConfiguration:\n%s",
				players, configuration)), nil
		}

		progress, err := tx.SheetProgressByGame(game.ID)
		if err != nil {
			return nil, err
		}
		stats := ""
		if len(progress) > 0 {
			counts := make([]int, len(progress))
			for i, pi := range progress {
				counts[i] = pi.NumEntries
			}
			stats = fmt.Sprintf(" They have %d–%d entries so far (median %s).",
				minInt(counts), maxInt(counts), formatMedian(counts))
		}

		waiting := ""
		var holderNames []string
		for _, pi := range progress {
			if pi.Sheet.CurrentUserID == nil {
				continue
			}
			holder, err := tx.UserByID(*pi.Sheet.CurrentUserID)
			if err != nil {
				return nil, err
			}
			if holder != nil {
				holderNames = append(holderNames, holder.Name)
			}
		}
		if len(holderNames) > 0 && (game.IsSynchronous || len(holderNames)*3 <= len(progress)) {
			waiting = fmt.Sprintf("We are waiting for %s.\n\n", strings.Join(holderNames, ", "))
		}

		return reply(chatID, fmt.Sprintf(
			"The game is on!\n\n%d sheets are in the game.%s\n\n%sPlayers:\n%s\n\nConfiguration:\n%s",
			len(progress), stats, waiting, players, configuration)), nil
	})
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func minInt(values []int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxInt(values []int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// formatMedian renders the median entry count, using halves for even-sized
// games.
func formatMedian(values []int) string {
	sorted := append([]int(nil), values...)
	sort.Ints(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return fmt.Sprintf("%d", sorted[n/2])
	}
	median := float64(sorted[n/2-1]+sorted[n/2]) / 2
	if median == float64(int(median)) {
		return fmt.Sprintf("%d", int(median))
	}
	return fmt.Sprintf("%.1f", median)
}
