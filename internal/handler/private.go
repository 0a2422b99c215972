package handler

import (
	"context"
	"strings"

	tele "gopkg.in/telebot.v3"
)

const helpText = `This bot plays the question-answer-question-answer party game.

Group commands:
/new_game – create a game in this group
/join_game – join the pending game
/leave_game – leave the game
/start_game – start the game
/stop_game – finish once all open questions are answered
/stop_game_immediately – finish right away
/set_rounds <n> – how long each sheet gets
/set_synchronous, /set_asynchronous – sheet passing mode
/set_show_names [on|off] – show authors in the results
/status – game overview

Private commands:
/start – register with the bot (required before joining)
/status – your games and pending sheets

Once a game runs, simply answer my prompts here in the private chat. You can
edit your last message as long as nobody responded to it yet.`

func (h *Handler) handleStart(c tele.Context) error {
	err := h.games.RegisterUser(context.Background(), c.Chat().ID, c.Sender().ID, displayName(c.Sender()))
	if err != nil {
		return h.fail(c, "register_user", err)
	}
	return nil
}

func (h *Handler) handleHelp(c tele.Context) error {
	return c.Send(helpText)
}

func (h *Handler) handleStatus(c tele.Context) error {
	if c.Chat().Type == tele.ChatPrivate {
		if err := h.games.UserStatus(context.Background(), c.Chat().ID); err != nil {
			return h.fail(c, "user_status", err)
		}
		return nil
	}
	if err := h.games.GroupStatus(context.Background(), c.Chat().ID); err != nil {
		return h.fail(c, "group_status", err)
	}
	return nil
}

func (h *Handler) handleText(c tele.Context) error {
	text := strings.TrimSpace(c.Text())
	if text == "" || strings.HasPrefix(text, "/") {
		return nil
	}
	err := h.games.SubmitText(context.Background(), c.Chat().ID, c.Message().ID, text)
	if err != nil {
		return h.fail(c, "submit_text", err)
	}
	return nil
}

func (h *Handler) handleEdited(c tele.Context) error {
	text := strings.TrimSpace(c.Text())
	if text == "" || strings.HasPrefix(text, "/") {
		return nil
	}
	err := h.games.EditSubmittedText(context.Background(), c.Chat().ID, c.Message().ID, text)
	if err != nil {
		return h.fail(c, "edit_submitted_text", err)
	}
	return nil
}
