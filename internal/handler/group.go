package handler

import (
	"context"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v3"
)

func (h *Handler) handleNewGame(c tele.Context) error {
	name := c.Chat().Title
	if name == "" {
		name = "Untitled"
	}
	if err := h.games.NewGame(context.Background(), c.Chat().ID, name); err != nil {
		return h.fail(c, "new_game", err)
	}
	return nil
}

func (h *Handler) handleJoinGame(c tele.Context) error {
	if err := h.games.JoinGame(context.Background(), c.Chat().ID, c.Sender().ID); err != nil {
		return h.fail(c, "join_game", err)
	}
	return nil
}

func (h *Handler) handleLeaveGame(c tele.Context) error {
	if err := h.games.LeaveGame(context.Background(), c.Chat().ID, c.Sender().ID); err != nil {
		return h.fail(c, "leave_game", err)
	}
	return nil
}

func (h *Handler) handleStartGame(c tele.Context) error {
	if err := h.games.StartGame(context.Background(), c.Chat().ID); err != nil {
		return h.fail(c, "start_game", err)
	}
	return nil
}

func (h *Handler) handleStopGame(c tele.Context) error {
	if err := h.games.StopGame(context.Background(), c.Chat().ID); err != nil {
		return h.fail(c, "stop_game", err)
	}
	return nil
}

func (h *Handler) handleStopGameImmediately(c tele.Context) error {
	if err := h.games.ImmediatelyStopGame(context.Background(), c.Chat().ID); err != nil {
		return h.fail(c, "stop_game_immediately", err)
	}
	return nil
}

func (h *Handler) handleSetRounds(c tele.Context) error {
	args := c.Args()
	if len(args) != 1 {
		return c.Send("Usage: /set_rounds <number>")
	}
	rounds, err := strconv.Atoi(args[0])
	if err != nil {
		return c.Send("Usage: /set_rounds <number>")
	}
	if err := h.games.SetRounds(context.Background(), c.Chat().ID, rounds); err != nil {
		return h.fail(c, "set_rounds", err)
	}
	return nil
}

func (h *Handler) handleSetSynchronous(c tele.Context) error {
	if err := h.games.SetSynchronous(context.Background(), c.Chat().ID, true); err != nil {
		return h.fail(c, "set_synchronous", err)
	}
	return nil
}

func (h *Handler) handleSetAsynchronous(c tele.Context) error {
	if err := h.games.SetSynchronous(context.Background(), c.Chat().ID, false); err != nil {
		return h.fail(c, "set_asynchronous", err)
	}
	return nil
}

func (h *Handler) handleSetShowNames(c tele.Context) error {
	show, ok := parseOnOff(c.Args(), true)
	if !ok {
		return c.Send("Usage: /set_show_names [on|off]")
	}
	if err := h.games.SetShowResultNames(context.Background(), c.Chat().ID, show); err != nil {
		return h.fail(c, "set_show_names", err)
	}
	return nil
}

// parseOnOff reads an optional on/off argument, falling back to def when no
// argument was given.
func parseOnOff(args []string, def bool) (value, ok bool) {
	if len(args) == 0 {
		return def, true
	}
	if len(args) > 1 {
		return false, false
	}
	switch strings.ToLower(args[0]) {
	case "on", "yes", "true":
		return true, true
	case "off", "no", "false":
		return false, true
	}
	return false, false
}
