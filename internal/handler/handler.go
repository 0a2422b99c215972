package handler

import (
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"qaqabot/internal/middleware"
	"qaqabot/internal/service"
)

// Handler binds the bot commands to the game engine. Group commands drive the
// shared game, private messages carry the actual questions and answers.
type Handler struct {
	bot    *tele.Bot
	games  *service.GameService
	logger *zap.Logger
}

// NewHandler creates a new handler instance
func NewHandler(bot *tele.Bot, games *service.GameService, logger *zap.Logger) *Handler {
	return &Handler{
		bot:    bot,
		games:  games,
		logger: logger,
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	group := middleware.GroupOnly()
	private := middleware.PrivateOnly()

	// general
	h.bot.Handle("/help", h.handleHelp)
	h.bot.Handle("/status", h.handleStatus)

	// private: registration and gameplay messages
	h.bot.Handle("/start", h.handleStart, private)
	h.bot.Handle(tele.OnText, h.handleText, private)
	h.bot.Handle(tele.OnEdited, h.handleEdited, private)

	// group: game lifecycle and configuration
	h.bot.Handle("/new_game", h.handleNewGame, group)
	h.bot.Handle("/join_game", h.handleJoinGame, group)
	h.bot.Handle("/leave_game", h.handleLeaveGame, group)
	h.bot.Handle("/start_game", h.handleStartGame, group)
	h.bot.Handle("/stop_game", h.handleStopGame, group)
	h.bot.Handle("/stop_game_immediately", h.handleStopGameImmediately, group)
	h.bot.Handle("/set_rounds", h.handleSetRounds, group)
	h.bot.Handle("/set_synchronous", h.handleSetSynchronous, group)
	h.bot.Handle("/set_asynchronous", h.handleSetAsynchronous, group)
	h.bot.Handle("/set_show_names", h.handleSetShowNames, group)
}

// fail logs an engine error and tells the chat something went wrong. Rule
// violations never end up here, they are regular notifications.
func (h *Handler) fail(c tele.Context, action string, err error) error {
	h.logger.Error("action failed",
		zap.String("action", action),
		zap.Int64("chat_id", c.Chat().ID),
		zap.Error(err),
	)
	return c.Send("Something went wrong. Please try again later.")
}

// displayName picks the name shown on sheets and in the group: the username
// when there is one, otherwise the first and last name.
func displayName(u *tele.User) string {
	if u.Username != "" {
		return "@" + u.Username
	}
	name := u.FirstName
	if u.LastName != "" {
		name += " " + u.LastName
	}
	return name
}
