package handler

import (
	tele "gopkg.in/telebot.v3"
)

// TelegramSink delivers game notifications through the bot API. The engine
// calls it after its transaction committed; delivery is best effort.
type TelegramSink struct {
	bot *tele.Bot
}

// NewTelegramSink creates a sink sending through the given bot
func NewTelegramSink(bot *tele.Bot) *TelegramSink {
	return &TelegramSink{bot: bot}
}

func (s *TelegramSink) Deliver(chatID int64, text string) error {
	_, err := s.bot.Send(tele.ChatID(chatID), text)
	return err
}
