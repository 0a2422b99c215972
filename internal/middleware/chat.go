package middleware

import (
	tele "gopkg.in/telebot.v3"
)

// GroupOnly rejects commands sent outside group chats. The engine relies on
// its callers having sorted group commands from private ones.
func GroupOnly() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Chat() == nil {
				return nil
			}
			if t := c.Chat().Type; t != tele.ChatGroup && t != tele.ChatSuperGroup {
				return c.Send("This command only works in a group chat.")
			}
			return next(c)
		}
	}
}

// PrivateOnly rejects messages sent outside one-on-one chats.
func PrivateOnly() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Chat() == nil {
				return nil
			}
			if c.Chat().Type != tele.ChatPrivate {
				return c.Send("Please message me privately for this.")
			}
			return next(c)
		}
	}
}
