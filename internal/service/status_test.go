package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserStatus(t *testing.T) {
	t.Run("unregistered", func(t *testing.T) {
		f := newFixture()
		require.NoError(t, f.svc.UserStatus(f.ctx, 555))
		assert.Equal(t,
			[]string{"You are not registered yet. Use /start to register with the bot."},
			f.sink.TextsFor(555))
	})

	t.Run("registered without games", func(t *testing.T) {
		f := newFixture()
		f.registerPlayers(t, 1)
		f.sink.Reset()
		require.NoError(t, f.svc.UserStatus(f.ctx, 101))
		texts := f.sink.TextsFor(101)
		require.Len(t, texts, 1)
		assert.Equal(t, "You are currently not part of any game.", texts[0])
	})

	t.Run("waiting in a pending game", func(t *testing.T) {
		f := newFixture()
		f.registerPlayers(t, 1)
		require.NoError(t, f.svc.NewGame(f.ctx, groupChat, "Testers"))
		require.NoError(t, f.svc.JoinGame(f.ctx, groupChat, 1001))
		f.sink.Reset()
		require.NoError(t, f.svc.UserStatus(f.ctx, 101))
		texts := f.sink.TextsFor(101)
		require.Len(t, texts, 1)
		assert.Equal(t, "You will play in Testers once they start.", texts[0])
	})

	t.Run("playing with a sheet waiting re-sends the prompt", func(t *testing.T) {
		f := newFixture()
		f.startStandardGame(t, 2, 4, true)
		f.sink.Reset()
		require.NoError(t, f.svc.UserStatus(f.ctx, 101))
		texts := f.sink.TextsFor(101)
		require.Len(t, texts, 2)
		assert.Contains(t, texts[0], "You are currently playing in: Testers.")
		assert.Contains(t, texts[0], "1 sheets are waiting for you, including the current one.")
		assert.Equal(t, `Please ask a question to start a new sheet for game "Testers".`, texts[1])
	})

	t.Run("playing without a waiting sheet", func(t *testing.T) {
		f := newFixture()
		f.startStandardGame(t, 2, 4, true)
		f.submit(t, 101, 11, "Q1")
		f.sink.Reset()
		require.NoError(t, f.svc.UserStatus(f.ctx, 101))
		texts := f.sink.TextsFor(101)
		require.Len(t, texts, 1)
		assert.Contains(t, texts[0], "No sheets are waiting for you right now.")
	})
}

func TestGroupStatus(t *testing.T) {
	t.Run("no game", func(t *testing.T) {
		f := newFixture()
		require.NoError(t, f.svc.GroupStatus(f.ctx, groupChat))
		assert.Equal(t,
			[]string{"There is currently no game in this chat. Use /new_game to create one."},
			f.sink.TextsFor(groupChat))
	})

	t.Run("pending game lists players and configuration", func(t *testing.T) {
		f := newFixture()
		f.registerPlayers(t, 2)
		require.NoError(t, f.svc.NewGame(f.ctx, groupChat, "Testers"))
		require.NoError(t, f.svc.SetRounds(f.ctx, groupChat, 2))
		require.NoError(t, f.svc.JoinGame(f.ctx, groupChat, 1001))
		require.NoError(t, f.svc.JoinGame(f.ctx, groupChat, 1002))
		f.sink.Reset()
		require.NoError(t, f.svc.GroupStatus(f.ctx, groupChat))
		texts := f.sink.TextsFor(groupChat)
		require.Len(t, texts, 1)
		assert.Contains(t, texts[0], "waits to be started")
		assert.Contains(t, texts[0], "• Alice")
		assert.Contains(t, texts[0], "• Bob")
		assert.Contains(t, texts[0], "Rounds: 2")
		assert.Contains(t, texts[0], "Synchronous: yes")
		assert.Contains(t, texts[0], "Show names in results: no")
	})

	t.Run("running synchronous game names the laggards", func(t *testing.T) {
		f := newFixture()
		f.startStandardGame(t, 3, 2, true)
		f.submit(t, 101, 11, "Q1")
		f.sink.Reset()
		require.NoError(t, f.svc.GroupStatus(f.ctx, groupChat))
		texts := f.sink.TextsFor(groupChat)
		require.Len(t, texts, 1)
		assert.Contains(t, texts[0], "The game is on!")
		assert.Contains(t, texts[0], "3 sheets are in the game.")
		assert.Contains(t, texts[0], "They have 0–1 entries so far (median 0).")
		assert.Contains(t, texts[0], "We are waiting for Bob, Carol.")
	})

	t.Run("running asynchronous game hides a long waiting list", func(t *testing.T) {
		f := newFixture()
		f.startStandardGame(t, 2, 4, false)
		f.sink.Reset()
		require.NoError(t, f.svc.GroupStatus(f.ctx, groupChat))
		texts := f.sink.TextsFor(groupChat)
		require.Len(t, texts, 1)
		assert.NotContains(t, texts[0], "We are waiting for")
	})
}

func TestFormatMedian(t *testing.T) {
	assert.Equal(t, "2", formatMedian([]int{3, 1, 2}))
	assert.Equal(t, "1.5", formatMedian([]int{1, 2}))
	assert.Equal(t, "2", formatMedian([]int{2, 2}))
}
