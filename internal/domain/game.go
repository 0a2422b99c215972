package domain

import "time"

// Game is one question/answer round-robin played in a group chat. At most one
// game per chat may be open (not finished) at a time.
type Game struct {
	ID                   int64
	ChatID               int64
	Name                 string
	StartedAt            *time.Time
	FinishedAt           *time.Time
	IsWaitingForFinish   bool
	Rounds               *int
	IsSynchronous        bool
	IsShowingResultNames bool
	// ResultToken is minted when the game is finalized and identifies the
	// published results.
	ResultToken *string
}

func (g *Game) Started() bool  { return g.StartedAt != nil }
func (g *Game) Finished() bool { return g.FinishedAt != nil }

// Participant places a user into a game's rotation. GameOrder is the sort key
// defining the cycle: the sheet of the last participant passes to the first.
type Participant struct {
	GameID    int64
	UserID    int64
	GameOrder int
}

// DefaultRounds is the chain length used when the group never configured one:
// an even number of turns, at least six.
func DefaultRounds(participants int) int {
	rounds := participants / 2 * 2
	if rounds < 6 {
		rounds = 6
	}
	return rounds
}
