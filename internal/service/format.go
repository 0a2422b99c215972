package service

import (
	"fmt"
	"strings"

	"qaqabot/internal/domain"
	"qaqabot/internal/repository"
)

// formatPrompt builds the message asking a user for their next submission on a
// sheet: the opening question for an empty sheet, otherwise the quoted last
// entry plus the matching request.
func formatPrompt(gameName string, last *domain.Entry) string {
	if last == nil {
		return fmt.Sprintf("Please ask a question to start a new sheet for game %q.", gameName)
	}
	if last.Type == domain.EntryAnswer {
		return fmt.Sprintf("Please ask a question that could be answered with:\n“%s”", last.Text)
	}
	return fmt.Sprintf("Please answer the following question:\n“%s”", last.Text)
}

// formatResult serializes a finished sheet into the text revealed in the group
// chat, one line per entry, prefixed with the author's name when the game was
// configured to show them.
func (s *GameService) formatResult(tx repository.Tx, game *domain.Game, entries []domain.Entry) (string, error) {
	names := make(map[int64]string)
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		line := e.Text
		if game.IsShowingResultNames {
			name, ok := names[e.UserID]
			if !ok {
				author, err := tx.UserByID(e.UserID)
				if err != nil {
					return "", err
				}
				if author != nil {
					name = author.Name
				}
				names[e.UserID] = name
			}
			if name != "" {
				line = name + ": " + e.Text
			}
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}
