package domain

import "strings"

// MaxMessageLength is the hard limit Telegram puts on a single message.
const MaxMessageLength = 4096

// Message is an outgoing notification produced by a game action. Messages are
// delivered only after the triggering transaction has committed.
type Message struct {
	ChatID int64
	Text   string
}

// SplitText splits text into chunks of at most limit runes, preferring line
// breaks as split points so result sheets stay readable.
func SplitText(text string, limit int) []string {
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return []string{text}
	}
	var chunks []string
	for len(runes) > limit {
		cut := limit
		for i := limit; i > 0; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}
		chunks = append(chunks, strings.TrimRight(string(runes[:cut]), "\n"))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}
