package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitText_ShortTextUnchanged(t *testing.T) {
	chunks := SplitText("a short result", MaxMessageLength)
	assert.Equal(t, []string{"a short result"}, chunks)
}

func TestSplitText_PrefersLineBreaks(t *testing.T) {
	text := "first line\nsecond line\nthird line"
	chunks := SplitText(text, 14)

	require.Len(t, chunks, 3)
	assert.Equal(t, "first line", chunks[0])
	assert.Equal(t, "second line", chunks[1])
	assert.Equal(t, "third line", chunks[2])
}

func TestSplitText_HardCutWithoutLineBreaks(t *testing.T) {
	text := strings.Repeat("x", 25)
	chunks := SplitText(text, 10)

	require.Len(t, chunks, 3)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 10)
	}
	assert.Equal(t, text, strings.Join(chunks, ""))
}

func TestSplitText_ChunksNeverExceedLimit(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 200; i++ {
		b.WriteString("an entry on the sheet\n")
	}
	chunks := SplitText(b.String(), 100)

	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len([]rune(chunk)), 100)
	}
}
