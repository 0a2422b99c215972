package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextEntryType(t *testing.T) {
	tests := []struct {
		name     string
		last     *Entry
		expected EntryType
	}{
		{
			name:     "empty sheet opens with a question",
			last:     nil,
			expected: EntryQuestion,
		},
		{
			name:     "question is followed by an answer",
			last:     &Entry{Type: EntryQuestion},
			expected: EntryAnswer,
		},
		{
			name:     "answer is followed by a question",
			last:     &Entry{Type: EntryAnswer},
			expected: EntryQuestion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NextEntryType(tt.last))
		})
	}
}

func TestDefaultRounds(t *testing.T) {
	tests := []struct {
		participants int
		expected     int
	}{
		{2, 6},
		{3, 6},
		{6, 6},
		{7, 6},
		{8, 8},
		{13, 12},
		{14, 14},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, DefaultRounds(tt.participants),
			"participants=%d", tt.participants)
	}
}
