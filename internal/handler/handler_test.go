package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v3"
)

func TestParseOnOff(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		def      bool
		value    bool
		ok       bool
	}{
		{name: "no argument falls back to default", args: nil, def: true, value: true, ok: true},
		{name: "no argument with false default", args: nil, def: false, value: false, ok: true},
		{name: "on", args: []string{"on"}, value: true, ok: true},
		{name: "off", args: []string{"off"}, value: false, ok: true},
		{name: "yes", args: []string{"YES"}, value: true, ok: true},
		{name: "garbage", args: []string{"maybe"}, ok: false},
		{name: "too many arguments", args: []string{"on", "off"}, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, ok := parseOnOff(tt.args, tt.def)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.value, value)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name     string
		user     *tele.User
		expected string
	}{
		{
			name:     "username wins",
			user:     &tele.User{Username: "alice", FirstName: "Alice", LastName: "Smith"},
			expected: "@alice",
		},
		{
			name:     "first and last name",
			user:     &tele.User{FirstName: "Alice", LastName: "Smith"},
			expected: "Alice Smith",
		},
		{
			name:     "first name only",
			user:     &tele.User{FirstName: "Alice"},
			expected: "Alice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, displayName(tt.user))
		})
	}
}
