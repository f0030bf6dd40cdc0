package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want command
	}{
		{"", command{}},
		{"list", command{name: "list"}},
		{"  OPEN 7 ", command{name: "open", id: 7}},
		{"rename 3 Trip   planning", command{name: "rename", id: 3, text: "Trip   planning"}},
		{"send hello **there**", command{name: "send", text: "hello **there**"}},
		{"delete 12", command{name: "delete", id: 12}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := parseCommand(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCommandErrors(t *testing.T) {
	for _, line := range []string{
		"open",
		"open abc",
		"delete 0",
		"rename 4",
		"send",
		"frobnicate",
	} {
		_, err := parseCommand(line)
		assert.Error(t, err, line)
	}
}
