package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugPrefix(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"My Cool Event!!", "my-cool-event"},
		{"  Go   Meetup  ", "go-meetup"},
		{"Rust & Go: A Showdown", "rust-go-a-showdown"},
		{"2026 Summer Fest", "2026-summer-fest"},
		{"---", ""},
		{"", ""},
		{"café nights", "café-nights"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SlugPrefix(tt.title), "title %q", tt.title)
	}
}

func TestNewSlug(t *testing.T) {
	assert.Equal(t, "my-cool-event-1756700000000", NewSlug("My Cool Event!!", 1756700000000))

	// a title with no usable characters still yields a non-empty slug
	assert.Equal(t, "event-1756700000000", NewSlug("!!!", 1756700000000))

	// identical titles at different instants stay distinct
	assert.NotEqual(t, NewSlug("Go Meetup", 1), NewSlug("Go Meetup", 2))
}

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode(4)
	require.NoError(t, err)
	assert.Len(t, code, 8)
	assert.Equal(t, strings.ToUpper(code), code)
}

func TestNewTicketCode(t *testing.T) {
	first, err := NewTicketCode()
	require.NoError(t, err)
	second, err := NewTicketCode()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(first, "EVT-"), "got %q", first)
	assert.NotEqual(t, first, second)

	parts := strings.Split(first, "-")
	require.Len(t, parts, 3)
	assert.Len(t, parts[2], 8)
}
