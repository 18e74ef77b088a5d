package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"My Shop!!", 50, "my-shop"},
		{"  --The Gentlemen's Lounge--  ", 50, "the-gentlemen-s-lounge"},
		{"Café Barber", 50, "caf-barber"},
		{"!!!", 50, ""},
		{"abc def", 4, "abc"},
		{strings.Repeat("a", 80), 50, strings.Repeat("a", 50)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in, tt.max), tt.in)
	}
}
