package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashToken(t *testing.T) {
	h := HashToken("secret")
	assert.Len(t, h, 64)
	assert.Equal(t, h, HashToken("secret"))
	assert.NotEqual(t, h, HashToken("Secret"))
}

func TestMatches(t *testing.T) {
	want := HashToken("secret")
	assert.True(t, Matches("secret", want))
	assert.False(t, Matches("nope", want))
	assert.False(t, Matches("", ""))
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		tok    string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Bearer ", "", false},
		{"Basic abc", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		tok, ok := BearerToken(tc.header)
		assert.Equal(t, tc.ok, ok, tc.header)
		assert.Equal(t, tc.tok, tok, tc.header)
	}
}
