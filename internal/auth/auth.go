package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

func HashToken(tok string) string {
	sum := sha256.Sum256([]byte(tok))
	return hex.EncodeToString(sum[:])
}

// Matches reports whether tok hashes to wantHash. An empty wantHash never matches.
func Matches(tok, wantHash string) bool {
	if wantHash == "" {
		return false
	}
	got := HashToken(tok)
	return subtle.ConstantTimeCompare([]byte(got), []byte(wantHash)) == 1
}

// BearerToken extracts the token from an "Authorization: Bearer <tok>" value.
func BearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	tok := strings.TrimSpace(header[len(prefix):])
	return tok, tok != ""
}
