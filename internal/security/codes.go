package security

import (
	"crypto/rand"
	"fmt"
)

// code alphabet avoids ambiguous characters (0/O, 1/I/L)
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// AccessCodeLength is the length of generated link access codes
const AccessCodeLength = 6

// GenerateAccessCode returns a random access code for a game link
func GenerateAccessCode() (string, error) {
	buf := make([]byte, AccessCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate access code: %w", err)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}
