package utils

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// NewBookingID returns a human-readable booking identifier of the form
// "BK" followed by ten upper-case hex characters. IDs are random rather
// than sequential so a receipt number does not leak booking volume.
func NewBookingID() (string, error) {
	buf := make([]byte, 5)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "BK" + strings.ToUpper(hex.EncodeToString(buf)), nil
}
