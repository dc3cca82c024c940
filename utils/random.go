package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// GenerateCode returns n random bytes as an uppercase hex string.
func GenerateCode(n int) (string, error) {
	byt := make([]byte, n)

	if _, err := rand.Read(byt); err != nil {
		return "", err
	}

	return strings.ToUpper(hex.EncodeToString(byt)), nil
}

// NewTicketCode mints the opaque QR payload for a registration:
// EVT-<unix millis>-<random hex>. The timestamp keeps codes human-sortable
// for manual entry at the door; the random suffix carries the uniqueness.
// A unique index on registrations.ticket_code backstops collisions.
func NewTicketCode() (string, error) {
	suffix, err := GenerateCode(4)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("EVT-%d-%s", time.Now().UnixMilli(), suffix), nil
}
