package domain

import (
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// IDLength is the number of hex characters in a record identifier.
const IDLength = 24

var idPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// NewID returns a fresh identifier: the first 12 bytes of a UUIDv7, hex
// encoded. The leading bytes carry the millisecond timestamp, so ids sort
// roughly by creation time.
func NewID() (string, error) {
	u, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(u[:IDLength/2]), nil
}

// ValidID reports whether s has the shape of a record identifier.
func ValidID(s string) bool {
	return idPattern.MatchString(s)
}

// CanonicalID returns the lower-case form used for storage and comparison.
func CanonicalID(s string) string {
	return strings.ToLower(s)
}
