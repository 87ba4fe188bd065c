package checkout

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

const orderNumberPrefix = "SM"

// NewOrderNumber builds a human-readable order reference: timestamp prefix
// plus a random suffix. Uniqueness is enforced by the orders table; the
// random tail makes collisions within one second astronomically unlikely.
func NewOrderNumber(now time.Time) (string, error) {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating order number suffix: %w", err)
	}
	suffix := strings.ToUpper(hex.EncodeToString(buf))
	return fmt.Sprintf("%s-%s-%s", orderNumberPrefix, now.UTC().Format("20060102150405"), suffix), nil
}
