package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// GenerateSaleReference generates a receipt reference of the form
// SALE-20240131-a1b2c3d4. The random suffix keeps references unique
// across concurrent tills without a DB sequence round-trip.
func GenerateSaleReference() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return fmt.Sprintf("SALE-%s-%s", time.Now().Format("20060102"), hex.EncodeToString(b)), nil
}

// NormalizeCUG uppercases and trims a scanned product code.
func NormalizeCUG(cug string) string {
	return strings.ToUpper(strings.TrimSpace(cug))
}
