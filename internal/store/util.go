package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// GenerateRunID creates a unique, time-ordered run ID.
// Format: run-<timestamp>-<hash>
// Example: run-20260829T143052Z-a3f9c2
func GenerateRunID(timestamp time.Time, repository string, pullNumber int) string {
	ts := timestamp.UTC().Format("20060102T150405Z")

	input := fmt.Sprintf("%s|%d|%d", repository, pullNumber, timestamp.UnixNano())
	sum := sha256.Sum256([]byte(input))
	return fmt.Sprintf("run-%s-%s", ts, hex.EncodeToString(sum[:3]))
}
