// Package dedup computes per-run delivery signatures used to avoid sending
// the same recipient more than one fortune per day. Signatures are held in
// memory only; a new process starts with an empty set.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
)

// Signature returns a deterministic hash of (itemID, date). The date is
// expected in YYYY-MM-DD form so that the same recipient hashes identically
// for the whole day.
func Signature(itemID, date string) string {
	sum := sha256.Sum256([]byte(itemID + "|" + date))
	return hex.EncodeToString(sum[:])
}
