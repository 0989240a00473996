package partition

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// RandomSeed draws a fresh solver seed from the operating system's entropy
// source. Callers that need a reproducible solve supply their own seed
// instead.
func RandomSeed() (int64, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("reading random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
