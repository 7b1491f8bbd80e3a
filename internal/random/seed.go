// Package random provides cryptographic seed generation helpers.
//
// It uses crypto/rand to generate high-entropy seeds for the seeded PCG
// streams that drive reproducible rolls.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
)

// NewSeed generates a random non-zero seed using crypto/rand.
func NewSeed() (uint64, error) {
	var b [8]byte
	for {
		if _, err := crand.Read(b[:]); err != nil {
			return 0, fmt.Errorf("read random seed: %w", err)
		}
		if s := binary.LittleEndian.Uint64(b[:]); s != 0 {
			return s, nil
		}
	}
}

// Resolve returns seed unchanged when it is set and a fresh seed otherwise.
func Resolve(seed uint64) (uint64, error) {
	if seed != 0 {
		return seed, nil
	}
	return NewSeed()
}
