package game

import (
	"math/rand"
	"time"
)

// NewRNG creates a seeded random number generator.
// If seed is 0, uses the current time.
func NewRNG(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
