package util

import "math/rand"

// New returns a deterministic source for the given seed. Seed 0 is
// reserved as "unset" and mapped to 1 so flag defaults pass through.
func New(seed int64) *rand.Rand {
	if seed == 0 {
		seed = 1
	}
	src := rand.NewSource(seed)
	return rand.New(src)
}

// Derive spreads one base seed across workers and iterations so batch
// runs stay reproducible without sharing a Rand between goroutines.
func Derive(seed int64, worker, iter int) int64 {
	return seed + int64(worker)*7919 + int64(iter)
}
