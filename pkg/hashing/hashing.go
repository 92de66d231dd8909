package hashing

import (
	"github.com/cespare/xxhash/v2"
)

// Sum64 returns the 64-bit hash of key.
func Sum64(key []byte) uint64 {
	return xxhash.Sum64(key)
}

// Hash returns the hash of key as a non-negative int64.
func Hash(key []byte) int64 {
	return int64(xxhash.Sum64(key) >> 1)
}

// Partition maps key to a partition index in [0, partitions). It panics if
// partitions is not positive; validate counts at construction time.
func Partition(key []byte, partitions int) int {
	if partitions <= 0 {
		panic("hashing: partitions must be positive")
	}
	return int(xxhash.Sum64(key) % uint64(partitions))
}

// Hasher is a keyed hash: two Hashers with the same seed agree on all
// inputs, while different seeds give independent distributions.
type Hasher struct {
	seed []byte
}

// NewHasher creates a keyed Hasher with the given seed. A nil seed is
// equivalent to the unkeyed Sum64.
func NewHasher(seed []byte) *Hasher {
	return &Hasher{seed: seed}
}

// Sum64 returns the keyed 64-bit hash of key.
func (h *Hasher) Sum64(key []byte) uint64 {
	if len(h.seed) == 0 {
		return xxhash.Sum64(key)
	}
	d := xxhash.New()
	_, _ = d.Write(h.seed)
	_, _ = d.Write(key)
	return d.Sum64()
}

// Partition maps key to a partition index in [0, partitions) under the
// Hasher's seed.
func (h *Hasher) Partition(key []byte, partitions int) int {
	if partitions <= 0 {
		panic("hashing: partitions must be positive")
	}
	return int(h.Sum64(key) % uint64(partitions))
}
