// Package util contains internal helpers (hashing, sharding, padding).
//revive:disable:var-naming  // allow 'util' as an internal helpers package name
package util

// 64-bit FNV-1a parameters.
const (
	fnvOffset64 = 0xcbf29ce484222325
	fnvPrime64  = 0x100000001b3
)

// Fnv64a returns the 64-bit FNV-1a digest of key, processed byte by byte
// (XOR, then multiply). It does not allocate.
func Fnv64a(key string) uint64 {
	h := uint64(fnvOffset64)
	for i := 0; i < len(key); i++ {
		h ^= uint64(key[i])
		h *= fnvPrime64
	}
	return h
}

// ShardIndex maps a 64-bit hash to a shard index.
// Power-of-two shard counts take the mask path; anything else falls back
// to modulo so the result stays in range.
func ShardIndex(hash uint64, shards int) int {
	if shards <= 1 {
		return 0
	}
	if IsPowerOfTwo(uint64(shards)) {
		return int(hash & uint64(shards-1))
	}
	return int(hash % uint64(shards))
}
