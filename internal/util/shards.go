package util

// MaxShards caps the shard count a caller can request.
const MaxShards = 1 << 30

// RoundShards normalizes a requested shard count: a non-positive request
// yields def, anything else is rounded up to the next power of two and
// clamped to MaxShards. The result is never below floor.
func RoundShards(requested, def, floor int) int {
	n := def
	if requested > 0 {
		if requested > MaxShards {
			requested = MaxShards
		}
		n = int(NextPow2(uint64(requested)))
	}
	if n < floor {
		n = floor
	}
	return n
}
