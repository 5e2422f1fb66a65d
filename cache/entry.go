package cache

// entry is a stored value and its absolute expiration deadline in UnixNano.
// Entries are held by value in the shard map and replaced wholesale on
// overwrite; nothing mutates one after it is stored.
type entry[V any] struct {
	val V
	exp int64
}

// expiredAt reports whether the entry is past its deadline at now.
// The boundary instant still counts as live.
func (e entry[V]) expiredAt(now int64) bool { return now > e.exp }
