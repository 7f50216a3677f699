package moduleconfig

import "github.com/cespare/xxhash/v2"

// ContentHash returns the xxhash digest of a configuration file's raw
// bytes, used to tell whether a reload trigger actually changed
// content (editors that rewrite-then-touch a file fire an fsnotify
// event without the bytes differing).
func ContentHash(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// HashGate remembers the last seen content hash for a path and reports
// whether newData differs from it, updating its memory as a side
// effect. It is not safe for concurrent use; callers serialize access.
type HashGate struct {
	last map[string]uint64
}

// NewHashGate returns an empty HashGate.
func NewHashGate() *HashGate {
	return &HashGate{last: make(map[string]uint64)}
}

// Changed reports whether newData's hash differs from the last one
// recorded for path, recording newData's hash either way.
func (g *HashGate) Changed(path string, newData []byte) bool {
	h := ContentHash(newData)
	prev, ok := g.last[path]
	g.last[path] = h
	return !ok || prev != h
}
