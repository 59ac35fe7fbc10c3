// Package cache provides the keyed stores behind the brush caches and the
// per-geometry miter cache.
//
// A Cache keeps at most one value per key for its whole lifetime: once a
// value is created for a key, every later lookup returns that same value
// until Clear. Entries are never evicted, which suits the small, bounded key
// spaces it serves (brush colors used by the UI, line widths used by a
// geometry).
//
//	c := cache.New[string, *Brush]()
//	b := c.GetOrCreate("red", func() *Brush { return newBrush(red) })
//
// Cache is not safe for concurrent use.
package cache
