package cache

// Cache is a keyed store that creates each value at most once.
// Iteration follows insertion order.
type Cache[K comparable, V any] struct {
	entries map[K]int // index into keys/values
	keys    []K
	values  []V

	hits   uint64
	misses uint64
}

// New creates an empty cache.
func New[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		entries: make(map[K]int),
	}
}

// Get retrieves a value from the cache.
// Returns (value, true) if found, (zero, false) otherwise.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	i, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	return c.values[i], true
}

// GetOrCreate returns the cached value for key or stores the result of create.
func (c *Cache[K, V]) GetOrCreate(key K, create func() V) V {
	if i, ok := c.entries[key]; ok {
		c.hits++
		return c.values[i]
	}
	c.misses++
	v := create()
	c.insert(key, v)
	return v
}

// Set stores a value, replacing any previous value for key.
func (c *Cache[K, V]) Set(key K, value V) {
	if i, ok := c.entries[key]; ok {
		c.values[i] = value
		return
	}
	c.insert(key, value)
}

func (c *Cache[K, V]) insert(key K, value V) {
	c.entries[key] = len(c.keys)
	c.keys = append(c.keys, key)
	c.values = append(c.values, value)
}

// Range calls fn for every entry in insertion order until fn returns false.
func (c *Cache[K, V]) Range(fn func(K, V) bool) {
	for i, k := range c.keys {
		if !fn(k, c.values[i]) {
			return
		}
	}
}

// Clear removes all entries and resets statistics.
func (c *Cache[K, V]) Clear() {
	clear(c.entries)
	c.keys = nil
	c.values = nil
	c.hits = 0
	c.misses = 0
}

// Len returns the number of entries in the cache.
func (c *Cache[K, V]) Len() int {
	return len(c.keys)
}

// Stats returns cache statistics.
func (c *Cache[K, V]) Stats() Stats {
	return Stats{
		Len:    len(c.keys),
		Hits:   c.hits,
		Misses: c.misses,
	}
}

// Stats holds cache statistics.
type Stats struct {
	Len    int
	Hits   uint64
	Misses uint64
}

// HitRate returns the fraction of lookups that found a value.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}
