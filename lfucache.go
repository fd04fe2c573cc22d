package lfucache

import "errors"

// ErrInvalidCapacity is returned by New and NewWithEvict when the requested
// capacity is not positive.
var ErrInvalidCapacity = errors.New("lfucache: capacity must be positive")

// Entries and buckets live in arenas on the Cache and reference each other
// by index. noEntry/noBucket take the place of nil links.
type (
	eref int
	bref int
)

const (
	noEntry  eref = -1
	noBucket bref = -1
)

// Cache is an LFU cache structure. It performs no internal locking and is
// not safe for concurrent use.
type Cache[K comparable, V any] struct {
	capacity int
	index    map[K]eref
	entries  []entry[K, V]
	buckets  []bucket
	freeEnt  eref // head of the freed entry slot list
	freeBkt  bref // head of the freed bucket slot list
	lowest   bref // minimum-frequency bucket, noBucket when empty
	onEvict  func(K, V)
	stats    Statistics
}

// Statistics holds current item counts and operation counters.
type Statistics struct {
	Items     int // Number of entries currently in the cache
	Buckets   int // Number of distinct frequencies currently present
	Inserts   int // Number of Put()s
	Hits      int // Number of hits (Get() of a present key)
	Misses    int // Number of misses (Get() of an absent key)
	Evictions int // Number of evictions (capacity pressure on Put(), or EvictIf() calls)
	Deletes   int // Number of Delete()s
}

// bucket is one frequency level: a recency-ordered list of the entries
// sharing that access frequency. head is the least recently used entry,
// tail the most recently used. Buckets with no entries are unlinked
// immediately; next doubles as the free list link for unused slots.
type bucket struct {
	frequency  int
	head, tail eref
	prev, next bref
}

// entry is one key/value pair. moreRecent points toward the bucket tail and
// doubles as the free list link for unused slots.
type entry[K comparable, V any] struct {
	key        K
	value      V
	bucket     bref
	lessRecent eref
	moreRecent eref
}

// New initializes an LFU cache holding at most capacity entries.
func New[K comparable, V any](capacity int) (*Cache[K, V], error) {
	return NewWithEvict[K, V](capacity, nil)
}

// NewWithEvict is like New but registers a callback invoked with the key and
// value of every entry removed by eviction, either under capacity pressure
// or through EvictIf. Entries removed with Delete are not reported. This is
// useful for example when using the package as a write cache for a database,
// where items must be written to the backing store on eviction.
func NewWithEvict[K comparable, V any](capacity int, onEvict func(K, V)) (*Cache[K, V], error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}

	c := Cache[K, V]{}
	c.capacity = capacity
	c.index = make(map[K]eref, capacity)
	c.entries = make([]entry[K, V], 0, capacity)
	c.freeEnt = noEntry
	c.freeBkt = noBucket
	c.lowest = noBucket
	c.onEvict = onEvict
	return &c, nil
}

// Put inserts or overwrites the mapping for key and returns the previous
// value, if any. The write itself counts as an access: the entry ends up at
// frequency one, most recently used among the frequency-one entries, even
// when it overwrites a key that had accumulated a higher frequency.
func (c *Cache[K, V]) Put(key K, value V) (previous V, replaced bool) {
	c.check()

	old, exists := c.index[key]
	if !exists && len(c.index) == c.capacity {
		c.evict(c.buckets[c.lowest].head)
	}

	e := c.allocEntry(key, value)
	c.appendTail(c.frontBucket(), e)
	c.index[key] = e
	c.stats.Inserts++

	if exists {
		previous = c.entries[old].value
		replaced = true
		c.unlink(old)
		c.releaseEntry(old)
	}

	c.check()

	return previous, replaced
}

// Get returns "value, ok" for key, similar to map indexing. A hit counts as
// an access: the entry moves to the next higher frequency bucket and becomes
// most recently used there.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.check()

	e, ok := c.index[key]
	if !ok {
		c.stats.Misses++
		var zero V
		return zero, false
	}

	c.promote(e)
	c.stats.Hits++

	c.check()

	return c.entries[e].value, true
}

// Contains reports whether key is present. It is a peek: neither the
// frequency nor the recency position of the entry changes.
func (c *Cache[K, V]) Contains(key K) bool {
	_, ok := c.index[key]
	return ok
}

// Delete deletes an entry from the cache and returns true. Does nothing and
// returns false if the key was not present. Delete does not invoke the
// eviction callback.
func (c *Cache[K, V]) Delete(key K) bool {
	c.check()

	e, ok := c.index[key]
	if ok {
		c.remove(e)
		c.stats.Deletes++
	}

	c.check()

	return ok
}

// EvictIf applies test to each entry in the cache and evicts it if the test
// returns true. Returns the number of entries that was evicted.
func (c *Cache[K, V]) EvictIf(test func(K, V) bool) int {
	c.check()

	cnt := 0
	for key, e := range c.index {
		if test(key, c.entries[e].value) {
			c.evict(e)
			cnt++
		}
	}

	c.check()

	return cnt
}

// Size returns the number of entries currently held.
func (c *Cache[K, V]) Size() int {
	return len(c.index)
}

// Clear removes all entries while keeping the configured capacity. No
// eviction callbacks are invoked.
func (c *Cache[K, V]) Clear() {
	c.check()

	clear(c.index)
	clear(c.entries)
	c.entries = c.entries[:0]
	c.buckets = c.buckets[:0]
	c.freeEnt = noEntry
	c.freeBkt = noBucket
	c.lowest = noBucket

	c.check()
}

// Statistics returns the cache statistics.
func (c *Cache[K, V]) Statistics() Statistics {
	c.check()

	c.stats.Items = len(c.index)
	c.stats.Buckets = c.numBuckets()
	return c.stats
}

// evict removes e and reports it to the eviction callback.
func (c *Cache[K, V]) evict(e eref) {
	key, value := c.entries[e].key, c.entries[e].value
	c.remove(e)
	c.stats.Evictions++
	if c.onEvict != nil {
		c.onEvict(key, value)
	}
}

// remove drops e from the structure entirely: index, recency list and, when
// it held the last entry of its bucket, the bucket chain.
func (c *Cache[K, V]) remove(e eref) {
	delete(c.index, c.entries[e].key)
	c.unlink(e)
	c.releaseEntry(e)
}

// promote moves e from its current bucket to the one holding the next
// higher frequency, splicing a new bucket in right after the current one
// when that frequency is not linked yet.
func (c *Cache[K, V]) promote(e eref) {
	cur := c.entries[e].bucket
	next := c.buckets[cur].next

	target := next
	if next == noBucket || c.buckets[next].frequency != c.buckets[cur].frequency+1 {
		target = c.allocBucket(c.buckets[cur].frequency+1, cur, next)
	}

	c.unlink(e)
	c.appendTail(target, e)
}

// frontBucket returns the frequency-one bucket, creating it ahead of the
// current lowest bucket when that one has a higher frequency.
func (c *Cache[K, V]) frontBucket() bref {
	if c.lowest != noBucket && c.buckets[c.lowest].frequency == 1 {
		return c.lowest
	}
	b := c.allocBucket(1, noBucket, c.lowest)
	c.lowest = b
	return b
}

// appendTail links e as the most recently used entry of b.
func (c *Cache[K, V]) appendTail(b bref, e eref) {
	tail := c.buckets[b].tail

	ent := &c.entries[e]
	ent.bucket = b
	ent.moreRecent = noEntry
	ent.lessRecent = tail

	if tail != noEntry {
		c.entries[tail].moreRecent = e
	} else {
		c.buckets[b].head = e
	}
	c.buckets[b].tail = e
}

// unlink detaches e from its bucket's recency list and discards the bucket
// if that left it empty. The entry slot itself stays live, ready to be
// appended elsewhere or released.
func (c *Cache[K, V]) unlink(e eref) {
	ent := &c.entries[e]
	b := ent.bucket

	if ent.lessRecent != noEntry {
		c.entries[ent.lessRecent].moreRecent = ent.moreRecent
	} else {
		c.buckets[b].head = ent.moreRecent
	}

	if ent.moreRecent != noEntry {
		c.entries[ent.moreRecent].lessRecent = ent.lessRecent
	} else {
		c.buckets[b].tail = ent.lessRecent
	}

	ent.bucket = noBucket
	ent.lessRecent = noEntry
	ent.moreRecent = noEntry

	c.discardIfEmpty(b)
}

// discardIfEmpty unlinks and releases b if its entry list became empty,
// advancing the lowest-bucket reference past it when necessary. Invoked
// after every removal so that no empty bucket outlives the operation.
func (c *Cache[K, V]) discardIfEmpty(b bref) {
	bk := c.buckets[b]
	if bk.head != noEntry {
		return
	}

	if bk.prev != noBucket {
		c.buckets[bk.prev].next = bk.next
	}
	if bk.next != noBucket {
		c.buckets[bk.next].prev = bk.prev
	}
	if c.lowest == b {
		c.lowest = bk.next
	}

	c.releaseBucket(b)
}

func (c *Cache[K, V]) allocEntry(key K, value V) eref {
	var e eref
	if c.freeEnt != noEntry {
		e = c.freeEnt
		c.freeEnt = c.entries[e].moreRecent
	} else {
		c.entries = append(c.entries, entry[K, V]{})
		e = eref(len(c.entries) - 1)
	}
	c.entries[e] = entry[K, V]{key: key, value: value, bucket: noBucket, lessRecent: noEntry, moreRecent: noEntry}
	return e
}

// releaseEntry returns the slot to the free list. Key and value are zeroed
// so the arena does not pin memory that is otherwise unreachable.
func (c *Cache[K, V]) releaseEntry(e eref) {
	c.entries[e] = entry[K, V]{bucket: noBucket, lessRecent: noEntry, moreRecent: c.freeEnt}
	c.freeEnt = e
}

// allocBucket takes a slot off the free list or grows the arena, and links
// the bucket for frequency in between prev and next.
func (c *Cache[K, V]) allocBucket(frequency int, prev, next bref) bref {
	var b bref
	if c.freeBkt != noBucket {
		b = c.freeBkt
		c.freeBkt = c.buckets[b].next
	} else {
		c.buckets = append(c.buckets, bucket{})
		b = bref(len(c.buckets) - 1)
	}
	c.buckets[b] = bucket{frequency: frequency, head: noEntry, tail: noEntry, prev: prev, next: next}

	if prev != noBucket {
		c.buckets[prev].next = b
	}
	if next != noBucket {
		c.buckets[next].prev = b
	}
	return b
}

func (c *Cache[K, V]) releaseBucket(b bref) {
	c.buckets[b] = bucket{head: noEntry, tail: noEntry, prev: noBucket, next: c.freeBkt}
	c.freeBkt = b
}

func (c *Cache[K, V]) numBuckets() int {
	count := 0
	for b := c.lowest; b != noBucket; b = c.buckets[b].next {
		count++
	}
	return count
}
