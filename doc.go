/*

Package lfucache implements an O(1) LFU (Least Frequently Used) cache.

This structure is described in the paper "An O(1) algorithm for implementing
the LFU cache eviction scheme" by K. Shah, A. Mitra and D. Matani. It is
based on two levels of doubly linked lists and gives O(1) insert, access and
eviction operations. Buckets are kept in strictly increasing frequency order
and each bucket keeps its entries in recency order, so the eviction victim is
always the least recently used entry among those at the lowest frequency.
Instead of a pointer graph, entries and buckets live in arenas owned by the
cache and link to each other by index.

A write counts as the entry's first access: overwriting an existing key
resets its accumulated frequency back to one. Contains is a pure peek and
affects neither frequency nor recency.

The cache supports reporting evicted entries to a callback, and manually
evicting entries matching a certain criteria. This is useful for example
when using the package as a write cache for a database, where items must be
written to the backing store on eviction.

The cache performs no internal locking and is not safe for concurrent use.
Callers sharing a cache between goroutines must serialize all operations
themselves, with a single lock guarding the cache or by sharding keys over
several independent instances.

Example:

	c, err := lfucache.New[string, int](1024) // The cache will hold up to 1024 entries.
	c.Get("mykey")                            // => 0, false
	c.Put("mykey", 2345)                      // => 0, false
	v, ok := c.Get("mykey")                   // => v = 2345, ok = true
	c.Delete("mykey")                         // => true

---

Licensed under the MIT license.

*/
package lfucache
