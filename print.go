package lfucache

import "fmt"

// print dumps the bucket chain and the entry list of every bucket, for
// debugging invariant violations.
func (c *Cache[K, V]) print() {
	fmt.Printf("C capacity=%d items=%d lowest=%d\n", c.capacity, len(c.index), c.lowest)

	for b := c.lowest; b != noBucket; b = c.buckets[b].next {
		c.printBucket(b)
	}
}

func (c *Cache[K, V]) printBucket(b bref) {
	bk := c.buckets[b]
	fmt.Printf("- B %d freq=%d head=%d tail=%d prev=%d next=%d\n", b, bk.frequency, bk.head, bk.tail, bk.prev, bk.next)
	for e := bk.head; e != noEntry; e = c.entries[e].moreRecent {
		c.printEntry(e)
	}
}

func (c *Cache[K, V]) printEntry(e eref) {
	ent := c.entries[e]
	fmt.Printf("-- E %d %+v\n", e, ent)
}
