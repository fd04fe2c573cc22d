package lfucache

import "fmt"

// verify walks the whole structure and returns an error for the first
// violated invariant. The tests run it after every operation; builds with
// the "checked" tag additionally run it on entry and exit of every public
// operation.
func (c *Cache[K, V]) verify() error {
	if len(c.index) > c.capacity {
		return fmt.Errorf("%d entries indexed, capacity is %d", len(c.index), c.capacity)
	}
	if (c.lowest == noBucket) != (len(c.index) == 0) {
		return fmt.Errorf("lowest bucket %d with %d entries indexed", c.lowest, len(c.index))
	}

	count := 0
	prevBucket := noBucket
	prevFreq := 0
	for b := c.lowest; b != noBucket; b = c.buckets[b].next {
		bk := c.buckets[b]
		if bk.frequency <= prevFreq {
			return fmt.Errorf("bucket frequency %d not above predecessor %d", bk.frequency, prevFreq)
		}
		if bk.prev != prevBucket {
			return fmt.Errorf("incorrect prev link on frequency %d bucket", bk.frequency)
		}
		if bk.head == noEntry {
			return fmt.Errorf("empty bucket linked at frequency %d", bk.frequency)
		}

		prev := noEntry
		for e := bk.head; e != noEntry; e = c.entries[e].moreRecent {
			ent := c.entries[e]
			if ent.bucket != b {
				return fmt.Errorf("entry %d has incorrect bucket back-reference", e)
			}
			if ent.lessRecent != prev {
				return fmt.Errorf("incorrect lessRecent link on entry %d", e)
			}
			if ie, ok := c.index[ent.key]; !ok || ie != e {
				return fmt.Errorf("entry %d not indexed under its key", e)
			}
			prev = e
			count++
		}
		if bk.tail != prev {
			return fmt.Errorf("tail of frequency %d bucket not pointing to last entry", bk.frequency)
		}

		prevBucket = b
		prevFreq = bk.frequency
	}

	if count != len(c.index) {
		return fmt.Errorf("%d entries linked, %d indexed", count, len(c.index))
	}

	return nil
}

func (c *Cache[K, V]) bug(msg string) {
	c.print()
	panic("bug: " + msg)
}
