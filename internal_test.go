package lfucache

import "testing"

func assertConsistent(t *testing.T, c *Cache[string, int]) {
	t.Helper()
	if err := c.verify(); err != nil {
		t.Fatalf("Inconsistent structure: %v", err)
	}
}

// frequencyOf returns the linked frequency of a resident key.
func frequencyOf(c *Cache[string, int], key string) int {
	e, ok := c.index[key]
	if !ok {
		return 0
	}
	return c.buckets[c.entries[e].bucket].frequency
}

func TestMinimalBucketsDuringGet(t *testing.T) {
	c, _ := New[string, int](10)
	c.Put("test1", 42) // freq=1
	c.Put("test2", 43) // freq=1
	c.Put("test3", 44) // freq=1
	c.Put("test4", 45) // freq=1

	if n := c.numBuckets(); n != 1 {
		t.Errorf("Non-minimal number of buckets %d", n)
	}

	c.Get("test1") // freq=2
	c.Get("test2") // freq=2
	c.Get("test3") // freq=2
	c.Get("test4") // freq=2

	if n := c.numBuckets(); n != 1 {
		t.Errorf("Non-minimal number of buckets %d", n)
	}
	if f := c.buckets[c.lowest].frequency; f != 2 {
		t.Errorf("Unexpected lowest frequency %d", f)
	}

	c.Get("test1") // freq=3
	c.Get("test2") // freq=3

	if n := c.numBuckets(); n != 2 {
		t.Errorf("Non-minimal number of buckets %d", n)
	}

	c.Get("test3") // freq=3
	c.Get("test4") // freq=3

	if n := c.numBuckets(); n != 1 {
		t.Errorf("Non-minimal number of buckets %d", n)
	}

	assertConsistent(t, c)
}

func TestMinimalBucketsDuringDelete1(t *testing.T) {
	c, _ := New[string, int](10)
	c.Put("test1", 42) // freq=1
	c.Put("test2", 43) // freq=1
	c.Put("test3", 44) // freq=1
	c.Put("test4", 45) // freq=1

	c.Get("test1") // freq=2
	c.Get("test2") // freq=2
	c.Get("test3") // freq=2
	c.Get("test4") // freq=2

	c.Get("test1") // freq=3
	c.Get("test2") // freq=3

	if n := c.numBuckets(); n != 2 {
		t.Errorf("Non-minimal number of buckets %d", n)
	}

	c.Delete("test1")
	c.Delete("test2")

	if n := c.numBuckets(); n != 1 {
		t.Errorf("Non-minimal number of buckets %d", n)
	}
	if f := c.buckets[c.lowest].frequency; f != 2 {
		t.Errorf("Unexpected lowest frequency %d", f)
	}

	assertConsistent(t, c)
}

func TestMinimalBucketsDuringDelete2(t *testing.T) {
	c, _ := New[string, int](10)
	c.Put("test1", 42) // freq=1
	c.Put("test2", 43) // freq=1
	c.Put("test3", 44) // freq=1
	c.Put("test4", 45) // freq=1

	c.Get("test1") // freq=2
	c.Get("test2") // freq=2
	c.Get("test3") // freq=2
	c.Get("test4") // freq=2

	c.Get("test1") // freq=3
	c.Get("test2") // freq=3

	c.Delete("test3")
	c.Delete("test4")

	if n := c.numBuckets(); n != 1 {
		t.Errorf("Non-minimal number of buckets %d", n)
	}
	if f := c.buckets[c.lowest].frequency; f != 3 {
		t.Errorf("Unexpected lowest frequency %d", f)
	}

	assertConsistent(t, c)
}

func TestFrequencyTracking(t *testing.T) {
	c, _ := New[string, int](4)

	c.Put("test1", 42)
	if f := frequencyOf(c, "test1"); f != 1 {
		t.Errorf("Frequency %d after insert", f)
	}

	c.Get("test1")
	c.Get("test1")
	if f := frequencyOf(c, "test1"); f != 3 {
		t.Errorf("Frequency %d after two accesses", f)
	}

	c.Contains("test1")
	if f := frequencyOf(c, "test1"); f != 3 {
		t.Errorf("Frequency %d changed by Contains", f)
	}

	c.Put("test1", 43)
	if f := frequencyOf(c, "test1"); f != 1 {
		t.Errorf("Frequency %d not reset by overwrite", f)
	}

	assertConsistent(t, c)
}

// A long mixed sequence of operations, verifying the full structure after
// every single step.
func TestConsistencyUnderMixedOperations(t *testing.T) {
	keys := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}

	c, _ := New[string, int](4)
	assertConsistent(t, c)

	for i := 0; i < 200; i++ {
		c.Put(keys[i%len(keys)], i)
		assertConsistent(t, c)

		c.Get(keys[(i*3)%len(keys)])
		assertConsistent(t, c)

		if i%7 == 0 {
			c.Delete(keys[(i*5)%len(keys)])
			assertConsistent(t, c)
		}

		if i%31 == 0 {
			c.EvictIf(func(_ string, v int) bool { return v%2 == 1 })
			assertConsistent(t, c)
		}

		if c.Size() > 4 {
			t.Fatalf("Size %d exceeds capacity", c.Size())
		}
	}

	c.Clear()
	assertConsistent(t, c)
}

// Evicted and deleted slots are reused, so the entry arena never grows past
// capacity for fresh inserts, or capacity plus one for overwrites.
func TestArenaSlotReuse(t *testing.T) {
	c, _ := New[string, int](3)

	keys := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	for _, k := range keys {
		c.Put(k, 1)
		if len(c.entries) > 3 {
			t.Fatalf("Entry arena grew to %d on fresh inserts", len(c.entries))
		}
		assertConsistent(t, c)
	}

	c.Put("h", 2) // overwrite allocates before it releases
	if len(c.entries) > 4 {
		t.Fatalf("Entry arena grew to %d on overwrite", len(c.entries))
	}

	c.Delete("h")
	c.Put("x", 3)
	if len(c.entries) > 4 {
		t.Fatalf("Entry arena grew to %d after delete and reinsert", len(c.entries))
	}

	assertConsistent(t, c)
}

func TestLowestBucketTracking(t *testing.T) {
	c, _ := New[string, int](2)

	if c.lowest != noBucket {
		t.Error("Empty cache has a lowest bucket")
	}

	c.Put("test1", 42)
	c.Get("test1") // freq=2, the only entry
	if f := c.buckets[c.lowest].frequency; f != 2 {
		t.Errorf("Unexpected lowest frequency %d", f)
	}

	c.Put("test2", 43) // freq=1 bucket reappears at the front
	if f := c.buckets[c.lowest].frequency; f != 1 {
		t.Errorf("Unexpected lowest frequency %d", f)
	}

	c.Delete("test2")
	if f := c.buckets[c.lowest].frequency; f != 2 {
		t.Errorf("Unexpected lowest frequency %d", f)
	}

	c.Delete("test1")
	if c.lowest != noBucket {
		t.Error("Emptied cache still has a lowest bucket")
	}

	assertConsistent(t, c)
}
