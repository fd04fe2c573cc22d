//go:build checked

package lfucache

// check runs the full structural verification and panics with a dump of the
// structure on the first violated invariant.
func (c *Cache[K, V]) check() {
	if err := c.verify(); err != nil {
		c.bug(err.Error())
	}
}
