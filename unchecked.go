//go:build !checked

package lfucache

func (c *Cache[K, V]) check() {}
