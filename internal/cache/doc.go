// Package cache provides a small generic LRU.
//
// Photographs repeat the same source color many times, so mapping keeps the
// nearest palette index of recently seen colors instead of scanning the
// palette again.
package cache
