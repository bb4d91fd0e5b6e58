package core

import (
	"strconv"
	"strings"
)

// javaHashCode ports the canonical Java String.hashCode algorithm used to
// derive the generator's PRNG seed: h starts at 0 and accumulates
// h = 31*h + e per rune, with 32-bit wraparound; the empty string hashes to
// 0. Go's untyped int32 arithmetic wraps the same way C's/Java's does, so
// no explicit masking is required beyond declaring h as int32.
func javaHashCode(s string) int32 {
	var h int32
	for _, r := range s {
		h = 31*h + r
	}
	return h
}

// generatorSeed builds the comma-joined "k,b,a,c,seed" key and hashes it,
// matching §6 of the external-interfaces description exactly.
func generatorSeed(k, b, a, c int, seed string) int32 {
	parts := []string{strconv.Itoa(k), strconv.Itoa(b), strconv.Itoa(a), strconv.Itoa(c), seed}
	return javaHashCode(strings.Join(parts, ","))
}
