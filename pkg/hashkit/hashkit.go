// Package hashkit implements the small hash kit spec.md §4.2 requires:
// hash, hash-combine, hash-ordered-coll, hash-unordered-coll and
// mix-collection-hash, built on value.HashCode's structural leaf hash with
// a Murmur3-style finishing mix. Exact values are implementation-defined
// (spec.md §4.2) but stable within a process and consistent with
// value.Equal, resolving the "hash for non-scalars returns a placeholder"
// open question (spec.md §9) by actually hashing structurally rather than
// punting.
package hashkit

import "github.com/sandrolain/cljcore/pkg/value"

// Hash returns a hash of v consistent with value.Equal(v, _).
func Hash(v value.Value) uint64 {
	return finalMix(value.HashCode(v))
}

// Combine folds hash2 into hash1, for composing hashes of heterogeneous
// parts (spec.md §4.2: hash-combine).
func Combine(hash1, hash2 uint64) uint64 {
	// Murmur3-style finishing constants, same shape as Clojure's
	// Murmur3.mixCollHash helpers.
	const c1 = 0xcc9e2d51
	const c2 = 0x1b873593
	k := hash2 * c1
	k = (k << 15) | (k >> (64 - 15))
	k *= c2
	h := hash1 ^ k
	h = (h << 13) | (h >> (64 - 13))
	return h*5 + 0xe6546b64
}

// HashOrderedColl hashes a sequence where element order matters (lists,
// vectors): spec.md §4.2's hash-ordered-coll.
func HashOrderedColl(elems []value.Value) uint64 {
	h := uint64(1)
	for _, e := range elems {
		h = Combine(h, Hash(e))
	}
	return MixCollectionHash(h, len(elems))
}

// HashUnorderedColl hashes a collection where element order is irrelevant
// (sets, maps): spec.md §4.2's hash-unordered-coll. The mix is
// order-independent (plain wrapping sum of element hashes) so permutations of
// the same elements hash identically, matching value.Equal's set/map
// semantics.
func HashUnorderedColl(elems []value.Value) uint64 {
	var sum uint64
	for _, e := range elems {
		sum += Hash(e)
	}
	return MixCollectionHash(sum, len(elems))
}

// MixCollectionHash is the final size-dependent mix applied by both
// ordered and unordered collection hashing (spec.md §4.2).
func MixCollectionHash(hash uint64, count int) uint64 {
	h := finalMix(hash)
	h ^= uint64(count)
	return finalMix(h)
}

func finalMix(h uint64) uint64 {
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	h *= 0xc4ceb9fe1a85ec53
	h ^= h >> 33
	return h
}
