package abbrev

import "golang.org/x/exp/constraints"

// hashMap is a generic open-addressed hash table parameterized by
// key/value/hash, reused here instead of a distinct handwritten table per
// abbrev set. It is modeled after pkg/utils/map.go's plain-function style,
// generalized into a probing table since the abbrev set is built
// incrementally as the section is scanned rather than from a finished slice.
//
// Buckets are sized to a prime so linear probing with a single step spreads
// keys evenly; the table rehashes into the next prime once the load factor
// would reach 2/3.
type hashMap[K constraints.Integer, V any] struct {
	buckets []hmSlot[K, V]
	size    int
	primeAt int
}

type hmSlot[K constraints.Integer, V any] struct {
	used bool
	key  K
	val  V
}

// primes lists bucket-count candidates the table grows through. 2/3 of the
// largest is comfortably above any abbreviation table a single CU declares.
var primes = []int{11, 23, 47, 97, 197, 397, 797, 1597, 3203, 6421, 12853}

func newHashMap[K constraints.Integer, V any]() *hashMap[K, V] {
	return &hashMap[K, V]{buckets: make([]hmSlot[K, V], primes[0]), primeAt: 0}
}

func (h *hashMap[K, V]) index(key K, numBuckets int) int {
	return int(uint64(key) % uint64(numBuckets))
}

func (h *hashMap[K, V]) get(key K) (V, bool) {
	n := len(h.buckets)
	i := h.index(key, n)
	for probed := 0; probed < n; probed++ {
		slot := &h.buckets[i]
		if !slot.used {
			var zero V
			return zero, false
		}
		if slot.key == key {
			return slot.val, true
		}
		i = (i + 1) % n
	}
	var zero V
	return zero, false
}

func (h *hashMap[K, V]) put(key K, val V) {
	if 3*(h.size+1) >= 2*len(h.buckets) {
		h.grow()
	}
	h.insert(key, val)
}

func (h *hashMap[K, V]) insert(key K, val V) {
	n := len(h.buckets)
	i := h.index(key, n)
	for {
		slot := &h.buckets[i]
		if !slot.used {
			slot.used, slot.key, slot.val = true, key, val
			h.size++
			return
		}
		if slot.key == key {
			slot.val = val
			return
		}
		i = (i + 1) % n
	}
}

func (h *hashMap[K, V]) grow() {
	old := h.buckets
	if h.primeAt+1 < len(primes) {
		h.primeAt++
	}
	newSize := primes[h.primeAt]
	if newSize <= len(old) {
		newSize = len(old)*2 + 1
	}
	h.buckets = make([]hmSlot[K, V], newSize)
	h.size = 0
	for _, slot := range old {
		if slot.used {
			h.insert(slot.key, slot.val)
		}
	}
}
