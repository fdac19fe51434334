package hex

// NogoodSet is an add/remove container of Nogood values with
// hash-indexed duplicate suppression, an add-count per entry (used by
// ForgetLeastFrequentlyAdded), and compaction ("Defragment") after bulk
// removal. It is grounded on fact_store.go's index-by-hash, reuse-free-
// slots container discipline.
type NogoodSet struct {
	entries   []*Nogood
	addCount  []uint32
	live      []bool
	freeSlots []int
	byHash    map[uint64][]int
}

// NewNogoodSet returns an empty NogoodSet.
func NewNogoodSet() *NogoodSet {
	return &NogoodSet{byHash: make(map[uint64][]int)}
}

// Add inserts ng, or, if an equal nogood is already present, increments
// its add-count and returns its existing index. Either way the
// returned index is valid for Get/Remove until the next Defragment.
func (ns *NogoodSet) Add(ng *Nogood) int {
	h := ng.Hash()
	for _, idx := range ns.byHash[h] {
		if ns.live[idx] && ns.entries[idx].Equal(ng) {
			ns.addCount[idx]++
			return idx
		}
	}

	var idx int
	if n := len(ns.freeSlots); n > 0 {
		idx = ns.freeSlots[n-1]
		ns.freeSlots = ns.freeSlots[:n-1]
		ns.entries[idx] = ng
		ns.addCount[idx] = 1
		ns.live[idx] = true
	} else {
		idx = len(ns.entries)
		ns.entries = append(ns.entries, ng)
		ns.addCount = append(ns.addCount, 1)
		ns.live = append(ns.live, true)
	}
	ns.byHash[h] = append(ns.byHash[h], idx)
	return idx
}

// Get returns the nogood at idx, or nil if idx is free or out of
// range.
func (ns *NogoodSet) Get(idx int) *Nogood {
	if idx < 0 || idx >= len(ns.entries) || !ns.live[idx] {
		return nil
	}
	return ns.entries[idx]
}

// Len returns the number of live entries (not the slot count, which
// may be larger until Defragment runs).
func (ns *NogoodSet) Len() int {
	n := 0
	for _, ok := range ns.live {
		if ok {
			n++
		}
	}
	return n
}

// Remove deletes the entry at idx: its add-count is cleared, its
// hash-bucket entry is dropped, and its slot is marked free for reuse
// by a later Add.
func (ns *NogoodSet) Remove(idx int) {
	if idx < 0 || idx >= len(ns.entries) || !ns.live[idx] {
		return
	}
	h := ns.entries[idx].Hash()
	bucket := ns.byHash[h]
	for i, e := range bucket {
		if e == idx {
			bucket[i] = bucket[len(bucket)-1]
			bucket = bucket[:len(bucket)-1]
			break
		}
	}
	if len(bucket) == 0 {
		delete(ns.byHash, h)
	} else {
		ns.byHash[h] = bucket
	}
	ns.entries[idx] = nil
	ns.addCount[idx] = 0
	ns.live[idx] = false
	ns.freeSlots = append(ns.freeSlots, idx)
}

// RemoveNogood removes the entry equal to ng, if any, and reports
// whether one was found.
func (ns *NogoodSet) RemoveNogood(ng *Nogood) bool {
	h := ng.Hash()
	for _, idx := range ns.byHash[h] {
		if ns.live[idx] && ns.entries[idx].Equal(ng) {
			ns.Remove(idx)
			return true
		}
	}
	return false
}

// Defragment compacts the entry slice so free slots disappear,
// renumbering surviving entries contiguously from 0 and rebuilding the
// hash index accordingly. It preserves the multiset of live nogoods
// exactly (Testable property: "Defragment preserves content").
func (ns *NogoodSet) Defragment() {
	newEntries := make([]*Nogood, 0, ns.Len())
	newAddCount := make([]uint32, 0, ns.Len())
	for i, ok := range ns.live {
		if ok {
			newEntries = append(newEntries, ns.entries[i])
			newAddCount = append(newAddCount, ns.addCount[i])
		}
	}
	ns.entries = newEntries
	ns.addCount = newAddCount
	ns.live = make([]bool, len(newEntries))
	for i := range ns.live {
		ns.live[i] = true
	}
	ns.freeSlots = nil
	ns.byHash = make(map[uint64][]int, len(newEntries))
	for i, ng := range ns.entries {
		h := ng.Hash()
		ns.byHash[h] = append(ns.byHash[h], i)
	}
}

// ForgetLeastFrequentlyAdded deletes every entry whose add-count is
// below 5% of the current maximum add-count. Entries are not
// renumbered; call Defragment afterward if contiguous indices are
// needed.
func (ns *NogoodSet) ForgetLeastFrequentlyAdded() {
	var maxCount uint32
	for i, ok := range ns.live {
		if ok && ns.addCount[i] > maxCount {
			maxCount = ns.addCount[i]
		}
	}
	if maxCount == 0 {
		return
	}
	threshold := float64(maxCount) * 0.05
	for i, ok := range ns.live {
		if ok && float64(ns.addCount[i]) < threshold {
			ns.Remove(i)
		}
	}
}

// AddCount returns the add-count of the entry at idx.
func (ns *NogoodSet) AddCount(idx int) uint32 {
	if idx < 0 || idx >= len(ns.addCount) {
		return 0
	}
	return ns.addCount[idx]
}

// ForEach calls fn with (index, nogood) for every live entry in index
// order, stopping early if fn returns false.
func (ns *NogoodSet) ForEach(fn func(idx int, ng *Nogood) bool) {
	for i, ok := range ns.live {
		if ok {
			if !fn(i, ns.entries[i]) {
				return
			}
		}
	}
}
