package hex

import "math/bits"

const wordBits = 64

// Interpretation is a mutable bitset over atom addresses, paired with
// the Registry whose atoms it indexes. It is the shared representation
// for EDB facts, full models, partial assignments, and masks.
type Interpretation struct {
	registry *Registry
	words    []uint64
}

// NewInterpretation returns an empty interpretation bound to r.
func NewInterpretation(r *Registry) *Interpretation {
	return &Interpretation{registry: r}
}

func (ip *Interpretation) ensure(addr uint32) {
	w := int(addr)/wordBits + 1
	if w > len(ip.words) {
		grown := make([]uint64, w)
		copy(grown, ip.words)
		ip.words = grown
	}
}

// Set marks the atom at id as true (for ordinary ground atoms) or, for
// any other Id, as present in this bitset by address.
func (ip *Interpretation) Set(id Id) {
	ip.ensure(id.Address())
	ip.words[id.Address()/wordBits] |= 1 << (id.Address() % wordBits)
}

// Clear marks id as false/absent.
func (ip *Interpretation) Clear(id Id) {
	if int(id.Address())/wordBits >= len(ip.words) {
		return
	}
	ip.words[id.Address()/wordBits] &^= 1 << (id.Address() % wordBits)
}

// Get reports whether id is present in this bitset.
func (ip *Interpretation) Get(id Id) bool {
	w := int(id.Address()) / wordBits
	if w >= len(ip.words) {
		return false
	}
	return ip.words[w]&(1<<(id.Address()%wordBits)) != 0
}

// Count returns the number of set bits.
func (ip *Interpretation) Count() int {
	n := 0
	for _, w := range ip.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Clone returns an independent copy of ip.
func (ip *Interpretation) Clone() *Interpretation {
	out := &Interpretation{registry: ip.registry, words: make([]uint64, len(ip.words))}
	copy(out.words, ip.words)
	return out
}

// Union sets every bit that is set in other.
func (ip *Interpretation) Union(other *Interpretation) {
	if len(other.words) > len(ip.words) {
		grown := make([]uint64, len(other.words))
		copy(grown, ip.words)
		ip.words = grown
	}
	for i, w := range other.words {
		ip.words[i] |= w
	}
}

// Intersect clears every bit that is not set in other.
func (ip *Interpretation) Intersect(other *Interpretation) {
	for i := range ip.words {
		if i >= len(other.words) {
			ip.words[i] = 0
			continue
		}
		ip.words[i] &= other.words[i]
	}
}

// Subtract clears every bit that is set in other.
func (ip *Interpretation) Subtract(other *Interpretation) {
	for i := range ip.words {
		if i >= len(other.words) {
			break
		}
		ip.words[i] &^= other.words[i]
	}
}

// Equal reports whether ip and other have exactly the same set bits.
func (ip *Interpretation) Equal(other *Interpretation) bool {
	n := len(ip.words)
	if len(other.words) > n {
		n = len(other.words)
	}
	for i := 0; i < n; i++ {
		var a, b uint64
		if i < len(ip.words) {
			a = ip.words[i]
		}
		if i < len(other.words) {
			b = other.words[i]
		}
		if a != b {
			return false
		}
	}
	return true
}

// ForEach calls fn for every address whose bit is set, in ascending
// order, stopping early if fn returns false.
func (ip *Interpretation) ForEach(fn func(addr uint32) bool) {
	for wi, w := range ip.words {
		for w != 0 {
			tz := bits.TrailingZeros64(w)
			addr := uint32(wi*wordBits + tz)
			if !fn(addr) {
				return
			}
			w &^= 1 << tz
		}
	}
}

// Atoms returns, as OrdinaryAtom Ids, every ordinary-ground-atom
// address set in ip. Non-atom addresses (should there be any sharing
// the bitset) are silently skipped.
func (ip *Interpretation) Atoms() []Id {
	var out []Id
	ip.ForEach(func(addr uint32) bool {
		id := newID(KindAtom|FlagOrdinary|FlagGround, addr)
		if _, ok := ip.registry.Atom(id); ok {
			out = append(out, id)
		}
		return true
	})
	return out
}
