package fontdb

import (
	"math/bits"
	"sort"
)

// Charset is a compressed set of Unicode code points. Code points are
// grouped into pages of 256; only pages containing at least one member are
// stored. Pages are kept in ascending order.
//
// A nil *Charset is a valid, empty, read-only set.
type Charset struct {
	pages  []uint32 // page numbers, ascending
	leaves []*leaf  // leaves[i] holds the bitmap of pages[i]
}

type leaf [8]uint32

const maxCode = 0x10FFFF

// NewCharset creates an empty charset.
func NewCharset() *Charset {
	return &Charset{}
}

func (cs *Charset) findPage(page uint32) (int, bool) {
	i := sort.Search(len(cs.pages), func(k int) bool { return cs.pages[k] >= page })
	return i, i < len(cs.pages) && cs.pages[i] == page
}

// Add inserts r into the set. It returns false if r is not a valid code
// point.
func (cs *Charset) Add(r rune) bool {
	if r < 0 || r > maxCode {
		return false
	}
	page := uint32(r) >> 8
	i, found := cs.findPage(page)
	if !found {
		cs.pages = append(cs.pages, 0)
		cs.leaves = append(cs.leaves, nil)
		copy(cs.pages[i+1:], cs.pages[i:])
		copy(cs.leaves[i+1:], cs.leaves[i:])
		cs.pages[i] = page
		cs.leaves[i] = &leaf{}
	}
	cs.leaves[i][(r&0xff)>>5] |= 1 << (uint32(r) & 31)
	return true
}

// AddRange inserts all code points from lo to hi, inclusive.
func (cs *Charset) AddRange(lo, hi rune) {
	if lo < 0 {
		lo = 0
	}
	if hi > maxCode {
		hi = maxCode
	}
	for r := lo; r <= hi; r++ {
		cs.Add(r)
	}
}

// Del removes r from the set. Pages becoming empty are dropped.
func (cs *Charset) Del(r rune) {
	if cs == nil || r < 0 || r > maxCode {
		return
	}
	i, found := cs.findPage(uint32(r) >> 8)
	if !found {
		return
	}
	l := cs.leaves[i]
	l[(r&0xff)>>5] &^= 1 << (uint32(r) & 31)
	if *l == (leaf{}) {
		cs.pages = append(cs.pages[:i], cs.pages[i+1:]...)
		cs.leaves = append(cs.leaves[:i], cs.leaves[i+1:]...)
	}
}

// Has is a predicate: is r a member of the set?
func (cs *Charset) Has(r rune) bool {
	if cs == nil || r < 0 || r > maxCode {
		return false
	}
	i, found := cs.findPage(uint32(r) >> 8)
	if !found {
		return false
	}
	return cs.leaves[i][(r&0xff)>>5]&(1<<(uint32(r)&31)) != 0
}

// Count returns the number of members.
func (cs *Charset) Count() int {
	if cs == nil {
		return 0
	}
	n := 0
	for _, l := range cs.leaves {
		for _, w := range l {
			n += bits.OnesCount32(w)
		}
	}
	return n
}

// IsEmpty is a predicate: does the set contain no members?
func (cs *Charset) IsEmpty() bool {
	return cs == nil || len(cs.pages) == 0
}

// Min returns the smallest member.
func (cs *Charset) Min() (rune, bool) {
	if cs.IsEmpty() {
		return 0, false
	}
	l := cs.leaves[0]
	for j, w := range l {
		if w != 0 {
			return rune(cs.pages[0]<<8) + rune(j<<5+bits.TrailingZeros32(w)), true
		}
	}
	return 0, false // unreachable for non-empty pages
}

// Max returns the largest member.
func (cs *Charset) Max() (rune, bool) {
	if cs.IsEmpty() {
		return 0, false
	}
	n := len(cs.pages) - 1
	l := cs.leaves[n]
	for j := len(l) - 1; j >= 0; j-- {
		if w := l[j]; w != 0 {
			return rune(cs.pages[n]<<8) + rune(j<<5+31-bits.LeadingZeros32(w)), true
		}
	}
	return 0, false
}

// Nth returns the member with rank index (0-based) in ascending order.
// Pages are skipped by their population count, so the cost is linear in the
// number of pages, not in the number of members.
func (cs *Charset) Nth(index int) (rune, bool) {
	if cs == nil || index < 0 {
		return 0, false
	}
	count := 0
	for i, l := range cs.leaves {
		for j, w := range l {
			c := bits.OnesCount32(w)
			if count+c <= index {
				count += c
				continue
			}
			for ; w != 0; w &= w - 1 {
				if count == index {
					return rune(cs.pages[i]<<8) + rune(j<<5+bits.TrailingZeros32(w)), true
				}
				count++
			}
		}
	}
	return 0, false
}

// Each calls f for every member in ascending order, until f returns false.
func (cs *Charset) Each(f func(rune) bool) {
	if cs == nil {
		return
	}
	for i, l := range cs.leaves {
		for j, w := range l {
			for ; w != 0; w &= w - 1 {
				r := rune(cs.pages[i]<<8) + rune(j<<5+bits.TrailingZeros32(w))
				if !f(r) {
					return
				}
			}
		}
	}
}

// Copy returns a deep copy. Copying a nil charset yields an empty one.
func (cs *Charset) Copy() *Charset {
	c := &Charset{}
	if cs == nil {
		return c
	}
	c.pages = append(make([]uint32, 0, len(cs.pages)), cs.pages...)
	c.leaves = make([]*leaf, len(cs.leaves))
	for i, l := range cs.leaves {
		cp := *l
		c.leaves[i] = &cp
	}
	return c
}

// Merge adds all members of other to cs.
func (cs *Charset) Merge(other *Charset) {
	if other == nil {
		return
	}
	for i, page := range other.pages {
		k, found := cs.findPage(page)
		if !found {
			cp := *other.leaves[i]
			cs.pages = append(cs.pages, 0)
			cs.leaves = append(cs.leaves, nil)
			copy(cs.pages[k+1:], cs.pages[k:])
			copy(cs.leaves[k+1:], cs.leaves[k:])
			cs.pages[k] = page
			cs.leaves[k] = &cp
			continue
		}
		for j := range cs.leaves[k] {
			cs.leaves[k][j] |= other.leaves[i][j]
		}
	}
}

// Equal is a predicate: do cs and other contain the same members?
func (cs *Charset) Equal(other *Charset) bool {
	if cs.IsEmpty() || other.IsEmpty() {
		return cs.IsEmpty() && other.IsEmpty()
	}
	if len(cs.pages) != len(other.pages) {
		return false
	}
	for i := range cs.pages {
		if cs.pages[i] != other.pages[i] || *cs.leaves[i] != *other.leaves[i] {
			return false
		}
	}
	return true
}
