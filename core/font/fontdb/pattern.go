package fontdb

import (
	"fmt"
	"hash/fnv"
	"strconv"
)

// Spacing describes the horizontal spacing of a face. Values follow the
// fontconfig constants.
type Spacing int

// Spacing values
const (
	Proportional Spacing = 0
	Dual         Spacing = 90
	Mono         Spacing = 100
	Charcell     Spacing = 110
)

func (s Spacing) String() string {
	switch s {
	case Proportional:
		return "proportional"
	case Dual:
		return "dual"
	case Mono:
		return "mono"
	case Charcell:
		return "charcell"
	}
	return "spacing(" + strconv.Itoa(int(s)) + ")"
}

// Font formats as reported by Pattern.Format.
const (
	FormatTrueType = "TrueType"
	FormatCFF      = "CFF"
)

// Pattern describes a single face inside a font file.
type Pattern struct {
	Family   string   // family name, e.g. "Go Mono"
	Style    string   // style (sub-family) name, e.g. "Bold Italic"
	Foundry  string   // lower-case vendor ID, may be empty
	FullName string   // full face name
	Version  string   // version string from the naming table
	Format   string   // FormatTrueType or FormatCFF
	Spacing  Spacing  // proportional or fixed pitch
	Outline  bool     // face contains glyph outlines
	File     string   // path of the font file
	Index    int      // face index inside a font collection
	Charset  *Charset // Unicode coverage
}

// Key returns the reduced pattern of p: the attributes which define a font
// family (a "master").
func (p *Pattern) Key() Key {
	return Key{Family: p.Family, Foundry: p.Foundry, Spacing: p.Spacing}
}

// Duplicate returns a deep copy of p.
func (p *Pattern) Duplicate() *Pattern {
	d := *p
	d.Charset = p.Charset.Copy()
	return &d
}

// Equal compares two patterns attribute by attribute, including coverage.
func (p *Pattern) Equal(q *Pattern) bool {
	if p == nil || q == nil {
		return p == q
	}
	return p.Family == q.Family && p.Style == q.Style && p.Foundry == q.Foundry &&
		p.FullName == q.FullName && p.Version == q.Version && p.Format == q.Format &&
		p.Spacing == q.Spacing && p.Outline == q.Outline && p.File == q.File &&
		p.Index == q.Index && p.Charset.Equal(q.Charset)
}

func (p *Pattern) String() string {
	return fmt.Sprintf("%s:style=%s:foundry=%s:spacing=%s:file=%s#%d",
		p.Family, p.Style, p.Foundry, p.Spacing, p.File, p.Index)
}

func (p *Pattern) id() string {
	return p.File + "#" + strconv.Itoa(p.Index)
}

// Key is a reduced pattern, holding family, foundry and spacing only.
// Keys are comparable and may be used as map keys.
type Key struct {
	Family  string
	Foundry string
	Spacing Spacing
}

// Hash returns a stable 64-bit hash of the key. Hashes do not depend on the
// process or on the order in which fonts have been scanned.
func (k Key) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(k.Family))
	h.Write([]byte{0})
	h.Write([]byte(k.Foundry))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(int(k.Spacing))))
	return h.Sum64()
}

func (k Key) String() string {
	if k.Foundry == "" {
		return fmt.Sprintf("%s:spacing=%s", k.Family, k.Spacing)
	}
	return fmt.Sprintf("%s:foundry=%s:spacing=%s", k.Family, k.Foundry, k.Spacing)
}
