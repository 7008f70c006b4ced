package charmap

import (
	"github.com/npillmayer/glc/core"
	"github.com/npillmayer/glc/core/array"
	"github.com/npillmayer/glc/core/font/fontdb"
	"github.com/npillmayer/glc/core/font/glyph"
)

type entry struct {
	code  rune
	glyph *glyph.Glyph
}

// CharMap maps character codes to glyphs. Overlay entries are kept sorted
// by code at all times.
type CharMap struct {
	charset *fontdb.Charset
	overlay *array.Array[entry]
}

// New creates a character map with coverage cs. cs is copied; nil yields
// an empty map.
func New(cs *fontdb.Charset) *CharMap {
	cm := &CharMap{overlay: array.New[entry](8)}
	if cs != nil {
		cm.charset = cs.Copy()
	} else {
		cm.charset = fontdb.NewCharset()
	}
	return cm
}

func (cm *CharMap) search(code rune) (int, bool) {
	return cm.overlay.Search(func(e entry) int {
		switch {
		case e.code < code:
			return -1
		case e.code > code:
			return 1
		}
		return 0
	})
}

// AddChar maps code to g, replacing an existing entry for code.
func (cm *CharMap) AddChar(code rune, g *glyph.Glyph) {
	i, found := cm.search(code)
	if found {
		cm.overlay.Set(i, entry{code, g})
		return
	}
	cm.overlay.Insert(i, entry{code, g})
}

// RemoveChar removes the overlay entry for code. Removing an absent code
// is a no-op.
func (cm *CharMap) RemoveChar(code rune) {
	if i, found := cm.search(code); found {
		cm.overlay.Remove(i)
	}
}

// GetGlyph returns the glyph code has been resolved to, or nil.
// GetGlyph does not consult the coverage: nil means "not resolved yet".
func (cm *CharMap) GetGlyph(code rune) *glyph.Glyph {
	if i, found := cm.search(code); found {
		return cm.overlay.At(i).glyph
	}
	return nil
}

// HasChar is a predicate: is code mapped by the overlay or covered by the
// faces?
func (cm *CharMap) HasChar(code rune) bool {
	if _, found := cm.search(code); found {
		return true
	}
	return cm.charset.Has(code)
}

// GetCharName returns the Unicode name of the character code is mapped to.
// For remapped codes this is the name of the glyph's code point, not of
// code itself. It returns "" if code is not in the map.
func (cm *CharMap) GetCharName(code rune) string {
	if i, found := cm.search(code); found {
		if g := cm.overlay.At(i).glyph; g != nil && g.Codepoint != 0 {
			return Name(g.Codepoint)
		}
	}
	if cm.charset.Has(code) {
		return Name(code)
	}
	return ""
}

// GetCharNameByIndex returns the name of the index-th covered code, counting
// from 0 in ascending order of code points. Overlay entries are not
// counted.
func (cm *CharMap) GetCharNameByIndex(index int) (string, error) {
	code, ok := cm.charset.Nth(index)
	if !ok {
		return "", core.Error(core.EPARAMETER, "character index %d out of range [0..%d)",
			index, cm.charset.Count())
	}
	return Name(code), nil
}

// MinMappedCode returns the lowest code of either the coverage or the
// overlay. ok is false for an empty map.
func (cm *CharMap) MinMappedCode() (code rune, ok bool) {
	code, ok = cm.charset.Min()
	if cm.overlay.Len() > 0 {
		if c := cm.overlay.At(0).code; !ok || c < code {
			code, ok = c, true
		}
	}
	return
}

// MaxMappedCode returns the highest code of either the coverage or the
// overlay. ok is false for an empty map.
func (cm *CharMap) MaxMappedCode() (code rune, ok bool) {
	code, ok = cm.charset.Max()
	if last, found := cm.overlay.Last(); found {
		if !ok || last.code > code {
			code, ok = last.code, true
		}
	}
	return
}

// Count returns the number of covered codes.
func (cm *CharMap) Count() int {
	return cm.charset.Count()
}

// Charset returns the coverage. Clients must not modify it.
func (cm *CharMap) Charset() *fontdb.Charset {
	return cm.charset
}

// Len returns the number of overlay entries.
func (cm *CharMap) Len() int {
	return cm.overlay.Len()
}

// Codes returns the codes of all overlay entries, in ascending order.
func (cm *CharMap) Codes() []rune {
	codes := make([]rune, cm.overlay.Len())
	for i, e := range cm.overlay.Slice() {
		codes[i] = e.code
	}
	return codes
}

// Forget removes all overlay entries pointing to g. Fonts call this before
// a glyph is destroyed.
func (cm *CharMap) Forget(g *glyph.Glyph) {
	for i := cm.overlay.Len() - 1; i >= 0; i-- {
		if cm.overlay.At(i).glyph == g {
			cm.overlay.Remove(i)
		}
	}
	tracer().Debugf("charmap: forgot %s", g)
}
