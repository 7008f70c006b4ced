package glcontext

import (
	"github.com/npillmayer/glc/core"
	"github.com/npillmayer/glc/core/array"
	"github.com/npillmayer/glc/core/font"
	"github.com/npillmayer/glc/core/font/master"
)

func findFont(list *array.Array[*font.Font], id int) int {
	for i, f := range list.Slice() {
		if f.ID == id {
			return i
		}
	}
	return -1
}

// Font returns the font with ID id from the font list.
func (c *Context) Font(id int) (*font.Font, error) {
	if i := findFont(c.fontList, id); i >= 0 {
		return c.fontList.At(i), nil
	}
	return nil, core.Error(core.EPARAMETER, "no font with ID %d", id)
}

// IsFont is a predicate: is id the ID of a font, or reserved by GenFontID?
func (c *Context) IsFont(id int) bool {
	return findFont(c.fontList, id) >= 0 || findFont(c.genFontList, id) >= 0
}

// FontList returns the IDs of all fonts, in creation order.
func (c *Context) FontList() []int {
	ids := make([]int, 0, c.fontList.Len())
	for _, f := range c.fontList.Slice() {
		ids = append(ids, f.ID)
	}
	return ids
}

// CurrentFonts returns the IDs of the current fonts, in fallback order.
func (c *Context) CurrentFonts() []int {
	ids := make([]int, 0, c.currentFonts.Len())
	for _, f := range c.currentFonts.Slice() {
		ids = append(ids, f.ID)
	}
	return ids
}

// GenFontID returns the lowest ID not used by any font and reserves it.
func (c *Context) GenFontID() int {
	id := 1
	for c.IsFont(id) {
		id++
	}
	c.genFontList.Append(font.NewEmpty(id))
	return id
}

// deleteFont removes f from the current fonts and destroys it. f must
// already be removed from the list owning it.
func (c *Context) deleteFont(f *font.Font) {
	if i := c.currentFonts.Index(func(x *font.Font) bool { return x == f }); i >= 0 {
		c.currentFonts.Remove(i)
	}
	f.Destroy(c.backend, c.teardown)
}

// DeleteFont deletes the font with ID id, or releases the reservation of
// id.
func (c *Context) DeleteFont(id int) error {
	if i := findFont(c.fontList, id); i >= 0 {
		f := c.fontList.At(i)
		c.fontList.Remove(i)
		c.deleteFont(f)
		return nil
	}
	if i := findFont(c.genFontList, id); i >= 0 {
		f := c.genFontList.At(i)
		c.genFontList.Remove(i)
		c.deleteFont(f)
		return nil
	}
	return core.Error(core.EPARAMETER, "no font with ID %d", id)
}

// newFontFromMaster replaces any font or reservation with ID id by a new
// font from m. If code is not 0, the font's face covers code.
func (c *Context) newFontFromMaster(id int, m *master.Master, code rune) (*font.Font, error) {
	f, err := font.New(id, m, code, c.resources())
	if err != nil {
		return nil, err
	}
	if i := findFont(c.fontList, id); i >= 0 {
		old := c.fontList.At(i)
		c.fontList.Remove(i)
		c.deleteFont(old)
	} else if i := findFont(c.genFontList, id); i >= 0 {
		old := c.genFontList.At(i)
		c.genFontList.Remove(i)
		c.deleteFont(old)
	}
	c.fontList.Append(f)
	return f, nil
}

// NewFontFromMaster creates a font with ID id from the master with ID
// masterID. An existing font with ID id is deleted first.
func (c *Context) NewFontFromMaster(id, masterID int) (int, error) {
	if id < 1 {
		return 0, core.Error(core.EPARAMETER, "font ID must be positive, is %d", id)
	}
	m, err := master.Resolve(c, masterID)
	if err != nil {
		return 0, err
	}
	f, err := c.newFontFromMaster(id, m, 0)
	if err != nil {
		return 0, err
	}
	return f.ID, nil
}

// NewFontFromFamily creates a font with ID id from the first master of
// family family. An existing font with ID id is deleted first.
func (c *Context) NewFontFromFamily(id int, family string) (int, error) {
	if id < 1 {
		return 0, core.Error(core.EPARAMETER, "font ID must be positive, is %d", id)
	}
	m, err := master.FromFamily(c.db, family)
	if err != nil {
		return 0, err
	}
	f, err := c.newFontFromMaster(id, m, 0)
	if err != nil {
		return 0, err
	}
	return f.ID, nil
}

// AppendFont appends font id to the current fonts.
func (c *Context) AppendFont(id int) error {
	f, err := c.Font(id)
	if err != nil {
		return err
	}
	if c.currentFonts.Index(func(x *font.Font) bool { return x == f }) >= 0 {
		return core.Error(core.EPARAMETER, "font %d is already current", id)
	}
	c.currentFonts.Append(f)
	return nil
}

// SetFont makes font id the only current font. id 0 empties the current
// font list.
func (c *Context) SetFont(id int) error {
	if id == 0 {
		c.currentFonts.Reset()
		return nil
	}
	f, err := c.Font(id)
	if err != nil {
		return err
	}
	c.currentFonts.Reset()
	c.currentFonts.Append(f)
	return nil
}

// FontFace switches font id to the face named face and reports whether a
// font was switched. For id 0 every current font is switched, provided all
// of them have such a face; otherwise none is. An empty current font list
// switches nothing and is not an error.
func (c *Context) FontFace(id int, faceName string) (bool, error) {
	res := c.resources()
	if id != 0 {
		f, err := c.Font(id)
		if err != nil {
			return false, err
		}
		if err = f.SetFace(faceName, res); err != nil {
			return false, err
		}
		return true, nil
	}
	current := c.currentFonts.Slice()
	if len(current) == 0 {
		return false, nil
	}
	for _, f := range current {
		m := master.FromKey(f.MasterKey())
		if !hasFace(m.FaceNames(c.db), faceName) {
			return false, core.Error(core.EPARAMETER, "font %d has no face %q", f.ID, faceName)
		}
	}
	for _, f := range current {
		if err := f.SetFace(faceName, res); err != nil {
			return false, err
		}
	}
	return true, nil
}

func hasFace(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// FontMap maps code in font id to the character named name. An empty name
// removes the mapping of code.
func (c *Context) FontMap(id int, code rune, name string) error {
	if code < 0 {
		return core.Error(core.EPARAMETER, "negative character code %d", code)
	}
	f, err := c.Font(id)
	if err != nil {
		return err
	}
	return f.Map(code, name)
}

// FontFaceName returns the style of the current face of font id.
func (c *Context) FontFaceName(id int) (string, error) {
	f, err := c.Font(id)
	if err != nil {
		return "", err
	}
	return f.FaceName(), nil
}

// FontFaces returns the styles of all faces of font id's master.
func (c *Context) FontFaces(id int) ([]string, error) {
	f, err := c.Font(id)
	if err != nil {
		return nil, err
	}
	return master.FromKey(f.MasterKey()).FaceNames(c.db), nil
}

// FontInfo describes a font.
type FontInfo struct {
	ID            int
	Family        string
	Face          string
	Master        int // ID of the font's master, -1 if it has vanished
	CharCount     int
	FixedPitch    bool
	MinMappedCode rune
	MaxMappedCode rune
	FaceCount     int
}

// FontInfo returns a description of font id.
func (c *Context) FontInfo(id int) (FontInfo, error) {
	f, err := c.Font(id)
	if err != nil {
		return FontInfo{ID: id}, err
	}
	m := master.FromKey(f.MasterKey())
	info := FontInfo{
		ID:         id,
		Family:     m.Family(),
		Face:       f.FaceName(),
		Master:     -1,
		CharCount:  f.CharMap().Count(),
		FixedPitch: m.IsFixedPitch(),
		FaceCount:  m.FaceCount(c.db),
	}
	for i, h := range c.masters.Slice() {
		if h == f.MasterHash() {
			info.Master = i
		}
	}
	info.MinMappedCode, _ = f.CharMap().MinMappedCode()
	info.MaxMappedCode, _ = f.CharMap().MaxMappedCode()
	return info, nil
}
