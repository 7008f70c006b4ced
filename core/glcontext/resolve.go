package glcontext

import (
	"github.com/npillmayer/glc/core/font"
	"github.com/npillmayer/glc/core/font/master"
)

func lookupFont(fonts []*font.Font, code rune) *font.Font {
	for _, f := range fonts {
		if f.HasChar(code) {
			return f
		}
	}
	return nil
}

// callUnmapped calls the unmapped-code callback, if there is one. The
// callback is not called recursively, nor for codes which are not
// expressible in the current string type.
func (c *Context) callUnmapped(code rune) bool {
	if c.inCallback || c.str.callback == nil || !c.str.stringType.represents(code) {
		return false
	}
	c.inCallback = true
	defer func() { c.inCallback = false }()
	return c.str.callback(c, code)
}

// ResolveFont returns the font to render code with:
//
// 1. the first current font mapping code;
//
// 2. if the unmapped-code callback succeeds, the first current font mapping
// code after the callback;
//
// 3. with auto-font enabled, the first font of the font list mapping code,
// or a new font from the most relevant master covering code. The font is
// appended to the current fonts.
//
// If there is no such font, ResolveFont returns nil. The error reports
// failures while creating a font.
func (c *Context) ResolveFont(code rune) (*font.Font, error) {
	if f := lookupFont(c.currentFonts.Slice(), code); f != nil {
		return f, nil
	}
	if c.callUnmapped(code) {
		if f := lookupFont(c.currentFonts.Slice(), code); f != nil {
			return f, nil
		}
	}
	if !c.enable.autoFont {
		return nil, nil
	}
	if f := lookupFont(c.fontList.Slice(), code); f != nil {
		c.currentFonts.Append(f)
		return f, nil
	}
	m, err := master.MatchCode(c.db, code)
	if err != nil {
		tracer().Debugf("context %d: %v", c.id, err)
		return nil, nil
	}
	id := c.GenFontID()
	f, err := c.newFontFromMaster(id, m, code)
	if err != nil {
		_ = c.DeleteFont(id)
		return nil, err
	}
	c.currentFonts.Append(f)
	tracer().Infof("context %d: font %d created for %#U from %s", c.id, f.ID, code, m)
	return f, nil
}
