package glcontext

import (
	"fmt"

	"github.com/npillmayer/glc/core"
	"github.com/npillmayer/glc/core/font/face"
	"github.com/npillmayer/glc/core/font/glyph"
)

// Capability is a boolean variable of a context, switched by Enable and
// Disable.
type Capability int

const (
	AutoFont  Capability = 0x0010
	GLObjects Capability = 0x0011
	Mipmap    Capability = 0x0012
	Hinting   Capability = 0x8005
	Extrude   Capability = 0x8006
	Kerning   Capability = 0x8007
)

func (c Capability) String() string {
	switch c {
	case AutoFont:
		return "auto-font"
	case GLObjects:
		return "gl-objects"
	case Mipmap:
		return "mipmap"
	case Hinting:
		return "hinting"
	case Extrude:
		return "extrude"
	case Kerning:
		return "kerning"
	}
	return fmt.Sprintf("capability(%#x)", int(c))
}

// StringType is the encoding clients pass character codes in.
type StringType int

const (
	UCS1 StringType = 0x0110
	UCS2 StringType = 0x0111
	UCS4 StringType = 0x0112
	UTF8 StringType = 0x0109
)

// represents reports whether code can be expressed in string type t.
func (t StringType) represents(code rune) bool {
	switch t {
	case UCS1:
		return code >= 0 && code <= 0xFF
	case UCS2:
		return code >= 0 && code <= 0xFFFF
	}
	return code >= 0
}

// UnmappedFunc is called when no current font maps a code. It should
// append a font mapping code to the current font list and return true if it
// did so.
type UnmappedFunc func(ctx *Context, code rune) bool

type enableState struct {
	autoFont, glObjects, mipmap bool
	hinting, extrude, kerning   bool
}

type renderState struct {
	resolution float32
	style      glyph.RenderStyle
	tolerance  float32
}

type stringState struct {
	callback    UnmappedFunc
	data        interface{}
	stringType  StringType
	replacement rune
}

// AttribMask selects groups of state variables for PushAttrib.
type AttribMask uint

const (
	EnableBit     AttribMask = 0x0001
	RenderBit     AttribMask = 0x0002
	StringBit     AttribMask = 0x0004
	GLBit         AttribMask = 0x0008
	AllAttribBits AttribMask = 0xFFFF
)

type attribLevel struct {
	mask   AttribMask
	enable enableState
	render renderState
	str    stringState
	matrix [4]float32
}

func (c *Context) initState() {
	c.enable = enableState{autoFont: true, glObjects: true, mipmap: true}
	c.render = renderState{resolution: 72, style: glyph.Bitmap, tolerance: 0.005}
	c.str = stringState{stringType: UCS1}
	c.matrix = [4]float32{1, 0, 0, 1}
}

func (c *Context) capability(cap Capability) (*bool, error) {
	switch cap {
	case AutoFont:
		return &c.enable.autoFont, nil
	case GLObjects:
		return &c.enable.glObjects, nil
	case Mipmap:
		return &c.enable.mipmap, nil
	case Hinting:
		return &c.enable.hinting, nil
	case Extrude:
		return &c.enable.extrude, nil
	case Kerning:
		return &c.enable.kerning, nil
	}
	return nil, core.Error(core.EPARAMETER, "unknown capability %s", cap)
}

// Enable switches a capability on.
func (c *Context) Enable(cap Capability) error {
	v, err := c.capability(cap)
	if err != nil {
		return err
	}
	*v = true
	return nil
}

// Disable switches a capability off.
func (c *Context) Disable(cap Capability) error {
	v, err := c.capability(cap)
	if err != nil {
		return err
	}
	*v = false
	return nil
}

// IsEnabled is a predicate: is cap switched on? Unknown capabilities are
// off.
func (c *Context) IsEnabled(cap Capability) bool {
	v, err := c.capability(cap)
	return err == nil && *v
}

// Resolution returns the device resolution in dpi.
func (c *Context) Resolution() float32 {
	return c.render.resolution
}

// SetResolution sets the device resolution in dpi. 0 selects 72 dpi.
// Changing the resolution invalidates the maximum metrics of all fonts.
func (c *Context) SetResolution(dpi float32) error {
	if dpi < 0 {
		return core.Error(core.EPARAMETER, "resolution must not be negative, is %g", dpi)
	}
	if dpi == 0 {
		dpi = 72
	}
	if dpi != c.render.resolution {
		c.render.resolution = dpi
		c.invalidateMetrics()
	}
	return nil
}

func (c *Context) invalidateMetrics() {
	for _, f := range c.fontList.Slice() {
		f.InvalidateMaxMetric()
	}
}

// RenderStyle returns the current render style.
func (c *Context) RenderStyle() glyph.RenderStyle {
	return c.render.style
}

// SetRenderStyle sets the render style.
func (c *Context) SetRenderStyle(style glyph.RenderStyle) error {
	switch style {
	case glyph.Bitmap, glyph.Line, glyph.Texture, glyph.Triangle, glyph.Pixmap:
		c.render.style = style
		return nil
	}
	return core.Error(core.EPARAMETER, "unknown render style %s", style)
}

// Tolerance returns the parametric tolerance for flattening outlines.
func (c *Context) Tolerance() float32 {
	return c.render.tolerance
}

// SetTolerance sets the parametric tolerance for flattening outlines.
func (c *Context) SetTolerance(t float32) error {
	if t < 0 {
		return core.Error(core.EPARAMETER, "tolerance must not be negative, is %g", t)
	}
	c.render.tolerance = t
	return nil
}

// StringType returns the encoding of client character codes.
func (c *Context) StringType() StringType {
	return c.str.stringType
}

// SetStringType sets the encoding of client character codes.
func (c *Context) SetStringType(t StringType) error {
	switch t {
	case UCS1, UCS2, UCS4, UTF8:
		c.str.stringType = t
		return nil
	}
	return core.Error(core.EPARAMETER, "unknown string type %#x", int(t))
}

// ReplacementCode returns the code rendered in place of unmapped codes.
func (c *Context) ReplacementCode() rune {
	return c.str.replacement
}

// SetReplacementCode sets the code rendered in place of unmapped codes.
func (c *Context) SetReplacementCode(code rune) {
	c.str.replacement = code
}

// SetUnmappedCallback sets the function called by ResolveFont for codes no
// current font maps. nil removes the callback.
func (c *Context) SetUnmappedCallback(fn UnmappedFunc) {
	c.str.callback = fn
}

// DataPointer returns the client data set with SetDataPointer.
func (c *Context) DataPointer() interface{} {
	return c.str.data
}

// SetDataPointer stores client data with the context, e.g. for use by the
// unmapped-code callback.
func (c *Context) SetDataPointer(data interface{}) {
	c.str.data = data
}

// BitmapMatrix returns the bitmap matrix, column major.
func (c *Context) BitmapMatrix() [4]float32 {
	return c.matrix
}

// SetBitmapMatrix sets the bitmap matrix, column major. Its entries are
// pixels per em.
func (c *Context) SetBitmapMatrix(m [4]float32) {
	c.matrix = m
}

// Settings returns the parts of the state glyph extraction depends on.
func (c *Context) Settings() face.Settings {
	return face.Settings{
		GLObjects:  c.enable.glObjects,
		Hinting:    c.enable.hinting,
		Resolution: c.render.resolution,
		Tolerance:  c.render.tolerance,
		Style:      c.render.style,
		Matrix:     c.matrix,
	}
}

// --- Attribute stack -------------------------------------------------------

// AttribStackDepth returns the number of pushed attribute levels.
func (c *Context) AttribStackDepth() int {
	return len(c.attribStack)
}

// MaxAttribStackDepth returns the capacity of the attribute stack.
func (c *Context) MaxAttribStackDepth() int {
	return c.maxAttribDepth
}

// PushAttrib saves the state variable groups selected by mask.
func (c *Context) PushAttrib(mask AttribMask) error {
	if len(c.attribStack) >= c.maxAttribDepth {
		return core.Error(core.ESTACKOVERFLOW, "attribute stack depth %d exceeded", c.maxAttribDepth)
	}
	level := attribLevel{}
	if mask&EnableBit != 0 {
		level.enable = c.enable
		level.mask |= EnableBit
	}
	if mask&RenderBit != 0 {
		level.render = c.render
		level.mask |= RenderBit
	}
	if mask&StringBit != 0 {
		level.str = c.str
		level.mask |= StringBit
	}
	if mask&GLBit != 0 {
		level.matrix = c.matrix
		level.mask |= GLBit
	}
	c.attribStack = append(c.attribStack, level)
	return nil
}

// PopAttrib restores the state variables saved by the last PushAttrib.
// Variables not saved remain unchanged.
func (c *Context) PopAttrib() error {
	n := len(c.attribStack)
	if n == 0 {
		return core.Error(core.ESTACKUNDERFLOW, "attribute stack is empty")
	}
	level := c.attribStack[n-1]
	c.attribStack = c.attribStack[:n-1]
	if level.mask&EnableBit != 0 {
		c.enable = level.enable
	}
	if level.mask&RenderBit != 0 {
		if level.render.resolution != c.render.resolution {
			c.render = level.render
			c.invalidateMetrics()
		}
		c.render = level.render
	}
	if level.mask&StringBit != 0 {
		c.str = level.str
	}
	if level.mask&GLBit != 0 {
		c.matrix = level.matrix
	}
	return nil
}
