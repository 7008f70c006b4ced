package glyph

import (
	"github.com/npillmayer/glc/core"
)

// Backend creates and releases the GL objects of glyphs. A context selects
// one backend at creation time, depending on the capabilities of the GL
// driver.
type Backend interface {
	Name() string
	// Prepare creates the GL objects to draw g in style, from geom.
	// It is a no-op if the objects exist already.
	Prepare(g *Glyph, style RenderStyle, geom *Geometry) error
	// Has is a predicate: does g own GL objects for style?
	Has(g *Glyph, style RenderStyle) bool
	// Release deletes all GL objects of g.
	Release(g *Glyph)
}

// NewBackend returns the buffer-object backend if bufferObjects is set, and
// the display-list backend otherwise. If gl is nil, a Recorder is used.
func NewBackend(bufferObjects bool, gl Objects) Backend {
	if gl == nil {
		gl = NewRecorder()
	}
	if bufferObjects {
		return &BufferObjects{gl: gl}
	}
	return &DisplayLists{gl: gl}
}

func checkStyle(g *Glyph, style RenderStyle) (int, error) {
	if g == nil {
		return -1, core.Error(core.EPARAMETER, "no glyph to prepare")
	}
	slot := objectSlot(style)
	if slot < 0 {
		return -1, core.Error(core.EPARAMETER, "render style %s uses no GL objects", style)
	}
	return slot, nil
}

func prepareTexture(gl Objects, g *Glyph, geom *Geometry) error {
	if g.texture != 0 {
		return nil
	}
	if geom == nil || geom.Width == 0 || geom.Height == 0 {
		return core.Error(core.EPARAMETER, "no bitmap for texture of %s", g)
	}
	ids := gl.GenTextures(1)
	if len(ids) == 0 {
		return core.Error(core.ERESOURCE, "cannot create texture for %s", g)
	}
	g.texture = ids[0]
	return nil
}

// --- Display lists ---------------------------------------------------------

// DisplayLists stores one display list per glyph and render style.
type DisplayLists struct {
	gl Objects
}

// Name returns "display-lists".
func (dl *DisplayLists) Name() string { return "display-lists" }

// Prepare compiles a display list for g in style.
func (dl *DisplayLists) Prepare(g *Glyph, style RenderStyle, geom *Geometry) error {
	slot, err := checkStyle(g, style)
	if err != nil {
		return err
	}
	if g.lists[slot] != 0 {
		return nil
	}
	if style == Texture {
		if err := prepareTexture(dl.gl, g, geom); err != nil {
			return err
		}
	}
	list := dl.gl.GenLists(1)
	if list == 0 {
		return core.Error(core.ERESOURCE, "cannot create display list for %s", g)
	}
	g.lists[slot] = list
	tracer().Debugf("%s: display list %d for style %s", g, list, style)
	return nil
}

// Has is a predicate: has a display list for style been compiled?
func (dl *DisplayLists) Has(g *Glyph, style RenderStyle) bool {
	slot := objectSlot(style)
	return g != nil && slot >= 0 && g.lists[slot] != 0
}

// Release deletes the display lists and the texture of g.
func (dl *DisplayLists) Release(g *Glyph) {
	for i, list := range g.lists {
		if list != 0 {
			dl.gl.DeleteLists(list, 1)
			g.lists[i] = 0
		}
	}
	if g.texture != 0 {
		dl.gl.DeleteTextures([]uint32{g.texture})
		g.texture = 0
	}
}

// --- Buffer objects --------------------------------------------------------

// BufferObjects stores a vertex buffer per glyph, plus an index buffer for
// filled styles. The geometry is kept with the glyph: draw calls are issued
// per contour, which needs the contour table.
type BufferObjects struct {
	gl Objects
}

// Name returns "buffer-objects".
func (bo *BufferObjects) Name() string { return "buffer-objects" }

// Prepare uploads the geometry of g for style.
func (bo *BufferObjects) Prepare(g *Glyph, style RenderStyle, geom *Geometry) error {
	slot, err := checkStyle(g, style)
	if err != nil {
		return err
	}
	if g.hasBuffers[slot] {
		return nil
	}
	if style == Texture {
		if err := prepareTexture(bo.gl, g, geom); err != nil {
			return err
		}
		g.hasBuffers[slot] = true
		return nil
	}
	if geom == nil {
		return core.Error(core.EPARAMETER, "no geometry for %s", g)
	}
	n := 0
	if len(g.buffers) == 0 {
		n++ // vertex buffer, shared by line and triangle styles
	}
	if style == Triangle {
		n++ // index buffer
	}
	if n > 0 {
		ids := bo.gl.GenBuffers(n)
		if len(ids) != n {
			return core.Error(core.ERESOURCE, "cannot create buffer objects for %s", g)
		}
		g.buffers = append(g.buffers, ids...)
	}
	if g.geometry == nil {
		g.geometry = geom.duplicate()
	}
	g.hasBuffers[slot] = true
	tracer().Debugf("%s: buffers %v for style %s", g, g.buffers, style)
	return nil
}

// Has is a predicate: have buffers for style been uploaded?
func (bo *BufferObjects) Has(g *Glyph, style RenderStyle) bool {
	slot := objectSlot(style)
	return g != nil && slot >= 0 && g.hasBuffers[slot]
}

// Release deletes the buffer objects and the texture of g and drops the
// geometry.
func (bo *BufferObjects) Release(g *Glyph) {
	if len(g.buffers) > 0 {
		bo.gl.DeleteBuffers(g.buffers)
		g.buffers = nil
	}
	if g.texture != 0 {
		bo.gl.DeleteTextures([]uint32{g.texture})
		g.texture = 0
	}
	g.geometry = nil
	g.hasBuffers = [slotCount]bool{}
}

var _ Backend = (*DisplayLists)(nil)
var _ Backend = (*BufferObjects)(nil)
