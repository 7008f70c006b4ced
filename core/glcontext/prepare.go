package glcontext

import (
	"github.com/npillmayer/glc/core"
	"github.com/npillmayer/glc/core/font/face"
	"github.com/npillmayer/glc/core/font/glyph"
)

// PrepareGlyph creates the GL objects to draw code of font fontID in
// style. Outline styles are flattened into the context's scratch arrays,
// the texture style is rasterised. Objects are created once per glyph and
// style.
func (c *Context) PrepareGlyph(fontID int, code rune, style glyph.RenderStyle) error {
	if !c.enable.glObjects {
		return core.Error(core.EPARAMETER, "GL objects are disabled")
	}
	f, err := c.Font(fontID)
	if err != nil {
		return err
	}
	g, err := f.GetGlyph(code)
	if err != nil {
		return err
	}
	if g == nil {
		return core.Error(core.EPARAMETER, "font %d does not map %#U", fontID, code)
	}
	if c.backend.Has(g, style) {
		return nil
	}
	s := c.Settings()
	s.Style = style
	outline, err := f.Face().LoadOutline(g.Index, face.PointSize, face.PointSize, s)
	if err != nil {
		return err
	}
	geom := &glyph.Geometry{}
	switch style {
	case glyph.Line, glyph.Triangle:
		c.scratch.Reset()
		c.scratch.Tolerance = s.Tolerance
		if err := outline.Decompose(c.scratch); err != nil {
			return err
		}
		geom.Vertices = c.scratch.Vertices.Slice()
		geom.Contours = c.scratch.Contours.Slice()
	case glyph.Texture:
		r, err := outline.BitmapSize(s, 0)
		if err != nil {
			return err
		}
		geom.Bitmap = make([]byte, r.BufferSize())
		if err := outline.Bitmap(r, geom.Bitmap); err != nil {
			return err
		}
		geom.Width, geom.Height = r.Width, r.Height
	default:
		return core.Error(core.EPARAMETER, "render style %s uses no GL objects", style)
	}
	if err := c.backend.Prepare(g, style, geom); err != nil {
		return err
	}
	tracer().Debugf("context %d: %s prepared for %s", c.id, g, style)
	return nil
}
