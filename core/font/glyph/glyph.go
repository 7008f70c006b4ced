package glyph

import "fmt"

// RenderStyle selects how glyphs are drawn.
type RenderStyle int

// Render styles. Values follow the GLC enumerants.
const (
	Bitmap   RenderStyle = 0x0100
	Line     RenderStyle = 0x0101
	Texture  RenderStyle = 0x0102
	Triangle RenderStyle = 0x0103
	Pixmap   RenderStyle = 0x0104 // 8-bit anti-aliased bitmap
)

func (s RenderStyle) String() string {
	switch s {
	case Bitmap:
		return "bitmap"
	case Line:
		return "line"
	case Texture:
		return "texture"
	case Triangle:
		return "triangle"
	case Pixmap:
		return "pixmap"
	}
	return fmt.Sprintf("style(%#x)", int(s))
}

// IsRaster is a predicate: is the style drawn from a bitmap in screen
// coordinates?
func (s RenderStyle) IsRaster() bool {
	return s == Bitmap || s == Pixmap
}

// objectSlot returns the slot a style's GL object is stored in, or -1 for
// styles drawn without GL objects.
func objectSlot(s RenderStyle) int {
	switch s {
	case Line:
		return 0
	case Texture:
		return 1
	case Triangle:
		return 2
	}
	return -1
}

const slotCount = 3

// Glyph is a glyph of a face, requested for a Unicode code point.
type Glyph struct {
	Index     uint16 // glyph index in the face
	Codepoint rune   // code point the glyph has been created for
	IsSpacing bool   // glyph has an empty outline, e.g. SPACE

	metrics    bool       // bbox and advance are valid
	metricsAt  [2]float32 // scale the metrics were computed for
	bbox       [4]float32 // xMin, yMin, xMax, yMax
	advance    [2]float32
	lists      [slotCount]uint32 // display lists, per slot
	texture    uint32            // texture object
	buffers    []uint32          // vertex (and index) buffer objects
	geometry   *Geometry         // geometry to re-issue draw calls
	hasBuffers [slotCount]bool
}

// New creates a glyph for glyph index inx, requested for code.
func New(inx uint16, code rune) *Glyph {
	return &Glyph{Index: inx, Codepoint: code}
}

func (g *Glyph) String() string {
	return fmt.Sprintf("glyph(#%d, %#U)", g.Index, g.Codepoint)
}

// Metrics returns the cached bounding box and advance, if they have been
// stored for the scale (sx, sy).
func (g *Glyph) Metrics(sx, sy float32) (bbox [4]float32, advance [2]float32, ok bool) {
	if !g.metrics || g.metricsAt != [2]float32{sx, sy} {
		return bbox, advance, false
	}
	return g.bbox, g.advance, true
}

// StoreMetrics caches a bounding box and an advance for scale (sx, sy).
func (g *Glyph) StoreMetrics(sx, sy float32, bbox [4]float32, advance [2]float32) {
	g.metrics = true
	g.metricsAt = [2]float32{sx, sy}
	g.bbox, g.advance = bbox, advance
}

// InvalidateMetrics drops cached metrics.
func (g *Glyph) InvalidateMetrics() {
	g.metrics = false
}

// DisplayList returns the display list stored for style, or 0.
func (g *Glyph) DisplayList(style RenderStyle) uint32 {
	if slot := objectSlot(style); slot >= 0 {
		return g.lists[slot]
	}
	return 0
}

// TextureObject returns the texture object of the glyph, or 0.
func (g *Glyph) TextureObject() uint32 {
	return g.texture
}

// Buffers returns the buffer objects of the glyph.
func (g *Glyph) Buffers() []uint32 {
	return g.buffers
}

// Geometry returns the geometry kept for re-issuing draw calls, or nil.
func (g *Glyph) Geometry() *Geometry {
	return g.geometry
}

// Geometry is the flattened outline or bitmap of a glyph, handed to a
// backend to create GL objects from.
type Geometry struct {
	Vertices [][2]float32 // flattened outline vertices
	Contours []int        // start index of every contour, plus len(Vertices)
	Bitmap   []byte       // rasterised glyph for texture styles
	Width    int          // bitmap width in pixels
	Height   int          // bitmap height in pixels
}

// ContourCount returns the number of contours.
func (geom *Geometry) ContourCount() int {
	if len(geom.Contours) == 0 {
		return 0
	}
	return len(geom.Contours) - 1
}

func (geom *Geometry) duplicate() *Geometry {
	d := &Geometry{Width: geom.Width, Height: geom.Height}
	d.Vertices = append([][2]float32(nil), geom.Vertices...)
	d.Contours = append([]int(nil), geom.Contours...)
	return d
}
