package face

import (
	"math"

	"github.com/npillmayer/glc/core"
	"github.com/npillmayer/glc/core/array"
	"golang.org/x/image/font/sfnt"
)

type point [2]float32

type segment struct {
	op   sfnt.SegmentOp
	args [3]point
}

// Outline is the outline of a glyph, loaded at a given scale. Coordinates
// are pixels at that scale, with the Y axis pointing up.
type Outline struct {
	Index     uint16
	ppem      float32 // pixels per em, horizontally
	glObjects bool
	segs      []segment
}

// LoadOutline loads the outline of glyph inx at scale (sx, sy).
func (d *Descriptor) LoadOutline(inx uint16, sx, sy float32, s Settings) (*Outline, error) {
	if err := checkScale(sx, sy); err != nil {
		return nil, err
	}
	f, err := d.Open()
	if err != nil {
		return nil, err
	}
	defer d.Close()
	segs, err := d.load(f, inx, sx, s)
	if err != nil {
		return nil, err
	}
	o := &Outline{
		Index:     inx,
		ppem:      float32(s.ppem(sx)) / 64,
		glObjects: s.GLObjects,
		segs:      make([]segment, len(segs)),
	}
	ry := sy / sx // sfnt scales both axes by the same ppem
	for i, seg := range segs {
		o.segs[i].op = seg.Op
		for j, a := range seg.Args {
			o.segs[i].args[j] = point{float32(a.X) / 64, -float32(a.Y) / 64 * ry}
		}
	}
	return o, nil
}

// Empty is a predicate: does the outline have no contours? Glyphs with
// empty outlines are spacing characters.
func (o *Outline) Empty() bool {
	return len(o.segs) == 0
}

// ControlBox returns the bounding box of all points of the outline,
// including control points, as xMin, yMin, xMax, yMax.
func (o *Outline) ControlBox() [4]float32 {
	return o.transformedBox([4]float32{1, 0, 0, 1})
}

func (o *Outline) transformedBox(m [4]float32) [4]float32 {
	if o.Empty() {
		return [4]float32{}
	}
	box := [4]float32{math.MaxFloat32, math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32}
	for _, seg := range o.segs {
		for _, p := range seg.args[:argCount(seg.op)] {
			x := m[0]*p[0] + m[2]*p[1]
			y := m[1]*p[0] + m[3]*p[1]
			box[0] = min32(box[0], x)
			box[1] = min32(box[1], y)
			box[2] = max32(box[2], x)
			box[3] = max32(box[3], y)
		}
	}
	return box
}

// --- Decomposition ---------------------------------------------------------

// maxSubdivision limits the recursion depth of curve flattening.
const maxSubdivision = 16

// RendererData receives flattened outlines. It is usually held by a
// context and re-used for every glyph.
type RendererData struct {
	Vertices  *array.Array[[2]float32]
	Contours  *array.Array[int] // index of the first vertex of every contour
	Tolerance float32           // maximum chordal distance of flattened curves
	Limit     int               // if > 0, the maximum number of vertices
	tol       float32
}

// NewRendererData creates empty vertex and contour buffers.
func NewRendererData(tolerance float32) *RendererData {
	return &RendererData{
		Vertices:  array.New[[2]float32](256),
		Contours:  array.New[int](16),
		Tolerance: tolerance,
	}
}

// Reset empties the buffers, keeping their capacity.
func (data *RendererData) Reset() {
	data.Vertices.Reset()
	data.Contours.Reset()
}

func (data *RendererData) emit(p point) bool {
	if data.Limit > 0 && data.Vertices.Len() >= data.Limit {
		return false
	}
	data.Vertices.Append([2]float32(p))
	return true
}

// Decompose flattens the outline into data. Every segment contributes its
// start point; curves are subdivided (de Casteljau) until their control
// points lie within the tolerance from the chord. Contours are closed, so
// the end point of a contour is the start point of its first segment.
//
// With GL objects, the tolerance is relative to 1 em, otherwise it is in
// pixels. If decomposition fails, data is reset.
func (o *Outline) Decompose(data *RendererData) error {
	data.tol = data.Tolerance
	if o.glObjects {
		data.tol *= o.ppem
	}
	var pen point
	ok := true
	for _, seg := range o.segs {
		switch seg.op {
		case sfnt.SegmentOpMoveTo:
			data.Contours.Append(data.Vertices.Len())
		case sfnt.SegmentOpLineTo:
			ok = data.emit(pen)
		case sfnt.SegmentOpQuadTo:
			a, c, b := pen, seg.args[0], seg.args[1]
			// degree elevation to a cubic
			c1 := point{a[0] + 2*(c[0]-a[0])/3, a[1] + 2*(c[1]-a[1])/3}
			c2 := point{b[0] + 2*(c[0]-b[0])/3, b[1] + 2*(c[1]-b[1])/3}
			ok = data.cubic(a, c1, c2, b, 0)
		case sfnt.SegmentOpCubeTo:
			ok = data.cubic(pen, seg.args[0], seg.args[1], seg.args[2], 0)
		}
		if !ok {
			data.Reset()
			return core.Error(core.ERESOURCE, "vertex buffer exhausted decomposing glyph #%d", o.Index)
		}
		pen = seg.args[argCount(seg.op)-1]
	}
	data.Contours.Append(data.Vertices.Len())
	return nil
}

func (data *RendererData) cubic(a, c1, c2, b point, depth int) bool {
	if depth >= maxSubdivision || (chordal(a, b, c1) <= data.tol && chordal(a, b, c2) <= data.tol) {
		return data.emit(a)
	}
	ab, bc, cd := mid(a, c1), mid(c1, c2), mid(c2, b)
	abc, bcd := mid(ab, bc), mid(bc, cd)
	m := mid(abc, bcd)
	return data.cubic(a, ab, abc, m, depth+1) && data.cubic(m, bcd, cd, b, depth+1)
}

// chordal returns the distance of p from the chord ab.
func chordal(a, b, p point) float32 {
	dx, dy := b[0]-a[0], b[1]-a[1]
	l2 := dx*dx + dy*dy
	px, py := p[0]-a[0], p[1]-a[1]
	if l2 == 0 {
		return float32(math.Sqrt(float64(px*px + py*py)))
	}
	cross := dx*py - dy*px
	return float32(math.Abs(float64(cross)) / math.Sqrt(float64(l2)))
}

func argCount(op sfnt.SegmentOp) int {
	switch op {
	case sfnt.SegmentOpQuadTo:
		return 2
	case sfnt.SegmentOpCubeTo:
		return 3
	}
	return 1
}

func mid(p, q point) point {
	return point{(p[0] + q[0]) / 2, (p[1] + q[1]) / 2}
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
