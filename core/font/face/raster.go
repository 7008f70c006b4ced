package face

import (
	"image"
	"math"

	"github.com/npillmayer/glc/core"
	"github.com/npillmayer/glc/core/font/glyph"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/vector"
)

// Raster describes how an outline is rasterised into a buffer.
type Raster struct {
	Width  int    // buffer width in pixels; a multiple of 8 for bitmaps
	Height int    // buffer height in pixels
	Box    [4]int // pixel box of the buffer relative to the glyph origin
	Mono   bool   // one bit per pixel
	m      [4]float32
	dx, dy float32
}

// BufferSize returns the number of bytes a buffer for r needs.
func (r *Raster) BufferSize() int {
	if r.Mono {
		return r.Width / 8 * r.Height
	}
	return r.Width * r.Height
}

func nextPowerOf2(v int) int {
	p := 1
	for p < v {
		p <<= 1
	}
	return p
}

func floor(v float32) int { return int(math.Floor(float64(v))) }
func ceil(v float32) int  { return int(math.Ceil(float64(v))) }

// BitmapSize computes the raster for the outline in style s.Style.
//
// Bitmap and pixmap styles map the outline through the bitmap matrix, whose
// entries are pixels per em, and size the buffer tightly. Bitmap rows are
// padded to full bytes.
//
// The texture style sizes a texture holding the glyph centered. With GL
// objects the texture is TextureSize pixels square and the glyph is scaled
// down if it does not fit. Otherwise the texture has the smallest
// power-of-two dimensions leaving a border of at least one pixel, at
// mipmap level factor.
func (o *Outline) BitmapSize(s Settings, factor int) (*Raster, error) {
	r := &Raster{}
	switch {
	case s.Style.IsRaster():
		mx := s.Matrix
		r.m = [4]float32{mx[0] / o.ppem, mx[1] / o.ppem, mx[2] / o.ppem, mx[3] / o.ppem}
		r.Mono = s.Style == glyph.Bitmap
		box := o.transformedBox(r.m)
		r.Box = [4]int{floor(box[0]), floor(box[1]), ceil(box[2]), ceil(box[3])}
		r.Width = (r.Box[2] - r.Box[0] + 7) &^ 7
		r.Height = r.Box[3] - r.Box[1]
		r.dx, r.dy = float32(r.Box[0]), float32(r.Box[1])
	case s.Style == glyph.Texture && s.GLObjects:
		k := TextureSize / o.ppem
		r.m = [4]float32{k, 0, 0, k}
		box := o.transformedBox(r.m)
		w, h := box[2]-box[0], box[3]-box[1]
		ratio := max32(1, max32(w/TextureSize, h/TextureSize))
		if ratio > 1 {
			for i := range r.m {
				r.m[i] /= ratio
			}
			w, h = w/ratio, h/ratio
			box = o.transformedBox(r.m)
		}
		r.Width, r.Height = TextureSize, TextureSize
		r.dx = box[0] - (TextureSize-w)/2
		r.dy = box[1] - (TextureSize-h)/2
		r.Box = [4]int{floor(r.dx), floor(r.dy), floor(r.dx) + TextureSize, floor(r.dy) + TextureSize}
	case s.Style == glyph.Texture:
		k := float32(1) / float32(int(1)<<factor)
		r.m = [4]float32{k, 0, 0, k}
		box := o.transformedBox(r.m)
		x0, y0 := floor(box[0]), floor(box[1])
		w, h := ceil(box[2])-x0, ceil(box[3])-y0
		r.Width, r.Height = nextPowerOf2(w), nextPowerOf2(h)
		if r.Width-w <= 1 {
			r.Width <<= 1
		}
		if r.Height-h <= 1 {
			r.Height <<= 1
		}
		if r.Width < 4 || r.Height < 4 {
			return nil, core.Error(core.ERESOURCE, "glyph #%d too small for a texture", o.Index)
		}
		r.Box[0] = x0 - (r.Width-w)/2
		r.Box[1] = y0 - (r.Height-h)/2
		r.Box[2] = r.Box[0] + r.Width - 1
		r.Box[3] = r.Box[1] + r.Height - 1
		r.dx, r.dy = float32(r.Box[0]), float32(r.Box[1])
	default:
		return nil, core.Error(core.EPARAMETER, "render style %s is not rasterised", s.Style)
	}
	return r, nil
}

// Bitmap rasterises the outline into buf, as described by r. Row 0 of buf
// is the bottom row. Pixmaps and textures get 8 bits of coverage per pixel,
// bitmaps get 1 bit per pixel, most significant bit first.
func (o *Outline) Bitmap(r *Raster, buf []byte) error {
	if len(buf) < r.BufferSize() {
		return core.Error(core.EPARAMETER, "bitmap buffer too small: %d < %d", len(buf), r.BufferSize())
	}
	for i := range buf[:r.BufferSize()] {
		buf[i] = 0
	}
	if r.Width == 0 || r.Height == 0 || o.Empty() {
		return nil
	}
	z := vector.NewRasterizer(r.Width, r.Height)
	h := float32(r.Height)
	xf := func(p point) (float32, float32) {
		x := r.m[0]*p[0] + r.m[2]*p[1] - r.dx
		y := r.m[1]*p[0] + r.m[3]*p[1] - r.dy
		return x, h - y
	}
	open := false
	for _, seg := range o.segs {
		switch seg.op {
		case sfnt.SegmentOpMoveTo:
			if open {
				z.ClosePath()
			}
			z.MoveTo(xf(seg.args[0]))
			open = true
		case sfnt.SegmentOpLineTo:
			z.LineTo(xf(seg.args[0]))
		case sfnt.SegmentOpQuadTo:
			bx, by := xf(seg.args[0])
			cx, cy := xf(seg.args[1])
			z.QuadTo(bx, by, cx, cy)
		case sfnt.SegmentOpCubeTo:
			bx, by := xf(seg.args[0])
			cx, cy := xf(seg.args[1])
			dx, dy := xf(seg.args[2])
			z.CubeTo(bx, by, cx, cy, dx, dy)
		}
	}
	if open {
		z.ClosePath()
	}
	dst := image.NewAlpha(image.Rect(0, 0, r.Width, r.Height))
	z.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})
	for row := 0; row < r.Height; row++ {
		src := dst.Pix[(r.Height-1-row)*dst.Stride:]
		if r.Mono {
			pitch := r.Width / 8
			line := buf[row*pitch : (row+1)*pitch]
			for x := 0; x < r.Width; x++ {
				if src[x] >= 0x80 {
					line[x>>3] |= 0x80 >> (x & 7)
				}
			}
			continue
		}
		copy(buf[row*r.Width:(row+1)*r.Width], src[:r.Width])
	}
	return nil
}
