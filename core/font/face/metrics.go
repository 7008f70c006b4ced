package face

import (
	"errors"

	"github.com/npillmayer/glc/core"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

func to(v fixed.Int26_6, scale float32) float32 {
	return float32(v) / 64 / scale
}

func checkScale(sx, sy float32) error {
	if sx <= 0 || sy <= 0 {
		return core.Error(core.EPARAMETER, "invalid scale (%g, %g)", sx, sy)
	}
	return nil
}

// load loads the outline of glyph inx for scale sx. The face must be open.
func (d *Descriptor) load(f *sfnt.Font, inx uint16, sx float32, s Settings) (sfnt.Segments, error) {
	segs, err := f.LoadGlyph(&d.buf, sfnt.GlyphIndex(inx), s.ppem(sx), nil)
	if err != nil {
		return nil, core.WrapError(err, core.ERESOURCE, "cannot load glyph #%d of %s", inx, d)
	}
	return segs, nil
}

// BoundingBox returns the control box of glyph inx at scale (sx, sy), as
// xMin, yMin, xMax, yMax.
func (d *Descriptor) BoundingBox(inx uint16, sx, sy float32, s Settings) ([4]float32, error) {
	var bbox [4]float32
	if err := checkScale(sx, sy); err != nil {
		return bbox, err
	}
	f, err := d.Open()
	if err != nil {
		return bbox, err
	}
	defer d.Close()
	segs, err := d.load(f, inx, sx, s)
	if err != nil {
		return bbox, err
	}
	if len(segs) == 0 {
		return bbox, nil
	}
	b := segs.Bounds() // Y axis down
	bbox[0] = to(b.Min.X, sx)
	bbox[1] = to(-b.Max.Y, sy)
	bbox[2] = to(b.Max.X, sx)
	bbox[3] = to(-b.Min.Y, sy)
	return bbox, nil
}

// Advance returns the advance vector of glyph inx at scale (sx, sy).
func (d *Descriptor) Advance(inx uint16, sx, sy float32, s Settings) ([2]float32, error) {
	var adv [2]float32
	if err := checkScale(sx, sy); err != nil {
		return adv, err
	}
	f, err := d.Open()
	if err != nil {
		return adv, err
	}
	defer d.Close()
	a, err := f.GlyphAdvance(&d.buf, sfnt.GlyphIndex(inx), s.ppem(sx), s.hinting())
	if err != nil {
		return adv, core.WrapError(err, core.ERESOURCE, "no advance for glyph #%d of %s", inx, d)
	}
	adv[0] = to(a, sx)
	return adv, nil
}

// Kerning returns the kerning vector between glyphs prev and inx at scale
// (sx, sy). Faces without kerning information yield a zero vector.
func (d *Descriptor) Kerning(inx, prev uint16, sx, sy float32, s Settings) ([2]float32, error) {
	var kern [2]float32
	if err := checkScale(sx, sy); err != nil {
		return kern, err
	}
	f, err := d.Open()
	if err != nil {
		return kern, err
	}
	defer d.Close()
	k, err := f.Kern(&d.buf, sfnt.GlyphIndex(prev), sfnt.GlyphIndex(inx), s.ppem(sx), s.hinting())
	if errors.Is(err, sfnt.ErrNotFound) {
		return kern, nil
	} else if err != nil {
		return kern, core.WrapError(err, core.ERESOURCE, "no kerning for glyphs #%d/#%d", prev, inx)
	}
	kern[0] = to(k, sx)
	return kern, nil
}

// MaxMetric returns face-wide extreme values, relative to 1 em and
// multiplied by resolution/72:
//
//	[0] maximum horizontal advance
//	[1] maximum vertical advance (line height)
//	[2] yMax, [3] yMin, [4] xMax, [5] xMin of the face's bounding box
//
// The maximum horizontal advance is computed over all glyphs.
func (d *Descriptor) MaxMetric(s Settings) ([6]float32, error) {
	var mm [6]float32
	f, err := d.Open()
	if err != nil {
		return mm, err
	}
	defer d.Close()
	upem := fixed.I(int(f.UnitsPerEm()))
	scale := float32(s.resolution()) / 72 / float32(f.UnitsPerEm())
	units := func(v fixed.Int26_6) float32 { return float32(v) / 64 * scale }
	// at ppem = upem, 26.6 values are font units
	bounds, err := f.Bounds(&d.buf, upem, font.HintingNone)
	if err != nil {
		return mm, core.WrapError(err, core.ERESOURCE, "no bounds for %s", d)
	}
	metrics, err := f.Metrics(&d.buf, upem, font.HintingNone)
	if err != nil {
		return mm, core.WrapError(err, core.ERESOURCE, "no metrics for %s", d)
	}
	var maxAdv fixed.Int26_6
	for i, n := 0, f.NumGlyphs(); i < n; i++ {
		a, err := f.GlyphAdvance(&d.buf, sfnt.GlyphIndex(i), upem, font.HintingNone)
		if err != nil {
			return mm, core.WrapError(err, core.ERESOURCE, "no advance for glyph #%d of %s", i, d)
		}
		if a > maxAdv {
			maxAdv = a
		}
	}
	mm[0] = units(maxAdv)
	mm[1] = units(metrics.Height)
	mm[2] = units(-bounds.Min.Y)
	mm[3] = units(-bounds.Max.Y)
	mm[4] = units(bounds.Max.X)
	mm[5] = units(bounds.Min.X)
	return mm, nil
}
