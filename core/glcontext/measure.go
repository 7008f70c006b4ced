package glcontext

import (
	"math"

	"github.com/npillmayer/glc/core"
	"github.com/npillmayer/glc/core/font"
	"github.com/npillmayer/glc/core/font/face"
)

// scale returns the scale glyphs are measured at. With GL objects it is
// face.PointSize, otherwise it is taken from the bitmap matrix.
func (c *Context) scale() (sx, sy float32) {
	if c.enable.glObjects {
		return face.PointSize, face.PointSize
	}
	m := c.matrix
	sx = float32(math.Hypot(float64(m[0]), float64(m[1])))
	sy = float32(math.Hypot(float64(m[2]), float64(m[3])))
	return
}

func (c *Context) resolveOrFail(code rune) (*font.Font, error) {
	f, err := c.ResolveFont(code)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, core.Error(core.EPARAMETER, "no font maps %#U", code)
	}
	return f, nil
}

// CharMetrics returns the bounding box and the advance of code in the font
// resolved for it, in ems.
func (c *Context) CharMetrics(code rune) (bbox [4]float32, advance [2]float32, err error) {
	f, err := c.resolveOrFail(code)
	if err != nil {
		return
	}
	sx, sy := c.scale()
	s := c.Settings()
	if bbox, err = f.BoundingBox(code, sx, sy, s); err != nil {
		return
	}
	advance, err = f.Advance(code, sx, sy, s)
	return
}

// Kerning returns the kerning between prev and code, in ems. It is zero
// unless kerning is enabled and both codes resolve to the same font.
func (c *Context) Kerning(prev, code rune) ([2]float32, error) {
	if !c.enable.kerning {
		return [2]float32{}, nil
	}
	f, err := c.resolveOrFail(code)
	if err != nil {
		return [2]float32{}, err
	}
	if !f.HasChar(prev) {
		return [2]float32{}, nil
	}
	sx, sy := c.scale()
	return f.Kerning(code, prev, sx, sy, c.Settings())
}

// MaxMetric returns the maximum metrics over all current fonts: maximum
// advances in x and y, maximum and minimum y, maximum and minimum x.
func (c *Context) MaxMetric() ([6]float32, error) {
	var mm [6]float32
	s := c.Settings()
	for i, f := range c.currentFonts.Slice() {
		fm, err := f.MaxMetric(s)
		if err != nil {
			return mm, err
		}
		if i == 0 {
			mm = fm
			continue
		}
		for k := range mm {
			if k == 3 || k == 5 {
				mm[k] = min32(mm[k], fm[k])
			} else {
				mm[k] = max32(mm[k], fm[k])
			}
		}
	}
	return mm, nil
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
