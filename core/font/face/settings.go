package face

import (
	"github.com/npillmayer/glc/core/font/glyph"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// PointSize is the scale glyphs are loaded at when GL objects are cached.
const PointSize = 128

// TextureSize is the edge length of glyph textures when GL objects are
// cached.
const TextureSize = 64

// Settings are the parts of a context's state which influence glyph
// extraction.
type Settings struct {
	GLObjects  bool              // GL objects are cached; scale is in object space
	Hinting    bool              // hint glyphs in immediate mode
	Resolution float32           // device resolution in dpi, 0 means 72
	Tolerance  float32           // flatness tolerance for outline subdivision
	Style      glyph.RenderStyle // current render style
	Matrix     [4]float32        // bitmap matrix, column major
}

// DefaultSettings returns the settings of a fresh context.
func DefaultSettings() Settings {
	return Settings{
		GLObjects:  true,
		Resolution: 72,
		Tolerance:  0.005,
		Style:      glyph.Bitmap,
		Matrix:     [4]float32{1, 0, 0, 1},
	}
}

func (s Settings) resolution() float32 {
	if s.Resolution <= 0 {
		return 72
	}
	return s.Resolution
}

// ppem returns the number of pixels per em for a scale. With GL objects,
// scale is in object space and resolution does not apply.
func (s Settings) ppem(scale float32) fixed.Int26_6 {
	if s.GLObjects {
		return fixed.Int26_6(scale * 64)
	}
	return fixed.Int26_6(scale * s.resolution() / 72 * 64)
}

// hinting returns the hinting for advances and kerning. Outlines are always
// loaded unhinted, and with GL objects metrics must agree with them at any
// scale, so hinting applies to immediate mode only.
func (s Settings) hinting() font.Hinting {
	if s.Hinting && !s.GLObjects {
		return font.HintingFull
	}
	return font.HintingNone
}
