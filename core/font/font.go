package font

import (
	"fmt"
	"math"

	"github.com/npillmayer/glc/core"
	"github.com/npillmayer/glc/core/font/charmap"
	"github.com/npillmayer/glc/core/font/face"
	"github.com/npillmayer/glc/core/font/fontdb"
	"github.com/npillmayer/glc/core/font/glyph"
	"github.com/npillmayer/glc/core/font/master"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

// Resources are the parts of a context fonts are built from.
type Resources struct {
	DB      *fontdb.Config
	Faces   *face.Manager // nil: descriptors open their faces themselves
	Backend glyph.Backend
}

// Font is a master, instantiated for one of its faces.
type Font struct {
	ID         int
	masterKey  fontdb.Key
	masterHash uint64
	face       *face.Descriptor
	charMap    *charmap.CharMap
	maxMetric  [6]float32
	mmRes      float32 // resolution maxMetric has been computed for, 0 if invalid
}

// New creates a font with id from master m. The font's face is the first
// face of m, or the first face covering code if code is not 0.
func New(id int, m *master.Master, code rune, res *Resources) (*Font, error) {
	fd, err := face.Create(res.DB, m.Key(), "", code, res.Faces)
	if err != nil {
		return nil, err
	}
	f := &Font{
		ID:         id,
		masterKey:  m.Key(),
		masterHash: m.Hash(),
		face:       fd,
		charMap:    charmap.New(fd.Charset()),
	}
	tracer().Debugf("font %d created from %s, face %s", id, m, fd.Style())
	return f, nil
}

// NewEmpty creates a font without master, reserving id.
func NewEmpty(id int) *Font {
	return &Font{ID: id, charMap: charmap.New(nil)}
}

func (f *Font) String() string {
	if f.IsEmpty() {
		return fmt.Sprintf("font(%d, empty)", f.ID)
	}
	return fmt.Sprintf("font(%d, %s)", f.ID, f.face)
}

// IsEmpty is a predicate: has the font been created without master?
func (f *Font) IsEmpty() bool {
	return f.face == nil
}

// MasterKey returns the reduced pattern of the font's master.
func (f *Font) MasterKey() fontdb.Key {
	return f.masterKey
}

// MasterHash returns the hash of the font's master.
func (f *Font) MasterHash() uint64 {
	return f.masterHash
}

// Face returns the current face descriptor, or nil for an empty font.
func (f *Font) Face() *face.Descriptor {
	return f.face
}

// FaceName returns the style name of the current face.
func (f *Font) FaceName() string {
	if f.face == nil {
		return ""
	}
	return f.face.Style()
}

// CharMap returns the font's character map.
func (f *Font) CharMap() *charmap.CharMap {
	return f.charMap
}

// HasChar is a predicate: does the font map code?
func (f *Font) HasChar(code rune) bool {
	return f.charMap.HasChar(code)
}

// GetGlyph returns the glyph code is mapped to. Glyphs resolved through the
// face are remembered in the character map. If the font does not map code,
// GetGlyph returns nil and no error.
func (f *Font) GetGlyph(code rune) (*glyph.Glyph, error) {
	if g := f.charMap.GetGlyph(code); g != nil {
		return g, nil
	}
	if f.face == nil || !f.charMap.HasChar(code) {
		return nil, nil
	}
	g, err := f.face.GetGlyph(code)
	if err != nil || g == nil {
		return nil, err
	}
	f.charMap.AddChar(code, g)
	return g, nil
}

func (f *Font) mustGlyph(code rune) (*glyph.Glyph, error) {
	g, err := f.GetGlyph(code)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, core.Error(core.EPARAMETER, "%s does not map %#U", f, code)
	}
	return g, nil
}

// metrics returns the raw bounding box and the advance of g. With GL
// objects, they are cached with the glyph.
func (f *Font) metrics(g *glyph.Glyph, sx, sy float32, s face.Settings) ([4]float32, [2]float32, error) {
	if s.GLObjects {
		if bbox, adv, ok := g.Metrics(sx, sy); ok {
			return bbox, adv, nil
		}
	}
	bbox, err := f.face.BoundingBox(g.Index, sx, sy, s)
	if err != nil {
		return bbox, [2]float32{}, err
	}
	adv, err := f.face.Advance(g.Index, sx, sy, s)
	if err != nil {
		return bbox, adv, err
	}
	g.IsSpacing = bbox == [4]float32{}
	if s.GLObjects {
		g.StoreMetrics(sx, sy, bbox, adv)
	}
	return bbox, adv, nil
}

const epsilon = 1e-6

// BoundingBox returns the bounding box of the glyph for code at scale
// (sx, sy), as xMin, yMin, xMax, yMax. If the box has no width or no
// height, as for SPACE, the advance is substituted for the missing
// dimension.
func (f *Font) BoundingBox(code rune, sx, sy float32, s face.Settings) ([4]float32, error) {
	g, err := f.mustGlyph(code)
	if err != nil {
		return [4]float32{}, err
	}
	bbox, adv, err := f.metrics(g, sx, sy, s)
	if err != nil {
		return bbox, err
	}
	if math.Abs(float64(bbox[2]-bbox[0])) < epsilon {
		bbox[2] += adv[0]
	}
	if math.Abs(float64(bbox[3]-bbox[1])) < epsilon {
		bbox[3] += adv[1]
	}
	return bbox, nil
}

// Advance returns the advance of the glyph for code at scale (sx, sy).
func (f *Font) Advance(code rune, sx, sy float32, s face.Settings) ([2]float32, error) {
	g, err := f.mustGlyph(code)
	if err != nil {
		return [2]float32{}, err
	}
	_, adv, err := f.metrics(g, sx, sy, s)
	return adv, err
}

// Kerning returns the kerning between prev and code at scale (sx, sy).
func (f *Font) Kerning(code, prev rune, sx, sy float32, s face.Settings) ([2]float32, error) {
	g, err := f.mustGlyph(code)
	if err != nil {
		return [2]float32{}, err
	}
	p, err := f.mustGlyph(prev)
	if err != nil {
		return [2]float32{}, err
	}
	return f.face.Kerning(g.Index, p.Index, sx, sy, s)
}

// MaxMetric returns the face-wide maximum metrics, see
// face.Descriptor.MaxMetric. The result is cached until the face or the
// resolution changes.
func (f *Font) MaxMetric(s face.Settings) ([6]float32, error) {
	if f.face == nil {
		return [6]float32{}, core.Error(core.EPARAMETER, "%s has no face", f)
	}
	res := s.Resolution
	if res <= 0 {
		res = 72
	}
	if f.mmRes == res {
		return f.maxMetric, nil
	}
	mm, err := f.face.MaxMetric(s)
	if err != nil {
		return mm, err
	}
	f.maxMetric, f.mmRes = mm, res
	return mm, nil
}

// InvalidateMaxMetric drops the cached maximum metrics.
func (f *Font) InvalidateMaxMetric() {
	f.mmRes = 0
}

// SetFace switches the font to the face named name of the same master.
// Either both face and character map are replaced, or the font is left
// unchanged.
func (f *Font) SetFace(name string, res *Resources) error {
	if f.face == nil {
		return core.Error(core.EPARAMETER, "%s has no master", f)
	}
	fd, err := face.Create(res.DB, f.masterKey, name, 0, res.Faces)
	if err != nil {
		return err
	}
	old := f.face
	f.face = fd
	f.charMap = charmap.New(fd.Charset())
	f.InvalidateMaxMetric()
	old.Destroy(res.Backend, false)
	tracer().Debugf("%s switched to face %s", f, name)
	return nil
}

// Map binds code to the glyph of the character named name. An empty name
// removes the binding of code.
func (f *Font) Map(code rune, name string) error {
	if code < 0 {
		return core.Error(core.EPARAMETER, "negative character code %d", code)
	}
	if name == "" {
		f.charMap.RemoveChar(code)
		return nil
	}
	target, ok := charmap.Lookup(name)
	if !ok {
		return core.Error(core.EPARAMETER, "unknown character name %q", name)
	}
	if f.face == nil {
		return core.Error(core.EPARAMETER, "%s has no face", f)
	}
	g, err := f.face.GetGlyph(target)
	if err != nil {
		return err
	}
	if g == nil {
		return core.Error(core.ERESOURCE, "face %s has no glyph for %s", f.face, name)
	}
	f.charMap.AddChar(code, g)
	return nil
}

// Destroy releases the face and all glyphs of the font. GL objects are
// deleted through be unless teardown is set.
func (f *Font) Destroy(be glyph.Backend, teardown bool) {
	if f.face != nil {
		f.face.Destroy(be, teardown)
		f.face = nil
	}
	f.charMap = charmap.New(nil)
	tracer().Debugf("font %d destroyed", f.ID)
}

// TypeCase returns a Go font.Face for the current face at size points and
// dpi, for drawing with Go's image packages.
func (f *Font) TypeCase(size, dpi float64) (xfont.Face, error) {
	if f.face == nil {
		return nil, core.Error(core.EPARAMETER, "%s has no face", f)
	}
	if size < 1 || size > 1000 {
		return nil, core.Error(core.EPARAMETER, "font size must be 1pt < size < 1000pt, is %g", size)
	}
	sf, err := f.face.Open()
	if err != nil {
		return nil, err
	}
	defer f.face.Close()
	tc, err := opentype.NewFace(sf, &opentype.FaceOptions{
		Size:    size,
		DPI:     dpi,
		Hinting: xfont.HintingFull,
	})
	if err != nil {
		return nil, core.WrapError(err, core.ERESOURCE, "cannot create type case for %s", f)
	}
	return tc, nil
}
