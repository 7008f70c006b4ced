package face

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/glc/core"
	"github.com/npillmayer/glc/core/font/fontdb"
	"github.com/npillmayer/glc/core/font/glyph"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/suite"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// --- Test Suite Preparation ------------------------------------------------

type FaceTestEnviron struct {
	suite.Suite
	db  *fontdb.Config
	key fontdb.Key
}

func TestFaces(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glc.fonts")
	defer teardown()
	suite.Run(t, new(FaceTestEnviron))
}

func (env *FaceTestEnviron) SetupSuite() {
	dir := env.T().TempDir()
	for name, data := range map[string][]byte{
		"Go-Regular.ttf": goregular.TTF,
		"Go-Bold.ttf":    gobold.TTF,
	} {
		env.Require().NoError(os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}
	env.db = fontdb.NewConfig(testconfig.Conf{fontdb.SystemFontsKey: false})
	env.Require().NoError(env.db.AppFontAddDir(dir))
	env.key = env.db.Fonts()[0].Key()
}

func (env *FaceTestEnviron) regular(mgr *Manager) *Descriptor {
	d, err := Create(env.db, env.key, "Regular", 0, mgr)
	env.Require().NoError(err)
	return d
}

// --- Tests -----------------------------------------------------------------

func (env *FaceTestEnviron) TestCreate() {
	d, err := Create(env.db, env.key, "", 0, nil)
	env.Require().NoError(err)
	env.Equal(env.db.Fonts()[0].Style, d.Style(), "expected first face in enumeration order")
	d = env.regular(nil)
	env.Equal("Regular", d.Style())
	env.False(d.IsFixedPitch())
	env.Equal(fontdb.FormatTrueType, d.Format())
	_, err = Create(env.db, env.key, "Oblique", 0, nil)
	env.Equal(core.ERESOURCE, core.Code(err))
	_, err = Create(env.db, env.key, "", 0x4E00, nil)
	env.Equal(core.ERESOURCE, core.Code(err), "Go fonts do not cover CJK")
}

func (env *FaceTestEnviron) TestGlyphs() {
	d := env.regular(nil)
	g, err := d.GetGlyph('A')
	env.Require().NoError(err)
	env.Require().NotNil(g)
	env.NotZero(g.Index)
	again, _ := d.GetGlyph('A')
	env.Same(g, again)
	env.Len(d.Glyphs(), 1)
	g, err = d.GetGlyph(0xE000)
	env.NoError(err)
	env.Nil(g, "uncovered code must not yield a glyph")
	env.Equal(0, d.OpenCount(), "operations must close what they open")
	d.Destroy(nil, true)
}

func (env *FaceTestEnviron) TestOpenCount() {
	d := env.regular(nil)
	f1, err := d.Open()
	env.Require().NoError(err)
	f2, err := d.Open()
	env.Require().NoError(err)
	env.Same(f1, f2, "nested opens must share the face")
	env.Equal(2, d.OpenCount())
	d.Close()
	d.Close()
	env.Equal(0, d.OpenCount())
	env.Panics(func() { d.Close() })
}

func (env *FaceTestEnviron) TestManager() {
	mgr, err := NewManager(1)
	env.Require().NoError(err)
	reg := env.regular(mgr)
	bold, err := Create(env.db, env.key, "Bold", 0, mgr)
	env.Require().NoError(err)
	env.Equal(2, mgr.Registered())
	_, err = reg.GetGlyph('A')
	env.Require().NoError(err)
	_, err = reg.GetGlyph('B')
	env.Require().NoError(err)
	env.Equal(1, mgr.Opened(), "second lookup must hit the cache")
	_, err = bold.GetGlyph('A')
	env.Require().NoError(err)
	env.Equal(1, mgr.Len(), "cache must not exceed its size")
	_, err = reg.GetGlyph('C')
	env.Require().NoError(err)
	env.Equal(3, mgr.Opened(), "evicted face must be re-opened")
	bold.Destroy(nil, false)
	env.Equal(1, mgr.Registered())
	_, err = NewManager(0)
	env.Equal(core.EPARAMETER, core.Code(err))
}

func (env *FaceTestEnviron) TestMetrics() {
	d := env.regular(nil)
	s := DefaultSettings()
	a, _ := d.GetGlyph('A')
	bbox, err := d.BoundingBox(a.Index, PointSize, PointSize, s)
	env.Require().NoError(err)
	env.Greater(bbox[3], float32(0.5), "cap height of 'A'")
	env.Less(bbox[3], float32(1))
	env.Less(bbox[0], bbox[2])
	adv, err := d.Advance(a.Index, PointSize, PointSize, s)
	env.Require().NoError(err)
	env.Greater(adv[0], float32(0.3))
	env.Zero(adv[1])
	sp, _ := d.GetGlyph(' ')
	env.Require().NotNil(sp)
	bbox, err = d.BoundingBox(sp.Index, PointSize, PointSize, s)
	env.Require().NoError(err)
	env.Equal([4]float32{}, bbox, "space has an empty outline")
	v, _ := d.GetGlyph('V')
	_, err = d.Kerning(v.Index, a.Index, PointSize, PointSize, s)
	env.NoError(err)
	_, err = d.Advance(a.Index, 0, PointSize, s)
	env.Equal(core.EPARAMETER, core.Code(err))
	mm, err := d.MaxMetric(s)
	env.Require().NoError(err)
	env.GreaterOrEqual(mm[0], adv[0])
	env.Greater(mm[2], mm[3])
	env.Greater(mm[4], mm[5])
}

func (env *FaceTestEnviron) TestSmallScaleAdvance() {
	d := env.regular(nil)
	s := DefaultSettings()
	sp, _ := d.GetGlyph(' ')
	env.Require().NotNil(sp)
	adv, err := d.Advance(sp.Index, 1, 1, s)
	env.Require().NoError(err)
	env.Greater(adv[0], float32(0), "GL object metrics must not be hinted to zero")
	ref, err := d.Advance(sp.Index, PointSize, PointSize, s)
	env.Require().NoError(err)
	env.InDelta(ref[0], adv[0], 2.0/64, "advance must not depend on scale")
	s.Hinting = true
	env.Equal(font.HintingNone, s.hinting(), "GL objects are never hinted")
	s.GLObjects = false
	env.Equal(font.HintingFull, s.hinting())
}

func (env *FaceTestEnviron) TestDecompose() {
	d := env.regular(nil)
	s := DefaultSettings()
	o, _ := d.GetGlyph('O')
	outline, err := d.LoadOutline(o.Index, PointSize, PointSize, s)
	env.Require().NoError(err)
	env.False(outline.Empty())
	data := NewRendererData(s.Tolerance)
	env.Require().NoError(outline.Decompose(data))
	env.Equal(3, data.Contours.Len(), "'O' has two contours")
	env.Greater(data.Vertices.Len(), 16, "curves must be subdivided")
	box := outline.ControlBox()
	for _, v := range data.Vertices.Slice() {
		env.True(v[0] >= box[0] && v[0] <= box[2] && v[1] >= box[1] && v[1] <= box[3])
	}
	data.Reset()
	data.Limit = 3
	err = outline.Decompose(data)
	env.Equal(core.ERESOURCE, core.Code(err))
	env.Equal(0, data.Vertices.Len(), "failed decomposition must reset the buffers")
	sp, _ := d.GetGlyph(' ')
	outline, err = d.LoadOutline(sp.Index, PointSize, PointSize, s)
	env.Require().NoError(err)
	env.True(outline.Empty())
}

func (env *FaceTestEnviron) TestBitmaps() {
	d := env.regular(nil)
	s := DefaultSettings()
	s.Matrix = [4]float32{32, 0, 0, 32}
	a, _ := d.GetGlyph('A')
	outline, err := d.LoadOutline(a.Index, PointSize, PointSize, s)
	env.Require().NoError(err)
	for _, style := range []glyph.RenderStyle{glyph.Bitmap, glyph.Pixmap, glyph.Texture} {
		s.Style = style
		r, err := outline.BitmapSize(s, 0)
		env.Require().NoError(err, style.String())
		env.Greater(r.Width, 0)
		env.Greater(r.Height, 0)
		buf := make([]byte, r.BufferSize())
		env.Require().NoError(outline.Bitmap(r, buf))
		ink := 0
		for _, b := range buf {
			if b != 0 {
				ink++
			}
		}
		env.Greater(ink, 0, "%s of 'A' must not be blank", style)
	}
	s.Style = glyph.Bitmap
	r, _ := outline.BitmapSize(s, 0)
	env.Zero(r.Width%8, "bitmap rows are padded to bytes")
	s.Style = glyph.Texture
	r, _ = outline.BitmapSize(s, 0)
	env.Equal(TextureSize, r.Width)
	s.Style = glyph.Line
	_, err = outline.BitmapSize(s, 0)
	env.Equal(core.EPARAMETER, core.Code(err))
	err = outline.Bitmap(&Raster{Width: 8, Height: 8}, make([]byte, 4))
	env.Equal(core.EPARAMETER, core.Code(err))
}
