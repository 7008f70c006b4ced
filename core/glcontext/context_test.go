package glcontext

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/glc/core"
	"github.com/npillmayer/glc/core/font/fontdb"
	"github.com/npillmayer/glc/core/font/glyph"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/suite"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

func noEnv(string) string { return "" }

func testConf() testconfig.Conf {
	return testconfig.Conf{fontdb.SystemFontsKey: false}
}

// writeFonts creates a catalog directory holding the given font files.
func writeFonts(t *testing.T, files map[string][]byte) string {
	dir := t.TempDir()
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// counter tracks the sub-resources held, and fails the failAt-th
// acquisition.
type counter struct {
	live, calls, failAt int
}

func (c *counter) Acquire(Resource) error {
	c.calls++
	if c.calls == c.failAt {
		return errors.New("injected failure")
	}
	c.live++
	return nil
}

func (c *counter) Release(Resource) { c.live-- }

// --- Test Suite Preparation ------------------------------------------------

type ContextTestEnviron struct {
	suite.Suite
	goDir   string // Go Regular and Go Bold
	monoDir string // Go Mono
}

func TestContexts(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glc.context")
	defer teardown()
	suite.Run(t, new(ContextTestEnviron))
}

func (env *ContextTestEnviron) SetupSuite() {
	env.goDir = writeFonts(env.T(), map[string][]byte{
		"Go-Regular.ttf": goregular.TTF,
		"Go-Bold.ttf":    gobold.TTF,
	})
	env.monoDir = writeFonts(env.T(), map[string][]byte{
		"Go-Mono.ttf": gomono.TTF,
	})
}

func (env *ContextTestEnviron) newContext(opts ...Option) *Context {
	opts = append([]Option{WithEnv(noEnv)}, opts...)
	ctx, err := NewContext(1, testConf(), opts...)
	env.Require().NoError(err)
	return ctx
}

func (env *ContextTestEnviron) withCatalogs(opts ...Option) *Context {
	ctx := env.newContext(opts...)
	env.Require().NoError(ctx.AppendCatalog(env.goDir))
	env.Require().NoError(ctx.AppendCatalog(env.monoDir))
	env.Require().Equal(2, ctx.MasterCount())
	return ctx
}

// --- Tests -----------------------------------------------------------------

func (env *ContextTestEnviron) TestDefaults() {
	ctx := env.newContext()
	defer ctx.Destroy()
	env.True(ctx.IsEnabled(AutoFont))
	env.True(ctx.IsEnabled(GLObjects))
	env.True(ctx.IsEnabled(Mipmap))
	env.False(ctx.IsEnabled(Hinting))
	env.False(ctx.IsEnabled(Extrude))
	env.False(ctx.IsEnabled(Kerning))
	env.Equal(float32(72), ctx.Resolution())
	env.Equal(glyph.Bitmap, ctx.RenderStyle())
	env.Equal(float32(0.005), ctx.Tolerance())
	env.Equal(UCS1, ctx.StringType())
	env.Equal([4]float32{1, 0, 0, 1}, ctx.BitmapMatrix())
	env.Equal(0, ctx.CatalogCount())
	env.Equal(0, ctx.MasterCount())
	env.Equal(core.EPARAMETER, core.Code(ctx.Enable(Capability(0))))
	env.NoError(ctx.SetResolution(0))
	env.Equal(float32(72), ctx.Resolution())
	env.Equal(core.EPARAMETER, core.Code(ctx.SetResolution(-1)))
	env.Equal(core.EPARAMETER, core.Code(ctx.SetRenderStyle(glyph.RenderStyle(7))))
}

func (env *ContextTestEnviron) TestCatalogsFromEnvironment() {
	vars := map[string]string{
		PathEnv:          "/no/such/dir;" + env.goDir + ";" + env.monoDir,
		ListSeparatorEnv: ";",
	}
	ctx, err := NewContext(1, testConf(), WithEnv(func(k string) string { return vars[k] }))
	env.Require().NoError(err)
	defer ctx.Destroy()
	env.Equal([]string{env.goDir, env.monoDir}, ctx.Catalogs(), "unreadable catalog must be skipped")
	env.Equal(2, ctx.MasterCount())
	vars[CatalogListEnv] = env.monoDir
	ctx2, err := NewContext(2, testConf(), WithEnv(func(k string) string { return vars[k] }))
	env.Require().NoError(err)
	defer ctx2.Destroy()
	env.Equal([]string{env.monoDir}, ctx2.Catalogs(), "catalog list takes precedence over path")
}

func (env *ContextTestEnviron) TestCreationRollback() {
	for n := 1; n <= 5; n++ {
		c := &counter{failAt: n}
		ctx, err := NewContext(1, testConf(), WithEnv(noEnv), WithTracker(c))
		env.Nil(ctx)
		env.Equal(core.ERESOURCE, core.Code(err), "failure at step %d", n)
		env.Equal(0, c.live, "resources leaked after failure at step %d", n)
	}
	c := &counter{}
	ctx, err := NewContext(1, testConf(), WithEnv(noEnv), WithTracker(c))
	env.Require().NoError(err)
	env.Equal(5, c.live)
	ctx.Destroy()
	env.Equal(0, c.live)
}

func (env *ContextTestEnviron) TestCatalogs() {
	ctx := env.newContext()
	defer ctx.Destroy()
	err := ctx.AppendCatalog("/no/such/dir")
	env.Equal(core.ERESOURCE, core.Code(err))
	env.Equal(0, ctx.CatalogCount())
	env.Require().NoError(ctx.AppendCatalog(env.monoDir))
	env.Require().NoError(ctx.PrependCatalog(env.goDir))
	path, err := ctx.CatalogPath(0)
	env.NoError(err)
	env.Equal(env.goDir, path)
	_, err = ctx.CatalogPath(2)
	env.Equal(core.EPARAMETER, core.Code(err))
	env.Equal(core.EPARAMETER, core.Code(ctx.RemoveCatalog(-1)))
	monoID := 0 // Go Mono's catalog has been added first
	info, err := ctx.MasterInfo(monoID)
	env.Require().NoError(err)
	env.Equal("Go Mono", info.Family)
	before := ctx.MasterHashes()[1]
	ctx.UpdateHashTable()
	env.Equal(before, ctx.MasterHashes()[1], "master IDs must be stable")
}

func (env *ContextTestEnviron) TestCatalogRemovalPurgesFonts() {
	ctx := env.withCatalogs()
	defer ctx.Destroy()
	_, err := ctx.NewFontFromFamily(1, "Go Mono")
	env.Require().NoError(err)
	_, err = ctx.NewFontFromFamily(2, "Go")
	env.Require().NoError(err)
	env.Require().NoError(ctx.AppendFont(1))
	env.Require().NoError(ctx.AppendFont(2))
	mono, _ := ctx.Font(1)
	monoHash := mono.MasterHash()
	env.Require().NoError(ctx.RemoveCatalog(1))
	env.Equal([]string{env.goDir}, ctx.Catalogs())
	env.Equal(1, ctx.MasterCount())
	env.NotContains(ctx.MasterHashes(), monoHash)
	env.False(ctx.IsFont(1), "font of vanished master must be purged")
	env.Equal([]int{2}, ctx.FontList())
	env.Equal([]int{2}, ctx.CurrentFonts())
}

func (env *ContextTestEnviron) TestFontCommands() {
	ctx := env.withCatalogs()
	defer ctx.Destroy()
	id := ctx.GenFontID()
	env.Equal(1, id)
	env.True(ctx.IsFont(1))
	env.Empty(ctx.FontList(), "reserved IDs are not fonts yet")
	env.Equal(2, ctx.GenFontID())
	got, err := ctx.NewFontFromMaster(1, 0)
	env.Require().NoError(err)
	env.Equal(1, got)
	env.Equal([]int{1}, ctx.FontList())
	env.Equal(3, ctx.GenFontID())
	_, err = ctx.NewFontFromMaster(0, 0)
	env.Equal(core.EPARAMETER, core.Code(err))
	_, err = ctx.NewFontFromMaster(4, 99)
	env.Equal(core.EPARAMETER, core.Code(err))
	_, err = ctx.NewFontFromFamily(4, "Comic Sans")
	env.Equal(core.EPARAMETER, core.Code(err))
	env.NoError(ctx.DeleteFont(2))
	env.NoError(ctx.DeleteFont(3))
	env.Equal(core.EPARAMETER, core.Code(ctx.DeleteFont(3)))
	//
	_, err = ctx.NewFontFromFamily(2, "Go Mono")
	env.Require().NoError(err)
	env.NoError(ctx.SetFont(1))
	env.NoError(ctx.AppendFont(2))
	env.Equal(core.EPARAMETER, core.Code(ctx.AppendFont(2)))
	env.Equal([]int{1, 2}, ctx.CurrentFonts())
	info, err := ctx.FontInfo(2)
	env.Require().NoError(err)
	env.True(info.FixedPitch)
	env.Equal(1, info.FaceCount)
	env.Greater(info.CharCount, 100)
	env.LessOrEqual(info.MinMappedCode, rune('A'))
	env.NoError(ctx.DeleteFont(2))
	env.Equal([]int{1}, ctx.CurrentFonts(), "deleted font must leave the current fonts")
	env.NoError(ctx.SetFont(0))
	env.Empty(ctx.CurrentFonts())
	env.Equal(core.EPARAMETER, core.Code(ctx.SetFont(7)))
}

func (env *ContextTestEnviron) TestFontFace() {
	ctx := env.withCatalogs()
	defer ctx.Destroy()
	_, err := ctx.NewFontFromFamily(1, "Go")
	env.Require().NoError(err)
	_, err = ctx.NewFontFromFamily(2, "Go Mono")
	env.Require().NoError(err)
	faces, err := ctx.FontFaces(1)
	env.Require().NoError(err)
	env.ElementsMatch([]string{"Regular", "Bold"}, faces)
	first, _ := ctx.FontFaceName(1)
	env.Equal(faces[0], first, "new fonts start with the first face")
	other := faces[1]
	ok, err := ctx.FontFace(1, other)
	env.NoError(err)
	env.True(ok)
	name, _ := ctx.FontFaceName(1)
	env.Equal(other, name)
	_, err = ctx.FontFace(1, first)
	env.NoError(err)
	ok, err = ctx.FontFace(0, "Bold")
	env.NoError(err, "an empty current font list is not an error")
	env.False(ok)
	env.NoError(ctx.SetFont(1))
	env.NoError(ctx.AppendFont(2))
	ok, err = ctx.FontFace(0, "Bold")
	env.Equal(core.EPARAMETER, core.Code(err))
	env.False(ok)
	name, _ = ctx.FontFaceName(1)
	env.Equal(first, name, "failed switch of all current fonts must not switch any")
	ok, err = ctx.FontFace(0, "Regular")
	env.NoError(err)
	env.True(ok)
	name, _ = ctx.FontFaceName(1)
	env.Equal("Regular", name)
}

func (env *ContextTestEnviron) TestFontMap() {
	ctx := env.withCatalogs()
	defer ctx.Destroy()
	_, err := ctx.NewFontFromFamily(1, "Go")
	env.Require().NoError(err)
	env.NoError(ctx.FontMap(1, 0xE000, "LATIN SMALL LETTER A"))
	f, _ := ctx.Font(1)
	env.True(f.HasChar(0xE000))
	max, _ := f.CharMap().MaxMappedCode()
	env.GreaterOrEqual(max, rune(0xE000))
	env.NoError(ctx.FontMap(1, 0xE000, ""))
	env.False(f.HasChar(0xE000))
	env.Equal(core.EPARAMETER, core.Code(ctx.FontMap(9, 'a', "")))
	env.Equal(core.EPARAMETER, core.Code(ctx.FontMap(1, -5, "LATIN SMALL LETTER A")))
	env.Equal(core.EPARAMETER, core.Code(ctx.FontMap(1, math.MinInt32, "")))
	env.Equal(0, f.CharMap().Len(), "rejected codes must not reach the character map")
}

func (env *ContextTestEnviron) TestAutoFont() {
	ctx := env.withCatalogs()
	defer ctx.Destroy()
	f, err := ctx.ResolveFont('A')
	env.Require().NoError(err)
	env.Require().NotNil(f)
	env.True(f.HasChar('A'))
	env.Equal([]int{f.ID}, ctx.FontList())
	env.Equal([]int{f.ID}, ctx.CurrentFonts())
	again, _ := ctx.ResolveFont('B')
	env.Same(f, again)
	env.Len(ctx.FontList(), 1)
	none, err := ctx.ResolveFont(0x4E00)
	env.NoError(err)
	env.Nil(none, "no font covers CJK")
	// fonts of the font list are re-used
	env.NoError(ctx.SetFont(0))
	again, _ = ctx.ResolveFont('A')
	env.Same(f, again)
	env.Len(ctx.FontList(), 1)
	env.NoError(ctx.SetFont(0))
	env.NoError(ctx.Disable(AutoFont))
	none, _ = ctx.ResolveFont('A')
	env.Nil(none)
}

func (env *ContextTestEnviron) TestUnmappedCallback() {
	ctx := env.withCatalogs()
	defer ctx.Destroy()
	env.NoError(ctx.Disable(AutoFont))
	calls := 0
	ctx.SetUnmappedCallback(func(c *Context, code rune) bool {
		calls++
		if f, _ := c.ResolveFont(code); f != nil {
			return false // unreachable: auto-font is off and no font is current
		}
		if _, err := c.NewFontFromFamily(5, "Go Mono"); err != nil {
			return false
		}
		return c.AppendFont(5) == nil
	})
	f, err := ctx.ResolveFont('x')
	env.Require().NoError(err)
	env.Require().NotNil(f)
	env.Equal(5, f.ID)
	env.Equal(1, calls, "callback must not recurse")
	ctx.SetUnmappedCallback(func(*Context, rune) bool {
		calls++
		return false
	})
	_, _ = ctx.ResolveFont(0x2603)
	env.Equal(1, calls, "code not expressible in UCS1 must not reach the callback")
	env.NoError(ctx.SetStringType(UCS4))
	_, _ = ctx.ResolveFont(0x2603)
	env.Equal(2, calls)
}

func (env *ContextTestEnviron) TestAttribStack() {
	conf := testConf()
	conf[AttribStackDepthKey] = 2
	ctx, err := NewContext(1, conf, WithEnv(noEnv))
	env.Require().NoError(err)
	defer ctx.Destroy()
	env.Equal(core.ESTACKUNDERFLOW, core.Code(ctx.PopAttrib()))
	env.NoError(ctx.PushAttrib(RenderBit | EnableBit))
	env.NoError(ctx.SetResolution(300))
	env.NoError(ctx.Disable(AutoFont))
	ctx.SetReplacementCode('?')
	env.NoError(ctx.PushAttrib(StringBit))
	env.Equal(core.ESTACKOVERFLOW, core.Code(ctx.PushAttrib(AllAttribBits)))
	ctx.SetReplacementCode('!')
	env.NoError(ctx.PopAttrib())
	env.Equal('?', ctx.ReplacementCode())
	env.NoError(ctx.PopAttrib())
	env.Equal(float32(72), ctx.Resolution())
	env.True(ctx.IsEnabled(AutoFont))
	env.Equal('?', ctx.ReplacementCode(), "string state was not saved by the first level")
	env.Equal(0, ctx.AttribStackDepth())
}

func (env *ContextTestEnviron) TestMetrics() {
	ctx := env.withCatalogs()
	defer ctx.Destroy()
	bbox, adv, err := ctx.CharMetrics(' ')
	env.Require().NoError(err)
	env.Greater(adv[0], float32(0))
	env.InDelta(adv[0], bbox[2]-bbox[0], 1e-5)
	_, _, err = ctx.CharMetrics(0x4E00)
	env.Equal(core.EPARAMETER, core.Code(err))
	k, err := ctx.Kerning('A', 'V')
	env.NoError(err)
	env.Equal([2]float32{}, k, "kerning is disabled")
	mm, err := ctx.MaxMetric()
	env.Require().NoError(err)
	env.Greater(mm[0], float32(0))
	env.Greater(mm[2], mm[3])
}

func (env *ContextTestEnviron) TestPrepareGlyph() {
	rec := glyph.NewRecorder()
	ctx := env.withCatalogs(WithGL(rec))
	defer ctx.Destroy()
	_, err := ctx.NewFontFromFamily(1, "Go")
	env.Require().NoError(err)
	env.NoError(ctx.PrepareGlyph(1, 'O', glyph.Line))
	env.Equal(1, rec.Live("list"))
	env.NoError(ctx.PrepareGlyph(1, 'O', glyph.Line))
	env.Equal(1, rec.Live("list"), "objects are created once per style")
	env.NoError(ctx.PrepareGlyph(1, 'O', glyph.Triangle))
	env.NoError(ctx.PrepareGlyph(1, 'O', glyph.Texture))
	env.Equal(3, rec.Live("list"))
	env.Equal(1, rec.Live("texture"))
	env.Equal(core.EPARAMETER, core.Code(ctx.PrepareGlyph(1, 'O', glyph.Bitmap)))
	env.Equal(core.EPARAMETER, core.Code(ctx.PrepareGlyph(1, 0x4E00, glyph.Line)))
	env.NoError(ctx.DeleteFont(1))
	env.Equal(0, rec.Live(), "deleting a font must release its GL objects")
}

func (env *ContextTestEnviron) TestBufferObjects() {
	rec := glyph.NewRecorder()
	conf := testConf()
	conf[BufferObjectsKey] = true
	ctx, err := NewContext(1, conf, WithEnv(noEnv), WithGL(rec))
	env.Require().NoError(err)
	defer ctx.Destroy()
	env.Equal("buffer-objects", ctx.Backend().Name())
	env.Require().NoError(ctx.AppendCatalog(env.goDir))
	_, err = ctx.NewFontFromFamily(1, "Go")
	env.Require().NoError(err)
	env.NoError(ctx.PrepareGlyph(1, 'O', glyph.Triangle))
	f, _ := ctx.Font(1)
	g, _ := f.GetGlyph('O')
	env.Require().NotNil(g.Geometry())
	env.Equal(2, g.Geometry().ContourCount(), "'O' has two contours")
	env.Equal(2, rec.Live("buffer"))
}

func (env *ContextTestEnviron) TestFaceCacheDisabled() {
	conf := testConf()
	conf["glc.face-cache"] = 0
	ctx, err := NewContext(1, conf, WithEnv(noEnv))
	env.Require().NoError(err)
	defer ctx.Destroy()
	env.Require().NoError(ctx.AppendCatalog(env.goDir))
	f, err := ctx.ResolveFont('A')
	env.Require().NoError(err)
	env.Require().NotNil(f)
	_, err = f.BoundingBox('A', 12, 12, ctx.Settings())
	env.NoError(err)
	env.Equal(0, f.Face().OpenCount())
}
