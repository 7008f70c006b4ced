package glcontext

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/npillmayer/glc/core"
	"github.com/npillmayer/glc/core/array"
	"github.com/npillmayer/glc/core/font"
	"github.com/npillmayer/glc/core/font/face"
	"github.com/npillmayer/glc/core/font/fontdb"
	"github.com/npillmayer/glc/core/font/glyph"
	"github.com/npillmayer/schuko"
)

// Context is the state of a GLC session.
type Context struct {
	id      int
	conf    schuko.Configuration
	opts    options
	held    []Resource // acquired sub-resources, in order
	faces   *face.Manager
	db      *fontdb.Config
	backend glyph.Backend
	// catalogs and masters
	catalogs *array.Array[string]
	masters  *array.Array[uint64] // master hash table; positions are master IDs
	// fonts
	fontList     *array.Array[*font.Font] // all fonts, in creation order
	genFontList  *array.Array[*font.Font] // empty fonts reserving an ID
	currentFonts *array.Array[*font.Font] // fallback order; not owned
	scratch      *face.RendererData
	// state
	enable         enableState
	render         renderState
	str            stringState
	matrix         [4]float32
	attribStack    []attribLevel
	maxAttribDepth int
	// registry bookkeeping
	owner         *Thread // thread the context is current to
	pendingDelete bool
	inCallback    bool
	teardown      bool
}

// NewContext creates a context with ID id. Creation either succeeds as a
// whole or releases every sub-resource acquired so far.
//
// Initial catalogs are taken from the environment, see CatalogListEnv.
// Catalogs which cannot be registered are skipped.
func NewContext(id int, conf schuko.Configuration, opts ...Option) (*Context, error) {
	c := &Context{id: id, conf: conf, opts: defaultOptions()}
	for _, opt := range opts {
		opt(&c.opts)
	}
	c.initState()
	c.maxAttribDepth = DefaultAttribStackDepth
	if conf != nil && conf.IsSet(AttribStackDepthKey) {
		c.maxAttribDepth = conf.GetInt(AttribStackDepthKey)
	}
	if err := c.build(); err != nil {
		c.release()
		tracer().Errorf("cannot create context %d: %v", id, err)
		return nil, err
	}
	bufferObjects := conf != nil && conf.IsSet(BufferObjectsKey) && conf.GetBool(BufferObjectsKey)
	c.backend = glyph.NewBackend(bufferObjects, c.opts.gl)
	c.fontList = array.New[*font.Font](8)
	c.genFontList = array.New[*font.Font](4)
	c.currentFonts = array.New[*font.Font](4)
	c.catalogsFromEnv()
	tracer().Infof("context %d created, %d masters, %s backend", id, c.masters.Len(), c.backend.Name())
	return c, nil
}

func (c *Context) acquire(r Resource) error {
	if err := c.opts.tracker.Acquire(r); err != nil {
		return core.WrapError(err, core.ERESOURCE, "cannot acquire %s", r)
	}
	c.held = append(c.held, r)
	return nil
}

func (c *Context) build() (err error) {
	if err = c.acquire(FaceManager); err != nil {
		return
	}
	size := face.DefaultFaceCache
	if c.conf != nil && c.conf.IsSet(face.FaceCacheKey) {
		size = c.conf.GetInt(face.FaceCacheKey)
	}
	if size > 0 {
		if c.faces, err = face.NewManager(size); err != nil {
			return
		}
	}
	if err = c.acquire(FontDatabase); err != nil {
		return
	}
	c.db = fontdb.NewConfig(c.conf)
	if err = c.acquire(CatalogList); err != nil {
		return
	}
	c.catalogs = array.New[string](4)
	if err = c.acquire(MasterTable); err != nil {
		return
	}
	c.masters = array.New[uint64](32)
	c.UpdateHashTable()
	if err = c.acquire(ScratchArrays); err != nil {
		return
	}
	c.scratch = face.NewRendererData(c.render.tolerance)
	return nil
}

// release gives back the sub-resources in reverse order of acquisition.
func (c *Context) release() {
	for i := len(c.held) - 1; i >= 0; i-- {
		switch c.held[i] {
		case FaceManager:
			if c.faces != nil {
				c.faces.Purge()
				c.faces = nil
			}
		case FontDatabase:
			c.db = nil
		case CatalogList:
			c.catalogs = nil
		case MasterTable:
			c.masters = nil
		case ScratchArrays:
			c.scratch = nil
		}
		c.opts.tracker.Release(c.held[i])
	}
	c.held = nil
}

// listSeparator returns the separator of catalog lists in the environment.
func (c *Context) listSeparator() string {
	if sep := c.opts.getenv(ListSeparatorEnv); sep != "" {
		return sep
	}
	if runtime.GOOS == "windows" {
		return ";"
	}
	return ":"
}

func (c *Context) catalogsFromEnv() {
	list := c.opts.getenv(CatalogListEnv)
	if list == "" {
		list = c.opts.getenv(PathEnv)
	}
	if list == "" {
		return
	}
	for _, dir := range strings.Split(list, c.listSeparator()) {
		if dir == "" {
			continue
		}
		if err := c.AppendCatalog(dir); err != nil {
			tracer().Errorf("context %d: skipping catalog %s: %v", c.id, dir, err)
		}
	}
}

// ID returns the context's ID.
func (c *Context) ID() int {
	return c.id
}

func (c *Context) String() string {
	return fmt.Sprintf("context(%d)", c.id)
}

// Backend returns the glyph backend of the context.
func (c *Context) Backend() glyph.Backend {
	return c.backend
}

func (c *Context) resources() *font.Resources {
	return &font.Resources{DB: c.db, Faces: c.faces, Backend: c.backend}
}

// Destroy destroys all fonts of the context and releases its
// sub-resources. GL objects are not deleted if the context is destroyed
// during teardown.
func (c *Context) Destroy() {
	c.currentFonts.Reset()
	for _, f := range c.fontList.Slice() {
		f.Destroy(c.backend, c.teardown)
	}
	c.fontList.Reset()
	for _, f := range c.genFontList.Slice() {
		f.Destroy(c.backend, c.teardown)
	}
	c.genFontList.Reset()
	c.release()
	tracer().Infof("context %d destroyed", c.id)
}
