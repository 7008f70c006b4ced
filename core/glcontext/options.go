package glcontext

import (
	"os"

	"github.com/npillmayer/glc/core/font/glyph"
)

// Configuration keys, in addition to fontdb.SystemFontsKey and
// face.FaceCacheKey.
const (
	AttribStackDepthKey = "glc.attrib-stack-depth"
	BufferObjectsKey    = "glc.buffer-objects"
)

// DefaultAttribStackDepth is the depth of the attribute stack if none is
// configured.
const DefaultAttribStackDepth = 16

// Environment variables read at context creation.
const (
	CatalogListEnv   = "GLC_CATALOG_LIST"
	PathEnv          = "GLC_PATH"
	ListSeparatorEnv = "GLC_LIST_SEPARATOR"
)

// Resource names the sub-resources a context is built from, in the order
// of acquisition.
type Resource string

const (
	FaceManager   Resource = "face-manager"
	FontDatabase  Resource = "font-database"
	CatalogList   Resource = "catalog-list"
	MasterTable   Resource = "master-table"
	ScratchArrays Resource = "scratch-arrays"
)

// ResourceTracker is notified of every sub-resource a context acquires or
// releases. If Acquire returns an error, context creation fails and all
// resources acquired so far are released.
type ResourceTracker interface {
	Acquire(r Resource) error
	Release(r Resource)
}

type nopTracker struct{}

func (nopTracker) Acquire(Resource) error { return nil }
func (nopTracker) Release(Resource)       {}

type options struct {
	tracker ResourceTracker
	gl      glyph.Objects
	getenv  func(string) string
}

func defaultOptions() options {
	return options{tracker: nopTracker{}, getenv: os.Getenv}
}

// Option configures a new context.
type Option func(*options)

// WithTracker sets a tracker for the sub-resources of a context.
func WithTracker(t ResourceTracker) Option {
	return func(o *options) {
		if t != nil {
			o.tracker = t
		}
	}
}

// WithGL sets the GL object namer glyph objects are created with. Without
// it, a context uses a glyph.Recorder.
func WithGL(gl glyph.Objects) Option {
	return func(o *options) {
		o.gl = gl
	}
}

// WithEnv replaces the lookup of environment variables.
func WithEnv(getenv func(string) string) Option {
	return func(o *options) {
		if getenv != nil {
			o.getenv = getenv
		}
	}
}
