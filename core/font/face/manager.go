package face

import (
	"os"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/npillmayer/glc/core"
	"golang.org/x/image/font/sfnt"
)

// FaceCacheKey is the configuration key for the number of simultaneously
// open faces. 0 selects descriptors which open their faces themselves.
const FaceCacheKey = "glc.face-cache"

// DefaultFaceCache is the face cache size if none is configured.
const DefaultFaceCache = 16

// FaceID identifies a face registered with a Manager.
type FaceID uint64

type source struct {
	file  string
	index int
}

// Manager keeps a bounded set of open faces. Faces are registered by file
// and face index and looked up by FaceID; least recently used faces are
// closed when the cache is full.
type Manager struct {
	mu      sync.Mutex
	cache   *lru.Cache
	sources map[FaceID]source
	next    FaceID
	opened  int
}

// NewManager creates a face manager holding up to size open faces.
func NewManager(size int) (*Manager, error) {
	if size <= 0 {
		return nil, core.Error(core.EPARAMETER, "face cache size must be positive, is %d", size)
	}
	m := &Manager{sources: make(map[FaceID]source)}
	cache, err := lru.NewWithEvict(size, func(key, value interface{}) {
		tracer().Debugf("face cache: closing face %d", key.(FaceID))
	})
	if err != nil {
		return nil, core.WrapError(err, core.ERESOURCE, "cannot create face cache")
	}
	m.cache = cache
	return m, nil
}

// Register makes the face at index inside file known to the manager. The
// face is not opened until it is looked up.
func (m *Manager) Register(file string, index int) FaceID {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	m.sources[m.next] = source{file: file, index: index}
	return m.next
}

// Lookup returns the open face for id, opening it if it is not in the
// cache.
func (m *Manager) Lookup(id FaceID) (*sfnt.Font, error) {
	if f, ok := m.cache.Get(id); ok {
		return f.(*sfnt.Font), nil
	}
	m.mu.Lock()
	src, ok := m.sources[id]
	m.mu.Unlock()
	if !ok {
		return nil, core.Error(core.EPARAMETER, "face %d is not registered", id)
	}
	f, err := openFace(src.file, src.index)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.opened++
	m.mu.Unlock()
	m.cache.Add(id, f)
	return f, nil
}

// RemoveFace closes the face for id and forgets its registration.
func (m *Manager) RemoveFace(id FaceID) {
	m.cache.Remove(id)
	m.mu.Lock()
	delete(m.sources, id)
	m.mu.Unlock()
}

// Purge closes all open faces. Registrations are kept.
func (m *Manager) Purge() {
	m.cache.Purge()
}

// Len returns the number of open faces.
func (m *Manager) Len() int {
	return m.cache.Len()
}

// Registered returns the number of registered faces.
func (m *Manager) Registered() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sources)
}

// Opened returns how often a face file has been opened.
func (m *Manager) Opened() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opened
}

func openFace(file string, index int) (*sfnt.Font, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, core.WrapError(err, core.ERESOURCE, "cannot open face file %s", file)
	}
	coll, err := sfnt.ParseCollection(data)
	if err != nil {
		return nil, core.WrapError(err, core.ERESOURCE, "cannot parse face file %s", file)
	}
	f, err := coll.Font(index)
	if err != nil {
		return nil, core.WrapError(err, core.ERESOURCE, "no face #%d in %s", index, file)
	}
	return f, nil
}
