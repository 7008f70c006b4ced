package glyph

import "sync"

// Objects is the part of a GL driver concerned with object names: display
// lists, buffer objects and textures. Implementations return 0 (or nil) if
// an object cannot be created.
type Objects interface {
	GenLists(n int) uint32
	DeleteLists(base uint32, n int)
	GenBuffers(n int) []uint32
	DeleteBuffers(ids []uint32)
	GenTextures(n int) []uint32
	DeleteTextures(ids []uint32)
}

// Recorder implements Objects without a GL driver. It hands out fresh
// names and keeps track of all names currently alive. Recorder is the
// default for contexts without a GL binding and is handy for testing.
type Recorder struct {
	mu    sync.Mutex
	next  uint32
	live  map[uint32]string
	Limit int // if > 0, the maximum number of live objects
}

// NewRecorder creates an object recorder without limit.
func NewRecorder() *Recorder {
	return &Recorder{live: make(map[uint32]string)}
}

func (r *Recorder) gen(n int, kind string) []uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n <= 0 || (r.Limit > 0 && len(r.live)+n > r.Limit) {
		return nil
	}
	ids := make([]uint32, n)
	for i := range ids {
		r.next++
		ids[i] = r.next
		r.live[r.next] = kind
	}
	return ids
}

func (r *Recorder) del(ids []uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		delete(r.live, id)
	}
}

// GenLists allocates n consecutive display lists and returns the first name.
func (r *Recorder) GenLists(n int) uint32 {
	ids := r.gen(n, "list")
	if ids == nil {
		return 0
	}
	return ids[0]
}

// DeleteLists deletes n display lists starting at base.
func (r *Recorder) DeleteLists(base uint32, n int) {
	ids := make([]uint32, n)
	for i := range ids {
		ids[i] = base + uint32(i)
	}
	r.del(ids)
}

// GenBuffers allocates n buffer objects.
func (r *Recorder) GenBuffers(n int) []uint32 { return r.gen(n, "buffer") }

// DeleteBuffers deletes buffer objects.
func (r *Recorder) DeleteBuffers(ids []uint32) { r.del(ids) }

// GenTextures allocates n texture objects.
func (r *Recorder) GenTextures(n int) []uint32 { return r.gen(n, "texture") }

// DeleteTextures deletes texture objects.
func (r *Recorder) DeleteTextures(ids []uint32) { r.del(ids) }

// Live returns the number of objects alive, optionally restricted to one
// kind ("list", "buffer", "texture").
func (r *Recorder) Live(kind ...string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(kind) == 0 {
		return len(r.live)
	}
	n := 0
	for _, k := range r.live {
		if k == kind[0] {
			n++
		}
	}
	return n
}

var _ Objects = (*Recorder)(nil)
