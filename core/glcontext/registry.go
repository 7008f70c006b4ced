package glcontext

import (
	"sync"

	"github.com/npillmayer/glc/core"
	"github.com/npillmayer/glc/core/array"
	"github.com/npillmayer/schuko"
)

// Registry holds all contexts of a process. Contexts are created, made
// current and deleted through Threads.
type Registry struct {
	mu       sync.Mutex
	conf     schuko.Configuration
	opts     []Option
	contexts *array.Array[*Context] // in creation order
	threads  []*Thread
}

var globalRegistry *Registry

var globalRegistryCreation sync.Once

// GlobalRegistry is an application-wide registry, configured with conf on
// first use.
func GlobalRegistry(conf schuko.Configuration) *Registry {
	globalRegistryCreation.Do(func() {
		globalRegistry = NewRegistry(conf)
	})
	return globalRegistry
}

// NewRegistry creates a registry. New contexts are created with conf and
// opts.
func NewRegistry(conf schuko.Configuration, opts ...Option) *Registry {
	return &Registry{conf: conf, opts: opts, contexts: array.New[*Context](4)}
}

func (r *Registry) lookup(id int) *Context {
	if i := r.contexts.Index(func(c *Context) bool { return c.id == id }); i >= 0 {
		return r.contexts.At(i)
	}
	return nil
}

func (r *Registry) remove(c *Context) {
	if i := r.contexts.Index(func(x *Context) bool { return x == c }); i >= 0 {
		r.contexts.Remove(i)
	}
	c.teardown = true
	c.Destroy()
}

// Teardown destroys all contexts. GL objects are not deleted, as no GL
// context may be current any more.
func (r *Registry) Teardown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.contexts.Slice() {
		c.teardown = true
		c.owner = nil
		c.Destroy()
	}
	r.contexts.Reset()
	for _, t := range r.threads {
		t.current = nil
	}
	tracer().Infof("registry torn down")
}

// NewThread creates a thread of control for r. A Thread must not be used
// by more than one goroutine at a time.
func (r *Registry) NewThread() *Thread {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := &Thread{reg: r}
	r.threads = append(r.threads, t)
	return t
}

// --- Threads ---------------------------------------------------------------

// Thread is a client's thread of control: it has at most one current
// context, holds the registry lock with a nesting count, and records the
// first error of its commands until GetError is called.
type Thread struct {
	reg     *Registry
	current *Context
	locks   int
	err     core.Sticky
}

// Lock acquires the registry lock. Calls may be nested.
func (t *Thread) Lock() {
	if t.locks == 0 {
		t.reg.mu.Lock()
	}
	t.locks++
}

// Unlock releases one level of the registry lock.
func (t *Thread) Unlock() {
	if t.locks == 0 {
		panic("glcontext: unlock of unlocked registry")
	}
	t.locks--
	if t.locks == 0 {
		t.reg.mu.Unlock()
	}
}

func (t *Thread) raise(err error) error {
	t.err.Raise(err)
	return err
}

// GetError returns the code of the first error since the last call, and
// clears it.
func (t *Thread) GetError() int {
	return t.err.Get()
}

// GenContext creates a context and returns its ID, which is one more than
// the ID of the most recently created context still alive.
func (t *Thread) GenContext() (int, error) {
	c, err := NewContext(0, t.reg.conf, t.reg.opts...)
	if err != nil {
		return 0, t.raise(err)
	}
	t.Lock()
	defer t.Unlock()
	c.id = 1
	if last, ok := t.reg.contexts.Last(); ok {
		c.id = last.id + 1
	}
	t.reg.contexts.Append(c)
	return c.id, nil
}

// IsContext is a predicate: is id the ID of a context?
func (t *Thread) IsContext(id int) bool {
	t.Lock()
	defer t.Unlock()
	return t.reg.lookup(id) != nil
}

// AllContexts returns the IDs of all contexts in creation order.
func (t *Thread) AllContexts() []int {
	t.Lock()
	defer t.Unlock()
	ids := make([]int, 0, t.reg.contexts.Len())
	for _, c := range t.reg.contexts.Slice() {
		ids = append(ids, c.id)
	}
	return ids
}

// DeleteContext deletes context id. A context current to a thread is only
// marked for deletion; it is deleted when the thread releases it.
func (t *Thread) DeleteContext(id int) error {
	t.Lock()
	defer t.Unlock()
	c := t.reg.lookup(id)
	if c == nil {
		return t.raise(core.Error(core.EPARAMETER, "no context with ID %d", id))
	}
	if c.owner != nil {
		c.pendingDelete = true
		tracer().Debugf("context %d marked for deletion", id)
		return nil
	}
	t.reg.remove(c)
	return nil
}

// MakeCurrent makes context id current to t, releasing t's previous
// context. id 0 just releases the current context. A released context
// marked for deletion is deleted.
//
// It is an error to switch contexts from within an unmapped-code callback,
// or to make current a context which is current to another thread.
func (t *Thread) MakeCurrent(id int) error {
	if id < 0 {
		return t.raise(core.Error(core.EPARAMETER, "context ID must not be negative, is %d", id))
	}
	t.Lock()
	defer t.Unlock()
	prev := t.current
	if id != 0 {
		c := t.reg.lookup(id)
		if c == nil {
			return t.raise(core.Error(core.EPARAMETER, "no context with ID %d", id))
		}
		if prev != nil && prev.inCallback {
			return t.raise(core.Error(core.ESTATE, "cannot switch contexts from a callback"))
		}
		if c.owner != nil {
			if c.owner != t {
				return t.raise(core.Error(core.ESTATE, "context %d is current to another thread", id))
			}
			return nil
		}
		if prev != nil {
			prev.owner = nil
		}
		t.current, c.owner = c, t
	} else if prev != nil {
		t.current, prev.owner = nil, nil
	}
	if prev != nil && prev.pendingDelete {
		t.reg.remove(prev)
	}
	return nil
}

// ReleaseCurrent releases the current context, if any.
func (t *Thread) ReleaseCurrent() error {
	return t.MakeCurrent(0)
}

// Current returns the current context, or nil.
func (t *Thread) Current() *Context {
	return t.current
}

// CurrentID returns the ID of the current context, or 0.
func (t *Thread) CurrentID() int {
	if t.current == nil {
		return 0
	}
	return t.current.id
}

// Do runs cmd with the current context and records its error. Without a
// current context, Do fails with ESTATE.
func (t *Thread) Do(cmd func(*Context) error) error {
	if t.current == nil {
		return t.raise(core.Error(core.ESTATE, "no current context"))
	}
	return t.raise(cmd(t.current))
}
