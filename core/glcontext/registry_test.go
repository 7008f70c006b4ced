package glcontext

import (
	"testing"

	"github.com/npillmayer/glc/core"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryIDs(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glc.context")
	defer teardown()
	reg := NewRegistry(testConf(), WithEnv(noEnv))
	defer reg.Teardown()
	th := reg.NewThread()
	for want := 1; want <= 3; want++ {
		id, err := th.GenContext()
		require.NoError(t, err)
		assert.Equal(t, want, id)
	}
	require.NoError(t, th.DeleteContext(3))
	id, err := th.GenContext()
	require.NoError(t, err)
	assert.Equal(t, 3, id, "IDs continue from the last context")
	require.NoError(t, th.DeleteContext(1))
	assert.Equal(t, []int{2, 3}, th.AllContexts())
	assert.False(t, th.IsContext(1))
	assert.Equal(t, core.EPARAMETER, core.Code(th.DeleteContext(1)))
	assert.Equal(t, core.EPARAMETER, th.GetError())
	assert.Equal(t, core.NOERROR, th.GetError(), "GetError must clear the error")
}

func TestMakeCurrent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glc.context")
	defer teardown()
	reg := NewRegistry(testConf(), WithEnv(noEnv))
	defer reg.Teardown()
	t1, t2 := reg.NewThread(), reg.NewThread()
	a, _ := t1.GenContext()
	b, _ := t1.GenContext()
	require.NoError(t, t1.MakeCurrent(a))
	assert.Equal(t, a, t1.CurrentID())
	require.NoError(t, t1.MakeCurrent(a), "making the own context current again is a no-op")
	assert.Equal(t, core.ESTATE, core.Code(t2.MakeCurrent(a)))
	assert.Equal(t, core.ESTATE, t2.GetError())
	assert.Equal(t, core.EPARAMETER, core.Code(t2.MakeCurrent(-1)))
	assert.Equal(t, core.EPARAMETER, core.Code(t2.MakeCurrent(42)))
	t2.GetError()
	require.NoError(t, t2.MakeCurrent(b))
	// switching releases the previous context
	require.NoError(t, t1.ReleaseCurrent())
	assert.Nil(t, t1.Current())
	require.NoError(t, t2.MakeCurrent(a))
	assert.Equal(t, a, t2.CurrentID())
	require.NoError(t, t1.MakeCurrent(b), "b has been released by switching")
}

func TestPendingDelete(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glc.context")
	defer teardown()
	reg := NewRegistry(testConf(), WithEnv(noEnv))
	defer reg.Teardown()
	t1, t2 := reg.NewThread(), reg.NewThread()
	id, _ := t1.GenContext()
	require.NoError(t, t1.MakeCurrent(id))
	require.NoError(t, t2.DeleteContext(id))
	assert.True(t, t2.IsContext(id), "current context is only marked for deletion")
	assert.NoError(t, t1.Do(func(ctx *Context) error { return ctx.SetResolution(96) }))
	require.NoError(t, t1.ReleaseCurrent())
	assert.False(t, t2.IsContext(id), "released context must be deleted")
}

func TestDoWithoutContext(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glc.context")
	defer teardown()
	reg := NewRegistry(testConf(), WithEnv(noEnv))
	defer reg.Teardown()
	th := reg.NewThread()
	called := false
	err := th.Do(func(*Context) error { called = true; return nil })
	assert.False(t, called)
	assert.Equal(t, core.ESTATE, core.Code(err))
	id, _ := th.GenContext()
	require.NoError(t, th.MakeCurrent(id))
	_ = th.Do(func(ctx *Context) error { return ctx.SetTolerance(-1) })
	_ = th.Do(func(ctx *Context) error { return ctx.PopAttrib() })
	assert.Equal(t, core.ESTATE, th.GetError(), "first error sticks")
	_ = th.Do(func(ctx *Context) error { return ctx.PopAttrib() })
	assert.Equal(t, core.ESTACKUNDERFLOW, th.GetError())
}

func TestTeardownReleasesThreads(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glc.context")
	defer teardown()
	reg := NewRegistry(testConf(), WithEnv(noEnv))
	t1, t2 := reg.NewThread(), reg.NewThread()
	a, _ := t1.GenContext()
	b, _ := t2.GenContext()
	require.NoError(t, t1.MakeCurrent(a))
	require.NoError(t, t2.MakeCurrent(b))
	reg.Teardown()
	assert.Nil(t, t1.Current())
	assert.Equal(t, 0, t2.CurrentID())
	called := false
	err := t1.Do(func(*Context) error { called = true; return nil })
	assert.False(t, called, "destroyed contexts must not be reachable")
	assert.Equal(t, core.ESTATE, core.Code(err))
	assert.Empty(t, t2.AllContexts())
	id, err := t2.GenContext()
	require.NoError(t, err)
	require.NoError(t, t2.MakeCurrent(id), "threads stay usable after teardown")
	reg.Teardown()
}

func TestNoSwitchInCallback(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glc.context")
	defer teardown()
	reg := NewRegistry(testConf(), WithEnv(noEnv))
	defer reg.Teardown()
	th := reg.NewThread()
	a, _ := th.GenContext()
	b, _ := th.GenContext()
	require.NoError(t, th.MakeCurrent(a))
	var switchErr error
	_ = th.Do(func(ctx *Context) error {
		ctx.SetUnmappedCallback(func(*Context, rune) bool {
			switchErr = th.MakeCurrent(b)
			return false
		})
		_, err := ctx.ResolveFont('A')
		return err
	})
	assert.Equal(t, core.ESTATE, core.Code(switchErr))
	assert.Equal(t, a, th.CurrentID())
}

func TestNestedLock(t *testing.T) {
	reg := NewRegistry(testConf(), WithEnv(noEnv))
	th := reg.NewThread()
	th.Lock()
	th.Lock()
	assert.Empty(t, th.AllContexts(), "registry calls must not deadlock under a held lock")
	th.Unlock()
	th.Unlock()
	assert.Panics(t, th.Unlock)
}
