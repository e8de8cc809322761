package ui

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingComponent is an interactive test component: it renders its action
// count and records every action it receives.
type recordingComponent struct {
	actions int
	fail    error
}

func (c *recordingComponent) RenderHTML(w io.Writer) error {
	_, err := fmt.Fprintf(w, "<span>actions=%d</span>", c.actions)
	return err
}

func (c *recordingComponent) HandleAction(action string, data map[string]interface{}) error {
	if c.fail != nil {
		return c.fail
	}
	c.actions++
	return nil
}

func TestRegistryMountAndResolve(t *testing.T) {
	reg := NewRegistry()

	widget, err := reg.Mount(Text("hello"))
	require.NoError(t, err)
	assert.NotEmpty(t, widget.ID())
	assert.Contains(t, widget.HTML(), "hello")

	resolved, ok := reg.Resolve(widget.ID())
	require.True(t, ok)
	assert.Same(t, widget, resolved)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistryMountAssignsUniqueIDs(t *testing.T) {
	reg := NewRegistry()
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		widget, err := reg.Mount(Text("x"))
		require.NoError(t, err)
		require.False(t, seen[widget.ID()], "duplicate widget id")
		seen[widget.ID()] = true
	}
}

func TestRegistryDispatch(t *testing.T) {
	reg := NewRegistry()
	comp := &recordingComponent{}
	widget, err := reg.Mount(comp)
	require.NoError(t, err)
	assert.Contains(t, widget.HTML(), "actions=0")

	html, err := reg.Dispatch(widget.ID(), "tick", nil)
	require.NoError(t, err)
	assert.Contains(t, html, "actions=1")
	assert.Contains(t, widget.HTML(), "actions=1")
}

func TestRegistryDispatchUnknownWidget(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Dispatch("nope", "tick", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrWidgetNotFound))
}

func TestRegistryDispatchActionError(t *testing.T) {
	reg := NewRegistry()
	boom := errors.New("boom")
	widget, err := reg.Mount(&recordingComponent{fail: boom})
	require.NoError(t, err)

	_, err = reg.Dispatch(widget.ID(), "tick", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
}

func TestRegistryUnmount(t *testing.T) {
	reg := NewRegistry()
	widget, err := reg.Mount(Text("bye"))
	require.NoError(t, err)

	reg.Unmount(widget.ID())
	_, ok := reg.Resolve(widget.ID())
	assert.False(t, ok)
	assert.Equal(t, 0, reg.Len())

	// Unmounting again is a no-op.
	reg.Unmount(widget.ID())
}

func TestRegistryConcurrentMounts(t *testing.T) {
	reg := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := reg.Mount(Text("concurrent"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 32, reg.Len())
}
