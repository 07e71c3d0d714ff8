package renderer

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/gaps/engine/core"
	"github.com/spaghettifunk/gaps/engine/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRendererSetupOnce(t *testing.T) {
	b := newFakeBackend()
	config := BackendConfig{ClearColour: math.NewVec4(0, 0, 0.2, 1), DepthTest: true}
	r := New(b, config)

	require.NoError(t, r.Setup())
	assert.True(t, r.IsSetup())
	assert.Equal(t, config, b.lastConfig)

	assert.ErrorIs(t, r.Setup(), core.ErrRendererAlreadySetup)
	assert.Equal(t, []string{"initialize"}, b.calls)
}

func TestRendererSetupFailure(t *testing.T) {
	b := newFakeBackend()
	b.initErr = errors.New("no context")
	r := New(b, BackendConfig{})

	assert.Error(t, r.Setup())
	assert.False(t, r.IsSetup())
}

func TestRendererClearScreenRequiresSetup(t *testing.T) {
	b := newFakeBackend()
	r := New(b, BackendConfig{})

	r.ClearScreen()
	assert.Empty(t, b.calls)

	require.NoError(t, r.Setup())
	r.ClearScreen()
	r.ClearScreen()
	assert.Equal(t, []string{"initialize", "clear", "clear"}, b.calls)
}

func TestRendererResize(t *testing.T) {
	b := newFakeBackend()
	r := New(b, BackendConfig{})

	// before setup only the size is remembered
	r.Resize(800, 600)
	assert.Empty(t, b.calls)

	require.NoError(t, r.Setup())
	r.Resize(1280, 720)
	assert.Equal(t, [2]uint32{1280, 720}, b.lastResize)

	r.Resize(0, 0)
	w, h := r.Size()
	assert.Equal(t, uint32(1280), w)
	assert.Equal(t, uint32(720), h)
}

func TestRendererShutdownIdempotent(t *testing.T) {
	b := newFakeBackend()
	r := New(b, BackendConfig{})
	require.NoError(t, r.Setup())

	require.NoError(t, r.Shutdown())
	require.NoError(t, r.Shutdown())
	assert.Equal(t, []string{"initialize", "shutdown"}, b.calls)

	r.ClearScreen()
	assert.ErrorIs(t, r.Setup(), core.ErrRendererShutdown)
}

func TestRendererShutdownWithoutSetup(t *testing.T) {
	b := newFakeBackend()
	r := New(b, BackendConfig{})
	require.NoError(t, r.Shutdown())
	assert.Empty(t, b.calls)
}

func TestRendererTypeString(t *testing.T) {
	assert.Equal(t, "opengl", OpenGL.String())
	assert.Equal(t, "unknown", RendererType(42).String())
}
