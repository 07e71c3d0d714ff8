// Package desktop assembles an engine running in a GLFW window with an
// OpenGL 3.3 core renderer.
package desktop

import (
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spaghettifunk/gaps/engine"
	"github.com/spaghettifunk/gaps/engine/core"
	"github.com/spaghettifunk/gaps/engine/platform"
	"github.com/spaghettifunk/gaps/engine/renderer"
	"github.com/spaghettifunk/gaps/engine/renderer/opengl"
)

// Native initializes GLFW and loads the OpenGL entry points.
type Native struct{}

func (Native) Init() error {
	if err := glfw.Init(); err != nil {
		return err
	}
	major, minor, rev := glfw.GetVersion()
	core.LogDebug("GLFW %d.%d.%d initialized", major, minor, rev)
	return nil
}

// LoadFunctions must run after a window made its context current.
func (Native) LoadFunctions() error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl.Init: %w", err)
	}
	return nil
}

func (Native) Terminate() {
	glfw.Terminate()
}

// Options returns the engine options wiring the desktop subsystems.
func Options(config engine.ApplicationConfig) []engine.Option {
	return []engine.Option{
		engine.WithConfig(config),
		engine.WithNative(Native{}),
		engine.WithWindow(func() platform.Window {
			return NewGLFWWindow()
		}),
		engine.WithRendererBackend(func() renderer.RendererBackend {
			return opengl.New()
		}),
	}
}

// New builds a desktop engine. Extra options are applied after the desktop
// ones and may replace them.
func New(factory engine.ApplicationFactory, config engine.ApplicationConfig, opts ...engine.Option) (*engine.Engine, error) {
	return engine.New(factory, append(Options(config), opts...)...)
}
