/*
This is an example of application layer that will use the
engine package to test things out
*/
package testbed

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spaghettifunk/gaps/engine"
	"github.com/spaghettifunk/gaps/engine/core"
	"github.com/spaghettifunk/gaps/engine/math"
	"github.com/spaghettifunk/gaps/engine/renderer"
)

const metricsInterval = 1.0

type TestLayer struct {
	engine  *engine.Engine
	texture *renderer.Texture
	// TexturePath is loaded at start. An empty path skips the texture.
	TexturePath string

	keyListener   uuid.UUID
	assetListener uuid.UUID
	sinceMetrics  float64
}

func NewTestLayer(texturePath string) *TestLayer {
	return &TestLayer{
		TexturePath: texturePath,
	}
}

func (l *TestLayer) Start() error {
	core.LogDebug("TestLayer Start fn....")

	l.engine = engine.Current()
	if l.engine == nil {
		return fmt.Errorf("no active engine")
	}

	l.keyListener = l.engine.Events().Register(core.EVENT_CODE_KEY_PRESSED, l.onKey)
	l.assetListener = l.engine.Events().Register(core.EVENT_CODE_ASSET_CHANGED, l.onAssetChanged)

	if l.TexturePath != "" {
		l.texture = l.engine.Renderer().NewTexture(renderer.DefaultTextureDescriptor())
		if err := l.texture.Load(l.TexturePath); err != nil {
			// the sandbox still runs without it
			core.LogWarn("failed to load test texture: %s", err)
		}
	}
	return nil
}

func (l *TestLayer) Update(deltaTime float64) error {
	l.sinceMetrics += deltaTime
	if l.sinceMetrics < metricsInterval {
		return nil
	}
	l.sinceMetrics = 0

	fps, frameTime := l.engine.Metrics().Frame()
	mouse := l.normalizedMouse()
	core.LogDebug("FPS: %.1f, frame time: %.3fms, mouse: [%.2f, %.2f]", fps, frameTime, mouse.X, mouse.Y)
	return nil
}

// normalizedMouse maps the cursor to [-1, 1] on both axes, y pointing up.
func (l *TestLayer) normalizedMouse() math.Vec2 {
	x, y := l.engine.Input().GetMousePosition()
	w, h := l.engine.Window().FramebufferSize()
	return math.NewVec2(
		math.RangeConvertFloat32(float32(x), 0, float32(w), -1, 1),
		math.RangeConvertFloat32(float32(y), 0, float32(h), 1, -1),
	)
}

func (l *TestLayer) Render() error {
	if l.texture != nil && l.texture.IsLoaded() {
		l.texture.Bind(0)
	}
	return nil
}

func (l *TestLayer) Release() error {
	core.LogDebug("TestLayer Release fn....")
	if l.texture != nil {
		l.texture.Release()
	}
	if l.engine != nil {
		l.engine.Events().Unregister(core.EVENT_CODE_KEY_PRESSED, l.keyListener)
		l.engine.Events().Unregister(core.EVENT_CODE_ASSET_CHANGED, l.assetListener)
	}
	return nil
}

func (l *TestLayer) onKey(context core.EventContext) {
	ke, ok := context.Data.(*core.KeyEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return
	}

	switch ke.KeyCode {
	case core.KEY_A:
		// Example on checking for a key
		core.LogInfo("Explicit - A key pressed!")
	case core.KEY_R:
		if l.texture != nil {
			if err := l.texture.Reload(); err != nil {
				core.LogWarn("failed to reload test texture: %s", err)
			}
		}
	default:
		core.LogDebug("'%c' key pressed in window.", rune(ke.KeyCode))
	}
}

func (l *TestLayer) onAssetChanged(context core.EventContext) {
	ae, ok := context.Data.(*core.AssetEvent)
	if !ok || ae.Removed || l.texture == nil || !l.texture.IsLoaded() {
		return
	}
	if ae.Path == l.texture.Path() {
		if err := l.texture.Reload(); err != nil {
			core.LogWarn("failed to reload test texture: %s", err)
		}
	}
}
