package engine

import (
	"github.com/spaghettifunk/gaps/engine/core"
)

// registerInternalEvents binds the window to the dispatcher and installs the
// listeners the engine itself relies on.
func (e *Engine) registerInternalEvents() {
	e.window.BindEvents(e.events)

	e.events.Register(core.EVENT_CODE_APPLICATION_QUIT, e.onQuit)
	e.events.Register(core.EVENT_CODE_KEY_PRESSED, e.onKey)
	e.events.Register(core.EVENT_CODE_KEY_RELEASED, e.onKey)
	e.events.Register(core.EVENT_CODE_BUTTON_PRESSED, e.onButton)
	e.events.Register(core.EVENT_CODE_BUTTON_RELEASED, e.onButton)
	e.events.Register(core.EVENT_CODE_MOUSE_MOVED, e.onMouseMove)
	e.events.Register(core.EVENT_CODE_MOUSE_WHEEL, e.onMouseWheel)
	e.events.Register(core.EVENT_CODE_RESIZED, e.onResized)
	e.events.Register(core.EVENT_CODE_ASSET_CHANGED, e.onAssetChanged)
}

func (e *Engine) onQuit(context core.EventContext) {
	core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down")
	e.window.SetShouldClose(true)
}

func (e *Engine) onKey(context core.EventContext) {
	ke, ok := context.Data.(*core.KeyEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return
	}

	pressed := context.Type == core.EVENT_CODE_KEY_PRESSED
	e.input.ProcessKey(ke.KeyCode, pressed)

	if pressed && ke.KeyCode == core.KEY_ESCAPE {
		// NOTE: Technically firing an event to itself, but there may be other listeners.
		e.events.Enqueue(core.EventContext{
			Type:   core.EVENT_CODE_APPLICATION_QUIT,
			Sender: e,
		})
	}
}

func (e *Engine) onButton(context core.EventContext) {
	me, ok := context.Data.(*core.MouseEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return
	}
	e.input.ProcessButton(me.Button, context.Type == core.EVENT_CODE_BUTTON_PRESSED)
}

func (e *Engine) onMouseMove(context core.EventContext) {
	me, ok := context.Data.(*core.MouseEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return
	}
	e.input.ProcessMouseMove(me.PosX, me.PosY)
}

func (e *Engine) onMouseWheel(context core.EventContext) {
	me, ok := context.Data.(*core.MouseEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return
	}
	e.input.ProcessMouseWheel(me.ZDelta)
}

func (e *Engine) onResized(context core.EventContext) {
	se, ok := context.Data.(*core.SystemEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return
	}
	if se.WindowWidth == 0 || se.WindowHeight == 0 {
		core.LogInfo("window minimized")
		return
	}
	core.LogDebug("window resize: %d, %d", se.WindowWidth, se.WindowHeight)
	e.renderer.Resize(se.WindowWidth, se.WindowHeight)
}

func (e *Engine) onAssetChanged(context core.EventContext) {
	ae, ok := context.Data.(*core.AssetEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return
	}
	if ae.Removed {
		core.LogDebug("asset removed: %s", ae.Path)
		return
	}
	core.LogDebug("asset changed: %s", ae.Path)
}
