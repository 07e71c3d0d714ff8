package engine

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/spaghettifunk/gaps/engine/assets"
	"github.com/spaghettifunk/gaps/engine/core"
	"github.com/spaghettifunk/gaps/engine/math"
	"github.com/spaghettifunk/gaps/engine/platform"
)

const (
	ExitSuccess = 0
	ExitFailure = 1
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently booting up
	EngineStageBooting
	// Engine subsystems are constructed and ready to run
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
	// Engine and every subsystem it owns are released
	EngineStageReleased
)

func (s Stage) String() string {
	switch s {
	case EngineStageUninitialized:
		return "uninitialized"
	case EngineStageBooting:
		return "booting"
	case EngineStageInitialized:
		return "initialized"
	case EngineStageRunning:
		return "running"
	case EngineStageShuttingDown:
		return "shutting down"
	case EngineStageReleased:
		return "released"
	default:
		return "unknown"
	}
}

// current holds the one active engine of the process.
var current atomic.Pointer[Engine]

// Current returns the active engine, or nil.
func Current() *Engine {
	return current.Load()
}

// Engine owns the event dispatcher, the window, the renderer and the
// application layer, and drives them through the frame loop.
type Engine struct {
	currentStage Stage
	config       ApplicationConfig

	native       platform.Native
	events       Dispatcher
	window       platform.Window
	renderer     Renderer
	app          ApplicationLayer
	assetManager *assets.AssetManager

	input   *core.Input
	metrics *core.Metrics
	clock   *core.Clock

	nativeReady bool
	appReleased bool
	released    bool
	frameCount  uint64
}

// New builds the engine subsystems in order (event dispatcher, window,
// renderer) and then the application layer through factory. Only one engine
// may be active per process until it is released.
func New(factory ApplicationFactory, opts ...Option) (*Engine, error) {
	if factory == nil {
		return nil, core.ErrNilFactory
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.native == nil || o.newDispatcher == nil || o.newWindow == nil || o.newRenderer == nil {
		return nil, core.ErrMissingSubsystem
	}

	e := &Engine{
		currentStage: EngineStageUninitialized,
		config:       o.config,
		native:       o.native,
		input:        core.NewInput(),
		metrics:      core.NewMetrics(),
		clock:        core.NewClock(),
	}
	if !current.CompareAndSwap(nil, e) {
		return nil, core.ErrEngineActive
	}
	e.currentStage = EngineStageBooting

	if e.config.LogLevel != "" {
		if err := core.SetLogLevel(e.config.LogLevel); err != nil {
			core.LogWarn("%s", err)
		}
	}

	if e.events = o.newDispatcher(); e.events == nil {
		e.Release()
		return nil, fmt.Errorf("event dispatcher: %w", core.ErrMissingSubsystem)
	}
	if e.window = o.newWindow(); e.window == nil {
		e.Release()
		return nil, fmt.Errorf("window: %w", core.ErrMissingSubsystem)
	}
	if e.renderer = o.newRenderer(e.config); e.renderer == nil {
		e.Release()
		return nil, fmt.Errorf("renderer: %w", core.ErrMissingSubsystem)
	}
	if e.app = factory(); e.app == nil {
		e.Release()
		return nil, core.ErrNilApplicationLayer
	}

	e.currentStage = EngineStageInitialized
	return e, nil
}

// Start runs the engine and maps the outcome to a process exit code.
func (e *Engine) Start() int {
	if err := e.Run(); err != nil {
		core.LogError("engine stopped: %s", err)
		return ExitFailure
	}
	return ExitSuccess
}

// Run initializes the native libraries, opens the window, sets up the
// renderer and starts the application, then runs the frame loop until the
// window is asked to close. Each frame runs three stages in a fixed order:
//  1. every pending event is dispatched and the window pumps OS messages
//  2. the application updates
//  3. the screen is cleared, the application renders, buffers are swapped
//
// A close request raised during a frame takes effect at the next iteration.
func (e *Engine) Run() error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("cannot run from stage `%s`: %w", e.currentStage, core.ErrInvalidStage)
	}
	e.currentStage = EngineStageBooting

	if err := e.native.Init(); err != nil {
		core.LogCritical("failed to initialize native libraries: %s", err)
		return fmt.Errorf("%w: %w", core.ErrNativeInit, err)
	}
	e.nativeReady = true

	if err := e.window.Create(e.windowConfig()); err != nil {
		core.LogCritical("failed to create the window: %s", err)
		return fmt.Errorf("failed to create the window: %w", err)
	}

	if err := e.native.LoadFunctions(); err != nil {
		core.LogCritical("failed to load graphics functions: %s", err)
		return fmt.Errorf("%w: %w", core.ErrFunctionLoader, err)
	}

	e.registerInternalEvents()

	if err := e.renderer.Setup(); err != nil {
		core.LogCritical("failed to set up the renderer: %s", err)
		return fmt.Errorf("failed to set up the renderer: %w", err)
	}
	e.renderer.Resize(e.window.FramebufferSize())

	if e.config.Assets.Watch {
		e.startAssetManager()
	}

	if err := e.app.Start(); err != nil {
		core.LogCritical("application failed to start: %s", err)
		return fmt.Errorf("application failed to start: %w", err)
	}

	e.currentStage = EngineStageRunning
	core.LogInfo("engine running")

	loopErr := e.loop()

	e.currentStage = EngineStageShuttingDown
	releaseErr := e.releaseApplication()
	e.window.Destroy()

	if loopErr != nil {
		return loopErr
	}
	return releaseErr
}

func (e *Engine) loop() error {
	e.clock.Start()
	e.clock.Update()
	lastTime := e.clock.Elapsed()

	for !e.window.ShouldClose() {
		// stage 1: events
		e.events.DispatchEvents()
		e.window.Update()

		// stage 2: update
		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := e.clampDelta(currentTime - lastTime)
		lastTime = currentTime

		if err := e.app.Update(delta); err != nil {
			core.LogError("application update failed, shutting down")
			return fmt.Errorf("application update failed: %w", err)
		}

		// stage 3: render
		e.renderer.ClearScreen()
		if err := e.app.Render(); err != nil {
			core.LogError("application render failed, shutting down")
			return fmt.Errorf("application render failed: %w", err)
		}
		e.window.SwapBuffers()
		e.frameCount++

		// NOTE: input state rolls over only once every stage of the frame
		// had the chance to read it.
		e.input.Update()

		e.clock.Update()
		frameElapsedTime := e.clock.Elapsed() - currentTime
		e.metrics.Update(frameElapsedTime)

		if e.config.LimitFrames && e.config.TargetFPS > 0 {
			remainingSeconds := 1.0/e.config.TargetFPS - frameElapsedTime
			if remainingSeconds > 0 {
				time.Sleep(time.Duration(remainingSeconds * float64(time.Second)))
			}
		}
	}
	return nil
}

func (e *Engine) clampDelta(delta float64) float64 {
	if e.config.MaxDeltaTime <= 0 {
		return max(delta, 0)
	}
	return math.Clamp(delta, 0, e.config.MaxDeltaTime)
}

// Quit asks the engine to stop after the current frame. Safe to call from any
// goroutine.
func (e *Engine) Quit() {
	if e.events == nil {
		return
	}
	e.events.Enqueue(core.EventContext{
		Type:   core.EVENT_CODE_APPLICATION_QUIT,
		Sender: e,
	})
}

// Release tears down what New and Run built, in reverse construction order:
// application layer, renderer, window, event dispatcher, then the native
// libraries. Calling it more than once is harmless.
func (e *Engine) Release() {
	if e.released {
		return
	}
	e.currentStage = EngineStageShuttingDown

	if e.assetManager != nil {
		if err := e.assetManager.Close(); err != nil {
			core.LogError("failed to close the asset manager: %s", err)
		}
		e.assetManager = nil
	}
	if err := e.releaseApplication(); err != nil {
		core.LogError("%s", err)
	}
	if e.renderer != nil {
		if err := e.renderer.Shutdown(); err != nil {
			core.LogError("failed to shut the renderer down: %s", err)
		}
	}
	if e.window != nil {
		e.window.Destroy()
	}
	if e.events != nil {
		if err := e.events.Shutdown(); err != nil {
			core.LogError("failed to shut the event dispatcher down: %s", err)
		}
	}
	if e.nativeReady {
		e.native.Terminate()
		e.nativeReady = false
	}

	e.released = true
	e.currentStage = EngineStageReleased
	current.CompareAndSwap(e, nil)
}

func (e *Engine) releaseApplication() error {
	if e.app == nil || e.appReleased {
		return nil
	}
	e.appReleased = true
	if err := e.app.Release(); err != nil {
		return fmt.Errorf("application release failed: %w", err)
	}
	return nil
}

func (e *Engine) startAssetManager() {
	am, err := assets.NewAssetManager(e.events)
	if err != nil {
		core.LogWarn("asset watching disabled: %s", err)
		return
	}
	if err := am.Initialize(e.config.Assets.Path); err != nil {
		core.LogWarn("asset watching disabled: %s", err)
		_ = am.Close()
		return
	}
	e.assetManager = am
}

func (e *Engine) windowConfig() platform.WindowConfig {
	return platform.WindowConfig{
		PosX:      e.config.StartPosX,
		PosY:      e.config.StartPosY,
		Width:     e.config.StartWidth,
		Height:    e.config.StartHeight,
		Title:     e.config.Name,
		VSync:     e.config.VSync,
		Resizable: e.config.Resizable,
	}
}

func (e *Engine) Events() Dispatcher {
	return e.events
}

func (e *Engine) Window() platform.Window {
	return e.window
}

func (e *Engine) Renderer() Renderer {
	return e.renderer
}

// Assets returns the asset manager, or nil when watching is disabled.
func (e *Engine) Assets() *assets.AssetManager {
	return e.assetManager
}

func (e *Engine) Input() *core.Input {
	return e.input
}

func (e *Engine) Metrics() *core.Metrics {
	return e.metrics
}

func (e *Engine) Config() ApplicationConfig {
	return e.config
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

// FrameCount returns how many frames completed all three stages.
func (e *Engine) FrameCount() uint64 {
	return e.frameCount
}
