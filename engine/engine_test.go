package engine

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/spaghettifunk/gaps/engine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var frameStages = []string{"dispatch-events", "window-update", "app-update", "clear", "app-render", "swap"}

var startupCalls = []string{
	"native.init",
	"window.create",
	"native.load",
	"window.bind",
	"renderer.setup",
	"renderer.resize",
	"app-start",
}

func newEngine(t *testing.T, h *harness) *Engine {
	t.Helper()
	e, err := New(h.factory, h.options()...)
	require.NoError(t, err)
	t.Cleanup(e.Release)
	return e
}

// loopCalls returns the calls recorded between the application start and
// the application release.
func loopCalls(calls []string) []string {
	start, end := -1, len(calls)
	for i, c := range calls {
		if c == "app-start" && start < 0 {
			start = i + 1
		}
		if c == "app-release" {
			end = i
			break
		}
	}
	if start < 0 {
		return nil
	}
	return calls[start:end]
}

func repeatFrames(n int) []string {
	var out []string
	for i := 0; i < n; i++ {
		out = append(out, frameStages...)
	}
	return out
}

func TestRunStageOrder(t *testing.T) {
	for _, frames := range []int{1, 3, 10} {
		h := newHarness()
		h.window.closeOnUpdate = frames
		e := newEngine(t, h)

		require.NoError(t, e.Run())
		e.Release()

		assert.Equal(t, repeatFrames(frames), loopCalls(h.rec.snapshot()))
		assert.Equal(t, uint64(frames), e.FrameCount())
		assert.Len(t, h.app.deltas, frames)
	}
}

func TestRunTraceGolden(t *testing.T) {
	h := newHarness()
	h.window.closeOnUpdate = 3
	e := newEngine(t, h)

	require.Equal(t, ExitSuccess, e.Start())
	e.Release()

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))
	g.Assert(t, "run_trace", []byte(strings.Join(h.rec.snapshot(), "\n")+"\n"))
}

func TestRunStartupOrder(t *testing.T) {
	h := newHarness()
	h.window.closeOnUpdate = 1
	e := newEngine(t, h)

	require.NoError(t, e.Run())

	calls := h.rec.snapshot()
	require.GreaterOrEqual(t, len(calls), 4+len(startupCalls))
	assert.Equal(t, startupCalls, calls[4:4+len(startupCalls)])
	assert.Equal(t, [][2]uint32{{800, 600}}, h.renderer.sizes)
}

func TestCloseDuringWindowUpdateCompletesFrame(t *testing.T) {
	h := newHarness()
	h.window.closeOnUpdate = 1
	e := newEngine(t, h)

	require.NoError(t, e.Run())

	assert.Equal(t, frameStages, loopCalls(h.rec.snapshot()))
	assert.Equal(t, 1, h.app.frames)
}

func TestClosedWindowSkipsLoop(t *testing.T) {
	h := newHarness()
	h.window.shouldClose = true
	e := newEngine(t, h)

	require.NoError(t, e.Run())

	assert.Empty(t, loopCalls(h.rec.snapshot()))
	assert.True(t, h.rec.contains("app-release"))
	assert.Equal(t, uint64(0), e.FrameCount())
}

func TestNativeInitFailure(t *testing.T) {
	h := newHarness()
	h.native.initErr = errBoom
	e := newEngine(t, h)

	assert.Equal(t, ExitFailure, e.Start())

	calls := h.rec.snapshot()
	assert.Equal(t, []string{"dispatcher.new", "window.new", "renderer.new", "app.new", "native.init"}, calls)

	e.Release()
	assert.False(t, h.rec.contains("native.terminate"))
}

func TestNativeInitFailureError(t *testing.T) {
	h := newHarness()
	h.native.initErr = errBoom
	e := newEngine(t, h)

	err := e.Run()
	assert.ErrorIs(t, err, core.ErrNativeInit)
	assert.ErrorIs(t, err, errBoom)
}

func TestWindowCreateFailure(t *testing.T) {
	h := newHarness()
	h.window.createErr = errBoom
	e := newEngine(t, h)

	assert.ErrorIs(t, e.Run(), errBoom)
	assert.False(t, h.rec.contains("native.load"))
	assert.False(t, h.rec.contains("app-start"))

	e.Release()
	assert.True(t, h.rec.contains("native.terminate"))
}

func TestFunctionLoaderFailure(t *testing.T) {
	h := newHarness()
	h.native.loadErr = errBoom
	e := newEngine(t, h)

	assert.ErrorIs(t, e.Run(), core.ErrFunctionLoader)
	assert.False(t, h.rec.contains("renderer.setup"))
	assert.False(t, h.rec.contains("app-start"))
}

func TestRendererSetupFailure(t *testing.T) {
	h := newHarness()
	h.renderer.setupErr = errBoom
	e := newEngine(t, h)

	assert.Equal(t, ExitFailure, e.Start())
	assert.False(t, h.rec.contains("app-start"))
}

func TestApplicationStartFailure(t *testing.T) {
	h := newHarness()
	h.app.startErr = errBoom
	e := newEngine(t, h)

	assert.ErrorIs(t, e.Run(), errBoom)
	assert.Empty(t, loopCalls(h.rec.snapshot()))

	e.Release()
	assert.True(t, h.rec.contains("app-release"))
}

func TestApplicationUpdateFailureStopsLoop(t *testing.T) {
	h := newHarness()
	h.app.updateErr = errBoom
	h.app.failOnFrame = 2
	h.window.closeOnUpdate = 10
	e := newEngine(t, h)

	assert.Equal(t, ExitFailure, e.Start())

	expected := append(repeatFrames(1), "dispatch-events", "window-update", "app-update")
	assert.Equal(t, expected, loopCalls(h.rec.snapshot()))
	assert.True(t, h.rec.contains("window.destroy"))
	assert.Equal(t, uint64(1), e.FrameCount())
}

func TestApplicationRenderFailureStopsLoop(t *testing.T) {
	h := newHarness()
	h.app.renderErr = errBoom
	h.app.failOnFrame = 1
	h.window.closeOnUpdate = 10
	e := newEngine(t, h)

	err := e.Run()
	assert.ErrorIs(t, err, errBoom)

	assert.Equal(t, frameStages[:5], loopCalls(h.rec.snapshot()))
}

func TestApplicationReleaseFailure(t *testing.T) {
	h := newHarness()
	h.app.releaseErr = errBoom
	h.window.closeOnUpdate = 1
	e := newEngine(t, h)

	assert.ErrorIs(t, e.Run(), errBoom)
}

func TestRunTwice(t *testing.T) {
	h := newHarness()
	h.window.closeOnUpdate = 1
	e := newEngine(t, h)

	require.NoError(t, e.Run())
	assert.ErrorIs(t, e.Run(), core.ErrInvalidStage)
}

func TestQuitClosesWindowOnNextDispatch(t *testing.T) {
	h := newHarness()
	h.window.closeOnUpdate = 10
	e := newEngine(t, h)
	h.app.onUpdate = func(frame int) {
		if frame == 1 {
			e.Quit()
		}
	}

	require.NoError(t, e.Run())

	// the quit is dispatched at the start of frame two, which still completes
	assert.Equal(t, 2, h.app.frames)
	assert.Equal(t, repeatFrames(2), loopCalls(h.rec.snapshot()))
}

func TestEscapeKeyQuits(t *testing.T) {
	h := newHarness()
	h.window.closeOnUpdate = 10
	h.window.onUpdate = func(update int, sink core.EventSink) {
		if update == 1 {
			sink.Enqueue(core.EventContext{
				Type: core.EVENT_CODE_KEY_PRESSED,
				Data: &core.KeyEvent{KeyCode: core.KEY_ESCAPE},
			})
		}
	}
	e := newEngine(t, h)

	var escapeSeen bool
	h.app.onUpdate = func(frame int) {
		if frame == 2 {
			escapeSeen = e.Input().IsKeyDown(core.KEY_ESCAPE)
		}
	}

	require.NoError(t, e.Run())

	// frame 2 turns the key into a quit event, frame 3 closes the window
	assert.Equal(t, 3, h.app.frames)
	assert.True(t, escapeSeen)
}

func TestEventsDispatchedBeforeUpdate(t *testing.T) {
	h := newHarness()
	h.window.closeOnUpdate = 3
	e := newEngine(t, h)

	var moves []int
	e.Events().Register(core.EVENT_CODE_MOUSE_MOVED, func(context core.EventContext) {
		moves = append(moves, h.app.frames)
	})
	h.window.onUpdate = func(update int, sink core.EventSink) {
		if update == 1 {
			sink.Enqueue(core.EventContext{
				Type: core.EVENT_CODE_MOUSE_MOVED,
				Data: &core.MouseEvent{PosX: 10, PosY: 20},
			})
		}
	}

	var positions [][2]int32
	h.app.onUpdate = func(frame int) {
		x, y := e.Input().GetMousePosition()
		positions = append(positions, [2]int32{x, y})
	}

	require.NoError(t, e.Run())

	// enqueued during frame 1 window update, delivered before frame 2 update
	assert.Equal(t, []int{1}, moves)
	assert.Equal(t, [][2]int32{{0, 0}, {10, 20}, {10, 20}}, positions)
}

func TestResizeReachesRenderer(t *testing.T) {
	h := newHarness()
	h.window.closeOnUpdate = 3
	h.window.onUpdate = func(update int, sink core.EventSink) {
		switch update {
		case 1:
			sink.Enqueue(core.EventContext{
				Type: core.EVENT_CODE_RESIZED,
				Data: &core.SystemEvent{WindowWidth: 1024, WindowHeight: 768},
			})
		case 2:
			sink.Enqueue(core.EventContext{
				Type: core.EVENT_CODE_RESIZED,
				Data: &core.SystemEvent{WindowWidth: 0, WindowHeight: 0},
			})
		}
	}
	e := newEngine(t, h)

	require.NoError(t, e.Run())

	assert.Equal(t, [][2]uint32{{800, 600}, {1024, 768}}, h.renderer.sizes)
}

func TestDeltaTimeWithinBounds(t *testing.T) {
	h := newHarness()
	h.window.closeOnUpdate = 5
	e := newEngine(t, h)

	require.NoError(t, e.Run())

	for _, d := range h.app.deltas {
		assert.GreaterOrEqual(t, d, 0.0)
		assert.LessOrEqual(t, d, h.config.MaxDeltaTime)
	}
}

func TestClampDelta(t *testing.T) {
	e := &Engine{config: ApplicationConfig{MaxDeltaTime: 0.25}}
	assert.Equal(t, 0.25, e.clampDelta(1.5))
	assert.Equal(t, 0.0, e.clampDelta(-0.1))
	assert.Equal(t, 0.1, e.clampDelta(0.1))

	e.config.MaxDeltaTime = 0
	assert.Equal(t, 5.0, e.clampDelta(5.0))
	assert.Equal(t, 0.0, e.clampDelta(-1.0))
}

func TestConstructionAndDestructionOrder(t *testing.T) {
	h := newHarness()
	e := newEngine(t, h)
	assert.Equal(t, EngineStageInitialized, e.Stage())

	e.Release()

	assert.Equal(t, []string{
		"dispatcher.new",
		"window.new",
		"renderer.new",
		"app.new",
		"app-release",
		"renderer.shutdown",
		"window.destroy",
		"dispatcher.shutdown",
	}, h.rec.snapshot())
}

func TestReleaseTwice(t *testing.T) {
	h := newHarness()
	h.window.closeOnUpdate = 1
	e := newEngine(t, h)
	require.NoError(t, e.Run())

	e.Release()
	calls := h.rec.snapshot()
	assert.NotPanics(t, e.Release)
	assert.Equal(t, calls, h.rec.snapshot())

	assert.Equal(t, EngineStageReleased, e.Stage())
	assert.Nil(t, Current())
}

func TestSingleActiveEngine(t *testing.T) {
	h := newHarness()
	e := newEngine(t, h)
	assert.Same(t, e, Current())

	other := newHarness()
	_, err := New(other.factory, other.options()...)
	assert.ErrorIs(t, err, core.ErrEngineActive)
	assert.Empty(t, other.rec.snapshot())

	e.Release()
	assert.Nil(t, Current())

	again, err := New(other.factory, other.options()...)
	require.NoError(t, err)
	again.Release()
}

func TestNewValidation(t *testing.T) {
	h := newHarness()

	_, err := New(nil, h.options()...)
	assert.ErrorIs(t, err, core.ErrNilFactory)

	_, err = New(h.factory)
	assert.ErrorIs(t, err, core.ErrMissingSubsystem)
	assert.Nil(t, Current())
}

func TestNilApplicationLayer(t *testing.T) {
	h := newHarness()

	_, err := New(func() ApplicationLayer {
		h.rec.add("app.new")
		return nil
	}, h.options()...)

	assert.ErrorIs(t, err, core.ErrNilApplicationLayer)
	assert.Nil(t, Current())
	assert.Equal(t, []string{
		"dispatcher.new",
		"window.new",
		"renderer.new",
		"app.new",
		"renderer.shutdown",
		"window.destroy",
		"dispatcher.shutdown",
	}, h.rec.snapshot())
}

func TestNilSubsystemUnwinds(t *testing.T) {
	h := newHarness()
	opts := append(h.options(), WithRenderer(func(ApplicationConfig) Renderer {
		h.rec.add("renderer.new")
		return nil
	}))

	_, err := New(h.factory, opts...)

	assert.ErrorIs(t, err, core.ErrMissingSubsystem)
	assert.Nil(t, Current())
	assert.Equal(t, []string{
		"dispatcher.new",
		"window.new",
		"renderer.new",
		"window.destroy",
		"dispatcher.shutdown",
	}, h.rec.snapshot())
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "running", EngineStageRunning.String())
	assert.Equal(t, "unknown", Stage(99).String())
}

func TestAssetWatcherLifecycle(t *testing.T) {
	h := newHarness()
	h.config.Assets = AssetsConfig{Path: t.TempDir(), Watch: true}
	h.window.closeOnUpdate = 2
	e := newEngine(t, h)

	var watching bool
	h.app.onUpdate = func(frame int) {
		watching = e.Assets() != nil
	}

	require.NoError(t, e.Run())
	assert.True(t, watching)

	e.Release()
	assert.Nil(t, e.Assets())
}

func TestAssetWatcherMissingDirectory(t *testing.T) {
	h := newHarness()
	h.config.Assets = AssetsConfig{Path: "testdata/does-not-exist", Watch: true}
	h.window.closeOnUpdate = 1
	e := newEngine(t, h)

	require.NoError(t, e.Run())
	assert.Nil(t, e.Assets())
}

func TestReleaseLogsApplicationErrorVerbatim(t *testing.T) {
	var buf bytes.Buffer
	core.SetLogOutput(&buf)
	t.Cleanup(func() { core.SetLogOutput(os.Stderr) })

	h := newHarness()
	h.app.releaseErr = errors.New("cannot save Assets/100%d_done.png")
	e := newEngine(t, h)

	e.Release()

	assert.Contains(t, buf.String(), "cannot save Assets/100%d_done.png")
}
