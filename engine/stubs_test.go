package engine

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/spaghettifunk/gaps/engine/core"
	"github.com/spaghettifunk/gaps/engine/platform"
	"github.com/spaghettifunk/gaps/engine/renderer"
)

var errBoom = errors.New("boom")

type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *recorder) contains(call string) bool {
	for _, c := range r.snapshot() {
		if c == call {
			return true
		}
	}
	return false
}

type stubNative struct {
	rec     *recorder
	initErr error
	loadErr error
}

func (n *stubNative) Init() error {
	n.rec.add("native.init")
	return n.initErr
}

func (n *stubNative) LoadFunctions() error {
	n.rec.add("native.load")
	return n.loadErr
}

func (n *stubNative) Terminate() {
	n.rec.add("native.terminate")
}

type stubDispatcher struct {
	rec      *recorder
	inner    *core.EventDispatcher
	shutdown bool
}

func (d *stubDispatcher) Enqueue(context core.EventContext) {
	d.inner.Enqueue(context)
}

func (d *stubDispatcher) Register(code core.EventCode, onEvent core.FnOnEvent) uuid.UUID {
	return d.inner.Register(code, onEvent)
}

func (d *stubDispatcher) Unregister(code core.EventCode, id uuid.UUID) bool {
	return d.inner.Unregister(code, id)
}

func (d *stubDispatcher) DispatchEvents() int {
	d.rec.add("dispatch-events")
	return d.inner.DispatchEvents()
}

func (d *stubDispatcher) Shutdown() error {
	if !d.shutdown {
		d.shutdown = true
		d.rec.add("dispatcher.shutdown")
	}
	return d.inner.Shutdown()
}

type stubWindow struct {
	rec         *recorder
	createErr   error
	created     bool
	destroyed   bool
	shouldClose bool
	updates     int
	// closeOnUpdate flips the close flag during that Update call, 1-based.
	closeOnUpdate int
	onUpdate      func(update int, sink core.EventSink)
	sink          core.EventSink
}

func (w *stubWindow) Create(config platform.WindowConfig) error {
	w.rec.add("window.create")
	if w.createErr != nil {
		return w.createErr
	}
	if w.created {
		return core.ErrWindowAlreadyCreated
	}
	w.created = true
	return nil
}

func (w *stubWindow) ShouldClose() bool {
	return w.shouldClose
}

func (w *stubWindow) SetShouldClose(value bool) {
	w.shouldClose = value
}

func (w *stubWindow) Update() {
	w.rec.add("window-update")
	w.updates++
	if w.onUpdate != nil {
		w.onUpdate(w.updates, w.sink)
	}
	if w.updates == w.closeOnUpdate {
		w.shouldClose = true
	}
}

func (w *stubWindow) SwapBuffers() {
	w.rec.add("swap")
}

func (w *stubWindow) Destroy() {
	if w.destroyed {
		return
	}
	w.destroyed = true
	w.rec.add("window.destroy")
}

func (w *stubWindow) BindEvents(sink core.EventSink) {
	w.rec.add("window.bind")
	w.sink = sink
}

func (w *stubWindow) FramebufferSize() (uint32, uint32) {
	return 800, 600
}

type stubRenderer struct {
	rec      *recorder
	setupErr error
	sizes    [][2]uint32
	shutdown bool
}

func (r *stubRenderer) Setup() error {
	r.rec.add("renderer.setup")
	return r.setupErr
}

func (r *stubRenderer) ClearScreen() {
	r.rec.add("clear")
}

func (r *stubRenderer) Resize(width, height uint32) {
	r.rec.add("renderer.resize")
	r.sizes = append(r.sizes, [2]uint32{width, height})
}

func (r *stubRenderer) NewTexture(desc renderer.TextureDescriptor) *renderer.Texture {
	return nil
}

func (r *stubRenderer) Shutdown() error {
	if !r.shutdown {
		r.shutdown = true
		r.rec.add("renderer.shutdown")
	}
	return nil
}

type stubApp struct {
	rec        *recorder
	startErr   error
	updateErr  error
	renderErr  error
	releaseErr error
	// failOnFrame makes Update or Render fail on that frame, 1-based.
	failOnFrame int
	frames      int
	deltas      []float64
	onUpdate    func(frame int)
}

func (a *stubApp) Start() error {
	a.rec.add("app-start")
	return a.startErr
}

func (a *stubApp) Update(deltaTime float64) error {
	a.rec.add("app-update")
	a.frames++
	a.deltas = append(a.deltas, deltaTime)
	if a.onUpdate != nil {
		a.onUpdate(a.frames)
	}
	if a.updateErr != nil && a.frames == a.failOnFrame {
		return a.updateErr
	}
	return nil
}

func (a *stubApp) Render() error {
	a.rec.add("app-render")
	if a.renderErr != nil && a.frames == a.failOnFrame {
		return a.renderErr
	}
	return nil
}

func (a *stubApp) Release() error {
	a.rec.add("app-release")
	return a.releaseErr
}

// harness wires recording doubles for every subsystem.
type harness struct {
	rec        *recorder
	native     *stubNative
	dispatcher *stubDispatcher
	window     *stubWindow
	renderer   *stubRenderer
	app        *stubApp
	config     ApplicationConfig
}

func newHarness() *harness {
	rec := &recorder{}
	config := DefaultApplicationConfig()
	config.LogLevel = "error"
	return &harness{
		rec:        rec,
		native:     &stubNative{rec: rec},
		dispatcher: &stubDispatcher{rec: rec, inner: core.NewEventDispatcher()},
		window:     &stubWindow{rec: rec},
		renderer:   &stubRenderer{rec: rec},
		app:        &stubApp{rec: rec},
		config:     config,
	}
}

func (h *harness) factory() ApplicationLayer {
	h.rec.add("app.new")
	return h.app
}

func (h *harness) options() []Option {
	return []Option{
		WithConfig(h.config),
		WithNative(h.native),
		WithDispatcher(func() Dispatcher {
			h.rec.add("dispatcher.new")
			return h.dispatcher
		}),
		WithWindow(func() platform.Window {
			h.rec.add("window.new")
			return h.window
		}),
		WithRenderer(func(ApplicationConfig) Renderer {
			h.rec.add("renderer.new")
			return h.renderer
		}),
	}
}
