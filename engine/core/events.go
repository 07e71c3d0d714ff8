package core

import (
	"sync"

	"github.com/google/uuid"
	"github.com/spaghettifunk/gaps/engine/containers"
)

// System internal event codes. Application should use codes beyond 255.
type EventCode uint16

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT EventCode = 0x01

	// Keyboard key pressed.
	/* Context usage:
	 * ke := context.Data.(*KeyEvent)
	 */
	EVENT_CODE_KEY_PRESSED EventCode = 0x02

	// Keyboard key released.
	/* Context usage:
	 * ke := context.Data.(*KeyEvent)
	 */
	EVENT_CODE_KEY_RELEASED EventCode = 0x03

	// Mouse button pressed.
	/* Context usage:
	 * me := context.Data.(*MouseEvent); me.Button
	 */
	EVENT_CODE_BUTTON_PRESSED EventCode = 0x04

	// Mouse button released.
	/* Context usage:
	 * me := context.Data.(*MouseEvent); me.Button
	 */
	EVENT_CODE_BUTTON_RELEASED EventCode = 0x05

	// Mouse moved.
	/* Context usage:
	 * me := context.Data.(*MouseEvent); me.PosX, me.PosY
	 */
	EVENT_CODE_MOUSE_MOVED EventCode = 0x06

	// Mouse wheel.
	/* Context usage:
	 * me := context.Data.(*MouseEvent); me.ZDelta
	 */
	EVENT_CODE_MOUSE_WHEEL EventCode = 0x07

	// Resized/resolution changed from the OS.
	/* Context usage:
	 * se := context.Data.(*SystemEvent); se.WindowWidth, se.WindowHeight
	 */
	EVENT_CODE_RESIZED EventCode = 0x08

	// A watched asset was created, modified or removed on disk.
	/* Context usage:
	 * ae := context.Data.(*AssetEvent); ae.Path
	 */
	EVENT_CODE_ASSET_CHANGED EventCode = 0x09

	MAX_EVENT_CODE EventCode = 0xFF
)

type EventContext struct {
	Type   EventCode
	Sender interface{}
	Data   interface{}
}

type KeyEvent struct {
	KeyCode KeyCode
}

type MouseEvent struct {
	Button Button
	PosX   int32
	PosY   int32
	ZDelta int8
}

type SystemEvent struct {
	WindowWidth  uint32
	WindowHeight uint32
}

type AssetEvent struct {
	Path    string
	Removed bool
}

// FnOnEvent is invoked once per delivered event.
type FnOnEvent func(context EventContext)

// EventSink is the producer side of the dispatcher. Windows and watchers only
// ever see this, never the dispatcher itself.
type EventSink interface {
	Enqueue(context EventContext)
}

type registeredEvent struct {
	id       uuid.UUID
	callback FnOnEvent
}

// EventDispatcher queues events and delivers them to registered listeners once
// per frame. Producers may enqueue from any goroutine; registration and
// dispatch belong to the frame loop.
type EventDispatcher struct {
	mu         sync.Mutex
	queue      *containers.RingQueue[EventContext]
	registered map[EventCode][]*registeredEvent
	isShutdown bool
}

const defaultQueueSize = 256

func NewEventDispatcher() *EventDispatcher {
	return &EventDispatcher{
		queue:      containers.NewRingQueue[EventContext](defaultQueueSize),
		registered: make(map[EventCode][]*registeredEvent),
	}
}

// Register adds a listener for the given code. Listeners for the same code are
// called in registration order. The returned id is needed to unregister.
func (d *EventDispatcher) Register(code EventCode, onEvent FnOnEvent) uuid.UUID {
	if onEvent == nil {
		LogWarn("refusing to register a nil listener for event code `%d`", code)
		return uuid.Nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.isShutdown {
		return uuid.Nil
	}
	event := &registeredEvent{
		id:       uuid.New(),
		callback: onEvent,
	}
	d.registered[code] = append(d.registered[code], event)
	return event.id
}

// Unregister removes the listener with the given id. Returns false if no such
// registration exists for the code.
func (d *EventDispatcher) Unregister(code EventCode, id uuid.UUID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	events := d.registered[code]
	for i, e := range events {
		if e.id == id {
			// copy so that an in-flight dispatch keeps its own snapshot intact
			next := make([]*registeredEvent, 0, len(events)-1)
			next = append(next, events[:i]...)
			next = append(next, events[i+1:]...)
			if len(next) == 0 {
				delete(d.registered, code)
			} else {
				d.registered[code] = next
			}
			return true
		}
	}
	return false
}

// Enqueue queues an event for the next DispatchEvents call.
func (d *EventDispatcher) Enqueue(context EventContext) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.isShutdown {
		return
	}
	d.queue.Enqueue(context)
}

// DispatchEvents delivers every event queued before the call, in enqueue
// order. Events enqueued by listeners while dispatching are left for the next
// call. Returns the number of delivered events.
func (d *EventDispatcher) DispatchEvents() int {
	d.mu.Lock()
	batch := make([]EventContext, 0, d.queue.Len())
	for !d.queue.IsEmpty() {
		ev, _ := d.queue.Dequeue()
		batch = append(batch, ev)
	}
	d.mu.Unlock()

	for _, ev := range batch {
		d.mu.Lock()
		listeners := d.registered[ev.Type]
		d.mu.Unlock()

		for _, l := range listeners {
			l.callback(ev)
		}
	}
	return len(batch)
}

// Pending returns how many events wait for the next dispatch.
func (d *EventDispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.queue.Len()
}

// ListenerCount returns the number of listeners registered for a code.
func (d *EventDispatcher) ListenerCount(code EventCode) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.registered[code])
}

// Shutdown drops every queued event and listener. Further enqueues are
// ignored. Calling it more than once is harmless.
func (d *EventDispatcher) Shutdown() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.isShutdown {
		return nil
	}
	d.queue.Clear()
	d.registered = make(map[EventCode][]*registeredEvent)
	d.isShutdown = true
	return nil
}
