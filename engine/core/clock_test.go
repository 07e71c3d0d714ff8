package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeTime struct {
	t time.Time
}

func (f *fakeTime) now() time.Time { return f.t }

func (f *fakeTime) advance(d time.Duration) { f.t = f.t.Add(d) }

func TestClockElapsed(t *testing.T) {
	ft := &fakeTime{t: time.Unix(1000, 0)}
	c := &Clock{now: ft.now}

	// not started: update is a no-op
	ft.advance(time.Second)
	c.Update()
	assert.Zero(t, c.Elapsed())
	assert.False(t, c.IsRunning())

	c.Start()
	ft.advance(1500 * time.Millisecond)
	c.Update()
	assert.InDelta(t, 1.5, c.Elapsed(), 1e-9)

	c.Stop()
	ft.advance(time.Second)
	c.Update()
	assert.InDelta(t, 1.5, c.Elapsed(), 1e-9, "stopped clock keeps its elapsed time")
}

func TestClockRestartResets(t *testing.T) {
	ft := &fakeTime{t: time.Unix(0, 0)}
	c := &Clock{now: ft.now}

	c.Start()
	ft.advance(2 * time.Second)
	c.Update()
	c.Start()
	assert.Zero(t, c.Elapsed())
}
