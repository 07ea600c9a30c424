package driver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFrameQueueNextTickSemantics(t *testing.T) {
	q := NewFrameQueue()
	var order []string

	var again FrameFunc
	again = func(time.Duration) {
		order = append(order, "again")
	}
	q.RequestFrame(func(time.Duration) {
		order = append(order, "first")
		// Requested during a tick: must wait for the next one
		q.RequestFrame(again)
	})
	q.RequestFrame(func(time.Duration) { order = append(order, "second") })

	assert.Equal(t, 2, q.Tick(0))
	assert.Equal(t, []string{"first", "second"}, order)
	assert.Equal(t, 1, q.Pending())

	assert.Equal(t, 1, q.Tick(time.Millisecond))
	assert.Equal(t, []string{"first", "second", "again"}, order)
	assert.Zero(t, q.Pending())
	assert.Zero(t, q.Tick(2*time.Millisecond))
}

func TestFrameQueueCancel(t *testing.T) {
	q := NewFrameQueue()
	ran := 0

	h := q.RequestFrame(func(time.Duration) { ran++ })
	q.CancelFrame(h)
	q.CancelFrame(h)
	q.CancelFrame(999)

	assert.Zero(t, q.Tick(0))
	assert.Zero(t, ran)
}

func TestFrameQueueCancelDuringTick(t *testing.T) {
	q := NewFrameQueue()
	ran := 0

	var second FrameHandle
	q.RequestFrame(func(time.Duration) { q.CancelFrame(second) })
	second = q.RequestFrame(func(time.Duration) { ran++ })

	assert.Equal(t, 1, q.Tick(0))
	assert.Zero(t, ran)
}

func TestFrameQueuePassesClock(t *testing.T) {
	q := NewFrameQueue()
	var got time.Duration
	q.RequestFrame(func(now time.Duration) { got = now })
	q.Tick(42 * time.Millisecond)
	assert.Equal(t, 42*time.Millisecond, got)
}

type countingSink struct {
	resizes, moves int
}

func (c *countingSink) OnResize(float32, float32)      { c.resizes++ }
func (c *countingSink) OnPointerMove(float32, float32) { c.moves++ }

func TestEventHub(t *testing.T) {
	var hub EventHub
	a, b := &countingSink{}, &countingSink{}

	cancelA := hub.Subscribe(a)
	hub.Subscribe(b)
	assert.Equal(t, 2, hub.Subscribers())

	hub.Resize(10, 10)
	hub.PointerMove(1, 1)
	assert.Equal(t, 1, a.resizes)
	assert.Equal(t, 1, b.moves)

	cancelA()
	cancelA()
	hub.PointerMove(2, 2)
	assert.Equal(t, 1, a.moves)
	assert.Equal(t, 2, b.moves)
	assert.Equal(t, 1, hub.Subscribers())
}
