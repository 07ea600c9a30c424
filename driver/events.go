package driver

import "github.com/ecoveridian/backdrop/renderer"

// EventSink receives surface events.
type EventSink interface {
	OnResize(w, h float32)
	OnPointerMove(x, y float32)
}

// Surface is the host side of the bridge.
type Surface interface {
	// Size returns the current drawable size in pixels.
	Size() (w, h float32)
	// Canvas returns the drawing target, or nil when none is available.
	Canvas() renderer.Canvas
	// Subscribe registers sink for resize and pointer-move events.
	Subscribe(sink EventSink) (cancel func())
}

// EventHub fans host events out to subscribers. Hosts embed it to implement
// Surface.Subscribe. It is not safe for concurrent use.
type EventHub struct {
	next  int
	sinks map[int]EventSink
	order []int
}

// Subscribe registers sink. The returned cancel func is idempotent.
func (h *EventHub) Subscribe(sink EventSink) func() {
	if h.sinks == nil {
		h.sinks = make(map[int]EventSink)
	}
	h.next++
	id := h.next
	h.sinks[id] = sink
	h.order = append(h.order, id)

	return func() {
		if _, ok := h.sinks[id]; !ok {
			return
		}
		delete(h.sinks, id)
		for i, o := range h.order {
			if o == id {
				h.order = append(h.order[:i], h.order[i+1:]...)
				break
			}
		}
	}
}

// Resize delivers a resize event to every subscriber in subscription order.
func (h *EventHub) Resize(w, hgt float32) {
	for _, id := range h.snapshot() {
		if s, ok := h.sinks[id]; ok {
			s.OnResize(w, hgt)
		}
	}
}

// PointerMove delivers a pointer-move event to every subscriber.
func (h *EventHub) PointerMove(x, y float32) {
	for _, id := range h.snapshot() {
		if s, ok := h.sinks[id]; ok {
			s.OnPointerMove(x, y)
		}
	}
}

// Subscribers returns the number of live subscriptions.
func (h *EventHub) Subscribers() int {
	return len(h.sinks)
}

// snapshot copies the order so sinks may unsubscribe while being notified.
func (h *EventHub) snapshot() []int {
	return append([]int(nil), h.order...)
}
