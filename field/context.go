// Package field implements the three interactive background variants.
//
// A variant owns its particle or node store and is driven one frame at a time
// through a Context that carries the surface size, pointer state and clock.
package field

import (
	"math/rand"
	"time"
)

// Pointer is the last known pointer position. Every move event overwrites it.
type Pointer struct {
	X, Y         float32
	PrevX, PrevY float32
	Active       bool // false until the first move event after mount
}

// Delta returns the displacement between the last two move events.
func (p Pointer) Delta() (dx, dy float32) {
	return p.X - p.PrevX, p.Y - p.PrevY
}

// Context is the per-mount simulation state shared by the driver and the variant.
type Context struct {
	Width, Height float32
	Pointer       Pointer
	Time          float64 // Seconds since mount
	DT            float64 // Seconds since the previous frame
	Frame         uint64
	Rand          *rand.Rand
}

// NewContext creates a context seeded with seed, or with the clock when seed is 0.
func NewContext(seed int64) *Context {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Context{Rand: rand.New(rand.NewSource(seed))}
}

// MovePointer records a move event: the current position becomes the previous one.
// The first event after mount has no previous position, so both are set to (x, y).
func (c *Context) MovePointer(x, y float32) {
	if c.Pointer.Active {
		c.Pointer.PrevX, c.Pointer.PrevY = c.Pointer.X, c.Pointer.Y
	} else {
		c.Pointer.PrevX, c.Pointer.PrevY = x, y
	}
	c.Pointer.X, c.Pointer.Y = x, y
	c.Pointer.Active = true
}

// influence returns the pointer influence at (x, y) over radius, or 0 when the pointer is inactive.
func (c *Context) influence(x, y, radius float32) float32 {
	if !c.Pointer.Active {
		return 0
	}
	dx := c.Pointer.X - x
	dy := c.Pointer.Y - y
	return influenceAt(dx, dy, radius)
}
