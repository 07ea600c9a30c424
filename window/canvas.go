// Package window hosts a particle field in a resizable raylib window.
package window

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/ecoveridian/backdrop/renderer"
)

// Canvas draws into an off-screen render texture that is composited onto the
// window once per loop iteration. It must be created after rl.InitWindow.
type Canvas struct {
	target rl.RenderTexture2D
	w, h   int32
	active bool
}

// NewCanvas allocates a w x h render target.
func NewCanvas(w, h int32) *Canvas {
	c := &Canvas{w: w, h: h}
	c.target = rl.LoadRenderTexture(w, h)
	c.Clear()
	return c
}

// Resize reallocates the render target. The old contents are discarded.
func (c *Canvas) Resize(w, h int32) {
	if w == c.w && h == c.h {
		return
	}
	rl.UnloadRenderTexture(c.target)
	c.w, c.h = w, h
	c.target = rl.LoadRenderTexture(w, h)
	c.Clear()
}

// Begin redirects drawing into the render target.
func (c *Canvas) Begin() {
	if c.active {
		return
	}
	rl.BeginTextureMode(c.target)
	c.active = true
}

// End restores drawing to the window backbuffer.
func (c *Canvas) End() {
	if !c.active {
		return
	}
	rl.EndTextureMode()
	c.active = false
}

// Present composites the render target onto the window at the given opacity.
func (c *Canvas) Present(opacity float32) {
	// The texture is upside down (OpenGL convention), so flip it
	src := rl.Rectangle{X: 0, Y: float32(c.h), Width: float32(c.w), Height: -float32(c.h)}
	dst := rl.Rectangle{X: 0, Y: 0, Width: float32(c.w), Height: float32(c.h)}
	tint := rl.Color{R: 255, G: 255, B: 255, A: uint8(renderer.Clamp01(opacity) * 255)}
	rl.DrawTexturePro(c.target.Texture, src, dst, rl.Vector2{}, 0, tint)
}

// Unload releases the render target.
func (c *Canvas) Unload() {
	c.End()
	rl.UnloadRenderTexture(c.target)
}

// Size implements renderer.Canvas.
func (c *Canvas) Size() (w, h float32) {
	return float32(c.w), float32(c.h)
}

// Clear implements renderer.Canvas. It may be called outside Begin/End.
func (c *Canvas) Clear() {
	if c.active {
		rl.ClearBackground(rl.Blank)
		return
	}
	rl.BeginTextureMode(c.target)
	rl.ClearBackground(rl.Blank)
	rl.EndTextureMode()
}

// Fade implements renderer.Canvas.
func (c *Canvas) Fade(alpha float32) {
	rl.DrawRectangle(0, 0, c.w, c.h, toRL(renderer.RGBA(0, 0, 0, alpha)))
}

// Gradient implements renderer.Canvas. Spans are painted outermost first, each
// as a two-color radial gradient out to the span's outer stop.
func (c *Canvas) Gradient(x, y, radius float32, stops ...renderer.Stop) {
	if len(stops) == 0 || radius <= 0 {
		return
	}
	if len(stops) == 1 {
		rl.DrawCircleV(rl.Vector2{X: x, Y: y}, radius, toRL(stops[0].Color))
		return
	}
	cx, cy := int32(x), int32(y)
	for i := len(stops) - 1; i > 0; i-- {
		inner, outer := stops[i-1], stops[i]
		r := radius * outer.Offset
		if r <= 0 {
			continue
		}
		rl.DrawCircleGradient(cx, cy, r, toRL(inner.Color), toRL(outer.Color))
	}
}

// Circle implements renderer.Canvas.
func (c *Canvas) Circle(x, y, radius float32, col renderer.Color) {
	rl.DrawCircleV(rl.Vector2{X: x, Y: y}, radius, toRL(col))
}

// Line implements renderer.Canvas.
func (c *Canvas) Line(x1, y1, x2, y2, width float32, col renderer.Color) {
	rl.DrawLineEx(rl.Vector2{X: x1, Y: y1}, rl.Vector2{X: x2, Y: y2}, width, toRL(col))
}

func toRL(c renderer.Color) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: uint8(renderer.Clamp01(c.A)*255 + 0.5)}
}
