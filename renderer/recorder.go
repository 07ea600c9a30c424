package renderer

// Op names a recorded draw call.
type Op uint8

const (
	OpClear Op = iota
	OpFade
	OpGradient
	OpCircle
	OpLine
)

func (o Op) String() string {
	switch o {
	case OpClear:
		return "clear"
	case OpFade:
		return "fade"
	case OpGradient:
		return "gradient"
	case OpCircle:
		return "circle"
	case OpLine:
		return "line"
	default:
		return "unknown"
	}
}

// Call is one recorded draw call.
type Call struct {
	Op     Op
	X, Y   float32
	X2, Y2 float32
	Radius float32
	Width  float32
	Alpha  float32 // Fade alpha
	Color  Color
	Stops  []Stop
}

// Recorder is a Canvas that records draw calls instead of drawing them.
type Recorder struct {
	W, H  float32
	Calls []Call
}

// NewRecorder creates a recorder reporting the given size.
func NewRecorder(w, h float32) *Recorder {
	return &Recorder{W: w, H: h}
}

func (r *Recorder) Size() (w, h float32) { return r.W, r.H }

func (r *Recorder) Clear() {
	r.Calls = append(r.Calls, Call{Op: OpClear})
}

func (r *Recorder) Fade(alpha float32) {
	r.Calls = append(r.Calls, Call{Op: OpFade, Alpha: alpha})
}

func (r *Recorder) Gradient(x, y, radius float32, stops ...Stop) {
	r.Calls = append(r.Calls, Call{
		Op:     OpGradient,
		X:      x,
		Y:      y,
		Radius: radius,
		Stops:  append([]Stop(nil), stops...),
	})
}

func (r *Recorder) Circle(x, y, radius float32, c Color) {
	r.Calls = append(r.Calls, Call{Op: OpCircle, X: x, Y: y, Radius: radius, Color: c})
}

func (r *Recorder) Line(x1, y1, x2, y2, width float32, c Color) {
	r.Calls = append(r.Calls, Call{Op: OpLine, X: x1, Y: y1, X2: x2, Y2: y2, Width: width, Color: c})
}

// Reset drops every recorded call.
func (r *Recorder) Reset() {
	r.Calls = r.Calls[:0]
}

// Count returns the number of recorded calls of the given op.
func (r *Recorder) Count(op Op) int {
	n := 0
	for i := range r.Calls {
		if r.Calls[i].Op == op {
			n++
		}
	}
	return n
}

// Alphas returns every alpha value passed through the recorder, including gradient stops.
func (r *Recorder) Alphas() []float32 {
	var out []float32
	for _, c := range r.Calls {
		switch c.Op {
		case OpFade:
			out = append(out, c.Alpha)
		case OpGradient:
			for _, s := range c.Stops {
				out = append(out, s.Color.A)
			}
		case OpCircle, OpLine:
			out = append(out, c.Color.A)
		}
	}
	return out
}
