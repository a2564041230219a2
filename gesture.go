package quadview

import "github.com/go-gl/mathgl/mgl32"

// Phase is the lifecycle stage of a continuous gesture, mirroring the
// states platform gesture recognizers report.
type Phase int

const (
	PhaseBegan Phase = iota
	PhaseChanged
	PhaseEnded
	PhaseCancelled
)

// String returns the phase name for logging.
func (p Phase) String() string {
	switch p {
	case PhaseBegan:
		return "began"
	case PhaseChanged:
		return "changed"
	case PhaseEnded:
		return "ended"
	case PhaseCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Event is a gesture event consumed by [Tracker.Apply]. The concrete
// variants are [PanEvent], [PinchEvent], [RotateEvent] and [TapEvent].
type Event interface {
	isGestureEvent()
}

// PanEvent reports a drag. Translation is the recognizer's cumulative
// translation since the gesture began, in view points (Y down).
type PanEvent struct {
	Phase       Phase
	Translation mgl32.Vec2
}

// PinchEvent reports a two-finger zoom. Scale is the recognizer's
// cumulative scale factor since the gesture began. Focal is the centroid
// of the touches in view points.
type PinchEvent struct {
	Phase Phase
	Scale float32
	Focal mgl32.Vec2
}

// RotateEvent reports a two-finger rotation. Radians is the recognizer's
// cumulative rotation since the gesture began, clockwise-positive.
type RotateEvent struct {
	Phase   Phase
	Radians float32
}

// TapEvent reports a discrete tap at Location in view points. Taps have
// no phases.
type TapEvent struct {
	Location mgl32.Vec2
}

func (PanEvent) isGestureEvent()    {}
func (PinchEvent) isGestureEvent()  {}
func (RotateEvent) isGestureEvent() {}
func (TapEvent) isGestureEvent()    {}

// Tracker folds gesture events into a TransformState. It owns the
// per-gesture anchor state that continuous recognizers need between
// events; the anchors live only for the duration of a gesture.
//
// Tracker is not safe for concurrent use. Platform gesture callbacks
// arrive on a single goroutine, which is the intended calling context.
type Tracker struct {
	state   *TransformState
	density float32 // device pixels per view point
	viewW   float32 // view width in points
	viewH   float32 // view height in points

	pan struct {
		active bool
		anchor mgl32.Vec2 // last translation, in pixels
	}
	pinch struct {
		active bool
		anchor float32 // last recognizer scale
	}
	rotate struct {
		active bool
		anchor float32 // TransformState.Rotation when the gesture began
	}
}

// NewTracker creates a tracker mutating state. density is the content
// scale factor (device pixels per view point); viewWidth and viewHeight
// are the view size in points. A non-positive density defaults to 1.
func NewTracker(state *TransformState, density, viewWidth, viewHeight float32) *Tracker {
	if density <= 0 {
		density = 1
	}
	return &Tracker{
		state:   state,
		density: density,
		viewW:   viewWidth,
		viewH:   viewHeight,
	}
}

// SetViewSize updates the view size in points. Conversions of later
// gesture locations use the new size; the accumulated transform is
// left untouched.
func (t *Tracker) SetViewSize(width, height float32) {
	t.viewW = width
	t.viewH = height
}

// Apply dispatches one gesture event into the transform state. Events
// with unrecognized phases are ignored.
func (t *Tracker) Apply(ev Event) {
	switch e := ev.(type) {
	case PanEvent:
		t.applyPan(e)
	case PinchEvent:
		t.applyPinch(e)
	case RotateEvent:
		t.applyRotate(e)
	case TapEvent:
		t.applyTap(e)
	}
}

// renderSpace converts a location in view points (origin top-left, Y down)
// to render space (origin at view center, Y up, device pixels).
func (t *Tracker) renderSpace(p mgl32.Vec2) mgl32.Vec2 {
	x := p.X()*t.density - t.viewW*t.density/2
	y := -(p.Y()*t.density - t.viewH*t.density/2)
	return mgl32.Vec2{x, y}
}

// applyPan accumulates frame-to-frame drag deltas. The recognizer reports
// cumulative translation, so each changed event re-anchors on the value it
// carried; splitting a drag into more events cannot change the total.
func (t *Tracker) applyPan(e PanEvent) {
	switch e.Phase {
	case PhaseBegan:
		t.pan.active = true
		t.pan.anchor = e.Translation.Mul(t.density)
	case PhaseChanged:
		pos := e.Translation.Mul(t.density)
		if !t.pan.active {
			t.pan.active = true
			t.pan.anchor = pos
			return
		}
		delta := pos.Sub(t.pan.anchor)
		t.state.Translation[0] += delta.X()
		t.state.Translation[1] -= delta.Y() // view Y is down, render Y is up
		t.pan.anchor = pos
	case PhaseEnded, PhaseCancelled:
		t.pan.active = false
	}
}

// applyPinch scales about the gesture focal point. Each changed event
// contributes the ratio of the recognizer's cumulative scale to the last
// seen value, so the accumulation is order-free: the focal point stays
// fixed under the fingers and a ratio of 1 is an exact no-op.
func (t *Tracker) applyPinch(e PinchEvent) {
	switch e.Phase {
	case PhaseBegan:
		t.pinch.active = true
		t.pinch.anchor = e.Scale
	case PhaseChanged:
		if !t.pinch.active {
			t.pinch.active = true
			t.pinch.anchor = e.Scale
			return
		}
		if t.pinch.anchor <= 0 || e.Scale <= 0 {
			// Corrupted recognizer value. Skip the event without
			// re-anchoring so one bad sample cannot poison the gesture.
			Logger().Warn("quadview: ignoring non-positive pinch scale",
				"scale", e.Scale, "anchor", t.pinch.anchor)
			return
		}
		ratio := e.Scale / t.pinch.anchor
		focal := t.renderSpace(e.Focal)
		t.state.SetScale(t.state.Scale * ratio)
		t.state.Translation = focal.Add(t.state.Translation.Sub(focal).Mul(ratio))
		t.pinch.anchor = e.Scale
	case PhaseEnded, PhaseCancelled:
		t.pinch.active = false
	}
}

// applyRotate sets the rotation to the value at gesture start plus the
// recognizer's cumulative rotation. Unlike pan and pinch there is no
// re-anchoring on changed: the recognizer already reports the total since
// the gesture began, so each event replaces rather than adds. The final
// event of a session carries radians too, so ended and cancelled apply
// them before dropping the anchor.
func (t *Tracker) applyRotate(e RotateEvent) {
	switch e.Phase {
	case PhaseBegan:
		t.rotate.active = true
		t.rotate.anchor = t.state.Rotation
		t.state.Rotation = t.rotate.anchor + e.Radians
	case PhaseChanged:
		if !t.rotate.active {
			t.rotate.active = true
			t.rotate.anchor = t.state.Rotation
		}
		t.state.Rotation = t.rotate.anchor + e.Radians
	case PhaseEnded, PhaseCancelled:
		if t.rotate.active {
			t.state.Rotation = t.rotate.anchor + e.Radians
		}
		t.rotate.active = false
	}
}

// applyTap recenters the view on the tapped point by subtracting its
// render-space location from the translation.
func (t *Tracker) applyTap(e TapEvent) {
	loc := t.renderSpace(e.Location)
	t.state.Translation = t.state.Translation.Sub(loc)
}
