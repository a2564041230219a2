package quadview

import "errors"

// ErrNoRenderer is returned by Viewer.RenderFrame when no FrameRenderer
// has been configured.
var ErrNoRenderer = errors.New("quadview: no frame renderer configured")

// FrameRenderer draws one frame from the current transform state.
// The gpu sub-package provides the hardware implementation; tests
// substitute their own.
type FrameRenderer interface {
	// RenderFrame draws the quad with the given placement. A frame that
	// cannot be drawn because no drawable is available is dropped, not
	// an error.
	RenderFrame(state *TransformState) error

	// Resize informs the renderer of the new drawable size in pixels.
	Resize(width, height uint32)
}

// Config holds the viewer parameters.
type Config struct {
	// ViewWidth and ViewHeight are the view size in points.
	ViewWidth  float32
	ViewHeight float32

	// ContentScale is the density in device pixels per point.
	// Default: 1.
	ContentScale float32
}

// Viewer is the single owner of the shared viewing state. It wires the
// gesture tracker and the frame renderer to one TransformState and exposes
// the three callbacks a platform view driver invokes: HandleEvent on
// gesture recognition, RenderFrame on the display tick, and Resize on
// layout changes.
type Viewer struct {
	cfg      Config
	state    *TransformState
	tracker  *Tracker
	renderer FrameRenderer
}

// NewViewer creates a viewer with the identity transform. renderer may be
// nil for headless gesture processing; RenderFrame then returns
// ErrNoRenderer.
func NewViewer(cfg Config, renderer FrameRenderer) *Viewer {
	if cfg.ContentScale <= 0 {
		cfg.ContentScale = 1
	}
	state := NewTransformState()
	v := &Viewer{
		cfg:      cfg,
		state:    state,
		tracker:  NewTracker(state, cfg.ContentScale, cfg.ViewWidth, cfg.ViewHeight),
		renderer: renderer,
	}
	if renderer != nil {
		renderer.Resize(v.pixelSize())
	}
	return v
}

// HandleEvent feeds one gesture event into the tracker.
func (v *Viewer) HandleEvent(ev Event) {
	v.tracker.Apply(ev)
}

// RenderFrame draws one frame with the current transform.
func (v *Viewer) RenderFrame() error {
	if v.renderer == nil {
		return ErrNoRenderer
	}
	return v.renderer.RenderFrame(v.state)
}

// Resize records a new view size in points and forwards the pixel size to
// the renderer. The accumulated transform is deliberately left untouched:
// a resize changes where the quad lands on screen, never the user's
// placement of it.
func (v *Viewer) Resize(width, height float32) {
	v.cfg.ViewWidth = width
	v.cfg.ViewHeight = height
	v.tracker.SetViewSize(width, height)
	if v.renderer != nil {
		v.renderer.Resize(v.pixelSize())
	}
}

// State returns the shared transform state.
func (v *Viewer) State() *TransformState {
	return v.state
}

// pixelSize returns the drawable size in device pixels.
func (v *Viewer) pixelSize() (uint32, uint32) {
	w := uint32(v.cfg.ViewWidth * v.cfg.ContentScale)
	h := uint32(v.cfg.ViewHeight * v.cfg.ContentScale)
	return w, h
}
