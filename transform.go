package quadview

import "github.com/go-gl/mathgl/mgl32"

// minScale is the smallest scale factor TransformState will hold.
// Keeping the scale strictly positive means the model matrix never
// degenerates or mirrors, whatever the gesture stream delivers.
const minScale = 1e-6

// TransformState is the accumulated placement of the quad in render space:
// a translation in device pixels, a uniform scale factor, and a rotation
// in radians (positive values follow the host gesture convention, i.e.
// clockwise on screen).
//
// A single TransformState instance is shared between the gesture [Tracker]
// that mutates it and the frame renderer that reads it. The zero value is
// not useful; use [NewTransformState].
type TransformState struct {
	Translation mgl32.Vec2
	Scale       float32
	Rotation    float32
}

// NewTransformState returns the identity placement: no translation,
// scale 1, no rotation.
func NewTransformState() *TransformState {
	return &TransformState{Scale: 1}
}

// SetScale sets the scale factor, clamping to the positive minimum.
func (s *TransformState) SetScale(v float32) {
	if v < minScale {
		v = minScale
	}
	s.Scale = v
}

// Reset restores the identity placement.
func (s *TransformState) Reset() {
	s.Translation = mgl32.Vec2{}
	s.Scale = 1
	s.Rotation = 0
}

// ModelMatrix returns the quad's model matrix: rotation about Z through
// -Rotation, then uniform scale. The sign flip converts the host gesture
// convention (clockwise-positive, Y down) to render space (counterclockwise
// positive, Y up).
func (s *TransformState) ModelMatrix() mgl32.Mat4 {
	rot := mgl32.HomogRotate3DZ(-s.Rotation)
	scale := mgl32.Scale3D(s.Scale, s.Scale, 1)
	return rot.Mul4(scale)
}

// ViewMatrix returns the pure-translation view matrix moving the quad by
// Translation in render-space pixels.
func (s *TransformState) ViewMatrix() mgl32.Mat4 {
	return mgl32.Translate3D(s.Translation.X(), s.Translation.Y(), 0)
}
