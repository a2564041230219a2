package quadview

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// testTracker returns a tracker over a fresh state with density 2 and a
// 400x300 point view (800x600 pixels): render space spans +-400 x +-300.
func testTracker() (*Tracker, *TransformState) {
	s := NewTransformState()
	return NewTracker(s, 2, 400, 300), s
}

func vec2Near(t *testing.T, got, want mgl32.Vec2) {
	t.Helper()
	const eps = 1e-4
	if math.Abs(float64(got.X()-want.X())) > eps || math.Abs(float64(got.Y()-want.Y())) > eps {
		t.Fatalf("translation = %v, want %v", got, want)
	}
}

func TestPanAppliesDensityScaledDelta(t *testing.T) {
	tr, s := testTracker()

	tr.Apply(PanEvent{Phase: PhaseBegan})
	tr.Apply(PanEvent{Phase: PhaseChanged, Translation: mgl32.Vec2{10, 5}})

	// 10 points right and 5 down at density 2 is 20 px right and, with the
	// Y axis flipped into render space, 10 px down.
	vec2Near(t, s.Translation, mgl32.Vec2{20, -10})
}

func TestPanChunkingInvariance(t *testing.T) {
	// A drag must accumulate the same translation regardless of how many
	// changed events the recognizer splits it into.
	one, oneState := testTracker()
	one.Apply(PanEvent{Phase: PhaseBegan})
	one.Apply(PanEvent{Phase: PhaseChanged, Translation: mgl32.Vec2{10, 5}})
	one.Apply(PanEvent{Phase: PhaseEnded, Translation: mgl32.Vec2{10, 5}})

	many, manyState := testTracker()
	many.Apply(PanEvent{Phase: PhaseBegan})
	many.Apply(PanEvent{Phase: PhaseChanged, Translation: mgl32.Vec2{4, 2}})
	many.Apply(PanEvent{Phase: PhaseChanged, Translation: mgl32.Vec2{7, 3}})
	many.Apply(PanEvent{Phase: PhaseChanged, Translation: mgl32.Vec2{10, 5}})
	many.Apply(PanEvent{Phase: PhaseEnded, Translation: mgl32.Vec2{10, 5}})

	vec2Near(t, manyState.Translation, oneState.Translation)
}

func TestPanSequentialGesturesAccumulate(t *testing.T) {
	tr, s := testTracker()

	tr.Apply(PanEvent{Phase: PhaseBegan})
	tr.Apply(PanEvent{Phase: PhaseChanged, Translation: mgl32.Vec2{10, 0}})
	tr.Apply(PanEvent{Phase: PhaseEnded, Translation: mgl32.Vec2{10, 0}})

	// A second gesture starts from a fresh recognizer translation but must
	// build on the accumulated state.
	tr.Apply(PanEvent{Phase: PhaseBegan})
	tr.Apply(PanEvent{Phase: PhaseChanged, Translation: mgl32.Vec2{-3, 0}})
	tr.Apply(PanEvent{Phase: PhaseEnded, Translation: mgl32.Vec2{-3, 0}})

	vec2Near(t, s.Translation, mgl32.Vec2{14, 0})
}

func TestPinchRatioOneIsIdentity(t *testing.T) {
	tr, s := testTracker()
	s.Translation = mgl32.Vec2{37, -12}

	tr.Apply(PinchEvent{Phase: PhaseBegan, Scale: 1, Focal: mgl32.Vec2{100, 75}})
	tr.Apply(PinchEvent{Phase: PhaseChanged, Scale: 1, Focal: mgl32.Vec2{100, 75}})

	if s.Scale != 1 {
		t.Errorf("scale = %v, want 1", s.Scale)
	}
	vec2Near(t, s.Translation, mgl32.Vec2{37, -12})
}

func TestPinchScalesAboutFocalPoint(t *testing.T) {
	tr, s := testTracker()

	// Focal (100,75) points maps to render space (-200, 150).
	tr.Apply(PinchEvent{Phase: PhaseBegan, Scale: 1, Focal: mgl32.Vec2{100, 75}})
	tr.Apply(PinchEvent{Phase: PhaseChanged, Scale: 2, Focal: mgl32.Vec2{100, 75}})

	if s.Scale != 2 {
		t.Errorf("scale = %v, want 2", s.Scale)
	}
	// translation' = focal + ratio*(translation - focal) with translation 0.
	vec2Near(t, s.Translation, mgl32.Vec2{200, -150})
}

func TestPinchFocalPointStaysFixed(t *testing.T) {
	// When the translation already sits on the focal point, zooming must
	// not move it.
	tr, s := testTracker()
	s.Translation = mgl32.Vec2{-200, 150} // render space of focal (100,75)

	tr.Apply(PinchEvent{Phase: PhaseBegan, Scale: 1, Focal: mgl32.Vec2{100, 75}})
	tr.Apply(PinchEvent{Phase: PhaseChanged, Scale: 3, Focal: mgl32.Vec2{100, 75}})

	vec2Near(t, s.Translation, mgl32.Vec2{-200, 150})
}

func TestPinchRoundTripRestoresState(t *testing.T) {
	tr, s := testTracker()

	focal := mgl32.Vec2{100, 75}
	tr.Apply(PinchEvent{Phase: PhaseBegan, Scale: 1, Focal: focal})
	tr.Apply(PinchEvent{Phase: PhaseChanged, Scale: 2, Focal: focal})
	tr.Apply(PinchEvent{Phase: PhaseChanged, Scale: 1, Focal: focal})
	tr.Apply(PinchEvent{Phase: PhaseEnded, Scale: 1, Focal: focal})

	if diff := math.Abs(float64(s.Scale - 1)); diff > 1e-5 {
		t.Errorf("scale after round trip = %v, want 1", s.Scale)
	}
	vec2Near(t, s.Translation, mgl32.Vec2{0, 0})
}

func TestPinchIgnoresNonPositiveScale(t *testing.T) {
	tr, s := testTracker()

	tr.Apply(PinchEvent{Phase: PhaseBegan, Scale: 1, Focal: mgl32.Vec2{100, 75}})
	tr.Apply(PinchEvent{Phase: PhaseChanged, Scale: -0.5, Focal: mgl32.Vec2{100, 75}})

	if s.Scale != 1 || s.Translation != (mgl32.Vec2{}) {
		t.Fatalf("corrupted pinch mutated state: scale=%v translation=%v", s.Scale, s.Translation)
	}

	// The bad sample must not have re-anchored: the next valid event
	// computes its ratio against the last good value.
	tr.Apply(PinchEvent{Phase: PhaseChanged, Scale: 2, Focal: mgl32.Vec2{100, 75}})
	if s.Scale != 2 {
		t.Errorf("scale after recovery = %v, want 2", s.Scale)
	}
}

func TestPinchScaleNeverReachesZero(t *testing.T) {
	tr, s := testTracker()

	tr.Apply(PinchEvent{Phase: PhaseBegan, Scale: 1, Focal: mgl32.Vec2{0, 0}})
	tr.Apply(PinchEvent{Phase: PhaseChanged, Scale: 1e-12, Focal: mgl32.Vec2{0, 0}})

	if s.Scale < minScale {
		t.Errorf("scale = %v, below the positive minimum", s.Scale)
	}
}

func TestRotateIsCumulativeFromGestureStart(t *testing.T) {
	tr, s := testTracker()

	tr.Apply(RotateEvent{Phase: PhaseBegan, Radians: 0})
	tr.Apply(RotateEvent{Phase: PhaseChanged, Radians: 0.1})
	tr.Apply(RotateEvent{Phase: PhaseChanged, Radians: 0.3})

	// Each event carries the total since the gesture began; summing the
	// events (0.4) would be wrong.
	if diff := math.Abs(float64(s.Rotation - 0.3)); diff > 1e-6 {
		t.Errorf("rotation = %v, want 0.3", s.Rotation)
	}
}

func TestRotateEndedAppliesFinalRadians(t *testing.T) {
	tr, s := testTracker()

	// Recognizers keep rotating up to the lift-off: the ended event can
	// carry a larger total than the last changed, and it counts.
	tr.Apply(RotateEvent{Phase: PhaseBegan, Radians: 0})
	tr.Apply(RotateEvent{Phase: PhaseChanged, Radians: 0.1})
	tr.Apply(RotateEvent{Phase: PhaseEnded, Radians: 0.3})

	if diff := math.Abs(float64(s.Rotation - 0.3)); diff > 1e-6 {
		t.Errorf("rotation = %v, want 0.3", s.Rotation)
	}

	// An ended without an active session must not mutate the state.
	tr.Apply(RotateEvent{Phase: PhaseEnded, Radians: 1})
	if diff := math.Abs(float64(s.Rotation - 0.3)); diff > 1e-6 {
		t.Errorf("rotation after stray ended = %v, want 0.3", s.Rotation)
	}
}

func TestRotateSecondGestureBuildsOnFirst(t *testing.T) {
	tr, s := testTracker()

	tr.Apply(RotateEvent{Phase: PhaseBegan, Radians: 0})
	tr.Apply(RotateEvent{Phase: PhaseChanged, Radians: 0.3})
	tr.Apply(RotateEvent{Phase: PhaseEnded, Radians: 0.3})

	tr.Apply(RotateEvent{Phase: PhaseBegan, Radians: 0})
	tr.Apply(RotateEvent{Phase: PhaseChanged, Radians: 0.2})

	if diff := math.Abs(float64(s.Rotation - 0.5)); diff > 1e-6 {
		t.Errorf("rotation = %v, want 0.5", s.Rotation)
	}
}

func TestTapRecentersOnLocation(t *testing.T) {
	tr, s := testTracker()

	// (100,50) points -> pixels (200,100) -> render space (-200, 200).
	tr.Apply(TapEvent{Location: mgl32.Vec2{100, 50}})

	vec2Near(t, s.Translation, mgl32.Vec2{200, -200})
}

func TestTapAccumulates(t *testing.T) {
	tr, s := testTracker()

	// Tapping the exact view center is a no-op.
	tr.Apply(TapEvent{Location: mgl32.Vec2{200, 150}})
	vec2Near(t, s.Translation, mgl32.Vec2{0, 0})

	tr.Apply(TapEvent{Location: mgl32.Vec2{100, 50}})
	tr.Apply(TapEvent{Location: mgl32.Vec2{100, 50}})
	vec2Near(t, s.Translation, mgl32.Vec2{400, -400})
}

func TestUnknownPhaseIsNoOp(t *testing.T) {
	tr, s := testTracker()

	tr.Apply(PanEvent{Phase: Phase(99), Translation: mgl32.Vec2{10, 10}})
	tr.Apply(PinchEvent{Phase: Phase(-1), Scale: 5})
	tr.Apply(RotateEvent{Phase: Phase(42), Radians: 1})

	if s.Translation != (mgl32.Vec2{}) || s.Scale != 1 || s.Rotation != 0 {
		t.Fatalf("unknown phases mutated state: %+v", s)
	}
}

func TestChangedWithoutBeganAnchorsQuietly(t *testing.T) {
	tr, s := testTracker()

	// The first changed of an un-begun pan only anchors; the second moves.
	tr.Apply(PanEvent{Phase: PhaseChanged, Translation: mgl32.Vec2{5, 0}})
	vec2Near(t, s.Translation, mgl32.Vec2{0, 0})
	tr.Apply(PanEvent{Phase: PhaseChanged, Translation: mgl32.Vec2{10, 0}})
	vec2Near(t, s.Translation, mgl32.Vec2{10, 0})
}

func TestOverlappingGesturesCompose(t *testing.T) {
	tr, s := testTracker()

	tr.Apply(PanEvent{Phase: PhaseBegan})
	tr.Apply(RotateEvent{Phase: PhaseBegan, Radians: 0})
	tr.Apply(PanEvent{Phase: PhaseChanged, Translation: mgl32.Vec2{5, 0}})
	tr.Apply(RotateEvent{Phase: PhaseChanged, Radians: 0.2})
	tr.Apply(PanEvent{Phase: PhaseChanged, Translation: mgl32.Vec2{10, 0}})
	tr.Apply(RotateEvent{Phase: PhaseEnded, Radians: 0.2})
	tr.Apply(PanEvent{Phase: PhaseEnded, Translation: mgl32.Vec2{10, 0}})

	vec2Near(t, s.Translation, mgl32.Vec2{20, 0})
	if diff := math.Abs(float64(s.Rotation - 0.2)); diff > 1e-6 {
		t.Errorf("rotation = %v, want 0.2", s.Rotation)
	}
}

func TestSetViewSizeAffectsLaterConversions(t *testing.T) {
	tr, s := testTracker()

	tr.SetViewSize(200, 100) // pixels 400x200

	// (100,50) points is now the exact center.
	tr.Apply(TapEvent{Location: mgl32.Vec2{100, 50}})
	vec2Near(t, s.Translation, mgl32.Vec2{0, 0})
}

func TestDefaultDensity(t *testing.T) {
	s := NewTransformState()
	tr := NewTracker(s, 0, 100, 100)

	tr.Apply(PanEvent{Phase: PhaseBegan})
	tr.Apply(PanEvent{Phase: PhaseChanged, Translation: mgl32.Vec2{10, 0}})

	// Density defaulted to 1: 10 points is 10 pixels.
	vec2Near(t, s.Translation, mgl32.Vec2{10, 0})
}
