// Package quadview implements an interactive textured-quad viewer:
// a single image quad whose on-screen placement is driven by pan, pinch,
// rotate and tap gestures.
//
// The package owns the gesture-to-transform logic. A [Tracker] consumes
// [Event] values reported by the platform's gesture recognizers and folds
// them into a [TransformState] (translation, scale, rotation). A [Viewer]
// ties the tracker to a [FrameRenderer], the per-frame drawing boundary
// implemented by the gpu subpackage.
//
// All coordinate conversions use render space: origin at the view center,
// X right, Y up, units in device pixels. Gesture locations arrive in view
// points with Y down and are converted using the content scale factor.
//
// quadview is single-threaded in the way platform view callbacks are:
// events and frame callbacks arrive on one goroutine, so nothing in the
// package locks.
package quadview
