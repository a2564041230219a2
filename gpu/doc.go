//go:build !nogpu

// Package gpu renders the quadview quad through gogpu/wgpu's HAL layer.
//
// A [Backend] owns the instance/adapter/device chain for standalone use;
// hosts that already hold a device can hand it in through a
// gpucontext.DeviceProvider instead. A [Compositor] implements
// quadview.FrameRenderer: each frame it serializes the transform state
// into the fixed uniform block, records one render pass drawing the
// four-vertex quad strip, and submits. Frames with no drawable available
// are dropped, not failed.
//
// Build with the nogpu tag to exclude this package entirely.
package gpu
