//go:build !nogpu

package gpu

import (
	"fmt"
	"image"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// FrameTarget is the drawable a frame renders into, supplied by the
// presentation driver once per display callback.
type FrameTarget struct {
	View   hal.TextureView
	Width  uint32
	Height uint32
}

// TargetProvider hands out per-frame drawables. Returning false signals
// that no drawable is currently available (mid-resize, occluded window);
// the compositor drops the frame and tries again on the next callback.
type TargetProvider interface {
	AcquireTarget() (*FrameTarget, bool)
}

// OffscreenTarget is a TargetProvider backed by its own color texture.
// It renders without a window and can read the result back as an image,
// which is what the example program and the GPU-path tests use.
type OffscreenTarget struct {
	device hal.Device
	queue  hal.Queue

	tex  hal.Texture
	view hal.TextureView

	width, height uint32
}

// NewOffscreenTarget creates a BGRA8 render target of the given pixel size.
func NewOffscreenTarget(device hal.Device, queue hal.Queue, width, height uint32) (*OffscreenTarget, error) {
	o := &OffscreenTarget{device: device, queue: queue}
	if err := o.createTexture(width, height); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *OffscreenTarget) createTexture(width, height uint32) error {
	tex, err := o.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "offscreen_target",
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("gpu: create offscreen texture: %w", err)
	}

	view, err := o.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "offscreen_target_view",
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		o.device.DestroyTexture(tex)
		return fmt.Errorf("gpu: create offscreen view: %w", err)
	}

	o.tex = tex
	o.view = view
	o.width = width
	o.height = height
	return nil
}

// AcquireTarget implements TargetProvider. An offscreen target is always
// available.
func (o *OffscreenTarget) AcquireTarget() (*FrameTarget, bool) {
	if o.view == nil {
		return nil, false
	}
	return &FrameTarget{View: o.view, Width: o.width, Height: o.height}, true
}

// Resize recreates the target texture at the new pixel size.
func (o *OffscreenTarget) Resize(width, height uint32) error {
	if width == o.width && height == o.height {
		return nil
	}
	o.Destroy()
	return o.createTexture(width, height)
}

// ReadImage copies the rendered texture into an RGBA image. It submits a
// texture-to-buffer copy, waits for it, and swizzles BGRA to RGBA.
func (o *OffscreenTarget) ReadImage() (*image.RGBA, error) {
	w, h := o.width, o.height

	encoder, err := o.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "offscreen_readback_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create readback encoder: %w", err)
	}
	if err := encoder.BeginEncoding("offscreen_readback"); err != nil {
		return nil, fmt.Errorf("gpu: begin readback encoding: %w", err)
	}

	// The render pass leaves the texture in attachment layout; the copy
	// needs transfer-source. No-op on backends without explicit layouts.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: o.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	pixelBufSize := uint64(w) * uint64(h) * 4
	stagingBuf, err := o.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "offscreen_staging",
		Size:  pixelBufSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return nil, fmt.Errorf("gpu: create staging buffer: %w", err)
	}
	defer o.device.DestroyBuffer(stagingBuf)

	encoder.CopyTextureToBuffer(o.tex, stagingBuf, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: w * 4, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: o.tex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("gpu: end readback encoding: %w", err)
	}
	defer o.device.FreeCommandBuffer(cmdBuf)

	fence, err := o.device.CreateFence()
	if err != nil {
		return nil, fmt.Errorf("gpu: create readback fence: %w", err)
	}
	defer o.device.DestroyFence(fence)

	if err := o.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return nil, fmt.Errorf("gpu: submit readback: %w", err)
	}
	fenceOK, err := o.device.Wait(fence, 1, 5*time.Second)
	if err != nil || !fenceOK {
		return nil, fmt.Errorf("gpu: wait for readback: ok=%v err=%w", fenceOK, err)
	}

	bgra := make([]byte, pixelBufSize)
	if err := o.queue.ReadBuffer(stagingBuf, 0, bgra); err != nil {
		return nil, fmt.Errorf("gpu: read staging buffer: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	bgraToRGBA(bgra, img.Pix)
	return img, nil
}

// Destroy releases the target texture and view. Safe to call multiple times.
func (o *OffscreenTarget) Destroy() {
	if o.view != nil {
		o.device.DestroyTextureView(o.view)
		o.view = nil
	}
	if o.tex != nil {
		o.device.DestroyTexture(o.tex)
		o.tex = nil
	}
}

// bgraToRGBA swizzles BGRA pixel data into dst as RGBA. Both slices must
// hold the same number of 4-byte pixels.
func bgraToRGBA(src, dst []byte) {
	for i := 0; i+3 < len(src) && i+3 < len(dst); i += 4 {
		dst[i] = src[i+2]
		dst[i+1] = src[i+1]
		dst[i+2] = src[i]
		dst[i+3] = src[i+3]
	}
}
