//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/quadview"
)

// ErrNoTexture is returned by RenderFrame before a texture has been bound
// with SetTexture.
var ErrNoTexture = errors.New("gpu: no texture bound")

// gpuWaitTimeout bounds the fence wait after a frame submit.
const gpuWaitTimeout = 5 * time.Second

// Config holds compositor parameters.
type Config struct {
	// Width and Height are the initial drawable size in pixels.
	Width  uint32
	Height uint32

	// ClearColor is the render pass clear color. The zero value clears
	// to transparent black.
	ClearColor gputypes.Color
}

// Compositor draws the quad once per frame. It implements
// quadview.FrameRenderer against a TargetProvider-supplied drawable view.
//
// The compositor is stateless across frames: every frame rewrites the full
// uniform block from the transform state it is handed, so there is no
// CPU-side copy of GPU state to drift out of sync.
type Compositor struct {
	device hal.Device
	queue  hal.Queue

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
	sampler    hal.Sampler

	vertBuf    hal.Buffer
	uniformBuf hal.Buffer

	texture   *Texture
	bindGroup hal.BindGroup

	targets TargetProvider

	width, height uint32
	clearColor    gputypes.Color
}

// NewCompositor creates the quad render pipeline and its static GPU
// resources on the given device. The vertex buffer is uploaded once here;
// only the uniform buffer is written per frame.
func NewCompositor(device hal.Device, queue hal.Queue, cfg Config) (*Compositor, error) {
	c := &Compositor{
		device:     device,
		queue:      queue,
		width:      cfg.Width,
		height:     cfg.Height,
		clearColor: cfg.ClearColor,
	}

	if err := c.createPipeline(); err != nil {
		c.Destroy()
		return nil, err
	}

	vertBuf, err := c.createAndUploadBuffer("quad_verts", quadview.QuadVertexBytes(),
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		c.Destroy()
		return nil, fmt.Errorf("gpu: create vertex buffer: %w", err)
	}
	c.vertBuf = vertBuf

	uniformBuf, err := c.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "quad_uniform",
		Size:  quadview.UniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		c.Destroy()
		return nil, fmt.Errorf("gpu: create uniform buffer: %w", err)
	}
	c.uniformBuf = uniformBuf

	return c, nil
}

// SetTargetProvider installs the source of per-frame drawables.
func (c *Compositor) SetTargetProvider(p TargetProvider) {
	c.targets = p
}

// SetTexture binds the image the quad samples. Replacing the texture
// rebuilds the bind group; the previous texture is not destroyed, the
// caller owns both.
func (c *Compositor) SetTexture(tex *Texture) error {
	if c.bindGroup != nil {
		c.device.DestroyBindGroup(c.bindGroup)
		c.bindGroup = nil
	}

	bindGroup, err := c.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "quad_bind",
		Layout: c.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: c.uniformBuf.NativeHandle(), Offset: 0, Size: quadview.UniformSize,
			}},
			{Binding: 1, Resource: gputypes.TextureViewBinding{
				TextureView: tex.view.NativeHandle(),
			}},
			{Binding: 2, Resource: gputypes.SamplerBinding{
				Sampler: c.sampler.NativeHandle(),
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: create quad bind group: %w", err)
	}
	c.texture = tex
	c.bindGroup = bindGroup
	return nil
}

// Resize records the new drawable size in pixels. Only the viewport half
// of the uniform block changes; the accumulated transform is untouched.
func (c *Compositor) Resize(width, height uint32) {
	c.width = width
	c.height = height
}

// RenderFrame draws one frame with the given placement:
//
//  1. Build the model matrix (rotation, then scale) and the view
//     translation from the transform state.
//  2. Rewrite the full uniform block and upload it.
//  3. Record one render pass drawing the 4-vertex strip.
//  4. Submit and wait for the frame fence.
//
// When the target provider has no drawable the frame is dropped silently;
// the next display callback simply tries again.
func (c *Compositor) RenderFrame(state *quadview.TransformState) error {
	if c.bindGroup == nil {
		return ErrNoTexture
	}

	var target *FrameTarget
	if c.targets != nil {
		t, ok := c.targets.AcquireTarget()
		if ok {
			target = t
		}
	}
	if target == nil || target.View == nil {
		slogger().Debug("gpu: no drawable, frame dropped")
		return nil
	}

	u := quadview.Uniform{
		ViewportWidth:  c.width,
		ViewportHeight: c.height,
		Model:          state.ModelMatrix(),
		View:           state.ViewMatrix(),
	}
	c.queue.WriteBuffer(c.uniformBuf, 0, u.Bytes())

	encoder, err := c.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "quad_frame_encoder",
	})
	if err != nil {
		return fmt.Errorf("gpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("quad_frame"); err != nil {
		return fmt.Errorf("gpu: begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "quad_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:       target.View,
				LoadOp:     gputypes.LoadOpClear,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: c.clearColor,
			},
		},
	})
	rp.SetPipeline(c.pipeline)
	rp.SetBindGroup(0, c.bindGroup, nil)
	rp.SetVertexBuffer(0, c.vertBuf, 0)
	rp.Draw(quadview.QuadVertexCount, 1, 0, 0)
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("gpu: end encoding: %w", err)
	}
	defer c.device.FreeCommandBuffer(cmdBuf)

	fence, err := c.device.CreateFence()
	if err != nil {
		return fmt.Errorf("gpu: create fence: %w", err)
	}
	defer c.device.DestroyFence(fence)

	if err := c.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("gpu: submit: %w", err)
	}
	fenceOK, err := c.device.Wait(fence, 1, gpuWaitTimeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("gpu: wait for frame: ok=%v err=%w", fenceOK, err)
	}
	return nil
}

// createAndUploadBuffer creates a GPU buffer and uploads data.
func (c *Compositor) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := c.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, err
	}
	c.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

// Destroy releases all GPU resources held by the compositor. The bound
// texture and any shared device are left to their owners. Safe to call
// multiple times.
func (c *Compositor) Destroy() {
	if c.device == nil {
		return
	}
	if c.bindGroup != nil {
		c.device.DestroyBindGroup(c.bindGroup)
		c.bindGroup = nil
	}
	if c.uniformBuf != nil {
		c.device.DestroyBuffer(c.uniformBuf)
		c.uniformBuf = nil
	}
	if c.vertBuf != nil {
		c.device.DestroyBuffer(c.vertBuf)
		c.vertBuf = nil
	}
	c.destroyPipeline()
}
