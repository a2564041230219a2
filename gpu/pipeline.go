//go:build !nogpu

package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/quadview"
)

//go:embed shaders/quad.wgsl
var quadShaderSource string

// createPipeline compiles the quad shader and creates the bind group
// layout, pipeline layout, render pipeline and sampler. Called once from
// NewCompositor; any error aborts compositor setup.
func (c *Compositor) createPipeline() error {
	if quadShaderSource == "" {
		return fmt.Errorf("gpu: quad shader source is empty")
	}

	shader, err := c.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "quad_shader",
		Source: compileQuadShader(),
	})
	if err != nil {
		return fmt.Errorf("gpu: compile quad shader: %w", err)
	}
	c.shader = shader

	// Bind group layout:
	//   Binding 0: frame uniforms (vertex + fragment)
	//   Binding 1: quad texture (texture_2d, fragment)
	//   Binding 2: sampler (fragment)
	bindLayout, err := c.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "quad_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: create quad bind layout: %w", err)
	}
	c.bindLayout = bindLayout

	pipeLayout, err := c.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "quad_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{c.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("gpu: create quad pipeline layout: %w", err)
	}
	c.pipeLayout = pipeLayout

	sampler, err := c.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "quad_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
	})
	if err != nil {
		return fmt.Errorf("gpu: create quad sampler: %w", err)
	}
	c.sampler = sampler

	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := c.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "quad_pipeline",
		Layout: c.pipeLayout,
		Vertex: hal.VertexState{
			Module:     c.shader,
			EntryPoint: "vs_main",
			Buffers:    quadVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     c.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    gputypes.TextureFormatBGRA8Unorm,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleStrip,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: create quad pipeline: %w", err)
	}
	c.pipeline = pipeline

	return nil
}

// compileQuadShader translates the embedded WGSL to SPIR-V via naga.
// Backends consume SPIR-V directly; when translation fails the WGSL
// source is handed to the HAL instead and translated there.
func compileQuadShader() hal.ShaderSource {
	spirvBytes, err := naga.Compile(quadShaderSource)
	if err != nil {
		slogger().Warn("gpu: naga translation failed, passing WGSL to hal", "error", err)
		return hal.ShaderSource{WGSL: quadShaderSource}
	}
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return hal.ShaderSource{SPIRV: words}
}

// quadVertexLayout returns the vertex buffer layout for the quad pipeline.
// Matches the vs_main inputs in quad.wgsl and the wire layout produced by
// quadview.QuadVertexBytes:
//
//	location 0: position  (vec3<f32>)
//	location 1: tex_coord (vec2<f32>)
func quadVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: quadview.VertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},  // position
				{Format: gputypes.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1}, // tex_coord
			},
		},
	}
}

// destroyPipeline releases all pipeline resources in reverse creation order.
func (c *Compositor) destroyPipeline() {
	if c.device == nil {
		return
	}
	if c.pipeline != nil {
		c.device.DestroyRenderPipeline(c.pipeline)
		c.pipeline = nil
	}
	if c.sampler != nil {
		c.device.DestroySampler(c.sampler)
		c.sampler = nil
	}
	if c.pipeLayout != nil {
		c.device.DestroyPipelineLayout(c.pipeLayout)
		c.pipeLayout = nil
	}
	if c.bindLayout != nil {
		c.device.DestroyBindGroupLayout(c.bindLayout)
		c.bindLayout = nil
	}
	if c.shader != nil {
		c.device.DestroyShaderModule(c.shader)
		c.shader = nil
	}
}
