//go:build !nogpu

package halgpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/drawlist.wgsl
var shaderSource string

// pipelines holds the GPU objects shared by every frame.
type pipelines struct {
	device hal.Device

	shader        hal.ShaderModule
	uniformLayout hal.BindGroupLayout
	textureLayout hal.BindGroupLayout
	colorLayout   hal.PipelineLayout
	quadLayout    hal.PipelineLayout

	mesh hal.RenderPipeline
	line hal.RenderPipeline
	quad hal.RenderPipeline

	nearest hal.Sampler
	linear  hal.Sampler
}

func meshVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{{
		ArrayStride: meshVertexStride,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			{Format: gputypes.VertexFormatFloat32x4, Offset: 8, ShaderLocation: 1},
		},
	}}
}

func lineVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{{
		ArrayStride: lineVertexStride,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			{Format: gputypes.VertexFormatFloat32x4, Offset: 8, ShaderLocation: 1},
			{Format: gputypes.VertexFormatFloat32, Offset: 24, ShaderLocation: 2},
		},
	}}
}

func quadVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{{
		ArrayStride: quadVertexStride,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
			{Format: gputypes.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2},
		},
	}}
}

// create compiles the shader and builds the three render pipelines for
// targets of the given format. On error, objects created so far are
// released.
func (p *pipelines) create(format gputypes.TextureFormat, spirv bool) (err error) {
	defer func() {
		if err != nil {
			p.destroy()
		}
	}()

	src := hal.ShaderSource{WGSL: shaderSource}
	if spirv {
		code, err := compileSPIRV(shaderSource)
		if err != nil {
			return err
		}
		src = hal.ShaderSource{SPIRV: code}
	}
	p.shader, err = p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "drawlist_shader",
		Source: src,
	})
	if err != nil {
		return fmt.Errorf("compile drawlist shader: %w", err)
	}

	p.uniformLayout, err = p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "drawlist_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
		}},
	})
	if err != nil {
		return fmt.Errorf("create uniform layout: %w", err)
	}

	p.textureLayout, err = p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "drawlist_texture_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create texture layout: %w", err)
	}

	p.colorLayout, err = p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "drawlist_color_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.uniformLayout},
	})
	if err != nil {
		return fmt.Errorf("create color pipeline layout: %w", err)
	}
	p.quadLayout, err = p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "drawlist_quad_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.uniformLayout, p.textureLayout},
	})
	if err != nil {
		return fmt.Errorf("create quad pipeline layout: %w", err)
	}

	if p.mesh, err = p.pipeline("drawlist_mesh", p.colorLayout, "vs_mesh", "fs_mesh",
		meshVertexLayout(), gputypes.PrimitiveTopologyTriangleList, format); err != nil {
		return err
	}
	if p.line, err = p.pipeline("drawlist_line", p.colorLayout, "vs_line", "fs_line",
		lineVertexLayout(), gputypes.PrimitiveTopologyLineList, format); err != nil {
		return err
	}
	if p.quad, err = p.pipeline("drawlist_quad", p.quadLayout, "vs_quad", "fs_quad",
		quadVertexLayout(), gputypes.PrimitiveTopologyTriangleList, format); err != nil {
		return err
	}

	if p.nearest, err = p.sampler("drawlist_nearest", gputypes.FilterModeNearest); err != nil {
		return err
	}
	if p.linear, err = p.sampler("drawlist_linear", gputypes.FilterModeLinear); err != nil {
		return err
	}
	return nil
}

// compileSPIRV translates WGSL to little-endian SPIR-V words.
func compileSPIRV(wgsl string) ([]uint32, error) {
	b, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("translate drawlist shader: %w", err)
	}
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = uint32(b[i*4]) |
			uint32(b[i*4+1])<<8 |
			uint32(b[i*4+2])<<16 |
			uint32(b[i*4+3])<<24
	}
	return words, nil
}

func (p *pipelines) pipeline(
	label string,
	layout hal.PipelineLayout,
	vs, fs string,
	buffers []gputypes.VertexBufferLayout,
	topology gputypes.PrimitiveTopology,
	format gputypes.TextureFormat,
) (hal.RenderPipeline, error) {
	premulBlend := gputypes.BlendStatePremultiplied()
	pl, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  label,
		Layout: layout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: vs,
			Buffers:    buffers,
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: fs,
			Targets: []gputypes.ColorTargetState{{
				Format:    format,
				Blend:     &premulBlend,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: topology,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s pipeline: %w", label, err)
	}
	return pl, nil
}

func (p *pipelines) sampler(label string, filter gputypes.FilterMode) (hal.Sampler, error) {
	s, err := p.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        label,
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    filter,
		MinFilter:    filter,
		MipmapFilter: filter,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s sampler: %w", label, err)
	}
	return s, nil
}

// ready reports whether create has succeeded.
func (p *pipelines) ready() bool { return p.quad != nil && p.linear != nil }

// destroy releases pipeline objects in reverse creation order. Safe to
// call more than once.
func (p *pipelines) destroy() {
	if p.device == nil {
		return
	}
	if p.linear != nil {
		p.device.DestroySampler(p.linear)
		p.linear = nil
	}
	if p.nearest != nil {
		p.device.DestroySampler(p.nearest)
		p.nearest = nil
	}
	for _, pl := range []*hal.RenderPipeline{&p.quad, &p.line, &p.mesh} {
		if *pl != nil {
			p.device.DestroyRenderPipeline(*pl)
			*pl = nil
		}
	}
	for _, l := range []*hal.PipelineLayout{&p.quadLayout, &p.colorLayout} {
		if *l != nil {
			p.device.DestroyPipelineLayout(*l)
			*l = nil
		}
	}
	for _, l := range []*hal.BindGroupLayout{&p.textureLayout, &p.uniformLayout} {
		if *l != nil {
			p.device.DestroyBindGroupLayout(*l)
			*l = nil
		}
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}
