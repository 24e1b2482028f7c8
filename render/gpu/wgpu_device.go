package gpu

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
)

const depthFormat = wgpu.TextureFormatDepth24Plus

type pipelineKey struct {
	shader *Shader
	blend  BlendMode
	depth  DepthFunc
	cull   CullMode
	format wgpu.TextureFormat
}

type bufferHandle struct {
	vertex  *wgpu.Buffer
	index   *wgpu.Buffer
	version uint64
}

type textureHandle struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
}

type targetHandle struct {
	color      *wgpu.Texture
	depth      *wgpu.Texture
	colorViews []*wgpu.TextureView
	depthViews []*wgpu.TextureView
	sampleView *wgpu.TextureView
	format     wgpu.TextureFormat
}

// WGPUDevice renders through webgpu onto a configured surface. Render passes are
// opened lazily: a ClearScreen starts a pass with clear load ops, a Draw without
// an open pass starts one that loads the existing contents.
type WGPUDevice struct {
	adapter *wgpu.Adapter
	device  *wgpu.Device
	queue   *wgpu.Queue
	surface *wgpu.Surface
	config  wgpu.SurfaceConfiguration
	logger  Logger

	screenDepth     *wgpu.Texture
	screenDepthView *wgpu.TextureView

	encoder      *wgpu.CommandEncoder
	frameTexture *wgpu.Texture
	frameView    *wgpu.TextureView
	pass         *wgpu.RenderPassEncoder
	lastPipeline *wgpu.RenderPipeline
	transient    []*wgpu.Buffer
	bindGroups   []*wgpu.BindGroup

	target     *RenderTexture
	face       int
	clearColor wgpu.Color
	// unbound is set when the last SetRenderTarget failed. Clears and draws
	// are dropped until a target binds.
	unbound bool

	modules   map[*Shader]*wgpu.ShaderModule
	pipelines map[pipelineKey]*wgpu.RenderPipeline
	sampler   *wgpu.Sampler
	white     *textureHandle
	whiteCube *textureHandle

	stats Stats
	errs  []error
}

func NewWGPUDevice(adapter *wgpu.Adapter, device *wgpu.Device, surface *wgpu.Surface, config wgpu.SurfaceConfiguration, logger Logger) (*WGPUDevice, error) {
	d := &WGPUDevice{
		adapter:    adapter,
		device:     device,
		queue:      device.GetQueue(),
		surface:    surface,
		config:     config,
		logger:     logger,
		clearColor: wgpu.Color{A: 1},
		modules:    map[*Shader]*wgpu.ShaderModule{},
		pipelines:  map[pipelineKey]*wgpu.RenderPipeline{},
	}

	sampler, err := device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Lumen Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create sampler: %w", err)
	}
	d.sampler = sampler

	white := []byte{255, 255, 255, 255}
	if d.white, err = d.createTexture("White", 1, 1, 1, [][]byte{white}); err != nil {
		return nil, err
	}
	if d.whiteCube, err = d.createTexture("WhiteCube", 1, 1, 6, [][]byte{white, white, white, white, white, white}); err != nil {
		return nil, err
	}
	if err := d.createScreenDepth(); err != nil {
		return nil, err
	}
	return d, nil
}

// Resize reconfigures the surface and the screen depth buffer.
func (d *WGPUDevice) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	d.config.Width = uint32(width)
	d.config.Height = uint32(height)
	d.surface.Configure(d.adapter, d.device, &d.config)
	if d.screenDepthView != nil {
		d.screenDepthView.Release()
		d.screenDepth.Release()
	}
	return d.createScreenDepth()
}

func (d *WGPUDevice) createScreenDepth() error {
	tex, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Screen Depth",
		Size:          wgpu.Extent3D{Width: d.config.Width, Height: d.config.Height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        depthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("failed to create screen depth: %w", err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return fmt.Errorf("failed to create screen depth view: %w", err)
	}
	d.screenDepth = tex
	d.screenDepthView = view
	return nil
}

func (d *WGPUDevice) BeginFrame() error {
	if d.encoder != nil {
		return fmt.Errorf("previous frame not yet presented")
	}
	tex, err := d.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("failed to acquire surface texture: %w", err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		return fmt.Errorf("failed to create surface view: %w", err)
	}
	encoder, err := d.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		return fmt.Errorf("failed to create command encoder: %w", err)
	}
	d.frameTexture = tex
	d.frameView = view
	d.encoder = encoder
	d.target = nil
	d.face = 0
	d.unbound = false
	return nil
}

func (d *WGPUDevice) SetRenderTarget(target *RenderTexture, face int) {
	d.endPass()
	if target != nil {
		if err := d.ensureTarget(target); err != nil {
			d.fail(err)
			d.target = nil
			d.unbound = true
			return
		}
	}
	d.target = target
	d.face = face
	d.unbound = false
	d.stats.RenderTargetBinds++
}

func (d *WGPUDevice) SetClearColor(r, g, b float32) {
	d.clearColor = wgpu.Color{R: float64(r), G: float64(g), B: float64(b), A: 1}
}

func (d *WGPUDevice) ClearScreen(flags ClearFlags) {
	if flags == ClearDontClear || d.unbound {
		return
	}
	d.endPass()
	d.beginPass(flags)
	d.stats.Clears++
}

func (d *WGPUDevice) Draw(call DrawCall) {
	if call.Buffer == nil || call.Shader == nil || call.EndFace <= call.StartFace || d.unbound {
		return
	}
	if d.encoder == nil {
		d.fail(fmt.Errorf("draw outside of a frame"))
		return
	}
	if d.pass == nil {
		d.beginPass(ClearDontClear)
	}

	buffers, err := d.ensureBuffer(call.Buffer)
	if err != nil {
		d.fail(err)
		return
	}
	pipeline, err := d.pipeline(call, d.targetFormat())
	if err != nil {
		d.fail(err)
		return
	}

	uniforms, err := d.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Uniforms",
		Contents: wgpu.ToBytes([]Uniforms{call.Uniforms}),
		Usage:    wgpu.BufferUsageUniform,
	})
	if err != nil {
		d.fail(fmt.Errorf("failed to create uniform buffer: %w", err))
		return
	}
	d.transient = append(d.transient, uniforms)

	group0, err := d.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: pipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: uniforms, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		d.fail(fmt.Errorf("failed to create uniform bind group: %w", err))
		return
	}
	d.bindGroups = append(d.bindGroups, group0)

	if pipeline != d.lastPipeline {
		d.pass.SetPipeline(pipeline)
		d.lastPipeline = pipeline
		d.stats.ShaderBinds++
	}
	d.pass.SetBindGroup(0, group0, nil)

	if len(call.Shader.TextureSlots) > 0 {
		entries := make([]wgpu.BindGroupEntry, 0, len(call.Shader.TextureSlots)*2)
		for i, slot := range call.Shader.TextureSlots {
			view, err := d.slotView(call.Textures, slot, call.Shader)
			if err != nil {
				d.fail(err)
				return
			}
			entries = append(entries,
				wgpu.BindGroupEntry{Binding: uint32(2 * i), TextureView: view},
				wgpu.BindGroupEntry{Binding: uint32(2*i + 1), Sampler: d.sampler},
			)
		}
		group1, err := d.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Layout:  pipeline.GetBindGroupLayout(1),
			Entries: entries,
		})
		if err != nil {
			d.fail(fmt.Errorf("failed to create texture bind group: %w", err))
			return
		}
		d.bindGroups = append(d.bindGroups, group1)
		d.pass.SetBindGroup(1, group1, nil)
	}

	d.pass.SetVertexBuffer(0, buffers.vertex, 0, wgpu.WholeSize)
	d.pass.SetIndexBuffer(buffers.index, wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
	count := uint32(call.EndFace-call.StartFace) * 3
	d.pass.DrawIndexed(count, 1, uint32(call.StartFace)*3, 0, 0)
	d.stats.DrawCalls++
}

func (d *WGPUDevice) Present() error {
	if d.encoder == nil {
		return nil
	}
	d.endPass()
	cmd, err := d.encoder.Finish(nil)
	if err != nil {
		d.releaseFrame()
		return fmt.Errorf("failed to finish command encoder: %w", err)
	}
	d.queue.Submit(cmd)
	d.surface.Present()
	cmd.Release()
	d.releaseFrame()
	return nil
}

func (d *WGPUDevice) ErrorCheck(tag string) error {
	if len(d.errs) == 0 {
		return nil
	}
	if d.logger != nil {
		d.logger.Debugf("error check %s: %d backend errors", tag, len(d.errs))
	}
	err := errors.Join(d.errs...)
	d.errs = d.errs[:0]
	return err
}

func (d *WGPUDevice) ResetFrameStatistics() {
	d.stats = Stats{}
}

func (d *WGPUDevice) Stats() Stats {
	return d.stats
}

func (d *WGPUDevice) fail(err error) {
	d.errs = append(d.errs, err)
}

func (d *WGPUDevice) releaseFrame() {
	for _, bg := range d.bindGroups {
		bg.Release()
	}
	for _, b := range d.transient {
		b.Release()
	}
	d.bindGroups = d.bindGroups[:0]
	d.transient = d.transient[:0]
	if d.frameView != nil {
		d.frameView.Release()
	}
	if d.frameTexture != nil {
		d.frameTexture.Release()
	}
	d.encoder.Release()
	d.encoder = nil
	d.frameView = nil
	d.frameTexture = nil
}

func (d *WGPUDevice) endPass() {
	if d.pass == nil {
		return
	}
	if err := d.pass.End(); err != nil {
		d.fail(fmt.Errorf("failed to end render pass: %w", err))
	}
	d.pass.Release()
	d.pass = nil
	d.lastPipeline = nil
}

func (d *WGPUDevice) beginPass(flags ClearFlags) {
	if d.encoder == nil {
		d.fail(fmt.Errorf("render pass outside of a frame"))
		return
	}
	colorView, depthView := d.frameView, d.screenDepthView
	if d.target != nil {
		h := d.target.handle.(*targetHandle)
		colorView, depthView = h.colorViews[d.face], h.depthViews[d.face]
	}

	colorLoad := wgpu.LoadOpLoad
	if flags&ClearColor != 0 {
		colorLoad = wgpu.LoadOpClear
	}
	depthLoad := wgpu.LoadOpLoad
	if flags&ClearDepth != 0 {
		depthLoad = wgpu.LoadOpClear
	}

	d.pass = d.encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "Lumen Pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       colorView,
			LoadOp:     colorLoad,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: d.clearColor,
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            depthView,
			DepthLoadOp:     depthLoad,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1.0,
		},
	})
}

func (d *WGPUDevice) targetFormat() wgpu.TextureFormat {
	if d.target == nil {
		return d.config.Format
	}
	return d.target.handle.(*targetHandle).format
}

func (d *WGPUDevice) ensureTarget(rt *RenderTexture) error {
	if !rt.IsCreated() {
		return fmt.Errorf("render texture %s was never created", rt.Name)
	}
	if rt.handle != nil {
		return nil
	}

	layers := uint32(1)
	dim := wgpu.TextureViewDimension2D
	if rt.IsCube() {
		layers = 6
		dim = wgpu.TextureViewDimensionCube
	}
	format := wgpu.TextureFormatRGBA8Unorm
	if rt.DataType() == DataTypeFloat {
		format = wgpu.TextureFormatRGBA16Float
	}
	size := wgpu.Extent3D{Width: uint32(rt.Width()), Height: uint32(rt.Height()), DepthOrArrayLayers: layers}

	color, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         rt.Name,
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
	})
	if err != nil {
		return fmt.Errorf("failed to create render texture %s: %w", rt.Name, err)
	}
	depth, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         rt.Name + " Depth",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        depthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		color.Release()
		return fmt.Errorf("failed to create render texture depth %s: %w", rt.Name, err)
	}

	h := &targetHandle{color: color, depth: depth, format: format}
	for layer := uint32(0); layer < layers; layer++ {
		cv, err := color.CreateView(&wgpu.TextureViewDescriptor{
			Format: format, Dimension: wgpu.TextureViewDimension2D,
			MipLevelCount: 1, BaseArrayLayer: layer, ArrayLayerCount: 1,
		})
		if err != nil {
			return fmt.Errorf("failed to create face view %s/%d: %w", rt.Name, layer, err)
		}
		dv, err := depth.CreateView(&wgpu.TextureViewDescriptor{
			Format: depthFormat, Dimension: wgpu.TextureViewDimension2D,
			MipLevelCount: 1, BaseArrayLayer: layer, ArrayLayerCount: 1,
			Aspect: wgpu.TextureAspectDepthOnly,
		})
		if err != nil {
			return fmt.Errorf("failed to create depth view %s/%d: %w", rt.Name, layer, err)
		}
		h.colorViews = append(h.colorViews, cv)
		h.depthViews = append(h.depthViews, dv)
	}
	h.sampleView, err = color.CreateView(&wgpu.TextureViewDescriptor{
		Format: format, Dimension: dim,
		MipLevelCount: 1, ArrayLayerCount: layers,
	})
	if err != nil {
		return fmt.Errorf("failed to create sample view %s: %w", rt.Name, err)
	}
	rt.handle = h
	if d.logger != nil {
		d.logger.Debugf("allocated render texture %s %dx%d layers=%d", rt.Name, rt.Width(), rt.Height(), layers)
	}
	return nil
}

func (d *WGPUDevice) ensureBuffer(vb *VertexBuffer) (*bufferHandle, error) {
	if h, ok := vb.handle.(*bufferHandle); ok && h.version == vb.Version {
		return h, nil
	} else if ok {
		h.vertex.Release()
		h.index.Release()
	}

	vertex, err := d.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Vertices",
		Contents: wgpu.ToBytes(vb.Vertices),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload vertices: %w", err)
	}
	// Index buffers must be 4-byte aligned; pad odd face counts with a degenerate index.
	indices := make([]uint16, 0, len(vb.Faces)*3+1)
	for _, f := range vb.Faces {
		indices = append(indices, f[0], f[1], f[2])
	}
	if len(indices)%2 == 1 {
		indices = append(indices, 0)
	}
	index, err := d.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Indices",
		Contents: wgpu.ToBytes(indices),
		Usage:    wgpu.BufferUsageIndex,
	})
	if err != nil {
		vertex.Release()
		return nil, fmt.Errorf("failed to upload indices: %w", err)
	}
	h := &bufferHandle{vertex: vertex, index: index, version: vb.Version}
	vb.handle = h
	return h, nil
}

func (d *WGPUDevice) createTexture(label string, width, height, layers uint32, data [][]byte) (*textureHandle, error) {
	tex, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Size:          wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: layers},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create texture %s: %w", label, err)
	}
	for layer, pixels := range data {
		d.queue.WriteTexture(
			&wgpu.ImageCopyTexture{
				Texture:  tex,
				MipLevel: 0,
				Origin:   wgpu.Origin3D{Z: uint32(layer)},
				Aspect:   wgpu.TextureAspectAll,
			},
			pixels,
			&wgpu.TextureDataLayout{Offset: 0, BytesPerRow: width * 4, RowsPerImage: height},
			&wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		)
	}
	dim := wgpu.TextureViewDimension2D
	if layers == 6 {
		dim = wgpu.TextureViewDimensionCube
	}
	view, err := tex.CreateView(&wgpu.TextureViewDescriptor{
		Format: wgpu.TextureFormatRGBA8Unorm, Dimension: dim,
		MipLevelCount: 1, ArrayLayerCount: layers,
	})
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("failed to create texture view %s: %w", label, err)
	}
	return &textureHandle{texture: tex, view: view}, nil
}

func (d *WGPUDevice) slotView(bindings []TextureBinding, slot string, shader *Shader) (*wgpu.TextureView, error) {
	var tex Sampleable
	for _, b := range bindings {
		if b.Name == slot {
			tex = b.Texture
			break
		}
	}

	switch t := tex.(type) {
	case *Texture2D:
		if h, ok := t.handle.(*textureHandle); ok {
			return h.view, nil
		}
		h, err := d.createTexture(t.Name, uint32(t.Width), uint32(t.Height), 1, [][]byte{t.Pixels})
		if err != nil {
			return nil, err
		}
		t.handle = h
		return h.view, nil
	case *TextureCube:
		if h, ok := t.handle.(*textureHandle); ok {
			return h.view, nil
		}
		size := uint32(t.Size)
		h, err := d.createTexture(t.Name, size, size, 6, t.Faces[:])
		if err != nil {
			return nil, err
		}
		t.handle = h
		return h.view, nil
	case *RenderTexture:
		if err := d.ensureTarget(t); err != nil {
			return nil, err
		}
		return t.handle.(*targetHandle).sampleView, nil
	}

	if shader.CubeSlots[slot] {
		return d.whiteCube.view, nil
	}
	return d.white.view, nil
}

func (d *WGPUDevice) shaderModule(s *Shader) (*wgpu.ShaderModule, error) {
	if m, ok := d.modules[s]; ok {
		return m, nil
	}
	m, err := d.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          s.Name,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: s.Source},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compile shader %s: %w", s.Name, err)
	}
	d.modules[s] = m
	return m, nil
}

func (d *WGPUDevice) pipeline(call DrawCall, format wgpu.TextureFormat) (*wgpu.RenderPipeline, error) {
	key := pipelineKey{shader: call.Shader, blend: call.Blend, depth: call.Depth, cull: call.Cull, format: format}
	if p, ok := d.pipelines[key]; ok {
		return p, nil
	}

	module, err := d.shaderModule(call.Shader)
	if err != nil {
		return nil, err
	}

	var blend *wgpu.BlendState
	switch call.Blend {
	case BlendAlpha:
		blend = &wgpu.BlendState{
			Color: wgpu.BlendComponent{SrcFactor: wgpu.BlendFactorSrcAlpha, DstFactor: wgpu.BlendFactorOneMinusSrcAlpha, Operation: wgpu.BlendOperationAdd},
			Alpha: wgpu.BlendComponent{SrcFactor: wgpu.BlendFactorOne, DstFactor: wgpu.BlendFactorOneMinusSrcAlpha, Operation: wgpu.BlendOperationAdd},
		}
	case BlendAdditive:
		blend = &wgpu.BlendState{
			Color: wgpu.BlendComponent{SrcFactor: wgpu.BlendFactorOne, DstFactor: wgpu.BlendFactorOne, Operation: wgpu.BlendOperationAdd},
			Alpha: wgpu.BlendComponent{SrcFactor: wgpu.BlendFactorOne, DstFactor: wgpu.BlendFactorOne, Operation: wgpu.BlendOperationAdd},
		}
	}

	depthWrite := call.Depth == DepthLessOrEqualWriteOn
	depthCompare := wgpu.CompareFunctionLessEqual
	if call.Depth == DepthNoneWriteOff {
		depthCompare = wgpu.CompareFunctionAlways
	}

	cull := wgpu.CullModeBack
	switch call.Cull {
	case CullFront:
		cull = wgpu.CullModeFront
	case CullOff:
		cull = wgpu.CullModeNone
	}

	p, err := d.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: call.Shader.Name,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: uint64(unsafe.Sizeof(Vertex{})),
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes: []wgpu.VertexAttribute{
					{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
					{Format: wgpu.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1},
					{Format: wgpu.VertexFormatFloat32x3, Offset: 20, ShaderLocation: 2},
					{Format: wgpu.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 3},
					{Format: wgpu.VertexFormatFloat32x4, Offset: 48, ShaderLocation: 4},
				},
			}},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    format,
				Blend:     blend,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  cull,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            depthFormat,
			DepthWriteEnabled: depthWrite,
			DepthCompare:      depthCompare,
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		},
		Multisample: wgpu.MultisampleState{Count: 1, Mask: 0xFFFFFFFF},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline for %s: %w", call.Shader.Name, err)
	}
	d.pipelines[key] = p
	if d.logger != nil {
		d.logger.Debugf("created pipeline %s blend=%d depth=%d cull=%d", call.Shader.Name, call.Blend, call.Depth, call.Cull)
	}
	return p, nil
}

// Release frees cached pipelines, modules and shared textures.
func (d *WGPUDevice) Release() {
	for _, p := range d.pipelines {
		p.Release()
	}
	for _, m := range d.modules {
		m.Release()
	}
	d.pipelines = map[pipelineKey]*wgpu.RenderPipeline{}
	d.modules = map[*Shader]*wgpu.ShaderModule{}
	d.sampler.Release()
	d.white.view.Release()
	d.white.texture.Release()
	d.whiteCube.view.Release()
	d.whiteCube.texture.Release()
	if d.screenDepthView != nil {
		d.screenDepthView.Release()
		d.screenDepth.Release()
	}
}
