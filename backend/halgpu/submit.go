//go:build !nogpu

package halgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/drawlist"
)

// chunkDraw locates one mesh or line chunk inside the frame buffers.
type chunkDraw struct {
	vertexOffset uint64
	indexOffset  uint64
	count        uint32
}

// quadDraw is one textured range ready to record.
type quadDraw struct {
	bind        hal.BindGroup
	indexOffset uint64
	count       uint32
}

type quadSet struct {
	vertBuf hal.Buffer
	idxBuf  hal.Buffer
	draws   []quadDraw
}

// frameResources owns the buffers and bind group of one frame. They are
// released once the GPU has finished with them.
type frameResources struct {
	device  hal.Device
	queue   hal.Queue
	buffers []hal.Buffer
	bind    hal.BindGroup
}

func (r *frameResources) upload(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	r.buffers = append(r.buffers, buf)
	r.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

func (r *frameResources) release() {
	if r.bind != nil {
		r.device.DestroyBindGroup(r.bind)
		r.bind = nil
	}
	for _, buf := range r.buffers {
		r.device.DestroyBuffer(buf)
	}
	r.buffers = nil
}

// SubmitDrawBatches draws frame into the render target and waits for the
// GPU to finish. Meshes are drawn first, then lines, bitmaps and text.
func (b *Backend) SubmitDrawBatches(f *drawlist.Frame) error {
	if b.closed {
		return ErrClosed
	}
	if b.target == nil {
		return ErrNoTarget
	}
	if !b.pipes.ready() {
		if err := b.pipes.create(b.opts.format, b.opts.spirv); err != nil {
			return fmt.Errorf("halgpu: %w", err)
		}
	}

	res := &frameResources{device: b.device, queue: b.queue}
	defer res.release()

	if err := b.buildUniforms(res, f); err != nil {
		return err
	}
	meshBuf, meshIdx, meshDraws, err := buildMeshes(res, f.Meshes)
	if err != nil {
		return err
	}
	lineBuf, lineDraws, err := buildLines(res, f.Lines)
	if err != nil {
		return err
	}
	b.lastSkipped = 0
	bitmaps, err := b.buildQuads(res, "bitmap", f.Bitmaps, f.BitmapRanges)
	if err != nil {
		return err
	}
	text, err := b.buildQuads(res, "text", f.Text, f.TextRanges)
	if err != nil {
		return err
	}
	if b.lastSkipped > 0 {
		slogger().Debug("halgpu: textured ranges skipped, no texture binder", "ranges", b.lastSkipped)
	}

	encoder, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "drawlist_encoder"})
	if err != nil {
		return fmt.Errorf("halgpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("drawlist_frame"); err != nil {
		return fmt.Errorf("halgpu: begin encoding: %w", err)
	}

	c := b.opts.clear
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "drawlist_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:    b.target,
			LoadOp:  gputypes.LoadOpClear,
			StoreOp: gputypes.StoreOpStore,
			ClearValue: gputypes.Color{
				R: float64(c.R()) / 255,
				G: float64(c.G()) / 255,
				B: float64(c.B()) / 255,
				A: float64(c.A()) / 255,
			},
		}},
	})

	if len(meshDraws) > 0 {
		rp.SetPipeline(b.pipes.mesh)
		rp.SetBindGroup(0, res.bind, nil)
		for _, d := range meshDraws {
			rp.SetVertexBuffer(0, meshBuf, d.vertexOffset)
			rp.SetIndexBuffer(meshIdx, gputypes.IndexFormatUint16, d.indexOffset)
			rp.DrawIndexed(d.count, 1, 0, 0, 0)
		}
	}
	if len(lineDraws) > 0 {
		rp.SetPipeline(b.pipes.line)
		rp.SetBindGroup(0, res.bind, nil)
		for _, d := range lineDraws {
			rp.SetVertexBuffer(0, lineBuf, d.vertexOffset)
			rp.Draw(d.count, 1, 0, 0)
		}
	}
	for _, qs := range []*quadSet{bitmaps, text} {
		if qs == nil || len(qs.draws) == 0 {
			continue
		}
		rp.SetPipeline(b.pipes.quad)
		rp.SetBindGroup(0, res.bind, nil)
		rp.SetVertexBuffer(0, qs.vertBuf, 0)
		for _, d := range qs.draws {
			rp.SetBindGroup(1, d.bind, nil)
			rp.SetIndexBuffer(qs.idxBuf, gputypes.IndexFormatUint32, d.indexOffset)
			rp.DrawIndexed(d.count, 1, 0, 0, 0)
		}
	}
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("halgpu: end encoding: %w", err)
	}
	defer b.device.FreeCommandBuffer(cmdBuf)

	fence, err := b.device.CreateFence()
	if err != nil {
		return fmt.Errorf("halgpu: create fence: %w", err)
	}
	defer b.device.DestroyFence(fence)

	if err := b.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("halgpu: submit: %w", err)
	}
	fenceOK, err := b.device.Wait(fence, 1, b.opts.waitTimeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("halgpu: wait for GPU: ok=%v err=%w", fenceOK, err)
	}
	b.frames++
	return nil
}

func (b *Backend) buildUniforms(res *frameResources, f *drawlist.Frame) error {
	data := packUniforms(b.width, b.height, f.Clip, b.dashOn(f.DashTexture))
	buf, err := res.upload("drawlist_uniforms", data, gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return fmt.Errorf("halgpu: %w", err)
	}
	bg, err := b.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "drawlist_uniform_bind",
		Layout: b.pipes.uniformLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: buf.NativeHandle(), Offset: 0, Size: uniformSize,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("halgpu: create uniform bind group: %w", err)
	}
	res.bind = bg
	return nil
}

// dashOn returns the opaque fraction of the dash texture, or 1 when the
// texture is unknown.
func (b *Backend) dashOn(id drawlist.TextureID) float32 {
	t, ok := b.textures[id]
	if !ok || t.shadow == nil {
		return 1
	}
	return dashRatio(t.shadow)
}

func buildMeshes(res *frameResources, meshes []drawlist.MeshDrawData) (vert, idx hal.Buffer, draws []chunkDraw, err error) {
	var vdata, idata []byte
	for i := range meshes {
		m := &meshes[i]
		if len(m.Indices) == 0 {
			continue
		}
		draws = append(draws, chunkDraw{
			vertexOffset: uint64(len(vdata)),
			indexOffset:  uint64(len(idata)),
			count:        uint32(len(m.Indices)), //nolint:gosec // chunk indices are bounded by uint16 vertex count
		})
		vdata = packMeshVertices(vdata, m)
		idata = packIndices16(idata, m.Indices)
	}
	if len(draws) == 0 {
		return nil, nil, nil, nil
	}
	if vert, err = res.upload("drawlist_mesh_verts", vdata, gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst); err != nil {
		return nil, nil, nil, fmt.Errorf("halgpu: %w", err)
	}
	if idx, err = res.upload("drawlist_mesh_indices", idata, gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst); err != nil {
		return nil, nil, nil, fmt.Errorf("halgpu: %w", err)
	}
	return vert, idx, draws, nil
}

func buildLines(res *frameResources, lines []drawlist.LineDrawData) (hal.Buffer, []chunkDraw, error) {
	var vdata []byte
	var draws []chunkDraw
	for i := range lines {
		l := &lines[i]
		if len(l.Colors) == 0 {
			continue
		}
		draws = append(draws, chunkDraw{
			vertexOffset: uint64(len(vdata)),
			count:        uint32(len(l.Colors)), //nolint:gosec // chunk size is bounded by the pool capacity
		})
		vdata = packLineVertices(vdata, l)
	}
	if len(draws) == 0 {
		return nil, nil, nil
	}
	buf, err := res.upload("drawlist_line_verts", vdata, gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, nil, fmt.Errorf("halgpu: %w", err)
	}
	return buf, draws, nil
}

func (b *Backend) buildQuads(res *frameResources, label string, q *drawlist.QuadBuffer, ranges []drawlist.DrawRange) (*quadSet, error) {
	if q == nil || q.Len() == 0 || len(ranges) == 0 {
		return nil, nil //nolint:nilnil // nothing to draw is not an error
	}
	qs := &quadSet{}
	for _, rg := range ranges {
		bg, err := b.bindGroup(rg.TextureID)
		if err != nil {
			return nil, err
		}
		if bg == nil {
			b.lastSkipped++
			continue
		}
		qs.draws = append(qs.draws, quadDraw{
			bind:        bg,
			indexOffset: uint64(rg.Start) * 6 * 4,
			count:       uint32(rg.Count * 6), //nolint:gosec // range sizes come from a bounded quad buffer
		})
	}
	if len(qs.draws) == 0 {
		return qs, nil
	}

	var err error
	qs.vertBuf, err = res.upload("drawlist_"+label+"_verts", packQuadVertices(nil, q),
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, fmt.Errorf("halgpu: %w", err)
	}
	qs.idxBuf, err = res.upload("drawlist_"+label+"_indices", packIndices32(nil, drawlist.QuadIndices(nil, q.Len())),
		gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, fmt.Errorf("halgpu: %w", err)
	}
	return qs, nil
}
