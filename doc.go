// Package drawlist turns immediate-style drawing calls into a small number
// of GPU draw batches.
//
// # Overview
//
// A UI redraws many rectangles, lines, glyphs and icons every frame. Issuing
// one draw call per primitive is slow; drawlist records them into a
// CommandList that groups primitives by render state, then submits the
// groups through a Backend in one pass.
//
// # Quick Start
//
//	import "github.com/gogpu/drawlist"
//
//	ctx, err := drawlist.New(backend, loader)
//	if err != nil {
//	    return err
//	}
//	defer ctx.Close()
//
//	cl := ctx.CreateCommandList()
//	cl.FillRectangle(drawlist.R(10, 10, 200, 40), ctx.GetSolidBrush(drawlist.Red), false)
//	cl.DrawText(drawlist.R(10, 10, 200, 40), text.AlignCenter|text.AlignMiddle, "Hello", font, nil)
//	if err := ctx.DrawCommandList(cl, drawlist.R(0, 0, 800, 600)); err != nil {
//	    return err
//	}
//	cl.Release()
//
// # Batching
//
// A command list keeps:
//   - two mesh batches of filled triangles, sharp and smooth
//   - one line batch per (width, smooth) pair
//   - one text batch per font, laid out when the list is finalized
//   - one quad batch per bitmap or atlas texture
//
// Order is preserved within a batch only. Meshes are drawn before lines,
// lines before bitmaps, bitmaps before text.
//
// Batch arrays are borrowed from a pool owned by the Context and returned by
// CommandList.Release, so steady-state frames allocate nothing.
//
// # Coordinate System
//
// Origin at top-left, X right, Y down. Transforms are translate-and-scale
// only and are pushed and popped on the command list.
//
// # Backends
//
// The backend/halgpu package draws on a gogpu/wgpu HAL device. The
// recording package captures frames in memory for tests and tooling.
//
// # Debug builds
//
// Build with -tags drawlistdebug to turn programmer errors (unbalanced
// transforms, double release of pooled arrays, conflicting layout flags)
// into panics. Release builds ignore them.
package drawlist
