// Package halgpu draws drawlist frames on a gogpu/wgpu HAL device.
//
// Create a backend on an existing device, give it a render target, then
// pass it to drawlist.New:
//
//	be, err := halgpu.New(device, queue, halgpu.WithTextureBinder(bind))
//	if err != nil {
//	    return err
//	}
//	defer be.Close()
//	be.SetTarget(surfaceView, width, height)
//
//	ctx, err := drawlist.New(be, loader)
//
// Applications that already own a gogpu window can use NewFromProvider.
//
// Each frame is drawn in one render pass: meshes with a triangle list
// pipeline, lines with a line list pipeline, and bitmaps and text with a
// textured quad pipeline. Dashes are computed in the fragment shader from
// the opaque fraction of the context's dash texture. The frame clip
// rectangle is applied in the fragment shader.
//
// Lines are one pixel wide, so Capabilities reports no wide line support
// and wider strokes arrive as triangles.
package halgpu
