// Package recording provides in-memory drawlist backends and loaders.
//
// The memory backend keeps every texture and a deep copy of every submitted
// frame, so tests can assert on batch contents after the command list that
// produced them has been released. With a raster target it also renders
// each frame on the CPU into an *image.RGBA, which is enough to compare
// output against golden images or write a PNG from a headless tool.
//
// # Basic Usage
//
//	b := recording.New(recording.WithTarget(800, 600))
//	ctx, err := drawlist.New(b, recording.NewMemLoader())
//	...
//	ctx.DrawCommandList(cl, drawlist.R(0, 0, 800, 600))
//	f := b.LastFrame()
//	fmt.Println(f.Stats())
//	b.WritePNG(out)
//
// # Backend Registration
//
// Backends are registered by name, following the database/sql driver
// pattern, so tools can select one from a flag:
//
//	b, err := recording.NewBackend("raster", recording.WithTarget(640, 480))
//
// The "memory" and "raster" backends are registered by this package.
package recording
