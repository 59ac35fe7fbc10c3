// Command drawlistdemo records a small UI scene with drawlist and writes the
// software-rasterized result to a PNG file.
//
// Usage:
//
//	drawlistdemo -config scene.yaml -output scene.png -v
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/drawlist"
	"github.com/gogpu/drawlist/recording"
	"github.com/gogpu/drawlist/text"
	"github.com/gogpu/drawlist/text/bake"
)

func main() {
	configPath := flag.String("config", "", "YAML scene configuration")
	width := flag.Int("width", 0, "image width, overrides the config")
	height := flag.Int("height", 0, "image height, overrides the config")
	output := flag.String("output", "", "output PNG file, overrides the config")
	fontSize := flag.Float64("size", 0, "font size in pixels, overrides the config")
	backendName := flag.String("backend", "", "recording backend name, overrides the config")
	verbose := flag.Bool("v", false, "log at debug level")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	drawlist.SetLogger(logger)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "output":
			cfg.Output = *output
		case "size":
			cfg.FontSize = *fontSize
		case "backend":
			cfg.Backend = *backendName
		}
	})
	if err := cfg.validate(); err != nil {
		log.Fatalf("Invalid options: %v", err)
	}

	stats, err := run(&cfg)
	if err != nil {
		log.Fatalf("Failed to render: %v", err)
	}
	fmt.Printf("Rendered %dx%d with the %s backend\n", cfg.Width, cfg.Height, cfg.Backend)
	fmt.Printf("  draw calls: %d\n", stats.DrawCalls)
	fmt.Printf("  vertices:   %d\n", stats.Vertices)
	fmt.Printf("  indices:    %d\n", stats.Indices)
	fmt.Printf("  segments:   %d\n", stats.Segments)
	fmt.Printf("  quads:      %d\n", stats.Quads)
}

// run builds the context, records the scene and writes the PNG when the
// backend rasterizes.
func run(cfg *sceneConfig) (drawlist.FrameStats, error) {
	backend, err := recording.NewBackend(cfg.Backend,
		recording.WithTargetSize(cfg.Width, cfg.Height),
		recording.WithClearColor(cfg.background()),
		recording.WithWideLines(cfg.WideLines),
		recording.WithFrameLimit(1),
	)
	if err != nil {
		return drawlist.FrameStats{}, err
	}
	ctx, err := drawlist.New(backend, nil, cfg.options()...)
	if err != nil {
		return drawlist.FrameStats{}, err
	}
	defer ctx.Close()

	baked, err := bake.Bake(goregular.TTF, bake.Options{Size: cfg.FontSize, Kerning: cfg.Kerning})
	if err != nil {
		return drawlist.FrameStats{}, fmt.Errorf("bake font: %w", err)
	}
	font, err := ctx.CreateFont(baked.MetricsText(), baked.Sheet)
	if err != nil {
		return drawlist.FrameStats{}, err
	}
	if len(cfg.Icons) > 0 {
		if _, err := ctx.CreateBitmapAtlas(cfg.iconImages(), true); err != nil {
			return drawlist.FrameStats{}, fmt.Errorf("build icon atlas: %w", err)
		}
	}

	cl := ctx.CreateCommandList()
	defer cl.Release()
	s := &scene{ctx: ctx, cl: cl, font: font, cfg: cfg}
	s.build()

	viewport := drawlist.R(0, 0, float32(cfg.Width), float32(cfg.Height))
	if err := ctx.DrawCommandList(cl, viewport); err != nil {
		return drawlist.FrameStats{}, err
	}
	stats := backend.LastFrame().Stats()
	if backend.Image() == nil {
		slog.Info("backend does not rasterize, no image written", "backend", cfg.Backend)
		return stats, nil
	}

	f, err := os.Create(cfg.Output)
	if err != nil {
		return stats, err
	}
	if err := backend.WritePNG(f); err != nil {
		f.Close()
		return stats, err
	}
	return stats, f.Close()
}

// scene lays out a header, a sidebar of icon rows and a chart panel.
type scene struct {
	ctx  *drawlist.Context
	cl   *drawlist.CommandList
	font *text.Font
	cfg  *sceneConfig
}

var (
	panelTop    = drawlist.RGB(0x3a, 0x3a, 0x4c)
	panelBottom = drawlist.RGB(0x2a, 0x2a, 0x36)
	border      = drawlist.RGB(0x55, 0x55, 0x70)
	accent      = drawlist.RGB(0x64, 0xb5, 0xf6)
	textColor   = drawlist.RGB(0xee, 0xee, 0xee)
	dimText     = drawlist.RGB(0x99, 0x99, 0xaa)
)

func (s *scene) build() {
	w, h := float32(s.cfg.Width), float32(s.cfg.Height)
	header := s.font.LineHeight + 16

	s.cl.FillRectangle(drawlist.R(0, 0, w, header),
		s.ctx.GetHorizontalGradientBrush(accent.WithAlpha(0.6), panelBottom, w), false)
	s.cl.DrawText(drawlist.R(12, 0, w-24, header), text.AlignMiddle|text.Ellipsis,
		s.cfg.Title, s.font, s.ctx.GetSolidBrush(textColor))
	s.cl.DrawLine(0, header, w, header, border, 1, false, false)

	sidebar := drawlist.R(8, header+8, w/3-12, h-header-16)
	s.panel(sidebar)
	s.cl.PushTranslation(sidebar.X, sidebar.Y)
	s.iconRows(sidebar.Width)
	s.cl.PopTransform()

	chart := drawlist.R(w/3+4, header+8, w*2/3-12, h-header-16)
	s.panel(chart)
	s.cl.PushTranslation(chart.X, chart.Y)
	s.chart(chart.Width, chart.Height)
	s.cl.PopTransform()
}

func (s *scene) panel(r drawlist.Rect) {
	fill := s.ctx.GetVerticalGradientBrush(panelTop, panelBottom, r.Height)
	s.cl.FillAndDrawRectangle(r, fill, border, 1, false)
}

// iconRows draws one labelled row per configured icon, using local
// coordinates inside the sidebar.
func (s *scene) iconRows(width float32) {
	row := max(s.font.LineHeight, 20) + 6
	y := float32(8)
	for _, ic := range s.cfg.Icons {
		ref, ok := s.ctx.GetBitmapAtlasRef(ic.Name)
		if !ok {
			continue
		}
		size := min(float32(ic.Size), row-4)
		s.cl.DrawBitmapAtlas(ref.Atlas, ref.Index,
			drawlist.R(8, y+(row-size)/2, size, size), drawlist.White, 1)
		s.cl.DrawText(drawlist.R(size+16, y, width-size-24, row),
			text.AlignMiddle|text.Ellipsis|text.Clip, ic.Name+" status", s.font,
			s.ctx.GetSolidBrush(textColor))
		y += row
		s.cl.DrawLine(8, y, width-8, y, border, 1, false, true)
	}
}

// chart draws a dashed grid, a filled area under a polyline and its
// stroked outline, in local coordinates.
func (s *scene) chart(w, h float32) {
	const pad = 24
	plot := drawlist.R(pad, pad, w-2*pad, h-2*pad)
	if plot.Empty() {
		return
	}
	for i := 1; i < 4; i++ {
		y := plot.Y + plot.Height*float32(i)/4
		s.cl.DrawLine(plot.X, y, plot.Right(), y, dimText, 1, false, true)
	}
	s.cl.DrawRectangle(plot, dimText, 1, false, false)

	values := []float32{0.2, 0.45, 0.35, 0.7, 0.55, 0.9, 0.65}
	pts := make([]drawlist.Point, len(values))
	for i, v := range values {
		x := plot.Width * float32(i) / float32(len(values)-1)
		pts[i] = drawlist.Pt(x, plot.Height*(1-v))
	}

	// Geometry gradients start at local 0, so the plot gets its own origin.
	// The area under the polyline is filled column by column so every
	// piece stays convex.
	s.cl.PushTranslation(plot.X, plot.Y)
	fill := s.ctx.GetVerticalGradientBrush(accent.WithAlpha(0.5), accent.WithAlpha(0.05), plot.Height)
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		column := drawlist.NewGeometry([]drawlist.Point{
			drawlist.Pt(a.X, plot.Height), a, b, drawlist.Pt(b.X, plot.Height),
		}, true)
		s.cl.FillGeometry(column, fill, false)
	}
	s.cl.DrawGeometry(drawlist.NewGeometry(pts, false), accent, 3, true, false)
	s.cl.PopTransform()

	s.cl.DrawText(drawlist.R(plot.X, 0, plot.Width, pad), text.AlignRight|text.AlignMiddle,
		"throughput", s.font, s.ctx.GetSolidBrush(dimText))
}
