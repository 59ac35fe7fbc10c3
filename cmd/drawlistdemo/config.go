package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/drawlist"
	"github.com/gogpu/drawlist/recording"
)

// sceneConfig is the YAML scene description. Fields left out of the file
// keep the values from defaultConfig.
type sceneConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Output     string `yaml:"output"`
	Background string `yaml:"background"`
	Title      string `yaml:"title"`
	Backend    string `yaml:"backend"`

	FontSize float64 `yaml:"font_size"`
	Kerning  bool    `yaml:"kerning"`

	DPIScale           float32     `yaml:"dpi_scale"`
	MaxAtlasResolution int         `yaml:"max_atlas_resolution"`
	LineWidthBias      float32     `yaml:"line_width_bias"`
	WideLines          bool        `yaml:"wide_lines"`
	Dash               *dashConfig `yaml:"dash,omitempty"`

	Icons []iconConfig `yaml:"icons"`
}

type dashConfig struct {
	On  int `yaml:"on"`
	Off int `yaml:"off"`
}

// iconConfig names a generated disc icon packed into the demo atlas.
type iconConfig struct {
	Name  string `yaml:"name"`
	Size  int    `yaml:"size"`
	Color string `yaml:"color"`
}

var errInvalidConfig = errors.New("invalid scene config")

func defaultConfig() sceneConfig {
	return sceneConfig{
		Width:      640,
		Height:     400,
		Output:     "drawlist.png",
		Background: "#1e1e28",
		Title:      "drawlist demo",
		Backend:    "raster",
		FontSize:   16,
		Kerning:    true,
		DPIScale:   1,
		Icons: []iconConfig{
			{Name: "ok", Size: 16, Color: "#4caf50"},
			{Name: "warn", Size: 16, Color: "#ffc107"},
			{Name: "error", Size: 16, Color: "#f44336"},
			{Name: "badge", Size: 32, Color: "#2196f3"},
		},
	}
}

// loadConfig reads path over the defaults. An empty path returns the
// defaults unchanged.
func loadConfig(path string) (sceneConfig, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	slog.Debug("loaded scene config", "path", path, "icons", len(cfg.Icons))
	return cfg, cfg.validate()
}

func (c *sceneConfig) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", errInvalidConfig, c.Width, c.Height)
	}
	if c.FontSize <= 0 {
		return fmt.Errorf("%w: font_size %v", errInvalidConfig, c.FontSize)
	}
	if !slices.Contains(recording.Backends(), c.Backend) {
		return fmt.Errorf("%w: backend %q, have %v", errInvalidConfig, c.Backend, recording.Backends())
	}
	if _, err := drawlist.Hex(c.Background); err != nil {
		return fmt.Errorf("%w: background: %w", errInvalidConfig, err)
	}
	seen := make(map[string]bool, len(c.Icons))
	for _, ic := range c.Icons {
		if ic.Name == "" || ic.Size <= 0 {
			return fmt.Errorf("%w: icon %q size %d", errInvalidConfig, ic.Name, ic.Size)
		}
		if seen[ic.Name] {
			return fmt.Errorf("%w: duplicate icon %q", errInvalidConfig, ic.Name)
		}
		seen[ic.Name] = true
		if _, err := drawlist.Hex(ic.Color); err != nil {
			return fmt.Errorf("%w: icon %q: %w", errInvalidConfig, ic.Name, err)
		}
	}
	return nil
}

// options maps the config onto context options.
func (c *sceneConfig) options() []drawlist.Option {
	opts := []drawlist.Option{
		drawlist.WithDPIScale(c.DPIScale),
		drawlist.WithLineWidthBias(c.LineWidthBias),
	}
	if c.MaxAtlasResolution > 0 {
		opts = append(opts, drawlist.WithMaxAtlasResolution(c.MaxAtlasResolution))
	}
	if c.Dash != nil {
		opts = append(opts, drawlist.WithDashPattern(c.Dash.On, c.Dash.Off))
	}
	return opts
}

func (c *sceneConfig) background() drawlist.Color {
	bg, _ := drawlist.Hex(c.Background)
	return bg
}

// iconImages renders every icon as an antialiased disc.
func (c *sceneConfig) iconImages() map[string]image.Image {
	out := make(map[string]image.Image, len(c.Icons))
	for _, ic := range c.Icons {
		col, _ := drawlist.Hex(ic.Color)
		out[ic.Name] = disc(ic.Size, color.RGBAModel.Convert(col).(color.RGBA))
	}
	return out
}

func disc(size int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	r := float64(size) / 2
	for y := range size {
		for x := range size {
			dx, dy := float64(x)+0.5-r, float64(y)+0.5-r
			cover := r - math.Sqrt(dx*dx+dy*dy) + 0.5
			if cover <= 0 {
				continue
			}
			cover = min(cover, 1)
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(float64(c.R) * cover),
				G: uint8(float64(c.G) * cover),
				B: uint8(float64(c.B) * cover),
				A: uint8(float64(c.A) * cover),
			})
		}
	}
	return img
}
