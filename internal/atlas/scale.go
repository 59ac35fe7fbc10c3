package atlas

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
)

// Rescale resamples img by scale with Catmull-Rom filtering.
// A scale of 1 (or a non-positive scale) returns img converted to RGBA
// without resampling.
func Rescale(img image.Image, scale float64) *image.RGBA {
	b := img.Bounds()
	if scale <= 0 || scale == 1 {
		return ToRGBA(img)
	}
	w := max(1, int(math.Round(float64(b.Dx())*scale)))
	h := max(1, int(math.Round(float64(b.Dy())*scale)))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// ToRGBA returns img as an *image.RGBA whose bounds start at the origin.
// An RGBA image already at the origin is returned as is.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Copy(dst, image.Point{}, img, b, xdraw.Src, nil)
	return dst
}
