package recording

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG for FSLoader
	"image/png"
	"io/fs"
	"path"

	"github.com/gogpu/drawlist"
)

// MemLoader is a drawlist.Loader backed by maps.
type MemLoader struct {
	images map[string]image.Image
	texts  map[string][]byte
}

var _ drawlist.Loader = (*MemLoader)(nil)

// NewMemLoader creates an empty loader.
func NewMemLoader() *MemLoader {
	return &MemLoader{
		images: make(map[string]image.Image),
		texts:  make(map[string][]byte),
	}
}

// AddImage registers img under name, replacing any previous image.
func (l *MemLoader) AddImage(name string, img image.Image) *MemLoader {
	l.images[name] = img
	return l
}

// AddText registers data under name.
func (l *MemLoader) AddText(name string, data []byte) *MemLoader {
	l.texts[name] = data
	return l
}

// LoadImage implements drawlist.Loader.
func (l *MemLoader) LoadImage(name string) (image.Image, error) {
	img, ok := l.images[name]
	if !ok {
		return nil, fmt.Errorf("%w: image %q", drawlist.ErrResourceNotFound, name)
	}
	return img, nil
}

// LoadText implements drawlist.Loader.
func (l *MemLoader) LoadText(name string) ([]byte, error) {
	data, ok := l.texts[name]
	if !ok {
		return nil, fmt.Errorf("%w: text %q", drawlist.ErrResourceNotFound, name)
	}
	return data, nil
}

// FSLoader loads resources from a file system. Image names without an
// extension get ".png" appended.
type FSLoader struct {
	FS fs.FS
}

var _ drawlist.Loader = FSLoader{}

// LoadImage decodes the named image. Missing files return an error
// wrapping fs.ErrNotExist.
func (l FSLoader) LoadImage(name string) (image.Image, error) {
	file := name
	if path.Ext(file) == "" {
		file += ".png"
	}
	data, err := fs.ReadFile(l.FS, file)
	if err != nil {
		return nil, fmt.Errorf("recording: load image %q: %w", name, err)
	}
	var img image.Image
	if path.Ext(file) == ".png" {
		img, err = png.Decode(bytes.NewReader(data))
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("recording: decode image %q: %w", name, err)
	}
	return img, nil
}

// LoadText reads the named file.
func (l FSLoader) LoadText(name string) ([]byte, error) {
	data, err := fs.ReadFile(l.FS, name)
	if err != nil {
		return nil, fmt.Errorf("recording: load text %q: %w", name, err)
	}
	return data, nil
}
