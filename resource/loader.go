package resource

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
)

// Load decodes the image file at path into a resource. Supported formats are
// png, jpeg, gif, and bmp.
func Load(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("resource: open %s: %w", path, err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("resource: decode %s: %w", path, err)
	}

	b := src.Bounds()
	pixels := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(pixels, pixels.Bounds(), src, b.Min, xdraw.Src)

	r := NewImage(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), pixels)
	r.path = path
	return r, nil
}

// Thumbnail scales a resource down to fit within maxSide pixels, for list
// views. Resources already small enough are returned as-is.
func Thumbnail(r *Image, maxSide int) *image.NRGBA {
	if r == nil || r.pixels == nil || maxSide <= 0 {
		return nil
	}
	sz := r.size
	if sz.X <= maxSide && sz.Y <= maxSide {
		return r.pixels
	}
	w, h := sz.X, sz.Y
	if w >= h {
		h = h * maxSide / w
		w = maxSide
	} else {
		w = w * maxSide / h
		h = maxSide
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), r.pixels, r.pixels.Bounds(), xdraw.Src, nil)
	return dst
}

// IsImageFile reports whether path has a loadable image extension.
func IsImageFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp":
		return true
	}
	return false
}
