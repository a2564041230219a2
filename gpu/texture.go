//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"os"
	"path/filepath"

	// Decoders for the formats LoadTexture accepts.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// ErrUnsupportedFormat is returned when the image format cannot be decoded.
var ErrUnsupportedFormat = errors.New("gpu: unsupported image format")

// maxTextureDim is the largest texture edge uploaded without downscaling.
// gputypes.DefaultLimits guarantees at least 8192 on every backend.
const maxTextureDim = 8192

// Texture is an uploaded quad image: the GPU texture plus the view the
// bind group samples.
type Texture struct {
	tex  hal.Texture
	view hal.TextureView

	width, height uint32
}

// Width returns the uploaded width in pixels.
func (t *Texture) Width() uint32 { return t.width }

// Height returns the uploaded height in pixels.
func (t *Texture) Height() uint32 { return t.height }

// Destroy releases the texture and its view. Safe to call multiple times.
func (t *Texture) Destroy(device hal.Device) {
	if t.view != nil {
		device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.tex != nil {
		device.DestroyTexture(t.tex)
		t.tex = nil
	}
}

// LoadTexture decodes the image file at path (PNG, JPEG or BMP) and
// uploads it as a sampleable texture.
func LoadTexture(device hal.Device, queue hal.Queue, path string) (*Texture, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("gpu: open texture file: %w", err)
	}
	defer func() { _ = f.Close() }()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("gpu: decode %q: %w: %w", path, ErrUnsupportedFormat, err)
	}

	tex, err := NewTextureFromImage(device, queue, img)
	if err != nil {
		return nil, err
	}
	slogger().Info("gpu: texture loaded",
		"path", path, "format", format,
		"width", tex.width, "height", tex.height)
	return tex, nil
}

// NewTextureFromImage uploads img as an RGBA8 texture. Images exceeding
// the maximum texture dimension are downscaled with bilinear filtering,
// preserving aspect ratio.
func NewTextureFromImage(device hal.Device, queue hal.Queue, img image.Image) (*Texture, error) {
	rgba := toRGBA(img)

	w, h := rgba.Bounds().Dx(), rgba.Bounds().Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("gpu: empty texture image")
	}
	if fw, fh := fitSize(w, h, maxTextureDim); fw != w || fh != h {
		slogger().Warn("gpu: texture exceeds device limit, downscaling",
			"width", w, "height", h, "fitWidth", fw, "fitHeight", fh)
		scaled := image.NewRGBA(image.Rect(0, 0, fw, fh))
		xdraw.BiLinear.Scale(scaled, scaled.Bounds(), rgba, rgba.Bounds(), xdraw.Src, nil)
		rgba = scaled
		w, h = fw, fh
	}

	tw, th := uint32(w), uint32(h) //nolint:gosec // clamped to maxTextureDim above

	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "quad_texture",
		Size:          hal.Extent3D{Width: tw, Height: th, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create texture: %w", err)
	}

	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "quad_texture_view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		device.DestroyTexture(tex)
		return nil, fmt.Errorf("gpu: create texture view: %w", err)
	}

	queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: tex, MipLevel: 0},
		rgba.Pix,
		&hal.ImageDataLayout{Offset: 0, BytesPerRow: tw * 4, RowsPerImage: th},
		&hal.Extent3D{Width: tw, Height: th, DepthOrArrayLayers: 1},
	)

	return &Texture{tex: tex, view: view, width: tw, height: th}, nil
}

// toRGBA converts img to a tightly packed *image.RGBA, reusing it when it
// already is one.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		bounds := rgba.Bounds()
		if bounds.Min == (image.Point{}) && rgba.Stride == bounds.Dx()*4 {
			return rgba
		}
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba
}

// fitSize shrinks (w, h) proportionally until both fit within limit.
// Dimensions already within the limit are returned unchanged.
func fitSize(w, h, limit int) (int, int) {
	if w <= limit && h <= limit {
		return w, h
	}
	if w >= h {
		h = h * limit / w
		w = limit
	} else {
		w = w * limit / h
		h = limit
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}
