// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package atlas assembles many small images into a single atlas image.
//
// A Builder collects sub-images, packs their outlines with binpack, grows
// the atlas dimensions until everything fits, and composites the pixels.
// Atlas dimensions are always powers of two, found by alternately doubling
// width and height from a starting estimate near the square root of the
// total content area.
//
// BuildGlyphs does the same for font glyphs: it rasterizes each rune's
// alpha mask through a font.Face and packs the masks into one alpha image,
// recording per-glyph metrics and normalized texture coordinates.
package atlas

import (
	"errors"
	"fmt"
	"image"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/forge"
	"github.com/gogpu/forge/binpack"
)

// Atlas-related errors.
var (
	// ErrNoImages is returned when building an atlas with no content.
	ErrNoImages = errors.New("atlas: no images to pack")

	// ErrWontFit is returned when the content cannot fit within MaxSize.
	ErrWontFit = errors.New("atlas: contents cannot fit within the maximum atlas size")
)

// Default atlas settings.
const (
	// DefaultMaxSize is the default cap on atlas dimensions (4096x4096).
	DefaultMaxSize = 4096

	// DefaultPadding is the default padding between sub-images.
	DefaultPadding = 1

	// maxMaxSize bounds MaxSize to a sane texture dimension.
	maxMaxSize = 16384
)

// Config holds atlas build settings.
type Config struct {
	// MaxSize caps both atlas dimensions, in pixels. The atlas itself is
	// always a power of two per side, so a non-power-of-two cap simply
	// bounds growth. Zero means DefaultMaxSize. Default: 4096.
	MaxSize int

	// Padding is dead space added to the right of and below each
	// sub-image, in pixels, so samplers do not bleed between neighbors.
	// Default in DefaultConfig: 1.
	Padding int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		MaxSize: DefaultMaxSize,
		Padding: DefaultPadding,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.MaxSize < 1 {
		return &ConfigError{Field: "MaxSize", Reason: "must be at least 1"}
	}
	if c.MaxSize > maxMaxSize {
		return &ConfigError{Field: "MaxSize", Reason: "must be at most 16384"}
	}
	if c.Padding < 0 {
		return &ConfigError{Field: "Padding", Reason: "must be non-negative"}
	}
	if c.Padding >= c.MaxSize {
		return &ConfigError{Field: "Padding", Reason: "must be less than MaxSize"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "atlas: invalid config." + e.Field + ": " + e.Reason
}

// Region is the placement of one sub-image in atlas pixels. X, Y is the
// top-left corner, following the image package convention.
type Region struct {
	// X is the left edge of the region.
	X int
	// Y is the top edge of the region.
	Y int
	// Width is the region width.
	Width int
	// Height is the region height.
	Height int
}

// IsValid returns true if the region has valid dimensions.
func (r Region) IsValid() bool {
	return r.Width > 0 && r.Height > 0
}

// Bounds returns the region as an image.Rectangle.
func (r Region) Bounds() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// String returns a string representation of the region.
func (r Region) String() string {
	return fmt.Sprintf("Region(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}

// TexRect is a region in normalized texture coordinates: top-left origin,
// both axes in [0, 1].
type TexRect struct {
	MinX, MinY, MaxX, MaxY float32
}

// texRect normalizes a pixel region by the inverse atlas dimensions.
func texRect(r Region, width, height int) TexRect {
	invW := 1 / float32(width)
	invH := 1 / float32(height)
	return TexRect{
		MinX: float32(r.X) * invW,
		MinY: float32(r.Y) * invH,
		MaxX: float32(r.X+r.Width) * invW,
		MaxY: float32(r.Y+r.Height) * invH,
	}
}

// Builder collects sub-images and packs them into an Atlas.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	cfg    Config
	packer binpack.Packer
	images []image.Image
}

// NewBuilder returns a Builder with the given configuration. A zero MaxSize
// is replaced with DefaultMaxSize; other values are validated by Build.
func NewBuilder(cfg Config) *Builder {
	if cfg.MaxSize == 0 {
		cfg.MaxSize = DefaultMaxSize
	}
	return &Builder{cfg: cfg}
}

// Add registers a sub-image for packing and returns its id, the index of
// its region in the built Atlas. img must be non-nil.
func (b *Builder) Add(img image.Image) int {
	bounds := img.Bounds()
	b.packer.AddRectangle(binpack.Size{
		Width:  bounds.Dx() + b.cfg.Padding,
		Height: bounds.Dy() + b.cfg.Padding,
	})
	b.images = append(b.images, img)
	return len(b.images) - 1
}

// Len returns the number of added sub-images.
func (b *Builder) Len() int { return len(b.images) }

// Build packs all added sub-images into the smallest power-of-two atlas
// that fits them and composites their pixels. It returns ErrNoImages if
// nothing was added and ErrWontFit if the content cannot fit within
// MaxSize.
func (b *Builder) Build() (*Atlas, error) {
	if err := b.cfg.Validate(); err != nil {
		return nil, err
	}
	if len(b.images) == 0 {
		return nil, ErrNoImages
	}

	width, height, err := growPack(&b.packer, totalArea(b.packer.Rectangles()), b.cfg.MaxSize)
	if err != nil {
		return nil, err
	}

	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	regions := make([]Region, len(b.images))
	rects := b.packer.Rectangles()
	for i, img := range b.images {
		r := placedRegion(rects[i], b.cfg.Padding, height)
		regions[i] = r
		xdraw.Copy(dst, image.Pt(r.X, r.Y), img, img.Bounds(), xdraw.Src, nil)
	}

	forge.Logger().Debug("atlas: built", "images", len(b.images), "width", width, "height", height)
	return &Atlas{Image: dst, Regions: regions}, nil
}

// Atlas is a built atlas image together with the region of every sub-image,
// indexed by the ids Builder.Add returned.
type Atlas struct {
	Image   *image.NRGBA
	Regions []Region
}

// TexRect returns the normalized texture coordinates of the region with
// the given id.
func (a *Atlas) TexRect(id int) TexRect {
	return texRect(a.Regions[id], a.Image.Bounds().Dx(), a.Image.Bounds().Dy())
}

// totalArea sums the padded areas of all packing requests.
func totalArea(rects []binpack.Rectangle) int {
	area := 0
	for _, r := range rects {
		area += r.Size.Area()
	}
	return area
}

// growPack finds the smallest power-of-two bin accepted by the packer,
// starting from half the next power of two above sqrt(area) and alternately
// doubling width and height. It fails once either dimension would have to
// exceed maxSize.
func growPack(p *binpack.Packer, area, maxSize int) (width, height int, err error) {
	if area > maxSize*maxSize {
		return 0, 0, ErrWontFit
	}

	side := nextPow2(int(math.Sqrt(float64(area)))) / 2
	if side < 1 {
		side = 1
	}
	width, height = side, side
	doubleWidth := true
	for !p.Pack(binpack.Size{Width: width, Height: height}) {
		if doubleWidth {
			width *= 2
		} else {
			height *= 2
		}
		doubleWidth = !doubleWidth
		if width > maxSize || height > maxSize {
			return 0, 0, ErrWontFit
		}
	}
	return width, height, nil
}

// placedRegion converts a packed rectangle (bottom-left anchored, padded)
// into the sub-image's pixel region in the atlas image (top-left anchored,
// unpadded). The padding ends up to the right of and below the content.
func placedRegion(r binpack.Rectangle, padding, atlasHeight int) Region {
	return Region{
		X:      r.BottomLeft.X,
		Y:      atlasHeight - r.BottomLeft.Y - r.Size.Height,
		Width:  r.Size.Width - padding,
		Height: r.Size.Height - padding,
	}
}

// nextPow2 returns the smallest power of two greater than or equal to n.
func nextPow2(n int) int {
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
