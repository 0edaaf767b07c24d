// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package atlas

import (
	"image"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/forge"
	"github.com/gogpu/forge/binpack"
)

// Glyph describes one rune's placement in a GlyphAtlas.
type Glyph struct {
	// Region is the glyph mask's pixel region in the atlas image.
	Region Region

	// Tex is Region in normalized texture coordinates.
	Tex TexRect

	// Bounds is the glyph's bounding box relative to its origin on the
	// baseline, in pixels. Negative Min.Y means the glyph extends above
	// the baseline, following the font package convention.
	Bounds image.Rectangle

	// Advance is how far the cursor moves after drawing this glyph,
	// in pixels.
	Advance float64
}

// GlyphAtlas holds rasterized glyph masks packed into a single alpha image.
type GlyphAtlas struct {
	Image  *image.Alpha
	Glyphs map[rune]Glyph
}

// BuildGlyphs rasterizes each rune through the face and packs the alpha
// masks into one atlas. Duplicate runes are packed once; runes the face
// cannot render are skipped with a warning. The face is not closed.
//
// It returns ErrNoImages if no rune could be rasterized and ErrWontFit if
// the masks cannot fit within cfg.MaxSize.
func BuildGlyphs(face font.Face, runes []rune, cfg Config) (*GlyphAtlas, error) {
	if cfg.MaxSize == 0 {
		cfg.MaxSize = DefaultMaxSize
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	type pendingGlyph struct {
		r       rune
		mask    *image.Alpha
		bounds  image.Rectangle
		advance float64
	}

	var pending []pendingGlyph
	seen := make(map[rune]bool, len(runes))
	var packer binpack.Packer
	for _, r := range runes {
		if seen[r] {
			continue
		}
		seen[r] = true
		mask, bounds, advance, ok := rasterizeGlyph(face, r)
		if !ok {
			forge.Logger().Warn("atlas: face cannot render rune", "rune", string(r))
			continue
		}
		packer.AddRectangle(binpack.Size{
			Width:  mask.Bounds().Dx() + cfg.Padding,
			Height: mask.Bounds().Dy() + cfg.Padding,
		})
		pending = append(pending, pendingGlyph{r: r, mask: mask, bounds: bounds, advance: advance})
	}
	if len(pending) == 0 {
		return nil, ErrNoImages
	}

	width, height, err := growPack(&packer, totalArea(packer.Rectangles()), cfg.MaxSize)
	if err != nil {
		return nil, err
	}

	dst := image.NewAlpha(image.Rect(0, 0, width, height))
	glyphs := make(map[rune]Glyph, len(pending))
	rects := packer.Rectangles()
	for i, g := range pending {
		region := placedRegion(rects[i], cfg.Padding, height)
		xdraw.Copy(dst, image.Pt(region.X, region.Y), g.mask, g.mask.Bounds(), xdraw.Src, nil)
		glyphs[g.r] = Glyph{
			Region:  region,
			Tex:     texRect(region, width, height),
			Bounds:  g.bounds,
			Advance: g.advance,
		}
	}

	forge.Logger().Debug("atlas: built glyph atlas", "glyphs", len(glyphs), "width", width, "height", height)
	return &GlyphAtlas{Image: dst, Glyphs: glyphs}, nil
}

// rasterizeGlyph renders a single rune to an alpha mask. The mask is
// allocated at the origin so the drawn pixels land inside it; the glyph's
// baseline-relative bounds are returned separately. ok is false if the face
// has no glyph for the rune.
func rasterizeGlyph(face font.Face, r rune) (mask *image.Alpha, bounds image.Rectangle, advance float64, ok bool) {
	fixedBounds, fixedAdvance, ok := face.GlyphBounds(r)
	if !ok {
		return nil, image.Rectangle{}, 0, false
	}

	// Convert fixed.Int26_6 to pixels, flooring minima and ceiling maxima.
	minX := int(fixedBounds.Min.X) >> 6
	minY := int(fixedBounds.Min.Y) >> 6
	maxX := int(fixedBounds.Max.X+63) >> 6
	maxY := int(fixedBounds.Max.Y+63) >> 6
	bounds = image.Rect(minX, minY, maxX, maxY)

	mask = image.NewAlpha(image.Rect(0, 0, maxX-minX, maxY-minY))
	d := &font.Drawer{
		Dst:  mask,
		Src:  image.White,
		Face: face,
		// Position the origin so the glyph's bounding box starts at (0,0).
		Dot: fixed.Point26_6{X: -fixedBounds.Min.X, Y: -fixedBounds.Min.Y},
	}
	d.DrawString(string(r))

	return mask, bounds, float64(fixedAdvance) / 64, true
}
