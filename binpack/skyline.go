// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package binpack

import (
	"math"
	"slices"
)

// level is one horizontal segment of the skyline: the packed contour sits
// at height y over the span [x, x+width).
type level struct {
	x, y, width int
}

// skyline tracks the top contour of every packed rectangle in a bin.
// Levels tile [0, binSize.Width) in ascending x order and no two neighbors
// share the same y.
type skyline struct {
	binSize Size
	levels  []level
}

// newSkyline starts with a single ground level covering the bin width.
func newSkyline(binSize Size) *skyline {
	return &skyline{
		binSize: binSize,
		levels:  []level{{x: 0, y: 0, width: binSize.Width}},
	}
}

func (s *skyline) clone() *skyline {
	return &skyline{binSize: s.binSize, levels: slices.Clone(s.levels)}
}

// insert places a single rectangle in the bin, setting rect.BottomLeft.
// It reports whether the rectangle fit.
func (s *skyline) insert(rect *Rectangle) bool {
	index, ok := s.findLevel(rect)
	if !ok {
		return false
	}
	s.addLevel(index, *rect)
	return true
}

// findLevel chooses the level whose left edge gives the rectangle the
// lowest landing height (its top edge after placement), breaking ties by
// the smallest level width. On success rect.BottomLeft is set to the
// chosen placement.
func (s *skyline) findLevel(rect *Rectangle) (int, bool) {
	bestIndex := -1
	bestWidth := math.MaxInt
	bestHeight := math.MaxInt

	for i := range s.levels {
		y, ok := s.rectangleFits(i, rect.Size)
		if !ok {
			continue
		}
		height := y + rect.Size.Height
		if height < bestHeight || (height == bestHeight && s.levels[i].width < bestWidth) {
			bestHeight = height
			bestIndex = i
			bestWidth = s.levels[i].width
			rect.BottomLeft = Point{X: s.levels[i].x, Y: y}
		}
	}
	return bestIndex, bestIndex >= 0
}

// rectangleFits checks whether size fits with its left edge at the indexed
// level. The landing y is the maximum height of every level under the
// rectangle's footprint; the walk cannot run past the last level because
// the levels tile the full bin width.
func (s *skyline) rectangleFits(index int, size Size) (int, bool) {
	if s.levels[index].x+size.Width > s.binSize.Width {
		return 0, false
	}
	y := s.levels[index].y
	remaining := size.Width
	for i := index; remaining > 0; i++ {
		y = max(y, s.levels[i].y)
		if y+size.Height > s.binSize.Height {
			return 0, false
		}
		remaining -= s.levels[i].width
	}
	return y, true
}

// addLevel inserts the level formed by the rectangle's top edge at index,
// then repairs the levels to its right: spans shadowed by the new level
// are consumed, and any level reduced to zero width is removed.
func (s *skyline) addLevel(index int, rect Rectangle) {
	s.levels = slices.Insert(s.levels, index, level{
		x:     rect.BottomLeft.X,
		y:     rect.BottomLeft.Y + rect.Size.Height,
		width: rect.Size.Width,
	})

	for i := index + 1; i < len(s.levels); i++ {
		prev := s.levels[i-1]
		overlap := prev.x + prev.width - s.levels[i].x
		if overlap <= 0 {
			break
		}
		s.levels[i].x += overlap
		s.levels[i].width -= overlap
		if s.levels[i].width > 0 {
			break
		}
		s.levels = slices.Delete(s.levels, i, i+1)
		i--
	}
	s.mergeLevels()
}

// mergeLevels joins adjacent levels of equal height into one.
func (s *skyline) mergeLevels() {
	for i := 1; i < len(s.levels); i++ {
		if s.levels[i-1].y == s.levels[i].y {
			s.levels[i-1].width += s.levels[i].width
			s.levels = slices.Delete(s.levels, i, i+1)
			i--
		}
	}
}
