// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package binpack implements incremental rectangle bin packing using the
// Skyline Bottom-Left algorithm.
//
// A Packer collects rectangle sizes and assigns each a position inside a
// single bin when Pack is called. Rectangles may be added and packed in
// several rounds; placements from earlier rounds are kept as long as the
// bin size does not change. Packing is greedy and in insertion order: the
// first rectangle that does not fit ends the round.
//
// Positions are bottom-left anchored with Y growing upward.
package binpack

import "slices"

// Size holds the dimensions of a rectangle or bin in integer units.
type Size struct {
	Width, Height int
}

// Area returns Width * Height.
func (s Size) Area() int { return s.Width * s.Height }

// Point is a position within a bin.
type Point struct {
	X, Y int
}

// Rectangle is a single packing request and, once packed, its placement.
// BottomLeft is meaningful only for rectangles that have been packed; use
// Packer.NumPacked to tell which those are.
type Rectangle struct {
	Size       Size
	BottomLeft Point
}

// Packer packs rectangles into a bin. The zero value is an empty packer
// ready for use.
//
// A Packer is not safe for concurrent use.
type Packer struct {
	rects     []Rectangle
	sky       *skyline
	numPacked int
}

// AddRectangle registers a rectangle of the given size for packing and
// returns its id: the index of the rectangle in Rectangles. Ids are stable
// because rectangles are never removed or reordered. Degenerate sizes are
// not rejected; they pack degenerately.
func (p *Packer) AddRectangle(size Size) int {
	p.rects = append(p.rects, Rectangle{Size: size})
	return len(p.rects) - 1
}

// Pack assigns positions to rectangles within a bin of the given size and
// reports whether every rectangle is packed.
//
// The first call, and any call with a bin size different from the previous
// one, discards existing placements and packs all rectangles from scratch.
// A call with an unchanged bin size keeps existing placements and continues
// with rectangles added since the last call.
//
// Rectangles are packed in insertion order; the round stops at the first
// rectangle that does not fit, so a rectangle larger than the bin blocks
// all rectangles after it.
func (p *Packer) Pack(binSize Size) bool {
	if p.sky == nil || p.sky.binSize != binSize {
		p.sky = newSkyline(binSize)
		p.numPacked = 0
	}
	for p.numPacked < len(p.rects) {
		if !p.sky.insert(&p.rects[p.numPacked]) {
			break
		}
		p.numPacked++
	}
	return p.numPacked == len(p.rects)
}

// Rectangles returns all rectangles in insertion order. The first NumPacked
// entries carry valid placements. The slice shares memory with the packer;
// callers must not modify it.
func (p *Packer) Rectangles() []Rectangle { return p.rects }

// NumPacked returns how many rectangles, counting from the start of
// Rectangles, are currently placed in the bin.
func (p *Packer) NumPacked() int { return p.numPacked }

// Clone returns a deep copy of the packer. The copy and the original pack
// independently, which makes a clone useful for testing whether further
// rectangles would fit without committing them.
func (p *Packer) Clone() *Packer {
	c := &Packer{
		rects:     slices.Clone(p.rects),
		numPacked: p.numPacked,
	}
	if p.sky != nil {
		c.sky = p.sky.clone()
	}
	return c
}
