// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package binpack

import (
	"math/rand"
	"testing"
)

// checkPlacement verifies a packed rectangle's size and position.
func checkPlacement(t *testing.T, rects []Rectangle, i int, size Size, pos Point) {
	t.Helper()
	if rects[i].Size != size {
		t.Errorf("rect %d size = %+v, want %+v", i, rects[i].Size, size)
	}
	if rects[i].BottomLeft != pos {
		t.Errorf("rect %d position = %+v, want %+v", i, rects[i].BottomLeft, pos)
	}
}

// overlap reports whether two packed rectangles share any area.
func overlap(a, b Rectangle) bool {
	return a.BottomLeft.X < b.BottomLeft.X+b.Size.Width &&
		b.BottomLeft.X < a.BottomLeft.X+a.Size.Width &&
		a.BottomLeft.Y < b.BottomLeft.Y+b.Size.Height &&
		b.BottomLeft.Y < a.BottomLeft.Y+a.Size.Height
}

func TestPacker_Empty(t *testing.T) {
	var p Packer
	if len(p.Rectangles()) != 0 {
		t.Errorf("fresh packer has %d rectangles, want 0", len(p.Rectangles()))
	}
	if !p.Pack(Size{Width: 5, Height: 5}) {
		t.Error("Pack() with no rectangles = false, want true")
	}
	if p.NumPacked() != 0 {
		t.Errorf("NumPacked() = %d, want 0", p.NumPacked())
	}
}

func TestPacker_OneRectFillsBin(t *testing.T) {
	var p Packer
	id := p.AddRectangle(Size{Width: 10, Height: 10})
	if id != 0 {
		t.Errorf("AddRectangle() id = %d, want 0", id)
	}
	if !p.Pack(Size{Width: 10, Height: 10}) {
		t.Fatal("Pack() = false, want true")
	}
	checkPlacement(t, p.Rectangles(), 0, Size{Width: 10, Height: 10}, Point{X: 0, Y: 0})
}

func TestPacker_TwoRectsHorizontal(t *testing.T) {
	var p Packer
	p.AddRectangle(Size{Width: 10, Height: 10})
	p.AddRectangle(Size{Width: 10, Height: 10})
	if !p.Pack(Size{Width: 20, Height: 10}) {
		t.Fatal("Pack() = false, want true")
	}
	rects := p.Rectangles()
	checkPlacement(t, rects, 0, Size{Width: 10, Height: 10}, Point{X: 0, Y: 0})
	checkPlacement(t, rects, 1, Size{Width: 10, Height: 10}, Point{X: 10, Y: 0})
}

func TestPacker_TwoRectsVertical(t *testing.T) {
	var p Packer
	p.AddRectangle(Size{Width: 10, Height: 10})
	p.AddRectangle(Size{Width: 10, Height: 10})
	if !p.Pack(Size{Width: 10, Height: 20}) {
		t.Fatal("Pack() = false, want true")
	}
	rects := p.Rectangles()
	checkPlacement(t, rects, 0, Size{Width: 10, Height: 10}, Point{X: 0, Y: 0})
	checkPlacement(t, rects, 1, Size{Width: 10, Height: 10}, Point{X: 0, Y: 10})
}

// fourRects and their known placements in a 20x12 bin.
var fourRects = []struct {
	size Size
	pos  Point
}{
	{Size{Width: 8, Height: 10}, Point{X: 0, Y: 0}},
	{Size{Width: 12, Height: 4}, Point{X: 8, Y: 0}},
	{Size{Width: 12, Height: 8}, Point{X: 8, Y: 4}},
	{Size{Width: 8, Height: 2}, Point{X: 0, Y: 10}},
}

func TestPacker_FourRects(t *testing.T) {
	var p Packer
	for _, r := range fourRects {
		p.AddRectangle(r.size)
	}
	if !p.Pack(Size{Width: 20, Height: 12}) {
		t.Fatal("Pack() = false, want true")
	}
	for i, r := range fourRects {
		checkPlacement(t, p.Rectangles(), i, r.size, r.pos)
	}
}

func TestPacker_FourRectsIncremental(t *testing.T) {
	// Adding the same rectangles one at a time with a Pack between each
	// must give the same placements as packing them all at once.
	bin := Size{Width: 20, Height: 12}
	var p Packer
	for i, r := range fourRects {
		p.AddRectangle(r.size)
		if !p.Pack(bin) {
			t.Fatalf("Pack() after rect %d = false, want true", i)
		}
		if p.NumPacked() != i+1 {
			t.Fatalf("NumPacked() = %d, want %d", p.NumPacked(), i+1)
		}
	}
	for i, r := range fourRects {
		checkPlacement(t, p.Rectangles(), i, r.size, r.pos)
	}
}

func TestPacker_NoFit(t *testing.T) {
	var p Packer
	p.AddRectangle(Size{Width: 10, Height: 10})

	// Too short and too narrow bins.
	if p.Pack(Size{Width: 10, Height: 9}) {
		t.Error("Pack(10x9) = true, want false")
	}
	if p.NumPacked() != 0 {
		t.Errorf("NumPacked() = %d, want 0", p.NumPacked())
	}
	if p.Pack(Size{Width: 9, Height: 10}) {
		t.Error("Pack(9x10) = true, want false")
	}

	// An exact fit still works afterward.
	if !p.Pack(Size{Width: 10, Height: 10}) {
		t.Error("Pack(10x10) = false, want true")
	}
}

func TestPacker_GreedyStopsAtFirstFailure(t *testing.T) {
	// A rectangle that can never fit blocks everything added after it,
	// even rectangles that would fit on their own.
	var p Packer
	p.AddRectangle(Size{Width: 30, Height: 5})
	p.AddRectangle(Size{Width: 2, Height: 2})
	if p.Pack(Size{Width: 20, Height: 20}) {
		t.Error("Pack() = true, want false")
	}
	if p.NumPacked() != 0 {
		t.Errorf("NumPacked() = %d, want 0", p.NumPacked())
	}

	// Repacking the same bin cannot make progress either.
	if p.Pack(Size{Width: 20, Height: 20}) {
		t.Error("repeated Pack() = true, want false")
	}
	if p.NumPacked() != 0 {
		t.Errorf("NumPacked() after repeat = %d, want 0", p.NumPacked())
	}
}

func TestPacker_PartialThenLargerBin(t *testing.T) {
	// Two rectangles pack into a 10x10 bin as an L shape; the third cannot
	// fit there but fits once the bin grows taller.
	var p Packer
	p.AddRectangle(Size{Width: 6, Height: 4})
	p.AddRectangle(Size{Width: 4, Height: 6})
	p.AddRectangle(Size{Width: 8, Height: 5})

	if p.Pack(Size{Width: 10, Height: 10}) {
		t.Error("Pack(10x10) = true, want false")
	}
	if p.NumPacked() != 2 {
		t.Fatalf("NumPacked() = %d, want 2", p.NumPacked())
	}
	rects := p.Rectangles()
	checkPlacement(t, rects, 0, Size{Width: 6, Height: 4}, Point{X: 0, Y: 0})
	checkPlacement(t, rects, 1, Size{Width: 4, Height: 6}, Point{X: 6, Y: 0})

	// Same size, no new rectangles: the result must not change.
	if p.Pack(Size{Width: 10, Height: 10}) {
		t.Error("repeated Pack(10x10) = true, want false")
	}
	if p.NumPacked() != 2 {
		t.Errorf("NumPacked() after repeat = %d, want 2", p.NumPacked())
	}

	// A taller bin restarts from scratch and fits everything.
	if !p.Pack(Size{Width: 10, Height: 20}) {
		t.Fatal("Pack(10x20) = false, want true")
	}
	checkPlacement(t, rects, 0, Size{Width: 6, Height: 4}, Point{X: 0, Y: 0})
	checkPlacement(t, rects, 1, Size{Width: 4, Height: 6}, Point{X: 6, Y: 0})
	checkPlacement(t, rects, 2, Size{Width: 8, Height: 5}, Point{X: 0, Y: 6})
}

func TestPacker_IncrementalKeepsPlacements(t *testing.T) {
	bin := Size{Width: 64, Height: 64}
	var p Packer
	p.AddRectangle(Size{Width: 20, Height: 12})
	p.AddRectangle(Size{Width: 16, Height: 24})
	p.AddRectangle(Size{Width: 30, Height: 8})
	if !p.Pack(bin) {
		t.Fatal("first Pack() = false, want true")
	}

	before := make([]Point, 3)
	for i, r := range p.Rectangles() {
		before[i] = r.BottomLeft
	}

	p.AddRectangle(Size{Width: 10, Height: 10})
	p.AddRectangle(Size{Width: 12, Height: 6})
	if !p.Pack(bin) {
		t.Fatal("second Pack() = false, want true")
	}

	for i, want := range before {
		if got := p.Rectangles()[i].BottomLeft; got != want {
			t.Errorf("rect %d moved: position = %+v, want %+v", i, got, want)
		}
	}
}

func TestPacker_BinSizeChangeRepacksFromScratch(t *testing.T) {
	sizes := []Size{
		{Width: 20, Height: 12},
		{Width: 16, Height: 24},
		{Width: 30, Height: 8},
		{Width: 10, Height: 10},
	}

	// Incremental packer: two rounds in bin A, then a switch to bin B.
	var inc Packer
	inc.AddRectangle(sizes[0])
	inc.AddRectangle(sizes[1])
	if !inc.Pack(Size{Width: 64, Height: 64}) {
		t.Fatal("Pack(A) = false, want true")
	}
	inc.AddRectangle(sizes[2])
	inc.AddRectangle(sizes[3])
	if !inc.Pack(Size{Width: 48, Height: 96}) {
		t.Fatal("Pack(B) = false, want true")
	}

	// Fresh packer going straight to bin B.
	var fresh Packer
	for _, s := range sizes {
		fresh.AddRectangle(s)
	}
	if !fresh.Pack(Size{Width: 48, Height: 96}) {
		t.Fatal("fresh Pack(B) = false, want true")
	}

	for i := range sizes {
		got := inc.Rectangles()[i].BottomLeft
		want := fresh.Rectangles()[i].BottomLeft
		if got != want {
			t.Errorf("rect %d position = %+v, want %+v (same as packing from scratch)", i, got, want)
		}
	}
}

func TestPacker_Clone(t *testing.T) {
	var p Packer
	p.AddRectangle(Size{Width: 6, Height: 4})
	p.AddRectangle(Size{Width: 4, Height: 6})

	// A clone of an unpacked packer packs identically.
	c := p.Clone()
	bin := Size{Width: 10, Height: 10}
	if !p.Pack(bin) || !c.Pack(bin) {
		t.Fatal("Pack() = false, want true")
	}
	for i := range p.Rectangles() {
		if p.Rectangles()[i] != c.Rectangles()[i] {
			t.Errorf("rect %d: clone packed %+v, original %+v", i, c.Rectangles()[i], p.Rectangles()[i])
		}
	}
}

func TestPacker_CloneIsIndependent(t *testing.T) {
	bin := Size{Width: 10, Height: 10}
	var p Packer
	p.AddRectangle(Size{Width: 6, Height: 4})
	p.AddRectangle(Size{Width: 4, Height: 6})
	if !p.Pack(bin) {
		t.Fatal("Pack() = false, want true")
	}

	// Test-fit a third rectangle on a clone without committing it.
	c := p.Clone()
	c.AddRectangle(Size{Width: 8, Height: 5})
	if c.Pack(bin) {
		t.Error("clone Pack() = true, want false")
	}

	if got := len(p.Rectangles()); got != 2 {
		t.Errorf("original has %d rectangles after clone packed, want 2", got)
	}
	if p.NumPacked() != 2 {
		t.Errorf("original NumPacked() = %d, want 2", p.NumPacked())
	}

	// The original continues incrementally, unaffected by the clone.
	p.AddRectangle(Size{Width: 4, Height: 4})
	if !p.Pack(bin) {
		t.Error("original Pack() = false, want true")
	}
}

func TestPacker_PackedRectsDisjointAndInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	bin := Size{Width: 256, Height: 256}

	var p Packer
	for range 60 {
		p.AddRectangle(Size{
			Width:  1 + rng.Intn(30),
			Height: 1 + rng.Intn(30),
		})
	}
	p.Pack(bin)

	if p.NumPacked() == 0 {
		t.Fatal("NumPacked() = 0, want > 0")
	}
	packed := p.Rectangles()[:p.NumPacked()]
	for i, r := range packed {
		if r.BottomLeft.X < 0 || r.BottomLeft.Y < 0 ||
			r.BottomLeft.X+r.Size.Width > bin.Width ||
			r.BottomLeft.Y+r.Size.Height > bin.Height {
			t.Errorf("rect %d out of bounds: %+v", i, r)
		}
		for j := i + 1; j < len(packed); j++ {
			if overlap(r, packed[j]) {
				t.Errorf("rect %d overlaps rect %d: %+v vs %+v", i, j, r, packed[j])
			}
		}
	}
}

func BenchmarkPacker_Pack(b *testing.B) {
	rng := rand.New(rand.NewSource(7))
	sizes := make([]Size, 256)
	for i := range sizes {
		sizes[i] = Size{Width: 1 + rng.Intn(48), Height: 1 + rng.Intn(48)}
	}
	bin := Size{Width: 1024, Height: 1024}

	b.ReportAllocs()
	for b.Loop() {
		var p Packer
		for _, s := range sizes {
			p.AddRectangle(s)
		}
		if !p.Pack(bin) {
			b.Fatal("pack failed")
		}
	}
}
