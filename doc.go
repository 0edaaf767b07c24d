// Package forge provides building blocks for GPU-adjacent resource pipelines.
//
// # Overview
//
// forge is a Pure Go library for preparing renderer resources off the hot
// path: packing rectangles into texture atlases incrementally, compositing
// sub-images and glyphs into atlas images, and running background work
// through a suspendable worker pool.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/forge/atlas"
//	    "github.com/gogpu/forge/binpack"
//	)
//
//	// Pack rectangles into a bin.
//	var p binpack.Packer
//	id := p.AddRectangle(binpack.Size{Width: 64, Height: 48})
//	if p.Pack(binpack.Size{Width: 256, Height: 256}) {
//	    pos := p.Rectangles()[id].BottomLeft
//	    _ = pos
//	}
//
//	// Or build a complete atlas image from sub-images.
//	b := atlas.NewBuilder(atlas.DefaultConfig())
//	b.Add(img)
//	a, err := b.Build()
//
// # Architecture
//
// The library is organized into:
//   - binpack: incremental skyline rectangle packing
//   - atlas: atlas image assembly and glyph atlases on top of binpack
//   - workerpool: suspendable semaphore-driven worker goroutines
//   - sema: the counting semaphore the pool is built on
//
// Packages are independent; atlas depends on binpack, workerpool on sema,
// and nothing else crosses package lines.
//
// # Coordinate System
//
// binpack positions are bottom-left anchored with Y increasing upward, the
// convention of the packing algorithm. atlas images follow the Go image
// package convention (origin top-left, Y increasing down); the atlas layer
// performs the flip when compositing.
//
// # Logging
//
// By default forge produces no log output. Call SetLogger to enable logging
// for all sub-packages; see SetLogger for the levels in use.
package forge

// Version information
const (
	// Version is the current version of the library
	Version = "0.2.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 2

	// VersionPatch is the patch version
	VersionPatch = 0
)
