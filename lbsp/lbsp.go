/*
NAME
  lbsp.go

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package lbsp computes Local Binary Similarity Pattern descriptors over a
// fixed 5x5 pixel neighborhood, and the supporting distance and random
// sampling utilities used by the sample-consensus background models built on
// top of it.
package lbsp

// PatchSize is the side length, in pixels, of the square window a descriptor
// is computed over. A position within PatchRadius of any image border has no
// valid descriptor.
const (
	PatchSize   = 5
	PatchRadius = PatchSize / 2
)

// Offset is one of the 16 fixed neighbor positions (relative to the center
// pixel) that contribute a bit to an LBSP descriptor.
type Offset struct{ DX, DY int }

// Offsets is the canonical, rotation-ordered 16-point pattern used by every
// descriptor computed by this package. It is
// the four axis-aligned "plus" neighbors at distance 1 together with the
// twelve non-corner points of the 5x5 window's outer ring (the four
// axis-aligned points at distance 2 and the eight points at (+-1, +-2) and
// (+-2, +-1)), excluding the center, the four diagonal corners of the inner
// 3x3 square and the four corners of the 5x5 window. Points are ordered
// clockwise (in image coordinates, Y increasing downward) starting at
// (-2, 0); each axis-aligned outer point is followed by the inner "plus"
// point at the same compass heading before continuing around. Bit i of a
// descriptor corresponds to Offsets[i]; descriptors are
// only comparable between extractors configured with the same pattern, which
// is why this table is fixed rather than configurable.
var Offsets = [16]Offset{
	{-2, 0}, {-1, 0},
	{-2, -1}, {-1, -2},
	{0, -2}, {0, -1},
	{1, -2}, {2, -1},
	{2, 0}, {1, 0},
	{2, 1}, {1, 2},
	{0, 2}, {0, 1},
	{-1, 2}, {-2, 1},
}

// Plane is a single 8-bit channel of an image, row-major, used as the
// reference source for descriptor extraction. Width and Height describe the
// full image the plane belongs to; Stride is the number of bytes between
// rows (== Width when the channel is tightly packed, as it always is for the
// single-channel planes this package is handed).
type Plane struct {
	Pix           []byte
	Width, Height int
	Stride        int
}

// At returns the sample at (x, y). Callers must ensure (x, y) is in bounds;
// At does not bounds-check, matching the hot-loop discipline of the rest of
// the descriptor/distance code.
func (p *Plane) At(x, y int) byte { return p.Pix[y*p.Stride+x] }

// Valid reports whether (x, y)'s 5x5 neighborhood lies entirely within the
// plane, i.e. whether a descriptor may be computed there.
func (p *Plane) Valid(x, y int) bool {
	return x >= PatchRadius && x < p.Width-PatchRadius &&
		y >= PatchRadius && y < p.Height-PatchRadius
}

// AbsThreshold computes the fixed per-pixel threshold used by absolute-mode
// LBSP extraction: just the configured threshold, saturated into a byte.
func AbsThreshold(threshold int) byte {
	switch {
	case threshold < 0:
		return 0
	case threshold > 255:
		return 255
	default:
		return byte(threshold)
	}
}

// RelThreshold computes the fixed per-pixel threshold used by relative-mode
// LBSP extraction: round(thresholdFactor * ref), clamped to [0, 255].
func RelThreshold(thresholdFactor float64, ref byte) byte {
	t := thresholdFactor*float64(ref) + 0.5
	switch {
	case t < 0:
		return 0
	case t > 255:
		return 255
	default:
		return byte(t)
	}
}

// Compute returns the 16-bit LBSP descriptor of the plane at (x, y), using
// ref as the reference intensity that every neighbor is compared against and
// t as the fixed per-pixel threshold (see AbsThreshold/RelThreshold). (x, y)
// must satisfy Valid; behavior is undefined otherwise, since the neighbor
// reads would run off the edge of the plane.
//
// Passing ref == plane.At(x, y) computes the intra-frame descriptor; passing
// the pixel value of another image (e.g. a stored background sample) at
// (x, y) computes the inter-frame descriptor used by the sample-consensus
// matcher.
func Compute(plane *Plane, x, y int, ref byte, t byte) uint16 {
	var desc uint16
	for i, off := range Offsets {
		n := plane.At(x+off.DX, y+off.DY)
		if AbsDiff(n, ref) > t {
			desc |= 1 << uint(i)
		}
	}
	return desc
}

// AbsDiff returns |a - b| for two 8-bit samples (C2).
func AbsDiff(a, b byte) byte {
	if a > b {
		return a - b
	}
	return b - a
}
