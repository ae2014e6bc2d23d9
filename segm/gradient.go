/*
NAME
  gradient.go

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package segm

import "github.com/ausocean/segm/lbsp"

// sobelMagnitude returns the clamped Sobel gradient magnitude of plane at
// (x, y), used by PBAS's optional gradient-complement term. (x, y) must be
// at least one pixel from every border; callers only ever call this at
// keypoints, which are already pruned to a 2-pixel border for LBSP, so this
// is always safe.
func sobelMagnitude(p *lbsp.Plane, x, y int) byte {
	gx := int(p.At(x+1, y-1)) + 2*int(p.At(x+1, y)) + int(p.At(x+1, y+1)) -
		int(p.At(x-1, y-1)) - 2*int(p.At(x-1, y)) - int(p.At(x-1, y+1))
	gy := int(p.At(x-1, y+1)) + 2*int(p.At(x, y+1)) + int(p.At(x+1, y+1)) -
		int(p.At(x-1, y-1)) - 2*int(p.At(x, y-1)) - int(p.At(x+1, y-1))
	mag := (abs(gx) + abs(gy)) / 4
	if mag > 255 {
		return 255
	}
	return byte(mag)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
