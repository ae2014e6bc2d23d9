/*
NAME
  keypoint.go

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

// Keypoint is a pixel position at which the background model is maintained.
type Keypoint struct{ X, Y int }

// DenseKeypoints returns every position in a w x h image whose 5x5
// neighborhood fits entirely within the image, in row-major order. This is
// the keypoint set Initialize uses when the caller does not supply its own.
func DenseKeypoints(w, h int) []Keypoint {
	kp := make([]Keypoint, 0, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x >= lbsp.PatchRadius && x < w-lbsp.PatchRadius && y >= lbsp.PatchRadius && y < h-lbsp.PatchRadius {
				kp = append(kp, Keypoint{X: x, Y: y})
			}
		}
	}
	return kp
}

// PruneKeypoints removes any keypoint whose 5x5 neighborhood would leave a
// w x h image, so every descriptor reference window stays in-bounds.
func PruneKeypoints(kp []Keypoint, w, h int) []Keypoint {
	out := kp[:0:0]
	for _, k := range kp {
		if k.X >= lbsp.PatchRadius && k.X < w-lbsp.PatchRadius && k.Y >= lbsp.PatchRadius && k.Y < h-lbsp.PatchRadius {
			out = append(out, k)
		}
	}
	return out
}
