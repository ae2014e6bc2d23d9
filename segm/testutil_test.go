/*
NAME
  testutil_test.go

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

// solidImage returns a w x h image of c channels, every pixel set to v.
func solidImage(w, h, c int, v byte) Image {
	img := NewImage(w, h, c)
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

// patchImage returns a copy of base with a w0 x h0 rectangle at (x0, y0) set
// to v, for simulating a foreground object over a static background.
func patchImage(base Image, x0, y0, w0, h0 int, v byte) Image {
	out := NewImage(base.W, base.H, base.C)
	copy(out.Pix, base.Pix)
	for y := y0; y < y0+h0 && y < base.H; y++ {
		for x := x0; x < x0+w0 && x < base.W; x++ {
			for ch := 0; ch < base.C; ch++ {
				out.Set(x, y, ch, v)
			}
		}
	}
	return out
}

func testParams() Params {
	p := DefaultParams(&dumbLogger{})
	p.N = 10
	p.RequiredMatches = 2
	return p
}

func init() { lbsp.Seed(1) }
