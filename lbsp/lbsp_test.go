/*
NAME
  lbsp_test.go

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package lbsp

import "testing"

func uniformPlane(w, h int, v byte) *Plane {
	pix := make([]byte, w*h)
	for i := range pix {
		pix[i] = v
	}
	return &Plane{Pix: pix, Width: w, Height: h, Stride: w}
}

func TestOffsetsAreSixteenDistinctNonCenter(t *testing.T) {
	seen := make(map[Offset]bool)
	for _, o := range Offsets {
		if o.DX == 0 && o.DY == 0 {
			t.Fatalf("offset table includes the center pixel")
		}
		if seen[o] {
			t.Fatalf("duplicate offset %+v", o)
		}
		seen[o] = true
	}
	if len(seen) != 16 {
		t.Fatalf("expected 16 distinct offsets, got %d", len(seen))
	}
}

func TestComputeUniformImageIsZero(t *testing.T) {
	for _, v := range []byte{0, 1, 127, 128, 254, 255} {
		p := uniformPlane(9, 9, v)
		for _, threshold := range []byte{0, 1, 13, 255} {
			d := Compute(p, 4, 4, v, threshold)
			if d != 0 {
				t.Errorf("uniform image value %d threshold %d: got descriptor %#04x, want 0", v, threshold, d)
			}
		}
	}
}

func TestComputeZeroThresholdExactRefIsZero(t *testing.T) {
	p := uniformPlane(9, 9, 100)
	p.Pix[0] = 250 // perturb a corner outside the 5x5 window at (4,4).
	d := Compute(p, 4, 4, 100, 0)
	if d != 0 {
		t.Errorf("got %#04x, want 0 when threshold is 0 and ref equals center value exactly", d)
	}
}

func TestComputeDetectsBorderStep(t *testing.T) {
	p := uniformPlane(9, 9, 100)
	// Perturb the neighbor at Offsets[0] so exactly bit 0 should be set.
	off := Offsets[0]
	p.Pix[(4+off.DY)*9+(4+off.DX)] = 200
	d := Compute(p, 4, 4, 100, 10)
	if d != 1 {
		t.Errorf("got %#04x, want bit 0 only set", d)
	}
}

func TestValidBorderPolicy(t *testing.T) {
	p := uniformPlane(10, 10, 0)
	cases := []struct {
		x, y int
		want bool
	}{
		{0, 0, false},
		{1, 1, false},
		{2, 2, true},
		{7, 7, true},
		{8, 8, false},
		{9, 9, false},
	}
	for _, c := range cases {
		if got := p.Valid(c.x, c.y); got != c.want {
			t.Errorf("Valid(%d,%d) = %v, want %v", c.x, c.y, got, c.want)
		}
	}
}

func TestAbsThreshold(t *testing.T) {
	cases := []struct {
		in   int
		want byte
	}{{-5, 0}, {0, 0}, {13, 13}, {255, 255}, {300, 255}}
	for _, c := range cases {
		if got := AbsThreshold(c.in); got != c.want {
			t.Errorf("AbsThreshold(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestRelThreshold(t *testing.T) {
	if got := RelThreshold(0.3, 100); got != 30 {
		t.Errorf("RelThreshold(0.3,100) = %d, want 30", got)
	}
	if got := RelThreshold(2.0, 200); got != 255 {
		t.Errorf("RelThreshold(2.0,200) = %d, want 255 (clamped)", got)
	}
}

func TestAbsDiff(t *testing.T) {
	if AbsDiff(5, 10) != 5 || AbsDiff(10, 5) != 5 || AbsDiff(5, 5) != 0 {
		t.Fatalf("AbsDiff broken")
	}
}
