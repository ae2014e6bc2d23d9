/*
NAME
  sample_test.go

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

func TestRandomNeighborStaysInBounds(t *testing.T) {
	Seed(0)
	const w, h = 16, 16
	for i := 0; i < 1000; i++ {
		x, y := RandomNeighbor(2, 2, 1, w, h)
		if x < PatchRadius || x >= w-PatchRadius || y < PatchRadius || y >= h-PatchRadius {
			t.Fatalf("RandomNeighbor returned (%d,%d) outside valid window for %dx%d image", x, y, w, h)
		}
	}
}

func TestRandomSampleDeterministicWithSeed(t *testing.T) {
	Seed(42)
	x1, y1 := RandomSample(5, 5, 2, 32, 32)
	Seed(42)
	x2, y2 := RandomSample(5, 5, 2, 32, 32)
	if x1 != x2 || y1 != y2 {
		t.Fatalf("same seed produced different samples: (%d,%d) vs (%d,%d)", x1, y1, x2, y2)
	}
}
