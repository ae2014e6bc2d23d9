/*
NAME
  postprocess_test.go

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

import "testing"

func TestMedianBlur9RemovesSinglePixelSpeckle(t *testing.T) {
	w, h := 20, 20
	mask := make([]byte, w*h)
	mask[10*w+10] = 255
	medianBlur9(mask, w, h)
	if mask[10*w+10] != 0 {
		t.Error("isolated speckle survived median blur")
	}
}

func TestMedianBlur9PreservesLargeRegion(t *testing.T) {
	w, h := 20, 20
	mask := make([]byte, w*h)
	for y := 5; y < 15; y++ {
		for x := 5; x < 15; x++ {
			mask[y*w+x] = 255
		}
	}
	medianBlur9(mask, w, h)
	if mask[10*w+10] != 255 {
		t.Error("interior of a large solid region should survive median blur")
	}
}

func TestFloodFillHolesFillsEnclosedBackground(t *testing.T) {
	w, h := 10, 10
	mask := make([]byte, w*h)
	for y := 1; y < 9; y++ {
		for x := 1; x < 9; x++ {
			mask[y*w+x] = 255
		}
	}
	mask[5*w+5] = 0 // a hole enclosed by foreground.
	floodFillHoles(mask, w, h)
	if mask[5*w+5] != 255 {
		t.Error("enclosed hole was not filled")
	}
	if mask[0] != 0 {
		t.Error("border-connected background was incorrectly filled")
	}
}

func TestSuppressBlinkingClearsChangedPixels(t *testing.T) {
	w, h := 4, 4
	prev := make([]byte, w*h)
	cur := make([]byte, w*h)
	cur[5] = 255
	suppressBlinking(cur, prev, w, h)
	if cur[5] != 0 {
		t.Error("pixel that flipped relative to the previous frame should be cleared")
	}
}

func TestScalarPostProcessorAdvancedMorphRuns(t *testing.T) {
	pp := &scalarPostProcessor{}
	w, h := 16, 16
	mask := make([]byte, w*h)
	for y := 4; y < 12; y++ {
		for x := 4; x < 12; x++ {
			mask[y*w+x] = 255
		}
	}
	pp.apply(mask, w, h, true, nil)
	if mask[8*w+8] != 255 {
		t.Error("interior of a solid region should remain foreground after advanced morph")
	}
}
