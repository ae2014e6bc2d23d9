/*
NAME
  postprocess.go

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

import "github.com/ausocean/utils/logging"

// postProcessor cleans a raw classification mask before it is returned from
// Process. The scalar implementation in this file is used by default; a
// gocv-backed implementation is substituted instead when the binary is
// built with the withcv tag and Params.UseCVPostProcess is set.
type postProcessor interface {
	// apply mutates mask (0/255, row-major, w x h) in place. prev is the
	// previous frame's post-processed mask, used for blinking-pixel
	// suppression when advancedMorph is set; it may be nil on the first
	// call.
	apply(mask []byte, w, h int, advancedMorph bool, prev []byte)
	close()
}

func newPostProcessor(useCV bool, l logging.Logger) postProcessor {
	if useCV {
		if pp, ok := newCVPostProcessor(l); ok {
			return pp
		}
	}
	return &scalarPostProcessor{}
}

type scalarPostProcessor struct{}

func (*scalarPostProcessor) close() {}

func (*scalarPostProcessor) apply(mask []byte, w, h int, advancedMorph bool, prev []byte) {
	medianBlur9(mask, w, h)
	if !advancedMorph {
		return
	}
	tmp := make([]byte, len(mask))
	copy(tmp, mask)
	morphOpen3(tmp, mask, w, h)
	morphClose3(mask, tmp, w, h)
	floodFillHoles(mask, w, h)
	if prev != nil {
		suppressBlinking(mask, prev, w, h)
	}
}

// medianBlur9 applies a 9x9 median filter to a binary mask in place, matching
// the fixed kernel size the reference algorithm always uses for
// morphological cleanup of the raw classification output.
func medianBlur9(mask []byte, w, h int) {
	const radius = 4
	src := make([]byte, len(mask))
	copy(src, mask)
	window := make([]byte, 0, (2*radius+1)*(2*radius+1))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			window = window[:0]
			for dy := -radius; dy <= radius; dy++ {
				ny := clamp(y+dy, 0, h-1)
				for dx := -radius; dx <= radius; dx++ {
					nx := clamp(x+dx, 0, w-1)
					window = append(window, src[ny*w+nx])
				}
			}
			mask[y*w+x] = median(window)
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// median returns the median of a small slice, insertion-sorting a scratch
// copy; the 9x9 window is small enough that this beats allocating a real
// sort for every pixel.
func median(v []byte) byte {
	s := make([]byte, len(v))
	copy(s, v)
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
	return s[len(s)/2]
}

func morphOpen3(dst, src []byte, w, h int) {
	erode3(dst, src, w, h)
	tmp := make([]byte, len(dst))
	copy(tmp, dst)
	dilate3(dst, tmp, w, h)
}

func morphClose3(dst, src []byte, w, h int) {
	dilate3(dst, src, w, h)
	tmp := make([]byte, len(dst))
	copy(tmp, dst)
	erode3(dst, tmp, w, h)
}

func erode3(dst, src []byte, w, h int) {
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := byte(255)
			for dy := -1; dy <= 1; dy++ {
				ny := clamp(y+dy, 0, h-1)
				for dx := -1; dx <= 1; dx++ {
					nx := clamp(x+dx, 0, w-1)
					if src[ny*w+nx] < v {
						v = src[ny*w+nx]
					}
				}
			}
			dst[y*w+x] = v
		}
	}
}

func dilate3(dst, src []byte, w, h int) {
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var v byte
			for dy := -1; dy <= 1; dy++ {
				ny := clamp(y+dy, 0, h-1)
				for dx := -1; dx <= 1; dx++ {
					nx := clamp(x+dx, 0, w-1)
					if src[ny*w+nx] > v {
						v = src[ny*w+nx]
					}
				}
			}
			dst[y*w+x] = v
		}
	}
}

// floodFillHoles fills any background-labeled (0) region that is not
// connected to the image border, 4-connectivity, flipping it to foreground.
func floodFillHoles(mask []byte, w, h int) {
	reached := make([]bool, w*h)
	var stack [][2]int
	push := func(x, y int) {
		if x < 0 || x >= w || y < 0 || y >= h {
			return
		}
		i := y*w + x
		if mask[i] != 0 || reached[i] {
			return
		}
		reached[i] = true
		stack = append(stack, [2]int{x, y})
	}
	for x := 0; x < w; x++ {
		push(x, 0)
		push(x, h-1)
	}
	for y := 0; y < h; y++ {
		push(0, y)
		push(w-1, y)
	}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		push(p[0]-1, p[1])
		push(p[0]+1, p[1])
		push(p[0], p[1]-1)
		push(p[0], p[1]+1)
	}
	for i, v := range mask {
		if v == 0 && !reached[i] {
			mask[i] = 255
		}
	}
}

// suppressBlinking clears every pixel whose label differs from the previous
// frame's. mask and prev must be the same size; only mask is modified. It
// runs on the output mask after the frame's model update, so the cleared
// pixels do not change that update.
func suppressBlinking(mask, prev []byte, w, h int) {
	for i := range mask {
		if mask[i] != prev[i] {
			mask[i] = 0
		}
	}
}
