/*
NAME
  bank.go

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

// sampleBank is the fixed-size background model: N parallel color and
// descriptor images, each the same W x H x C shape as the input. Only
// positions in the keypoint set are read during classification; the
// diffusion update may write any position whose 5x5 window fits in the
// image, and the average images read every position.
type sampleBank struct {
	w, h, c int
	color   [][]byte   // color[s] is a W*H*C image, sample s.
	desc    [][]uint16 // desc[s] is a W*H*C descriptor grid, sample s.
	grad    [][]byte   // grad[s] is a W*H*C gradient-magnitude grid, sample s (PBAS gradient complement only).
}

// newSampleBank allocates n zeroed samples for a w x h x c image. withGrad
// additionally allocates the gradient-magnitude bank.
func newSampleBank(n, w, h, c int, withGrad bool) sampleBank {
	b := sampleBank{w: w, h: h, c: c, color: make([][]byte, n), desc: make([][]uint16, n)}
	for s := 0; s < n; s++ {
		b.color[s] = make([]byte, w*h*c)
		b.desc[s] = make([]uint16, w*h*c)
	}
	if withGrad {
		b.grad = make([][]byte, n)
		for s := 0; s < n; s++ {
			b.grad[s] = make([]byte, w*h*c)
		}
	}
	return b
}

func (b *sampleBank) n() int { return len(b.color) }

// idx returns the flat index of channel ch at (x, y).
func (b *sampleBank) idx(x, y, ch int) int { return (y*b.w+x)*b.c + ch }

// averageColor returns the 8-bit mean, over all samples, of every position,
// converted to an Image (used by Engine.BackgroundImage).
func (b *sampleBank) averageColor() Image {
	out := NewImage(b.w, b.h, b.c)
	n := b.n()
	sums := make([]int, len(out.Pix))
	for s := 0; s < n; s++ {
		for i, v := range b.color[s] {
			sums[i] += int(v)
		}
	}
	for i, sum := range sums {
		out.Pix[i] = byte(sum / n)
	}
	return out
}

// averageDesc returns the 16-bit mean, over all samples, of every position,
// converted to a DescImage (used by Engine.BackgroundDescriptorImage).
func (b *sampleBank) averageDesc() DescImage {
	out := NewDescImage(b.w, b.h, b.c)
	n := b.n()
	sums := make([]int, len(out.Pix))
	for s := 0; s < n; s++ {
		for i, v := range b.desc[s] {
			sums[i] += int(v)
		}
	}
	for i, sum := range sums {
		out.Pix[i] = uint16(sum / n)
	}
	return out
}
