/*
NAME
  image.go

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package segm implements online foreground/background segmentation of
// video frames using a sample-consensus model (ViBe) augmented with Local
// Binary Similarity Pattern descriptors, and its PBAS adaptive-threshold
// variant.
package segm

import (
	"fmt"
	"image"
	"image/color"

	"github.com/ausocean/segm/lbsp"
)

// Image is an 8-bit-per-channel, row-major video frame, grayscale (C==1) or
// 3-channel (C==3). It is the unit the engine reads frames in and emits
// foreground masks as.
type Image struct {
	W, H, C int
	Pix     []byte
}

// NewImage allocates a zeroed image of the given dimensions.
func NewImage(w, h, c int) Image {
	return Image{W: w, H: h, C: c, Pix: make([]byte, w*h*c)}
}

// SameSize reports whether two images share width, height and channel
// count.
func (img Image) SameSize(o Image) bool {
	return img.W == o.W && img.H == o.H && img.C == o.C
}

// Validate checks that an image's dimensions and backing slice are
// self-consistent and that its channel count is supported.
func (img Image) Validate() error {
	if img.C != 1 && img.C != 3 {
		return fmt.Errorf("segm: %w: unsupported channel count %d", ErrInvalidFrame, img.C)
	}
	if img.W <= 0 || img.H <= 0 {
		return fmt.Errorf("segm: %w: non-positive dimensions %dx%d", ErrInvalidFrame, img.W, img.H)
	}
	if len(img.Pix) != img.W*img.H*img.C {
		return fmt.Errorf("segm: %w: pixel buffer length %d does not match %dx%dx%d", ErrInvalidFrame, len(img.Pix), img.W, img.H, img.C)
	}
	return nil
}

// Plane returns the interleave-deinterleaved single-channel lbsp.Plane for
// channel ch. For C==1 this is a thin, allocation-free wrapper; for C==3 it
// copies the requested channel out of the interleaved buffer, since LBSP
// extraction over a 3-channel image is performed independently per channel.
func (img Image) Plane(ch int) *lbsp.Plane {
	if img.C == 1 {
		return &lbsp.Plane{Pix: img.Pix, Width: img.W, Height: img.H, Stride: img.W}
	}
	pix := make([]byte, img.W*img.H)
	for i := 0; i < img.W*img.H; i++ {
		pix[i] = img.Pix[i*img.C+ch]
	}
	return &lbsp.Plane{Pix: pix, Width: img.W, Height: img.H, Stride: img.W}
}

// At returns the value of channel ch at (x, y).
func (img Image) At(x, y, ch int) byte {
	return img.Pix[(y*img.W+x)*img.C+ch]
}

// Set writes the value of channel ch at (x, y).
func (img Image) Set(x, y, ch int, v byte) {
	img.Pix[(y*img.W+x)*img.C+ch] = v
}

// FromGray converts a standard library grayscale image into a segm.Image.
func FromGray(src *image.Gray) Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := NewImage(w, h, 1)
	for y := 0; y < h; y++ {
		copy(out.Pix[y*w:(y+1)*w], src.Pix[y*src.Stride:y*src.Stride+w])
	}
	return out
}

// FromNRGBA converts a standard library color image into a 3-channel
// segm.Image (dropping alpha).
func FromNRGBA(src *image.NRGBA) Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := NewImage(w, h, 3)
	for y := 0; y < h; y++ {
		srow := src.Pix[y*src.Stride : y*src.Stride+w*4]
		drow := out.Pix[y*w*3 : (y+1)*w*3]
		for x := 0; x < w; x++ {
			drow[x*3+0] = srow[x*4+0]
			drow[x*3+1] = srow[x*4+1]
			drow[x*3+2] = srow[x*4+2]
		}
	}
	return out
}

// ToGoImage converts a segm.Image back into a standard library image for
// display or encoding.
func (img Image) ToGoImage() image.Image {
	if img.C == 1 {
		out := image.NewGray(image.Rect(0, 0, img.W, img.H))
		for y := 0; y < img.H; y++ {
			copy(out.Pix[y*out.Stride:y*out.Stride+img.W], img.Pix[y*img.W:(y+1)*img.W])
		}
		return out
	}
	out := image.NewNRGBA(image.Rect(0, 0, img.W, img.H))
	for y := 0; y < img.H; y++ {
		srow := img.Pix[y*img.W*3 : (y+1)*img.W*3]
		drow := out.Pix[y*out.Stride : y*out.Stride+img.W*4]
		for x := 0; x < img.W; x++ {
			drow[x*4+0] = srow[x*3+0]
			drow[x*4+1] = srow[x*3+1]
			drow[x*4+2] = srow[x*3+2]
			drow[x*4+3] = 0xff
		}
	}
	return out
}

// DescImage holds a per-pixel, per-channel 16-bit LBSP descriptor grid, used
// for Engine.BackgroundDescriptorImage.
type DescImage struct {
	W, H, C int
	Pix     []uint16
}

// NewDescImage allocates a zeroed descriptor image.
func NewDescImage(w, h, c int) DescImage {
	return DescImage{W: w, H: h, C: c, Pix: make([]uint16, w*h*c)}
}

// ToGray16 renders a descriptor image's first channel as a 16-bit grayscale
// image, useful for visual debugging.
func (d DescImage) ToGray16() *image.Gray16 {
	out := image.NewGray16(image.Rect(0, 0, d.W, d.H))
	for y := 0; y < d.H; y++ {
		for x := 0; x < d.W; x++ {
			v := d.Pix[(y*d.W+x)*d.C]
			out.SetGray16(x, y, color.Gray16{Y: v})
		}
	}
	return out
}
