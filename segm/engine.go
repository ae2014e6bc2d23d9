/*
NAME
  engine.go

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

import (
	"fmt"
	"math"

	"github.com/ausocean/segm/lbsp"
)

// Engine is the common surface of both background-model variants (ViBe and
// PBAS). An Engine is single-threaded and non-reentrant: it owns all model
// state exclusively and must not be called concurrently from more than one
// goroutine. Independent Engine instances may run in parallel over disjoint
// data.
type Engine interface {
	// Initialize populates the sample bank from initialFrame. If keypoints
	// is nil, the set given to SetKeypoints is used, or, if none was given,
	// a dense keypoint set covering the whole frame (minus the border).
	// Returns ErrInvalidFrame or ErrEmptyKeypoints.
	Initialize(initialFrame Image, keypoints []Keypoint) error

	// Process classifies every keypoint of frame as foreground or
	// background, updates the model, and returns a single-channel 8-bit
	// mask (255 == foreground, 0 == background, including outside the
	// keypoint ROI). learningRateOverride, if > 0, overrides the
	// configured learning rate for this call only. Returns
	// ErrNotInitialized or ErrFrameMismatch.
	Process(frame Image, learningRateOverride float64) (Image, error)

	// BackgroundImage returns the average, over all N color samples,
	// converted to 8 bits per channel.
	BackgroundImage() Image

	// BackgroundDescriptorImage returns the average, over all N descriptor
	// samples, as a 16-bit image.
	BackgroundDescriptorImage() DescImage

	// SetKeypoints overrides the keypoint set. It may only be called before
	// Initialize; returns ErrAlreadyInitialized otherwise.
	SetKeypoints(keypoints []Keypoint) error
}

// base holds the state and logic shared by ViBe and PBAS: the sample bank,
// keypoint set, and the classify/update inner loops. It is embedded by both
// variant structs rather than exposed directly.
type base struct {
	params      Params
	w, h, c     int
	keypoints   []Keypoint
	bank        sampleBank
	lastFGMask  []byte // previous frame's mask, for blinking-pixel suppression.
	initialized bool
	pp          postProcessor
}

func (b *base) validateFrame(frame Image) error {
	if err := frame.Validate(); err != nil {
		return err
	}
	return nil
}

func (b *base) initialize(frame Image, keypoints []Keypoint, withGrad bool) error {
	if err := b.validateFrame(frame); err != nil {
		return err
	}
	if keypoints == nil {
		keypoints = b.keypoints
	}
	if keypoints == nil {
		keypoints = DenseKeypoints(frame.W, frame.H)
	} else {
		keypoints = PruneKeypoints(keypoints, frame.W, frame.H)
	}
	if len(keypoints) == 0 {
		return ErrEmptyKeypoints
	}
	b.w, b.h, b.c = frame.W, frame.H, frame.C
	b.keypoints = keypoints
	b.bank = newSampleBank(b.params.N, b.w, b.h, b.c, withGrad)
	b.lastFGMask = make([]byte, b.w*b.h)
	b.pp = newPostProcessor(b.params.UseCVPostProcess, b.params.Logger)

	planes := make([]*lbsp.Plane, b.c)
	for ch := 0; ch < b.c; ch++ {
		planes[ch] = frame.Plane(ch)
	}

	for _, k := range b.keypoints {
		for s := 0; s < b.bank.n(); s++ {
			sx, sy := lbsp.RandomSample(k.X, k.Y, lbsp.PatchRadius, b.w, b.h)
			for ch := 0; ch < b.c; ch++ {
				t := b.lbspThreshold(frame.At(sx, sy, ch))
				d := lbsp.Compute(planes[ch], sx, sy, frame.At(sx, sy, ch), t)
				idx := b.bank.idx(k.X, k.Y, ch)
				b.bank.color[s][idx] = frame.At(sx, sy, ch)
				b.bank.desc[s][idx] = d
			}
		}
	}
	b.initialized = true
	return nil
}

func (b *base) setKeypoints(keypoints []Keypoint) error {
	if b.initialized {
		return ErrAlreadyInitialized
	}
	b.keypoints = keypoints
	return nil
}

// lbspThreshold returns the per-pixel LBSP threshold for a reference value,
// honoring the absolute/relative toggle. In grayscale mode the threshold is
// additionally widened by SingleChannelFactor, matching the reference
// algorithm's single-channel modulation of the LBSP threshold.
func (b *base) lbspThreshold(ref byte) byte {
	factor := 1.0
	if b.c == 1 {
		factor = lbsp.SingleChannelFactor
	}
	if b.params.RelativeLBSP {
		return lbsp.RelThreshold(b.params.LBSPThresholdRatio*factor, ref)
	}
	return lbsp.AbsThreshold(int(math.Round(float64(b.params.LBSPThreshold) * factor)))
}

func (b *base) checkFrame(frame Image) error {
	if !b.initialized {
		return ErrNotInitialized
	}
	if err := b.validateFrame(frame); err != nil {
		return err
	}
	if frame.W != b.w || frame.H != b.h || frame.C != b.c {
		return fmt.Errorf("%w: got %dx%dx%d, want %dx%dx%d", ErrFrameMismatch, frame.W, frame.H, frame.C, b.w, b.h, b.c)
	}
	return nil
}

func (b *base) backgroundImage() Image           { return b.bank.averageColor() }
func (b *base) backgroundDescriptorImage() DescImage { return b.bank.averageDesc() }

// classifyResult is what scanning the sample bank at one pixel yields.
type classifyResult struct {
	background bool
	dmin       float64 // minimum combined distance seen (summed descriptor distance, plus summed color distance when UseColorComplement is set), unnormalized; used by PBAS for D(x).
	// curDesc holds the per-channel descriptor computed against the *last*
	// scanned sample when ExtractInterLBSP is set, or the single intra-frame
	// descriptor otherwise. It is reused by the update step so the
	// descriptor is not recomputed a third time.
	curDesc [3]uint16
}

// classify scans the sample bank at keypoint k and reports whether it
// matches the background model: a sample matches when neither its summed
// color distance nor its summed descriptor distance, across all channels,
// exceeds the (possibly scaled) base threshold. In grayscale (one channel),
// the color test is always widened by SingleChannelFactor, since that is
// the whole per-pixel color test rather than an optional extra. In color
// (three channels), a single-channel outlier beyond SingleChannelFactor
// times the per-channel threshold rejects the sample outright when
// UseSCThresholdValidation is set, in addition to the summed three-channel
// test. colorScale and descScale multiply the base thresholds (used by
// PBAS's R(x); ViBe always passes 1).
func (b *base) classify(frame Image, planes []*lbsp.Plane, k Keypoint, colorScale, descScale float64) classifyResult {
	p := &b.params
	colorThresh := float64(p.ColorThreshold) * colorScale
	descThresh := float64(p.DescThreshold) * descScale

	var intraDesc [3]uint16
	if !p.ExtractInterLBSP {
		for ch := 0; ch < b.c; ch++ {
			ref := frame.At(k.X, k.Y, ch)
			intraDesc[ch] = lbsp.Compute(planes[ch], k.X, k.Y, ref, b.lbspThreshold(ref))
		}
	}

	good, i := 0, 0
	dmin := math.Inf(1)
	var lastDesc [3]uint16
	n := b.bank.n()
	for good < p.RequiredMatches && i < n {
		reject := false
		var totColor, totDesc float64
		var curDesc [3]uint16
		for ch := 0; ch < b.c; ch++ {
			idx := b.bank.idx(k.X, k.Y, ch)
			bgColor := b.bank.color[i][idx]
			cur := frame.At(k.X, k.Y, ch)
			colorDist := float64(lbsp.AbsDiff(cur, bgColor))
			// In grayscale, SC_MOD widening is the whole color test, not an
			// optional extra: there is only one channel to sum over.
			if b.c == 1 {
				if colorDist > colorThresh*lbsp.SingleChannelFactor {
					reject = true
				}
			} else if p.UseSCThresholdValidation && colorDist > colorThresh*lbsp.SingleChannelFactor {
				reject = true
			}

			var curD uint16
			if p.ExtractInterLBSP {
				curD = lbsp.Compute(planes[ch], k.X, k.Y, bgColor, b.lbspThreshold(bgColor))
			} else {
				curD = intraDesc[ch]
			}
			curDesc[ch] = curD
			descDist := float64(lbsp.Hamming16(curD, b.bank.desc[i][idx]))
			if b.c == 3 && p.UseSCThresholdValidation && descDist > descThresh*lbsp.SingleChannelFactor {
				reject = true
			}

			totColor += colorDist
			totDesc += descDist
		}
		combined := totDesc
		if p.UseColorComplement {
			combined += totColor
		}
		if combined < dmin {
			dmin = combined
		}
		lastDesc = curDesc

		if !reject {
			var okColor bool
			switch {
			case !p.UseColorComplement:
				okColor = true
			case b.c == 1:
				okColor = totColor <= colorThresh*lbsp.SingleChannelFactor
			default:
				okColor = totColor <= colorThresh*float64(b.c)
			}
			okDesc := totDesc <= descThresh*float64(b.c)
			if okColor && okDesc {
				good++
			}
		}
		i++
	}
	if math.IsInf(dmin, 1) {
		dmin = 0
	}
	return classifyResult{background: good >= p.RequiredMatches, dmin: dmin, curDesc: lastDesc}
}
