/*
NAME
  vibe.go

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

// ViBe is a sample-consensus background model with a single global learning
// rate, augmented with LBSP descriptors in its classification distance.
type ViBe struct {
	base
}

// NewViBe constructs a ViBe engine. params is validated immediately;
// Initialize must still be called before Process.
func NewViBe(params Params) (*ViBe, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &ViBe{base{params: params}}, nil
}

func (v *ViBe) Initialize(frame Image, keypoints []Keypoint) error {
	return v.initialize(frame, keypoints, false)
}

func (v *ViBe) SetKeypoints(keypoints []Keypoint) error { return v.setKeypoints(keypoints) }

func (v *ViBe) BackgroundImage() Image { return v.backgroundImage() }

func (v *ViBe) BackgroundDescriptorImage() DescImage { return v.backgroundDescriptorImage() }

func (v *ViBe) Process(frame Image, learningRateOverride float64) (Image, error) {
	if err := v.checkFrame(frame); err != nil {
		return Image{}, err
	}
	rate := v.params.LearningRate
	if learningRateOverride > 0 {
		rate = learningRateOverride
	}
	rateN := int(rate)
	if rateN < 1 {
		rateN = 1
	}

	planes := make([]*lbsp.Plane, v.c)
	for ch := 0; ch < v.c; ch++ {
		planes[ch] = frame.Plane(ch)
	}

	mask := make([]byte, v.w*v.h)
	for _, k := range v.keypoints {
		res := v.classify(frame, planes, k, 1, 1)
		idx := k.Y*v.w + k.X
		if !res.background {
			mask[idx] = 255
			continue
		}

		if lbsp.Intn(rateN) == 0 {
			v.storeSample(k.X, k.Y, frame, planes, res.curDesc)
		}
		if lbsp.Intn(rateN) == 0 {
			nx, ny := lbsp.RandomNeighbor(k.X, k.Y, 1, v.w, v.h)
			v.diffuseSample(nx, ny, k.X, k.Y, frame, planes)
		}
	}

	v.pp.apply(mask, v.w, v.h, v.params.AdvancedMorph, v.lastFGMask)
	v.lastFGMask = mask

	out := NewImage(v.w, v.h, 1)
	copy(out.Pix, mask)
	return out, nil
}

// storeSample overwrites a randomly chosen model sample at (x, y) with the
// current frame's color and descriptor, the self-replacement half of ViBe's
// conservative update.
func (v *base) storeSample(x, y int, frame Image, planes []*lbsp.Plane, precomputed [3]uint16) {
	s := lbsp.Intn(v.bank.n())
	for ch := 0; ch < v.c; ch++ {
		idx := v.bank.idx(x, y, ch)
		cur := frame.At(x, y, ch)
		v.bank.color[s][idx] = cur
		if v.params.ModelInterLBSP {
			v.bank.desc[s][idx] = precomputed[ch]
		} else {
			v.bank.desc[s][idx] = lbsp.Compute(planes[ch], x, y, cur, v.lbspThreshold(cur))
		}
	}
}

// diffuseSample propagates the observation at (srcX, srcY) into a random
// model sample at (dstX, dstY), ViBe's neighbor-diffusion update. When
// SelfDiffusion is set, the neighbor's own current value is stored instead
// of the originating pixel's, per the reference algorithm's alternate mode.
func (v *base) diffuseSample(dstX, dstY, srcX, srcY int, frame Image, planes []*lbsp.Plane) {
	x, y := srcX, srcY
	if v.params.SelfDiffusion {
		x, y = dstX, dstY
	}
	s := lbsp.Intn(v.bank.n())
	for ch := 0; ch < v.c; ch++ {
		dstIdx := v.bank.idx(dstX, dstY, ch)
		cur := frame.At(x, y, ch)
		v.bank.color[s][dstIdx] = cur
		v.bank.desc[s][dstIdx] = lbsp.Compute(planes[ch], x, y, cur, v.lbspThreshold(cur))
	}
}
