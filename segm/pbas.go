/*
NAME
  pbas.go

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
	"github.com/ausocean/segm/lbsp"
)

// PBAS is a sample-consensus background model with a per-pixel adaptive
// distance threshold R(x), update rate T(x), and running minimal-distance
// average D(x), augmented with LBSP descriptors.
type PBAS struct {
	base
	r, t, d, v []float64 // one entry per pixel position (row-major), mirroring the sample bank's own full-grid allocation.
}

// NewPBAS constructs a PBAS engine. params is validated immediately;
// Initialize must still be called before Process.
func NewPBAS(params Params) (*PBAS, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &PBAS{base: base{params: params}}, nil
}

func (e *PBAS) Initialize(frame Image, keypoints []Keypoint) error {
	if err := e.initialize(frame, keypoints, e.params.GradientComplement); err != nil {
		return err
	}
	n := e.w * e.h
	e.r = make([]float64, n)
	e.t = make([]float64, n)
	e.d = make([]float64, n)
	e.v = make([]float64, n)
	t0 := e.params.LearningRate
	if t0 < DefaultTMin {
		t0 = DefaultTMin
	} else if t0 > DefaultTMax {
		t0 = DefaultTMax
	}
	for i := range e.r {
		e.r[i] = 1 // R(x) starts unscaled; updateR moves it within [1, DefaultRMax].
		e.t[i] = t0
		e.v[i] = DefaultVFloor
	}
	if e.params.GradientComplement {
		planes := make([]*lbsp.Plane, e.c)
		for ch := 0; ch < e.c; ch++ {
			planes[ch] = frame.Plane(ch)
		}
		for _, k := range e.keypoints {
			for s := 0; s < e.bank.n(); s++ {
				for ch := 0; ch < e.c; ch++ {
					idx := e.bank.idx(k.X, k.Y, ch)
					e.bank.grad[s][idx] = sobelMagnitude(planes[ch], k.X, k.Y)
				}
			}
		}
	}
	return nil
}

func (e *PBAS) SetKeypoints(keypoints []Keypoint) error { return e.setKeypoints(keypoints) }

func (e *PBAS) BackgroundImage() Image { return e.backgroundImage() }

func (e *PBAS) BackgroundDescriptorImage() DescImage { return e.backgroundDescriptorImage() }

func (e *PBAS) Process(frame Image, learningRateOverride float64) (Image, error) {
	if err := e.checkFrame(frame); err != nil {
		return Image{}, err
	}

	planes := make([]*lbsp.Plane, e.c)
	for ch := 0; ch < e.c; ch++ {
		planes[ch] = frame.Plane(ch)
	}

	mask := make([]byte, e.w*e.h)
	for _, k := range e.keypoints {
		idx := k.Y*e.w + k.X
		// colorThreshold_eff(p) = colorThresholdBase x R(p); same for desc.
		res := e.classify(frame, planes, k, e.r[idx], e.r[idx])

		e.updateD(idx, res.dmin)
		e.updateV(idx, res.background)
		e.updateR(idx)

		if !res.background {
			mask[idx] = 255
			e.updateT(idx, res.background)
			continue
		}
		e.updateT(idx, res.background)

		rate := e.t[idx]
		if learningRateOverride > 0 {
			rate = learningRateOverride
		}
		rateN := int(rate)
		if rateN < 1 {
			rateN = 1
		}
		if lbsp.Intn(rateN) == 0 {
			e.storeSample(k.X, k.Y, frame, planes, res.curDesc)
		}
		if lbsp.Intn(rateN) == 0 {
			nx, ny := lbsp.RandomNeighbor(k.X, k.Y, 1, e.w, e.h)
			e.diffuseSample(nx, ny, k.X, k.Y, frame, planes)
		}
	}

	e.pp.apply(mask, e.w, e.h, e.params.AdvancedMorph, e.lastFGMask)
	e.lastFGMask = mask

	out := NewImage(e.w, e.h, 1)
	copy(out.Pix, mask)
	return out, nil
}

// updateD folds a fresh minimal-distance sample into D(x)'s running
// average: D(p) <- (D(p) x (T(p)-1) + dmin(p)) / T(p).
func (e *PBAS) updateD(idx int, dmin float64) {
	t := e.t[idx]
	e.d[idx] = (e.d[idx]*(t-1) + dmin) / t
}

// updateV tracks V(x), R(x)'s variation term, when R2Acceleration is
// enabled: V(p) <- V(p) + V_INCR on a foreground pixel, else
// V(p) <- max(V_FLOOR, V(p) - V_DECR). Left untouched otherwise; V(x) then
// keeps its initial value V_FLOOR (0), so updateR's factor is 1 and R(x)
// stays at 1.
func (e *PBAS) updateV(idx int, background bool) {
	if !e.params.R2Acceleration {
		return
	}
	if !background {
		e.v[idx] += DefaultVIncr
		return
	}
	e.v[idx] -= DefaultVDecr
	if e.v[idx] < DefaultVFloor {
		e.v[idx] = DefaultVFloor
	}
}

// updateR moves R(x) toward a larger threshold while D(x) indicates the
// pixel is volatile, and relaxes it otherwise: if R(p) < 1 + D(p) x 2,
// R(p) <- R(p) x (1 + V(p)); else R(p) <- R(p) x (1 - V(p)). Clamped to
// [1, R_MAX].
func (e *PBAS) updateR(idx int) {
	if e.r[idx] < 1+e.d[idx]*2 {
		e.r[idx] *= 1 + e.v[idx]
	} else {
		e.r[idx] *= 1 - e.v[idx]
	}
	if e.r[idx] < 1 {
		e.r[idx] = 1
	}
	if e.r[idx] > DefaultRMax {
		e.r[idx] = DefaultRMax
	}
}

// updateT adjusts T(x), the per-pixel learning rate: T(p) <- T(p) +
// T_INCR / (D(p) + eps) on a foreground pixel, else T(p) <- T(p) -
// T_DECR x (D(p) + eps). Clamped to [T_MIN, T_MAX].
func (e *PBAS) updateT(idx int, background bool) {
	d := e.d[idx] + DefaultEps
	if !background {
		e.t[idx] += DefaultTIncr / d
	} else {
		e.t[idx] -= DefaultTDecr * d
	}
	if e.t[idx] < DefaultTMin {
		e.t[idx] = DefaultTMin
	}
	if e.t[idx] > DefaultTMax {
		e.t[idx] = DefaultTMax
	}
}
