//go:build withcv
// +build withcv

/*
NAME
  postprocess_cv.go

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
	"image"

	"gocv.io/x/gocv"

	"github.com/ausocean/utils/logging"
)

// newCVPostProcessor returns a gocv-accelerated postProcessor, grounded in
// the median-blur-then-open/close pipeline filter/mog.go and filter/knn.go
// run on their foreground masks.
func newCVPostProcessor(l logging.Logger) (postProcessor, bool) {
	return &cvPostProcessor{
		knl: gocv.GetStructuringElement(gocv.MorphRect, image.Pt(3, 3)),
		log: l,
	}, true
}

type cvPostProcessor struct {
	knl gocv.Mat
	log logging.Logger
}

func (p *cvPostProcessor) close() { p.knl.Close() }

func (p *cvPostProcessor) apply(mask []byte, w, h int, advancedMorph bool, prev []byte) {
	m, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC1, mask)
	if err != nil {
		if p.log != nil {
			p.log.Warning("gocv post-process failed, mask unchanged", "error", err)
		}
		return
	}
	defer m.Close()

	gocv.MedianBlur(m, &m, 9)

	if advancedMorph {
		gocv.Erode(m, &m, p.knl)
		gocv.Dilate(m, &m, p.knl)
		gocv.Dilate(m, &m, p.knl)
		gocv.Erode(m, &m, p.knl)
	}

	copy(mask, m.ToBytes())

	if advancedMorph {
		floodFillHoles(mask, w, h)
		if prev != nil {
			suppressBlinking(mask, prev, w, h)
		}
	}
}
