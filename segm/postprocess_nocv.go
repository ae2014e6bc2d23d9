//go:build !withcv
// +build !withcv

/*
NAME
  postprocess_nocv.go

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

// newCVPostProcessor reports false when built without withcv; callers fall
// back to the scalar implementation.
func newCVPostProcessor(l logging.Logger) (postProcessor, bool) {
	if l != nil {
		l.Warning("UseCVPostProcess requested but binary was built without the withcv tag")
	}
	return nil, false
}
