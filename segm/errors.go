/*
NAME
  errors.go

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

import "errors"

// Sentinel errors returned by the engine. Callers should use errors.Is to
// check for these, since they are usually wrapped with extra context.
var (
	// ErrInvalidFrame is returned when a frame passed to Initialize has an
	// unsupported channel count, non-positive dimensions, or a pixel buffer
	// that does not match its stated dimensions.
	ErrInvalidFrame = errors.New("segm: invalid frame")

	// ErrEmptyKeypoints is returned when no keypoints survive border pruning.
	ErrEmptyKeypoints = errors.New("segm: no valid keypoints after border pruning")

	// ErrNotInitialized is returned by Process when Initialize has not been
	// called.
	ErrNotInitialized = errors.New("segm: engine not initialized")

	// ErrFrameMismatch is returned by Process when the supplied frame's size
	// or channel count differs from the frame Initialize was called with.
	ErrFrameMismatch = errors.New("segm: frame does not match initialized size")

	// ErrAlreadyInitialized is returned by SetKeypoints once Initialize has
	// been called; keypoints may only be changed before initialization.
	ErrAlreadyInitialized = errors.New("segm: keypoints may only be set before initialize")

	// ErrInvalidParams is returned by construction when Params fail
	// validation (e.g. a forbidden toggle combination, or N < requiredMatches).
	ErrInvalidParams = errors.New("segm: invalid parameters")
)
