/*
NAME
  sample.go

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package lbsp

import (
	"math/rand"
	"sync"
)

// rng is the process-wide pseudo-random source used by every random
// neighbor/sample draw in this package and by the model update engines built
// on top of it. It is guarded by rngMu because the sample-consensus engines
// are otherwise single-threaded but tests may seed/read it from a different
// goroutine than the one running the engine under test.
var (
	rngMu sync.Mutex
	rng   = rand.New(rand.NewSource(1))
)

// Seed reseeds the process-wide RNG. Tests that require deterministic
// sampling must call this before constructing or using an engine.
func Seed(seed int64) {
	rngMu.Lock()
	defer rngMu.Unlock()
	rng.Seed(seed)
}

// Intn returns a non-negative pseudo-random number in [0, n) from the
// process-wide RNG. It exists so that packages built on top of lbsp (the
// ViBe/PBAS update engines) share the same seedable source rather than
// keeping their own.
func Intn(n int) int {
	rngMu.Lock()
	defer rngMu.Unlock()
	return rng.Intn(n)
}

// clampWindow clamps v so that the PatchRadius window around it fits within
// [0, limit).
func clampWindow(v, limit int) int {
	switch {
	case v < PatchRadius:
		return PatchRadius
	case v > limit-1-PatchRadius:
		return limit - 1 - PatchRadius
	default:
		return v
	}
}

// randomPosition returns a position uniformly distributed in the
// (2*radius+1)x(2*radius+1) square centered on (x, y), clamped so that the
// returned position's 5x5 descriptor window lies inside a w x h image.
func randomPosition(x, y, radius, w, h int) (int, int) {
	dx := Intn(2*radius+1) - radius
	dy := Intn(2*radius+1) - radius
	return clampWindow(x+dx, w), clampWindow(y+dy, h)
}

// RandomNeighbor returns a position uniformly distributed in the
// (2*radius+1)x(2*radius+1) neighborhood of (x, y), clamped to keep its 5x5
// descriptor window inside a w x h image. Used by the diffusion step of the
// model update engines.
func RandomNeighbor(x, y, radius, w, h int) (int, int) {
	return randomPosition(x, y, radius, w, h)
}

// RandomSample is identical to RandomNeighbor but named separately to match
// its distinct use: initial population of the sample bank from the first
// frame.
func RandomSample(x, y, radius, w, h int) (int, int) {
	return randomPosition(x, y, radius, w, h)
}
