/*
NAME
  engine_test.go

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
	"errors"
	"testing"
)

func TestInitializeRejectsInvalidFrame(t *testing.T) {
	p := testParams()
	v, err := NewViBe(p)
	if err != nil {
		t.Fatalf("NewViBe: %v", err)
	}
	bad := Image{W: 4, H: 4, C: 2, Pix: make([]byte, 4*4*2)}
	if err := v.Initialize(bad, nil); !errors.Is(err, ErrInvalidFrame) {
		t.Fatalf("got %v, want ErrInvalidFrame", err)
	}
}

func TestInitializeRejectsAllKeypointsPruned(t *testing.T) {
	p := testParams()
	v, err := NewViBe(p)
	if err != nil {
		t.Fatalf("NewViBe: %v", err)
	}
	frame := solidImage(10, 10, 1, 50)
	if err := v.Initialize(frame, []Keypoint{{X: 0, Y: 0}}); !errors.Is(err, ErrEmptyKeypoints) {
		t.Fatalf("got %v, want ErrEmptyKeypoints", err)
	}
}

func TestSetKeypointsAfterInitializeFails(t *testing.T) {
	p := testParams()
	v, err := NewViBe(p)
	if err != nil {
		t.Fatalf("NewViBe: %v", err)
	}
	if err := v.Initialize(solidImage(10, 10, 1, 50), nil); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := v.SetKeypoints([]Keypoint{{X: 5, Y: 5}}); !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("got %v, want ErrAlreadyInitialized", err)
	}
}

func TestSetKeypointsBeforeInitializeIsHonored(t *testing.T) {
	p := testParams()
	v, err := NewViBe(p)
	if err != nil {
		t.Fatalf("NewViBe: %v", err)
	}
	custom := []Keypoint{{X: 4, Y: 4}, {X: 5, Y: 5}}
	if err := v.SetKeypoints(custom); err != nil {
		t.Fatalf("SetKeypoints: %v", err)
	}
	if err := v.Initialize(solidImage(10, 10, 1, 50), nil); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if len(v.keypoints) != len(custom) {
		t.Fatalf("got %d keypoints, want %d", len(v.keypoints), len(custom))
	}
}

func TestBackgroundImageMatchesInitialFrame(t *testing.T) {
	p := testParams()
	v, err := NewViBe(p)
	if err != nil {
		t.Fatalf("NewViBe: %v", err)
	}
	frame := solidImage(20, 20, 1, 77)
	if err := v.Initialize(frame, nil); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	bg := v.BackgroundImage()
	if bg.At(10, 10, 0) != 77 {
		t.Errorf("BackgroundImage at (10,10) = %d, want 77", bg.At(10, 10, 0))
	}
}

func TestSobelMagnitudeZeroOnUniformPlane(t *testing.T) {
	img := solidImage(10, 10, 1, 128)
	p := img.Plane(0)
	if sobelMagnitude(p, 5, 5) != 0 {
		t.Error("expected zero gradient magnitude on a uniform plane")
	}
}

func TestSobelMagnitudeNonzeroOnStep(t *testing.T) {
	img := NewImage(10, 10, 1)
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if x >= 5 {
				img.Set(x, y, 0, 255)
			}
		}
	}
	p := img.Plane(0)
	if sobelMagnitude(p, 5, 5) == 0 {
		t.Error("expected nonzero gradient magnitude across a sharp edge")
	}
}
