/*
NAME
  distance_test.go

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
	"math/bits"
	"testing"
)

func TestHamming16MatchesPopcountXOR(t *testing.T) {
	cases := []uint16{0, 1, 0xffff, 0x00f0, 0xdead, 0xbeef, 0x5a5a}
	for _, u := range cases {
		for _, v := range cases {
			want := bits.OnesCount16(u ^ v)
			got := Hamming16(u, v)
			if got != want {
				t.Errorf("Hamming16(%#04x,%#04x) = %d, want %d", u, v, got, want)
			}
			if got < 0 || got > 16 {
				t.Errorf("Hamming16(%#04x,%#04x) = %d out of [0,16]", u, v, got)
			}
		}
	}
}

func TestHamming16Identity(t *testing.T) {
	for _, u := range []uint16{0, 0xffff, 0x1234} {
		if d := Hamming16(u, u); d != 0 {
			t.Errorf("Hamming16(%#04x, same) = %d, want 0", u, d)
		}
	}
}

func TestScaleThreshold(t *testing.T) {
	if got := ScaleThreshold(30, SingleChannelFactor); got != 48 {
		t.Errorf("ScaleThreshold(30, 1.60) = %d, want 48", got)
	}
}
