/*
NAME
  distance.go

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

// popcountLUT holds the number of set bits in each possible byte value, used
// to compute 16-bit Hamming distances two bytes at a time instead of
// bit-by-bit.
var popcountLUT = [256]byte{}

func init() {
	for i := range popcountLUT {
		var n byte
		for v := i; v != 0; v >>= 1 {
			n += byte(v & 1)
		}
		popcountLUT[i] = n
	}
}

// Hamming16 returns the number of differing bits between two 16-bit
// descriptors, in [0, 16].
func Hamming16(u, v uint16) int {
	x := u ^ v
	return int(popcountLUT[x&0xff]) + int(popcountLUT[x>>8])
}

// SingleChannelFactor widens a base threshold to the single-channel
// early-reject threshold used when validating one channel of a multi-channel
// comparison in isolation (SC_MOD in the glossary).
const SingleChannelFactor = 1.60

// ScaleThreshold multiplies an integer threshold by factor and truncates,
// matching the C++ source's `(int)(threshold * factor)` idiom.
func ScaleThreshold(threshold int, factor float64) int {
	return int(float64(threshold) * factor)
}
