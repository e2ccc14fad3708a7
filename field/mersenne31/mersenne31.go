// Package mersenne31 implements arithmetic over the Mersenne field
// p = 2^31 - 1.
//
// The whole field fits in one 32-bit word with room for one extra reduction
// step, so elements are plain uint32 values in [0, p) and no limb
// decomposition is needed. Reduction exploits 2^31 ≡ 1 (mod p): folding the
// high bits back onto the low bits replaces division entirely.
package mersenne31

import "github.com/consensys/fieldbench/internal/debug"

// Modulus is the Mersenne prime 2^31 - 1.
const Modulus uint32 = 0x7FFFFFFF

// Reduce returns x mod p for any 32-bit x. Since x>>31 is at most 1, a
// single shift-add pass followed by one conditional subtraction suffices;
// this is never a loop.
func Reduce(x uint32) uint32 {
	r := (x & Modulus) + (x >> 31)
	if r >= Modulus {
		r -= Modulus
	}
	return r
}

// Add returns (a + b) mod p. The raw sum is at most 2p-2, safely below 2^32.
func Add(a, b uint32) uint32 {
	debug.Assert(a < Modulus && b < Modulus, "mersenne31: add operand >= p")
	return Reduce(a + b)
}

// Mul returns (a * b) mod p. The 62-bit product is split into three
// 31-bit-aligned chunks whose sum is congruent to the product; the first
// shift-add pass over that wider sum may still leave a value >= p, so a
// second conditional subtraction is applied.
func Mul(a, b uint32) uint32 {
	debug.Assert(a < Modulus && b < Modulus, "mersenne31: mul operand >= p")
	prod := uint64(a) * uint64(b)
	s := (prod & uint64(Modulus)) + ((prod >> 31) & uint64(Modulus)) + (prod >> 62)
	r := uint32(s&uint64(Modulus)) + uint32(s>>31)
	if r >= Modulus {
		r -= Modulus
	}
	return r
}
