// Package bigint implements fixed-width unsigned big-integer arithmetic on
// 16-bit limbs stored in 32-bit words.
//
// The limb width leaves headroom in each word so that a single limb product
// plus pending carries never overflows 32 bits, mirroring execution targets
// without native wide-integer support. All operations are pure: inputs are
// never modified and results carry explicit carry/borrow words.
package bigint

import "math/big"

const (
	// LimbBits is the number of significant bits per limb.
	LimbBits = 16

	// LimbMask selects the significant bits of a limb word.
	LimbMask = 0xFFFF

	// Limbs256 is the limb count of an Int256.
	Limbs256 = 16

	// Limbs512 is the limb count of an Int512.
	Limbs512 = 32
)

// Int256 is an unsigned 256-bit integer as 16 little-endian 16-bit limbs.
// Limb 0 holds the least significant 16 bits. Every limb must stay within
// LimbMask; out-of-range limbs are a caller bug, not a checked error.
type Int256 [Limbs256]uint32

// Int512 is an unsigned 512-bit integer as 32 little-endian 16-bit limbs.
// It only arises as a multiplication or squaring result.
type Int512 [Limbs512]uint32

// Compare returns -1 if x < y, 0 if x == y and 1 if x > y.
func Compare(x, y *Int256) int {
	for i := Limbs256 - 1; i >= 0; i-- {
		if x[i] != y[i] {
			if x[i] < y[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Add returns x + y and the carry out of the top limb.
func Add(x, y *Int256) (z Int256, carry uint32) {
	for i := 0; i < Limbs256; i++ {
		s := x[i] + y[i] + carry
		z[i] = s & LimbMask
		carry = s >> LimbBits
	}
	return z, carry
}

// Sub returns x - y and the borrow out of the top limb (1 if x < y).
// When a limb of x is too small, 2^LimbBits is borrowed from the next limb
// before subtracting; the result is identical to two's-complement wraparound.
func Sub(x, y *Int256) (z Int256, borrow uint32) {
	for i := 0; i < Limbs256; i++ {
		need := y[i] + borrow
		if x[i] >= need {
			z[i] = x[i] - need
			borrow = 0
		} else {
			z[i] = x[i] + (1 << LimbBits) - need
			borrow = 1
		}
	}
	return z, borrow
}

// MulWide returns the full 512-bit schoolbook product x * y.
func MulWide(x, y *Int256) (z Int512) {
	for i := 0; i < Limbs256; i++ {
		var carry uint64
		for j := 0; j < Limbs256; j++ {
			s := uint64(z[i+j]) + uint64(x[i])*uint64(y[j]) + carry
			z[i+j] = uint32(s) & LimbMask
			carry = s >> LimbBits
		}
		z[i+Limbs256] = uint32(carry)
	}
	return z
}

// SqrWide returns the full 512-bit square of x. Off-diagonal products are
// computed once and doubled, roughly halving the limb multiplications of
// MulWide(x, x).
func SqrWide(x *Int256) (z Int512) {
	var t [Limbs512]uint64
	for i := 0; i < Limbs256; i++ {
		for j := i + 1; j < Limbs256; j++ {
			t[i+j] += uint64(x[i]) * uint64(x[j])
		}
	}
	for k := range t {
		t[k] <<= 1
	}
	for i := 0; i < Limbs256; i++ {
		t[2*i] += uint64(x[i]) * uint64(x[i])
	}
	var carry uint64
	for k := 0; k < Limbs512; k++ {
		s := t[k] + carry
		z[k] = uint32(s) & LimbMask
		carry = s >> LimbBits
	}
	return z
}

// Split returns the low and high 256-bit halves of x.
func (x *Int512) Split() (lo, hi Int256) {
	copy(lo[:], x[:Limbs256])
	copy(hi[:], x[Limbs256:])
	return lo, hi
}

// SetBig sets z to v mod 2^256 and returns z. v must not be negative.
func (z *Int256) SetBig(v *big.Int) *Int256 {
	var t, w big.Int
	t.Set(v)
	mask := big.NewInt(LimbMask)
	for i := 0; i < Limbs256; i++ {
		w.And(&t, mask)
		z[i] = uint32(w.Uint64())
		t.Rsh(&t, LimbBits)
	}
	return z
}

// Big returns x as a big.Int.
func (x *Int256) Big() *big.Int {
	r := new(big.Int)
	for i := Limbs256 - 1; i >= 0; i-- {
		r.Lsh(r, LimbBits)
		r.Or(r, big.NewInt(int64(x[i])))
	}
	return r
}

// Big returns x as a big.Int.
func (x *Int512) Big() *big.Int {
	r := new(big.Int)
	for i := Limbs512 - 1; i >= 0; i-- {
		r.Lsh(r, LimbBits)
		r.Or(r, big.NewInt(int64(x[i])))
	}
	return r
}
