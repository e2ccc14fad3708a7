// Package bn254 implements arithmetic over the BN254 base field on 16-bit
// limbs, with multiplication in Montgomery form.
//
// Whether a given Element carries the standard or the Montgomery
// representation is a caller contract, not a tagged property: ToMont and
// FromMont are the only supported boundary crossings. Add, Sub and Neg are
// representation-agnostic; Mul and Square are only meaningful as field
// multiplication on Montgomery-form operands.
package bn254

import (
	"math/big"

	"github.com/consensys/fieldbench/bigint"
	"github.com/consensys/fieldbench/internal/debug"
)

// Element represents a BN254 base field element stored on 16 limbs of 16 bits.
//
// Modulus q =
//
//	q[base10] = 21888242871839275222246405745257275088696311157297823662689037894645226208583
//	q[base16] = 0x30644e72e131a029b85045b68181585d97816a916871ca8d3c208c16d87cfd47
//
// An Element is always strictly smaller than q.
type Element bigint.Int256

// Field modulus q as 16-bit limbs, least significant first.
var qElement = bigint.Int256{
	0xFD47, 0xD87C, 0x8C16, 0x3C20,
	0xCA8D, 0x6871, 0x6A91, 0x9781,
	0x585D, 0x8181, 0x45B6, 0xB850,
	0xA029, 0xE131, 0x4E72, 0x3064,
}

// qInvNeg = -q⁻¹ mod 2^16, used for Montgomery reduction.
const qInvNeg uint32 = 0x6389

// rSquare = (2^256)² mod q, used to enter the Montgomery domain.
var rSquare = Element{
	0xFA89, 0x538A, 0xFC5B, 0xF32C,
	0x01FB, 0xD445, 0x1911, 0xB5E7,
	0x7FF6, 0x0A41, 0x1EFF, 0x47AB,
	0x351F, 0xCAB8, 0x9F71, 0x06D8,
}

// Modulus returns q as a big.Int.
func Modulus() *big.Int {
	return qElement.Big()
}

// SetZero sets z to 0 and returns z.
func (z *Element) SetZero() *Element {
	*z = Element{}
	return z
}

// SetOne sets z to 1 in the standard representation and returns z.
func (z *Element) SetOne() *Element {
	*z = Element{1}
	return z
}

// IsZero returns true if z equals 0.
func (z *Element) IsZero() bool {
	var acc uint32
	for i := 0; i < bigint.Limbs256; i++ {
		acc |= z[i]
	}
	return acc == 0
}

// Equal returns true if z equals x.
func (z *Element) Equal(x *Element) bool {
	return bigint.Compare((*bigint.Int256)(z), (*bigint.Int256)(x)) == 0
}

// smallerThanModulus returns true if z < q. This is not constant time.
func (z *Element) smallerThanModulus() bool {
	return bigint.Compare((*bigint.Int256)(z), &qElement) < 0
}

// Reduce sets z to z mod q and returns z. z must be smaller than 2q, so a
// single conditional subtraction suffices; this is never a loop.
func (z *Element) Reduce() *Element {
	if !z.smallerThanModulus() {
		r, _ := bigint.Sub((*bigint.Int256)(z), &qElement)
		*z = Element(r)
	}
	return z
}

// Add sets z = x + y (mod q) and returns z.
//
// The raw sum can exceed q either by overflowing the top limb or by plain
// magnitude, so both the carry and the comparison trigger the subtraction.
func (z *Element) Add(x, y *Element) *Element {
	debug.Assert(x.smallerThanModulus(), "bn254: add operand >= q")
	debug.Assert(y.smallerThanModulus(), "bn254: add operand >= q")
	r, carry := bigint.Add((*bigint.Int256)(x), (*bigint.Int256)(y))
	if carry != 0 || bigint.Compare(&r, &qElement) >= 0 {
		r, _ = bigint.Sub(&r, &qElement)
	}
	*z = Element(r)
	return z
}

// Sub sets z = x - y (mod q) and returns z. A borrow means the raw
// difference landed in [-q, 0), so q is added back once.
func (z *Element) Sub(x, y *Element) *Element {
	debug.Assert(x.smallerThanModulus(), "bn254: sub operand >= q")
	debug.Assert(y.smallerThanModulus(), "bn254: sub operand >= q")
	r, borrow := bigint.Sub((*bigint.Int256)(x), (*bigint.Int256)(y))
	if borrow != 0 {
		r, _ = bigint.Add(&r, &qElement)
	}
	*z = Element(r)
	return z
}

// Neg sets z = -x (mod q) and returns z. Zero maps to itself.
func (z *Element) Neg(x *Element) *Element {
	if x.IsZero() {
		return z.SetZero()
	}
	r, _ := bigint.Sub(&qElement, (*bigint.Int256)(x))
	*z = Element(r)
	return z
}

// Mul sets z = x * y * R⁻¹ (mod q) and returns z, the Montgomery product.
//
// Implements CIOS multiplication: an 18-limb rolling accumulator fuses
// multiplication and reduction limb by limb, so no 512-bit intermediate is
// ever materialized. Section 2.3.2 of Tolga Acar's thesis,
// https://www.microsoft.com/en-us/research/wp-content/uploads/1998/06/97Acar.pdf
func (z *Element) Mul(x, y *Element) *Element {
	debug.Assert(x.smallerThanModulus(), "bn254: mul operand >= q")
	debug.Assert(y.smallerThanModulus(), "bn254: mul operand >= q")

	var t [bigint.Limbs256 + 2]uint32
	for i := 0; i < bigint.Limbs256; i++ {
		// t += x[i] * y
		c := uint64(0)
		for j := 0; j < bigint.Limbs256; j++ {
			s := uint64(t[j]) + uint64(x[i])*uint64(y[j]) + c
			t[j] = uint32(s) & bigint.LimbMask
			c = s >> bigint.LimbBits
		}
		s := uint64(t[bigint.Limbs256]) + c
		t[bigint.Limbs256] = uint32(s) & bigint.LimbMask
		t[bigint.Limbs256+1] += uint32(s >> bigint.LimbBits)

		// t += m * q, which zeroes t[0]
		m := (t[0] * qInvNeg) & bigint.LimbMask
		c = 0
		for j := 0; j < bigint.Limbs256; j++ {
			s := uint64(t[j]) + uint64(m)*uint64(qElement[j]) + c
			t[j] = uint32(s) & bigint.LimbMask
			c = s >> bigint.LimbBits
		}
		s = uint64(t[bigint.Limbs256]) + c
		t[bigint.Limbs256] = uint32(s) & bigint.LimbMask
		t[bigint.Limbs256+1] += uint32(s >> bigint.LimbBits)

		// shift the accumulator down one limb, discarding the zeroed t[0]
		copy(t[:bigint.Limbs256+1], t[1:])
		t[bigint.Limbs256+1] = 0
	}

	copy(z[:], t[:bigint.Limbs256])
	if t[bigint.Limbs256] != 0 || !z.smallerThanModulus() {
		r, _ := bigint.Sub((*bigint.Int256)(z), &qElement)
		*z = Element(r)
	}
	return z
}

// Square sets z = x * x * R⁻¹ (mod q) and returns z. It squares with the
// dedicated wide-squaring primitive and then applies classic Montgomery
// reduction, rather than going through CIOS.
func (z *Element) Square(x *Element) *Element {
	debug.Assert(x.smallerThanModulus(), "bn254: square operand >= q")
	t := bigint.SqrWide((*bigint.Int256)(x))
	*z = montReduce(&t)
	return z
}

// ToMont converts z to the Montgomery representation and returns z.
func (z *Element) ToMont() *Element {
	return z.Mul(z, &rSquare)
}

// FromMont converts z back to the standard representation and returns z.
func (z *Element) FromMont() *Element {
	var t bigint.Int512
	copy(t[:bigint.Limbs256], z[:])
	*z = montReduce(&t)
	return z
}

// montReduce computes t * R⁻¹ (mod q) by classic Montgomery reduction of a
// 512-bit value: each round cancels one low limb by adding a multiple of q,
// and the upper 256 bits of the final accumulator are the result.
func montReduce(t *bigint.Int512) Element {
	var buf [bigint.Limbs512 + 1]uint32
	copy(buf[:], t[:])

	for i := 0; i < bigint.Limbs256; i++ {
		m := (buf[i] * qInvNeg) & bigint.LimbMask
		c := uint64(0)
		for j := 0; j < bigint.Limbs256; j++ {
			s := uint64(buf[i+j]) + uint64(m)*uint64(qElement[j]) + c
			buf[i+j] = uint32(s) & bigint.LimbMask
			c = s >> bigint.LimbBits
		}
		for k := i + bigint.Limbs256; c != 0; k++ {
			s := uint64(buf[k]) + c
			buf[k] = uint32(s) & bigint.LimbMask
			c = s >> bigint.LimbBits
		}
	}

	var z Element
	copy(z[:], buf[bigint.Limbs256:bigint.Limbs512])
	if buf[bigint.Limbs512] != 0 || !z.smallerThanModulus() {
		r, _ := bigint.Sub((*bigint.Int256)(&z), &qElement)
		z = Element(r)
	}
	return z
}

// SetBigInt sets z to v mod q in the standard representation and returns z.
func (z *Element) SetBigInt(v *big.Int) *Element {
	var t big.Int
	t.Mod(v, Modulus())
	(*bigint.Int256)(z).SetBig(&t)
	return z
}

// BigInt returns the raw limbs of z as a big.Int, in whichever
// representation z currently carries.
func (z *Element) BigInt() *big.Int {
	return (*bigint.Int256)(z).Big()
}
