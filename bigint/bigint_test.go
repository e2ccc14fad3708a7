package bigint

import (
	"math/big"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

// fromWords builds an Int256 and its big.Int mirror from four 64-bit words.
func fromWords(ws []uint64) (Int256, *big.Int) {
	v := new(big.Int)
	for i := len(ws) - 1; i >= 0; i-- {
		v.Lsh(v, 64)
		v.Or(v, new(big.Int).SetUint64(ws[i]))
	}
	var z Int256
	z.SetBig(v)
	return z, v
}

func two256() *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), 256)
}

func TestSetBigRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)
	properties.Property("Big(SetBig(v)) == v", prop.ForAll(
		func(ws []uint64) bool {
			z, v := fromWords(ws)
			return z.Big().Cmp(v) == 0
		},
		gen.SliceOfN(4, gen.UInt64()),
	))
	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestCompare(t *testing.T) {
	zero := Int256{}
	one := Int256{1}
	var top Int256
	top[Limbs256-1] = 1

	require.Equal(t, 0, Compare(&zero, &zero))
	require.Equal(t, 0, Compare(&top, &top))
	require.Equal(t, -1, Compare(&zero, &one))
	require.Equal(t, 1, Compare(&one, &zero))
	// the most significant differing limb decides
	require.Equal(t, -1, Compare(&one, &top))
	require.Equal(t, 1, Compare(&top, &one))
}

func TestAddMatchesBig(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)
	properties.Property("add matches big.Int with explicit carry", prop.ForAll(
		func(aw, bw []uint64) bool {
			a, av := fromWords(aw)
			b, bv := fromWords(bw)
			z, carry := Add(&a, &b)

			ref := new(big.Int).Add(av, bv)
			refCarry := uint32(0)
			if ref.Cmp(two256()) >= 0 {
				refCarry = 1
				ref.Sub(ref, two256())
			}
			return carry == refCarry && z.Big().Cmp(ref) == 0
		},
		gen.SliceOfN(4, gen.UInt64()),
		gen.SliceOfN(4, gen.UInt64()),
	))
	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestSubMatchesBig(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)
	properties.Property("sub matches two's-complement wraparound", prop.ForAll(
		func(aw, bw []uint64) bool {
			a, av := fromWords(aw)
			b, bv := fromWords(bw)
			z, borrow := Sub(&a, &b)

			ref := new(big.Int).Sub(av, bv)
			refBorrow := uint32(0)
			if ref.Sign() < 0 {
				refBorrow = 1
				ref.Add(ref, two256())
			}
			return borrow == refBorrow && z.Big().Cmp(ref) == 0
		},
		gen.SliceOfN(4, gen.UInt64()),
		gen.SliceOfN(4, gen.UInt64()),
	))
	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestSubBorrowEdges(t *testing.T) {
	// x - x exercises the zero-borrow path on every equal limb pair
	var x Int256
	for i := range x {
		x[i] = uint32(i * 0x1111 & LimbMask)
	}
	z, borrow := Sub(&x, &x)
	require.Equal(t, uint32(0), borrow)
	require.Equal(t, Int256{}, z)

	// 0 - 1 propagates a borrow across all limbs
	zero := Int256{}
	one := Int256{1}
	z, borrow = Sub(&zero, &one)
	require.Equal(t, uint32(1), borrow)
	for i := range z {
		require.Equal(t, uint32(LimbMask), z[i], "limb %d", i)
	}

	// equal top limbs, differing low limb: the borrow must ripple through
	// the equal-limb/zero-borrow boundary up to the top
	a := Int256{}
	b := Int256{1}
	a[Limbs256-1] = 1
	b[Limbs256-1] = 1
	z, borrow = Sub(&a, &b)
	require.Equal(t, uint32(1), borrow)
	for i := range z {
		require.Equal(t, uint32(LimbMask), z[i], "limb %d", i)
	}
}

func TestAddCarryOut(t *testing.T) {
	var allOnes Int256
	for i := range allOnes {
		allOnes[i] = LimbMask
	}
	one := Int256{1}
	z, carry := Add(&allOnes, &one)
	require.Equal(t, uint32(1), carry)
	require.Equal(t, Int256{}, z)
}

func TestMulWideMatchesBig(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)
	properties.Property("mul_wide matches big.Int", prop.ForAll(
		func(aw, bw []uint64) bool {
			a, av := fromWords(aw)
			b, bv := fromWords(bw)
			z := MulWide(&a, &b)
			return z.Big().Cmp(new(big.Int).Mul(av, bv)) == 0
		},
		gen.SliceOfN(4, gen.UInt64()),
		gen.SliceOfN(4, gen.UInt64()),
	))
	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestMulWideTopBit(t *testing.T) {
	// 2^255 * 2^255 = 2^510: carries must propagate cleanly through the
	// widest limb positions
	var a Int256
	a[Limbs256-1] = 0x8000
	z := MulWide(&a, &a)

	ref := new(big.Int).Lsh(big.NewInt(1), 510)
	require.Equal(t, 0, z.Big().Cmp(ref))
}

func TestSqrWideMatchesMulWide(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)
	properties.Property("sqr_wide(x) == mul_wide(x, x)", prop.ForAll(
		func(aw []uint64) bool {
			a, _ := fromWords(aw)
			s := SqrWide(&a)
			m := MulWide(&a, &a)
			return s == m
		},
		gen.SliceOfN(4, gen.UInt64()),
	))
	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestSplit(t *testing.T) {
	var w Int512
	for i := range w {
		w[i] = uint32(i)
	}
	lo, hi := w.Split()
	for i := 0; i < Limbs256; i++ {
		require.Equal(t, uint32(i), lo[i])
		require.Equal(t, uint32(i+Limbs256), hi[i])
	}
}
