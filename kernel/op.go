package kernel

import "fmt"

// Op identifies a benchmark operation.
type Op uint8

const (
	U32Baseline Op = iota
	U64Emulated
	U256Add
	BigIntMul
	FieldAdd
	FieldSub
	FieldMul
	MersenneFieldAdd
	MersenneFieldMul
)

// Name returns the canonical snake_case name of the operation.
func (op Op) Name() string {
	switch op {
	case U32Baseline:
		return "u32_baseline"
	case U64Emulated:
		return "u64_emulated"
	case U256Add:
		return "u256_add"
	case BigIntMul:
		return "bigint_mul"
	case FieldAdd:
		return "field_add"
	case FieldSub:
		return "field_sub"
	case FieldMul:
		return "field_mul"
	case MersenneFieldAdd:
		return "mersenne_field_add"
	case MersenneFieldMul:
		return "mersenne_field_mul"
	default:
		return "unknown"
	}
}

// Description returns a short human readable description of the operation.
func (op Op) Description() string {
	switch op {
	case U32Baseline:
		return "Native u32 multiply-add"
	case U64Emulated:
		return "u64 via u32 pairs with carry"
	case U256Add:
		return "256-bit addition (16x16-bit limbs)"
	case BigIntMul:
		return "BigInt256 multiplication (16x16-bit limbs)"
	case FieldAdd:
		return "BN254 field addition"
	case FieldSub:
		return "BN254 field subtraction"
	case FieldMul:
		return "BN254 Montgomery field multiplication"
	case MersenneFieldAdd:
		return "Mersenne31 field addition"
	case MersenneFieldMul:
		return "Mersenne31 field multiplication"
	default:
		return "unknown"
	}
}

func (op Op) String() string {
	return op.Name()
}

// AllOps returns every operation in declaration order.
func AllOps() []Op {
	return []Op{
		U32Baseline,
		U64Emulated,
		U256Add,
		BigIntMul,
		FieldAdd,
		FieldSub,
		FieldMul,
		MersenneFieldAdd,
		MersenneFieldMul,
	}
}

// OpFromName returns the operation with the given canonical name.
func OpFromName(name string) (Op, error) {
	for _, op := range AllOps() {
		if op.Name() == name {
			return op, nil
		}
	}
	return 0, fmt.Errorf("unknown operation %q", name)
}
