package engine

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Boolean converts the value with standard truthiness rules. Never fails.
func (v *Value) Boolean() bool {
	s := v.env.enter()
	defer s.exit()
	return v.v.ToBoolean()
}

// Number converts the value to a double-precision float. Values with no
// numeric coercion, symbols and BigInts included, convert to NaN.
func (v *Value) Number() float64 {
	s := v.env.enter()
	defer s.exit()
	return v.toFloat()
}

// toFloat must be called under the Environment scope. Engine-level
// coercion throws for symbols and BigInts; those surface as NaN here.
func (v *Value) toFloat() (f float64) {
	defer func() {
		if recover() != nil {
			f = math.NaN()
		}
	}()
	return v.v.ToFloat()
}

// Integer converts the value to a 64-bit signed integer by truncation.
// NaN converts to 0 and infinities clamp to the int64 range.
func (v *Value) Integer() int64 {
	s := v.env.enter()
	defer s.exit()

	f := v.toFloat()
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}

// Int32 converts the value with modular 32-bit signed semantics: the
// truncated number reduced mod 2^32, mapped onto the signed range.
func (v *Value) Int32() int32 {
	s := v.env.enter()
	defer s.exit()
	return int32(toUint32Bits(v.toFloat()))
}

// Uint32 converts the value with modular 32-bit unsigned semantics.
func (v *Value) Uint32() uint32 {
	s := v.env.enter()
	defer s.exit()
	return toUint32Bits(v.toFloat())
}

func toUint32Bits(f float64) uint32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	f = math.Trunc(f)
	f = math.Mod(f, 1<<32)
	if f < 0 {
		f += 1 << 32
	}
	return uint32(f)
}

// BigInt returns the sign bit and magnitude of a BigInt value as 64-bit
// words, least-significant word first. Zero reports an empty word list.
// Non-BigInt values report a zero sign and no words.
func (v *Value) BigInt() (signBit int, words []uint64) {
	s := v.env.enter()
	defer s.exit()

	x, ok := v.v.Export().(*big.Int)
	if !ok {
		return 0, nil
	}
	if x.Sign() < 0 {
		signBit = 1
	}

	mask := new(big.Int).SetUint64(math.MaxUint64)
	rest := new(big.Int).Abs(x)
	for rest.Sign() > 0 {
		words = append(words, new(big.Int).And(rest, mask).Uint64())
		rest.Rsh(rest, 64)
	}
	return signBit, words
}

// String converts the value to its string form, invoking toString for
// objects.
func (v *Value) String() string {
	s := v.env.enter()
	defer s.exit()
	return v.v.String()
}

// DetailString renders the value for diagnostics. Primitives render as
// their string form; objects whose default string form carries only the
// class tag render as "#<Class>".
func (v *Value) DetailString() string {
	str := v.String()
	if name, ok := strings.CutPrefix(str, "[object "); ok && strings.HasSuffix(name, "]") {
		return "#<" + strings.TrimSuffix(name, "]") + ">"
	}
	return str
}

// ArrayIndex reports whether the value's string form is a canonical array
// index and, if so, its numeric value. Leading zeros, signs, and 2^32-1
// itself do not qualify.
func (v *Value) ArrayIndex() (uint32, bool) {
	str := v.String()
	n, err := strconv.ParseUint(str, 10, 32)
	if err != nil || n == math.MaxUint32 {
		return 0, false
	}
	if str != strconv.FormatUint(n, 10) {
		return 0, false
	}
	return uint32(n), true
}
