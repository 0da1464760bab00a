package engine

import (
	"math/big"
	"sync"

	"github.com/dop251/goja"

	"github.com/hostbridge/jsvm/resource"
)

// Value is an opaque handle to exactly one engine-heap value, pinned for
// the host until Dispose. It records the Environment it belongs to and, for
// values produced by running script, the Context it was produced in (some
// inspections need that Context's intrinsics). Host-constructed primitives
// carry no Context and need none.
//
// Values are externally immutable: every operation on them is a read-only
// predicate or a read-only conversion.
type Value struct {
	env    *Environment
	ctx    *Context
	v      goja.Value
	handle resource.Handle

	classOnce sync.Once
	class     classSet
}

func newPrimitive(env *Environment, v goja.Value) *Value {
	val := &Value{env: env, v: v}
	val.handle = env.table.Insert(resource.TypeValue, val)
	return val
}

// NewValueInteger creates a number value from a 32-bit signed integer.
func NewValueInteger(env *Environment, v int32) *Value {
	s := env.enter()
	defer s.exit()
	return newPrimitive(env, env.base.ToValue(int64(v)))
}

// NewValueIntegerFromUnsigned creates a number value from a 32-bit
// unsigned integer.
func NewValueIntegerFromUnsigned(env *Environment, v uint32) *Value {
	s := env.enter()
	defer s.exit()
	return newPrimitive(env, env.base.ToValue(int64(v)))
}

// NewValueString creates a string value from UTF-8 encoded text.
func NewValueString(env *Environment, v string) *Value {
	s := env.enter()
	defer s.exit()
	return newPrimitive(env, env.base.ToValue(v))
}

// NewValueBoolean creates a boolean value.
func NewValueBoolean(env *Environment, v bool) *Value {
	s := env.enter()
	defer s.exit()
	return newPrimitive(env, env.base.ToValue(v))
}

// NewValueNumber creates a number value from a double-precision float.
func NewValueNumber(env *Environment, v float64) *Value {
	s := env.enter()
	defer s.exit()
	return newPrimitive(env, env.base.ToValue(v))
}

// NewValueBigInt creates a BigInt value from a 64-bit signed integer.
func NewValueBigInt(env *Environment, v int64) *Value {
	s := env.enter()
	defer s.exit()
	return newPrimitive(env, env.base.ToValue(big.NewInt(v)))
}

// NewValueBigIntFromUnsigned creates a BigInt value from a 64-bit unsigned
// integer.
func NewValueBigIntFromUnsigned(env *Environment, v uint64) *Value {
	s := env.enter()
	defer s.exit()
	return newPrimitive(env, env.base.ToValue(new(big.Int).SetUint64(v)))
}

// NewValueBigIntFromWords creates a BigInt from a sign bit and a magnitude
// given as 64-bit words, least-significant word first. An empty word list
// yields 0n. The engine builds BigInts without a Context, so none is
// fabricated here.
func NewValueBigIntFromWords(env *Environment, signBit int, words []uint64) *Value {
	s := env.enter()
	defer s.exit()

	x := new(big.Int)
	for i := len(words) - 1; i >= 0; i-- {
		x.Lsh(x, 64)
		x.Or(x, new(big.Int).SetUint64(words[i]))
	}
	if signBit != 0 {
		x.Neg(x)
	}
	return newPrimitive(env, env.base.ToValue(x))
}

// Dispose releases the handle's pin on the underlying value. Safe to call
// at most once per handle and on a nil handle; using the handle afterwards
// is undefined.
func (v *Value) Dispose() {
	if v == nil {
		return
	}
	s := v.env.enter()
	defer s.exit()
	if v.handle != 0 {
		v.env.table.Remove(v.handle)
		v.handle = 0
	}
}

// Context returns the Context the value was produced in, or nil for
// host-constructed primitives.
func (v *Value) Context() *Context {
	return v.ctx
}
