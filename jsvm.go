package jsvm

import (
	"go.uber.org/zap"

	"github.com/hostbridge/jsvm/engine"
)

// The root package re-exports the engine surface so callers depend on a
// single import path.

type (
	// Environment is an isolated execution arena.
	Environment = engine.Environment
	// Context is a global scope scripts run inside.
	Context = engine.Context
	// ObjectTemplate describes the initial layout of a context's global
	// object.
	ObjectTemplate = engine.ObjectTemplate
	// Value is a handle to one engine-heap value.
	Value = engine.Value
	// HeapStatistics is a point-in-time memory snapshot.
	HeapStatistics = engine.HeapStatistics
	// PropertyAttribute configures a template property slot.
	PropertyAttribute = engine.PropertyAttribute
)

const (
	None       = engine.None
	ReadOnly   = engine.ReadOnly
	DontEnum   = engine.DontEnum
	DontDelete = engine.DontDelete
)

// NewEnvironment creates a new isolated Environment.
func NewEnvironment() *Environment { return engine.NewEnvironment() }

// NewContext creates a Context inside env, optionally seeded from tmpl.
func NewContext(env *Environment, tmpl *ObjectTemplate) *Context {
	return engine.NewContext(env, tmpl)
}

// NewObjectTemplate creates an empty template owned by env.
func NewObjectTemplate(env *Environment) *ObjectTemplate {
	return engine.NewObjectTemplate(env)
}

// Value constructors for host-side primitives.

func NewValueInteger(env *Environment, v int32) *Value  { return engine.NewValueInteger(env, v) }
func NewValueString(env *Environment, v string) *Value  { return engine.NewValueString(env, v) }
func NewValueBoolean(env *Environment, v bool) *Value   { return engine.NewValueBoolean(env, v) }
func NewValueNumber(env *Environment, v float64) *Value { return engine.NewValueNumber(env, v) }
func NewValueBigInt(env *Environment, v int64) *Value   { return engine.NewValueBigInt(env, v) }

// NewValueIntegerFromUnsigned creates a number from a 32-bit unsigned
// integer.
func NewValueIntegerFromUnsigned(env *Environment, v uint32) *Value {
	return engine.NewValueIntegerFromUnsigned(env, v)
}

// NewValueBigIntFromUnsigned creates a BigInt from a 64-bit unsigned
// integer.
func NewValueBigIntFromUnsigned(env *Environment, v uint64) *Value {
	return engine.NewValueBigIntFromUnsigned(env, v)
}

// NewValueBigIntFromWords creates a BigInt from a sign bit and magnitude
// words, least-significant first.
func NewValueBigIntFromWords(env *Environment, signBit int, words []uint64) *Value {
	return engine.NewValueBigIntFromWords(env, signBit, words)
}

// SetLogger installs a logger for engine diagnostics. The engine logs
// nothing by default.
func SetLogger(l *zap.Logger) { engine.SetLogger(l) }
