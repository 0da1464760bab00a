package engine

import (
	"math"
	"math/big"
	"strings"

	"github.com/dop251/goja"
)

// classSet is the tagged classification of one value's runtime kind,
// computed once per Value and cached. Every type predicate is a bit test
// against it, so the wide predicate surface costs a single engine round
// trip per value.
type classSet uint64

const (
	classUndefined classSet = 1 << iota
	classNull
	classTrue
	classFalse
	classBoolean
	classString
	classSymbol
	classFunction
	classObject
	classNumber
	classBigInt
	classInt32
	classUint32
	classDate
	classArguments
	classBigIntObject
	classNumberObject
	classStringObject
	classSymbolObject
	classNativeError
	classRegExp
	classAsyncFunction
	classGeneratorFunction
	classGeneratorObject
	classPromise
	classMap
	classSet_
	classMapIterator
	classSetIterator
	classWeakMap
	classWeakSet
	classArray
	classArrayBuffer
	classArrayBufferView
	classTypedArray
	classUint8Array
	classUint8ClampedArray
	classInt8Array
	classUint16Array
	classInt16Array
	classUint32Array
	classInt32Array
	classFloat32Array
	classFloat64Array
	classBigInt64Array
	classBigUint64Array
	classDataView
	classProxy
	classModuleNamespace
)

func (s classSet) has(c classSet) bool { return s&c != 0 }

// classes returns the value's cached classification, computing it on first
// use under the Environment scope.
func (v *Value) classes() classSet {
	v.classOnce.Do(func() {
		s := v.env.enter()
		defer s.exit()
		v.class = v.computeClass()
	})
	return v.class
}

func (v *Value) computeClass() classSet {
	val := v.v
	switch {
	case val == nil || goja.IsUndefined(val):
		return classUndefined
	case goja.IsNull(val):
		return classNull
	}

	if obj, ok := val.(*goja.Object); ok {
		return v.classifyObject(obj)
	}
	if _, ok := val.(*goja.Symbol); ok {
		return classSymbol
	}

	switch ex := val.Export().(type) {
	case bool:
		c := classBoolean
		if ex {
			c |= classTrue
		} else {
			c |= classFalse
		}
		return c
	case string:
		return classString
	case *big.Int:
		return classBigInt
	case int64:
		return classNumber | intClasses(ex)
	case float64:
		return classNumber | floatClasses(ex)
	}
	return 0
}

func intClasses(n int64) classSet {
	var c classSet
	if n >= math.MinInt32 && n <= math.MaxInt32 {
		c |= classInt32
	}
	if n >= 0 && n <= math.MaxUint32 {
		c |= classUint32
	}
	return c
}

func floatClasses(f float64) classSet {
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0
	}
	// Negative zero has no integer representation.
	if f == 0 && math.Signbit(f) {
		return 0
	}
	if f < math.MinInt32 || f > math.MaxUint32 {
		return 0
	}
	return intClasses(int64(f))
}

// classifyObject tags an object by asking the value's own Context. The
// classifier recognizes proxies from its construction-time registry and
// reports them bare, so classification never triggers proxy traps.
func (v *Value) classifyObject(obj *goja.Object) classSet {
	c := classObject

	if v.ctx == nil || v.ctx.classify == nil {
		return c
	}

	// The scope is held and nothing is executing in this Environment, so
	// any pending interrupt is a stale termination request from an
	// already-finished run; it must not abort the classifier.
	v.ctx.vm.ClearInterrupt()

	res, err := v.ctx.classify(goja.Undefined(), obj)
	if err != nil {
		debugf("classification failed: %v", err)
		return c
	}

	for _, tag := range strings.Split(res.String(), ",") {
		switch tag {
		case "function":
			c |= classFunction
		case "array":
			c |= classArray
		case "error":
			c |= classNativeError
		case "view":
			c |= classArrayBufferView
		case "promise":
			c |= classPromise
		case "proxy":
			c |= classProxy
		default:
			if name, ok := strings.CutPrefix(tag, "class:"); ok {
				c |= classByName(name)
			}
		}
	}
	return c
}

func classByName(name string) classSet {
	switch name {
	case "Arguments":
		return classArguments
	case "Date":
		return classDate
	case "RegExp":
		return classRegExp
	case "Error":
		return classNativeError
	case "Promise":
		return classPromise
	case "Map":
		return classMap
	case "Set":
		return classSet_
	case "WeakMap":
		return classWeakMap
	case "WeakSet":
		return classWeakSet
	case "Map Iterator":
		return classMapIterator
	case "Set Iterator":
		return classSetIterator
	case "Generator":
		return classGeneratorObject
	case "GeneratorFunction":
		return classGeneratorFunction
	case "AsyncFunction":
		return classAsyncFunction
	case "ArrayBuffer":
		return classArrayBuffer
	case "DataView":
		return classDataView
	case "Uint8Array":
		return classTypedArray | classUint8Array
	case "Uint8ClampedArray":
		return classTypedArray | classUint8ClampedArray
	case "Int8Array":
		return classTypedArray | classInt8Array
	case "Uint16Array":
		return classTypedArray | classUint16Array
	case "Int16Array":
		return classTypedArray | classInt16Array
	case "Uint32Array":
		return classTypedArray | classUint32Array
	case "Int32Array":
		return classTypedArray | classInt32Array
	case "Float32Array":
		return classTypedArray | classFloat32Array
	case "Float64Array":
		return classTypedArray | classFloat64Array
	case "BigInt64Array":
		return classTypedArray | classBigInt64Array
	case "BigUint64Array":
		return classTypedArray | classBigUint64Array
	case "Module":
		return classModuleNamespace
	case "Number":
		return classNumberObject
	case "String":
		return classStringObject
	case "Symbol":
		return classSymbolObject
	case "BigInt":
		return classBigIntObject
	}
	return 0
}

// Type predicates. Each is a pure, side-effect-free boolean query on the
// value's runtime kind; a value may satisfy several at once.

// IsUndefined reports whether the value is undefined.
func (v *Value) IsUndefined() bool { return v.classes().has(classUndefined) }

// IsNull reports whether the value is null.
func (v *Value) IsNull() bool { return v.classes().has(classNull) }

// IsNullOrUndefined reports whether the value is either null or undefined.
func (v *Value) IsNullOrUndefined() bool {
	return v.classes().has(classNull | classUndefined)
}

// IsTrue reports whether the value is strictly true (not merely truthy).
func (v *Value) IsTrue() bool { return v.classes().has(classTrue) }

// IsFalse reports whether the value is strictly false (not merely falsy).
func (v *Value) IsFalse() bool { return v.classes().has(classFalse) }

// IsName reports whether the value is a string or a symbol.
func (v *Value) IsName() bool { return v.classes().has(classString | classSymbol) }

// IsString reports whether the value is a primitive string.
func (v *Value) IsString() bool { return v.classes().has(classString) }

// IsSymbol reports whether the value is a symbol.
func (v *Value) IsSymbol() bool { return v.classes().has(classSymbol) }

// IsFunction reports whether the value is callable.
func (v *Value) IsFunction() bool { return v.classes().has(classFunction) }

// IsObject reports whether the value is an object, functions included.
func (v *Value) IsObject() bool { return v.classes().has(classObject) }

// IsBigInt reports whether the value is a primitive BigInt.
func (v *Value) IsBigInt() bool { return v.classes().has(classBigInt) }

// IsBoolean reports whether the value is a primitive boolean.
func (v *Value) IsBoolean() bool { return v.classes().has(classBoolean) }

// IsNumber reports whether the value is a primitive number.
func (v *Value) IsNumber() bool { return v.classes().has(classNumber) }

// IsExternal reports whether the value is a host-wrapped external pointer.
// The engine has no external values, so this is always false.
func (v *Value) IsExternal() bool { return false }

// IsInt32 reports whether the value is a number with an exact 32-bit
// signed integer representation. Negative zero does not qualify.
func (v *Value) IsInt32() bool { return v.classes().has(classInt32) }

// IsUint32 reports whether the value is a number with an exact 32-bit
// unsigned integer representation.
func (v *Value) IsUint32() bool { return v.classes().has(classUint32) }

// IsDate reports whether the value is a Date object.
func (v *Value) IsDate() bool { return v.classes().has(classDate) }

// IsArgumentsObject reports whether the value is an arguments object.
func (v *Value) IsArgumentsObject() bool { return v.classes().has(classArguments) }

// IsBigIntObject reports whether the value is a boxed BigInt.
func (v *Value) IsBigIntObject() bool { return v.classes().has(classBigIntObject) }

// IsNumberObject reports whether the value is a boxed Number.
func (v *Value) IsNumberObject() bool { return v.classes().has(classNumberObject) }

// IsStringObject reports whether the value is a boxed String.
func (v *Value) IsStringObject() bool { return v.classes().has(classStringObject) }

// IsSymbolObject reports whether the value is a boxed Symbol.
func (v *Value) IsSymbolObject() bool { return v.classes().has(classSymbolObject) }

// IsNativeError reports whether the value is an Error instance, including
// Error subclasses.
func (v *Value) IsNativeError() bool { return v.classes().has(classNativeError) }

// IsRegExp reports whether the value is a regular expression object.
func (v *Value) IsRegExp() bool { return v.classes().has(classRegExp) }

// IsAsyncFunction reports whether the value is an async function.
func (v *Value) IsAsyncFunction() bool { return v.classes().has(classAsyncFunction) }

// IsGeneratorFunction reports whether the value is a generator function.
func (v *Value) IsGeneratorFunction() bool { return v.classes().has(classGeneratorFunction) }

// IsGeneratorObject reports whether the value is a generator instance.
func (v *Value) IsGeneratorObject() bool { return v.classes().has(classGeneratorObject) }

// IsPromise reports whether the value is a Promise.
func (v *Value) IsPromise() bool { return v.classes().has(classPromise) }

// IsMap reports whether the value is a Map.
func (v *Value) IsMap() bool { return v.classes().has(classMap) }

// IsSet reports whether the value is a Set.
func (v *Value) IsSet() bool { return v.classes().has(classSet_) }

// IsMapIterator reports whether the value is a Map iterator.
func (v *Value) IsMapIterator() bool { return v.classes().has(classMapIterator) }

// IsSetIterator reports whether the value is a Set iterator.
func (v *Value) IsSetIterator() bool { return v.classes().has(classSetIterator) }

// IsWeakMap reports whether the value is a WeakMap.
func (v *Value) IsWeakMap() bool { return v.classes().has(classWeakMap) }

// IsWeakSet reports whether the value is a WeakSet.
func (v *Value) IsWeakSet() bool { return v.classes().has(classWeakSet) }

// IsArray reports whether the value is an Array.
func (v *Value) IsArray() bool { return v.classes().has(classArray) }

// IsArrayBuffer reports whether the value is an ArrayBuffer.
func (v *Value) IsArrayBuffer() bool { return v.classes().has(classArrayBuffer) }

// IsArrayBufferView reports whether the value is a typed array or DataView.
func (v *Value) IsArrayBufferView() bool { return v.classes().has(classArrayBufferView) }

// IsTypedArray reports whether the value is a typed array of any element
// kind.
func (v *Value) IsTypedArray() bool { return v.classes().has(classTypedArray) }

// IsUint8Array reports whether the value is a Uint8Array.
func (v *Value) IsUint8Array() bool { return v.classes().has(classUint8Array) }

// IsUint8ClampedArray reports whether the value is a Uint8ClampedArray.
func (v *Value) IsUint8ClampedArray() bool { return v.classes().has(classUint8ClampedArray) }

// IsInt8Array reports whether the value is an Int8Array.
func (v *Value) IsInt8Array() bool { return v.classes().has(classInt8Array) }

// IsUint16Array reports whether the value is a Uint16Array.
func (v *Value) IsUint16Array() bool { return v.classes().has(classUint16Array) }

// IsInt16Array reports whether the value is an Int16Array.
func (v *Value) IsInt16Array() bool { return v.classes().has(classInt16Array) }

// IsUint32Array reports whether the value is a Uint32Array.
func (v *Value) IsUint32Array() bool { return v.classes().has(classUint32Array) }

// IsInt32Array reports whether the value is an Int32Array.
func (v *Value) IsInt32Array() bool { return v.classes().has(classInt32Array) }

// IsFloat32Array reports whether the value is a Float32Array.
func (v *Value) IsFloat32Array() bool { return v.classes().has(classFloat32Array) }

// IsFloat64Array reports whether the value is a Float64Array.
func (v *Value) IsFloat64Array() bool { return v.classes().has(classFloat64Array) }

// IsBigInt64Array reports whether the value is a BigInt64Array.
func (v *Value) IsBigInt64Array() bool { return v.classes().has(classBigInt64Array) }

// IsBigUint64Array reports whether the value is a BigUint64Array.
func (v *Value) IsBigUint64Array() bool { return v.classes().has(classBigUint64Array) }

// IsDataView reports whether the value is a DataView.
func (v *Value) IsDataView() bool { return v.classes().has(classDataView) }

// IsSharedArrayBuffer reports whether the value is a SharedArrayBuffer.
// The engine has no shared memory, so this is always false.
func (v *Value) IsSharedArrayBuffer() bool { return false }

// IsProxy reports whether the value is a Proxy.
func (v *Value) IsProxy() bool { return v.classes().has(classProxy) }

// IsWasmModuleObject reports whether the value is a WebAssembly module
// object. The engine has no WebAssembly support, so this is always false.
func (v *Value) IsWasmModuleObject() bool { return false }

// IsModuleNamespaceObject reports whether the value is a module namespace
// object.
func (v *Value) IsModuleNamespaceObject() bool { return v.classes().has(classModuleNamespace) }
