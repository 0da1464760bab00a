package engine

import "testing"

func TestPredicates_Primitives(t *testing.T) {
	_, ctx := newTestContext(t)

	tests := []struct {
		src   string
		check func(v *Value) bool
		name  string
	}{
		{"undefined", (*Value).IsUndefined, "undefined"},
		{"null", (*Value).IsNull, "null"},
		{"undefined", (*Value).IsNullOrUndefined, "undefined is null-or-undefined"},
		{"null", (*Value).IsNullOrUndefined, "null is null-or-undefined"},
		{"true", (*Value).IsTrue, "true"},
		{"false", (*Value).IsFalse, "false"},
		{"true", (*Value).IsBoolean, "true is boolean"},
		{"false", (*Value).IsBoolean, "false is boolean"},
		{"'hi'", (*Value).IsString, "string"},
		{"'hi'", (*Value).IsName, "string is name"},
		{"Symbol('s')", (*Value).IsSymbol, "symbol"},
		{"Symbol('s')", (*Value).IsName, "symbol is name"},
		{"3.14", (*Value).IsNumber, "number"},
		{"42", (*Value).IsInt32, "int32"},
		{"42", (*Value).IsUint32, "uint32"},
		{"-1", (*Value).IsInt32, "negative int32"},
		{"10n", (*Value).IsBigInt, "bigint"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if v := run(t, ctx, tc.src); !tc.check(v) {
				t.Errorf("predicate false for %q", tc.src)
			}
		})
	}
}

func TestPredicates_Objects(t *testing.T) {
	_, ctx := newTestContext(t)

	tests := []struct {
		src   string
		check func(v *Value) bool
		name  string
	}{
		{"({})", (*Value).IsObject, "plain object"},
		{"(function () {})", (*Value).IsFunction, "function"},
		{"(function () {})", (*Value).IsObject, "function is object"},
		{"[1, 2]", (*Value).IsArray, "array"},
		{"new Date()", (*Value).IsDate, "date"},
		{"/ab+c/", (*Value).IsRegExp, "regexp"},
		{"new Error('x')", (*Value).IsNativeError, "error"},
		{"new TypeError('x')", (*Value).IsNativeError, "error subclass"},
		{"new Map()", (*Value).IsMap, "map"},
		{"new Set()", (*Value).IsSet, "set"},
		{"new Map().entries()", (*Value).IsMapIterator, "map iterator"},
		{"new Set().values()", (*Value).IsSetIterator, "set iterator"},
		{"new WeakMap()", (*Value).IsWeakMap, "weakmap"},
		{"new WeakSet()", (*Value).IsWeakSet, "weakset"},
		{"Promise.resolve(1)", (*Value).IsPromise, "promise"},
		{"new Proxy({}, {})", (*Value).IsProxy, "proxy"},
		{"(function* () {})", (*Value).IsGeneratorFunction, "generator function"},
		{"(function* () {})()", (*Value).IsGeneratorObject, "generator object"},
		{"(async function () {})", (*Value).IsAsyncFunction, "async function"},
		{"(function () { return arguments; })()", (*Value).IsArgumentsObject, "arguments"},
		{"new Number(1)", (*Value).IsNumberObject, "boxed number"},
		{"new String('x')", (*Value).IsStringObject, "boxed string"},
		{"Object(Symbol('s'))", (*Value).IsSymbolObject, "boxed symbol"},
		{"Object(1n)", (*Value).IsBigIntObject, "boxed bigint"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if v := run(t, ctx, tc.src); !tc.check(v) {
				t.Errorf("predicate false for %q", tc.src)
			}
		})
	}
}

func TestPredicates_Buffers(t *testing.T) {
	_, ctx := newTestContext(t)

	tests := []struct {
		src   string
		check func(v *Value) bool
		name  string
	}{
		{"new ArrayBuffer(8)", (*Value).IsArrayBuffer, "array buffer"},
		{"new DataView(new ArrayBuffer(8))", (*Value).IsDataView, "data view"},
		{"new DataView(new ArrayBuffer(8))", (*Value).IsArrayBufferView, "data view is view"},
		{"new Uint8Array(4)", (*Value).IsUint8Array, "uint8"},
		{"new Uint8Array(4)", (*Value).IsTypedArray, "uint8 is typed array"},
		{"new Uint8Array(4)", (*Value).IsArrayBufferView, "uint8 is view"},
		{"new Uint8ClampedArray(4)", (*Value).IsUint8ClampedArray, "uint8 clamped"},
		{"new Int8Array(4)", (*Value).IsInt8Array, "int8"},
		{"new Uint16Array(4)", (*Value).IsUint16Array, "uint16"},
		{"new Int16Array(4)", (*Value).IsInt16Array, "int16"},
		{"new Uint32Array(4)", (*Value).IsUint32Array, "uint32"},
		{"new Int32Array(4)", (*Value).IsInt32Array, "int32"},
		{"new Float32Array(4)", (*Value).IsFloat32Array, "float32"},
		{"new Float64Array(4)", (*Value).IsFloat64Array, "float64"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if v := run(t, ctx, tc.src); !tc.check(v) {
				t.Errorf("predicate false for %q", tc.src)
			}
		})
	}
}

func TestPredicates_Proxy(t *testing.T) {
	_, ctx := newTestContext(t)

	v := run(t, ctx, "new Proxy({}, {})")
	if !v.IsProxy() {
		t.Error("IsProxy false for a direct proxy")
	}
	if !v.IsObject() {
		t.Error("a proxy is still an object")
	}

	if v := run(t, ctx, "Proxy.revocable({}, {}).proxy"); !v.IsProxy() {
		t.Error("IsProxy false for a revocable proxy")
	}

	// A proxy over an array keeps reporting as a proxy, not as its target,
	// and classification must not invoke the handler's traps.
	v = run(t, ctx, `(function () {
	var trapped = false;
	var p = new Proxy([], { getPrototypeOf: function (t) { trapped = true; return Object.getPrototypeOf(t); } });
	this.wasTrapped = function () { return trapped; };
	return p;
})()`)
	if !v.IsProxy() || v.IsArray() {
		t.Error("proxy over an array should classify as proxy only")
	}
	if run(t, ctx, "wasTrapped()").Boolean() {
		t.Error("classification fired a proxy trap")
	}
}

func TestPredicates_StaleInterruptDoesNotDegrade(t *testing.T) {
	_, ctx := newTestContext(t)

	v := run(t, ctx, "[1, 2, 3]")

	// A termination request that lands after a run has finished leaves an
	// interrupt pending on the runtime; classification must shed it.
	ctx.vm.Interrupt(errTerminated)

	if !v.IsArray() {
		t.Error("IsArray false under a stale interrupt")
	}
}

func TestPredicates_Negative(t *testing.T) {
	_, ctx := newTestContext(t)

	v := run(t, ctx, "({})")
	for name, p := range map[string]func(*Value) bool{
		"IsArray":     (*Value).IsArray,
		"IsFunction":  (*Value).IsFunction,
		"IsNumber":    (*Value).IsNumber,
		"IsString":    (*Value).IsString,
		"IsPromise":   (*Value).IsPromise,
		"IsProxy":     (*Value).IsProxy,
		"IsUndefined": (*Value).IsUndefined,
	} {
		if p(v) {
			t.Errorf("%s true for a plain object", name)
		}
	}
}

func TestPredicates_Int32Edges(t *testing.T) {
	_, ctx := newTestContext(t)

	tests := []struct {
		src            string
		int32, uint32_ bool
	}{
		{"2147483647", true, true},
		{"2147483648", false, true},
		{"-2147483648", true, false},
		{"-2147483649", false, false},
		{"4294967295", false, true},
		{"4294967296", false, false},
		{"1.5", false, false},
		{"-0", false, false},
		{"NaN", false, false},
		{"Infinity", false, false},
	}
	for _, tc := range tests {
		t.Run(tc.src, func(t *testing.T) {
			v := run(t, ctx, tc.src)
			if got := v.IsInt32(); got != tc.int32 {
				t.Errorf("IsInt32(%s) = %v, want %v", tc.src, got, tc.int32)
			}
			if got := v.IsUint32(); got != tc.uint32_ {
				t.Errorf("IsUint32(%s) = %v, want %v", tc.src, got, tc.uint32_)
			}
		})
	}
}

func TestPredicates_AlwaysFalseKinds(t *testing.T) {
	_, ctx := newTestContext(t)

	v := run(t, ctx, "({})")
	if v.IsExternal() {
		t.Error("IsExternal should always be false")
	}
	if v.IsSharedArrayBuffer() {
		t.Error("IsSharedArrayBuffer should always be false")
	}
	if v.IsWasmModuleObject() {
		t.Error("IsWasmModuleObject should always be false")
	}
}

func TestPredicates_HostConstructedPrimitives(t *testing.T) {
	env := NewEnvironment()
	defer env.Dispose()

	if v := NewValueString(env, "x"); !v.IsString() {
		t.Error("host string should satisfy IsString")
	}
	if v := NewValueBoolean(env, true); !v.IsTrue() {
		t.Error("host true should satisfy IsTrue")
	}
	if v := NewValueNumber(env, 1.5); !v.IsNumber() || v.IsInt32() {
		t.Error("host 1.5 should be a non-int32 number")
	}
	if v := NewValueInteger(env, -3); !v.IsInt32() {
		t.Error("host -3 should satisfy IsInt32")
	}
	if v := NewValueBigInt(env, 9); !v.IsBigInt() {
		t.Error("host bigint should satisfy IsBigInt")
	}
}
