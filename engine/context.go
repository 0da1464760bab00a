package engine

import (
	"sync"

	"github.com/dop251/goja"

	"github.com/hostbridge/jsvm/resource"
)

// Shared process-wide engine state: the compiled classifier program used by
// every Context. Compiled lazily exactly once and immutable afterwards;
// goja programs are safe to share across runtimes.
var (
	sharedOnce     sync.Once
	classifierProg *goja.Program
)

// classifierSrc evaluates to a function that tags a value's runtime kind.
// It runs inside the Context being classified, so instanceof and
// toStringTag checks see that Context's intrinsics.
//
// The engine reports a proxy's class as its target's, so proxies are
// tracked at construction instead: the Proxy constructor is wrapped to
// register every instance in a WeakSet before any script runs. Proxies are
// tagged from that set alone and get no further probing, which keeps
// classification from firing their traps.
const classifierSrc = `(function () {
	var proxies = null;
	if (typeof Proxy === "function" && typeof WeakSet === "function") {
		proxies = new WeakSet();
		var NativeProxy = Proxy;
		Proxy = function (target, handler) {
			var p = new NativeProxy(target, handler);
			proxies.add(p);
			return p;
		};
		Proxy.revocable = function (target, handler) {
			var r = NativeProxy.revocable(target, handler);
			proxies.add(r.proxy);
			return r;
		};
	}
	return function (v) {
		if (proxies !== null && proxies.has(v)) { return "proxy"; }
		var tags = [];
		tags.push("class:" + Object.prototype.toString.call(v).slice(8, -1));
		if (typeof v === "function") { tags.push("function"); }
		if (Array.isArray(v)) { tags.push("array"); }
		if (v instanceof Error) { tags.push("error"); }
		if (typeof ArrayBuffer === "function" && ArrayBuffer.isView(v)) { tags.push("view"); }
		if (typeof Promise === "function" && v instanceof Promise) { tags.push("promise"); }
		return tags.join(",");
	};
})()`

func initShared() {
	sharedOnce.Do(func() {
		classifierProg = goja.MustCompile("jsvm:classifier", classifierSrc, false)
		debugf("shared engine state initialized")
	})
}

// Context pairs a fresh global scope and global object with the owning
// Environment. It is the unit script runs inside; values produced by
// running script keep a back-reference to their Context because some
// inspections and coercions need its intrinsics.
type Context struct {
	env      *Environment
	vm       *goja.Runtime
	classify goja.Callable
	handle   resource.Handle
}

// NewContext creates a Context inside env. If tmpl is non-nil the global
// object is instantiated from it, recursively for nested templates;
// otherwise the global object starts empty. Stack traces for uncaught
// exceptions are always captured.
func NewContext(env *Environment, tmpl *ObjectTemplate) *Context {
	s := env.enter()
	defer s.exit()

	vm := goja.New()

	if tmpl != nil {
		if err := tmpl.instantiate(vm, vm.GlobalObject()); err != nil {
			// Template slots are host-validated; a define can only fail on
			// an engine-level invariant breach, which is not recoverable.
			panic(err)
		}
	}

	fn, err := vm.RunProgram(classifierProg)
	if err != nil {
		panic(err)
	}
	classify, ok := goja.AssertFunction(fn)
	if !ok {
		panic("classifier program did not evaluate to a function")
	}

	ctx := &Context{
		env:      env,
		vm:       vm,
		classify: classify,
	}
	ctx.handle = env.table.Insert(resource.TypeContext, ctx)
	debugf("context created")
	return ctx
}

// Dispose releases the Context's scope. It does not release the owning
// Environment. Nil-safe and idempotent.
func (c *Context) Dispose() {
	if c == nil {
		return
	}
	s := c.env.enter()
	defer s.exit()
	if c.handle != 0 {
		c.env.table.Remove(c.handle)
		c.handle = 0
	}
}

// Drop implements resource.Dropper; the table invokes it when the Context
// is removed, directly or via Environment disposal.
func (c *Context) Drop() {
	c.vm = nil
	c.classify = nil
	c.env.detachedContexts.Add(1)
	debugf("context dropped")
}

// Environment returns the owning Environment.
func (c *Context) Environment() *Environment {
	return c.env
}
