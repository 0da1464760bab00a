package engine

import (
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/dop251/goja"

	"github.com/hostbridge/jsvm/resource"
)

// Environment is an isolated execution arena: the unit of parallelism and
// of memory ownership. All Contexts, templates and Values created from an
// Environment belong to it and become invalid when it is disposed.
type Environment struct {
	// base is the arena runtime used to build host-constructed primitives.
	// Primitive values are runtime-independent in goja, so values built
	// here are usable in every Context of this Environment.
	base *goja.Runtime

	table *resource.Table

	// running points at the runtime currently executing script, if any.
	// It is the only state touched from outside the Environment lock:
	// TerminateExecution reads it from arbitrary goroutines.
	running atomic.Pointer[goja.Runtime]

	detachedContexts atomic.Uint64

	mu       sync.Mutex
	disposed bool
}

// scope is the guard acquired before touching engine state. Construction
// locks the owning Environment; exit releases it. Operations hold a scope
// for their full duration, released via defer on every exit path.
type scope struct {
	env *Environment
}

func (e *Environment) enter() *scope {
	e.mu.Lock()
	return &scope{env: e}
}

func (s *scope) exit() {
	s.env.mu.Unlock()
}

// NewEnvironment creates a new isolated Environment with its own heap
// arena. Shared process-wide engine state is initialized lazily on first
// use. Creation never fails; allocation failure inside the engine is fatal,
// matching the engine's own out-of-memory policy.
func NewEnvironment() *Environment {
	initShared()

	env := &Environment{
		base:  goja.New(),
		table: resource.NewTable(),
	}
	debugf("environment created")
	return env
}

// Dispose releases the Environment and everything it still owns. Safe to
// call on a nil Environment and safe to call more than once. After Dispose
// every Context, template and Value created from this Environment is
// invalid and must not be used.
func (e *Environment) Dispose() {
	if e == nil {
		return
	}
	e.mu.Lock()
	if e.disposed {
		e.mu.Unlock()
		return
	}
	e.disposed = true
	e.mu.Unlock()

	// Close drops every tracked object; Contexts release their runtimes
	// through their Drop hooks.
	_ = e.table.Close()
	e.base = nil
	debugf("environment disposed")
}

// TerminateExecution requests that script currently running inside this
// Environment stop at its next safe point. It is the one operation that is
// safe to call from a goroutine other than the one inside the Environment,
// and the only one that does not take the Environment lock (the running
// script holds it). No-op when nothing is executing.
func (e *Environment) TerminateExecution() {
	if e == nil {
		return
	}
	if vm := e.running.Load(); vm != nil {
		vm.Interrupt(errTerminated)
	}
}

// HeapStatistics is a snapshot of the memory state of an Environment's
// arena. Field layout follows the engine's heap statistics record.
type HeapStatistics struct {
	TotalHeapSize            uint64
	TotalHeapSizeExecutable  uint64
	TotalPhysicalSize        uint64
	TotalAvailableSize       uint64
	UsedHeapSize             uint64
	HeapSizeLimit            uint64
	MallocedMemory           uint64
	ExternalMemory           uint64
	PeakMallocedMemory       uint64
	NumberOfNativeContexts   uint64
	NumberOfDetachedContexts uint64
}

// HeapStatistics returns a read-only snapshot of heap sizes and live object
// counts. The engine allocates from the shared Go heap, so the size fields
// describe that heap; the context counts are per-Environment. Returns a
// zeroed record for a nil Environment.
func (e *Environment) HeapStatistics() HeapStatistics {
	if e == nil {
		return HeapStatistics{}
	}
	s := e.enter()
	defer s.exit()

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	return HeapStatistics{
		TotalHeapSize:            ms.HeapSys,
		TotalHeapSizeExecutable:  0,
		TotalPhysicalSize:        ms.Sys,
		TotalAvailableSize:       ms.HeapIdle,
		UsedHeapSize:             ms.HeapAlloc,
		HeapSizeLimit:            uint64(debug.SetMemoryLimit(-1)),
		MallocedMemory:           ms.HeapInuse,
		ExternalMemory:           ms.Sys - ms.HeapSys,
		PeakMallocedMemory:       ms.Sys,
		NumberOfNativeContexts:   uint64(e.table.LenTyped(resource.TypeContext)),
		NumberOfDetachedContexts: e.detachedContexts.Load(),
	}
}
