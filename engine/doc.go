// Package engine implements the host boundary around the embedded goja
// JavaScript engine: isolated execution Environments, script Contexts,
// object templates for seeding a Context's global object, and persistent
// Value handles with type inspection and host-native conversions.
//
// # Lifetime model
//
// Everything lives inside exactly one Environment. An Environment owns its
// Contexts, templates and Values; disposing it releases all of them. The
// host holds long-lived opaque handles (*Context, *Value, ...) while the
// engine's own references stay garbage-collected; the resource table keeps
// each handle's object reachable until the handle is disposed.
//
// Dispose order follows ownership: Values and Contexts before their
// Environment. Disposal operations are nil-safe and idempotent, but using
// any object after its Environment is disposed is undefined behavior - the
// boundary does not (and cannot cheaply) detect it, matching the engine
// contract.
//
// # Serialization
//
// One goroutine at a time may be inside a given Environment; every operation
// acquires the Environment's lock for its duration. Distinct Environments
// are fully independent and run in parallel. The single cross-goroutine
// operation is TerminateExecution, which interrupts an in-flight RunScript
// at its next safe point.
package engine
