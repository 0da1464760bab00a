// Package resource tracks the live engine objects owned by one Environment.
//
// Every long-lived handle the boundary hands out - contexts, object
// templates, values - is registered in the owning Environment's Table and
// removed on disposal. The table is what lets an Environment release
// everything it still owns when it is disposed, and what backs the live
// object counts reported by heap statistics.
//
// # Handle Table
//
// The Table maps opaque handles to Go values:
//
//	table := resource.NewTable()
//
//	// Register an object, get a handle
//	handle := table.Insert(resource.TypeValue, v)
//
//	// Type-checked retrieval
//	v, ok := table.GetTyped(handle, resource.TypeValue)
//
//	// Remove on disposal
//	table.Remove(handle)
//
// # Cleanup
//
// Values that need teardown beyond removal implement Dropper; Remove, Clear
// and Close invoke Drop exactly once per entry.
//
// # Observers
//
// Observers receive lifecycle events, which tests use to assert that nothing
// leaks across a dispose:
//
//	table.Subscribe(obs) // obs.OnResourceEvent(Event{...})
//
// Tracking is bookkeeping only: removing an entry does not make stale copies
// of the handle safe to use. Using any object after its Environment is
// disposed remains undefined behavior, matching the engine's own contract.
package resource
