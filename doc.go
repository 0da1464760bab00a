// Package jsvm embeds a JavaScript engine behind a crash-resistant host
// boundary: scripts run to a value or to a structured error, never to a
// host crash.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	jsvm/            Root package with the public API surface
//	├── engine/      Environments, contexts, values and the run pipeline
//	├── errors/      Structured execution error types
//	├── resource/    Resource handle table implementation
//	└── cmd/jsrun/   Script runner and interactive shell
//
// # Quick Start
//
// Run a script and inspect the result:
//
//	env := jsvm.NewEnvironment()
//	defer env.Dispose()
//
//	ctx := jsvm.NewContext(env, nil)
//	defer ctx.Dispose()
//
//	v, err := ctx.RunScript("6 * 7", "example.js")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(v.Number()) // 42
//
// # Lifetime Model
//
// An Environment is an isolated arena and the unit of parallelism: two
// Environments never share state and may be used from different goroutines
// freely. Within one Environment all operations are serialized. Contexts,
// templates and values belong to the Environment that created them and are
// released with it; TerminateExecution is the one call that is safe to
// make from another goroutine while a script is running.
//
// # Errors
//
// Script failures come back as *errors.Error records carrying the failure
// kind (compile, runtime, terminated), the message, and when the engine
// can provide them, a source location and a stack trace.
package jsvm
