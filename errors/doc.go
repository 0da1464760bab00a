// Package errors provides the structured error records produced by script
// execution.
//
// Every failure surfaced by the engine boundary is one of three kinds:
//
//	KindCompile    - the source text failed to parse or compile
//	KindRuntime    - an uncaught value was thrown during execution
//	KindTerminated - execution was aborted via Environment.TerminateExecution
//
// An Error carries a message plus two independently optional strings: the
// source location of the failure and the formatted stack trace. Absence is
// represented as a nil pointer, never as an empty string, so callers can
// distinguish "no stack trace available" from "empty stack trace".
//
// Use the convenience constructors for the common cases:
//
//	err := errors.Compile("SyntaxError: Unexpected token", loc)
//	err := errors.Terminated()
//
// or the Builder for full control:
//
//	err := errors.New(errors.KindRuntime).
//		Message("ReferenceError: x is not defined").
//		Location("main.js:3:9").
//		Stack(trace).
//		Build()
//
// All errors implement the standard error interface and support errors.Is.
package errors
