package engine

import (
	stderrors "errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/dop251/goja"
	"github.com/dop251/goja/parser"

	"github.com/hostbridge/jsvm/errors"
	"github.com/hostbridge/jsvm/resource"
)

// errTerminated is the interrupt payload installed by TerminateExecution.
var errTerminated = stderrors.New(errors.TerminatedMessage)

// RunScript compiles source tagged with origin against this Context and
// runs it to completion, to the first uncaught exception, or to a
// termination request. Exactly one of the results is non-nil: a Value bound
// to this Context on success, or a structured *errors.Error on failure.
//
// Top-level declarations mutate the Context's global object; that is script
// semantics, not a defect. origin is used only for diagnostics (locations
// and stack traces).
func (c *Context) RunScript(source, origin string) (*Value, error) {
	s := c.env.enter()
	defer s.exit()

	prog, cerr := compile(source, origin)
	if cerr != nil {
		debugf("compile failed: %v", cerr)
		return nil, cerr
	}

	// Publish the running runtime so TerminateExecution can reach it from
	// other goroutines. The interrupt flag is cleared on both sides of the
	// run: a termination request that raced the end of a previous run must
	// not poison this one.
	c.vm.ClearInterrupt()
	c.env.running.Store(c.vm)
	defer func() {
		c.env.running.Store(nil)
		c.vm.ClearInterrupt()
	}()

	res, err := c.vm.RunProgram(prog)
	if err != nil {
		return nil, buildError(err)
	}

	v := &Value{env: c.env, ctx: c, v: res}
	v.handle = c.env.table.Insert(resource.TypeValue, v)
	return v, nil
}

// compile parses and compiles source. Parse failures carry the structured
// position the parser reports; they are the common syntax-error path.
func compile(source, origin string) (*goja.Program, *errors.Error) {
	ast, err := parser.ParseFile(nil, origin, source, 0)
	if err != nil {
		msg := err.Error()
		loc := ""
		var list parser.ErrorList
		if stderrors.As(err, &list) && len(list) > 0 {
			first := list[0]
			msg = "SyntaxError: " + first.Message
			loc = errors.FormatLocation(first.Position.Filename, first.Position.Line, first.Position.Column)
		}
		return nil, errors.Compile(msg, loc)
	}

	prog, err := goja.CompileAST(ast, false)
	if err != nil {
		// Rare: the parser accepted the source but code generation did
		// not. The compiler embeds any position in its message.
		return nil, errors.Compile(err.Error(), "")
	}
	return prog, nil
}

// stackLocRe extracts the first source position from a formatted stack
// trace, e.g. "at fn (main.js:3:9(2))" or "at main.js:1:1(1)".
var stackLocRe = regexp.MustCompile(`at (?:[^(\n]*\()?([^\s():]+):(\d+):(\d+)`)

// buildError converts an engine-level execution failure into a structured
// error record. Termination is reported distinctly from a thrown value.
func buildError(err error) *errors.Error {
	var interrupted *goja.InterruptedError
	if stderrors.As(err, &interrupted) {
		return errors.Terminated()
	}

	var exc *goja.Exception
	if stderrors.As(err, &exc) {
		b := errors.New(errors.KindRuntime).Message(valueMessage(exc.Value()))
		// String() renders the thrown value followed by the captured
		// stack; everything after the first line is the trace.
		full := exc.String()
		if loc := stackLocRe.FindStringSubmatch(full); loc != nil {
			line, _ := strconv.Atoi(loc[2])
			col, _ := strconv.Atoi(loc[3])
			b.Location(errors.FormatLocation(loc[1], line, col))
		}
		if strings.ContainsRune(full, '\n') {
			b.Stack(full)
		}
		return b.Cause(err).Build()
	}

	return errors.New(errors.KindRuntime).Message(err.Error()).Cause(err).Build()
}

// valueMessage stringifies a thrown value the way the engine reports an
// uncaught exception: Error objects render as "Name: message".
func valueMessage(v goja.Value) string {
	if v == nil {
		return "uncaught exception"
	}
	return v.String()
}

