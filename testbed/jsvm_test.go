// Package testbed holds end-to-end tests exercising the public API the way
// an embedding application would.
package testbed

import (
	stderrors "errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hostbridge/jsvm"
	"github.com/hostbridge/jsvm/errors"
)

func TestEndToEnd_TemplatedPipeline(t *testing.T) {
	env := jsvm.NewEnvironment()
	defer env.Dispose()

	host := jsvm.NewObjectTemplate(env)
	host.SetValue("region", jsvm.NewValueString(env, "eu-west-1"), jsvm.ReadOnly)
	host.SetValue("shards", jsvm.NewValueInteger(env, 4), jsvm.ReadOnly)
	global := jsvm.NewObjectTemplate(env)
	global.SetTemplate("host", host, jsvm.DontEnum)

	ctx := jsvm.NewContext(env, global)
	defer ctx.Dispose()

	v, err := ctx.RunScript(`host.region + ":" + host.shards * 2`, "pipeline.js")
	if err != nil {
		t.Fatalf("RunScript failed: %v", err)
	}
	if got := v.String(); got != "eu-west-1:8" {
		t.Errorf("result = %q, want eu-west-1:8", got)
	}

	// Seeded globals are frozen against script writes.
	v, err = ctx.RunScript(`host.region = "tampered"; host.region`, "pipeline.js")
	if err != nil {
		t.Fatalf("RunScript failed: %v", err)
	}
	if got := v.String(); got != "eu-west-1" {
		t.Errorf("read-only slot mutated to %q", got)
	}
}

func TestEndToEnd_ErrorTaxonomy(t *testing.T) {
	env := jsvm.NewEnvironment()
	defer env.Dispose()
	ctx := jsvm.NewContext(env, nil)
	defer ctx.Dispose()

	tests := []struct {
		src      string
		kind     errors.Kind
		location bool
		name     string
	}{
		{"function (", errors.KindCompile, true, "syntax error"},
		{"undefinedCall()", errors.KindRuntime, true, "reference error"},
		{"null.prop", errors.KindRuntime, true, "type error"},
		{"throw { code: 7 }", errors.KindRuntime, true, "thrown object"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ctx.RunScript(tc.src, "taxonomy.js")
			var serr *errors.Error
			if !stderrors.As(err, &serr) {
				t.Fatalf("expected *errors.Error, got %T", err)
			}
			if serr.Kind != tc.kind {
				t.Errorf("kind = %v, want %v", serr.Kind, tc.kind)
			}
			if tc.location && !serr.HasLocation() {
				t.Error("expected a source location")
			}
		})
	}

	// The context keeps working after every failure.
	v, err := ctx.RunScript("'ok'", "taxonomy.js")
	if err != nil {
		t.Fatalf("context unusable after failures: %v", err)
	}
	if got := v.String(); got != "ok" {
		t.Errorf("result = %q, want ok", got)
	}
}

func TestEndToEnd_TerminationBoundedTime(t *testing.T) {
	env := jsvm.NewEnvironment()
	defer env.Dispose()
	ctx := jsvm.NewContext(env, nil)
	defer ctx.Dispose()

	start := time.Now()
	timer := time.AfterFunc(100*time.Millisecond, env.TerminateExecution)
	defer timer.Stop()

	_, err := ctx.RunScript("for (;;) {}", "spin.js")
	elapsed := time.Since(start)

	if !errors.IsTerminated(err) {
		t.Fatalf("expected termination, got %v", err)
	}
	if elapsed > 3*time.Second {
		t.Errorf("termination took %v, want well under 3s", elapsed)
	}

	// The environment survives and runs the next script normally.
	v, err := ctx.RunScript("2 ** 10", "spin.js")
	if err != nil {
		t.Fatalf("RunScript after termination failed: %v", err)
	}
	if got := v.Number(); got != 1024 {
		t.Errorf("result = %v, want 1024", got)
	}
}

func TestEndToEnd_ParallelEnvironments(t *testing.T) {
	const n = 8

	var wg sync.WaitGroup
	results := make([]string, n)
	failures := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			env := jsvm.NewEnvironment()
			defer env.Dispose()
			ctx := jsvm.NewContext(env, nil)
			defer ctx.Dispose()

			src := fmt.Sprintf("var id = %d; 'env-' + id", i)
			v, err := ctx.RunScript(src, "parallel.js")
			if err != nil {
				failures[i] = err
				return
			}
			results[i] = v.String()
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		if failures[i] != nil {
			t.Fatalf("environment %d failed: %v", i, failures[i])
		}
		if want := fmt.Sprintf("env-%d", i); results[i] != want {
			t.Errorf("environment %d = %q, want %q", i, results[i], want)
		}
	}
}

func TestEndToEnd_ValueInspection(t *testing.T) {
	env := jsvm.NewEnvironment()
	defer env.Dispose()
	ctx := jsvm.NewContext(env, nil)
	defer ctx.Dispose()

	v, err := ctx.RunScript(`({
	label: "report",
	total: 1234.5,
	tags: ["a", "b"],
	at: new Date(0)
})`, "inspect.js")
	if err != nil {
		t.Fatalf("RunScript failed: %v", err)
	}
	if !v.IsObject() || v.IsArray() {
		t.Error("expected a plain object")
	}

	fields, err := ctx.RunScript("JSON.stringify(Object.keys({label: 1, total: 2}))", "inspect.js")
	if err != nil {
		t.Fatalf("RunScript failed: %v", err)
	}
	if got := fields.String(); !strings.Contains(got, "label") {
		t.Errorf("keys = %q, want label present", got)
	}
}

func TestEndToEnd_BigIntRoundTrip(t *testing.T) {
	env := jsvm.NewEnvironment()
	defer env.Dispose()
	ctx := jsvm.NewContext(env, nil)
	defer ctx.Dispose()

	words := []uint64{0xdeadbeef, 0x1}
	in := jsvm.NewValueBigIntFromWords(env, 1, words)

	tmpl := jsvm.NewObjectTemplate(env)
	tmpl.SetValue("big", in, jsvm.None)
	ctx2 := jsvm.NewContext(env, tmpl)
	defer ctx2.Dispose()

	v, err := ctx2.RunScript("big * -1n", "bigint.js")
	if err != nil {
		t.Fatalf("RunScript failed: %v", err)
	}
	sign, out := v.BigInt()
	if sign != 0 {
		t.Errorf("sign = %d, want 0 after negation", sign)
	}
	if len(out) != 2 || out[0] != words[0] || out[1] != words[1] {
		t.Errorf("words = %v, want %v", out, words)
	}
}

func TestEndToEnd_HeapAccounting(t *testing.T) {
	env := jsvm.NewEnvironment()
	defer env.Dispose()

	var ctxs []*jsvm.Context
	for i := 0; i < 3; i++ {
		ctxs = append(ctxs, jsvm.NewContext(env, nil))
	}

	stats := env.HeapStatistics()
	if got := stats.NumberOfNativeContexts; got != 3 {
		t.Errorf("NumberOfNativeContexts = %d, want 3", got)
	}

	for _, c := range ctxs {
		c.Dispose()
	}
	stats = env.HeapStatistics()
	if got := stats.NumberOfDetachedContexts; got != 3 {
		t.Errorf("NumberOfDetachedContexts = %d, want 3", got)
	}
	if got := stats.NumberOfNativeContexts; got != 0 {
		t.Errorf("NumberOfNativeContexts = %d, want 0", got)
	}
}
