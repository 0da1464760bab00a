package main

import (
	stderrors "errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"

	"github.com/hostbridge/jsvm"
	"github.com/hostbridge/jsvm/errors"
)

// config is the optional TOML run profile. Globals are seeded onto the
// context's global object before the script runs.
type config struct {
	Origin  string         `toml:"origin"`
	Timeout duration       `toml:"timeout"`
	Globals map[string]any `toml:"globals"`
}

// duration decodes TOML strings like "250ms" or "2s".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func main() {
	var (
		srcFile     = flag.String("src", "", "Path to script file")
		expr        = flag.String("e", "", "Inline script to run")
		origin      = flag.String("origin", "", "Script origin used in diagnostics")
		timeout     = flag.Duration("timeout", 0, "Terminate the script after this duration")
		configFile  = flag.String("config", "", "Path to TOML run profile")
		verbose     = flag.Bool("v", false, "Verbose engine logging")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		jsvm.SetLogger(logger)
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *origin != "" {
		cfg.Origin = *origin
	}
	if *timeout > 0 {
		cfg.Timeout.Duration = *timeout
	}

	if *interactive {
		if err := runInteractive(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	source, srcOrigin, err := loadSource(*srcFile, *expr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Usage: jsrun -src <file.js> [-origin name] [-timeout 2s] [-config run.toml]")
		fmt.Fprintln(os.Stderr, "       jsrun -e '<script>'")
		fmt.Fprintln(os.Stderr, "       jsrun -i  (interactive mode)")
		os.Exit(1)
	}
	if cfg.Origin == "" {
		cfg.Origin = srcOrigin
	}

	if err := run(source, cfg); err != nil {
		printScriptError(err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config, error) {
	cfg := &config{}
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func loadSource(srcFile, expr string) (source, origin string, err error) {
	switch {
	case expr != "":
		return expr, "<eval>", nil
	case srcFile != "":
		data, err := os.ReadFile(srcFile)
		if err != nil {
			return "", "", fmt.Errorf("read script: %w", err)
		}
		return string(data), srcFile, nil
	}
	return "", "", fmt.Errorf("no script given")
}

func run(source string, cfg *config) error {
	env := jsvm.NewEnvironment()
	defer env.Dispose()

	tmpl, err := buildGlobals(env, cfg.Globals)
	if err != nil {
		return err
	}
	ctx := jsvm.NewContext(env, tmpl)
	defer ctx.Dispose()

	if cfg.Timeout.Duration > 0 {
		timer := time.AfterFunc(cfg.Timeout.Duration, env.TerminateExecution)
		defer timer.Stop()
	}

	v, err := ctx.RunScript(source, cfg.Origin)
	if err != nil {
		return err
	}

	fmt.Println(v.DetailString())

	stats := env.HeapStatistics()
	fmt.Printf("heap: %d used / %d total, contexts: %d\n",
		stats.UsedHeapSize, stats.TotalHeapSize, stats.NumberOfNativeContexts)
	return nil
}

// buildGlobals turns the config's globals map into a template. Nested
// tables become nested objects.
func buildGlobals(env *jsvm.Environment, globals map[string]any) (*jsvm.ObjectTemplate, error) {
	if len(globals) == 0 {
		return nil, nil
	}
	tmpl := jsvm.NewObjectTemplate(env)
	if err := fillTemplate(env, tmpl, globals); err != nil {
		return nil, err
	}
	return tmpl, nil
}

func fillTemplate(env *jsvm.Environment, tmpl *jsvm.ObjectTemplate, values map[string]any) error {
	for name, raw := range values {
		switch v := raw.(type) {
		case string:
			tmpl.SetValue(name, jsvm.NewValueString(env, v), jsvm.None)
		case bool:
			tmpl.SetValue(name, jsvm.NewValueBoolean(env, v), jsvm.None)
		case int64:
			tmpl.SetValue(name, jsvm.NewValueNumber(env, float64(v)), jsvm.None)
		case float64:
			tmpl.SetValue(name, jsvm.NewValueNumber(env, v), jsvm.None)
		case map[string]any:
			nested := jsvm.NewObjectTemplate(env)
			if err := fillTemplate(env, nested, v); err != nil {
				return err
			}
			tmpl.SetTemplate(name, nested, jsvm.None)
		default:
			return fmt.Errorf("global %q: unsupported type %T", name, raw)
		}
	}
	return nil
}

func printScriptError(err error) {
	var serr *errors.Error
	if !stderrors.As(err, &serr) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}

	fmt.Fprintf(os.Stderr, "Error: %s\n", serr.Message)
	if serr.HasLocation() {
		fmt.Fprintf(os.Stderr, "  at %s\n", *serr.Location)
	}
	if serr.HasStack() {
		fmt.Fprintln(os.Stderr, *serr.Stack)
	}
}
