// Command prism loads a JSON module, runs the sanitizer pipeline of one or
// more shading-language backends over it and prints or writes the results.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/orizon-lang/prism/internal/cli"
	"github.com/orizon-lang/prism/internal/sanitizer"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: prism [flags] module.json\n\nFlags:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nEnvironment:\n")
	fmt.Fprintf(os.Stderr, "  %-22s bound on concurrent backend runs\n", cli.EnvMaxConcurrency)
	fmt.Fprintf(os.Stderr, "  %-22s enable info logging\n", cli.EnvVerbose)
	fmt.Fprintf(os.Stderr, "  %-22s enable debug logging\n", cli.EnvDebug)
	fmt.Fprintf(os.Stderr, "  %-22s auto, always or never\n", cli.EnvColor)
}

func main() {
	var (
		backendList = flag.String("backend", "glsl", "comma-separated backends: glsl, hlsl, msl, spirv")
		configPath  = flag.String("config", "", "JSON sanitizer options file")
		outDir      = flag.String("o", "", "write sanitized modules as JSON into this directory")
		dump        = flag.Bool("dump", false, "print sanitized modules as text")
		diff        = flag.Bool("diff", false, "print a unified diff between the input and each sanitized module")
		watch       = flag.Bool("watch", false, "re-run when the module or options file changes")
		seed        = flag.Int64("seed", -1, "shuffle module declarations with this seed before sanitizing")
		showVersion = flag.Bool("version", false, "print version information")
		jsonOutput  = flag.Bool("json", false, "print version information as JSON")
		verbose     = flag.Bool("v", false, "verbose logging")
		debug       = flag.Bool("debug", false, "debug logging")
	)
	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		if err := cli.PrintVersion(os.Stdout, "prism", *jsonOutput); err != nil {
			cli.ExitWithError("%v", err)
		}
		return
	}

	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}

	environment, err := cli.LoadEnvironment()
	if err != nil {
		cli.ExitWithError("%v", err)
	}

	backends, err := sanitizer.ParseBackends(*backendList)
	if err != nil {
		cli.ExitWithError("%v", err)
	}

	logger := cli.NewLogger(*verbose || environment.Verbose, *debug || environment.Debug)

	r := &runner{
		input:       flag.Arg(0),
		configPath:  *configPath,
		outDir:      *outDir,
		backends:    backends,
		dump:        *dump,
		diff:        *diff,
		seed:        *seed,
		concurrency: environment.MaxConcurrency,
		color:       useColor(environment.Color, os.Stderr),
		logger:      logger,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *watch {
		err = watchAndRun(ctx, r)
	} else {
		err = r.run(ctx)
	}

	if err != nil && ctx.Err() == nil {
		logger.Error("%v", err)
		stop()
		os.Exit(1)
	}
}

func useColor(mode cli.ColorMode, f *os.File) bool {
	switch mode {
	case cli.ColorAlways:
		return true
	case cli.ColorNever:
		return false
	}
	return isTerminal(f.Fd())
}
