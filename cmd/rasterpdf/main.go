package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/automaxprocs/maxprocs"

	rasterpdf "github.com/alnah/go-rasterpdf"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the CLI and returns the process exit code.
func run(args []string) int {
	flags, positional, err := parseExportFlags(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitUsage
	}

	if flags.version {
		fmt.Println("rasterpdf", Version)
		return ExitSuccess
	}

	// Configure GOMAXPROCS with conditional logging.
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if flags.common.verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, fmtArgs ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", fmtArgs...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	env := DefaultEnv()

	cfg, err := loadCLIConfig(flags.common.config)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error()+hintFor(err))
		return exitCodeFor(err)
	}
	env.Config = cfg

	opts, err := buildExporterOptions(flags, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error()+hintFor(err))
		return exitCodeFor(err)
	}

	poolSize := rasterpdf.ResolvePoolSize(flags.workers)
	if flags.common.verbose {
		fmt.Fprintf(os.Stderr, "Pool size: %d\n", poolSize)
	}
	pool := newExporterPool(poolSize, opts...)
	defer pool.Close()

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := runExport(ctx, positional, flags, pool, env); err != nil {
		fmt.Fprintln(os.Stderr, err.Error()+hintFor(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}
