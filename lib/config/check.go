package config

/* check.go contains the core functions of parkit's "check" mode. */

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	g_error "github.com/phil-mansfield/parkit/lib/error"
	"github.com/phil-mansfield/parkit/lib/parallel"
)

// Problems returns a description of every problem with args which can only
// be found by looking at the machine or the file system.
func Problems(args *Args) []string {
	out := []string{ }

	if len(args.Exponents) == 0 {
		out = append(out, "No problem sizes were requested, so the " +
			"benchmark will print an empty table. Set exponent to 2 or more.")
	}

	if cores := runtime.NumCPU(); args.Threads > cores {
		out = append(out, fmt.Sprintf("threads is set to %d, but this " +
			"machine only has %d cores.", args.Threads, cores))
	}

	if args.Space == parallel.SerialSpace && args.Threads > 1 {
		out = append(out, fmt.Sprintf("threads is set to %d, but the " +
			"serial space always runs on one thread.", args.Threads))
	}

	if args.Archive != "" {
		dir := filepath.Dir(args.Archive)
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			out = append(out, fmt.Sprintf("archive is set to '%s', but " +
				"the directory '%s' does not exist.", args.Archive, dir))
		}
	}

	return out
}

// Check runs the "check" command on the provided Args. Depending on
// strictness, the first problem either kills the program through
// lib/error.External or every problem is logged as a warning. If Check
// returns, it returns true if all tests passed and false otherwise.
func Check(args *Args, strictness CheckStrictness, logger *slog.Logger) bool {
	if logger == nil { logger = slog.Default() }

	problems := Problems(args)
	for _, p := range problems {
		switch strictness {
		case CrashOnError:
			g_error.External("%s", p)
		case WarnOnError:
			logger.Warn(p, "run_mode", args.RunMode.String())
		}
	}
	return len(problems) == 0
}
