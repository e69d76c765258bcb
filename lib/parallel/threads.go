package parallel

/* threads.go contains functions for sizing the host's parallelism. */

import (
	"log/slog"
	"runtime"
)

// Threads resolves a requested thread count. n <= 0 means "use every core",
// the same convention as the threads = 0 config value.
func Threads(n int) int {
	if n <= 0 { return runtime.NumCPU() }
	return n
}

// SetThreads sets GOMAXPROCS to the resolved thread count and returns it. Asking
// for more threads than the node has cores is allowed, but logged, since the
// timings it produces are rarely what anyone wants.
func SetThreads(n int, logger *slog.Logger) int {
	n = Threads(n)
	if n > runtime.NumCPU() {
		loggerOrDefault(logger).Warn(
			"more threads requested than cores; set threads = 0 to use every core",
			"threads", n, "cores", runtime.NumCPU())
	}

	runtime.GOMAXPROCS(n)
	return n
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil { return slog.Default() }
	return logger
}
