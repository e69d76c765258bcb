package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/phil-mansfield/parkit/lib/config"
	g_error "github.com/phil-mansfield/parkit/lib/error"
	"github.com/phil-mansfield/parkit/lib/harness"
	"github.com/phil-mansfield/parkit/lib/logx"
	"github.com/phil-mansfield/parkit/lib/mpi"
	"github.com/phil-mansfield/parkit/lib/parallel"
	"github.com/phil-mansfield/parkit/lib/version"
)

const (
	CmdBench   = "bench"
	CmdCheck   = "check"
	CmdVersion = "version"
	FlagConfig = "config"
	FlagWarn   = "warn"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		g_error.External("%s", err.Error())
	}
}

// newRootCmd builds the command tree. Tables and messages go to out.
func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "parkit",
		Short: "parkit times parallel for-each and reduce kernels",
		Long: `parkit runs a parallel for-each and a parallel reduction over arrays of
doubling size and prints how long each phase took.

  parkit bench --exponent 20             # sizes 2 to 2^19
  parkit bench --config bench.config     # read settings from a file
  parkit check --config bench.config     # look for configuration problems`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var configFile string
	var warn bool

	bench := &cobra.Command{
		Use:   CmdBench,
		Short: "Run the benchmark and print the timing table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Bench(cmd, configFile, out)
		},
	}
	bench.Flags().StringVar(&configFile, FlagConfig, "", "config file")
	config.AddFlags(bench.Flags())

	check := &cobra.Command{
		Use:   CmdCheck,
		Short: "Check the configuration for errors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			strictness := config.CrashOnError
			if warn { strictness = config.WarnOnError }
			return Check(cmd, configFile, strictness, out)
		},
	}
	check.Flags().StringVar(&configFile, FlagConfig, "", "config file")
	check.Flags().BoolVar(&warn, FlagWarn, false,
		"log problems as warnings instead of exiting")
	config.AddFlags(check.Flags())

	ver := &cobra.Command{
		Use:   CmdVersion,
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			fmt.Fprintln(out, version.String())
		},
	}

	root.AddCommand(bench, check, ver)
	return root
}

// loadArgs reads the configuration and sets up logging.
func loadArgs(cmd *cobra.Command, configFile string) (*config.Args, error) {
	args, err := config.Load(configFile, cmd.Flags())
	if err != nil { return nil, err }
	if mpi.Enabled { args.RunMode = config.MPIMode }
	return args, nil
}

// Check runs parkit's "check" mode which tests for errors in the
// configuration arguments.
func Check(
	cmd *cobra.Command, configFile string,
	strictness config.CheckStrictness, out io.Writer,
) error {
	args, err := loadArgs(cmd, configFile)
	if err != nil { return err }
	logger, err := logx.Setup(args.LogLevel)
	if err != nil { return err }

	if config.Check(args, strictness, logger) {
		mpi.World.Fprintf(out, "No errors detected.\n")
	}
	return nil
}

// Bench runs parkit's "bench" mode: every configured size is timed and the
// table is printed by the root rank.
func Bench(cmd *cobra.Command, configFile string, out io.Writer) error {
	args, err := loadArgs(cmd, configFile)
	if err != nil { return err }
	logger, err := logx.Setup(args.LogLevel)
	if err != nil { return err }

	if err := mpi.Init(); err != nil { return err }
	defer mpi.Finalize()

	config.Check(args, config.WarnOnError, logger)

	threads := parallel.SetThreads(args.Threads, logger)
	space, err := parallel.NewSpace(args.Space, threads, logger)
	if err != nil { return err }
	defer space.Close()

	logger.Info("starting benchmark", "space", space.Name(),
		"threads", space.Concurrency(), "sizes", len(args.Exponents),
		"repeats", args.Repeats, "run_mode", args.RunMode.String())

	h := &harness.Harness{
		Space: space, Comm: mpi.World, Repeats: args.Repeats, Log: logger,
	}
	report, err := h.Run(args.Exponents)
	if err != nil { return err }

	table := &bytes.Buffer{ }
	if err := harness.WriteTable(table, report); err != nil { return err }
	mpi.World.Fprintf(out, "%s", table)

	if args.Archive == "" || !mpi.World.IsRoot() { return nil }
	if err := harness.WriteArchive(args.Archive, report); err != nil {
		return fmt.Errorf("could not write archive: %w", err)
	}
	logger.Info("wrote archive", "path", args.Archive,
		"samples", len(report.Samples))
	return nil
}
