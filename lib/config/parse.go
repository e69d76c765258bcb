/*package config reads, merges, and validates parkit's configuration. Values
come from an optional config file and from command line flags, with flags
taking precedence. Config files are gcfg (INI) files with a single [bench]
section:

	[bench]
	exponent = 20
	threads = 8
	space = pool
	repeats = 3
	archive = timings.csv.zst
	log-level = info

Files ending in .yaml or .yml are read as YAML instead, with the same
variables under a top-level "bench" key.
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/gcfg.v1"
	"gopkg.in/yaml.v3"

	"github.com/phil-mansfield/parkit/lib/format"
	"github.com/phil-mansfield/parkit/lib/logx"
	"github.com/phil-mansfield/parkit/lib/parallel"
)

// ErrInvalid is matched by every configuration error.
var ErrInvalid = errors.New("config: invalid configuration")

const (
	// DefaultExponent is the exponent bound used when neither exponent nor
	// exponents is set. Sizes run from 2^1 to 2^(DefaultExponent-1).
	DefaultExponent = 20
	DefaultSpace = parallel.PoolSpace
	DefaultRepeats = 1
)

// RawArgs stores the unprocessed values which the user assigned to each config
// variable. An empty string means the variable wasn't set.
type RawArgs struct {
	Exponent  string `gcfg:"exponent" yaml:"exponent"`
	Exponents string `gcfg:"exponents" yaml:"exponents"`
	Threads   string `gcfg:"threads" yaml:"threads"`
	Space     string `gcfg:"space" yaml:"space"`
	Repeats   string `gcfg:"repeats" yaml:"repeats"`
	Archive   string `gcfg:"archive" yaml:"archive"`
	LogLevel  string `gcfg:"log-level" yaml:"log-level"`
}

// Args stores configuration information. It is a post-processed version of
// RawArgs.
type Args struct {
	// Exponents are the base-2 logarithms of the problem sizes, in the order
	// they will be run.
	Exponents []int
	// Threads is the worker count. Zero means one worker per core.
	Threads int
	Space string
	Repeats int
	// Archive is the path of the compressed sample archive. Empty means no
	// archive is written.
	Archive string
	LogLevel string
	RunMode RunMode
}

// Sizes returns the problem sizes, 2^e for each exponent.
func (args *Args) Sizes() []int {
	sizes := make([]int, len(args.Exponents))
	for i, e := range args.Exponents { sizes[i] = 1 << e }
	return sizes
}

type fileConfig struct {
	Bench RawArgs `yaml:"bench"`
}

// ReadFile parses arguments from a config file. YAML files are recognized by
// their extension; everything else is read as a gcfg file.
func ReadFile(fileName string) (*RawArgs, error) {
	cfg := &fileConfig{ }
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".yaml", ".yml":
		b, err := os.ReadFile(fileName)
		if err != nil { return nil, err }
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("%w: could not parse YAML config file " +
				"%s: %s", ErrInvalid, fileName, err)
		}
	default:
		if _, err := os.Stat(fileName); err != nil { return nil, err }
		if err := gcfg.ReadFileInto(cfg, fileName); err != nil {
			return nil, fmt.Errorf("%w: could not parse config file %s: %s",
				ErrInvalid, fileName, err)
		}
	}
	return &cfg.Bench, nil
}

// Overwrite arguments in arg1 which have been set to non-default values in
// arg2.
func (arg1 *RawArgs) Overwrite(arg2 *RawArgs) {
	over := func(a *string, b string) {
		if b != "" { *a = b }
	}
	over(&arg1.Exponent, arg2.Exponent)
	over(&arg1.Exponents, arg2.Exponents)
	over(&arg1.Threads, arg2.Threads)
	over(&arg1.Space, arg2.Space)
	over(&arg1.Repeats, arg2.Repeats)
	over(&arg1.Archive, arg2.Archive)
	over(&arg1.LogLevel, arg2.LogLevel)
}

// Process converts the raw user input to a format which is more useful for
// internal functions. Very simple validation will be done here, but nothing
// which requires interacting with external files. RunMode is left at
// LocalMode; the caller sets it.
func (args *RawArgs) Process() (*Args, error) {
	out := &Args{
		Space: DefaultSpace, Repeats: DefaultRepeats,
		Archive: strings.TrimSpace(args.Archive),
	}

	var err error
	if out.Exponents, err = args.exponents(); err != nil { return nil, err }

	if args.Threads != "" {
		out.Threads, err = parseInt("threads", args.Threads)
		if err != nil { return nil, err }
		if out.Threads < 0 {
			return nil, fmt.Errorf("%w: threads must be non-negative, " +
				"but was set to %d", ErrInvalid, out.Threads)
		}
	}

	if args.Space != "" {
		out.Space = strings.ToLower(strings.TrimSpace(args.Space))
		if !validSpace(out.Space) {
			return nil, fmt.Errorf("%w: space was set to '%s', but the " +
				"only valid spaces are %s", ErrInvalid, args.Space,
				strings.Join(parallel.SpaceNames(), ", "))
		}
	}

	if args.Repeats != "" {
		out.Repeats, err = parseInt("repeats", args.Repeats)
		if err != nil { return nil, err }
		if out.Repeats < 1 {
			return nil, fmt.Errorf("%w: repeats must be at least 1, but " +
				"was set to %d", ErrInvalid, out.Repeats)
		}
	}

	if _, err := logx.ParseLevel(args.LogLevel); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalid, err)
	}
	out.LogLevel = strings.ToLower(strings.TrimSpace(args.LogLevel))

	return out, nil
}

// exponents resolves the exponent list. An explicit sequence beats a bound.
func (args *RawArgs) exponents() ([]int, error) {
	if args.Exponents != "" {
		exps, err := format.ExpandExponentFormat(args.Exponents)
		if err != nil {
			return nil, fmt.Errorf("%w: could not parse exponents: %s",
				ErrInvalid, err)
		}
		return exps, nil
	}

	bound := DefaultExponent
	if args.Exponent != "" {
		var err error
		bound, err = parseInt("exponent", args.Exponent)
		if err != nil { return nil, err }
		if bound < 1 || bound > format.MaxExponent + 1 {
			return nil, fmt.Errorf("%w: exponent must be in the range " +
				"[1, %d], but was set to %d", ErrInvalid,
				format.MaxExponent + 1, bound)
		}
	}
	return format.ExponentRange(bound), nil
}

func parseInt(name, value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%w: %s was set to '%s', which is not an " +
			"integer", ErrInvalid, name, value)
	}
	return n, nil
}

func validSpace(name string) bool {
	for _, s := range parallel.SpaceNames() {
		if s == name { return true }
	}
	return false
}
