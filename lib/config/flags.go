package config

import (
	"github.com/spf13/pflag"
)

// flagNames maps each flag onto the RawArgs field it sets.
var flagNames = []struct{
	name, usage string
	field func(*RawArgs) *string
} {
	{"exponent", "exponent bound: sizes run from 2^1 to 2^(exponent-1)",
		func(a *RawArgs) *string { return &a.Exponent }},
	{"exponents", "explicit exponent sequence, e.g. '1..20 - 3'",
		func(a *RawArgs) *string { return &a.Exponents }},
	{"threads", "number of workers, 0 for one per core",
		func(a *RawArgs) *string { return &a.Threads }},
	{"space", "execution space: pool, serial, or spawn",
		func(a *RawArgs) *string { return &a.Space }},
	{"repeats", "number of times each phase is timed",
		func(a *RawArgs) *string { return &a.Repeats }},
	{"archive", "write a zstd-compressed CSV of every sample to this path",
		func(a *RawArgs) *string { return &a.Archive }},
	{"log-level", "debug, info, warn, or error",
		func(a *RawArgs) *string { return &a.LogLevel }},
}

// AddFlags registers one string flag per config variable on fs.
func AddFlags(fs *pflag.FlagSet) {
	for _, f := range flagNames {
		fs.String(f.name, "", f.usage)
	}
}

// FlagArgs collects the flags registered by AddFlags which the user actually
// set. Flags left at their defaults stay empty so they don't overwrite file
// values.
func FlagArgs(fs *pflag.FlagSet) (*RawArgs, error) {
	args := &RawArgs{ }
	for _, f := range flagNames {
		if !fs.Changed(f.name) { continue }
		v, err := fs.GetString(f.name)
		if err != nil { return nil, err }
		*f.field(args) = v
	}
	return args, nil
}

// Load reads the config file (if fileName is non-empty), overwrites it with
// the command line flags, and processes the result.
func Load(fileName string, fs *pflag.FlagSet) (*Args, error) {
	raw := &RawArgs{ }
	if fileName != "" {
		var err error
		if raw, err = ReadFile(fileName); err != nil { return nil, err }
	}

	flags, err := FlagArgs(fs)
	if err != nil { return nil, err }
	raw.Overwrite(flags)

	return raw.Process()
}
