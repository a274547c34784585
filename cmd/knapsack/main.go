// Command knapsack solves one 0/1 knapsack instance and prints the solution.
//
// Usage:
//
//	knapsack [flags] <instance-file>
//
// The text format is a header line "n capacity" followed by n lines
// "value weight". With --format=yaml the file is an instance document:
//
//	capacity: 9
//	items:
//	  - {name: tent, value: 5, weight: 4}
//
// Output is "<value> <optimal>" followed by one 0/1 flag per item.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/spf13/pflag"

	"github.com/katalvlaran/knapsack/config"
	"github.com/katalvlaran/knapsack/instance"
	"github.com/katalvlaran/knapsack/knapsack"
	"github.com/katalvlaran/knapsack/logging"
)

const (
	formatText = "text"
	formatYAML = "yaml"
)

var errUsage = errors.New("usage: knapsack [flags] <instance-file>")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "knapsack:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("knapsack", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.String(config.KeyAlgo, knapsack.BranchAndBound.String(), "solver: branch-and-bound or dynamic")
	fs.Duration(config.KeyTimeLimit, 0, "wall-clock budget, 0 for none")
	fs.Int(config.KeyNodeLimit, 0, "branch-and-bound node budget, 0 for none")
	fs.String(config.KeyLogLevel, "info", "log level: error, warn, info, debug or trace")
	format := fs.String("format", formatText, "instance format: text or yaml")
	verbose := fs.BoolP("verbose", "v", false, "shorthand for --log-level=debug")
	cfgPath := fs.String("config", "", "optional YAML configuration file")
	fs.Usage = func() {
		fmt.Fprintln(stderr, errUsage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errUsage
	}
	if *verbose && !fs.Changed(config.KeyLogLevel) {
		_ = fs.Set(config.KeyLogLevel, "debug")
	}

	cfg, err := config.Load(*cfgPath, fs)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel, cfg.Development)
	if err != nil {
		return err
	}
	log = log.WithName("knapsack")

	p, err := load(fs.Arg(0), *format)
	if err != nil {
		return err
	}
	opts, err := cfg.SolveOptions(log)
	if err != nil {
		return err
	}

	rep, err := knapsack.Solve(p, opts)
	if err != nil && !(knapsack.IsBudgetError(err) && opts.Algo == knapsack.BranchAndBound) {
		return err
	}
	if err != nil {
		log.Info("budget exhausted, printing best solution found", "reason", err.Error())
	}
	report(log, rep)

	return instance.FormatReport(stdout, rep)
}

func load(path, format string) (*knapsack.Problem, error) {
	switch format {
	case formatText:
		return instance.ParseFile(path)
	case formatYAML:
		doc, err := instance.LoadDocumentFile(path)
		if err != nil {
			return nil, err
		}
		return doc.Problem()
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

func report(log logr.Logger, rep knapsack.Report) {
	log.V(logging.DEBUG).Info("solved",
		"algo", rep.Algo.String(),
		"value", rep.Solution.Value,
		"optimal", rep.Optimal,
		"expanded", rep.Stats.Expanded,
		"cachePoints", rep.Stats.CachePoints,
		"elapsed", rep.Elapsed)
}
