/*
Command cbench drives randomized workloads against the container engines,
verifies their structural invariants after every phase and prints a table of
phase timings and engine statistics.

	cbench [--count N] [--seed S] [--keys int|words] [--max-load F] [--trace] list|tree|hash|all

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer.com>

Please refer to the License file for details.
*/
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/npillmayer/containers"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("cbench: %v", err))
		os.Exit(1)
	}
}

func run(args []string) error {
	app := cli.App{
		Name:  "cbench",
		Usage: "exercise and time the container engines",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "count",
				Usage: "number of keys per workload",
				Value: 10000,
			},
			&cli.Int64Flag{
				Name:  "seed",
				Usage: "seed for key generation and shuffling",
				Value: 1,
			},
			&cli.StringFlag{
				Name:  "keys",
				Usage: "key kind: int or words",
				Value: "int",
			},
			&cli.Float64Flag{
				Name:  "max-load",
				Usage: "maximum load factor of the hash table",
				Value: 1.0,
			},
			&cli.BoolFlag{
				Name:  "trace",
				Usage: "trace structural events to stderr",
			},
		},
		Before: setup,
	}
	app.Commands = []*cli.Command{
		{
			Name:   "list",
			Usage:  "linked list: append, sort, pop",
			Action: bench(listEngine),
		},
		{
			Name:   "tree",
			Usage:  "AVL tree: insert, find, erase",
			Action: bench(treeEngine),
		},
		{
			Name:   "hash",
			Usage:  "hash table: insert, find, erase",
			Action: bench(hashEngine),
		},
		{
			Name:   "all",
			Usage:  "run every engine",
			Action: bench(listEngine, treeEngine, hashEngine),
		},
	}
	return app.Run(args)
}

func setup(cctx *cli.Context) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		color.NoColor = true
	}
	if cctx.Bool("trace") {
		gtrace.CoreTracer = gologadapter.New()
		gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
		tracing.SetTraceSelector(tracing.SelectorForAdapter(func() tracing.Trace {
			return gtrace.CoreTracer
		}))
	}
	return nil
}

func bench(engines ...engine) cli.ActionFunc {
	return func(cctx *cli.Context) error {
		w, err := newWorkload(cctx.Int("count"), cctx.Int64("seed"), cctx.String("keys"))
		if err != nil {
			return err
		}
		w.maxLoad = cctx.Float64("max-load")
		containers.T().Infof("cbench: %d %s keys, seed %d", len(w.keys), cctx.String("keys"), w.seed)
		prog, err := startProgress(os.Stderr)
		if err != nil {
			return err
		}
		var results []result
		var failed error
		for _, e := range engines {
			rs, err := e.run(w, prog)
			results = append(results, rs...)
			if err != nil {
				failed = fmt.Errorf("%s: %w", e.name, err)
				break
			}
		}
		prog.stop()
		report(os.Stdout, results)
		return failed
	}
}
