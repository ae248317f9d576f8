// Command gridctl is the thin collaborator CLI exercising the
// ingestion pipeline end to end: scan storage locations into blocks,
// split blocks into a partition map, resync a partition map against a
// fresh scan, and inspect individual partitions.
//
// Grounded on standardbeagle-lci's cmd/lci (urfave/cli/v2 app with a
// shared root flag set and one Action func per subcommand), pared down
// from its many search/index commands to the four this pipeline needs.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/maxfischer2781/gridctl/internal/gclog"
)

func main() {
	app := &cli.App{
		Name:                   "gridctl",
		Usage:                  "dataset ingestion and partitioning pipeline",
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "config file path (TOML)",
				Value:   "gridctl.toml",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "enable info-level logging",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("verbose") {
				gclog.Verbose = true
			}
			return nil
		},
		Commands: []*cli.Command{
			scanCommand,
			splitCommand,
			resyncCommand,
			showCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "gridctl: %v\n", err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCoder is implemented by internal/gcerrors's taxonomy (spec §6:
// "CLI exit codes" produced by an ExitCode() int method on each error
// kind).
type exitCoder interface {
	ExitCode() int
}

func exitCodeFor(err error) int {
	var ec exitCoder
	for {
		if e, ok := err.(exitCoder); ok {
			ec = e
			break
		}
		unwrapped := unwrap(err)
		if unwrapped == nil {
			break
		}
		err = unwrapped
	}
	if ec != nil {
		return ec.ExitCode()
	}
	return 1
}

func unwrap(err error) error {
	type unwrapper interface{ Unwrap() error }
	if u, ok := err.(unwrapper); ok {
		return u.Unwrap()
	}
	return nil
}
