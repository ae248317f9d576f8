package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/maxfischer2781/gridctl/internal/scanner"
	"github.com/maxfischer2781/gridctl/internal/sidecar"
)

var scanCommand = &cli.Command{
	Name:      "scan",
	Usage:     "scan storage locations into blocks",
	ArgsUsage: "<dir|glob|dataset.dbs> ...",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "save",
			Usage: "write the scanned blocks to a dataset.list sidecar catalog",
		},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() == 0 {
			return fmt.Errorf("usage: gridctl scan <dir|glob|dataset.dbs> ...")
		}
		view, err := loadView(c)
		if err != nil {
			return err
		}
		registry := scanner.NewRegistry()

		blocks, err := scanBlocks(c, view, registry, c.Args().Slice())
		if err != nil {
			return err
		}
		printBlockSummary(blocks)

		if out := c.String("save"); out != "" {
			if err := sidecar.Save(blocks, out); err != nil {
				return err
			}
			fmt.Printf("saved %d blocks to %s\n", len(blocks), out)
		}
		return nil
	},
}
