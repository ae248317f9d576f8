package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/maxfischer2781/gridctl/internal/model"
	"github.com/maxfischer2781/gridctl/internal/partmap"
	"github.com/maxfischer2781/gridctl/internal/scanner"
	"github.com/maxfischer2781/gridctl/internal/sidecar"
	"github.com/maxfischer2781/gridctl/internal/split"
)

var splitCommand = &cli.Command{
	Name:      "split",
	Usage:     "scan storage locations and split them into a partition map",
	ArgsUsage: "<dir|glob|dataset.dbs> ...",
	Flags: []cli.Flag{
		&cli.IntFlag{Name: "jobs", Usage: "files per partition (FixedFileCount)"},
		&cli.Int64Flag{Name: "events", Usage: "entries per partition, crosses file boundaries (FixedEventCount)"},
		&cli.StringFlag{Name: "out", Usage: "partition map archive to write", Value: "datamap.tar"},
		&cli.StringFlag{Name: "save-catalog", Usage: "also snapshot the scanned blocks to a dataset.list sidecar, for a later resync"},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() == 0 {
			return fmt.Errorf("usage: gridctl split <dir|glob|dataset.dbs> ...")
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

		splitter := pickSplitter(c)
		partitions, err := split.SplitAll(splitter, blocks)
		if err != nil {
			return err
		}

		pmap := model.PartitionMap{ClassName: splitter.ClassName(), Parameters: splitter.Parameters()}
		for _, p := range partitions {
			pmap.Append(p)
		}

		out := c.String("out")
		if err := partmap.Save(&pmap, out); err != nil {
			return err
		}
		fmt.Printf("wrote %d partitions from %d blocks to %s\n", len(partitions), len(blocks), out)

		if catalog := c.String("save-catalog"); catalog != "" {
			if err := sidecar.Save(blocks, catalog); err != nil {
				return err
			}
			fmt.Printf("saved %d blocks to %s\n", len(blocks), catalog)
		}
		return nil
	},
}
