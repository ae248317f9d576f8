package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/maxfischer2781/gridctl/internal/model"
	"github.com/maxfischer2781/gridctl/internal/partmap"
	"github.com/maxfischer2781/gridctl/internal/resync"
	"github.com/maxfischer2781/gridctl/internal/scanner"
	"github.com/maxfischer2781/gridctl/internal/sidecar"
)

var resyncCommand = &cli.Command{
	Name:      "resync",
	Usage:     "rescan storage locations and reconcile them into an existing partition map",
	ArgsUsage: "<dir|glob|dataset.dbs> ...",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "map", Usage: "partition map archive to update", Value: "datamap.tar"},
		&cli.StringFlag{Name: "catalog", Usage: "sidecar block catalog holding the prior scan, read as oldBlocks and rewritten after each pass"},
		&cli.IntFlag{Name: "jobs", Usage: "files per partition for newly added blocks"},
		&cli.Int64Flag{Name: "events", Usage: "entries per partition for newly added blocks"},
		&cli.BoolFlag{Name: "interactive", Usage: "prompt on the terminal for shrunk/missing/expanded file decisions"},
		&cli.BoolFlag{Name: "watch", Usage: "keep running, re-resyncing on file system events, a periodic timer, and SIGUSR2"},
		&cli.DurationFlag{Name: "interval", Usage: "periodic resync interval in watch mode", Value: 10 * time.Minute},
		&cli.DurationFlag{Name: "debounce", Usage: "event coalescing window in watch mode", Value: 2 * time.Second},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() == 0 {
			return fmt.Errorf("usage: gridctl resync <dir|glob|dataset.dbs> ...")
		}
		if c.Bool("watch") {
			return runResyncWatch(c)
		}
		report, err := runResyncPass(context.Background(), c)
		if err != nil {
			return err
		}
		printResyncReport(report)
		return nil
	},
}

func runResyncPass(ctx context.Context, c *cli.Context) (resync.Report, error) {
	view, err := loadView(c)
	if err != nil {
		return resync.Report{}, err
	}
	registry := scanner.NewRegistry()

	mapPath := c.String("map")
	m, err := partmap.Load(mapPath)
	if err != nil {
		return resync.Report{}, err
	}
	oldMap, err := m.All()
	if err != nil {
		return resync.Report{}, err
	}

	var oldBlocks []model.Block
	catalog := c.String("catalog")
	if catalog != "" {
		if _, statErr := os.Stat(catalog); statErr == nil {
			oldBlocks, err = sidecar.Load(catalog)
			if err != nil {
				return resync.Report{}, err
			}
		}
	}

	newBlocks, err := scanBlocks(c, view, registry, c.Args().Slice())
	if err != nil {
		return resync.Report{}, err
	}

	engine := resync.NewEngine(pickSplitter(c), view.Prompt())
	newMap, report, err := engine.Run(*oldMap, oldBlocks, newBlocks)
	if err != nil {
		return resync.Report{}, err
	}

	if err := partmap.Save(&newMap, mapPath); err != nil {
		return resync.Report{}, err
	}
	if catalog != "" {
		if err := sidecar.Save(newBlocks, catalog); err != nil {
			return resync.Report{}, err
		}
	}
	return report, nil
}

func runResyncWatch(c *cli.Context) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	trigger := &resync.Trigger{
		Dirs:     c.Args().Slice(),
		Interval: c.Duration("interval"),
		Debounce: c.Duration("debounce"),
		Run: func(ctx context.Context) error {
			report, err := runResyncPass(ctx, c)
			if err != nil {
				return err
			}
			printResyncReport(report)
			return nil
		},
	}
	if err := trigger.Start(ctx); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	cancel()
	trigger.Stop()
	return nil
}

func printResyncReport(r resync.Report) {
	fmt.Printf("blocks: %d added, %d missing, %d changed\n", r.BlocksAdded, r.BlocksMissing, r.BlocksChanged)
	fmt.Printf("partitions: %d added, %d retired, %d expanded\n", r.PartitionsAdded, r.Retired, r.Expanded)
}
