package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/maxfischer2781/gridctl/internal/model"
	"github.com/maxfischer2781/gridctl/internal/partmap"
)

var showCommand = &cli.Command{
	Name:      "show",
	Usage:     "print one partition (or the whole map's summary) from a partition map",
	ArgsUsage: "[partition-number]",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "map", Usage: "partition map archive to read", Value: "datamap.tar"},
	},
	Action: func(c *cli.Context) error {
		m, err := partmap.Load(c.String("map"))
		if err != nil {
			return err
		}

		if c.NArg() == 0 {
			return showMapSummary(m)
		}

		num, err := strconv.Atoi(c.Args().First())
		if err != nil {
			return fmt.Errorf("partition number must be an integer: %w", err)
		}
		p, err := m.Get(num)
		if err != nil {
			return err
		}
		showPartition(num, p)
		return nil
	},
}

func showMapSummary(m *partmap.Map) error {
	fmt.Printf("class: %s\n", m.ClassName())
	fmt.Printf("partitions: %d\n", m.Len())
	keys := make([]string, 0, len(m.Parameters()))
	for k := range m.Parameters() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %s = %s\n", k, m.Parameters()[k])
	}
	return nil
}

func showPartition(num int, p model.Partition) {
	fmt.Printf("partition %d: %s#%s\n", num, p.Dataset, p.BlockName)
	if p.Retired {
		fmt.Println("  retired")
		return
	}
	fmt.Printf("  entries: %s, skip: %d\n", entriesLabel(p.Entries), p.Skip)
	for _, u := range p.URLs {
		fmt.Printf("  %s\n", u)
	}
}
