package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/fxnlabs/kernel-splat/kernels"
	"github.com/urfave/cli/v2"
)

func kernelsCommands() *cli.Command {
	return &cli.Command{
		Name:  "kernels",
		Usage: "Inspect the embedded kernels",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List embedded kernels",
				Action: func(c *cli.Context) error {
					w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
					fmt.Fprintln(w, "NAME\tBYTES\tWORDS")
					for _, e := range kernels.Table() {
						fmt.Fprintf(w, "%s\t%d\t%d\n", e.Name, e.Size, e.Size/4)
					}
					return w.Flush()
				},
			},
			{
				Name:      "dump",
				Usage:     "Print the instruction words of an embedded kernel",
				ArgsUsage: "NAME",
				Action: func(c *cli.Context) error {
					name := c.Args().First()
					if name == "" {
						return cli.Exit("kernel name required", 2)
					}
					code, ok := kernels.Embedded().Lookup(name)
					if !ok {
						return cli.Exit(fmt.Sprintf("no embedded kernel named %q", name), 1)
					}
					for i, w := range code {
						sep := " "
						if i%8 == 7 || i == len(code)-1 {
							sep = "\n"
						}
						fmt.Fprintf(c.App.Writer, "%08x%s", w, sep)
					}
					return nil
				},
			},
		},
	}
}
