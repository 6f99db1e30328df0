package main

import (
	"fmt"
	"runtime"

	"github.com/common-nighthawk/go-figure"
	"github.com/fxnlabs/kernel-splat/kernels"
	"github.com/urfave/cli/v2"
)

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Action: func(c *cli.Context) error {
			banner := figure.NewFigure("kernel-splat", "", true)
			fmt.Fprintln(c.App.Writer, banner.String())
			fmt.Fprintf(c.App.Writer, "Version: %s\n", version)
			fmt.Fprintf(c.App.Writer, "Go: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			fmt.Fprintf(c.App.Writer, "Embedded kernels: %d\n", kernels.Size())
			return nil
		},
	}
}
