package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fxnlabs/kernel-splat/internal/app"
	"github.com/fxnlabs/kernel-splat/internal/config"
	"github.com/fxnlabs/kernel-splat/internal/graph"
	"github.com/fxnlabs/kernel-splat/internal/rewrite"
	"github.com/fxnlabs/kernel-splat/pkg/executable"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func rewriteCommand() *cli.Command {
	return &cli.Command{
		Name:      "rewrite",
		Usage:     "Rewrite compilation units into embedded kernel executables",
		ArgsUsage: "UNIT.yaml...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "out",
				Usage: "Directory receiving one file per rewritten unit (default: stdout)",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Output format, json or yaml (default: from config)",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.Exit("no unit files given", 2)
			}

			cfg := *appConfig(c)
			if f := c.String("format"); f != "" {
				cfg.Output.Format = f
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runRewrite(c, &cfg, c.Args().Slice(), c.String("out"))
		},
	}
}

func runRewrite(c *cli.Context, cfg *config.Config, paths []string, outDir string) error {
	log := appLogger(c)

	var rw *rewrite.Rewriter
	fxApp := fx.New(app.Module, fx.Supply(cfg, rootLogger(c)), fx.Populate(&rw), fx.NopLogger)
	if err := fxApp.Start(c.Context); err != nil {
		return err
	}
	defer func() {
		if err := fxApp.Stop(c.Context); err != nil {
			log.Error("Failed to stop", zap.Error(err))
		}
	}()

	diags := &graph.Collector{}
	var units []*graph.Unit
	seen := map[string]string{}
	for _, p := range paths {
		loaded, err := graph.LoadUnits(p, diags)
		if err != nil {
			return err
		}
		for _, u := range loaded {
			if prev, ok := seen[u.Name]; ok {
				return fmt.Errorf("%s: duplicate unit %q, first defined in %s", p, u.Name, prev)
			}
			seen[u.Name] = p
		}
		units = append(units, loaded...)
	}

	results, err := rw.RewriteAll(c.Context, units, cfg.Rewrite.Parallelism)
	if err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		switch res.Outcome {
		case rewrite.Rewritten:
			if err := emit(res, cfg.Output.Format, outDir, c.App.Writer); err != nil {
				return err
			}
			log.Info("Rewrote unit", zap.String("unit", res.Unit), zap.Stringer("kind", res.Kind))
		case rewrite.Failed:
			failed++
			for _, d := range diags.ForUnit(res.Unit) {
				log.Error(d.Message, zap.String("unit", d.Unit))
			}
		case rewrite.NoMatch:
			log.Info("No embedded kernel for unit", zap.String("unit", res.Unit))
		}
	}

	if failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d units failed to rewrite", failed, len(results)), 1)
	}
	return nil
}

func emit(res rewrite.Result, format, outDir string, stdout io.Writer) error {
	data, err := encode(res.Definition, format)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", res.Unit, err)
	}

	if outDir == "" {
		if format == "yaml" {
			if _, err := io.WriteString(stdout, "---\n"); err != nil {
				return err
			}
		}
		_, err := stdout.Write(data)
		return err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outDir, res.Unit+"."+format), data, 0o644)
}

func encode(def *executable.Definition, format string) ([]byte, error) {
	if format == "yaml" {
		return yaml.Marshal(def)
	}
	data, err := json.MarshalIndent(def, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
