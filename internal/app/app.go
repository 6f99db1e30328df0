// Package app wires configuration, logging, the embedded kernels and the
// rewriter together with fx.
package app

import (
	"context"

	"github.com/fxnlabs/kernel-splat/internal/assembler"
	"github.com/fxnlabs/kernel-splat/internal/config"
	"github.com/fxnlabs/kernel-splat/internal/logger"
	"github.com/fxnlabs/kernel-splat/internal/metrics"
	"github.com/fxnlabs/kernel-splat/internal/rewrite"
	"github.com/fxnlabs/kernel-splat/kernels"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides a *rewrite.Rewriter. It expects a *config.Config and a
// *zap.Logger to be supplied, or Logger to build the logger from the config.
var Module = fx.Module("kernel-splat",
	fx.Provide(
		fx.Annotate(kernels.Embedded, fx.As(new(assembler.KernelSource))),
		rewrite.New,
	),
	fx.Invoke(registerHooks),
)

// Logger provides the root *zap.Logger from the supplied *config.Config.
var Logger = fx.Provide(NewLogger)

// NewLogger builds the root logger from cfg.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(cfg.Logger.Verbosity, cfg.Logger.Encoding)
}

func registerHooks(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Debug("Embedded kernels available", zap.Strings("kernels", kernels.Embedded().Names()))
			return nil
		},
		OnStop: func(context.Context) error {
			// Sync fails on terminals, nothing to do about it.
			defer log.Sync() //nolint:errcheck
			if cfg.Metrics.Textfile == "" {
				return nil
			}
			if err := metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
				log.Error("Failed to write metrics textfile", zap.String("path", cfg.Metrics.Textfile), zap.Error(err))
				return err
			}
			log.Debug("Wrote metrics textfile", zap.String("path", cfg.Metrics.Textfile))
			return nil
		},
	})
}
