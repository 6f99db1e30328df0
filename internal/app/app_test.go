package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fxnlabs/kernel-splat/internal/config"
	"github.com/fxnlabs/kernel-splat/internal/graph"
	"github.com/fxnlabs/kernel-splat/internal/rewrite"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestModule(t *testing.T) {
	cfg := config.Default()
	cfg.Logger.Verbosity = "error"
	cfg.Metrics.Textfile = filepath.Join(t.TempDir(), "kernel_splat.prom")

	var rw *rewrite.Rewriter
	app := fxtest.New(t,
		Module,
		Logger,
		fx.Supply(cfg),
		fx.Populate(&rw),
		fx.NopLogger,
	)
	app.RequireStart()

	require.NotNil(t, rw)
	unit := graph.SingleOpUnit("dispatch_0", nil,
		graph.NewDotOp(graph.Tensor(dtypes.Float32, 128, 64), graph.Tensor(dtypes.Float32, 64, 256)))
	res := rw.TryRewrite(unit)
	assert.Equal(t, rewrite.Rewritten, res.Outcome)

	app.RequireStop()

	data, err := os.ReadFile(cfg.Metrics.Textfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `kernel_rewrite_outcomes_total{kind="dot",outcome="rewritten"}`)
}

func TestModule_InvalidVerbosity(t *testing.T) {
	cfg := config.Default()
	cfg.Logger.Verbosity = "loud"

	app := fx.New(Module, Logger, fx.Supply(cfg), fx.Invoke(func(*rewrite.Rewriter) {}), fx.NopLogger)
	assert.Error(t, app.Err())
}

func TestModule_SuppliedLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	var log *zap.Logger
	app := fxtest.New(t,
		Module,
		fx.Supply(config.Default(), zap.New(core)),
		fx.Populate(&log),
		fx.NopLogger,
	)
	app.RequireStart()
	app.RequireStop()

	assert.Same(t, log.Core(), core)
	assert.Equal(t, 1, logs.FilterMessage("Embedded kernels available").Len())
}
