// Package rewrite replaces recognized computations of a compilation unit
// with an executable built around an embedded kernel.
package rewrite

import (
	"context"
	"fmt"
	"time"

	"github.com/fxnlabs/kernel-splat/internal/assembler"
	"github.com/fxnlabs/kernel-splat/internal/graph"
	"github.com/fxnlabs/kernel-splat/internal/metrics"
	"github.com/fxnlabs/kernel-splat/pkg/executable"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Outcome of a rewrite attempt.
type Outcome int

const (
	// NoMatch means the unit holds nothing this package handles and the
	// caller should use another code path. It is not an error.
	NoMatch Outcome = iota
	// Rewritten means Result.Definition is set.
	Rewritten
	// Failed means a recognized operation could not be rewritten. A
	// diagnostic has been emitted on the unit.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case NoMatch:
		return "no_match"
	case Rewritten:
		return "rewritten"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Result is the outcome of rewriting one unit.
type Result struct {
	Unit       string
	Outcome    Outcome
	Kind       graph.OpKind
	Definition *executable.Definition
}

// Rewriter matches units against the embedded kernels.
type Rewriter struct {
	kernels assembler.KernelSource
	log     *zap.Logger
}

// New creates a rewriter that resolves kernels from kernels.
func New(kernels assembler.KernelSource, log *zap.Logger) *Rewriter {
	return &Rewriter{
		kernels: kernels,
		log:     log.Named("rewrite"),
	}
}

// TryRewrite scans unit in program order and stops at the first operation
// it recognizes. A convolution stops the scan with a diagnostic, a dot is
// handed to the matmul assembler, anything else is skipped.
func (r *Rewriter) TryRewrite(unit *graph.Unit) Result {
	start := time.Now()
	res := r.scan(unit)
	metrics.RewriteDuration.Observe(time.Since(start).Seconds())

	kind := "none"
	if res.Outcome != NoMatch {
		kind = res.Kind.String()
	}
	metrics.RewriteOutcomes.WithLabelValues(res.Outcome.String(), kind).Inc()
	return res
}

func (r *Rewriter) scan(unit *graph.Unit) Result {
	log := r.log.With(zap.String("unit", unit.Name))
	res := Result{Unit: unit.Name, Outcome: NoMatch}

	unit.Walk(func(op *graph.Op) bool {
		switch op.Kind {
		case graph.OpConvolution:
			unit.EmitError("convolution not yet implemented")
			log.Warn("Unsupported operation", zap.Stringer("op", op))
			res.Outcome, res.Kind = Failed, op.Kind
			return false
		case graph.OpDot:
			res.Kind = op.Kind
			def, err := assembler.BuildMatMul(op, r.kernels)
			if err != nil {
				unit.EmitError("failed to splat in the matmul kernel: %v", err)
				log.Error("Failed to build matmul executable", zap.Stringer("op", op), zap.Error(err))
				res.Outcome = Failed
				return false
			}
			res.Outcome, res.Definition = Rewritten, def
			log.Debug("Rewrote dot to embedded kernel",
				zap.Stringer("op", op),
				zap.String("kernel", assembler.MatMulKernel),
				zap.Int("code_words", len(def.Code)))
			return false
		default:
			return true
		}
	})

	if res.Outcome == NoMatch {
		log.Debug("No embedded kernel applies")
	}
	return res
}

// RewriteAll rewrites independent units concurrently, at most parallelism at
// a time. Results are returned in the order of units. The only error is the
// cancellation of ctx.
func (r *Rewriter) RewriteAll(ctx context.Context, units []*graph.Unit, parallelism int) ([]Result, error) {
	if parallelism < 1 {
		parallelism = 1
	}

	results := make([]Result, len(units))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i, unit := range units {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = r.TryRewrite(unit)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
