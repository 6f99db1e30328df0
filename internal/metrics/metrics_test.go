package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewriteMetrics(t *testing.T) {
	t.Run("RewriteOutcomes", func(t *testing.T) {
		before := testutil.ToFloat64(RewriteOutcomes.WithLabelValues("rewritten", "dot"))
		RewriteOutcomes.WithLabelValues("rewritten", "dot").Inc()
		RewriteOutcomes.WithLabelValues("rewritten", "dot").Inc()
		after := testutil.ToFloat64(RewriteOutcomes.WithLabelValues("rewritten", "dot"))
		assert.Equal(t, before+2, after)
	})

	t.Run("EmbeddedKernelLookups", func(t *testing.T) {
		before := testutil.ToFloat64(EmbeddedKernelLookups.WithLabelValues("matmul.spv", "miss"))
		EmbeddedKernelLookups.WithLabelValues("matmul.spv", "miss").Inc()
		assert.Equal(t, before+1, testutil.ToFloat64(EmbeddedKernelLookups.WithLabelValues("matmul.spv", "miss")))
	})

	t.Run("histograms", func(t *testing.T) {
		assert.NotPanics(t, func() {
			RewriteDuration.Observe(0.0001)
			SpecializedDims.WithLabelValues("m").Observe(128)
		})
	})
}

func TestWriteTextfile(t *testing.T) {
	RewriteOutcomes.WithLabelValues("no_match", "none").Inc()

	path := filepath.Join(t.TempDir(), "kernel_splat.prom")
	require.NoError(t, WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "kernel_rewrite_outcomes_total")
}
