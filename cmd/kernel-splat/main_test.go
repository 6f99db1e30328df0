package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fxnlabs/kernel-splat/fixtures"
	"github.com/fxnlabs/kernel-splat/pkg/executable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const unitsDir = "../../fixtures/tests/units"

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ExitErrHandler = func(*cli.Context, error) {}

	configPath := filepath.Join(t.TempDir(), "kernel-splat.yaml")
	argv := append([]string{"kernel-splat", "--config", configPath, "--verbosity", "error"}, args...)
	err := app.Run(argv)
	return out.String(), err
}

func TestRewriteCommand_Stdout(t *testing.T) {
	out, err := runApp(t, "rewrite", filepath.Join(unitsDir, "matmul.yaml"))
	require.NoError(t, err)

	var def executable.Definition
	require.NoError(t, json.Unmarshal([]byte(out), &def))
	require.NoError(t, def.Validate())
	assert.Equal(t, "__matmul__", def.Tag)

	values := map[uint32]uint32{}
	for _, e := range def.SpecializationInfo.MapEntries {
		values[e.ConstantID] = e.Uint32Value
	}
	assert.Equal(t, map[uint32]uint32{100: 128, 101: 64, 102: 256}, values)
}

func TestRewriteCommand_OutDir(t *testing.T) {
	dir := t.TempDir()
	_, err := runApp(t, "rewrite", "--out", dir, "--format", "yaml", filepath.Join(unitsDir, "batched_matmul.yaml"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "batched_matmul_dispatch_0.yaml"))
	require.NoError(t, err)

	var def executable.Definition
	require.NoError(t, yaml.Unmarshal(data, &def))
	m, _ := def.SpecializationInfo.Value(100)
	k, _ := def.SpecializationInfo.Value(101)
	n, _ := def.SpecializationInfo.Value(102)
	assert.Equal(t, [3]uint32{32, 16, 48}, [3]uint32{m, k, n})
}

func TestRewriteCommand_Failures(t *testing.T) {
	t.Run("convolution", func(t *testing.T) {
		out, err := runApp(t, "rewrite", filepath.Join(unitsDir, "conv.yaml"))
		require.Error(t, err)
		exitErr, ok := err.(cli.ExitCoder)
		require.True(t, ok)
		assert.Equal(t, 1, exitErr.ExitCode())
		assert.Empty(t, out)
	})

	t.Run("mixed module", func(t *testing.T) {
		dir := t.TempDir()
		_, err := runApp(t, "rewrite", "--out", dir, filepath.Join(unitsDir, "module.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 of 3 units failed")

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "matmul_dispatch_1.json", entries[0].Name())
	})

	t.Run("unit name escaping the output dir", func(t *testing.T) {
		tmp := t.TempDir()
		unit := filepath.Join(tmp, "escape.yaml")
		src, err := os.ReadFile(filepath.Join(unitsDir, "matmul.yaml"))
		require.NoError(t, err)
		src = bytes.Replace(src, []byte("name: matmul_dispatch_0"), []byte("name: ../escaped"), 1)
		require.NoError(t, os.WriteFile(unit, src, 0o644))

		_, err = runApp(t, "rewrite", "--out", filepath.Join(tmp, "out"), unit)
		assert.ErrorContains(t, err, "must not contain path elements")
		assert.NoFileExists(t, filepath.Join(tmp, "escaped.json"))
		assert.NoDirExists(t, filepath.Join(tmp, "out"))
	})

	t.Run("duplicate unit names", func(t *testing.T) {
		dir := t.TempDir()
		matmul := filepath.Join(unitsDir, "matmul.yaml")
		_, err := runApp(t, "rewrite", "--out", dir, matmul, matmul)
		assert.ErrorContains(t, err, `duplicate unit "matmul_dispatch_0"`)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("no arguments", func(t *testing.T) {
		_, err := runApp(t, "rewrite")
		assert.Error(t, err)
	})

	t.Run("bad format", func(t *testing.T) {
		_, err := runApp(t, "rewrite", "--format", "toml", filepath.Join(unitsDir, "matmul.yaml"))
		assert.ErrorContains(t, err, `unknown output format "toml"`)
	})
}

func TestRootLogger(t *testing.T) {
	app := newApp()
	app.Writer = &bytes.Buffer{}
	app.ExitErrHandler = func(*cli.Context, error) {}

	configPath := filepath.Join(t.TempDir(), "kernel-splat.yaml")
	err := app.Run([]string{"kernel-splat", "--config", configPath, "--verbosity", "error", "rewrite", "missing.yaml"})
	require.Error(t, err)

	// main reports failures through the logger built in Before.
	_, ok := app.Metadata["logger"].(*zap.Logger)
	assert.True(t, ok)
}

func TestKernelsCommands(t *testing.T) {
	out, err := runApp(t, "kernels", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "matmul.spv")

	out, err = runApp(t, "kernels", "dump", "matmul.spv")
	require.NoError(t, err)
	assert.True(t, len(out) > 8)
	assert.Equal(t, "07230203", out[:8])

	_, err = runApp(t, "kernels", "dump", "missing.spv")
	assert.Error(t, err)
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kernel-splat.yaml")
	run := func(args ...string) error {
		app := newApp()
		app.Writer = &bytes.Buffer{}
		app.ExitErrHandler = func(*cli.Context, error) {}
		return app.Run(append([]string{"kernel-splat", "--config", path, "--verbosity", "error", "init"}, args...))
	}

	require.NoError(t, run())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, fixtures.ConfigTemplate, data)

	assert.ErrorContains(t, run(), "already exists")
	require.NoError(t, run("--force"))
}

func TestVersionCommand(t *testing.T) {
	out, err := runApp(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Version: dev")
	assert.Contains(t, out, "Embedded kernels: 1")
}
