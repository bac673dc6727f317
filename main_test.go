package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "logbench version "+version+"\n", out)
}

func TestBenchCmd(t *testing.T) {
	dir := t.TempDir()
	reportPath := filepath.Join(dir, "out", "report.txt")
	metricsPath := filepath.Join(dir, "logbench.prom")

	out, err := execute(t, "bench",
		"-n", "5", "-r", "2",
		"--payload", "a", "--payload", "bb",
		"--sink", "discard",
		"-o", reportPath,
		"--metrics-file", metricsPath,
	)
	require.NoError(t, err)

	assert.Contains(t, out, "Iterations: 5 | Payloads: 2 | Runs: 2")
	assert.Contains(t, out, "SEQUENTIAL COMPARISON")
	assert.Contains(t, out, "PARALLEL COMPARISON")
	assert.Contains(t, out, "PRINT VS LOGGER BENCHMARK")
	assert.Contains(t, out, "Benchmark results written to: "+reportPath)

	report, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(report), "print sequential")

	metrics, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `logbench_trial_invocations_total{trial="logger parallel"} 20`)
}

func TestBenchCmd_FileSink(t *testing.T) {
	sink := filepath.Join(t.TempDir(), "sink.log")

	_, err := execute(t, "bench", "-n", "3", "-r", "1", "--payload", "hello", "--sink", sink, "--log-format", "json")
	require.NoError(t, err)

	data, err := os.ReadFile(sink)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[2] sequential print test: hello")
	assert.Contains(t, string(data), `"msg":"sequential logger test"`)
}

func TestBenchCmd_PayloadWithComma(t *testing.T) {
	sink := filepath.Join(t.TempDir(), "sink.log")

	out, err := execute(t, "bench", "-n", "1", "-r", "1", "--payload", "hello, world", "--sink", sink)
	require.NoError(t, err)
	assert.Contains(t, out, "Payloads: 1 |")

	data, err := os.ReadFile(sink)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[0] sequential print test: hello, world\n")
	assert.NotContains(t, string(data), "print test:  world")
}

func TestBenchCmd_InvalidIterations(t *testing.T) {
	_, err := execute(t, "bench", "-n", "0")
	assert.ErrorContains(t, err, "iterations must be positive")
}

func TestDemoCmd_Compare(t *testing.T) {
	out, err := execute(t, "demo", "compare", "--user", "taro", "--log-format", "json")
	require.NoError(t, err)

	assert.Contains(t, out, "❌ [PRINT] user email: user@example.com")
	assert.Contains(t, out, `"email":"<private>"`)
	assert.NotContains(t, out, "taro")
	assert.Contains(t, out, "── Message board ──")
	assert.Contains(t, out, "User name processed")
}

func TestDemoCmd_RevealPrivate(t *testing.T) {
	out, err := execute(t, "demo", "compare", "--user", "taro", "--log-format", "json", "--reveal-private")
	require.NoError(t, err)
	assert.Contains(t, out, `"user_name":"taro"`)
}

func TestDemoCmd_All(t *testing.T) {
	out, err := execute(t, "demo", "--network-delay", "1ms", "--log-format", "text", "--log-level", "debug")
	require.NoError(t, err)

	for _, section := range []string{"── compare ──", "── network ──", "── levels ──", "── cmdline ──"} {
		assert.Contains(t, out, section)
	}
	assert.Contains(t, out, "level=FAULT")
	assert.Contains(t, out, "[CMD_DEMO_PRINT]")
}

func TestDemoCmd_ZerologBackend(t *testing.T) {
	out, err := execute(t, "demo", "levels", "--log-backend", "zerolog")
	require.NoError(t, err)
	assert.Contains(t, out, `"level":"fault"`)
	assert.NotContains(t, out, `"level":"debug"`)
}

func TestDemoCmd_Clear(t *testing.T) {
	out, err := execute(t, "demo", "clear", "--log-format", "json")
	require.NoError(t, err)

	assert.Contains(t, out, "── clear ──")
	assert.Contains(t, out, `"msg":"message board cleared"`)
	assert.True(t, strings.HasSuffix(out, "── Message board ──\n"), "board should be empty after clear")
}

func TestDemoCmd_UnknownScenario(t *testing.T) {
	_, err := execute(t, "demo", "dance")
	assert.Error(t, err)
}
