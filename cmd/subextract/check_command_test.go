package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestCheckPassesWithToolsAndDirectories(t *testing.T) {
	env := setupCLIEnv(t)
	installStubs(t, env.baseDir)
	if err := os.MkdirAll(filepath.Dir(env.cfg.Output.TxtPath), 0o755); err != nil {
		t.Fatalf("mkdir out: %v", err)
	}

	code, stdout, stderr := runCLI(t, context.Background(), "check", "--config", env.configPath)
	if code != 0 {
		t.Fatalf("exit code = %d\nstdout:\n%s\nstderr:\n%s", code, stdout, stderr)
	}
	requireContains(t, stdout, "== External tools ==")
	requireContains(t, stdout, "FFmpeg:")
	requireContains(t, stdout, "== Files ==")
	requireContains(t, stdout, "All checks passed")
}

func TestCheckReportsMissingOutputDirectory(t *testing.T) {
	env := setupCLIEnv(t)
	installStubs(t, env.baseDir)

	code, stdout, stderr := runCLI(t, context.Background(), "check", "--config", env.configPath)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	requireContains(t, stdout, "[ERROR]")
	requireContains(t, stdout, "does not exist")
	requireContains(t, stderr, "1 check failed")
}
