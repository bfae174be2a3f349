package diacritics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
)

// Engine adds marks to a batch of lines. Implementations return exactly one
// output per input, in order.
type Engine interface {
	Diacritize(ctx context.Context, texts []string) ([]string, error)
}

// PipeRunner executes a command with stdin and returns its stdout.
type PipeRunner func(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error)

const (
	// Package is the PyPI distribution providing the Mishkal vocalizer.
	Package = "mishkal"

	defaultUVX = "uvx"

	mishkalScript = `import json, sys
import mishkal.tashkeel
vocalizer = mishkal.tashkeel.TashkeelClass()
lines = json.load(sys.stdin)
json.dump([vocalizer.tashkeel(line) for line in lines], sys.stdout, ensure_ascii=False)
`
)

// CommandEngine runs Mishkal through uvx with a JSON array on stdin and
// reads a JSON array from stdout.
type CommandEngine struct {
	uvx string
	run PipeRunner
}

// NewCommandEngine returns an engine launched via the given uvx binary.
func NewCommandEngine(uvxBinary string) *CommandEngine {
	if strings.TrimSpace(uvxBinary) == "" {
		uvxBinary = defaultUVX
	}
	return &CommandEngine{uvx: uvxBinary, run: runPipe}
}

// WithRunner sets a custom command runner (for testing).
func (e *CommandEngine) WithRunner(run PipeRunner) {
	e.run = run
}

// Diacritize implements Engine.
func (e *CommandEngine) Diacritize(ctx context.Context, texts []string) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	payload, err := json.Marshal(texts)
	if err != nil {
		return nil, fmt.Errorf("encode mishkal input: %w", err)
	}
	out, err := e.run(ctx, payload, e.uvx, "--from", Package, "python", "-c", mishkalScript)
	if err != nil {
		return nil, err
	}
	var marked []string
	if err := json.Unmarshal(bytes.TrimSpace(out), &marked); err != nil {
		return nil, fmt.Errorf("decode mishkal output: %w", err)
	}
	return marked, nil
}

func runPipe(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	cmd.Stdin = bytes.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
