package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"subextract/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config whose input video and outputs live in a
// per-test temp directory. The video file is created with placeholder bytes.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Input.VideoPath = filepath.Join(base, "video.mp4")
	cfgVal.Output.TxtPath = filepath.Join(base, "out", "subtitles.txt")
	cfgVal.Output.SRTPath = filepath.Join(base, "out", "subtitles.srt")
	cfgVal.Output.JSONPath = filepath.Join(base, "out", "subtitles.json")
	cfgVal.Output.AudioPath = filepath.Join(base, "temp_audio.wav")
	cfgVal.Cache.Path = filepath.Join(base, "cache", "transcripts.db")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	WriteFile(t, cfgVal.Input.VideoPath, 1024)

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithMode selects the subtitle granularity.
func WithMode(mode string, groupSize int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Subtitles.Mode = mode
		if groupSize > 0 {
			b.cfg.Subtitles.PhraseGroupSize = groupSize
		}
	}
}

// WithDiacritics enables the Mishkal post-step.
func WithDiacritics() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Diacritics.Enabled = true
	}
}

// WithCache enables the transcript cache under the test directory.
func WithCache() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cache.Enabled = true
	}
}

// WithoutVideo removes the placeholder input video.
func WithoutVideo() ConfigOption {
	return func(b *configBuilder) {
		if err := os.Remove(b.cfg.Input.VideoPath); err != nil {
			b.t.Fatalf("remove video: %v", err)
		}
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, ffmpeg, ffprobe, and uvx are
// stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffprobe", "uvx"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}
		b.t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Input.VideoPath)
}
