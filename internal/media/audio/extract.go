package audio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"subextract/internal/deps"
	"subextract/internal/logging"
	"subextract/internal/media/ffprobe"
	"subextract/internal/services"
)

const defaultFFmpegBinary = "ffmpeg"

// Extractor writes the transcription audio track for a video file.
type Extractor struct {
	ffmpegBinary  string
	ffprobeBinary string
	language      string
	logger        *slog.Logger
	run           services.CommandRunner
	probe         func(ctx context.Context, binary, path string) (ffprobe.Result, error)
}

// NewExtractor creates an extractor that prefers audio tagged with lang.
func NewExtractor(ffmpegBinary, lang string, logger *slog.Logger) *Extractor {
	if strings.TrimSpace(ffmpegBinary) == "" {
		ffmpegBinary = defaultFFmpegBinary
	}
	return &Extractor{
		ffmpegBinary:  ffmpegBinary,
		ffprobeBinary: deps.ResolveFFprobe(ffmpegBinary),
		language:      lang,
		logger:        logging.NewComponentLogger(logger, "audio"),
		run:           services.RunCommand,
		probe:         ffprobe.Inspect,
	}
}

// WithCommandRunner sets a custom ffmpeg runner (for testing).
func (e *Extractor) WithCommandRunner(runner services.CommandRunner) {
	e.run = runner
}

// WithProbe sets a custom ffprobe inspector (for testing).
func (e *Extractor) WithProbe(probe func(ctx context.Context, binary, path string) (ffprobe.Result, error)) {
	e.probe = probe
}

// Extract writes a mono 16 kHz pcm_s16le WAV of source to dest and returns dest.
func (e *Extractor) Extract(ctx context.Context, source, dest string) (string, error) {
	start := time.Now()
	probe, err := e.probe(ctx, e.ffprobeBinary, source)
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "extract-audio", "probe", "Failed to inspect video with ffprobe", err)
	}
	selection, ok := Select(probe.Streams, e.language)
	if !ok {
		return "", services.Wrap(services.ErrValidation, "extract-audio", "select stream", fmt.Sprintf("Video %q has no audio stream", source), nil)
	}
	e.logger.Debug("audio stream selected",
		logging.Args(append(logging.DecisionAttrs("audio_stream", fmt.Sprintf("0:a:%d", selection.Ordinal), matchReason(selection)),
			logging.String("codec", selection.Stream.CodecName),
			logging.Int("channels", selection.Stream.Channels),
			logging.Float64("duration_seconds", probe.DurationSeconds()),
			logging.Int("audio_streams", probe.AudioStreamCount()),
			logging.Int64("size_bytes", probe.SizeBytes()),
		)...)...,
	)

	args := buildExtractArgs(source, selection.Ordinal, dest)
	if err := e.run(ctx, e.ffmpegBinary, args...); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "extract-audio", "ffmpeg", "Failed to extract audio track with ffmpeg", err)
	}

	attrs := []logging.Attr{
		logging.String("destination", dest),
		logging.Duration("elapsed", time.Since(start)),
	}
	if info, err := os.Stat(dest); err == nil {
		attrs = append(attrs, logging.Float64("size_mb", float64(info.Size())/1_048_576))
	}
	e.logger.Info("audio extracted", logging.Args(attrs...)...)
	return dest, nil
}

func matchReason(sel Selection) string {
	if sel.Matched {
		return "language_match"
	}
	return "first_audio_stream"
}

func buildExtractArgs(source string, ordinal int, dest string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-map", fmt.Sprintf("0:a:%d", ordinal),
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		dest,
	}
}
