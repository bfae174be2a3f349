package audio

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"subextract/internal/media/ffprobe"
	"subextract/internal/services"
)

func probeWith(streams ...ffprobe.Stream) func(context.Context, string, string) (ffprobe.Result, error) {
	return func(context.Context, string, string) (ffprobe.Result, error) {
		return ffprobe.Result{Streams: streams, Format: ffprobe.Format{Duration: "12.0"}}, nil
	}
}

func TestSelectPrefersLanguageMatch(t *testing.T) {
	streams := []ffprobe.Stream{
		{Index: 0, CodecType: "video"},
		{Index: 1, CodecType: "audio", Tags: map[string]string{"language": "eng"}},
		{Index: 2, CodecType: "audio", Tags: map[string]string{"language": "ara"}},
	}
	sel, ok := Select(streams, "ar")
	if !ok || !sel.Matched || sel.Ordinal != 1 || sel.Stream.Index != 2 {
		t.Fatalf("unexpected selection: %+v ok=%v", sel, ok)
	}
}

func TestSelectFallsBackToFirstAudio(t *testing.T) {
	streams := []ffprobe.Stream{
		{Index: 0, CodecType: "video"},
		{Index: 1, CodecType: "audio", Tags: map[string]string{"language": "eng"}},
		{Index: 2, CodecType: "audio"},
	}
	sel, ok := Select(streams, "ar")
	if !ok || sel.Matched || sel.Ordinal != 0 || sel.Stream.Index != 1 {
		t.Fatalf("unexpected selection: %+v ok=%v", sel, ok)
	}
	if _, ok := Select([]ffprobe.Stream{{CodecType: "video"}}, "ar"); ok {
		t.Fatal("expected no selection without audio streams")
	}
}

func TestExtractBuildsFFmpegArgs(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "temp_audio.wav")
	extractor := NewExtractor("", "ar", nil)
	extractor.WithProbe(probeWith(
		ffprobe.Stream{CodecType: "video"},
		ffprobe.Stream{CodecType: "audio", Tags: map[string]string{"language": "ara"}},
	))
	var gotName string
	var gotArgs []string
	extractor.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		gotName, gotArgs = name, args
		return os.WriteFile(args[len(args)-1], []byte("RIFF"), 0o644)
	})

	path, err := extractor.Extract(context.Background(), "video.mp4", dest)
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if path != dest {
		t.Fatalf("expected %q, got %q", dest, path)
	}
	if gotName != "ffmpeg" {
		t.Fatalf("expected ffmpeg binary, got %q", gotName)
	}
	for _, pair := range [][2]string{{"-i", "video.mp4"}, {"-map", "0:a:0"}, {"-ac", "1"}, {"-ar", "16000"}, {"-c:a", "pcm_s16le"}} {
		idx := slices.Index(gotArgs, pair[0])
		if idx < 0 || idx+1 >= len(gotArgs) || gotArgs[idx+1] != pair[1] {
			t.Fatalf("expected %s %s in args %v", pair[0], pair[1], gotArgs)
		}
	}
	if gotArgs[len(gotArgs)-1] != dest {
		t.Fatalf("expected destination last, got %v", gotArgs)
	}
}

func TestExtractClassifiesFailures(t *testing.T) {
	extractor := NewExtractor("ffmpeg", "ar", nil)

	extractor.WithProbe(func(context.Context, string, string) (ffprobe.Result, error) {
		return ffprobe.Result{}, errors.New("moov atom not found")
	})
	if _, err := extractor.Extract(context.Background(), "broken.mp4", "out.wav"); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error for probe failure, got %v", err)
	}

	extractor.WithProbe(probeWith(ffprobe.Stream{CodecType: "video"}))
	if _, err := extractor.Extract(context.Background(), "silent.mp4", "out.wav"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error without audio, got %v", err)
	}

	extractor.WithProbe(probeWith(ffprobe.Stream{CodecType: "audio"}))
	extractor.WithCommandRunner(func(context.Context, string, ...string) error {
		return errors.New("exit status 1")
	})
	if _, err := extractor.Extract(context.Background(), "video.mp4", "out.wav"); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error for ffmpeg failure, got %v", err)
	}
}

func TestExtractLogsProbeSummary(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	extractor := NewExtractor("", "ar", logger)
	extractor.WithProbe(func(context.Context, string, string) (ffprobe.Result, error) {
		return ffprobe.Result{
			Streams: []ffprobe.Stream{
				{CodecType: "audio", Tags: map[string]string{"language": "eng"}},
				{CodecType: "audio", Tags: map[string]string{"language": "ara"}},
			},
			Format: ffprobe.Format{Duration: "12.0", Size: "2048"},
		}, nil
	})
	extractor.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		return os.WriteFile(args[len(args)-1], []byte("RIFF"), 0o644)
	})

	if _, err := extractor.Extract(context.Background(), "video.mp4", filepath.Join(t.TempDir(), "a.wav")); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`"audio_streams":2`, `"size_bytes":2048`, `"decision_result":"0:a:1"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in log output:\n%s", want, out)
		}
	}
}
