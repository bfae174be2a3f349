package main

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"subextract/internal/pipeline"
	"subextract/internal/subtitles"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Subtitles", statusError, "none", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Subtitles:", "[ERROR] none")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Subtitles", statusOK, "3", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestShouldColorizeBuffer(t *testing.T) {
	if shouldColorize(&bytes.Buffer{}) {
		t.Fatal("buffers are never terminals")
	}
}

func TestRenderPreviewTruncates(t *testing.T) {
	subs := []subtitles.Subtitle{
		{Text: "one", Start: 1.2, End: 2.2, Duration: 1},
		{Text: "two", Start: 2.2, End: 3.25, Duration: 1.05},
		{Text: "three", Start: 3.25, End: 4, Duration: 0.75},
	}
	var buf bytes.Buffer
	renderPreview(&buf, pipeline.Summary{Subtitles: subs, Count: len(subs)}, 2, false)
	out := buf.String()
	requireContains(t, out, "Subtitle preview (first 2 of 3)")
	for _, header := range []string{"Start", "End", "Duration", "Text"} {
		requireContains(t, out, header)
	}
	if strings.Contains(out, "DURATION") {
		t.Fatalf("headers should keep their casing:\n%s", out)
	}
	requireContains(t, out, "one")
	requireContains(t, out, "two")
	if strings.Contains(out, "three") {
		t.Fatalf("preview should stop at two rows:\n%s", out)
	}
	requireContains(t, out, "... and 1 more subtitles")
}

func TestRenderPreviewDisabled(t *testing.T) {
	var buf bytes.Buffer
	renderPreview(&buf, pipeline.Summary{Subtitles: []subtitles.Subtitle{{Text: "x"}}, Count: 1}, 0, false)
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestRenderSummaryWarnsOnEmpty(t *testing.T) {
	var buf bytes.Buffer
	renderSummary(&buf, pipeline.Summary{
		Mode:    "word",
		Offset:  1.2,
		Outputs: []pipeline.Output{{Format: "srt", Path: "subtitles.srt"}},
		Elapsed: 2 * time.Second,
	}, true, false)
	out := buf.String()
	requireContains(t, out, "[WARN] 0")
	requireContains(t, out, "[INFO] 1.20s")
	requireContains(t, out, "subtitles.srt")
	requireContains(t, out, "Transcript cache hit")
}

func TestRenderTableAlignsColumns(t *testing.T) {
	out := renderTable("", []string{"#", "Text"}, [][]string{{"1", "a"}, {"10"}}, []columnAlignment{alignRight}, false)
	requireContains(t, out, "#")
	requireContains(t, out, "Text")
	if strings.Contains(out, "TEXT") {
		t.Fatalf("headers should keep their casing:\n%s", out)
	}
	if renderTable("", nil, nil, nil, false) != "" {
		t.Fatal("expected empty table for no headers")
	}
}
