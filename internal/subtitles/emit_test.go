package subtitles

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func sampleSubtitles() []Subtitle {
	return []Subtitle{
		{Text: "بسم الله", Start: 1.2, End: 3.7, Duration: 2.5},
		{Text: "<a & b>", Start: 3.7, End: 3661.23, Duration: 3657.53},
	}
}

func TestFormatSRTTime(t *testing.T) {
	cases := map[float64]string{
		0:        "00:00:00,000",
		1.2:      "00:00:01,200",
		59.999:   "00:00:59,999",
		61.5:     "00:01:01,500",
		3661.234: "01:01:01,234",
		3661.23:  "01:01:01,230",
		36000.01: "10:00:00,010",
		-3:       "00:00:00,000",
	}
	for in, want := range cases {
		if got := FormatSRTTime(in); got != want {
			t.Fatalf("FormatSRTTime(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestNegativeTimingPassesThroughExceptSRT(t *testing.T) {
	subs := []Subtitle{{Text: "early", Start: -0.8, End: 0.7, Duration: 1.5}}

	var txt, js, srt bytes.Buffer
	if err := (TextEmitter{}).Encode(&txt, subs); err != nil {
		t.Fatalf("text: %v", err)
	}
	if err := (JSONEmitter{}).Encode(&js, subs); err != nil {
		t.Fatalf("json: %v", err)
	}
	if err := (SRTEmitter{}).Encode(&srt, subs); err != nil {
		t.Fatalf("srt: %v", err)
	}
	if !strings.Contains(txt.String(), "-0.80 | 0.70 | early") {
		t.Fatalf("text should keep negative start:\n%s", txt.String())
	}
	if !strings.Contains(js.String(), `"start": -0.8`) {
		t.Fatalf("json should keep negative start:\n%s", js.String())
	}
	if !strings.Contains(srt.String(), "00:00:00,000 --> 00:00:00,700") {
		t.Fatalf("srt should clamp negative start to zero:\n%s", srt.String())
	}
}

func TestTextEmitter(t *testing.T) {
	var buf bytes.Buffer
	if err := (TextEmitter{}).Encode(&buf, sampleSubtitles()); err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	want := "# Auto-generated Subtitles\n" +
		"# Format: start_time | end_time | text\n" +
		"# You can edit this file before adding to video\n\n" +
		"1.20 | 3.70 | بسم الله\n" +
		"3.70 | 3661.23 | <a & b>\n"
	if buf.String() != want {
		t.Fatalf("unexpected text output:\n%s", buf.String())
	}
}

func TestSRTEmitter(t *testing.T) {
	var buf bytes.Buffer
	if err := (SRTEmitter{}).Encode(&buf, sampleSubtitles()); err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	want := "1\n00:00:01,200 --> 00:00:03,700\nبسم الله\n\n" +
		"2\n00:00:03,700 --> 01:01:01,230\n<a & b>\n\n"
	if buf.String() != want {
		t.Fatalf("unexpected srt output:\n%q", buf.String())
	}
}

func TestJSONEmitterRoundTrip(t *testing.T) {
	subs := sampleSubtitles()
	var buf bytes.Buffer
	if err := (JSONEmitter{}).Encode(&buf, subs); err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "بسم الله") || !strings.Contains(out, "<a & b>") {
		t.Fatalf("expected literal non-ASCII and HTML characters, got %s", out)
	}
	if !strings.Contains(out, "\n  {\n    \"text\"") {
		t.Fatalf("expected two-space indentation, got %s", out)
	}

	var decoded []Subtitle
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(decoded, subs) {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}

	buf.Reset()
	if err := (JSONEmitter{}).Encode(&buf, nil); err != nil {
		t.Fatalf("Encode(nil) returned error: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Fatalf("expected empty array, got %q", buf.String())
	}
}

type brokenEmitter struct{}

func (brokenEmitter) Name() string { return "broken" }

func (brokenEmitter) Encode(w io.Writer, _ []Subtitle) error {
	_, _ = io.WriteString(w, "partial")
	return errors.New("encoder exploded")
}

func TestWriteFileReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subtitles.srt")
	if err := os.WriteFile(path, []byte("stale content that is longer than the new file\n"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := WriteFile(path, SRTEmitter{}, sampleSubtitles()[:1]); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "1\n00:00:01,200 --> 00:00:03,700\nبسم الله\n\n" {
		t.Fatalf("expected full overwrite, got %q", data)
	}

	if err := WriteFile(path, brokenEmitter{}, nil); err == nil {
		t.Fatal("expected encode failure")
	}
	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read after failure: %v", err)
	}
	if !bytes.Equal(after, data) {
		t.Fatalf("failed write must leave previous output intact, got %q", after)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected temp files cleaned up, found %d entries", len(entries))
	}
}

func TestEmittersOrder(t *testing.T) {
	var names []string
	for _, e := range Emitters() {
		names = append(names, e.Name())
	}
	if strings.Join(names, ",") != "txt,srt,json" {
		t.Fatalf("unexpected emitter order %v", names)
	}
}
