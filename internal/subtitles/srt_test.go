package subtitles

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseSRTTimestamp(t *testing.T) {
	cases := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"01:01:01,234", 3661.234, false},
		{"00:00:01.500", 1.5, false},
		{" 00:02:00,000 ", 120, false},
		{"", 0, true},
		{"1:2", 0, true},
		{"aa:00:00,000", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseSRTTimestamp(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseSRTTimestamp(%q) expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseSRTTimestamp(%q) returned error: %v", tc.in, err)
		}
		if !approxEqual(got, tc.want) {
			t.Fatalf("ParseSRTTimestamp(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestFormatAndParseAgree(t *testing.T) {
	for _, v := range []float64{0, 1.2, 59.99, 3661.23, 7322.5} {
		got, err := ParseSRTTimestamp(FormatSRTTime(v))
		if err != nil {
			t.Fatalf("parse %v: %v", v, err)
		}
		if !approxEqual(got, v) {
			t.Fatalf("format/parse mismatch for %v: %v", v, got)
		}
	}
}

func TestValidateSRT(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.srt")
	subs := sampleSubtitles()
	if err := WriteFile(path, SRTEmitter{}, subs); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if issues := ValidateSRT(path, len(subs)); len(issues) != 0 {
		t.Fatalf("expected clean validation, got %v", issues)
	}
	if count, err := CountSRTCues(path); err != nil || count != 2 {
		t.Fatalf("CountSRTCues = %d, %v", count, err)
	}

	issues := ValidateSRT(path, 3)
	if len(issues) != 1 || !strings.HasPrefix(issues[0], "cue_count_mismatch") {
		t.Fatalf("expected cue count mismatch, got %v", issues)
	}

	broken := filepath.Join(dir, "broken.srt")
	if err := os.WriteFile(broken, []byte("1\n00:00:01 --> 00:00:02,000\nhi\n\n"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	issues = ValidateSRT(broken, 1)
	if len(issues) != 1 || !strings.HasPrefix(issues[0], "timestamp_parse_error") {
		t.Fatalf("expected timestamp issue, got %v", issues)
	}

	if issues := ValidateSRT(filepath.Join(dir, "missing.srt"), 1); len(issues) != 1 || !strings.HasPrefix(issues[0], "read_error") {
		t.Fatalf("expected read error, got %v", issues)
	}
}
