package subtitles

import (
	"fmt"
	"io"
	"math"
)

// SRTEmitter writes numbered SubRip cues.
type SRTEmitter struct{}

func (SRTEmitter) Name() string { return "srt" }

func (SRTEmitter) Encode(w io.Writer, subs []Subtitle) error {
	for i, sub := range subs {
		if _, err := fmt.Fprintf(w, "%d\n%s --> %s\n%s\n\n", i+1, FormatSRTTime(sub.Start), FormatSRTTime(sub.End), sub.Text); err != nil {
			return err
		}
	}
	return nil
}

// FormatSRTTime renders seconds as HH:MM:SS,mmm. Milliseconds are truncated,
// with a small tolerance so values like 3661.234 do not lose a millisecond
// to binary representation error. SubRip has no negative timestamps, so
// negative and NaN input render as zero.
func FormatSRTTime(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int64(math.Floor(seconds*1000 + 1e-6))
	hours := total / 3_600_000
	minutes := (total % 3_600_000) / 60_000
	secs := (total % 60_000) / 1000
	millis := total % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}
