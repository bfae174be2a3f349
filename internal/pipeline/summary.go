package pipeline

import (
	"time"

	"subextract/internal/subtitles"
)

// Summary describes a completed run.
type Summary struct {
	Mode      string
	Count     int
	Offset    float64
	Outputs   []Output
	Elapsed   time.Duration
	CacheHit  bool
	Subtitles []subtitles.Subtitle
}

// Preview returns at most n leading subtitles.
func (s Summary) Preview(n int) []subtitles.Subtitle {
	if n <= 0 {
		return nil
	}
	return s.Subtitles[:min(n, len(s.Subtitles))]
}
