package subtitles

import (
	"context"
	"strconv"
)

// Subtitle is one timed line of output. Start and End carry the configured
// offset; Duration is measured on the raw transcript timing.
type Subtitle struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Duration float64 `json:"duration"`
}

// Diacritizer adds marks to a batch of lines and never fails; lines it
// cannot mark come back unchanged.
type Diacritizer interface {
	MarkAll(ctx context.Context, texts []string) []string
}

// round2 rounds to two decimal places, half to even on exact ties.
func round2(v float64) float64 {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		return v
	}
	return rounded
}
