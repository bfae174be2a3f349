package subtitles

import (
	"fmt"
	"strings"

	"subextract/internal/services/whisper"
)

// Span is a piece of a segment on the raw transcript clock.
type Span struct {
	Text  string
	Start float64
	End   float64
}

// Policy decides how a segment is divided into subtitle spans.
type Policy interface {
	Name() string
	Split(seg whisper.Segment) []Span
}

// Policy names as accepted in configuration.
const (
	PolicyWord    = "word"
	PolicyPhrase  = "phrase"
	PolicySegment = "segment"
)

// NewPolicy resolves a configured mode into a Policy.
func NewPolicy(mode string, groupSize int) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case PolicyWord:
		return WordPolicy{}, nil
	case PolicyPhrase:
		if groupSize < 1 {
			return nil, fmt.Errorf("phrase group size must be at least 1, got %d", groupSize)
		}
		return PhrasePolicy{GroupSize: groupSize}, nil
	case PolicySegment, "":
		return SegmentPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown subtitle mode %q", mode)
	}
}

// WordPolicy emits one span per timed word, falling back to the whole
// segment when Whisper returned no word timings for it.
type WordPolicy struct{}

func (WordPolicy) Name() string { return PolicyWord }

func (WordPolicy) Split(seg whisper.Segment) []Span {
	if len(seg.Words) == 0 {
		return SegmentPolicy{}.Split(seg)
	}
	spans := make([]Span, 0, len(seg.Words))
	for _, w := range seg.Words {
		spans = append(spans, Span{Text: strings.TrimSpace(w.Word), Start: w.Start, End: w.End})
	}
	return spans
}

// PhrasePolicy groups GroupSize consecutive words and gives every group an
// equal slice of the segment duration.
type PhrasePolicy struct {
	GroupSize int
}

func (p PhrasePolicy) Name() string { return PolicyPhrase }

func (p PhrasePolicy) Split(seg whisper.Segment) []Span {
	size := p.GroupSize
	if size < 1 {
		size = 1
	}
	words := strings.Fields(seg.Text)
	groups := (len(words) + size - 1) / size
	if groups == 0 {
		return nil
	}
	slice := (seg.End - seg.Start) / float64(groups)
	spans := make([]Span, 0, groups)
	for i := 0; i < groups; i++ {
		lo := i * size
		hi := min(lo+size, len(words))
		end := seg.Start + float64(i+1)*slice
		if i == groups-1 {
			end = seg.End
		}
		spans = append(spans, Span{
			Text:  strings.Join(words[lo:hi], " "),
			Start: seg.Start + float64(i)*slice,
			End:   end,
		})
	}
	return spans
}

// SegmentPolicy emits each segment verbatim.
type SegmentPolicy struct{}

func (SegmentPolicy) Name() string { return PolicySegment }

func (SegmentPolicy) Split(seg whisper.Segment) []Span {
	return []Span{{Text: strings.TrimSpace(seg.Text), Start: seg.Start, End: seg.End}}
}
