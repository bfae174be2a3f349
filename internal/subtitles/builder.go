package subtitles

import (
	"context"
	"log/slog"

	"subextract/internal/logging"
	"subextract/internal/services/whisper"
)

// Builder converts segments into subtitles under a single policy.
type Builder struct {
	policy      Policy
	offset      float64
	diacritizer Diacritizer
	logger      *slog.Logger
}

// NewBuilder returns a builder that shifts every span by offset seconds.
func NewBuilder(policy Policy, offset float64, logger *slog.Logger) *Builder {
	if policy == nil {
		policy = SegmentPolicy{}
	}
	return &Builder{
		policy: policy,
		offset: offset,
		logger: logging.NewComponentLogger(logger, "subtitles"),
	}
}

// WithDiacritizer marks every subtitle text before it is stored.
func (b *Builder) WithDiacritizer(d Diacritizer) *Builder {
	b.diacritizer = d
	return b
}

// Policy returns the active granularity policy.
func (b *Builder) Policy() Policy {
	return b.policy
}

// Build returns subtitles in segment order, and word order within a segment.
func (b *Builder) Build(ctx context.Context, segments []whisper.Segment) []Subtitle {
	subs := make([]Subtitle, 0, len(segments))
	for _, seg := range segments {
		for _, span := range b.policy.Split(seg) {
			subs = append(subs, Subtitle{
				Text:     span.Text,
				Start:    round2(span.Start + b.offset),
				End:      round2(span.End + b.offset),
				Duration: round2(span.End - span.Start),
			})
		}
	}

	if b.diacritizer != nil && len(subs) > 0 {
		texts := make([]string, len(subs))
		for i, sub := range subs {
			texts[i] = sub.Text
		}
		marked := b.diacritizer.MarkAll(ctx, texts)
		if len(marked) == len(subs) {
			for i := range subs {
				subs[i].Text = marked[i]
			}
		}
	}

	b.logger.Debug("subtitles built",
		logging.String("mode", b.policy.Name()),
		logging.Int("segments", len(segments)),
		logging.Int("subtitles", len(subs)),
		logging.Float64("offset_seconds", b.offset),
		logging.Bool("diacritics", b.diacritizer != nil),
	)
	return subs
}
