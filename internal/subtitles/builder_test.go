package subtitles

import (
	"context"
	"math"
	"strings"
	"testing"

	"subextract/internal/services/whisper"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func wordSegments() []whisper.Segment {
	return []whisper.Segment{
		{Start: 0, End: 2.5, Text: " بسم الله", Words: []whisper.Word{
			{Word: " بسم", Start: 0, End: 1.004},
			{Word: " الله", Start: 1.004, End: 2.5},
		}},
		{Start: 2.5, End: 5.333, Text: " الرحمن الرحيم", Words: []whisper.Word{
			{Word: " الرحمن", Start: 2.5, End: 3.7},
			{Word: " الرحيم", Start: 3.7, End: 5.333},
		}},
		{Start: 5.333, End: 7.0, Text: " ملك يوم الدين"},
	}
}

func TestWordPolicyCountsWordsAndFallsBackToSegments(t *testing.T) {
	subs := NewBuilder(WordPolicy{}, 0, nil).Build(context.Background(), wordSegments())
	if len(subs) != 5 {
		t.Fatalf("expected 4 words plus 1 segment fallback, got %d", len(subs))
	}
	if subs[0].Text != "بسم" || subs[4].Text != "ملك يوم الدين" {
		t.Fatalf("unexpected text: %q, %q", subs[0].Text, subs[4].Text)
	}

	plain := []whisper.Segment{{Start: 0, End: 1, Text: "a"}, {Start: 1, End: 2, Text: "b"}}
	if got := len(NewBuilder(WordPolicy{}, 0, nil).Build(context.Background(), plain)); got != len(plain) {
		t.Fatalf("expected one subtitle per segment without word timings, got %d", got)
	}
}

func TestBuilderAppliesOffsetAndRounding(t *testing.T) {
	const offset = 1.2
	segments := wordSegments()
	for _, policy := range []Policy{WordPolicy{}, SegmentPolicy{}} {
		subs := NewBuilder(policy, offset, nil).Build(context.Background(), segments)
		var spans []Span
		for _, seg := range segments {
			spans = append(spans, policy.Split(seg)...)
		}
		if len(spans) != len(subs) {
			t.Fatalf("%s: %d spans vs %d subtitles", policy.Name(), len(spans), len(subs))
		}
		for i, sub := range subs {
			if !approxEqual(sub.Start, round2(spans[i].Start+offset)) || !approxEqual(sub.End, round2(spans[i].End+offset)) {
				t.Fatalf("%s[%d]: got %v-%v for span %v", policy.Name(), i, sub.Start, sub.End, spans[i])
			}
			if !approxEqual(sub.Duration, round2(spans[i].End-spans[i].Start)) {
				t.Fatalf("%s[%d]: duration %v must use raw timing", policy.Name(), i, sub.Duration)
			}
		}
	}

	subs := NewBuilder(WordPolicy{}, offset, nil).Build(context.Background(), segments)
	if subs[0].End != 2.2 || subs[0].Duration != 1 {
		t.Fatalf("expected 1.004 to round to 2.2 with offset and duration 1, got %+v", subs[0])
	}
	if subs[3].End != 6.53 || subs[3].Duration != 1.63 {
		t.Fatalf("unexpected rounding: %+v", subs[3])
	}
}

func TestPhrasePolicyScenario(t *testing.T) {
	const offset = 1.2
	segments := []whisper.Segment{{Start: 0, End: 2, Text: "a b c d"}}
	subs := NewBuilder(PhrasePolicy{GroupSize: 2}, offset, nil).Build(context.Background(), segments)
	want := []Subtitle{
		{Text: "a b", Start: 1.2, End: 2.2, Duration: 1},
		{Text: "c d", Start: 2.2, End: 3.2, Duration: 1},
	}
	if len(subs) != len(want) {
		t.Fatalf("expected %d subtitles, got %d", len(want), len(subs))
	}
	for i := range want {
		if subs[i] != want[i] {
			t.Fatalf("subtitle %d = %+v, want %+v", i, subs[i], want[i])
		}
	}
}

func TestPhrasePolicyContiguity(t *testing.T) {
	cases := []struct {
		text  string
		size  int
		start float64
		end   float64
	}{
		{"one two three four five", 2, 3.1, 10.7},
		{"one two three", 1, 0, 1},
		{"solo", 4, 12.5, 13.25},
		{"a b c d e f g", 3, 100.01, 107.77},
	}
	for _, tc := range cases {
		seg := whisper.Segment{Start: tc.start, End: tc.end, Text: tc.text}
		spans := PhrasePolicy{GroupSize: tc.size}.Split(seg)
		words := len(strings.Fields(tc.text))
		k := (words + tc.size - 1) / tc.size
		if len(spans) != k {
			t.Fatalf("%q: expected %d groups, got %d", tc.text, k, len(spans))
		}
		slice := (tc.end - tc.start) / float64(k)
		if spans[0].Start != tc.start {
			t.Fatalf("%q: first group starts at %v", tc.text, spans[0].Start)
		}
		if spans[len(spans)-1].End != tc.end {
			t.Fatalf("%q: last group ends at %v", tc.text, spans[len(spans)-1].End)
		}
		for i, span := range spans {
			if !approxEqual(span.End-span.Start, slice) {
				t.Fatalf("%q[%d]: duration %v, want %v", tc.text, i, span.End-span.Start, slice)
			}
			if i > 0 && !approxEqual(span.Start, spans[i-1].End) {
				t.Fatalf("%q[%d]: gap between %v and %v", tc.text, i, spans[i-1].End, span.Start)
			}
		}
	}
}

func TestPhrasePolicyEmptyTextYieldsNothing(t *testing.T) {
	for _, text := range []string{"", "   "} {
		if spans := (PhrasePolicy{GroupSize: 2}).Split(whisper.Segment{Start: 1, End: 1, Text: text}); len(spans) != 0 {
			t.Fatalf("expected no spans for %q, got %v", text, spans)
		}
	}
}

type failingMarker struct{ calls int }

func (f *failingMarker) MarkAll(_ context.Context, texts []string) []string {
	f.calls++
	return texts
}

type suffixMarker struct{}

func (suffixMarker) MarkAll(_ context.Context, texts []string) []string {
	out := make([]string, len(texts))
	for i, text := range texts {
		out[i] = text + "!"
	}
	return out
}

func TestBuilderDiacritizer(t *testing.T) {
	segments := []whisper.Segment{{Start: 0, End: 1, Text: "كلمة"}}

	marker := &failingMarker{}
	subs := NewBuilder(WordPolicy{}, 0, nil).WithDiacritizer(marker).Build(context.Background(), segments)
	if marker.calls != 1 || subs[0].Text != "كلمة" {
		t.Fatalf("expected unchanged text from a failing diacritizer, got %+v", subs)
	}

	subs = NewBuilder(PhrasePolicy{GroupSize: 1}, 0, nil).WithDiacritizer(suffixMarker{}).Build(context.Background(),
		[]whisper.Segment{{Start: 0, End: 2, Text: "x y"}})
	if subs[0].Text != "x!" || subs[1].Text != "y!" {
		t.Fatalf("expected marked text, got %+v", subs)
	}
}

func TestNewPolicy(t *testing.T) {
	cases := []struct {
		mode    string
		size    int
		want    string
		wantErr bool
	}{
		{"word", 0, PolicyWord, false},
		{"Phrase", 3, PolicyPhrase, false},
		{"phrase", 0, "", true},
		{"segment", 0, PolicySegment, false},
		{"", 0, PolicySegment, false},
		{"sentence", 0, "", true},
	}
	for _, tc := range cases {
		policy, err := NewPolicy(tc.mode, tc.size)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("NewPolicy(%q, %d) expected error", tc.mode, tc.size)
			}
			continue
		}
		if err != nil {
			t.Fatalf("NewPolicy(%q, %d) returned error: %v", tc.mode, tc.size, err)
		}
		if policy.Name() != tc.want {
			t.Fatalf("NewPolicy(%q) = %s, want %s", tc.mode, policy.Name(), tc.want)
		}
	}
}

func TestRound2(t *testing.T) {
	cases := map[float64]float64{
		1.004:  1,
		1.005:  1,
		2.675:  2.67,
		6.533:  6.53,
		0.125:  0.12,
		-0.004: 0,
	}
	for in, want := range cases {
		if got := round2(in); got != want {
			t.Fatalf("round2(%v) = %v, want %v", in, got, want)
		}
	}
}
