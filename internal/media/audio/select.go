package audio

import (
	"subextract/internal/language"
	"subextract/internal/media/ffprobe"
)

// Selection identifies the audio stream chosen for transcription.
type Selection struct {
	// Ordinal is the position among audio streams, as used by ffmpeg's 0:a:N.
	Ordinal int
	Stream  ffprobe.Stream
	// Matched reports whether the stream's language tag matched the request.
	Matched bool
}

// Select picks the first audio stream tagged with lang. Without a tagged
// match the first audio stream wins; ok is false when there is no audio at all.
func Select(streams []ffprobe.Stream, lang string) (Selection, bool) {
	want := language.ToISO2(lang)
	first := -1
	ordinal := 0
	var fallback ffprobe.Stream
	for _, stream := range streams {
		if stream.CodecType != "audio" {
			continue
		}
		if first < 0 {
			first = ordinal
			fallback = stream
		}
		if want != "" && language.ToISO2(stream.Language()) == want {
			return Selection{Ordinal: ordinal, Stream: stream, Matched: true}, true
		}
		ordinal++
	}
	if first < 0 {
		return Selection{}, false
	}
	return Selection{Ordinal: first, Stream: fallback}, true
}
