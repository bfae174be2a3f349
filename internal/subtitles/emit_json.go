package subtitles

import (
	"encoding/json"
	"io"
)

// JSONEmitter writes the subtitle list as an indented array with non-ASCII
// text left unescaped.
type JSONEmitter struct{}

func (JSONEmitter) Name() string { return "json" }

func (JSONEmitter) Encode(w io.Writer, subs []Subtitle) error {
	if subs == nil {
		subs = []Subtitle{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(subs)
}
