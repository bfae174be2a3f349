package subtitles

import (
	"fmt"
	"io"
)

const textHeader = "# Auto-generated Subtitles\n" +
	"# Format: start_time | end_time | text\n" +
	"# You can edit this file before adding to video\n\n"

// TextEmitter writes "start | end | text" lines under a comment header.
type TextEmitter struct{}

func (TextEmitter) Name() string { return "txt" }

func (TextEmitter) Encode(w io.Writer, subs []Subtitle) error {
	if _, err := io.WriteString(w, textHeader); err != nil {
		return err
	}
	for _, sub := range subs {
		if _, err := fmt.Fprintf(w, "%.2f | %.2f | %s\n", sub.Start, sub.End, sub.Text); err != nil {
			return err
		}
	}
	return nil
}
