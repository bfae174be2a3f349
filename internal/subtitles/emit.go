package subtitles

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Emitter serialises subtitles in one output format.
type Emitter interface {
	Name() string
	Encode(w io.Writer, subs []Subtitle) error
}

// Emitters returns the three output formats in their conventional order.
func Emitters() []Emitter {
	return []Emitter{TextEmitter{}, SRTEmitter{}, JSONEmitter{}}
}

// WriteFile encodes subs into a temporary file beside path and renames it
// into place, replacing any previous output.
func WriteFile(path string, emitter Emitter, subs []Subtitle) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	buf := bufio.NewWriter(tmp)
	if err := emitter.Encode(buf, subs); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encode %s: %w", emitter.Name(), err)
	}
	if err := buf.Flush(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", emitter.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
