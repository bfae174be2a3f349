package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"subextract/internal/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateInput(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	if err := c.validateSubtitles(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateInput() error {
	if strings.TrimSpace(c.Input.VideoPath) == "" {
		return errors.New("input.video_path must be set (or export SUBEXTRACT_VIDEO)")
	}
	return nil
}

func (c *Config) validateTranscription() error {
	switch c.Transcription.Task {
	case TaskTranscribe, TaskTranslate:
	default:
		return fmt.Errorf("transcription.task: unsupported value %q (want %q or %q)", c.Transcription.Task, TaskTranscribe, TaskTranslate)
	}
	if _, err := language.WhisperCode(c.Transcription.Language); err != nil {
		return fmt.Errorf("transcription.language: %w", err)
	}
	if c.Transcription.NoSpeechThreshold < 0 || c.Transcription.NoSpeechThreshold > 1 {
		return errors.New("transcription.no_speech_threshold must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateOutput() error {
	paths := map[string]string{
		"output.txt_path":   c.Output.TxtPath,
		"output.srt_path":   c.Output.SRTPath,
		"output.json_path":  c.Output.JSONPath,
		"output.audio_path": c.Output.AudioPath,
	}
	seen := make(map[string]string, len(paths))
	for _, key := range []string{"output.txt_path", "output.srt_path", "output.json_path", "output.audio_path"} {
		value := paths[key]
		if value == "" {
			return fmt.Errorf("%s must be set", key)
		}
		abs, err := filepath.Abs(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if other, ok := seen[abs]; ok {
			return fmt.Errorf("%s and %s point at the same file %q", other, key, value)
		}
		seen[abs] = key
	}
	if c.Output.PreviewCount < 0 {
		return errors.New("output.preview_count must be zero or positive")
	}
	return nil
}

func (c *Config) validateSubtitles() error {
	switch c.Subtitles.Mode {
	case ModeWord, ModePhrase, ModeSegment:
	default:
		return fmt.Errorf("subtitles.mode: unsupported value %q (want word, phrase, or segment)", c.Subtitles.Mode)
	}
	if c.SubtitleMode() == ModePhrase && c.Subtitles.PhraseGroupSize < 1 {
		return errors.New("subtitles.phrase_group_size must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
