package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeInput()
	c.normalizeTranscription()
	c.normalizeOutput()
	c.normalizeSubtitles()
	if err := c.normalizeCache(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeInput() {
	if value, ok := os.LookupEnv("SUBEXTRACT_VIDEO"); ok && strings.TrimSpace(value) != "" {
		c.Input.VideoPath = value
	}
	c.Input.VideoPath = cleanRelative(c.Input.VideoPath)
}

func (c *Config) normalizeTranscription() {
	c.Transcription.Model = strings.TrimSpace(c.Transcription.Model)
	if c.Transcription.Model == "" {
		c.Transcription.Model = defaultModel
	}
	c.Transcription.Language = strings.TrimSpace(c.Transcription.Language)
	if c.Transcription.Language == "" {
		c.Transcription.Language = defaultLanguage
	}
	c.Transcription.Task = strings.ToLower(strings.TrimSpace(c.Transcription.Task))
	if c.Transcription.Task == "" {
		c.Transcription.Task = defaultTask
	}
	c.Transcription.InitialPrompt = strings.TrimSpace(c.Transcription.InitialPrompt)
}

func (c *Config) normalizeOutput() {
	c.Output.TxtPath = cleanRelative(c.Output.TxtPath)
	c.Output.SRTPath = cleanRelative(c.Output.SRTPath)
	c.Output.JSONPath = cleanRelative(c.Output.JSONPath)
	c.Output.AudioPath = cleanRelative(c.Output.AudioPath)
	if c.Output.AudioPath == "" {
		c.Output.AudioPath = defaultAudioPath
	}
}

func (c *Config) normalizeSubtitles() {
	c.Subtitles.Mode = strings.ToLower(strings.TrimSpace(c.Subtitles.Mode))
	if c.Subtitles.Mode == "" {
		c.Subtitles.Mode = defaultMode
	}
}

func (c *Config) normalizeCache() error {
	if strings.TrimSpace(c.Cache.Path) == "" {
		c.Cache.Path = defaultCachePath
	}
	var err error
	if c.Cache.Path, err = expandPath(strings.TrimSpace(c.Cache.Path)); err != nil {
		return fmt.Errorf("cache.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.File) != "" {
		var err error
		if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
	}
	return nil
}

// cleanRelative trims and cleans a path without making it absolute, so
// relative outputs stay relative to the working directory of the run.
func cleanRelative(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if strings.HasPrefix(value, "~") {
		if expanded, err := expandPath(value); err == nil {
			return expanded
		}
	}
	return filepath.Clean(value)
}
