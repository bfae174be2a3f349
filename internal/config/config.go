package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Transcription task values accepted by Whisper.
const (
	TaskTranscribe = "transcribe"
	TaskTranslate  = "translate"
)

// Subtitle granularity modes.
const (
	ModeWord    = "word"
	ModePhrase  = "phrase"
	ModeSegment = "segment"
)

// Input contains the source video location.
type Input struct {
	VideoPath string `toml:"video_path"`
}

// Transcription contains Whisper model and decoding settings.
type Transcription struct {
	Model                   string  `toml:"model"`
	Language                string  `toml:"language"`
	Task                    string  `toml:"task"`
	InitialPrompt           string  `toml:"initial_prompt"`
	NoSpeechThreshold       float64 `toml:"no_speech_threshold"`
	ConditionOnPreviousText bool    `toml:"condition_on_previous_text"`
	CUDAEnabled             bool    `toml:"cuda_enabled"`
}

// Output contains destination paths for the subtitle files and the
// intermediate audio track.
type Output struct {
	TxtPath      string `toml:"txt_path"`
	SRTPath      string `toml:"srt_path"`
	JSONPath     string `toml:"json_path"`
	AudioPath    string `toml:"audio_path"`
	PreviewCount int    `toml:"preview_count"`
}

// Subtitles contains the subtitle shaping policy.
type Subtitles struct {
	DelaySeconds float64 `toml:"delay_seconds"`
	Mode         string  `toml:"mode"`
	// WordLevel is the legacy switch; when true it overrides Mode with "word".
	WordLevel       bool `toml:"word_level"`
	PhraseGroupSize int  `toml:"phrase_group_size"`
}

// Diacritics controls harakat insertion.
type Diacritics struct {
	Enabled bool `toml:"enabled"`
}

// Cache controls the optional transcript cache.
type Cache struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	File   string `toml:"file"`
}

// Config encapsulates all configuration values for subextract.
//
// Configuration sections:
//   - Input: the video to process
//   - Transcription: Whisper model, language tag, task, decoding knobs
//   - Output: the three subtitle files plus the intermediate audio path
//   - Subtitles: time offset and granularity policy
//   - Diacritics: optional harakat insertion
//   - Cache: optional SQLite transcript cache
//   - Logging: log format, level, and optional file
type Config struct {
	Input         Input         `toml:"input"`
	Transcription Transcription `toml:"transcription"`
	Output        Output        `toml:"output"`
	Subtitles     Subtitles     `toml:"subtitles"`
	Diacritics    Diacritics    `toml:"diacritics"`
	Cache         Cache         `toml:"cache"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultHomeConfig)
}

// Load locates, parses, and validates a configuration file. Missing files are
// not an error: defaults are used and exists reports false.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(defaultWorkspaceConfig)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// SubtitleMode returns the effective granularity policy name.
func (c *Config) SubtitleMode() string {
	if c.Subtitles.WordLevel {
		return ModeWord
	}
	return c.Subtitles.Mode
}

// WordTimestamps reports whether Whisper must emit per-word timing.
func (c *Config) WordTimestamps() bool {
	return c.SubtitleMode() == ModeWord
}

// FFmpegBinary returns the ffmpeg executable name used for audio extraction.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

// UVXBinary returns the uvx executable used to launch Whisper and Mishkal.
func (c *Config) UVXBinary() string {
	return "uvx"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
