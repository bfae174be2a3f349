package whisper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"subextract/internal/language"
	"subextract/internal/logging"
	"subextract/internal/services"
)

// Word represents a single word with timing from Whisper output.
type Word struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Segment represents a transcribed segment from Whisper JSON output.
// Words is nil when word timestamps were not requested.
type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Words []Word  `json:"words,omitempty"`
}

// Result contains the decoded transcript.
type Result struct {
	Language string    `json:"language"`
	Segments []Segment `json:"segments"`
}

// WordCount returns the number of timed words across all segments.
func (r Result) WordCount() int {
	total := 0
	for _, seg := range r.Segments {
		total += len(seg.Words)
	}
	return total
}

// Service provides Whisper transcription capabilities.
type Service struct {
	cfg     Config
	logger  *slog.Logger
	run     services.CommandRunner
	tempDir string
}

// NewService creates a Whisper service with the given configuration.
func NewService(cfg Config, logger *slog.Logger) *Service {
	return &Service{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "whisper"),
		run:    runWhisper,
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner services.CommandRunner) {
	s.run = runner
}

// WithTempDir sets the parent directory for scratch output (for testing).
func (s *Service) WithTempDir(dir string) {
	s.tempDir = dir
}

// Model returns the configured model name for logging.
func (s *Service) Model() string {
	if s.cfg.Model != "" {
		return s.cfg.Model
	}
	return DefaultModel
}

// Device returns the inference device Whisper is launched with.
func (s *Service) Device() string {
	if s.cfg.CUDAEnabled {
		return CUDADevice
	}
	return CPUDevice
}

// Transcribe runs Whisper on a WAV file and returns its segments. The call
// blocks until Whisper exits; no timeout is applied beyond ctx.
func (s *Service) Transcribe(ctx context.Context, audioPath string, opts Options) (Result, error) {
	if strings.TrimSpace(audioPath) == "" {
		return Result{}, services.Wrap(services.ErrValidation, "transcribe", "whisper", "Audio path required", nil)
	}
	outputDir, err := os.MkdirTemp(s.tempDir, scratchPattern)
	if err != nil {
		return Result{}, services.Wrap(services.ErrTransient, "transcribe", "scratch dir", "Failed to create Whisper output directory", err)
	}
	defer os.RemoveAll(outputDir)

	args, err := s.buildArgs(audioPath, outputDir, opts)
	if err != nil {
		return Result{}, services.Wrap(services.ErrConfiguration, "transcribe", "whisper args", "Invalid transcription options", err)
	}

	start := time.Now()
	s.logger.Info("transcribing audio",
		logging.String("model", s.Model()),
		logging.String("language", opts.Language),
		logging.String("language_name", language.DisplayName(opts.Language)),
		logging.String("task", opts.Task),
		logging.Bool("word_timestamps", opts.WordTimestamps),
	)
	if err := s.run(ctx, s.uvx(), args...); err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, "transcribe", "whisper", "Whisper transcription failed", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	result, err := LoadResult(filepath.Join(outputDir, baseName+".json"))
	if err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, "transcribe", "load transcript", "Whisper produced no readable transcript", err)
	}
	if !opts.WordTimestamps {
		for i := range result.Segments {
			result.Segments[i].Words = nil
		}
	}

	s.logger.Info("transcription complete",
		logging.Int("segments", len(result.Segments)),
		logging.Int("words", result.WordCount()),
		logging.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}

func (s *Service) uvx() string {
	if s.cfg.UVXBinary != "" {
		return s.cfg.UVXBinary
	}
	return UVXCommand
}

// buildArgs constructs the uvx command arguments for Whisper.
func (s *Service) buildArgs(audioPath, outputDir string, opts Options) ([]string, error) {
	lang, err := language.WhisperCode(opts.Language)
	if err != nil {
		return nil, err
	}
	task := strings.TrimSpace(opts.Task)
	if task == "" {
		task = "transcribe"
	}

	args := make([]string, 0, 40)
	if s.cfg.CUDAEnabled {
		args = append(args,
			"--index-url", CUDAIndexURL,
			"--extra-index-url", PypiIndexURL,
		)
	} else {
		args = append(args, "--index-url", PypiIndexURL)
	}

	args = append(args,
		"--from", Package,
		Command,
		audioPath,
		"--model", s.Model(),
		"--language", lang,
		"--task", task,
		"--output_dir", outputDir,
		"--output_format", OutputFormat,
		"--verbose", "False",
		"--word_timestamps", pyBool(opts.WordTimestamps),
		"--no_speech_threshold", strconv.FormatFloat(opts.NoSpeechThreshold, 'f', -1, 64),
		"--condition_on_previous_text", pyBool(opts.ConditionOnPreviousText),
	)
	if prompt := strings.TrimSpace(opts.InitialPrompt); prompt != "" {
		args = append(args, "--initial_prompt", prompt)
	}

	args = append(args, "--device", s.Device())
	if !s.cfg.CUDAEnabled {
		args = append(args, "--fp16", "False")
	}
	return args, nil
}

func pyBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}

// torchLegacyLoadEnv restores the torch.load default Whisper checkpoints
// need; Torch 2.6 switched it to weights_only=true.
const torchLegacyLoadEnv = "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD"

// runWhisper executes a command with the PyTorch environment Whisper needs.
func runWhisper(ctx context.Context, name string, args ...string) error {
	var env []string
	if os.Getenv(torchLegacyLoadEnv) == "" {
		env = []string{torchLegacyLoadEnv + "=1"}
	}
	return services.RunCommandWithEnv(ctx, env, name, args...)
}

// LoadResult loads segments from a Whisper JSON file.
func LoadResult(jsonPath string) (Result, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return Result{}, err
	}
	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return Result{}, fmt.Errorf("parse whisper json: %w", err)
	}
	return result, nil
}
