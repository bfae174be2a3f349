package whisper

// Config captures runtime settings for Whisper invocations.
type Config struct {
	// Model is the Whisper model to use (e.g., "large-v3").
	Model string
	// CUDAEnabled enables GPU inference.
	CUDAEnabled bool
	// UVXBinary overrides the uvx launcher.
	UVXBinary string
}

// Options are the per-transcription decoding settings.
type Options struct {
	Language                string
	Task                    string
	WordTimestamps          bool
	InitialPrompt           string
	NoSpeechThreshold       float64
	ConditionOnPreviousText bool
}

// Whisper configuration constants.
const (
	DefaultModel   = "large-v3"
	Package        = "openai-whisper"
	Command        = "whisper"
	UVXCommand     = "uvx"
	OutputFormat   = "json"
	CPUDevice      = "cpu"
	CUDADevice     = "cuda"
	CUDAIndexURL   = "https://download.pytorch.org/whl/cu128"
	PypiIndexURL   = "https://pypi.org/simple"
	scratchPattern = "whisper-"
)
