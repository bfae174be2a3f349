package pipeline

import (
	"subextract/internal/config"
	"subextract/internal/services/whisper"
)

// Output pairs a subtitle format with its destination path.
type Output struct {
	Format string
	Path   string
}

// Config is the immutable run configuration handed to New.
type Config struct {
	VideoPath string
	AudioPath string
	Outputs   []Output
	Mode      string
	GroupSize int
	Offset    float64
	Options   whisper.Options
}

// FromConfig flattens the loaded configuration into a pipeline Config.
func FromConfig(cfg *config.Config) Config {
	return Config{
		VideoPath: cfg.Input.VideoPath,
		AudioPath: cfg.Output.AudioPath,
		Outputs: []Output{
			{Format: "txt", Path: cfg.Output.TxtPath},
			{Format: "srt", Path: cfg.Output.SRTPath},
			{Format: "json", Path: cfg.Output.JSONPath},
		},
		Mode:      cfg.SubtitleMode(),
		GroupSize: cfg.Subtitles.PhraseGroupSize,
		Offset:    cfg.Subtitles.DelaySeconds,
		Options: whisper.Options{
			Language:                cfg.Transcription.Language,
			Task:                    cfg.Transcription.Task,
			WordTimestamps:          cfg.WordTimestamps(),
			InitialPrompt:           cfg.Transcription.InitialPrompt,
			NoSpeechThreshold:       cfg.Transcription.NoSpeechThreshold,
			ConditionOnPreviousText: cfg.Transcription.ConditionOnPreviousText,
		},
	}
}
