package config

const (
	defaultVideoPath         = "video.mp4"
	defaultModel             = "large-v3"
	defaultLanguage          = "ar"
	defaultTask              = TaskTranscribe
	defaultInitialPrompt     = "A clear English translation of Quranic recitation."
	defaultNoSpeechThreshold = 0.6
	defaultTxtPath           = "subtitles.txt"
	defaultSRTPath           = "subtitles.srt"
	defaultJSONPath          = "subtitles.json"
	defaultAudioPath         = "temp_audio.wav"
	defaultPreviewCount      = 5
	defaultDelaySeconds      = 1.2
	defaultMode              = ModeSegment
	defaultPhraseGroupSize   = 2
	defaultCachePath         = "~/.cache/subextract/transcripts.db"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultHomeConfig        = "~/.config/subextract/config.toml"
	defaultWorkspaceConfig   = "subextract.toml"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Input: Input{
			VideoPath: defaultVideoPath,
		},
		Transcription: Transcription{
			Model:             defaultModel,
			Language:          defaultLanguage,
			Task:              defaultTask,
			InitialPrompt:     defaultInitialPrompt,
			NoSpeechThreshold: defaultNoSpeechThreshold,
		},
		Output: Output{
			TxtPath:      defaultTxtPath,
			SRTPath:      defaultSRTPath,
			JSONPath:     defaultJSONPath,
			AudioPath:    defaultAudioPath,
			PreviewCount: defaultPreviewCount,
		},
		Subtitles: Subtitles{
			DelaySeconds:    defaultDelaySeconds,
			Mode:            defaultMode,
			PhraseGroupSize: defaultPhraseGroupSize,
		},
		Cache: Cache{
			Path: defaultCachePath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
