package pipeline

import (
	"context"
	"log/slog"
	"sync"

	"subextract/internal/config"
	"subextract/internal/diacritics"
	"subextract/internal/logging"
	"subextract/internal/media/audio"
	"subextract/internal/services"
	"subextract/internal/services/whisper"
	"subextract/internal/subtitles"
	"subextract/internal/transcriptcache"
)

// AudioExtractor writes the transcription audio track of a video.
type AudioExtractor interface {
	Extract(ctx context.Context, source, dest string) (string, error)
}

// Transcriber turns an audio file into timed segments.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string, opts whisper.Options) (whisper.Result, error)
	Model() string
	Device() string
}

// TranscriptCache stores transcripts between runs.
type TranscriptCache interface {
	Lookup(ctx context.Context, key transcriptcache.Key) (whisper.Result, bool, error)
	Save(ctx context.Context, key transcriptcache.Key, result whisper.Result) error
}

// Deps are the collaborators a Driver calls. Diacritizer and Cache are
// optional; nil disables the feature.
type Deps struct {
	Extractor   AudioExtractor
	Transcriber Transcriber
	Diacritizer subtitles.Diacritizer
	Cache       TranscriptCache
	Hasher      func(path string) (string, error)
	Logger      *slog.Logger
}

// NewDeps builds the production collaborators for cfg. The transcript
// cache is opened on first use, after the video has been located, so a run
// that fails early leaves no database behind. The returned closer releases
// the cache when it was opened.
func NewDeps(cfg *config.Config, logger *slog.Logger) (Deps, func() error) {
	deps := Deps{
		Extractor: audio.NewExtractor(cfg.FFmpegBinary(), cfg.Transcription.Language, logger),
		Transcriber: whisper.NewService(whisper.Config{
			Model:       cfg.Transcription.Model,
			CUDAEnabled: cfg.Transcription.CUDAEnabled,
			UVXBinary:   cfg.UVXBinary(),
		}, logger),
		Logger: logger,
	}
	if cfg.Diacritics.Enabled {
		deps.Diacritizer = diacritics.NewAdapter(diacritics.NewCommandEngine(cfg.UVXBinary()), logger)
	}

	closer := func() error { return nil }
	if cfg.Cache.Enabled {
		cache := &lazyCache{path: cfg.Cache.Path, logger: logger}
		deps.Cache = cache
		closer = cache.Close
	}
	return deps, closer
}

// lazyCache opens the SQLite transcript cache on the first Lookup or Save.
// An open failure is remembered and returned from every later call.
type lazyCache struct {
	path   string
	logger *slog.Logger

	once    sync.Once
	store   *transcriptcache.Store
	openErr error
}

func (c *lazyCache) open(ctx context.Context) (*transcriptcache.Store, error) {
	c.once.Do(func() {
		store, err := transcriptcache.Open(ctx, c.path, c.logger)
		if err != nil {
			c.openErr = services.Wrap(services.ErrConfiguration, PhaseTranscribe, "open transcript cache", "Failed to open transcript cache", err)
			return
		}
		c.store = store
		logging.NewComponentLogger(c.logger, "pipeline").Debug("transcript cache opened",
			logging.String("path", store.Path()))
	})
	return c.store, c.openErr
}

func (c *lazyCache) Lookup(ctx context.Context, key transcriptcache.Key) (whisper.Result, bool, error) {
	store, err := c.open(ctx)
	if err != nil {
		return whisper.Result{}, false, err
	}
	return store.Lookup(ctx, key)
}

func (c *lazyCache) Save(ctx context.Context, key transcriptcache.Key, result whisper.Result) error {
	store, err := c.open(ctx)
	if err != nil {
		return err
	}
	return store.Save(ctx, key, result)
}

// Close releases the database if it was opened.
func (c *lazyCache) Close() error {
	return c.store.Close()
}
