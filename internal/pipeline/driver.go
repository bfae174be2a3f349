package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"subextract/internal/fileutil"
	"subextract/internal/logging"
	"subextract/internal/services"
	"subextract/internal/services/whisper"
	"subextract/internal/subtitles"
	"subextract/internal/transcriptcache"
)

// Phase names, in execution order.
const (
	PhaseLocateVideo    = "locate-video"
	PhaseExtractAudio   = "extract-audio"
	PhaseTranscribe     = "transcribe"
	PhaseBuildSubtitles = "build-subtitles"
	PhaseEmitAll        = "emit-all"
	PhaseCleanup        = "cleanup"
)

// Driver runs the pipeline once per Run call.
type Driver struct {
	cfg      Config
	deps     Deps
	policy   subtitles.Policy
	emitters map[string]subtitles.Emitter
	logger   *slog.Logger
}

// New validates cfg and binds it to deps.
func New(cfg Config, deps Deps) (*Driver, error) {
	if deps.Extractor == nil || deps.Transcriber == nil {
		return nil, services.Wrap(services.ErrConfiguration, "setup", "pipeline", "Audio extractor and transcriber are required", nil)
	}
	if strings.TrimSpace(cfg.AudioPath) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "setup", "pipeline", "Intermediate audio path is required", nil)
	}
	policy, err := subtitles.NewPolicy(cfg.Mode, cfg.GroupSize)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "setup", "subtitle policy", "Invalid subtitle mode", err)
	}
	emitters := make(map[string]subtitles.Emitter)
	for _, e := range subtitles.Emitters() {
		emitters[e.Name()] = e
	}
	for _, out := range cfg.Outputs {
		if _, ok := emitters[out.Format]; !ok {
			return nil, services.Wrap(services.ErrConfiguration, "setup", "outputs", fmt.Sprintf("Unknown output format %q", out.Format), nil)
		}
	}
	if deps.Hasher == nil {
		deps.Hasher = fileutil.HashFile
	}
	return &Driver{
		cfg:      cfg,
		deps:     deps,
		policy:   policy,
		emitters: emitters,
		logger:   logging.NewComponentLogger(deps.Logger, "pipeline"),
	}, nil
}

// Run executes every phase and returns a summary on success. The
// intermediate audio file is removed before Run returns whenever it was
// created.
func (d *Driver) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	summary := Summary{
		Mode:    d.policy.Name(),
		Offset:  d.cfg.Offset,
		Outputs: d.cfg.Outputs,
	}
	logger := logging.WithContext(ctx, d.logger)

	if err := d.phase(ctx, PhaseLocateVideo, services.ErrNotFound, d.locateVideo); err != nil {
		return summary, d.fail(ctx, PhaseLocateVideo, err)
	}

	unlock, err := d.lockAudio(ctx)
	if err != nil {
		return summary, d.fail(ctx, PhaseExtractAudio, err)
	}
	defer unlock()
	defer d.cleanup(ctx)

	result, hit, key := d.lookupCache(ctx)
	summary.CacheHit = hit
	if !hit {
		if err := d.phase(ctx, PhaseExtractAudio, services.ErrExternalTool, func(ctx context.Context) error {
			_, err := d.deps.Extractor.Extract(ctx, d.cfg.VideoPath, d.cfg.AudioPath)
			return err
		}); err != nil {
			return summary, d.fail(ctx, PhaseExtractAudio, err)
		}
		if err := d.phase(ctx, PhaseTranscribe, services.ErrExternalTool, func(ctx context.Context) error {
			var err error
			result, err = d.deps.Transcriber.Transcribe(ctx, d.cfg.AudioPath, d.cfg.Options)
			return err
		}); err != nil {
			return summary, d.fail(ctx, PhaseTranscribe, err)
		}
		d.storeCache(ctx, key, result)
	}

	var subs []subtitles.Subtitle
	if err := d.phase(ctx, PhaseBuildSubtitles, services.ErrValidation, func(ctx context.Context) error {
		builder := subtitles.NewBuilder(d.policy, d.cfg.Offset, d.deps.Logger)
		if d.deps.Diacritizer != nil {
			builder.WithDiacritizer(d.deps.Diacritizer)
		}
		subs = builder.Build(ctx, result.Segments)
		return ctx.Err()
	}); err != nil {
		return summary, d.fail(ctx, PhaseBuildSubtitles, err)
	}
	summary.Count = len(subs)
	summary.Subtitles = subs

	if err := d.phase(ctx, PhaseEmitAll, services.ErrConfiguration, func(ctx context.Context) error {
		return d.emitAll(ctx, subs)
	}); err != nil {
		return summary, d.fail(ctx, PhaseEmitAll, err)
	}

	summary.Elapsed = time.Since(start)
	logger.Info("subtitles generated",
		logging.String(logging.FieldEventType, "pipeline_complete"),
		logging.String("mode", summary.Mode),
		logging.Int("subtitles", summary.Count),
		logging.Float64("offset_seconds", summary.Offset),
		logging.Bool("cache_hit", summary.CacheHit),
		logging.Duration("elapsed", summary.Elapsed),
	)
	return summary, nil
}

// phase runs fn with the phase name attached to ctx. Errors that do not
// already carry a sentinel marker are wrapped with marker.
func (d *Driver) phase(ctx context.Context, name string, marker error, fn func(context.Context) error) error {
	phaseCtx := services.WithStage(ctx, name)
	logger := logging.WithContext(phaseCtx, d.logger)
	start := time.Now()
	logger.Debug("phase started", logging.String(logging.FieldEventType, "phase_start"))

	if err := fn(phaseCtx); err != nil {
		if !services.Marked(err) {
			err = services.Wrap(marker, name, "", "", err)
		}
		return err
	}

	logger.Info("phase completed",
		logging.String(logging.FieldEventType, "phase_complete"),
		logging.Duration("elapsed", time.Since(start)),
	)
	return nil
}

func (d *Driver) fail(ctx context.Context, phase string, err error) error {
	logger := logging.WithContext(services.WithStage(ctx, phase), d.logger)
	if errors.Is(err, context.Canceled) || ctx.Err() != nil {
		logger.Info("run interrupted", logging.String(logging.FieldEventType, "pipeline_interrupted"))
		return err
	}
	logging.ErrorWithContext(logger, "run failed", "pipeline_failure",
		logging.String("error_category", services.Category(err)),
		logging.Any("error_chain", services.Chain(err)),
		logging.String(logging.FieldErrorHint, hintFor(err)),
		logging.Error(err),
	)
	return err
}

func hintFor(err error) string {
	switch services.Category(err) {
	case "not_found":
		return "check input.video_path or set SUBEXTRACT_VIDEO"
	case "external_tool":
		return "run 'subextract check' to verify ffmpeg and uvx"
	case "configuration":
		return "run 'subextract config validate'"
	default:
		return "check logs for details"
	}
}

func (d *Driver) locateVideo(context.Context) error {
	path := strings.TrimSpace(d.cfg.VideoPath)
	if path == "" {
		return services.Wrap(services.ErrNotFound, PhaseLocateVideo, "stat video", "No video path configured", nil)
	}
	ok, err := fileutil.RegularFileExists(path)
	if err != nil {
		return services.Wrap(services.ErrNotFound, PhaseLocateVideo, "stat video", fmt.Sprintf("Cannot access video %q", path), err)
	}
	if !ok {
		return services.Wrap(services.ErrNotFound, PhaseLocateVideo, "stat video", fmt.Sprintf("Video file not found: %s", path), nil)
	}
	return nil
}

// lockAudio takes an exclusive lock beside the intermediate audio path so
// concurrent runs in one directory cannot overwrite each other's audio.
func (d *Driver) lockAudio(ctx context.Context) (func(), error) {
	lockPath := d.cfg.AudioPath + ".lock"
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, PhaseExtractAudio, "lock audio", "Failed to lock intermediate audio path", err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrConfiguration, PhaseExtractAudio, "lock audio",
			fmt.Sprintf("Another run is using %s", d.cfg.AudioPath), nil)
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			logging.WithContext(ctx, d.logger).Debug("audio lock release failed", logging.Error(err))
		}
		removeBestEffort(ctx, d.logger, lockPath)
	}, nil
}

func (d *Driver) cleanup(ctx context.Context) {
	removeBestEffort(services.WithStage(ctx, PhaseCleanup), d.logger, d.cfg.AudioPath)
}

func (d *Driver) lookupCache(ctx context.Context) (whisper.Result, bool, transcriptcache.Key) {
	if d.deps.Cache == nil {
		return whisper.Result{}, false, transcriptcache.Key{}
	}
	logger := logging.WithContext(services.WithStage(ctx, PhaseTranscribe), d.logger)
	hash, err := d.deps.Hasher(d.cfg.VideoPath)
	if err != nil {
		logging.WarnWithContext(logger, "transcript cache disabled for this run", "cache_hash_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "audio will be extracted and transcribed"),
		)
		return whisper.Result{}, false, transcriptcache.Key{}
	}
	opts := d.cfg.Options
	key := transcriptcache.Key{
		VideoHash:               hash,
		Model:                   d.deps.Transcriber.Model(),
		Language:                opts.Language,
		Task:                    opts.Task,
		WordTimestamps:          opts.WordTimestamps,
		InitialPrompt:           opts.InitialPrompt,
		NoSpeechThreshold:       opts.NoSpeechThreshold,
		ConditionOnPreviousText: opts.ConditionOnPreviousText,
		Device:                  d.deps.Transcriber.Device(),
	}
	result, ok, err := d.deps.Cache.Lookup(ctx, key)
	if err != nil {
		logging.WarnWithContext(logger, "transcript cache lookup failed", "cache_lookup_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "audio will be extracted and transcribed"),
		)
		return whisper.Result{}, false, key
	}
	decision, reason := "miss", "no_entry"
	if ok {
		decision, reason = "hit", "video_hash_and_settings_match"
	}
	logger.Info("transcript cache decision",
		logging.Args(logging.DecisionAttrs("transcript_cache", decision, reason)...)...)
	return result, ok, key
}

func (d *Driver) storeCache(ctx context.Context, key transcriptcache.Key, result whisper.Result) {
	if d.deps.Cache == nil || key.VideoHash == "" {
		return
	}
	if err := d.deps.Cache.Save(ctx, key, result); err != nil {
		logging.WarnWithContext(logging.WithContext(services.WithStage(ctx, PhaseTranscribe), d.logger),
			"transcript cache write failed", "cache_save_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "next run will transcribe again"),
		)
	}
}

// emitAll writes every configured output. A failing format does not stop
// the others; all failures are joined into the returned error.
func (d *Driver) emitAll(ctx context.Context, subs []subtitles.Subtitle) error {
	logger := logging.WithContext(ctx, d.logger)
	var errs []error
	for _, out := range d.cfg.Outputs {
		emitter := d.emitters[out.Format]
		if err := subtitles.WriteFile(out.Path, emitter, subs); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", out.Path, err))
			continue
		}
		logger.Info("subtitle file written",
			logging.String("format", out.Format),
			logging.String("path", out.Path),
			logging.Int("subtitles", len(subs)),
		)
		if out.Format == "srt" {
			if issues := subtitles.ValidateSRT(out.Path, len(subs)); len(issues) > 0 {
				logging.WarnWithContext(logger, "srt validation found issues", "srt_validation",
					logging.String("path", out.Path),
					logging.Any("issues", issues),
					logging.String(logging.FieldImpact, "players may show fewer cues than expected"),
				)
			}
		}
	}
	if len(errs) > 0 {
		return services.Wrap(services.ErrConfiguration, PhaseEmitAll, "write outputs", "Failed to write subtitle outputs", errors.Join(errs...))
	}
	return nil
}
