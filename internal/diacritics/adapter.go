package diacritics

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"subextract/internal/logging"
)

// Skip reasons reported in Result.Reason.
const (
	ReasonEmpty         = "empty"
	ReasonAlreadyMarked = "already_marked"
	ReasonEngineFailed  = "engine_failed"
	ReasonMismatch      = "output_mismatch"
	ReasonCanceled      = "canceled"
)

// Result is the best-effort outcome for one line of text.
type Result struct {
	Text    string
	Applied bool
	Reason  string
}

// Adapter wraps an Engine and absorbs its failures.
type Adapter struct {
	engine Engine
	logger *slog.Logger
}

// NewAdapter returns an adapter over engine.
func NewAdapter(engine Engine, logger *slog.Logger) *Adapter {
	return &Adapter{
		engine: engine,
		logger: logging.NewComponentLogger(logger, "diacritics"),
	}
}

// Mark returns text with marks added, or text unchanged when marking fails.
func (a *Adapter) Mark(ctx context.Context, text string) string {
	return a.Diacritize(ctx, text).Text
}

// MarkAll marks a batch with a single engine call.
func (a *Adapter) MarkAll(ctx context.Context, texts []string) []string {
	results := a.DiacritizeAll(ctx, texts)
	out := make([]string, len(results))
	for i, res := range results {
		out[i] = res.Text
	}
	return out
}

// Diacritize marks a single line and reports the outcome.
func (a *Adapter) Diacritize(ctx context.Context, text string) Result {
	return a.DiacritizeAll(ctx, []string{text})[0]
}

// DiacritizeAll marks texts in one engine call. Lines that are empty or
// already marked are passed through without reaching the engine.
func (a *Adapter) DiacritizeAll(ctx context.Context, texts []string) []Result {
	results := make([]Result, len(texts))
	pending := make([]int, 0, len(texts))
	batch := make([]string, 0, len(texts))
	for i, text := range texts {
		results[i] = Result{Text: text}
		switch {
		case strings.TrimSpace(text) == "":
			results[i].Reason = ReasonEmpty
		case HasMarks(text):
			results[i].Reason = ReasonAlreadyMarked
		default:
			pending = append(pending, i)
			batch = append(batch, prepare(text))
		}
	}
	if len(batch) == 0 || a == nil || a.engine == nil {
		return results
	}

	marked, err := a.engine.Diacritize(ctx, batch)
	reason := ""
	switch {
	case err != nil && (errors.Is(err, context.Canceled) || ctx.Err() != nil):
		reason = ReasonCanceled
	case err != nil:
		reason = ReasonEngineFailed
	case len(marked) != len(batch):
		reason = ReasonMismatch
	}
	if reason != "" {
		a.logSkip(reason, len(batch), len(marked), err)
		for _, idx := range pending {
			results[idx].Reason = reason
		}
		return results
	}

	for j, idx := range pending {
		out := finish(marked[j])
		if strings.TrimSpace(out) == "" {
			results[idx].Reason = ReasonMismatch
			continue
		}
		results[idx] = Result{Text: out, Applied: true}
	}
	a.logger.Debug("diacritics applied", logging.Int("lines", len(batch)))
	return results
}

func (a *Adapter) logSkip(reason string, sent, received int, err error) {
	attrs := []logging.Attr{
		logging.String("reason", reason),
		logging.Int("lines", sent),
		logging.Int("received", received),
	}
	if err != nil {
		attrs = append(attrs, logging.Error(err))
	}
	if reason == ReasonCanceled {
		a.logger.Debug("diacritics skipped", logging.Args(attrs...)...)
		return
	}
	logging.WarnWithContext(a.logger, "diacritics skipped; keeping original text", "diacritics_skipped",
		append(attrs,
			logging.String(logging.FieldErrorHint, "verify uvx can install the mishkal package"),
			logging.String(logging.FieldImpact, "subtitles are written without harakat"),
		)...,
	)
}
