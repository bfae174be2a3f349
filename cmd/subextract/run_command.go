package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"subextract/internal/logging"
	"subextract/internal/pipeline"
	"subextract/internal/services"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Extract audio, transcribe, and write subtitle files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, ctx)
		},
	}
}

func runPipeline(cmd *cobra.Command, cctx *commandContext) error {
	cfg, err := cctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	runID := uuid.NewString()
	ctx := services.WithRequestID(cmd.Context(), runID)
	logging.WithContext(ctx, logger).Debug("configuration loaded",
		logging.String("config_path", cctx.configPath),
		logging.Bool("config_exists", cctx.configExists),
		logging.String("video", cfg.Input.VideoPath),
		logging.String("mode", cfg.SubtitleMode()),
	)

	deps, closeDeps := pipeline.NewDeps(cfg, logger)
	defer func() {
		if err := closeDeps(); err != nil {
			logger.Debug("close pipeline dependencies", logging.Error(err))
		}
	}()

	driver, err := pipeline.New(pipeline.FromConfig(cfg), deps)
	if err != nil {
		return err
	}
	summary, err := driver.Run(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	renderPreview(out, summary, cfg.Output.PreviewCount, colorize)
	renderSummary(out, summary, cfg.Cache.Enabled, colorize)
	return nil
}

func renderPreview(out io.Writer, summary pipeline.Summary, count int, colorize bool) {
	shown := summary.Preview(count)
	if len(shown) == 0 {
		return
	}
	rows := make([][]string, 0, len(shown))
	for i, sub := range shown {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%.1fs", sub.Start),
			fmt.Sprintf("%.1fs", sub.End),
			fmt.Sprintf("%.1fs", sub.Duration),
			sub.Text,
		})
	}
	title := fmt.Sprintf("Subtitle preview (first %d of %d)", len(shown), len(summary.Subtitles))
	fmt.Fprintln(out, renderTable(title, []string{"#", "Start", "End", "Duration", "Text"}, rows,
		[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignLeft}, colorize))
	if remaining := len(summary.Subtitles) - len(shown); remaining > 0 {
		fmt.Fprintf(out, "... and %d more subtitles\n", remaining)
	}
	fmt.Fprintln(out)
}

func renderSummary(out io.Writer, summary pipeline.Summary, cacheEnabled, colorize bool) {
	for _, line := range renderSectionHeader("Subtitles generated", colorize) {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintln(out, renderStatusLine("Mode", statusInfo, summary.Mode, colorize))
	countKind := statusOK
	if summary.Count == 0 {
		countKind = statusWarn
	}
	fmt.Fprintln(out, renderStatusLine("Subtitles", countKind, fmt.Sprintf("%d", summary.Count), colorize))
	fmt.Fprintln(out, renderStatusLine("Offset", statusInfo, fmt.Sprintf("%.2fs", summary.Offset), colorize))
	paths := make([]string, 0, len(summary.Outputs))
	for _, o := range summary.Outputs {
		paths = append(paths, o.Path)
	}
	fmt.Fprintln(out, renderStatusLine("Files", statusOK, strings.Join(paths, ", "), colorize))
	if cacheEnabled {
		fmt.Fprintln(out, renderStatusLine("Transcript cache hit", statusInfo, yesNo(summary.CacheHit), colorize))
	}
	fmt.Fprintln(out, renderStatusLine("Elapsed", statusInfo, summary.Elapsed.Round(100*time.Millisecond).String(), colorize))
}
