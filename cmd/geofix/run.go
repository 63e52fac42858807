package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/jonboulle/clockwork"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/geofix/internal/adapter/file"
	httpadapter "github.com/couchcryptid/geofix/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/geofix/internal/adapter/kafka"
	"github.com/couchcryptid/geofix/internal/adapter/sheet"
	"github.com/couchcryptid/geofix/internal/config"
	"github.com/couchcryptid/geofix/internal/domain"
	"github.com/couchcryptid/geofix/internal/observability"
	"github.com/couchcryptid/geofix/internal/pipeline"
	"github.com/couchcryptid/geofix/internal/region"
)

// runFlags override the matching environment settings when set.
type runFlags struct {
	input      string
	sheet      string
	boundaries string
	output     string
	geojson    string
	rejected   string
	overrides  string
}

func (f runFlags) apply(cfg *config.Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.InputPath, f.input)
	set(&cfg.InputSheet, f.sheet)
	set(&cfg.BoundariesPath, f.boundaries)
	set(&cfg.OutputPath, f.output)
	set(&cfg.GeoJSONPath, f.geojson)
	set(&cfg.RejectedPath, f.rejected)
	set(&cfg.OverridesPath, f.overrides)
}

func newRunCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Correct every record of the input and write the results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			f.apply(cfg)
			if err := cfg.ValidateRun(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg, cmd.OutOrStdout())
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.input, "input", "", "input sheet: .xlsx, .csv or .json (default $INPUT_PATH)")
	fl.StringVar(&f.sheet, "sheet", "", "workbook sheet name (default first sheet)")
	fl.StringVar(&f.boundaries, "boundaries", "", "region boundary GeoJSON (default $BOUNDARIES_PATH)")
	fl.StringVar(&f.output, "output", "", "accepted records JSON (default $OUTPUT_PATH)")
	fl.StringVar(&f.geojson, "geojson", "", "accepted records GeoJSON (default $GEOJSON_PATH)")
	fl.StringVar(&f.rejected, "rejected", "", "rejection report CSV (default $REJECTED_PATH)")
	fl.StringVar(&f.overrides, "overrides", "", "manual coordinate overrides JSON (default $OVERRIDES_PATH)")
	return cmd
}

func run(ctx context.Context, cfg *config.Config, stdout io.Writer) error {
	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	// Structural inputs are loaded first so a bad path fails before any lookup.
	ix, err := region.Load(cfg.BoundariesPath)
	if err != nil {
		return fmt.Errorf("load boundaries: %w", err)
	}
	metrics.RegionsIndexed.Set(float64(ix.Len()))
	logger.Info("region index loaded", "path", cfg.BoundariesPath, "regions", ix.Len())

	src, err := sheet.Open(cfg.InputPath, cfg.InputSheet)
	if err != nil {
		return err
	}

	var overrides domain.Overrides
	if cfg.OverridesPath != "" {
		if overrides, err = file.LoadOverrides(cfg.OverridesPath); err != nil {
			return err
		}
		logger.Info("manual overrides loaded", "count", len(overrides))
	}

	words, err := domain.HemisphereWordsFor(cfg.CoordLanguage)
	if err != nil {
		return err
	}
	parser := domain.NewParser(words, cfg.UnmarkedPolicy)

	place, closeLookup, err := newPlaceLookup(ctx, cfg, logger, metrics, clock)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeLookup(); err != nil {
			logger.Error("lookup store close error", "error", err)
		}
	}()

	loaders, closeLoaders := newLoaders(cfg, logger)
	defer closeLoaders()

	var opts []pipeline.Option
	if f, ok := stderrTerminal(); ok {
		opts = append(opts, pipeline.WithProgress(progressBar(f)))
	}
	corrector := domain.NewCorrector(parser, ix, place, cfg.RegionPrefix, logger)
	settings := pipeline.Settings{Bounds: cfg.Bounds, Overrides: overrides}
	p := pipeline.New(src, corrector, loaders, settings, logger, metrics, clock, opts...)

	if cfg.HTTPAddr != "" {
		srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger, httpadapter.WithStatus(func() any { return p.Status() }))
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("http server shutdown error", "error", err)
			}
		}()
	}

	report, err := p.Run(ctx)
	if err != nil {
		return err
	}
	return printReport(stdout, report)
}

// newLoaders builds the sinks selected by cfg. The returned func closes
// the ones holding connections.
func newLoaders(cfg *config.Config, logger *slog.Logger) (pipeline.Loaders, func()) {
	loaders := pipeline.Loaders{file.NewJSONSink(cfg.OutputPath)}
	if cfg.GeoJSONPath != "" {
		loaders = append(loaders, file.NewGeoJSONSink(cfg.GeoJSONPath))
	}
	if cfg.RejectedPath != "" {
		loaders = append(loaders, file.NewRejectedCSV(cfg.RejectedPath))
	}
	if !cfg.KafkaEnabled {
		return loaders, func() {}
	}

	writer := kafkaadapter.NewWriter(cfg, logger)
	loaders = append(loaders, writer)
	return loaders, func() {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
}

func stderrTerminal() (*os.File, bool) {
	fd := os.Stderr.Fd()
	return os.Stderr, isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// progressBar draws a bar on w. The bar is created on the first update,
// once the record count is known.
func progressBar(w io.Writer) func(done, total int) {
	var bar *progressbar.ProgressBar
	return func(done, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription("Correcting"),
				progressbar.OptionSetWriter(w),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		}
		_ = bar.Set(done)
	}
}

// printReport prints the rejection table followed by the record counts.
func printReport(w io.Writer, r *pipeline.Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if len(r.Rejected) > 0 {
		fmt.Fprintln(tw, "Rejected records:")
		fmt.Fprintln(tw, "ROW\tAPÓLICE\tNUMERO_PI\tMUNICIPIO\tUF\tCORRECTION\tREASON")
		for _, rj := range r.Rejected {
			rec := rj.Record
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				rec.Row, rec.PolicyID, rec.ProposalID, rec.Place, rec.Region, rec.Tag, rj.Reason)
		}
		fmt.Fprintln(tw)
	}
	for _, tag := range domain.Tags {
		if n := r.ByTag[tag]; n > 0 {
			fmt.Fprintf(tw, "%s\t%d\n", tag, n)
		}
	}
	fmt.Fprintf(tw, "initial records\t%d\n", r.Initial)
	fmt.Fprintf(tw, "final records\t%d\n", r.Final)
	return tw.Flush()
}
