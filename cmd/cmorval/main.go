// Command cmorval validates CMOR-named climate model output files
// before submission to a federated archive.
//
// Usage:
//
//	cmorval [flags] <directory | s3://bucket/prefix>
//
// The process exits 0 iff every candidate file passed, 1 when any file
// failed, and 2 on usage or configuration errors.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/hadproc/cmorval/cmorval"
	"github.com/hadproc/cmorval/internal/config"
	"github.com/hadproc/cmorval/internal/ncio"
	"github.com/hadproc/cmorval/internal/pipeline"
	"github.com/hadproc/cmorval/internal/report"
	"github.com/hadproc/cmorval/internal/source"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath   = flag.String("config", "", "path to a YAML run configuration")
		convention   = flag.String("convention", "", "naming convention: CMIP5 or CMIP6")
		cellMeasures = flag.Bool("cell-measures", false, "candidates are cell-measure files (no time axis expected)")
		workers      = flag.Int("workers", 0, "concurrent validation workers")
		checksum     = flag.String("checksum", "", "stamp results with a payload digest: md5 or sha256")
		jsonReport   = flag.String("report", "", "write a JSON run report to this path (.gz compresses)")
		parquetOut   = flag.String("parquet-report", "", "write a parquet issue table to this path")
		logFormat    = flag.String("log-format", "", "log output format: text or json")
		verbose      = flag.Bool("v", false, "debug logging (per-file pass messages)")
	)
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		cfg = loaded
	}
	applyFlags(&cfg, *convention, *cellMeasures, *workers, *checksum, *jsonReport, *parquetOut, *logFormat, *verbose)

	if flag.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "usage: cmorval [flags] <directory | s3://bucket/prefix>")
		return 2
	}
	if flag.NArg() == 1 {
		if err := applyTarget(&cfg, flag.Arg(0)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
	}
	if cfg.Source.Path == "" && cfg.Source.S3 == nil {
		fmt.Fprintln(os.Stderr, "usage: cmorval [flags] <directory | s3://bucket/prefix>")
		return 2
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := validate(ctx, cfg, logger)
	if err != nil {
		logger.Error("validation run failed", "error", err)
		return 2
	}

	if cfg.Report.JSON != "" {
		if err := report.WriteJSON(cfg.Report.JSON, summary); err != nil {
			logger.Error("could not write report", "error", err)
			return 2
		}
	}
	if cfg.Report.Parquet != "" {
		if err := report.WriteParquet(cfg.Report.Parquet, summary); err != nil {
			logger.Error("could not write parquet report", "error", err)
			return 2
		}
	}

	for _, res := range summary.Failures() {
		for _, issue := range res.Issues {
			fmt.Fprintf(os.Stderr, "FAIL %s: %s\n", res.Basename, issue.Error())
		}
	}
	fmt.Printf("%d files checked: %d passed, %d failed\n", summary.Total, summary.Passed, summary.Failed)

	if !summary.Pass {
		return 1
	}
	return 0
}

func validate(ctx context.Context, cfg config.Config, logger *slog.Logger) (*cmorval.RunSummary, error) {
	var files source.Iterator
	switch {
	case cfg.Source.S3 != nil:
		s3src, err := source.NewS3(ctx, source.S3Options{
			Bucket:     cfg.Source.S3.Bucket,
			Prefix:     cfg.Source.S3.Prefix,
			Region:     cfg.Source.S3.Region,
			Endpoint:   cfg.Source.S3.Endpoint,
			AccessKey:  cfg.Source.S3.AccessKey,
			SecretKey:  cfg.Source.S3.SecretKey,
			ScratchDir: cfg.Source.S3.ScratchDir,
		}, logger)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := s3src.RemoveScratch(); err != nil {
				logger.Warn("could not remove scratch dir", "error", err)
			}
		}()
		if files, err = s3src.List(ctx); err != nil {
			return nil, err
		}
	default:
		var err error
		if files, err = source.NewDir(cfg.Source.Path).List(ctx); err != nil {
			return nil, err
		}
	}

	opts := pipeline.Options{
		Convention:  cmorval.Convention(cfg.Convention),
		CellMeasure: cfg.CellMeasures,
	}
	switch cfg.Checksum {
	case "md5":
		opts.Checksum = cmorval.NewMD5Checksum()
	case "sha256":
		opts.Checksum = cmorval.NewSHA256Checksum()
	}

	reader := ncio.NewReader()
	pipe := pipeline.New(reader, reader, opts, logger)
	return pipeline.NewRunner(pipe, cfg.Workers, logger).Run(ctx, files)
}

func applyFlags(cfg *config.Config, convention string, cellMeasures bool, workers int, checksum, jsonReport, parquetOut, logFormat string, verbose bool) {
	if convention != "" {
		cfg.Convention = convention
	}
	if cellMeasures {
		cfg.CellMeasures = true
	}
	if workers > 0 {
		cfg.Workers = workers
	}
	if checksum != "" {
		cfg.Checksum = checksum
	}
	if jsonReport != "" {
		cfg.Report.JSON = jsonReport
	}
	if parquetOut != "" {
		cfg.Report.Parquet = parquetOut
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
}

// applyTarget interprets the positional argument as either an S3
// location or a local directory.
func applyTarget(cfg *config.Config, target string) error {
	if rest, ok := strings.CutPrefix(target, "s3://"); ok {
		bucket, prefix, _ := strings.Cut(rest, "/")
		if bucket == "" {
			return fmt.Errorf("malformed S3 target %q", target)
		}
		if cfg.Source.S3 == nil {
			cfg.Source.S3 = &config.S3Config{}
		}
		cfg.Source.S3.Bucket = bucket
		cfg.Source.S3.Prefix = prefix
		cfg.Source.Path = ""
		return nil
	}
	cfg.Source.Path = target
	cfg.Source.S3 = nil
	return nil
}

func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
