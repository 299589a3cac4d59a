// Merger reconciles the Amazon and Noon sales extracts of one workbook into
// a single summary sheet, driven entirely by its Column Relations sheet.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/revent-data/report-merger/pkg/audit"
	"github.com/revent-data/report-merger/pkg/config"
	"github.com/revent-data/report-merger/pkg/mapping"
	"github.com/revent-data/report-merger/pkg/model"
	"github.com/revent-data/report-merger/pkg/process"
	"github.com/revent-data/report-merger/pkg/rules"
	"github.com/revent-data/report-merger/pkg/transform"
	"github.com/revent-data/report-merger/pkg/workbook"
)

func usage() {
	fmt.Fprintf(os.Stderr, `merger
Amazon & Noon report merger

Usage:
  merger [flags] [input.xlsx]

When no input file is given, the first .xlsx in the working directory is used.

Flags:
  -o <path>    Output workbook path (default: <input>_MERGED.xlsx)
  -no-progress Disable the progress bar
`)
}

func main() {
	outputFlag := flag.String("o", "", "output workbook path")
	noProgress := flag.Bool("no-progress", false, "disable the progress bar")
	flag.Usage = usage
	flag.Parse()

	// Optional .env next to the binary; environment always wins
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := buildLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	inputPath, err := resolveInput(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		usage()
		os.Exit(1)
	}

	outputPath := *outputFlag
	if outputPath == "" {
		outputPath = workbook.DefaultOutputPath(inputPath)
	}

	if err := run(cfg, logger, inputPath, outputPath, !*noProgress); err != nil {
		var cfgErr *model.ConfigurationError
		if errors.As(err, &cfgErr) {
			logger.Error("Merge aborted: the column relations configuration cannot be trusted",
				zap.String("field", cfgErr.Field),
				zap.String("source", string(cfgErr.Source)),
				zap.String("reason", cfgErr.Reason))
		} else {
			logger.Error("Merge failed", zap.Error(err))
		}
		os.Exit(1)
	}
}

// run executes one complete merge: read, load mapping, validate, process
// both sources, merge, write, and optionally audit
func run(cfg *config.Config, logger *zap.Logger, inputPath, outputPath string, progress bool) error {
	runID := uuid.New().String()
	started := time.Now()

	logger.Info("Starting merge run",
		zap.String("runID", runID),
		zap.String("input", inputPath),
		zap.String("output", outputPath))

	reader, err := workbook.OpenReader(inputPath, cfg.Sheets, logger)
	if err != nil {
		return err
	}
	defer reader.Close()

	relations, err := reader.Relations()
	if err != nil {
		return err
	}

	loader := mapping.NewLoader(rules.NewParser(logger), logger)
	columnMapping, err := loader.Load(relations)
	if err != nil {
		return err
	}

	amazonSheet, amazonHeaders, amazonRows, err := reader.Source(cfg.Sheets.AmazonKeyword)
	if err != nil {
		return err
	}
	noonSheet, noonHeaders, noonRows, err := reader.Source(cfg.Sheets.NoonKeyword)
	if err != nil {
		return err
	}

	// Structural checks run once, before any row is processed
	if err := transform.ValidateReferences(columnMapping, model.SourceAmazon, amazonHeaders); err != nil {
		return err
	}
	if err := transform.ValidateReferences(columnMapping, model.SourceNoon, noonHeaders); err != nil {
		return err
	}

	var bar *progressbar.ProgressBar
	if progress {
		bar = progressbar.NewOptions(len(amazonRows)+len(noonRows),
			progressbar.OptionSetDescription("Processing rows"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}
	onRow := func(int) {
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	diag := transform.NewDiagnostics(logger)
	transformer := transform.NewTransformer(logger)

	// The mapping is immutable and the diagnostics sink is keyed by
	// (source, row index), so the two sources process concurrently.
	var (
		wg              sync.WaitGroup
		amazonCanonical []model.CanonicalRow
		noonCanonical   []model.CanonicalRow
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		p := process.NewSourceProcessor(transformer, logger).WithRowCallback(onRow)
		amazonCanonical = p.Process(amazonRows, columnMapping, model.SourceAmazon, diag)
	}()
	go func() {
		defer wg.Done()
		p := process.NewSourceProcessor(transformer, logger).WithRowCallback(onRow)
		noonCanonical = p.Process(noonRows, columnMapping, model.SourceNoon, diag)
	}()
	wg.Wait()
	if bar != nil {
		_ = bar.Finish()
	}

	merged := process.Merge(amazonCanonical, noonCanonical)

	passthrough, err := collectPassthrough(reader, cfg.Sheets, amazonSheet, noonSheet)
	if err != nil {
		return err
	}

	writer := workbook.NewWriter(cfg.Sheets.SummaryName, logger)
	if err := writer.Write(outputPath, process.OutputColumns(columnMapping), merged, passthrough); err != nil {
		return err
	}

	warnings := diag.Warnings()
	for _, w := range warnings {
		logger.Warn("Row warning", zap.String("detail", w.String()))
	}

	if cfg.Audit.Enabled {
		recordAudit(cfg, logger, audit.RunRecord{
			RunID:        runID,
			InputFile:    filepath.Base(inputPath),
			AmazonRows:   len(amazonCanonical),
			NoonRows:     len(noonCanonical),
			WarningCount: len(warnings),
		}, warnings)
	}

	logger.Info("Merge complete",
		zap.String("runID", runID),
		zap.Int("amazonRows", len(amazonCanonical)),
		zap.Int("noonRows", len(noonCanonical)),
		zap.Int("totalRows", len(merged)),
		zap.Int("warnings", len(warnings)),
		zap.Duration("elapsed", time.Since(started)),
		zap.String("output", outputPath))

	return nil
}

// collectPassthrough copies the original sheets for the output workbook
func collectPassthrough(reader *workbook.Reader, sheets config.SheetConfig, amazonSheet, noonSheet string) ([]workbook.PassthroughSheet, error) {
	relationsSheet, err := reader.FindSheet(sheets.RelationsKeyword)
	if err != nil {
		return nil, err
	}

	var out []workbook.PassthroughSheet
	for _, name := range []string{amazonSheet, noonSheet, relationsSheet} {
		rows, err := reader.RawSheet(name)
		if err != nil {
			return nil, err
		}
		out = append(out, workbook.PassthroughSheet{Name: name, Rows: rows})
	}
	return out, nil
}

// recordAudit persists the run record; failures are logged, never fatal
func recordAudit(cfg *config.Config, logger *zap.Logger, run audit.RunRecord, warnings []model.RowWarning) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	recorder, err := audit.NewRecorder(ctx, cfg.Audit.DatabaseURL, logger)
	if err != nil {
		logger.Warn("Audit sink unavailable", zap.Error(err))
		return
	}
	defer recorder.Close()

	if err := recorder.RecordRun(ctx, run, warnings); err != nil {
		logger.Warn("Failed to record merge run", zap.Error(err))
	}
}

// resolveInput returns the explicit input path or the first .xlsx in the
// working directory, mirroring the original tool's auto-detection
func resolveInput(arg string) (string, error) {
	if arg != "" {
		return arg, nil
	}

	matches, err := filepath.Glob("*.xlsx")
	if err != nil || len(matches) == 0 {
		return "", fmt.Errorf("no input workbook found: pass an .xlsx path")
	}
	return matches[0], nil
}

// buildLogger constructs a zap logger from configuration
func buildLogger(level, format string) (*zap.Logger, error) {
	var zapCfg zap.Config
	if format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		parsed = zapcore.InfoLevel
	}
	zapCfg.Level = zap.NewAtomicLevelAt(parsed)

	return zapCfg.Build()
}
