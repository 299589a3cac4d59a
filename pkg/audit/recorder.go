// pkg/audit/recorder.go

// Package audit persists run metadata and row warnings to Postgres when an
// audit database is configured. Recording failures are logged and never
// abort the merge; the audit trail is an operational convenience, not part
// of the engine's contract.
package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/revent-data/report-merger/pkg/model"
)

// Recorder writes merge-run audit records to Postgres
type Recorder struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewRecorder connects to the audit database and ensures the audit tables
// exist
func NewRecorder(ctx context.Context, databaseURL string, logger *zap.Logger) (*Recorder, error) {
	if databaseURL == "" {
		return nil, errors.New("audit database URL cannot be empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to audit database: %w", err)
	}

	r := &Recorder{
		db:     db,
		logger: logger.Named("audit"),
	}

	if err := r.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to setup audit tables: %w", err)
	}

	return r, nil
}

// Close releases the database connection
func (r *Recorder) Close() error {
	return r.db.Close()
}

// ensureSchema creates the audit tables when they do not exist
func (r *Recorder) ensureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	createTablesSQL := `
		CREATE TABLE IF NOT EXISTS public.merge_runs (
			run_id UUID PRIMARY KEY,
			input_file TEXT NOT NULL,
			amazon_rows INTEGER NOT NULL,
			noon_rows INTEGER NOT NULL,
			warning_count INTEGER NOT NULL,
			completed_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS public.merge_run_warnings (
			id SERIAL PRIMARY KEY,
			run_id UUID NOT NULL,
			source TEXT NOT NULL,
			row_index INTEGER NOT NULL,
			field_name TEXT NOT NULL,
			source_value TEXT,
			message TEXT NOT NULL,
			recorded_at TIMESTAMP WITH TIME ZONE NOT NULL
		)
	`
	if _, err := r.db.ExecContext(ctx, createTablesSQL); err != nil {
		return fmt.Errorf("failed to create audit tables: %w", err)
	}

	r.logger.Info("Ensured audit tables exist")
	return nil
}

// RunRecord summarizes one completed merge for the merge_runs table
type RunRecord struct {
	RunID        string
	InputFile    string
	AmazonRows   int
	NoonRows     int
	WarningCount int
}

// RecordRun inserts the run summary and its warnings in one transaction
func (r *Recorder) RecordRun(ctx context.Context, run RunRecord, warnings []model.RowWarning) (err error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.logger.Error("Failed to rollback transaction",
					zap.Error(rbErr),
					zap.Error(err))
			}
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO public.merge_runs
		(run_id, input_file, amazon_rows, noon_rows, warning_count)
		VALUES ($1, $2, $3, $4, $5)
	`, run.RunID, run.InputFile, run.AmazonRows, run.NoonRows, run.WarningCount)
	if err != nil {
		return fmt.Errorf("failed to insert run record: %w", err)
	}

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO public.merge_run_warnings
		(run_id, source, row_index, field_name, source_value, message, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare warning insert: %w", err)
	}
	defer stmt.Close()

	for _, w := range warnings {
		_, err = stmt.ExecContext(ctx,
			run.RunID,
			string(w.Source),
			w.RowIndex,
			w.Field,
			toNullableString(w.SourceValue),
			w.Message,
			w.Timestamp,
		)
		if err != nil {
			return fmt.Errorf("failed to insert warning record: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.Info("Recorded merge run",
		zap.String("runID", run.RunID),
		zap.Int("warnings", len(warnings)))
	return nil
}

// toNullableString converts empty strings to nil for nullable columns
func toNullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
