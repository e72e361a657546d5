package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	scraper "github.com/Mario263/Technical-Web-scraper"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ scraper.RunService = (*RunService)(nil)

// RunService implements scraper.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// CreateRun stores a run and its source reports in one transaction.
func (s *RunService) CreateRun(ctx context.Context, run *scraper.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}
	if run.ID == "" {
		run.ID = uuid.New().String()
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, team_id, started_at, finished_at, accepted, rejected, duplicates, interrupted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.TeamID, formatTime(run.StartedAt), formatTime(run.FinishedAt),
		run.Accepted, run.Rejected, run.Duplicates, run.Interrupted)
	if err != nil {
		return err
	}

	for i, rep := range run.Sources {
		var errMsg string
		if rep.Err != nil {
			errMsg = rep.Err.Error()
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_sources (run_id, position, source, url, site_type, status,
				discovered, fetched, accepted, rejected, empty, duplicates, fetch_failed, blocked, error)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, run.ID, i, rep.Source, rep.URL, string(rep.SiteType), string(rep.Status),
			rep.Discovered, rep.Fetched, rep.Accepted, rep.Rejected, rep.Empty,
			rep.Duplicates, rep.FetchFailed, rep.Blocked, errMsg)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindRunByID retrieves a run by ID.
func (s *RunService) FindRunByID(ctx context.Context, id string) (*scraper.Run, error) {
	run, err := scanRun(s.db.QueryRowContext(ctx, `
		SELECT id, team_id, started_at, finished_at, accepted, rejected, duplicates, interrupted
		FROM runs
		WHERE id = ?
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, scraper.Errorf(scraper.ENOTFOUND, "run not found")
	}
	if err != nil {
		return nil, err
	}

	if run.Sources, err = s.findSources(ctx, run.ID); err != nil {
		return nil, err
	}
	return run, nil
}

// FindRuns retrieves runs matching the filter, newest first.
func (s *RunService) FindRuns(ctx context.Context, filter scraper.RunFilter) ([]*scraper.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, team_id, started_at, finished_at, accepted, rejected, duplicates, interrupted FROM runs WHERE 1=1")

	if filter.TeamID != nil {
		query.WriteString(" AND team_id = ?")
		args = append(args, *filter.TeamID)
	}

	query.WriteString(" ORDER BY started_at DESC, id")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*scraper.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for _, run := range runs {
		if run.Sources, err = s.findSources(ctx, run.ID); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

// DeleteRun permanently removes a run and its source reports.
func (s *RunService) DeleteRun(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return scraper.Errorf(scraper.ENOTFOUND, "run not found")
	}

	return nil
}

func (s *RunService) findSources(ctx context.Context, runID string) ([]scraper.SourceReport, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT source, url, site_type, status, discovered, fetched, accepted, rejected,
			empty, duplicates, fetch_failed, blocked, error
		FROM run_sources
		WHERE run_id = ?
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []scraper.SourceReport
	for rows.Next() {
		var rep scraper.SourceReport
		var siteType, status, errMsg string
		if err := rows.Scan(&rep.Source, &rep.URL, &siteType, &status,
			&rep.Discovered, &rep.Fetched, &rep.Accepted, &rep.Rejected,
			&rep.Empty, &rep.Duplicates, &rep.FetchFailed, &rep.Blocked, &errMsg); err != nil {
			return nil, err
		}
		rep.SiteType = scraper.SiteType(siteType)
		rep.Status = scraper.SourceStatus(status)
		if errMsg != "" {
			rep.Err = errors.New(errMsg)
		}
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*scraper.Run, error) {
	var run scraper.Run
	var startedAt, finishedAt string

	if err := row.Scan(&run.ID, &run.TeamID, &startedAt, &finishedAt,
		&run.Accepted, &run.Rejected, &run.Duplicates, &run.Interrupted); err != nil {
		return nil, err
	}

	var err error
	if run.StartedAt, err = parseTime(startedAt, "started_at"); err != nil {
		return nil, err
	}
	if run.FinishedAt, err = parseTime(finishedAt, "finished_at"); err != nil {
		return nil, err
	}
	return &run, nil
}
