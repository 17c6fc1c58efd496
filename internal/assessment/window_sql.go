package assessment

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var ErrWindowNotFound = errors.New("window not found")

// SQLWindowStore reads the windows table. Put/Delete exist for the admin
// tooling that owns window lifecycle; the grading core only lists.
type SQLWindowStore struct {
	db     *sql.DB
	driver string
}

func NewSQLWindowStore(db *sql.DB, driver string) *SQLWindowStore {
	return &SQLWindowStore{db: db, driver: driver}
}

// WindowsFor implements WindowSource.
func (s *SQLWindowStore) WindowsFor(ctx context.Context, pt ProjectType) ([]Window, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,window_type,project_type,assessment_type,start_at,end_at
		 FROM windows WHERE project_type=$1 ORDER BY start_at, id`, string(pt))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWindows(rows)
}

// ListAll returns every window, for admin listings.
func (s *SQLWindowStore) ListAll(ctx context.Context) ([]Window, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,window_type,project_type,assessment_type,start_at,end_at
		 FROM windows ORDER BY start_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWindows(rows)
}

func (s *SQLWindowStore) PutWindow(ctx context.Context, w Window) error {
	if w.EndAt.Before(w.StartAt) {
		return errors.New("window end_at before start_at")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO windows (id,window_type,project_type,assessment_type,start_at,end_at,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)
		 ON CONFLICT (id) DO UPDATE SET
		   window_type=EXCLUDED.window_type,
		   project_type=EXCLUDED.project_type,
		   assessment_type=EXCLUDED.assessment_type,
		   start_at=EXCLUDED.start_at,
		   end_at=EXCLUDED.end_at`,
		w.ID, string(w.Type), string(w.ProjectType), string(w.Assessment),
		w.StartAt.Unix(), w.EndAt.Unix(), time.Now().Unix())
	return err
}

func (s *SQLWindowStore) DeleteWindow(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM windows WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrWindowNotFound
	}
	return nil
}

func collectWindows(rows *sql.Rows) ([]Window, error) {
	var out []Window
	for rows.Next() {
		var w Window
		var wt, pt, at string
		var start, end int64
		if err := rows.Scan(&w.ID, &wt, &pt, &at, &start, &end); err != nil {
			return nil, err
		}
		w.Type = WindowType(wt)
		w.ProjectType = ProjectType(pt)
		w.Assessment = AssessmentType(at)
		w.StartAt = time.Unix(start, 0).UTC()
		w.EndAt = time.Unix(end, 0).UTC()
		out = append(out, w)
	}
	return out, rows.Err()
}
