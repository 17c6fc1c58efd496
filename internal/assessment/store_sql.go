package assessment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// SQLStore persists evaluations over database/sql. Component scores travel as
// one JSON column; totals and the publish flag stay relational for listing.
type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) GetEvaluation(ctx context.Context, studentID, term string) (Evaluation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,student_id,term,project_type,group_id,components_json,total,is_published,created_at,updated_at
		 FROM evaluations WHERE student_id=$1 AND term=$2`, studentID, term)
	return scanEvaluation(row)
}

func (s *SQLStore) PutEvaluation(ctx context.Context, e Evaluation) error {
	cj, err := json.Marshal(e.Components)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO evaluations (id,student_id,term,project_type,group_id,components_json,total,is_published,created_at,updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		 ON CONFLICT (student_id,term) DO UPDATE SET
		   project_type=EXCLUDED.project_type,
		   group_id=EXCLUDED.group_id,
		   components_json=EXCLUDED.components_json,
		   total=EXCLUDED.total,
		   is_published=EXCLUDED.is_published,
		   updated_at=EXCLUDED.updated_at`,
		e.ID, e.StudentID, e.Term, string(e.ProjectType), e.GroupID, string(cj),
		e.Total, e.IsPublished, e.CreatedAt, e.UpdatedAt)
	return err
}

func (s *SQLStore) ListEvaluations(ctx context.Context, pt ProjectType, term string) ([]Evaluation, error) {
	q := `SELECT id,student_id,term,project_type,group_id,components_json,total,is_published,created_at,updated_at
	      FROM evaluations WHERE term=$1`
	args := []any{term}
	if pt != "" {
		q += ` AND project_type=$2`
		args = append(args, string(pt))
	}
	q += ` ORDER BY student_id`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Evaluation
	for rows.Next() {
		e, err := scanEvaluation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvaluation(row rowScanner) (Evaluation, error) {
	var e Evaluation
	var pt, cjson string
	var updated sql.NullInt64
	err := row.Scan(&e.ID, &e.StudentID, &e.Term, &pt, &e.GroupID, &cjson,
		&e.Total, &e.IsPublished, &e.CreatedAt, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Evaluation{}, ErrEvaluationNotFound
		}
		return Evaluation{}, err
	}
	e.ProjectType = ProjectType(pt)
	e.UpdatedAt = updated.Int64
	if err := json.Unmarshal([]byte(cjson), &e.Components); err != nil {
		return Evaluation{}, err
	}
	return e, nil
}
