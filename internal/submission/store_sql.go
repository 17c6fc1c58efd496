package submission

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/campusforge/projectportal/internal/assessment"
)

// SQLStore keeps submissions in two tables: the record itself (artifacts as
// JSON) and a members table for group rosters.
type SQLStore struct {
	db     *sql.DB
	driver string
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) GetSubmission(ctx context.Context, id string) (Submission, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,project_type,submission_type,group_id,phase,artifacts_json,submitted_at
		 FROM submissions WHERE id=$1`, id)
	sub, err := scanSubmission(row)
	if err != nil {
		return Submission{}, err
	}
	members, err := s.members(ctx, id)
	if err != nil {
		return Submission{}, err
	}
	sub.StudentIDs = members
	return sub, nil
}

func (s *SQLStore) ListSubmissions(ctx context.Context, pt assessment.ProjectType, phase assessment.AssessmentType) ([]Submission, error) {
	q := `SELECT id,project_type,submission_type,group_id,phase,artifacts_json,submitted_at FROM submissions`
	var args []any
	var cond []string
	if pt != "" {
		args = append(args, string(pt))
		cond = append(cond, `project_type=$1`)
	}
	if phase != "" {
		if len(args) == 0 {
			cond = append(cond, `phase=$1`)
		} else {
			cond = append(cond, `phase=$2`)
		}
		args = append(args, string(phase))
	}
	for i, c := range cond {
		if i == 0 {
			q += ` WHERE ` + c
		} else {
			q += ` AND ` + c
		}
	}
	q += ` ORDER BY submitted_at DESC, id`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		members, err := s.members(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].StudentIDs = members
	}
	return out, nil
}

func (s *SQLStore) PutSubmission(ctx context.Context, sub Submission) error {
	aj, err := json.Marshal(sub.Artifacts)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO submissions (id,project_type,submission_type,group_id,phase,artifacts_json,submitted_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)
		 ON CONFLICT (id) DO UPDATE SET
		   project_type=EXCLUDED.project_type,
		   submission_type=EXCLUDED.submission_type,
		   group_id=EXCLUDED.group_id,
		   phase=EXCLUDED.phase,
		   artifacts_json=EXCLUDED.artifacts_json,
		   submitted_at=EXCLUDED.submitted_at`,
		sub.ID, string(sub.ProjectType), string(sub.Type), sub.GroupID,
		string(sub.Phase), string(aj), sub.SubmittedAt)
	if err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM submission_members WHERE submission_id=$1`, sub.ID); err != nil {
		return err
	}
	for _, sid := range sub.StudentIDs {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO submission_members (submission_id,student_id) VALUES ($1,$2)`, sub.ID, sid); err != nil {
			return err
		}
	}
	return err
}

func (s *SQLStore) AddArtifact(ctx context.Context, id string, a Artifact) (Submission, error) {
	sub, err := s.GetSubmission(ctx, id)
	if err != nil {
		return Submission{}, err
	}
	sub.Artifacts = append(sub.Artifacts, a)
	aj, err := json.Marshal(sub.Artifacts)
	if err != nil {
		return Submission{}, err
	}
	_, err = s.db.ExecContext(ctx, `UPDATE submissions SET artifacts_json=$1 WHERE id=$2`, string(aj), id)
	if err != nil {
		return Submission{}, err
	}
	return sub, nil
}

func (s *SQLStore) members(ctx context.Context, id string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT student_id FROM submission_members WHERE submission_id=$1 ORDER BY student_id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var sid string
		if err := rows.Scan(&sid); err != nil {
			return nil, err
		}
		out = append(out, sid)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (Submission, error) {
	var sub Submission
	var pt, st, phase, ajson string
	err := row.Scan(&sub.ID, &pt, &st, &sub.GroupID, &phase, &ajson, &sub.SubmittedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Submission{}, ErrSubmissionNotFound
		}
		return Submission{}, err
	}
	sub.ProjectType = assessment.ProjectType(pt)
	sub.Type = Type(st)
	sub.Phase = assessment.AssessmentType(phase)
	if err := json.Unmarshal([]byte(ajson), &sub.Artifacts); err != nil {
		return Submission{}, err
	}
	return sub, nil
}
