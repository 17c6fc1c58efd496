package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Open opens a DB and ensures schema exists.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:projectportal.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/projectportal?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := ensureSchema(ctx, db, driver); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	var schema string
	switch driver {
	case DriverSQLite:
		schema = schemaSQLite
	case DriverPostgres:
		schema = schemaPostgres
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL,
  created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS windows (
  id TEXT PRIMARY KEY,
  window_type TEXT NOT NULL,      -- proposal|submission|assessment
  project_type TEXT NOT NULL,     -- IDP|UROP|CAPSTONE
  assessment_type TEXT NOT NULL DEFAULT '',
  start_at INTEGER NOT NULL,
  end_at INTEGER NOT NULL,
  created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS evaluations (
  id TEXT PRIMARY KEY,
  student_id TEXT NOT NULL,
  term TEXT NOT NULL,
  project_type TEXT NOT NULL,
  group_id TEXT NOT NULL DEFAULT '',
  components_json TEXT NOT NULL,
  total REAL NOT NULL DEFAULT 0,
  is_published INTEGER NOT NULL DEFAULT 0,
  created_at INTEGER NOT NULL,
  updated_at INTEGER,
  UNIQUE (student_id, term)
);

CREATE TABLE IF NOT EXISTS submissions (
  id TEXT PRIMARY KEY,
  project_type TEXT NOT NULL,
  submission_type TEXT NOT NULL,  -- solo|group
  group_id TEXT NOT NULL DEFAULT '',
  phase TEXT NOT NULL,
  artifacts_json TEXT NOT NULL DEFAULT '[]',
  submitted_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS submission_members (
  submission_id TEXT NOT NULL REFERENCES submissions(id) ON DELETE CASCADE,
  student_id TEXT NOT NULL,
  PRIMARY KEY (submission_id, student_id)
);

CREATE TABLE IF NOT EXISTS event_log (
  "offset" INTEGER PRIMARY KEY AUTOINCREMENT, -- BIGSERIAL in Postgres
  typ TEXT NOT NULL,                        -- e.g., EvaluationGraded
  key TEXT NOT NULL,                        -- natural key: student/group/project id
  actor TEXT NOT NULL DEFAULT '',
  data TEXT NOT NULL,                       -- JSON payload
  created_at INTEGER NOT NULL
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL,
  created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS windows (
  id TEXT PRIMARY KEY,
  window_type TEXT NOT NULL,
  project_type TEXT NOT NULL,
  assessment_type TEXT NOT NULL DEFAULT '',
  start_at BIGINT NOT NULL,
  end_at BIGINT NOT NULL,
  created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS evaluations (
  id TEXT PRIMARY KEY,
  student_id TEXT NOT NULL,
  term TEXT NOT NULL,
  project_type TEXT NOT NULL,
  group_id TEXT NOT NULL DEFAULT '',
  components_json TEXT NOT NULL,
  total DOUBLE PRECISION NOT NULL DEFAULT 0,
  is_published BOOLEAN NOT NULL DEFAULT FALSE,
  created_at BIGINT NOT NULL,
  updated_at BIGINT,
  UNIQUE (student_id, term)
);

CREATE TABLE IF NOT EXISTS submissions (
  id TEXT PRIMARY KEY,
  project_type TEXT NOT NULL,
  submission_type TEXT NOT NULL,
  group_id TEXT NOT NULL DEFAULT '',
  phase TEXT NOT NULL,
  artifacts_json TEXT NOT NULL DEFAULT '[]',
  submitted_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS submission_members (
  submission_id TEXT NOT NULL REFERENCES submissions(id) ON DELETE CASCADE,
  student_id TEXT NOT NULL,
  PRIMARY KEY (submission_id, student_id)
);

CREATE TABLE IF NOT EXISTS event_log (
  "offset" BIGSERIAL PRIMARY KEY,
  typ TEXT NOT NULL,
  key TEXT NOT NULL,
  actor TEXT NOT NULL DEFAULT '',
  data TEXT NOT NULL,
  created_at BIGINT NOT NULL
);
`
