package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	api "github.com/campusforge/projectportal/internal/api/http"
	"github.com/campusforge/projectportal/internal/assessment"
	"github.com/campusforge/projectportal/internal/audit"
	auth "github.com/campusforge/projectportal/internal/auth/middleware"
	"github.com/campusforge/projectportal/internal/config"
	"github.com/campusforge/projectportal/internal/db"
	"github.com/campusforge/projectportal/internal/rbac"
	"github.com/campusforge/projectportal/internal/storage"
	"github.com/campusforge/projectportal/internal/submission"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	evalStore := assessment.NewSQLStore(dbh, cfg.DBDriver)
	winStore := assessment.NewSQLWindowStore(dbh, cfg.DBDriver)
	subStore := submission.NewSQLStore(dbh, cfg.DBDriver)
	auditLog := audit.NewLog(dbh)
	workflow := assessment.NewWorkflow(evalStore, winStore, cfg.Term, time.Now)

	if err := ensureAdmin(ctx, dbh, cfg); err != nil {
		log.Fatalf("admin bootstrap: %v", err)
	}

	authSvc := auth.NewAuthService(cfg.AuthSecret)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, dbh))

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	// Protected API (JWT -> subject/role in context -> RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))
		pr.Use(auth.AttachRoleFromDB(dbh, cfg.Mode == config.ModeDev))

		// Phase resolution: drives which form or closed-state the UI shows
		pr.With(rbac.Require("phase:view")).
			Get("/phases/current", api.CurrentPhaseHandler(winStore))
		pr.With(rbac.Require("phase:view")).
			Get("/phases/active", api.ActivePhasesHandler(winStore))
		pr.With(rbac.Require("phase:view")).
			Get("/phases/next", api.NextPhaseHandler(evalStore, cfg.Term))

		// Windows: everyone reads, coordinators manage
		pr.With(rbac.Require("window:view")).
			Get("/windows", api.ListWindowsHandler(winStore))
		pr.With(rbac.Require("window:manage")).
			Post("/windows", api.CreateWindowHandler(winStore, auditLog))
		pr.With(rbac.Require("window:manage")).
			Delete("/windows/{windowID}", api.DeleteWindowHandler(winStore, auditLog))

		// Grading (faculty) and release (coordinator)
		pr.With(rbac.Require("evaluation:grade")).
			Post("/evaluations/solo", api.GradeSoloHandler(workflow, auditLog))
		pr.With(rbac.Require("evaluation:grade")).
			Post("/evaluations/group/{groupID}", api.GradeGroupHandler(workflow, auditLog))
		pr.With(rbac.Require("evaluation:release")).
			Post("/evaluations/release", api.ReleaseHandler(workflow, auditLog))

		// Evaluation views
		pr.With(rbac.Require("evaluation:view-all")).
			Get("/evaluations", api.ListEvaluationsHandler(evalStore, cfg.Term))
		pr.With(rbac.Require("evaluation:view-all")).
			Get("/evaluations/{studentID}", api.GetEvaluationHandler(evalStore, cfg.Term))
		pr.With(rbac.Require("evaluation:view-own")).
			Get("/me/evaluation", api.MyEvaluationHandler(evalStore, cfg.Term))

		// Submission cards for grading screens
		pr.With(rbac.RequireAny("submission:view-own", "submission:view-all")).
			Get("/submissions", api.ListSubmissionsHandler(subStore, evalStore, cfg.Term))
		pr.With(rbac.RequireAny("submission:view-own", "submission:view-all")).
			Get("/submissions/{submissionID}", api.GetSubmissionHandler(subStore))

		// Report/presentation artifacts
		pr.With(rbac.Require("asset:upload")).
			Post("/assets/{submissionID}", api.UploadAssetHandler(bs, subStore))
		pr.With(rbac.Require("asset:view")).
			Get("/assets/*", api.ServeAssetHandler(bs, subStore))

		// Roster
		pr.With(rbac.Require("users:bulk_upsert")).
			Post("/users/bulk", api.BulkUpsertUsersHandler(dbh))
		pr.With(rbac.Require("users:list")).
			Get("/users", api.ListUsersHandler(dbh))
		pr.With(rbac.Require("user:change_password")).
			Post("/users/change-password", api.ChangePasswordHandler(dbh))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (mode=%s, db=%s, term=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver, cfg.Term)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}

// ensureAdmin seeds the admin account on first boot so the portal is usable
// before a roster is imported.
func ensureAdmin(ctx context.Context, dbh *sql.DB, cfg config.Config) error {
	var exists int
	err := dbh.QueryRowContext(ctx, `SELECT 1 FROM users WHERE username=$1`, cfg.AdminUser).Scan(&exists)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return err
	}
	hash := cfg.AdminPassHash
	if hash == "" {
		b, err := bcrypt.GenerateFromPassword([]byte("admin"), 12)
		if err != nil {
			return err
		}
		hash = string(b)
		log.Printf("seeded default admin account %q; change its password", cfg.AdminUser)
	}
	_, err = dbh.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, role, created_at) VALUES ($1,$2,$3,'admin',$4)`,
		cfg.AdminUser, cfg.AdminUser, hash, time.Now().Unix())
	return err
}
