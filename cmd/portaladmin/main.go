package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"

	"github.com/campusforge/projectportal/internal/assessment"
	"github.com/campusforge/projectportal/internal/audit"
	"github.com/campusforge/projectportal/internal/config"
	"github.com/campusforge/projectportal/internal/db"
)

const usage = `portaladmin <command> [flags]

Commands:
  windows list                         list all windows
  windows add                          create a window (see flags)
  evaluations list                     list evaluations for the current term
  release                              publish evaluations for a project type
  events                               show recent audit events
`

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	winStore := assessment.NewSQLWindowStore(dbh, cfg.DBDriver)
	evalStore := assessment.NewSQLStore(dbh, cfg.DBDriver)
	auditLog := audit.NewLog(dbh)

	switch os.Args[1] {
	case "windows":
		if len(os.Args) < 3 {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		switch os.Args[2] {
		case "list":
			listWindows(ctx, winStore)
		case "add":
			addWindow(ctx, winStore, auditLog, os.Args[3:])
		default:
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
	case "evaluations":
		listEvaluations(ctx, evalStore, cfg.Term, os.Args[2:])
	case "release":
		release(ctx, evalStore, winStore, auditLog, cfg.Term, os.Args[2:])
	case "events":
		listEvents(ctx, auditLog)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

func listWindows(ctx context.Context, ws *assessment.SQLWindowStore) {
	wins, err := ws.ListAll(ctx)
	if err != nil {
		log.Fatalf("list windows: %v", err)
	}
	color.Cyan("\nAssessment Windows (%d)", len(wins))
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Type", "Project", "Assessment", "Start", "End", "Active"})
	now := time.Now()
	for _, w := range wins {
		active := ""
		if w.ActiveAt(now) {
			active = "yes"
		}
		table.Append([]string{
			w.ID, string(w.Type), string(w.ProjectType), string(w.Assessment),
			w.StartAt.Format("2006-01-02 15:04"), w.EndAt.Format("2006-01-02 15:04"), active,
		})
	}
	table.Render()
}

func addWindow(ctx context.Context, ws *assessment.SQLWindowStore, auditLog *audit.Log, args []string) {
	fs := flag.NewFlagSet("windows add", flag.ExitOnError)
	wtype := fs.String("type", "assessment", "window type: proposal|submission|assessment")
	ptype := fs.String("project", "", "project type: IDP|UROP|CAPSTONE")
	atype := fs.String("assessment", "", "assessment type: CLA-1|CLA-2|CLA-3|External")
	start := fs.String("start", "", "start, RFC3339 or unix seconds")
	end := fs.String("end", "", "end, RFC3339 or unix seconds")
	_ = fs.Parse(args)

	pt, ok := assessment.ParseProjectType(*ptype)
	if !ok {
		log.Fatalf("bad -project %q", *ptype)
	}
	startAt, err := parseWhen(*start)
	if err != nil {
		log.Fatalf("bad -start: %v", err)
	}
	endAt, err := parseWhen(*end)
	if err != nil {
		log.Fatalf("bad -end: %v", err)
	}
	w := assessment.Window{
		ID:          uuid.NewString(),
		Type:        assessment.WindowType(*wtype),
		ProjectType: pt,
		Assessment:  assessment.AssessmentType(*atype),
		StartAt:     startAt,
		EndAt:       endAt,
	}
	if err := ws.PutWindow(ctx, w); err != nil {
		log.Fatalf("put window: %v", err)
	}
	_ = auditLog.Append(ctx, audit.TypeWindowCreated, w.ID, "portaladmin", w)
	color.Green("created window %s", w.ID)
}

func listEvaluations(ctx context.Context, store *assessment.SQLStore, term string, args []string) {
	fs := flag.NewFlagSet("evaluations list", flag.ExitOnError)
	ptype := fs.String("project", "", "filter by project type")
	_ = fs.Parse(args)

	evals, err := store.ListEvaluations(ctx, assessment.ProjectType(*ptype), term)
	if err != nil {
		log.Fatalf("list evaluations: %v", err)
	}
	color.Cyan("\nEvaluations for term %s (%d)", term, len(evals))
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Student", "Project", "Group", "CLA-1", "CLA-2", "CLA-3", "External", "Total", "Status", "Published"})
	for _, e := range evals {
		row := []string{e.StudentID, string(e.ProjectType), e.GroupID}
		for _, t := range assessment.Sequence {
			c := e.Component(t)
			if c.Graded() {
				row = append(row, strconv.FormatFloat(assessment.Convert(c.Conduct, t), 'f', 1, 64))
			} else {
				row = append(row, "-")
			}
		}
		published := ""
		if e.IsPublished {
			published = "yes"
		}
		row = append(row, strconv.FormatFloat(e.Total, 'f', 1, 64), string(e.Status()), published)
		table.Append(row)
	}
	table.Render()
}

func release(ctx context.Context, store *assessment.SQLStore, ws *assessment.SQLWindowStore, auditLog *audit.Log, term string, args []string) {
	fs := flag.NewFlagSet("release", flag.ExitOnError)
	ptype := fs.String("project", "", "project type: IDP|UROP|CAPSTONE")
	_ = fs.Parse(args)

	pt, ok := assessment.ParseProjectType(*ptype)
	if !ok {
		log.Fatalf("bad -project %q", *ptype)
	}
	wf := assessment.NewWorkflow(store, ws, term, time.Now)
	n, err := wf.ReleaseProjectType(ctx, pt)
	if err != nil {
		log.Fatalf("release: %v", err)
	}
	_ = auditLog.Append(ctx, audit.TypePhaseReleased, string(pt), "portaladmin", map[string]int{"published": n})
	if n == 0 {
		color.Yellow("nothing to publish for %s (already released?)", pt)
		return
	}
	color.Green("published %d evaluations for %s", n, pt)
}

func listEvents(ctx context.Context, auditLog *audit.Log) {
	events, err := auditLog.Recent(ctx, 50)
	if err != nil {
		log.Fatalf("events: %v", err)
	}
	color.Cyan("\nRecent Events (%d)", len(events))
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Offset", "Type", "Key", "Actor", "At"})
	for _, e := range events {
		table.Append([]string{
			strconv.FormatInt(e.Offset, 10), e.Type, e.Key, e.Actor,
			time.Unix(e.CreatedAt, 0).Format("2006-01-02 15:04:05"),
		})
	}
	table.Render()
}

func parseWhen(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("required")
	}
	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(sec, 0).UTC(), nil
	}
	return time.Parse(time.RFC3339, s)
}
