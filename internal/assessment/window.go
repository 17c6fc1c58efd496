package assessment

import (
	"sort"
	"time"
)

// Window is a time-bounded record gating an action for a project type.
// Windows are created by admin tooling; this package only reads them.
type Window struct {
	ID          string         `json:"id"`
	Type        WindowType     `json:"window_type"`
	ProjectType ProjectType    `json:"project_type"`
	Assessment  AssessmentType `json:"assessment_type,omitempty"` // set for submission/assessment windows
	StartAt     time.Time      `json:"start_at"`
	EndAt       time.Time      `json:"end_at"`
}

// ActiveAt reports whether now falls inside the window, bounds inclusive.
func (w Window) ActiveAt(now time.Time) bool {
	return !now.Before(w.StartAt) && !now.After(w.EndAt)
}

// Catalog holds the full window set for the current context and answers
// point-in-time membership queries.
type Catalog struct {
	windows []Window
}

// NewCatalog copies ws ordered by start date, then ID. Overlapping windows of
// the same type are possible in the data; the ordering makes "first active
// wins" deterministic: earliest start wins.
func NewCatalog(ws []Window) *Catalog {
	cp := make([]Window, len(ws))
	copy(cp, ws)
	sort.SliceStable(cp, func(i, j int) bool {
		if !cp[i].StartAt.Equal(cp[j].StartAt) {
			return cp[i].StartAt.Before(cp[j].StartAt)
		}
		return cp[i].ID < cp[j].ID
	})
	return &Catalog{windows: cp}
}

// ActiveWindows returns every window of the given type/projectType where
// StartAt <= now <= EndAt, in catalog order.
func (c *Catalog) ActiveWindows(now time.Time, wt WindowType, pt ProjectType) []Window {
	var out []Window
	for _, w := range c.windows {
		if w.Type == wt && w.ProjectType == pt && w.ActiveAt(now) {
			out = append(out, w)
		}
	}
	return out
}

// All returns the catalog contents in order.
func (c *Catalog) All() []Window {
	out := make([]Window, len(c.windows))
	copy(out, c.windows)
	return out
}
