package http

import (
	"net/http"
	"time"

	"github.com/examstack/examstack/internal/content"
	"github.com/examstack/examstack/internal/exam"
)

// AdminListResultsHandler serves the results review list with the same
// filters the back office offers: major/material/chapter plus a date range.
func AdminListResultsHandler(results exam.ResultRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		majorID, _ := parseID(q.Get("major_id"))
		materialID, _ := parseID(q.Get("material_id"))
		chapterID, _ := parseID(q.Get("chapter_id"))

		out, err := results.List(r.Context(), exam.ResultListOpts{
			MajorID:    majorID,
			MaterialID: materialID,
			ChapterID:  chapterID,
			DateFrom:   parseDate(q.Get("date_from"), false),
			DateTo:     parseDate(q.Get("date_to"), true),
			Limit:      parseIntDefault(q.Get("limit"), 20),
			Offset:     parseIntDefault(q.Get("offset"), 0),
		})
		if err != nil {
			http.Error(w, "failed to load results", 500)
			return
		}
		writeJSON(w, 200, out)
	}
}

// AdminStatsHandler feeds the dashboard: entity counts plus the latest
// handful of results.
func AdminStatsHandler(repo content.Repository, results exam.ResultRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := repo.GetStats(r.Context())
		if err != nil {
			http.Error(w, "failed to load stats", 500)
			return
		}
		recent, err := results.List(r.Context(), exam.ResultListOpts{Limit: 5})
		if err != nil {
			http.Error(w, "failed to load stats", 500)
			return
		}
		writeJSON(w, 200, struct {
			content.Stats
			Recent []exam.Result `json:"recent_results"`
		}{Stats: st, Recent: recent})
	}
}

// parseDate turns a YYYY-MM-DD filter into unix seconds; endOfDay selects the
// inclusive upper bound. Returns 0 (unbounded) on empty or malformed input.
func parseDate(s string, endOfDay bool) int64 {
	if s == "" {
		return 0
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return 0
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Second)
	}
	return t.Unix()
}
