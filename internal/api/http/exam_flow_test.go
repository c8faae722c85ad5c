package http

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/examstack/examstack/internal/config"
	"github.com/examstack/examstack/internal/content"
	"github.com/examstack/examstack/internal/exam"
	"github.com/examstack/examstack/internal/websession"

	"github.com/go-chi/chi/v5"
)

/* ---------------- fakes ---------------- */

type fakeRepo struct {
	content.Repository // unused methods panic if reached
	chapters           map[int64]content.ChapterInfo
	questions          map[int64][]content.Question
}

func (f *fakeRepo) GetChapterInfo(_ context.Context, id int64) (content.ChapterInfo, error) {
	ci, ok := f.chapters[id]
	if !ok {
		return content.ChapterInfo{}, content.ErrNotFound
	}
	return ci, nil
}

func (f *fakeRepo) ListActiveQuestions(_ context.Context, id int64) ([]content.Question, error) {
	return f.questions[id], nil
}

func (f *fakeRepo) GetQuestion(_ context.Context, id int64) (content.Question, error) {
	for _, qs := range f.questions {
		for _, q := range qs {
			if q.ID == id {
				return q, nil
			}
		}
	}
	return content.Question{}, content.ErrNotFound
}

type memResults struct {
	byID map[string]exam.Result
	seq  int
}

func (m *memResults) Insert(_ context.Context, r exam.Result) (string, error) {
	m.seq++
	r.ID = fmt.Sprintf("res-%d", m.seq)
	m.byID[r.ID] = r
	return r.ID, nil
}

func (m *memResults) GetByID(_ context.Context, id string) (exam.Result, error) {
	r, ok := m.byID[id]
	if !ok {
		return exam.Result{}, exam.ErrResultNotFound
	}
	return r, nil
}

func (m *memResults) List(_ context.Context, _ exam.ResultListOpts) ([]exam.Result, error) {
	out := make([]exam.Result, 0, len(m.byID))
	for _, r := range m.byID {
		out = append(out, r)
	}
	return out, nil
}

func newTestRouter(t *testing.T) (*chi.Mux, *memResults) {
	t.Helper()
	repo := &fakeRepo{
		chapters: map[int64]content.ChapterInfo{
			1: {Chapter: content.Chapter{ID: 1, Title: "Algebra"}, MajorName: "Math", MaterialName: "Basics"},
			2: {Chapter: content.Chapter{ID: 2, Title: "Empty"}},
		},
		questions: map[int64][]content.Question{
			1: {
				{ID: 11, ChapterID: 1, Text: "one", ChoiceA: "a", ChoiceB: "b", ChoiceC: "c", Correct: "A", Explanation: "because"},
				{ID: 12, ChapterID: 1, Text: "two", ChoiceA: "a", ChoiceB: "b", ChoiceC: "c", Correct: "B"},
			},
		},
	}
	results := &memResults{byID: map[string]exam.Result{}}
	store := websession.NewMemoryStore()
	sessions := websession.NewManager(store, 30*time.Minute)
	attempts := exam.NewAttemptStore(store, 30*time.Minute)
	svc := exam.NewService(repo, attempts, results, 1800, rand.New(rand.NewSource(1)))
	cfg := config.Config{PassingPercentage: 70, ShowExplanations: true, AllowRetakes: true}

	r := chi.NewRouter()
	r.Get("/api/exam/{chapterID}", ExamViewHandler(svc, sessions))
	r.Post("/api/exam/{chapterID}", ExamNavigateHandler(svc, sessions))
	r.Get("/api/results/{resultID}", ResultViewHandler(results, repo, cfg))
	return r, results
}

func examSID(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "exam_sid" {
			return c
		}
	}
	t.Fatalf("exam_sid cookie not set")
	return nil
}

/* ---------------- tests ---------------- */

func TestExamFlowEndToEnd(t *testing.T) {
	router, results := newTestRouter(t)

	// GET creates the attempt and sets the session cookie
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/exam/1", nil))
	if rec.Code != 200 {
		t.Fatalf("view status = %d: %s", rec.Code, rec.Body)
	}
	sid := examSID(t, rec)

	var state exam.ViewState
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if state.Total != 2 || state.Index != 0 {
		t.Fatalf("view = %+v", state)
	}
	if strings.Contains(rec.Body.String(), "correct_answer") {
		t.Fatalf("correct label leaked to student view: %s", rec.Body)
	}

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/api/exam/1", strings.NewReader(body))
		req.AddCookie(sid)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	// answer question 0 correctly and move on
	rec = post(`{"action":"next","current_question":0,"answer":"A"}`)
	if rec.Code != 200 {
		t.Fatalf("next status = %d: %s", rec.Code, rec.Body)
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &state)
	if state.Index != 1 {
		t.Fatalf("index = %d, want 1", state.Index)
	}
	if !state.Answered[0] {
		t.Fatalf("palette missing answered mark: %+v", state.Answered)
	}

	// submit with question 1 wrong
	rec = post(`{"action":"submit","current_question":1,"answer":"C"}`)
	if rec.Code != 200 {
		t.Fatalf("submit status = %d: %s", rec.Code, rec.Body)
	}
	var done struct {
		ResultID string `json:"result_id"`
		Redirect string `json:"redirect"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &done)
	if done.ResultID == "" || done.Redirect != "/results/"+done.ResultID {
		t.Fatalf("submit response = %+v", done)
	}
	if len(results.byID) != 1 {
		t.Fatalf("results stored = %d, want 1", len(results.byID))
	}

	// result view: 1/2 correct, failed at 70% threshold, explanation shown
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/results/"+done.ResultID, nil))
	if rec.Code != 200 {
		t.Fatalf("result status = %d: %s", rec.Code, rec.Body)
	}
	var res struct {
		Score      int     `json:"score"`
		Percentage float64 `json:"percentage"`
		Passed     bool    `json:"passed"`
		Retake     bool    `json:"retake_allowed"`
		Review     []struct {
			QuestionID  int64  `json:"question_id"`
			Explanation string `json:"explanation"`
		} `json:"review"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &res)
	if res.Score != 1 || res.Percentage != 50 || res.Passed {
		t.Fatalf("result = %+v", res)
	}
	if !res.Retake {
		t.Fatalf("retake flag not surfaced")
	}
	if len(res.Review) != 2 {
		t.Fatalf("review length = %d, want 2", len(res.Review))
	}

	// session cleared: a fresh POST has no attempt to act on
	rec = post(`{"action":"next","current_question":0}`)
	if rec.Code != 409 {
		t.Fatalf("post after submit status = %d, want 409", rec.Code)
	}
}

func TestExamViewEmptyChapterRedirects(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/exam/2", nil))
	if rec.Code != 409 {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["redirect"] != "/" {
		t.Fatalf("redirect = %q, want /", body["redirect"])
	}
}

func TestExamViewUnknownChapter(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/exam/99", nil))
	if rec.Code != 404 {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestSubmitWithoutAttemptRedirects(t *testing.T) {
	router, results := newTestRouter(t)
	req := httptest.NewRequest("POST", "/api/exam/1", strings.NewReader(`{"action":"submit","current_question":0}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != 409 {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if len(results.byID) != 0 {
		t.Fatalf("result written for stale submit")
	}
}
