package exam

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/examstack/examstack/internal/content"
	"github.com/examstack/examstack/internal/websession"
)

/* ---------------- fakes for the content and result collaborators ---------------- */

type fakeContent struct {
	chapters  map[int64]content.ChapterInfo
	questions map[int64][]content.Question
}

func (f *fakeContent) GetChapterInfo(_ context.Context, id int64) (content.ChapterInfo, error) {
	ci, ok := f.chapters[id]
	if !ok {
		return content.ChapterInfo{}, content.ErrNotFound
	}
	return ci, nil
}

func (f *fakeContent) ListActiveQuestions(_ context.Context, id int64) ([]content.Question, error) {
	return f.questions[id], nil
}

type fakeResults struct {
	inserted   []Result
	failInsert bool
}

func (f *fakeResults) Insert(_ context.Context, r Result) (string, error) {
	if f.failInsert {
		return "", errors.New("insert failed")
	}
	r.ID = fmt.Sprintf("res-%d", len(f.inserted)+1)
	f.inserted = append(f.inserted, r)
	return r.ID, nil
}

func (f *fakeResults) GetByID(_ context.Context, id string) (Result, error) {
	for _, r := range f.inserted {
		if r.ID == id {
			return r, nil
		}
	}
	return Result{}, ErrResultNotFound
}

func (f *fakeResults) List(_ context.Context, _ ResultListOpts) ([]Result, error) {
	return f.inserted, nil
}

func newTestService(t *testing.T, results *fakeResults) (*Service, *AttemptStore) {
	t.Helper()
	cs := &fakeContent{
		chapters: map[int64]content.ChapterInfo{
			1: {Chapter: content.Chapter{ID: 1, Title: "Algebra"}, MajorName: "Math", MaterialName: "Basics"},
			2: {Chapter: content.Chapter{ID: 2, Title: "Empty"}},
		},
		questions: map[int64][]content.Question{
			1: {
				{ID: 11, ChapterID: 1, Text: "q1", Correct: "A"},
				{ID: 12, ChapterID: 1, Text: "q2", Correct: "B"},
				{ID: 13, ChapterID: 1, Text: "q3", Correct: "C"},
			},
		},
	}
	attempts := NewAttemptStore(websession.NewMemoryStore(), 30*time.Minute)
	return NewService(cs, attempts, results, 1800, rand.New(rand.NewSource(3))), attempts
}

func TestViewCreatesAttemptLazily(t *testing.T) {
	ctx := context.Background()
	svc, attempts := newTestService(t, &fakeResults{})

	state, err := svc.View(ctx, "sid", 1)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if state.Total != 3 || state.Index != 0 {
		t.Fatalf("got total=%d index=%d", state.Total, state.Index)
	}
	if state.Question.ID == 0 || state.Question.Text == "" {
		t.Fatalf("question view not populated: %+v", state.Question)
	}
	if state.TimerSeconds != 1800 {
		t.Fatalf("timer seconds = %d, want 1800", state.TimerSeconds)
	}

	// second view resumes the same attempt rather than reshuffling
	a1, _ := attempts.Get(ctx, "sid")
	if _, err := svc.View(ctx, "sid", 1); err != nil {
		t.Fatalf("second view: %v", err)
	}
	a2, _ := attempts.Get(ctx, "sid")
	for i := range a1.Questions {
		if a1.Questions[i].ID != a2.Questions[i].ID {
			t.Fatalf("attempt reshuffled on re-view")
		}
	}
}

func TestViewRejectsEmptyChapter(t *testing.T) {
	ctx := context.Background()
	svc, attempts := newTestService(t, &fakeResults{})

	if _, err := svc.View(ctx, "sid", 2); !errors.Is(err, ErrEmptyChapter) {
		t.Fatalf("err = %v, want ErrEmptyChapter", err)
	}
	if _, err := attempts.Get(ctx, "sid"); !errors.Is(err, ErrNoActiveAttempt) {
		t.Fatalf("attempt created for empty chapter")
	}
}

func TestViewUnknownChapter(t *testing.T) {
	svc, _ := newTestService(t, &fakeResults{})
	if _, err := svc.View(context.Background(), "sid", 99); !errors.Is(err, content.ErrNotFound) {
		t.Fatalf("err = %v, want content.ErrNotFound", err)
	}
}

func TestViewSwitchingChapterOverwrites(t *testing.T) {
	ctx := context.Background()
	svc, attempts := newTestService(t, &fakeResults{})

	if _, err := svc.View(ctx, "sid", 1); err != nil {
		t.Fatalf("view: %v", err)
	}
	a, _ := attempts.Get(ctx, "sid")
	a.ChapterID = 42 // simulate a leftover attempt for another chapter
	if err := attempts.SetCursor(ctx, "sid", a, 0); err != nil {
		t.Fatalf("persist: %v", err)
	}

	if _, err := svc.View(ctx, "sid", 1); err != nil {
		t.Fatalf("view after switch: %v", err)
	}
	got, _ := attempts.Get(ctx, "sid")
	if got.ChapterID != 1 {
		t.Fatalf("stale attempt survived, chapter = %d", got.ChapterID)
	}
}

func TestNavigateAndSubmitRoundTrip(t *testing.T) {
	ctx := context.Background()
	results := &fakeResults{}
	svc, attempts := newTestService(t, results)

	if _, err := svc.View(ctx, "sid", 1); err != nil {
		t.Fatalf("view: %v", err)
	}
	a, _ := attempts.Get(ctx, "sid")

	// answer every question with its own correct label except position 1
	for i := 0; i < a.Len(); i++ {
		label := a.Questions[i].Correct
		if i == 1 {
			if label == "A" {
				label = "B"
			} else {
				label = "A"
			}
		}
		act := Action{Kind: ActionNext, Index: i, Answer: label}
		if i == a.Len()-1 {
			act.Kind = ActionSubmit
		}
		state, resultID, submitted, err := svc.Navigate(ctx, "sid", 1, act)
		if err != nil {
			t.Fatalf("navigate %d: %v", i, err)
		}
		if i < a.Len()-1 {
			if submitted {
				t.Fatalf("premature submit at %d", i)
			}
			if state.Index != i+1 {
				t.Fatalf("index = %d, want %d", state.Index, i+1)
			}
		} else {
			if !submitted || resultID == "" {
				t.Fatalf("submit not signalled")
			}
		}
	}

	if len(results.inserted) != 1 {
		t.Fatalf("results inserted = %d, want exactly 1", len(results.inserted))
	}
	r := results.inserted[0]
	if r.Score != 2 || r.WrongAnswers != 1 || r.Percentage != 66.67 {
		t.Fatalf("got score=%d wrong=%d pct=%v", r.Score, r.WrongAnswers, r.Percentage)
	}
	if len(r.Answers) != 3 {
		t.Fatalf("audit length = %d, want 3", len(r.Answers))
	}
	if r.ChapterID != 1 {
		t.Fatalf("chapter = %d, want 1", r.ChapterID)
	}

	// attempt destroyed: next navigation needs a fresh create
	if _, err := attempts.Get(ctx, "sid"); !errors.Is(err, ErrNoActiveAttempt) {
		t.Fatalf("attempt survived submit: %v", err)
	}
}

func TestSubmitWithoutAttempt(t *testing.T) {
	results := &fakeResults{}
	svc, _ := newTestService(t, results)

	_, _, _, err := svc.Navigate(context.Background(), "sid", 1, Action{Kind: ActionSubmit})
	if !errors.Is(err, ErrNoActiveAttempt) {
		t.Fatalf("err = %v, want ErrNoActiveAttempt", err)
	}
	if len(results.inserted) != 0 {
		t.Fatalf("result written with no attempt")
	}
}

func TestInsertFailureStillDestroysAttempt(t *testing.T) {
	ctx := context.Background()
	results := &fakeResults{failInsert: true}
	svc, attempts := newTestService(t, results)

	if _, err := svc.View(ctx, "sid", 1); err != nil {
		t.Fatalf("view: %v", err)
	}
	if _, err := svc.Submit(ctx, "sid"); err == nil {
		t.Fatalf("expected insert error")
	}
	if _, err := attempts.Get(ctx, "sid"); !errors.Is(err, ErrNoActiveAttempt) {
		t.Fatalf("attempt survived failed persistence: %v", err)
	}
}
