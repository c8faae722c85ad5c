package exam_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/examstack/examstack/internal/content"
	"github.com/examstack/examstack/internal/db"
	"github.com/examstack/examstack/internal/exam"
)

func openResultRepo(t *testing.T) (*exam.SQLResultRepo, int64) {
	t.Helper()
	ctx := context.Background()
	dbh, err := db.Open(ctx, db.DriverSQLite, "file::memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	dbh.SetMaxOpenConns(1) // each sqlite :memory: connection is its own database
	t.Cleanup(func() { dbh.Close() })

	repo := content.NewSQLRepository(dbh)
	majorID, err := repo.CreateMajor(ctx, content.Major{Name: "Math", Active: true})
	if err != nil {
		t.Fatalf("seed major: %v", err)
	}
	materialID, err := repo.CreateMaterial(ctx, content.Material{MajorID: majorID, Name: "Algebra", Active: true})
	if err != nil {
		t.Fatalf("seed material: %v", err)
	}
	chapterID, err := repo.CreateChapter(ctx, content.Chapter{MaterialID: materialID, Title: "Ch1", Number: 1, Active: true})
	if err != nil {
		t.Fatalf("seed chapter: %v", err)
	}
	return exam.NewSQLResultRepo(dbh), chapterID
}

func sampleResult(chapterID int64) exam.Result {
	b := "B"
	return exam.Result{
		StudentName:      "Anonymous Student",
		ChapterID:        chapterID,
		Score:            1,
		TotalQuestions:   2,
		Percentage:       50,
		CorrectAnswers:   1,
		WrongAnswers:     1,
		CompletedAt:      time.Now().Unix(),
		TimeTakenSeconds: 73,
		Answers: []exam.AuditEntry{
			{QuestionID: 11, Submitted: &b, Correct: "B", IsCorrect: true},
			{QuestionID: 12, Submitted: nil, Correct: "A", IsCorrect: false},
		},
	}
}

func TestResultInsertAndGet(t *testing.T) {
	ctx := context.Background()
	repo, chapterID := openResultRepo(t)

	id, err := repo.Insert(ctx, sampleResult(chapterID))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if id == "" {
		t.Fatalf("empty result id")
	}

	got, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Score != 1 || got.Percentage != 50 || got.TimeTakenSeconds != 73 {
		t.Fatalf("result = %+v", got)
	}
	if len(got.Answers) != 2 {
		t.Fatalf("audit length = %d, want 2", len(got.Answers))
	}
	if got.Answers[1].Submitted != nil {
		t.Fatalf("unanswered entry came back non-nil")
	}
	if got.Answers[0].Submitted == nil || *got.Answers[0].Submitted != "B" {
		t.Fatalf("answered entry = %+v", got.Answers[0])
	}
}

func TestResultGetUnknown(t *testing.T) {
	repo, _ := openResultRepo(t)
	if _, err := repo.GetByID(context.Background(), "nope"); !errors.Is(err, exam.ErrResultNotFound) {
		t.Fatalf("err = %v, want ErrResultNotFound", err)
	}
}

func TestResultListFilters(t *testing.T) {
	ctx := context.Background()
	repo, chapterID := openResultRepo(t)

	if _, err := repo.Insert(ctx, sampleResult(chapterID)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := repo.Insert(ctx, sampleResult(chapterID)); err != nil {
		t.Fatalf("insert: %v", err)
	}

	all, err := repo.List(ctx, exam.ResultListOpts{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("results = %d, want 2", len(all))
	}

	byChapter, err := repo.List(ctx, exam.ResultListOpts{ChapterID: chapterID})
	if err != nil {
		t.Fatalf("list by chapter: %v", err)
	}
	if len(byChapter) != 2 {
		t.Fatalf("by chapter = %d, want 2", len(byChapter))
	}

	none, err := repo.List(ctx, exam.ResultListOpts{ChapterID: chapterID + 1})
	if err != nil {
		t.Fatalf("list other chapter: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("unexpected rows for other chapter: %d", len(none))
	}

	future, err := repo.List(ctx, exam.ResultListOpts{DateFrom: time.Now().Add(time.Hour).Unix()})
	if err != nil {
		t.Fatalf("list future: %v", err)
	}
	if len(future) != 0 {
		t.Fatalf("date filter ignored: %d", len(future))
	}
}
