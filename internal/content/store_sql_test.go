package content_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/examstack/examstack/internal/content"
	"github.com/examstack/examstack/internal/db"
)

func openTestRepo(t *testing.T) (*content.SQLRepository, *sql.DB) {
	t.Helper()
	ctx := context.Background()
	dbh, err := db.Open(ctx, db.DriverSQLite, "file::memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	dbh.SetMaxOpenConns(1) // each sqlite :memory: connection is its own database
	t.Cleanup(func() { dbh.Close() })
	return content.NewSQLRepository(dbh), dbh
}

func seedHierarchy(t *testing.T, repo *content.SQLRepository) (majorID, materialID, chapterID int64) {
	t.Helper()
	ctx := context.Background()

	majorID, err := repo.CreateMajor(ctx, content.Major{Name: "Math", Active: true})
	if err != nil {
		t.Fatalf("create major: %v", err)
	}
	materialID, err = repo.CreateMaterial(ctx, content.Material{MajorID: majorID, Name: "Algebra", Active: true})
	if err != nil {
		t.Fatalf("create material: %v", err)
	}
	chapterID, err = repo.CreateChapter(ctx, content.Chapter{MaterialID: materialID, Title: "Linear Equations", Number: 1, Active: true})
	if err != nil {
		t.Fatalf("create chapter: %v", err)
	}
	return majorID, materialID, chapterID
}

func TestQuestionCRUDAndActiveFilter(t *testing.T) {
	ctx := context.Background()
	repo, _ := openTestRepo(t)
	_, _, chapterID := seedHierarchy(t, repo)

	q1 := content.Question{ChapterID: chapterID, Text: "2+2?", ChoiceA: "3", ChoiceB: "4", ChoiceC: "5", Correct: "B", Active: true}
	id1, err := repo.CreateQuestion(ctx, q1)
	if err != nil {
		t.Fatalf("create question: %v", err)
	}
	if _, err := repo.CreateQuestion(ctx, content.Question{ChapterID: chapterID, Text: "inactive", ChoiceA: "a", ChoiceB: "b", ChoiceC: "c", Correct: "A", Active: false}); err != nil {
		t.Fatalf("create inactive: %v", err)
	}

	active, err := repo.ListActiveQuestions(ctx, chapterID)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 1 || active[0].ID != id1 {
		t.Fatalf("active questions = %+v, want only %d", active, id1)
	}
	if active[0].Correct != "B" {
		t.Fatalf("correct label = %q", active[0].Correct)
	}

	got, err := repo.GetQuestion(ctx, id1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got.Text = "2 plus 2?"
	if err := repo.UpdateQuestion(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := repo.DeleteQuestion(ctx, id1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetQuestion(ctx, id1); !errors.Is(err, content.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCreateQuestionRejectsBadLabel(t *testing.T) {
	ctx := context.Background()
	repo, _ := openTestRepo(t)
	_, _, chapterID := seedHierarchy(t, repo)

	q := content.Question{ChapterID: chapterID, Text: "bad", ChoiceA: "a", ChoiceB: "b", ChoiceC: "c", Correct: "D", Active: true}
	if _, err := repo.CreateQuestion(ctx, q); !errors.Is(err, content.ErrInvalidChoice) {
		t.Fatalf("err = %v, want ErrInvalidChoice", err)
	}
}

func TestBrowseCountsAndChapterInfo(t *testing.T) {
	ctx := context.Background()
	repo, _ := openTestRepo(t)
	majorID, materialID, chapterID := seedHierarchy(t, repo)

	for i := 0; i < 3; i++ {
		q := content.Question{ChapterID: chapterID, Text: "q", ChoiceA: "a", ChoiceB: "b", ChoiceC: "c", Correct: "A", Active: true}
		if _, err := repo.CreateQuestion(ctx, q); err != nil {
			t.Fatalf("seed question: %v", err)
		}
	}

	majors, err := repo.ListActiveMajors(ctx)
	if err != nil {
		t.Fatalf("list majors: %v", err)
	}
	if len(majors) != 1 || majors[0].ID != majorID {
		t.Fatalf("majors = %+v", majors)
	}
	if majors[0].QuestionCount != 3 || majors[0].ChapterCount != 1 || majors[0].MaterialCount != 1 {
		t.Fatalf("counts = %+v", majors[0])
	}

	chapters, err := repo.ListActiveChapters(ctx, materialID)
	if err != nil {
		t.Fatalf("list chapters: %v", err)
	}
	if len(chapters) != 1 || chapters[0].QuestionCount != 3 {
		t.Fatalf("chapters = %+v", chapters)
	}

	info, err := repo.GetChapterInfo(ctx, chapterID)
	if err != nil {
		t.Fatalf("chapter info: %v", err)
	}
	if info.MajorName != "Math" || info.MaterialName != "Algebra" || info.Title != "Linear Equations" {
		t.Fatalf("info = %+v", info)
	}

	// inactive chapters disappear from the exam surface
	ch, _ := repo.GetChapter(ctx, chapterID)
	ch.Active = false
	if err := repo.UpdateChapter(ctx, ch); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := repo.GetChapterInfo(ctx, chapterID); !errors.Is(err, content.ErrNotFound) {
		t.Fatalf("inactive chapter served: %v", err)
	}
}
