package content

import (
	"context"
	"errors"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidChoice = errors.New("correct answer must be A, B or C")
)

type ListOpts struct {
	Q      string
	Limit  int
	Offset int

	// Optional parent filters for the admin list views.
	MajorID    int64
	MaterialID int64
	ChapterID  int64
}

// Repository is the content contract consumed by both the admin back office
// and the exam engine. The exam engine uses only the Active* reads.
type Repository interface {
	// Public browse surface.
	ListActiveMajors(ctx context.Context) ([]Major, error)
	ListActiveMaterials(ctx context.Context, majorID int64) ([]Material, error)
	ListActiveChapters(ctx context.Context, materialID int64) ([]Chapter, error)
	GetChapterInfo(ctx context.Context, chapterID int64) (ChapterInfo, error)
	ListActiveQuestions(ctx context.Context, chapterID int64) ([]Question, error)

	// Admin CRUD.
	ListMajors(ctx context.Context, opts ListOpts) ([]Major, error)
	GetMajor(ctx context.Context, id int64) (Major, error)
	CreateMajor(ctx context.Context, m Major) (int64, error)
	UpdateMajor(ctx context.Context, m Major) error
	DeleteMajor(ctx context.Context, id int64) error

	ListMaterials(ctx context.Context, opts ListOpts) ([]Material, error)
	GetMaterial(ctx context.Context, id int64) (Material, error)
	CreateMaterial(ctx context.Context, m Material) (int64, error)
	UpdateMaterial(ctx context.Context, m Material) error
	DeleteMaterial(ctx context.Context, id int64) error

	ListChapters(ctx context.Context, opts ListOpts) ([]Chapter, error)
	GetChapter(ctx context.Context, id int64) (Chapter, error)
	CreateChapter(ctx context.Context, c Chapter) (int64, error)
	UpdateChapter(ctx context.Context, c Chapter) error
	DeleteChapter(ctx context.Context, id int64) error

	ListQuestions(ctx context.Context, opts ListOpts) ([]Question, error)
	GetQuestion(ctx context.Context, id int64) (Question, error)
	CreateQuestion(ctx context.Context, q Question) (int64, error)
	UpdateQuestion(ctx context.Context, q Question) error
	DeleteQuestion(ctx context.Context, id int64) error

	GetStats(ctx context.Context) (Stats, error)
}

func validChoice(label string) bool {
	return label == "A" || label == "B" || label == "C"
}
