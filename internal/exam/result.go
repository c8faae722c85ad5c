package exam

import "context"

// Result is the sole durable artifact of an attempt. Write-once: inserted on
// submit, then only ever read.
type Result struct {
	ID               string       `json:"id"`
	StudentName      string       `json:"student_name"`
	ChapterID        int64        `json:"chapter_id"`
	Score            int          `json:"score"`
	TotalQuestions   int          `json:"total_questions"`
	Percentage       float64      `json:"percentage"`
	CorrectAnswers   int          `json:"correct_answers"`
	WrongAnswers     int          `json:"wrong_answers"`
	CompletedAt      int64        `json:"completed_at"`
	TimeTakenSeconds int64        `json:"time_taken_seconds"`
	Answers          []AuditEntry `json:"answers"`
}

type ResultListOpts struct {
	ChapterID  int64
	MaterialID int64
	MajorID    int64
	DateFrom   int64 // unix seconds, inclusive; 0 = unbounded
	DateTo     int64
	Limit      int
	Offset     int
}

// ResultRepo is append-only: no update or delete surface exists.
type ResultRepo interface {
	Insert(ctx context.Context, r Result) (string, error)
	GetByID(ctx context.Context, id string) (Result, error)
	List(ctx context.Context, opts ResultListOpts) ([]Result, error)
}
