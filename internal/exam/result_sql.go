package exam

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
)

var ErrResultNotFound = errors.New("result not found")

type SQLResultRepo struct {
	db *sql.DB
}

func NewSQLResultRepo(db *sql.DB) *SQLResultRepo {
	return &SQLResultRepo{db: db}
}

func (s *SQLResultRepo) Insert(ctx context.Context, r Result) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	aj, err := json.Marshal(r.Answers)
	if err != nil {
		return "", err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO exam_results
		(id, student_name, chapter_id, score, total_questions, percentage, correct_answers, wrong_answers, completed_at, time_taken_seconds, answers_json)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		r.ID, r.StudentName, r.ChapterID, r.Score, r.TotalQuestions, r.Percentage,
		r.CorrectAnswers, r.WrongAnswers, r.CompletedAt, r.TimeTakenSeconds, string(aj))
	if err != nil {
		return "", err
	}
	return r.ID, nil
}

func (s *SQLResultRepo) GetByID(ctx context.Context, id string) (Result, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, student_name, chapter_id, score, total_questions, percentage, correct_answers, wrong_answers, completed_at, time_taken_seconds, answers_json
		FROM exam_results WHERE id=$1`, id)
	return scanResult(row)
}

func (s *SQLResultRepo) List(ctx context.Context, opts ResultListOpts) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT er.id, er.student_name, er.chapter_id, er.score, er.total_questions, er.percentage,
		       er.correct_answers, er.wrong_answers, er.completed_at, er.time_taken_seconds, er.answers_json
		FROM exam_results er
		JOIN chapters ch ON er.chapter_id = ch.id
		JOIN materials ma ON ch.material_id = ma.id
		WHERE ($1 = 0 OR er.chapter_id = $1)
		  AND ($2 = 0 OR ch.material_id = $2)
		  AND ($3 = 0 OR ma.major_id = $3)
		  AND ($4 = 0 OR er.completed_at >= $4)
		  AND ($5 = 0 OR er.completed_at <= $5)
		ORDER BY er.completed_at DESC
		LIMIT $6 OFFSET $7`,
		opts.ChapterID, opts.MaterialID, opts.MajorID, opts.DateFrom, opts.DateTo,
		limitOr(opts.Limit), opts.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner) (Result, error) {
	var r Result
	var aj string
	err := row.Scan(&r.ID, &r.StudentName, &r.ChapterID, &r.Score, &r.TotalQuestions, &r.Percentage,
		&r.CorrectAnswers, &r.WrongAnswers, &r.CompletedAt, &r.TimeTakenSeconds, &aj)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Result{}, ErrResultNotFound
		}
		return Result{}, err
	}
	if err := json.Unmarshal([]byte(aj), &r.Answers); err != nil {
		return Result{}, err
	}
	return r, nil
}

func limitOr(n int) int {
	if n <= 0 {
		return 50
	}
	return n
}
