package content

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type SQLRepository struct {
	db *sql.DB
}

func NewSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

/* ---------- public browse surface ---------- */

func (s *SQLRepository) ListActiveMajors(ctx context.Context) ([]Major, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.id, m.name, m.description,
		       COUNT(DISTINCT ma.id) AS material_count,
		       COUNT(DISTINCT ch.id) AS chapter_count,
		       COUNT(DISTINCT q.id)  AS question_count
		FROM majors m
		LEFT JOIN materials ma ON m.id = ma.major_id AND ma.is_active
		LEFT JOIN chapters ch ON ma.id = ch.material_id AND ch.is_active
		LEFT JOIN questions q ON ch.id = q.chapter_id AND q.is_active
		WHERE m.is_active
		GROUP BY m.id, m.name, m.description
		ORDER BY m.name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Major
	for rows.Next() {
		m := Major{Active: true}
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.MaterialCount, &m.ChapterCount, &m.QuestionCount); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLRepository) ListActiveMaterials(ctx context.Context, majorID int64) ([]Material, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ma.id, ma.major_id, ma.name, ma.description,
		       COUNT(DISTINCT ch.id) AS chapter_count
		FROM materials ma
		LEFT JOIN chapters ch ON ma.id = ch.material_id AND ch.is_active
		WHERE ma.major_id = $1 AND ma.is_active
		GROUP BY ma.id, ma.major_id, ma.name, ma.description
		ORDER BY ma.name ASC`, majorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Material
	for rows.Next() {
		m := Material{Active: true}
		if err := rows.Scan(&m.ID, &m.MajorID, &m.Name, &m.Description, &m.ChapterCount); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLRepository) ListActiveChapters(ctx context.Context, materialID int64) ([]Chapter, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ch.id, ch.material_id, ch.title, ch.chapter_number,
		       COUNT(DISTINCT q.id) AS question_count
		FROM chapters ch
		LEFT JOIN questions q ON ch.id = q.chapter_id AND q.is_active
		WHERE ch.material_id = $1 AND ch.is_active
		GROUP BY ch.id, ch.material_id, ch.title, ch.chapter_number
		ORDER BY ch.chapter_number ASC`, materialID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Chapter
	for rows.Next() {
		c := Chapter{Active: true}
		if err := rows.Scan(&c.ID, &c.MaterialID, &c.Title, &c.Number, &c.QuestionCount); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLRepository) GetChapterInfo(ctx context.Context, chapterID int64) (ChapterInfo, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT ch.id, ch.material_id, ch.title, ch.chapter_number,
		       ma.major_id, ma.name, mj.name
		FROM chapters ch
		JOIN materials ma ON ch.material_id = ma.id
		JOIN majors mj ON ma.major_id = mj.id
		WHERE ch.id = $1 AND ch.is_active`, chapterID)
	var ci ChapterInfo
	ci.Active = true
	if err := row.Scan(&ci.ID, &ci.MaterialID, &ci.Title, &ci.Number, &ci.MajorID, &ci.MaterialName, &ci.MajorName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ChapterInfo{}, ErrNotFound
		}
		return ChapterInfo{}, err
	}
	return ci, nil
}

func (s *SQLRepository) ListActiveQuestions(ctx context.Context, chapterID int64) ([]Question, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, chapter_id, question_text, choice_a, choice_b, choice_c, correct_answer, explanation
		FROM questions
		WHERE chapter_id = $1 AND is_active
		ORDER BY id ASC`, chapterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Question
	for rows.Next() {
		q := Question{Active: true}
		if err := rows.Scan(&q.ID, &q.ChapterID, &q.Text, &q.ChoiceA, &q.ChoiceB, &q.ChoiceC, &q.Correct, &q.Explanation); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

/* ---------- admin CRUD: majors ---------- */

func (s *SQLRepository) ListMajors(ctx context.Context, opts ListOpts) ([]Major, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, is_active, created_at
		FROM majors
		WHERE ($1 = '' OR name LIKE '%'||$1||'%')
		ORDER BY name ASC
		LIMIT $2 OFFSET $3`, opts.Q, limitOr(opts.Limit), opts.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Major
	for rows.Next() {
		var m Major
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.Active, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLRepository) GetMajor(ctx context.Context, id int64) (Major, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, description, is_active, created_at FROM majors WHERE id=$1`, id)
	var m Major
	if err := row.Scan(&m.ID, &m.Name, &m.Description, &m.Active, &m.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Major{}, ErrNotFound
		}
		return Major{}, err
	}
	return m, nil
}

func (s *SQLRepository) CreateMajor(ctx context.Context, m Major) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO majors (name, description, is_active, created_at)
		VALUES ($1,$2,$3,$4) RETURNING id`,
		m.Name, m.Description, m.Active, time.Now().Unix()).Scan(&id)
	return id, err
}

func (s *SQLRepository) UpdateMajor(ctx context.Context, m Major) error {
	return s.exec(ctx, `UPDATE majors SET name=$1, description=$2, is_active=$3 WHERE id=$4`,
		m.Name, m.Description, m.Active, m.ID)
}

func (s *SQLRepository) DeleteMajor(ctx context.Context, id int64) error {
	return s.exec(ctx, `DELETE FROM majors WHERE id=$1`, id)
}

/* ---------- admin CRUD: materials ---------- */

func (s *SQLRepository) ListMaterials(ctx context.Context, opts ListOpts) ([]Material, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, major_id, name, description, is_active, created_at
		FROM materials
		WHERE ($1 = 0 OR major_id = $1) AND ($2 = '' OR name LIKE '%'||$2||'%')
		ORDER BY name ASC
		LIMIT $3 OFFSET $4`, opts.MajorID, opts.Q, limitOr(opts.Limit), opts.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Material
	for rows.Next() {
		var m Material
		if err := rows.Scan(&m.ID, &m.MajorID, &m.Name, &m.Description, &m.Active, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLRepository) GetMaterial(ctx context.Context, id int64) (Material, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, major_id, name, description, is_active, created_at FROM materials WHERE id=$1`, id)
	var m Material
	if err := row.Scan(&m.ID, &m.MajorID, &m.Name, &m.Description, &m.Active, &m.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Material{}, ErrNotFound
		}
		return Material{}, err
	}
	return m, nil
}

func (s *SQLRepository) CreateMaterial(ctx context.Context, m Material) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO materials (major_id, name, description, is_active, created_at)
		VALUES ($1,$2,$3,$4,$5) RETURNING id`,
		m.MajorID, m.Name, m.Description, m.Active, time.Now().Unix()).Scan(&id)
	return id, err
}

func (s *SQLRepository) UpdateMaterial(ctx context.Context, m Material) error {
	return s.exec(ctx, `UPDATE materials SET major_id=$1, name=$2, description=$3, is_active=$4 WHERE id=$5`,
		m.MajorID, m.Name, m.Description, m.Active, m.ID)
}

func (s *SQLRepository) DeleteMaterial(ctx context.Context, id int64) error {
	return s.exec(ctx, `DELETE FROM materials WHERE id=$1`, id)
}

/* ---------- admin CRUD: chapters ---------- */

func (s *SQLRepository) ListChapters(ctx context.Context, opts ListOpts) ([]Chapter, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, material_id, title, chapter_number, is_active, created_at
		FROM chapters
		WHERE ($1 = 0 OR material_id = $1) AND ($2 = '' OR title LIKE '%'||$2||'%')
		ORDER BY chapter_number ASC, title ASC
		LIMIT $3 OFFSET $4`, opts.MaterialID, opts.Q, limitOr(opts.Limit), opts.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Chapter
	for rows.Next() {
		var c Chapter
		if err := rows.Scan(&c.ID, &c.MaterialID, &c.Title, &c.Number, &c.Active, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLRepository) GetChapter(ctx context.Context, id int64) (Chapter, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, material_id, title, chapter_number, is_active, created_at FROM chapters WHERE id=$1`, id)
	var c Chapter
	if err := row.Scan(&c.ID, &c.MaterialID, &c.Title, &c.Number, &c.Active, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Chapter{}, ErrNotFound
		}
		return Chapter{}, err
	}
	return c, nil
}

func (s *SQLRepository) CreateChapter(ctx context.Context, c Chapter) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO chapters (material_id, title, chapter_number, is_active, created_at)
		VALUES ($1,$2,$3,$4,$5) RETURNING id`,
		c.MaterialID, c.Title, c.Number, c.Active, time.Now().Unix()).Scan(&id)
	return id, err
}

func (s *SQLRepository) UpdateChapter(ctx context.Context, c Chapter) error {
	return s.exec(ctx, `UPDATE chapters SET material_id=$1, title=$2, chapter_number=$3, is_active=$4 WHERE id=$5`,
		c.MaterialID, c.Title, c.Number, c.Active, c.ID)
}

func (s *SQLRepository) DeleteChapter(ctx context.Context, id int64) error {
	return s.exec(ctx, `DELETE FROM chapters WHERE id=$1`, id)
}

/* ---------- admin CRUD: questions ---------- */

func (s *SQLRepository) ListQuestions(ctx context.Context, opts ListOpts) ([]Question, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, chapter_id, question_text, choice_a, choice_b, choice_c, correct_answer, explanation, is_active, created_at
		FROM questions
		WHERE ($1 = 0 OR chapter_id = $1) AND ($2 = '' OR question_text LIKE '%'||$2||'%')
		ORDER BY id ASC
		LIMIT $3 OFFSET $4`, opts.ChapterID, opts.Q, limitOr(opts.Limit), opts.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Question
	for rows.Next() {
		var q Question
		if err := rows.Scan(&q.ID, &q.ChapterID, &q.Text, &q.ChoiceA, &q.ChoiceB, &q.ChoiceC, &q.Correct, &q.Explanation, &q.Active, &q.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *SQLRepository) GetQuestion(ctx context.Context, id int64) (Question, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, chapter_id, question_text, choice_a, choice_b, choice_c, correct_answer, explanation, is_active, created_at
		FROM questions WHERE id=$1`, id)
	var q Question
	if err := row.Scan(&q.ID, &q.ChapterID, &q.Text, &q.ChoiceA, &q.ChoiceB, &q.ChoiceC, &q.Correct, &q.Explanation, &q.Active, &q.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Question{}, ErrNotFound
		}
		return Question{}, err
	}
	return q, nil
}

func (s *SQLRepository) CreateQuestion(ctx context.Context, q Question) (int64, error) {
	if !validChoice(q.Correct) {
		return 0, ErrInvalidChoice
	}
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO questions (chapter_id, question_text, choice_a, choice_b, choice_c, correct_answer, explanation, is_active, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9) RETURNING id`,
		q.ChapterID, q.Text, q.ChoiceA, q.ChoiceB, q.ChoiceC, q.Correct, q.Explanation, q.Active, time.Now().Unix()).Scan(&id)
	return id, err
}

func (s *SQLRepository) UpdateQuestion(ctx context.Context, q Question) error {
	if !validChoice(q.Correct) {
		return ErrInvalidChoice
	}
	return s.exec(ctx, `
		UPDATE questions SET chapter_id=$1, question_text=$2, choice_a=$3, choice_b=$4, choice_c=$5,
		       correct_answer=$6, explanation=$7, is_active=$8
		WHERE id=$9`,
		q.ChapterID, q.Text, q.ChoiceA, q.ChoiceB, q.ChoiceC, q.Correct, q.Explanation, q.Active, q.ID)
}

func (s *SQLRepository) DeleteQuestion(ctx context.Context, id int64) error {
	return s.exec(ctx, `DELETE FROM questions WHERE id=$1`, id)
}

/* ---------- dashboard ---------- */

func (s *SQLRepository) GetStats(ctx context.Context) (Stats, error) {
	var st Stats
	row := s.db.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM majors),
		       (SELECT COUNT(*) FROM materials),
		       (SELECT COUNT(*) FROM chapters),
		       (SELECT COUNT(*) FROM questions),
		       (SELECT COUNT(*) FROM exam_results)`)
	if err := row.Scan(&st.Majors, &st.Materials, &st.Chapters, &st.Questions, &st.Results); err != nil {
		return Stats{}, err
	}
	return st, nil
}

func (s *SQLRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func limitOr(n int) int {
	if n <= 0 {
		return 50
	}
	return n
}
