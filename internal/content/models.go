package content

// Content hierarchy: Major -> Material -> Chapter -> Question. Owned by the
// admin back office; the exam engine only ever reads it.

type Major struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"is_active"`
	CreatedAt   int64  `json:"created_at,omitempty"`

	// Populated by the public browse queries.
	MaterialCount int `json:"material_count,omitempty"`
	ChapterCount  int `json:"chapter_count,omitempty"`
	QuestionCount int `json:"question_count,omitempty"`
}

type Material struct {
	ID          int64  `json:"id"`
	MajorID     int64  `json:"major_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"is_active"`
	CreatedAt   int64  `json:"created_at,omitempty"`

	ChapterCount int `json:"chapter_count,omitempty"`
}

type Chapter struct {
	ID         int64  `json:"id"`
	MaterialID int64  `json:"material_id"`
	Title      string `json:"title"`
	Number     int    `json:"chapter_number"`
	Active     bool   `json:"is_active"`
	CreatedAt  int64  `json:"created_at,omitempty"`

	QuestionCount int `json:"question_count,omitempty"`
}

// ChapterInfo is the joined view served with the exam and result pages.
type ChapterInfo struct {
	Chapter
	MajorID      int64  `json:"major_id"`
	MajorName    string `json:"major_name"`
	MaterialName string `json:"material_name"`
}

type Question struct {
	ID          int64  `json:"id"`
	ChapterID   int64  `json:"chapter_id"`
	Text        string `json:"question_text"`
	ChoiceA     string `json:"choice_a"`
	ChoiceB     string `json:"choice_b"`
	ChoiceC     string `json:"choice_c"`
	Correct     string `json:"correct_answer"` // "A" | "B" | "C"
	Explanation string `json:"explanation,omitempty"`
	Active      bool   `json:"is_active"`
	CreatedAt   int64  `json:"created_at,omitempty"`
}

// Stats feeds the admin dashboard.
type Stats struct {
	Majors    int `json:"majors"`
	Materials int `json:"materials"`
	Chapters  int `json:"chapters"`
	Questions int `json:"questions"`
	Results   int `json:"results"`
}
