package exam

// QuestionSnapshot is a question as frozen into an attempt at creation time.
// The snapshot carries the correct label and explanation so that scoring and
// the result review never re-query content that may have changed mid-attempt.
type QuestionSnapshot struct {
	ID          int64  `json:"id"`
	Text        string `json:"question_text"`
	ChoiceA     string `json:"choice_a"`
	ChoiceB     string `json:"choice_b"`
	ChoiceC     string `json:"choice_c"`
	Correct     string `json:"correct_answer"` // "A" | "B" | "C"
	Explanation string `json:"explanation,omitempty"`
}

// Attempt is one in-progress exam session's mutable state. It lives only in
// the web session blob; it is never persisted on its own.
type Attempt struct {
	ChapterID int64              `json:"chapter_id"`
	Questions []QuestionSnapshot `json:"questions"` // frozen permutation
	Answers   map[int]string     `json:"answers"`   // question index -> choice label, sparse
	Cursor    int                `json:"current_question"`
	StartedAt int64              `json:"start_time"` // unix seconds
}

func (a *Attempt) Len() int { return len(a.Questions) }

// Answered reports how many questions have a recorded answer.
func (a *Attempt) Answered() int { return len(a.Answers) }

// At returns the question at index i. Callers must pass a valid index; the
// cursor invariant keeps a.Cursor in range.
func (a *Attempt) At(i int) QuestionSnapshot { return a.Questions[i] }

// ValidLabel reports whether label is one of the three choice labels.
func ValidLabel(label string) bool {
	return label == "A" || label == "B" || label == "C"
}
