package exam

import (
	"math"
	"time"
)

// AuditEntry records one question's outcome in attempt order: what was
// submitted (nil = unanswered), what was correct, and whether they match.
type AuditEntry struct {
	QuestionID int64   `json:"question_id"`
	Submitted  *string `json:"user_answer"` // nil when unanswered
	Correct    string  `json:"correct_answer"`
	IsCorrect  bool    `json:"is_correct"`
}

// Summary is the computed outcome of a finished attempt, before persistence.
type Summary struct {
	Score            int
	TotalQuestions   int
	Percentage       float64
	CorrectAnswers   int
	WrongAnswers     int
	TimeTakenSeconds int64
	Answers          []AuditEntry
}

// Score derives the outcome from the attempt's final state. Pure: the same
// attempt and clock always yield the same summary. Unanswered questions score
// as incorrect, never as skips.
func Score(a *Attempt, now time.Time) Summary {
	n := a.Len()
	audit := make([]AuditEntry, 0, n)
	correct := 0
	for i := 0; i < n; i++ {
		q := a.Questions[i]
		entry := AuditEntry{QuestionID: q.ID, Correct: q.Correct}
		if label, ok := a.Answers[i]; ok {
			l := label
			entry.Submitted = &l
			entry.IsCorrect = label == q.Correct
		}
		if entry.IsCorrect {
			correct++
		}
		audit = append(audit, entry)
	}

	return Summary{
		Score:            correct,
		TotalQuestions:   n,
		Percentage:       round2(float64(correct) / float64(n) * 100),
		CorrectAnswers:   correct,
		WrongAnswers:     n - correct,
		TimeTakenSeconds: now.Unix() - a.StartedAt,
		Answers:          audit,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
