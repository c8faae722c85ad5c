package http

import (
	"errors"
	"net/http"

	"github.com/examstack/examstack/internal/config"
	"github.com/examstack/examstack/internal/content"
	"github.com/examstack/examstack/internal/exam"

	"github.com/go-chi/chi/v5"
)

type reviewEntry struct {
	QuestionID  int64   `json:"question_id"`
	Text        string  `json:"question_text"`
	ChoiceA     string  `json:"choice_a"`
	ChoiceB     string  `json:"choice_b"`
	ChoiceC     string  `json:"choice_c"`
	Submitted   *string `json:"user_answer"`
	Correct     string  `json:"correct_answer"`
	IsCorrect   bool    `json:"is_correct"`
	Explanation string  `json:"explanation,omitempty"`
}

type resultResponse struct {
	exam.Result
	Chapter content.ChapterInfo `json:"chapter"`
	Passed  bool                `json:"passed"`
	Retake  bool                `json:"retake_allowed"`
	Review  []reviewEntry       `json:"review"`
}

// ResultViewHandler serves the post-exam review: score summary, pass/fail
// against the configured threshold, and the per-question audit hydrated with
// current question text.
func ResultViewHandler(results exam.ResultRepo, repo content.Repository, cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "resultID")
		res, err := results.GetByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, exam.ErrResultNotFound) {
				redirectError(w, 404, "Result not found.", "/")
				return
			}
			redirectError(w, 500, "Failed to load results.", "/")
			return
		}

		info, err := repo.GetChapterInfo(r.Context(), res.ChapterID)
		if err != nil && !errors.Is(err, content.ErrNotFound) {
			redirectError(w, 500, "Failed to load results.", "/")
			return
		}

		review := make([]reviewEntry, 0, len(res.Answers))
		for _, a := range res.Answers {
			entry := reviewEntry{
				QuestionID: a.QuestionID,
				Submitted:  a.Submitted,
				Correct:    a.Correct,
				IsCorrect:  a.IsCorrect,
			}
			// Questions deleted since the attempt keep their audit row but
			// lose the prompt text.
			if q, err := repo.GetQuestion(r.Context(), a.QuestionID); err == nil {
				entry.Text = q.Text
				entry.ChoiceA = q.ChoiceA
				entry.ChoiceB = q.ChoiceB
				entry.ChoiceC = q.ChoiceC
				if cfg.ShowExplanations {
					entry.Explanation = q.Explanation
				}
			}
			review = append(review, entry)
		}

		writeJSON(w, 200, resultResponse{
			Result:  res,
			Chapter: info,
			Passed:  res.Percentage >= cfg.PassingPercentage,
			Retake:  cfg.AllowRetakes,
			Review:  review,
		})
	}
}
