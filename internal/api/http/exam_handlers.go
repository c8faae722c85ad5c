package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/examstack/examstack/internal/content"
	"github.com/examstack/examstack/internal/exam"
	"github.com/examstack/examstack/internal/websession"

	"github.com/go-chi/chi/v5"
)

// ExamViewHandler serves GET /api/exam/{chapterID}: the current question view,
// lazily creating the attempt on first navigation into the chapter.
func ExamViewHandler(svc *exam.Service, sessions *websession.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chapterID, ok := parseID(chi.URLParam(r, "chapterID"))
		if !ok {
			redirectError(w, 404, "Invalid chapter selected.", "/")
			return
		}
		sid := sessions.SessionID(w, r)

		state, err := svc.View(r.Context(), sid, chapterID)
		if err != nil {
			switch {
			case errors.Is(err, content.ErrNotFound):
				redirectError(w, 404, "Chapter not found.", "/")
			case errors.Is(err, exam.ErrEmptyChapter):
				redirectError(w, 409, "No questions available for this chapter.", "/")
			default:
				redirectError(w, 500, "Failed to load exam.", "/")
			}
			return
		}
		writeJSON(w, 200, state)
	}
}

type navigateRequest struct {
	Action  string `json:"action"` // answer|next|prev|jump|submit
	Current int    `json:"current_question"`
	Answer  string `json:"answer,omitempty"`
	JumpTo  int    `json:"jump_to,omitempty"`
}

// ExamNavigateHandler serves POST /api/exam/{chapterID}: one navigation
// action per request. Out-of-range movement is ignored and the current state
// re-rendered; submit responds with the result location instead.
func ExamNavigateHandler(svc *exam.Service, sessions *websession.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chapterID, ok := parseID(chi.URLParam(r, "chapterID"))
		if !ok {
			redirectError(w, 404, "Invalid chapter selected.", "/")
			return
		}
		var req navigateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		act := exam.Action{
			Kind:   exam.ActionKind(req.Action),
			Index:  req.Current,
			Answer: req.Answer,
			JumpTo: req.JumpTo,
		}
		sid := sessions.SessionID(w, r)

		state, resultID, submitted, err := svc.Navigate(r.Context(), sid, chapterID, act)
		if err != nil {
			switch {
			case errors.Is(err, exam.ErrNoActiveAttempt):
				redirectError(w, 409, "No active exam found. Please start a new exam.", "/")
			case errors.Is(err, content.ErrNotFound):
				redirectError(w, 404, "Chapter not found.", "/")
			default:
				// Result persistence failure included: the attempt is
				// already cleared, the student starts over.
				redirectError(w, 500, "Failed to save exam results.", "/")
			}
			return
		}
		if submitted {
			writeJSON(w, 200, map[string]string{
				"result_id": resultID,
				"redirect":  "/results/" + resultID,
			})
			return
		}
		writeJSON(w, 200, state)
	}
}
