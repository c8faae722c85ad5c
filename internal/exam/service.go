package exam

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/examstack/examstack/internal/content"
)

// ContentSource is the slice of the content repository the exam engine reads.
// It never writes back.
type ContentSource interface {
	GetChapterInfo(ctx context.Context, chapterID int64) (content.ChapterInfo, error)
	ListActiveQuestions(ctx context.Context, chapterID int64) ([]content.Question, error)
}

// QuestionView is a question as served to the student: no correct label, no
// explanation.
type QuestionView struct {
	ID      int64  `json:"id"`
	Text    string `json:"question_text"`
	ChoiceA string `json:"choice_a"`
	ChoiceB string `json:"choice_b"`
	ChoiceC string `json:"choice_c"`
}

// ViewState is one rendering of the exam: the current question plus the
// palette data the exam page needs.
type ViewState struct {
	Chapter      content.ChapterInfo `json:"chapter"`
	Index        int                 `json:"current_question"`
	Total        int                 `json:"total_questions"`
	Question     QuestionView        `json:"question"`
	Selected     string              `json:"selected,omitempty"` // answer recorded at Index, if any
	Answered     map[int]bool        `json:"answered"`
	TimerSeconds int                 `json:"timer_seconds,omitempty"` // 0 = timer disabled
	StartedAt    int64               `json:"start_time"`
}

// Service wires the attempt store, the navigation controller and the scoring
// engine behind the two operations the HTTP surface needs.
type Service struct {
	content    ContentSource
	attempts   *AttemptStore
	controller *Controller
	results    ResultRepo

	timerSeconds int

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewService builds a Service. rng drives the question permutation; pass a
// seeded source in tests for deterministic ordering.
func NewService(cs ContentSource, attempts *AttemptStore, results ResultRepo, timerSeconds int, rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		content:      cs,
		attempts:     attempts,
		controller:   NewController(attempts),
		results:      results,
		timerSeconds: timerSeconds,
		rng:          rng,
	}
}

// View returns the current exam state for chapterID, lazily creating the
// attempt on first navigation. An attempt left over from another chapter is
// overwritten; there are no cross-chapter resume semantics.
func (s *Service) View(ctx context.Context, sid string, chapterID int64) (ViewState, error) {
	info, err := s.content.GetChapterInfo(ctx, chapterID)
	if err != nil {
		return ViewState{}, err
	}

	a, err := s.attempts.Get(ctx, sid)
	switch {
	case err == nil && a.ChapterID == chapterID:
		// resume
	case err == nil || errors.Is(err, ErrNoActiveAttempt):
		a, err = s.create(ctx, sid, chapterID)
		if err != nil {
			return ViewState{}, err
		}
	default:
		return ViewState{}, err
	}
	return s.render(info, a), nil
}

// Navigate applies one student action. The returned submitted flag tells the
// caller to redirect to the result view instead of re-rendering.
func (s *Service) Navigate(ctx context.Context, sid string, chapterID int64, act Action) (state ViewState, resultID string, submitted bool, err error) {
	a, err := s.attempts.Get(ctx, sid)
	if err != nil {
		return ViewState{}, "", false, err
	}
	submit, err := s.controller.Apply(ctx, sid, a, act)
	if err != nil {
		return ViewState{}, "", false, err
	}
	if submit {
		r, err := s.Submit(ctx, sid)
		if err != nil {
			return ViewState{}, "", false, err
		}
		return ViewState{}, r.ID, true, nil
	}

	info, err := s.content.GetChapterInfo(ctx, chapterID)
	if err != nil {
		return ViewState{}, "", false, err
	}
	return s.render(info, a), "", false, nil
}

// Submit scores the session's attempt, persists the result and destroys the
// attempt. The attempt is destroyed even when the insert fails: a lost result
// beats a zombie session.
func (s *Service) Submit(ctx context.Context, sid string) (Result, error) {
	a, err := s.attempts.Get(ctx, sid)
	if err != nil {
		return Result{}, err
	}

	now := time.Now()
	sum := Score(a, now)
	r := Result{
		StudentName:      "Anonymous Student",
		ChapterID:        a.ChapterID,
		Score:            sum.Score,
		TotalQuestions:   sum.TotalQuestions,
		Percentage:       sum.Percentage,
		CorrectAnswers:   sum.CorrectAnswers,
		WrongAnswers:     sum.WrongAnswers,
		CompletedAt:      now.Unix(),
		TimeTakenSeconds: sum.TimeTakenSeconds,
		Answers:          sum.Answers,
	}

	id, insErr := s.results.Insert(ctx, r)
	_ = s.attempts.Destroy(ctx, sid)
	if insErr != nil {
		return Result{}, insErr
	}
	r.ID = id
	return r, nil
}

func (s *Service) create(ctx context.Context, sid string, chapterID int64) (*Attempt, error) {
	pool, err := s.content.ListActiveQuestions(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	snaps := make([]QuestionSnapshot, 0, len(pool))
	for _, q := range pool {
		snaps = append(snaps, QuestionSnapshot{
			ID:          q.ID,
			Text:        q.Text,
			ChoiceA:     q.ChoiceA,
			ChoiceB:     q.ChoiceB,
			ChoiceC:     q.ChoiceC,
			Correct:     q.Correct,
			Explanation: q.Explanation,
		})
	}

	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.attempts.Create(ctx, sid, chapterID, snaps, s.rng)
}

func (s *Service) render(info content.ChapterInfo, a *Attempt) ViewState {
	q := a.At(a.Cursor)
	answered := make(map[int]bool, len(a.Answers))
	for i := range a.Answers {
		answered[i] = true
	}
	return ViewState{
		Chapter: info,
		Index:   a.Cursor,
		Total:   a.Len(),
		Question: QuestionView{
			ID:      q.ID,
			Text:    q.Text,
			ChoiceA: q.ChoiceA,
			ChoiceB: q.ChoiceB,
			ChoiceC: q.ChoiceC,
		},
		Selected:     a.Answers[a.Cursor],
		Answered:     answered,
		TimerSeconds: s.timerSeconds,
		StartedAt:    a.StartedAt,
	}
}
