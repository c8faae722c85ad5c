package exam

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"time"

	"github.com/examstack/examstack/internal/websession"
)

// AttemptStore holds at most one Attempt per web session. Every mutation is
// written through to the session store before the caller's response goes out.
type AttemptStore struct {
	sessions websession.Store
	ttl      time.Duration
}

func NewAttemptStore(sessions websession.Store, ttl time.Duration) *AttemptStore {
	return &AttemptStore{sessions: sessions, ttl: ttl}
}

// Create builds a fresh attempt for chapterID: a random permutation of pool
// (taken once, frozen for the attempt's lifetime), cursor 0, no answers,
// started now. Any prior attempt in the session is overwritten. rng is
// injected so the permutation is reproducible under test.
func (s *AttemptStore) Create(ctx context.Context, sid string, chapterID int64, pool []QuestionSnapshot, rng *rand.Rand) (*Attempt, error) {
	if len(pool) == 0 {
		return nil, ErrEmptyChapter
	}
	qs := make([]QuestionSnapshot, len(pool))
	copy(qs, pool)
	rng.Shuffle(len(qs), func(i, j int) { qs[i], qs[j] = qs[j], qs[i] })

	a := &Attempt{
		ChapterID: chapterID,
		Questions: qs,
		Answers:   map[int]string{},
		Cursor:    0,
		StartedAt: time.Now().Unix(),
	}
	if err := s.put(ctx, sid, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Get returns the session's active attempt, or ErrNoActiveAttempt.
func (s *AttemptStore) Get(ctx context.Context, sid string) (*Attempt, error) {
	blob, err := s.sessions.Get(ctx, sid)
	if err != nil {
		if errors.Is(err, websession.ErrNoSession) {
			return nil, ErrNoActiveAttempt
		}
		return nil, err
	}
	var a Attempt
	if err := json.Unmarshal(blob, &a); err != nil {
		return nil, ErrNoActiveAttempt
	}
	if len(a.Questions) == 0 {
		return nil, ErrNoActiveAttempt
	}
	if a.Answers == nil {
		a.Answers = map[int]string{}
	}
	return &a, nil
}

// RecordAnswer sets or overwrites the answer at index. Labels are validated
// against {A,B,C} only; matching a label to the question's choices is the
// scoring engine's concern.
func (s *AttemptStore) RecordAnswer(ctx context.Context, sid string, a *Attempt, index int, label string) error {
	if index < 0 || index >= a.Len() {
		return ErrIndexOutOfRange
	}
	if !ValidLabel(label) {
		return ErrInvalidChoice
	}
	a.Answers[index] = label
	return s.put(ctx, sid, a)
}

// SetCursor moves the current question index.
func (s *AttemptStore) SetCursor(ctx context.Context, sid string, a *Attempt, index int) error {
	if index < 0 || index >= a.Len() {
		return ErrIndexOutOfRange
	}
	a.Cursor = index
	return s.put(ctx, sid, a)
}

// Destroy clears the session's attempt.
func (s *AttemptStore) Destroy(ctx context.Context, sid string) error {
	return s.sessions.Clear(ctx, sid)
}

func (s *AttemptStore) put(ctx context.Context, sid string, a *Attempt) error {
	blob, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return s.sessions.Set(ctx, sid, blob, s.ttl)
}
