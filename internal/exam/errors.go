package exam

import "errors"

var (
	// ErrNoActiveAttempt: navigation or submit with no attempt in the
	// session (expired or never started). Recoverable: the student is sent
	// back to the subject browser.
	ErrNoActiveAttempt = errors.New("no active exam attempt")

	// ErrEmptyChapter: a chapter with zero active questions must never
	// produce an attempt.
	ErrEmptyChapter = errors.New("chapter has no active questions")

	ErrIndexOutOfRange = errors.New("question index out of range")
	ErrInvalidChoice   = errors.New("choice label must be A, B or C")
)
