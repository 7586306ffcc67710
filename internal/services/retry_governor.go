package services

import (
	"strings"

	"github.com/ad/go-telegram-onboarding/internal/db"
)

// RetryGovernor counts consecutive failed validations per (user, checkpoint)
// against durable storage. It only reports pass/fail plus the attempt count;
// the calling handler owns every state transition.
type RetryGovernor struct {
	retryRepo *db.RetryRepository
	threshold int
}

type CheckResult struct {
	OK       bool
	Attempts int
	// Escalate is set once the attempt count reaches the threshold, telling
	// the caller to offer the stronger affordance (one-tap confirm button).
	Escalate bool
}

func NewRetryGovernor(retryRepo *db.RetryRepository, threshold int) *RetryGovernor {
	return &RetryGovernor{retryRepo: retryRepo, threshold: threshold}
}

func (g *RetryGovernor) Threshold() int {
	return g.threshold
}

// CheckExact validates a literal text confirmation. A match resets the
// attempt counter; a mismatch increments it.
func (g *RetryGovernor) CheckExact(userID int64, checkpoint, input, expected string, caseSensitive bool) (CheckResult, error) {
	got := strings.TrimSpace(input)
	want := expected
	if !caseSensitive {
		got = strings.ToLower(got)
		want = strings.ToLower(want)
	}
	return g.record(userID, checkpoint, got == want)
}

// CheckFormat validates structural input (e.g. a fixed-length numeric ID).
func (g *RetryGovernor) CheckFormat(userID int64, checkpoint, input string, predicate func(string) bool) (CheckResult, error) {
	return g.record(userID, checkpoint, predicate(input))
}

func (g *RetryGovernor) Reset(userID int64, checkpoint string) error {
	return g.retryRepo.Reset(userID, checkpoint)
}

func (g *RetryGovernor) record(userID int64, checkpoint string, ok bool) (CheckResult, error) {
	if ok {
		if err := g.retryRepo.Reset(userID, checkpoint); err != nil {
			return CheckResult{}, err
		}
		return CheckResult{OK: true}, nil
	}

	attempts, err := g.retryRepo.Increment(userID, checkpoint)
	if err != nil {
		return CheckResult{}, err
	}
	return CheckResult{
		Attempts: attempts,
		Escalate: attempts >= g.threshold,
	}, nil
}
