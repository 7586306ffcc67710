package services

import (
	"fmt"
	"strings"

	"github.com/ad/go-telegram-onboarding/internal/db"
	"github.com/ad/go-telegram-onboarding/internal/fsm"
)

// FunnelStatistics reports how many users sit in each funnel state.
type FunnelStatistics struct {
	userRepo     *db.UserRepository
	followUpRepo *db.FollowUpRepository
}

func NewFunnelStatistics(userRepo *db.UserRepository, followUpRepo *db.FollowUpRepository) *FunnelStatistics {
	return &FunnelStatistics{userRepo: userRepo, followUpRepo: followUpRepo}
}

func (s *FunnelStatistics) Summary() (string, error) {
	counts, err := s.userRepo.CountByState()
	if err != nil {
		return "", err
	}
	pending, err := s.followUpRepo.CountPending()
	if err != nil {
		return "", err
	}

	total := 0
	for _, c := range counts {
		total += c
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 Funnel: %d users\n\n", total))
	for _, state := range fsm.PipelineOrder() {
		if c := counts[state]; c > 0 {
			sb.WriteString(fmt.Sprintf("  %s: %d\n", state, c))
		}
	}
	// Edit states are detours off reg_confirm; fold them into one line.
	editCount := counts[fsm.StateEditName] + counts[fsm.StateEditMemberID] +
		counts[fsm.StateEditJoinDate] + counts[fsm.StateEditPhone] + counts[fsm.StateEditLevel]
	if editCount > 0 {
		sb.WriteString(fmt.Sprintf("  (editing profile): %d\n", editCount))
	}
	sb.WriteString(fmt.Sprintf("\n❓ Pending follow-ups: %d", pending))
	return sb.String(), nil
}
