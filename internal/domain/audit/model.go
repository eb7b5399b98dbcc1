package audit

import (
	"fmt"
	"strings"
	"time"
)

const ActionDeleteTournamentVotes = "delete_tournament_votes"

// Record is everything needed to append one audit entry.
type Record struct {
	PerformedBy string
	Action      string
	Target      string
	TargetName  string
	Details     string
}

func (r Record) Validate() error {
	if strings.TrimSpace(r.PerformedBy) == "" {
		return fmt.Errorf("audit performer is required")
	}
	if strings.TrimSpace(r.Action) == "" {
		return fmt.Errorf("audit action is required")
	}
	return nil
}

// Entry is an appended, immutable audit record.
type Entry struct {
	ID          int64
	PerformedBy string
	Action      string
	Target      string
	TargetName  string
	Details     string
	CreatedAt   time.Time
}

