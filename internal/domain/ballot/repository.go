package ballot

import (
	"context"
	"errors"

	"github.com/riskibarqy/tournament-votes/internal/domain/audit"
	"github.com/riskibarqy/tournament-votes/internal/domain/award"
)

var (
	ErrBallotNotFound = errors.New("ballot not found")
	// ErrConcurrentWrite reports a replace that lost a race on the ballot key.
	// Replace is idempotent, so callers may retry.
	ErrConcurrentWrite = errors.New("concurrent ballot write")
)

// AuditBuilder turns the rows about to be removed into the audit record that
// is written alongside the deletion.
type AuditBuilder func(removed []Entry) audit.Record

// Repository exposes ballot persistence operations. Replace, Delete and
// ModerateDelete are each atomic for one (voter, award) key.
type Repository interface {
	Replace(ctx context.Context, voterID string, b Ballot) error
	Delete(ctx context.Context, voterID string, awardType award.Type) error
	ListByAward(ctx context.Context, awardType award.Type) ([]Entry, error)
	ListByVoter(ctx context.Context, voterID string) ([]Entry, error)
	ListEntries(ctx context.Context, filter EntryFilter) ([]AdminEntry, error)
	CountByAward(ctx context.Context) (map[award.Type]int, error)
	ModerateDelete(ctx context.Context, voterID string, awardType award.Type, build AuditBuilder) (audit.Entry, error)
}
