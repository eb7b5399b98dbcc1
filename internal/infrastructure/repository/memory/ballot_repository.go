package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/tournament-votes/internal/domain/audit"
	"github.com/riskibarqy/tournament-votes/internal/domain/award"
	"github.com/riskibarqy/tournament-votes/internal/domain/ballot"
)

// BallotRepository keeps ballots and the moderation audit trail in process.
// Writes stage a full copy before swapping it in, so a failed replace leaves
// the previous ballot untouched.
type BallotRepository struct {
	mu          sync.RWMutex
	ballots     map[string][]ballot.Entry
	auditLog    []audit.Entry
	voters      *VoterRepository
	nextID      int64
	nextAuditID int64
	insertHook  func(ballot.Entry) error
	now         func() time.Time
}

type BallotOption func(*BallotRepository)

// WithInsertHook runs before each row is staged. A non-nil error aborts the write.
func WithInsertHook(hook func(ballot.Entry) error) BallotOption {
	return func(r *BallotRepository) {
		r.insertHook = hook
	}
}

func WithClock(now func() time.Time) BallotOption {
	return func(r *BallotRepository) {
		if now != nil {
			r.now = now
		}
	}
}

// NewBallotRepository builds an empty store. voters is used to decorate admin
// listings and may be nil.
func NewBallotRepository(voters *VoterRepository, opts ...BallotOption) *BallotRepository {
	r := &BallotRepository{
		ballots: make(map[string][]ballot.Entry),
		voters:  voters,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *BallotRepository) Replace(_ context.Context, voterID string, b ballot.Ballot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	staged := make([]ballot.Entry, 0, len(b.Picks))
	nextID := r.nextID
	for _, e := range b.Entries(voterID, now) {
		if r.insertHook != nil {
			if err := r.insertHook(e); err != nil {
				return fmt.Errorf("insert ballot entry rank=%d: %w", e.Rank, err)
			}
		}
		nextID++
		e.ID = nextID
		staged = append(staged, e)
	}

	r.nextID = nextID
	r.ballots[ballotKey(voterID, b.AwardType)] = staged
	return nil
}

func (r *BallotRepository) Delete(_ context.Context, voterID string, awardType award.Type) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := ballotKey(voterID, awardType)
	if len(r.ballots[key]) == 0 {
		return ballot.ErrBallotNotFound
	}
	delete(r.ballots, key)
	return nil
}

func (r *BallotRepository) ListByAward(_ context.Context, awardType award.Type) ([]ballot.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ballot.Entry, 0)
	for _, entries := range r.ballots {
		for _, e := range entries {
			if e.AwardType == awardType {
				out = append(out, e)
			}
		}
	}
	sortByID(out)
	return out, nil
}

func (r *BallotRepository) ListByVoter(_ context.Context, voterID string) ([]ballot.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ballot.Entry, 0, len(award.AllTypes)*ballot.Size)
	for _, awardType := range award.AllTypes {
		out = append(out, r.ballots[ballotKey(voterID, awardType)]...)
	}
	sortByID(out)
	return out, nil
}

func (r *BallotRepository) ListEntries(ctx context.Context, filter ballot.EntryFilter) ([]ballot.AdminEntry, error) {
	r.mu.RLock()
	rows := make([]ballot.AdminEntry, 0)
	needle := strings.ToLower(strings.TrimSpace(filter.PlayerName))
	for _, entries := range r.ballots {
		for _, e := range entries {
			if filter.AwardType != "" && e.AwardType != filter.AwardType {
				continue
			}
			if needle != "" && !strings.Contains(strings.ToLower(e.CandidateName), needle) {
				continue
			}
			rows = append(rows, ballot.AdminEntry{Entry: e})
		}
	}
	r.mu.RUnlock()

	if r.voters != nil {
		for i := range rows {
			voter, ok, err := r.voters.GetByID(ctx, rows[i].VoterID)
			if err != nil {
				return nil, err
			}
			if ok {
				rows[i].VoterName = voter.Name
				rows[i].VoterEmail = voter.Email
			}
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.AwardType != b.AwardType {
			return a.AwardType < b.AwardType
		}
		if a.CandidateName != b.CandidateName {
			return a.CandidateName < b.CandidateName
		}
		if a.Rank != b.Rank {
			return a.Rank < b.Rank
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return rows, nil
}

func (r *BallotRepository) CountByAward(_ context.Context) (map[award.Type]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[award.Type]int, len(award.AllTypes))
	for _, entries := range r.ballots {
		for _, e := range entries {
			out[e.AwardType]++
		}
	}
	return out, nil
}

func (r *BallotRepository) ModerateDelete(_ context.Context, voterID string, awardType award.Type, build ballot.AuditBuilder) (audit.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := ballotKey(voterID, awardType)
	removed := append([]ballot.Entry(nil), r.ballots[key]...)
	if len(removed) == 0 {
		return audit.Entry{}, ballot.ErrBallotNotFound
	}
	sort.SliceStable(removed, func(i, j int) bool { return removed[i].Rank < removed[j].Rank })

	record := build(removed)
	if err := record.Validate(); err != nil {
		return audit.Entry{}, fmt.Errorf("build audit record: %w", err)
	}

	r.nextAuditID++
	entry := audit.Entry{
		ID:          r.nextAuditID,
		PerformedBy: record.PerformedBy,
		Action:      record.Action,
		Target:      record.Target,
		TargetName:  record.TargetName,
		Details:     record.Details,
		CreatedAt:   r.now().UTC(),
	}

	delete(r.ballots, key)
	r.auditLog = append(r.auditLog, entry)
	return entry, nil
}

// AuditEntries returns a copy of the audit trail in append order.
func (r *BallotRepository) AuditEntries() []audit.Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]audit.Entry(nil), r.auditLog...)
}

func ballotKey(voterID string, awardType award.Type) string {
	return voterID + "::" + string(awardType)
}

func sortByID(entries []ballot.Entry) {
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
}
