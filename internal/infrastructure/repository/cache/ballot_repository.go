package cache

import (
	"context"
	"maps"

	"github.com/riskibarqy/tournament-votes/internal/domain/audit"
	"github.com/riskibarqy/tournament-votes/internal/domain/award"
	"github.com/riskibarqy/tournament-votes/internal/domain/ballot"
	basecache "github.com/riskibarqy/tournament-votes/internal/platform/cache"
)

const (
	ballotAwardKeyPrefix = "ballot:award:"
	ballotCountsKey      = "ballot:counts"
)

// BallotRepository caches the shared leaderboard reads. A voter's own ballot
// and admin listings always hit next.
type BallotRepository struct {
	next  ballot.Repository
	cache *basecache.Store
}

func NewBallotRepository(next ballot.Repository, cache *basecache.Store) *BallotRepository {
	return &BallotRepository{next: next, cache: cache}
}

func (r *BallotRepository) Replace(ctx context.Context, voterID string, b ballot.Ballot) error {
	if err := r.next.Replace(ctx, voterID, b); err != nil {
		return err
	}
	r.invalidate(ctx, b.AwardType)
	return nil
}

func (r *BallotRepository) Delete(ctx context.Context, voterID string, awardType award.Type) error {
	if err := r.next.Delete(ctx, voterID, awardType); err != nil {
		return err
	}
	r.invalidate(ctx, awardType)
	return nil
}

func (r *BallotRepository) ModerateDelete(ctx context.Context, voterID string, awardType award.Type, build ballot.AuditBuilder) (audit.Entry, error) {
	entry, err := r.next.ModerateDelete(ctx, voterID, awardType, build)
	if err != nil {
		return audit.Entry{}, err
	}
	r.invalidate(ctx, awardType)
	return entry, nil
}

func (r *BallotRepository) ListByAward(ctx context.Context, awardType award.Type) ([]ballot.Entry, error) {
	items, err := basecache.Load(ctx, r.cache, ballotAwardKeyPrefix+string(awardType), func(ctx context.Context) ([]ballot.Entry, error) {
		return r.next.ListByAward(ctx, awardType)
	})
	if err != nil {
		return nil, err
	}
	return append([]ballot.Entry(nil), items...), nil
}

func (r *BallotRepository) ListByVoter(ctx context.Context, voterID string) ([]ballot.Entry, error) {
	return r.next.ListByVoter(ctx, voterID)
}

func (r *BallotRepository) ListEntries(ctx context.Context, filter ballot.EntryFilter) ([]ballot.AdminEntry, error) {
	return r.next.ListEntries(ctx, filter)
}

func (r *BallotRepository) CountByAward(ctx context.Context) (map[award.Type]int, error) {
	counts, err := basecache.Load(ctx, r.cache, ballotCountsKey, r.next.CountByAward)
	if err != nil {
		return nil, err
	}
	return maps.Clone(counts), nil
}

func (r *BallotRepository) invalidate(ctx context.Context, awardType award.Type) {
	r.cache.Delete(ctx, ballotAwardKeyPrefix+string(awardType))
	r.cache.Delete(ctx, ballotCountsKey)
}
