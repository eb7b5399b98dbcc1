package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/tournament-votes/internal/domain/award"
	"github.com/riskibarqy/tournament-votes/internal/domain/ballot"
	"github.com/riskibarqy/tournament-votes/internal/domain/deadline"
	"github.com/riskibarqy/tournament-votes/internal/domain/user"
	"github.com/sourcegraph/conc/pool"
)

// VotingOverview is the public landing payload: leaderboards, the caller's
// own ballots and the deadline state from a single clock read.
type VotingOverview struct {
	Tallies       map[award.Type][]ballot.Tally
	UserVotes     map[award.Type]ballot.UserBallot
	Authenticated bool
	Voting        deadline.Status
	RankPoints    map[int]int
}

type TallyService struct {
	ballots ballot.Repository
	gate    *deadline.Gate
}

func NewTallyService(ballots ballot.Repository, gate *deadline.Gate) *TallyService {
	return &TallyService{
		ballots: ballots,
		gate:    gate,
	}
}

func (s *TallyService) Leaderboard(ctx context.Context, awardType award.Type) ([]ballot.Tally, error) {
	ctx, span := startSpan(ctx, "TallyService.Leaderboard", awardAttr(string(awardType)))
	defer span.End()

	if _, ok := award.ParseType(string(awardType)); !ok {
		return nil, publicError(ErrInvalidInput, "Invalid award type")
	}

	entries, err := s.ballots.ListByAward(ctx, awardType)
	if err != nil {
		return nil, fmt.Errorf("list ballots by award: %w", err)
	}
	return ballot.ComputeLeaderboard(entries), nil
}

// LeaderboardAll computes every award's leaderboard concurrently.
func (s *TallyService) LeaderboardAll(ctx context.Context) (map[award.Type][]ballot.Tally, error) {
	ctx, span := startSpan(ctx, "TallyService.LeaderboardAll")
	defer span.End()

	types := award.AllTypes
	results := make([][]ballot.Tally, len(types))

	p := pool.New().WithContext(ctx).WithCancelOnError()
	for i, awardType := range types {
		i, awardType := i, awardType
		p.Go(func(ctx context.Context) error {
			tallies, err := s.Leaderboard(ctx, awardType)
			if err != nil {
				return fmt.Errorf("leaderboard %s: %w", awardType, err)
			}
			results[i] = tallies
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	out := make(map[award.Type][]ballot.Tally, len(types))
	for i, awardType := range types {
		out[awardType] = results[i]
	}
	return out, nil
}

func (s *TallyService) UserBallot(ctx context.Context, voterID string, awardType award.Type) (ballot.UserBallot, error) {
	ballots, err := s.UserBallots(ctx, voterID)
	if err != nil {
		return ballot.UserBallot{}, err
	}
	return ballots[awardType], nil
}

// UserBallots returns the voter's picks keyed by award. Awards without a
// ballot map to an empty UserBallot.
func (s *TallyService) UserBallots(ctx context.Context, voterID string) (map[award.Type]ballot.UserBallot, error) {
	ctx, span := startSpan(ctx, "TallyService.UserBallots", voterAttr(voterID))
	defer span.End()

	voterID = strings.TrimSpace(voterID)
	if voterID == "" {
		return nil, fmt.Errorf("%w: voter id is required", ErrInvalidInput)
	}

	entries, err := s.ballots.ListByVoter(ctx, voterID)
	if err != nil {
		return nil, fmt.Errorf("list ballots by voter: %w", err)
	}

	grouped := make(map[award.Type][]ballot.Entry, len(award.AllTypes))
	for _, entry := range entries {
		grouped[entry.AwardType] = append(grouped[entry.AwardType], entry)
	}

	out := make(map[award.Type]ballot.UserBallot, len(award.AllTypes))
	for _, awardType := range award.AllTypes {
		out[awardType] = ballot.UserBallotFromEntries(grouped[awardType])
	}
	return out, nil
}

// Overview builds the landing payload. principal is nil for anonymous callers.
func (s *TallyService) Overview(ctx context.Context, principal *user.Principal) (VotingOverview, error) {
	ctx, span := startSpan(ctx, "TallyService.Overview")
	defer span.End()

	tallies, err := s.LeaderboardAll(ctx)
	if err != nil {
		return VotingOverview{}, err
	}

	out := VotingOverview{
		Tallies:    tallies,
		UserVotes:  map[award.Type]ballot.UserBallot{},
		Voting:     s.gate.Status(),
		RankPoints: ballot.RankPoints(),
	}
	if principal == nil || strings.TrimSpace(principal.VoterID) == "" {
		return out, nil
	}

	userVotes, err := s.UserBallots(ctx, principal.VoterID)
	if err != nil {
		return VotingOverview{}, err
	}
	out.UserVotes = userVotes
	out.Authenticated = true
	return out, nil
}
