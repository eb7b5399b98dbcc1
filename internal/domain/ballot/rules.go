package ballot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/riskibarqy/tournament-votes/internal/domain/award"
)

var (
	ErrUnknownAwardType   = errors.New("unknown award type")
	ErrWrongBallotSize    = errors.New("must submit exactly 3 ranked votes")
	ErrInvalidRank        = errors.New("invalid rank")
	ErrDuplicateRank      = errors.New("duplicate rank")
	ErrMissingCandidate   = errors.New("candidate name and team are required")
	ErrIneligible         = errors.New("candidate is not eligible")
	ErrDuplicateCandidate = errors.New("duplicate candidate")
)

// ValidationError carries the user-facing message for one broken rule.
// It unwraps to the rule's sentinel error.
type ValidationError struct {
	Rule    error
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Rule
}

func invalid(rule error, format string, args ...any) error {
	return &ValidationError{Rule: rule, Message: fmt.Sprintf(format, args...)}
}

// Validate checks a submitted ballot and returns it normalized to the
// registry's canonical candidates, ordered by rank. Rules are applied in
// order and the first violation is returned.
func Validate(registry *award.Registry, awardType string, votes []VoteInput) (Ballot, error) {
	typ, ok := award.ParseType(awardType)
	if !ok {
		return Ballot{}, invalid(ErrUnknownAwardType, `Award type must be "best_player" or "best_goalkeeper"`)
	}

	if len(votes) != Size {
		return Ballot{}, invalid(ErrWrongBallotSize, "Must submit exactly 3 ranked votes (1st, 2nd, 3rd)")
	}

	seenRanks := make(map[int]struct{}, Size)
	for _, vote := range votes {
		if vote.Rank < RankFirst || vote.Rank > RankThird {
			return Ballot{}, invalid(ErrInvalidRank, "Each vote must have rank 1, 2, or 3")
		}
		if _, dup := seenRanks[vote.Rank]; dup {
			return Ballot{}, invalid(ErrDuplicateRank, "Duplicate rank %d in votes", vote.Rank)
		}
		seenRanks[vote.Rank] = struct{}{}
	}

	picks := make([]Pick, Size)
	seenCandidates := make(map[string]struct{}, Size)
	for _, vote := range votes {
		if strings.TrimSpace(vote.PlayerName) == "" {
			return Ballot{}, invalid(ErrMissingCandidate, "Player name is required for each vote")
		}
		if strings.TrimSpace(vote.PlayerTeam) == "" {
			return Ballot{}, invalid(ErrMissingCandidate, "Player team is required for each vote")
		}

		candidate, ok := registry.FindCandidate(vote.PlayerName, vote.PlayerTeam, typ)
		if !ok {
			return Ballot{}, invalid(ErrIneligible, "%s is not eligible for this award", vote.PlayerName)
		}

		key := candidate.Key()
		if _, dup := seenCandidates[key]; dup {
			return Ballot{}, invalid(ErrDuplicateCandidate, "Cannot vote for %s more than once", candidate.Name)
		}
		seenCandidates[key] = struct{}{}

		picks[vote.Rank-1] = Pick{Candidate: candidate, Rank: vote.Rank}
	}

	return Ballot{AwardType: typ, Picks: picks}, nil
}
