package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/riskibarqy/tournament-votes/internal/domain/award"
	"github.com/riskibarqy/tournament-votes/internal/domain/ballot"
	"github.com/riskibarqy/tournament-votes/internal/domain/deadline"
	"github.com/riskibarqy/tournament-votes/internal/domain/user"
	"github.com/riskibarqy/tournament-votes/internal/platform/logging"
)

type SubmitBallotInput struct {
	Principal user.Principal
	AwardType string
	Votes     []ballot.VoteInput
}

type WithdrawBallotInput struct {
	Principal user.Principal
	AwardType string
}

type VoteService struct {
	registry *award.Registry
	gate     *deadline.Gate
	ballots  ballot.Repository
	voters   user.Repository
	logger   *logging.Logger
}

func NewVoteService(
	registry *award.Registry,
	gate *deadline.Gate,
	ballots ballot.Repository,
	voters user.Repository,
	logger *logging.Logger,
) *VoteService {
	if logger == nil {
		logger = logging.Default()
	}

	return &VoteService{
		registry: registry,
		gate:     gate,
		ballots:  ballots,
		voters:   voters,
		logger:   logger,
	}
}

// Submit validates and stores a complete ballot, replacing any previous one
// for the same voter and award.
func (s *VoteService) Submit(ctx context.Context, input SubmitBallotInput) (ballot.Ballot, error) {
	ctx, span := startSpan(ctx, "VoteService.Submit", awardAttr(input.AwardType), voterAttr(input.Principal.VoterID))
	defer span.End()

	if !s.gate.IsOpen() {
		return ballot.Ballot{}, publicError(ErrVotingClosed, "Voting has ended")
	}
	voterID := strings.TrimSpace(input.Principal.VoterID)
	if voterID == "" {
		return ballot.Ballot{}, publicError(ErrUnauthorized, "Authentication required to vote")
	}

	validated, err := ballot.Validate(s.registry, input.AwardType, input.Votes)
	if err != nil {
		return ballot.Ballot{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	s.rememberVoter(ctx, input.Principal)

	err = s.ballots.Replace(ctx, voterID, validated)
	if errors.Is(err, ballot.ErrConcurrentWrite) {
		s.logger.WarnContext(ctx, "ballot replace raced, retrying",
			"voter_id", voterID,
			"award_type", string(validated.AwardType),
		)
		err = s.ballots.Replace(ctx, voterID, validated)
	}
	if err != nil {
		return ballot.Ballot{}, fmt.Errorf("replace ballot: %w", err)
	}

	s.logger.InfoContext(ctx, "ballot replaced",
		"voter_id", voterID,
		"award_type", string(validated.AwardType),
	)

	return validated, nil
}

// Withdraw removes the caller's own ballot while voting is open.
func (s *VoteService) Withdraw(ctx context.Context, input WithdrawBallotInput) error {
	ctx, span := startSpan(ctx, "VoteService.Withdraw", awardAttr(input.AwardType), voterAttr(input.Principal.VoterID))
	defer span.End()

	if !s.gate.IsOpen() {
		return publicError(ErrVotingClosed, "Voting has ended")
	}
	voterID := strings.TrimSpace(input.Principal.VoterID)
	if voterID == "" {
		return publicError(ErrUnauthorized, "Authentication required")
	}

	awardType, ok := award.ParseType(input.AwardType)
	if !ok {
		return publicError(ErrInvalidInput, "Valid award type is required")
	}

	if err := s.ballots.Delete(ctx, voterID, awardType); err != nil {
		if errors.Is(err, ballot.ErrBallotNotFound) {
			return publicError(ErrNotFound, "No votes found for this award type")
		}
		return fmt.Errorf("delete ballot: %w", err)
	}

	s.logger.InfoContext(ctx, "ballot withdrawn",
		"voter_id", voterID,
		"award_type", string(awardType),
	)
	return nil
}

func (s *VoteService) rememberVoter(ctx context.Context, principal user.Principal) {
	if s.voters == nil {
		return
	}

	err := s.voters.Upsert(ctx, user.Voter{
		ID:    strings.TrimSpace(principal.VoterID),
		Name:  strings.TrimSpace(principal.Name),
		Email: normalizeEmail(principal.Email),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "upsert voter profile failed",
			"voter_id", principal.VoterID,
			"error", err,
		)
	}
}
