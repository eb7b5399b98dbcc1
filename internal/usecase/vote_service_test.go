package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/tournament-votes/internal/domain/award"
	"github.com/riskibarqy/tournament-votes/internal/domain/ballot"
	"github.com/riskibarqy/tournament-votes/internal/domain/deadline"
	"github.com/riskibarqy/tournament-votes/internal/domain/user"
	ballotmock "github.com/riskibarqy/tournament-votes/internal/mocks/domain/ballot"
	usermock "github.com/riskibarqy/tournament-votes/internal/mocks/domain/user"
	"github.com/riskibarqy/tournament-votes/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

func TestVoteService_SubmitStoresCanonicalBallot(t *testing.T) {
	ctx := context.Background()
	f := newVotingFixture()

	got, err := f.vote.Submit(ctx, SubmitBallotInput{
		Principal: voter("voter-1", "Sami", "Sami@Club.Test"),
		AwardType: "best_player",
		Votes: []ballot.VoteInput{
			{PlayerName: "  hadi ", PlayerTeam: "WOLVES", Rank: 2},
			{PlayerName: "zubidullah", PlayerTeam: "falcon", Rank: 1},
			{PlayerName: "OMAR", PlayerTeam: "leopard", Rank: 3},
		},
	})
	if err != nil {
		t.Fatalf("submit ballot: %v", err)
	}
	if got.Picks[0].Candidate.Name != "Zubidullah" || got.Picks[1].Candidate.Name != "Hadi" || got.Picks[2].Candidate.Name != "Omar" {
		t.Fatalf("unexpected picks order: %+v", got.Picks)
	}

	mine, err := f.tally.UserBallot(ctx, "voter-1", award.TypeBestPlayer)
	if err != nil {
		t.Fatalf("user ballot: %v", err)
	}
	if mine.First == nil || mine.First.Name != "Zubidullah" || mine.First.Team != award.TeamFalcon {
		t.Fatalf("unexpected first pick: %+v", mine.First)
	}
	if mine.Third == nil || mine.Third.Name != "Omar" {
		t.Fatalf("unexpected third pick: %+v", mine.Third)
	}

	profile, exists, err := f.voters.GetByID(ctx, "voter-1")
	if err != nil || !exists {
		t.Fatalf("expected voter profile, exists=%v err=%v", exists, err)
	}
	if profile.Email != "sami@club.test" {
		t.Fatalf("unexpected voter email: %q", profile.Email)
	}
}

func TestVoteService_SubmitIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newVotingFixture()
	input := SubmitBallotInput{
		Principal: voter("voter-1", "Sami", "sami@club.test"),
		AwardType: "best_player",
		Votes:     bestPlayerVotes("Zubidullah", "Moh'd Eid", "Fahim"),
	}

	if _, err := f.vote.Submit(ctx, input); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	first, err := f.tally.Leaderboard(ctx, award.TypeBestPlayer)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}

	if _, err := f.vote.Submit(ctx, input); err != nil {
		t.Fatalf("second submit: %v", err)
	}
	second, err := f.tally.Leaderboard(ctx, award.TypeBestPlayer)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}

	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("unexpected leaderboard sizes: first=%d second=%d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("tally changed after identical resubmit: %+v != %+v", first[i], second[i])
		}
	}

	entries, err := f.ballots.ListByVoter(ctx, "voter-1")
	if err != nil {
		t.Fatalf("list by voter: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected exactly 3 stored entries, got %d", len(entries))
	}
}

func TestVoteService_SubmitRejectsInvalidBallot(t *testing.T) {
	ctx := context.Background()
	f := newVotingFixture()

	tests := []struct {
		name    string
		award   string
		votes   []ballot.VoteInput
		rule    error
		message string
	}{
		{
			name:    "duplicate rank",
			award:   "best_player",
			votes:   []ballot.VoteInput{{PlayerName: "Zubidullah", PlayerTeam: "Falcon", Rank: 1}, {PlayerName: "Fahim", PlayerTeam: "Falcon", Rank: 1}, {PlayerName: "Hadi", PlayerTeam: "Wolves", Rank: 2}},
			rule:    ballot.ErrDuplicateRank,
			message: "Duplicate rank 1 in votes",
		},
		{
			name:    "goalkeeper on player ballot",
			award:   "best_player",
			votes:   []ballot.VoteInput{{PlayerName: "Tammem", PlayerTeam: "Falcon", Rank: 1}, {PlayerName: "Fahim", PlayerTeam: "Falcon", Rank: 2}, {PlayerName: "Hadi", PlayerTeam: "Wolves", Rank: 3}},
			rule:    ballot.ErrIneligible,
			message: "Tammem is not eligible for this award",
		},
		{
			name:    "same candidate twice",
			award:   "best_player",
			votes:   []ballot.VoteInput{{PlayerName: "Fahim", PlayerTeam: "Falcon", Rank: 1}, {PlayerName: "fahim", PlayerTeam: "falcon", Rank: 2}, {PlayerName: "Hadi", PlayerTeam: "Wolves", Rank: 3}},
			rule:    ballot.ErrDuplicateCandidate,
			message: "Cannot vote for Fahim more than once",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.vote.Submit(ctx, SubmitBallotInput{
				Principal: voter("voter-1", "Sami", "sami@club.test"),
				AwardType: tc.award,
				Votes:     tc.votes,
			})
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if !errors.Is(err, tc.rule) {
				t.Fatalf("expected rule %v, got %v", tc.rule, err)
			}
			var verr *ballot.ValidationError
			if !errors.As(err, &verr) || verr.Message != tc.message {
				t.Fatalf("unexpected validation message: %v", err)
			}
		})
	}

	entries, err := f.ballots.ListByVoter(ctx, "voter-1")
	if err != nil {
		t.Fatalf("list by voter: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("rejected ballots must not be stored, got %d entries", len(entries))
	}
}

func TestVoteService_SubmitAfterDeadlineKeepsBallot(t *testing.T) {
	ctx := context.Background()
	f := newVotingFixture()
	principal := voter("voter-1", "Sami", "sami@club.test")

	if _, err := f.vote.Submit(ctx, SubmitBallotInput{
		Principal: principal,
		AwardType: "best_player",
		Votes:     bestPlayerVotes("Zubidullah", "Moh'd Eid", "Fahim"),
	}); err != nil {
		t.Fatalf("submit before deadline: %v", err)
	}

	f.closeVoting()
	_, err := f.vote.Submit(ctx, SubmitBallotInput{
		Principal: principal,
		AwardType: "best_player",
		Votes:     bestPlayerVotes("Ahmed Kanbari", "Fahim", "Zubidullah"),
	})
	if !errors.Is(err, ErrVotingClosed) {
		t.Fatalf("expected ErrVotingClosed, got %v", err)
	}
	if err.Error() != "Voting has ended" {
		t.Fatalf("unexpected message: %q", err.Error())
	}

	mine, err := f.tally.UserBallot(ctx, "voter-1", award.TypeBestPlayer)
	if err != nil {
		t.Fatalf("user ballot: %v", err)
	}
	if mine.First == nil || mine.First.Name != "Zubidullah" {
		t.Fatalf("ballot changed after deadline: %+v", mine.First)
	}

	if err := f.vote.Withdraw(ctx, WithdrawBallotInput{Principal: principal, AwardType: "best_player"}); !errors.Is(err, ErrVotingClosed) {
		t.Fatalf("expected withdraw ErrVotingClosed, got %v", err)
	}
}

func TestVoteService_DeadlineCheckedBeforeAuthentication(t *testing.T) {
	f := newVotingFixture()
	f.closeVoting()

	_, err := f.vote.Submit(context.Background(), SubmitBallotInput{AwardType: "best_player"})
	if !errors.Is(err, ErrVotingClosed) {
		t.Fatalf("expected ErrVotingClosed, got %v", err)
	}
}

func TestVoteService_SubmitRequiresVoter(t *testing.T) {
	f := newVotingFixture()

	_, err := f.vote.Submit(context.Background(), SubmitBallotInput{
		AwardType: "best_player",
		Votes:     bestPlayerVotes("Zubidullah", "Moh'd Eid", "Fahim"),
	})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if err.Error() != "Authentication required to vote" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestVoteService_Withdraw(t *testing.T) {
	ctx := context.Background()
	f := newVotingFixture()
	principal := voter("voter-1", "Sami", "sami@club.test")

	err := f.vote.Withdraw(ctx, WithdrawBallotInput{Principal: principal, AwardType: "best_player"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before any vote, got %v", err)
	}

	if _, err := f.vote.Submit(ctx, SubmitBallotInput{
		Principal: principal,
		AwardType: "best_player",
		Votes:     bestPlayerVotes("Zubidullah", "Moh'd Eid", "Fahim"),
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := f.vote.Withdraw(ctx, WithdrawBallotInput{Principal: principal, AwardType: "mvp"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown award, got %v", err)
	}
	if err := f.vote.Withdraw(ctx, WithdrawBallotInput{Principal: principal, AwardType: "best_player"}); err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	mine, err := f.tally.UserBallot(ctx, "voter-1", award.TypeBestPlayer)
	if err != nil {
		t.Fatalf("user ballot: %v", err)
	}
	if !mine.Empty() {
		t.Fatalf("expected empty ballot after withdraw, got %+v", mine)
	}
}

func TestVoteService_SubmitRetriesConcurrentWriteUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ballots := ballotmock.NewRepository(t)
	voters := usermock.NewRepository(t)
	gate := deadline.NewGate(testDeadline, func() time.Time { return testDeadline.Add(-time.Minute) })
	service := NewVoteService(award.DefaultRegistry(), gate, ballots, voters, logging.NewNop())

	voters.
		On("Upsert", ctx, mock.MatchedBy(func(v user.Voter) bool { return v.ID == "voter-1" })).
		Return(errors.New("db down")).
		Once()
	ballots.
		On("Replace", ctx, "voter-1", mock.AnythingOfType("ballot.Ballot")).
		Return(ballot.ErrConcurrentWrite).
		Once()
	ballots.
		On("Replace", ctx, "voter-1", mock.AnythingOfType("ballot.Ballot")).
		Return(nil).
		Once()

	_, err := service.Submit(ctx, SubmitBallotInput{
		Principal: voter("voter-1", "Sami", "sami@club.test"),
		AwardType: "best_player",
		Votes:     bestPlayerVotes("Zubidullah", "Moh'd Eid", "Fahim"),
	})
	if err != nil {
		t.Fatalf("submit with retry: %v", err)
	}
}

func TestVoteService_SubmitStorageFailureUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ballots := ballotmock.NewRepository(t)
	voters := usermock.NewRepository(t)
	gate := deadline.NewGate(testDeadline, func() time.Time { return testDeadline.Add(-time.Minute) })
	service := NewVoteService(award.DefaultRegistry(), gate, ballots, voters, logging.NewNop())

	storageErr := errors.New("connection reset")
	voters.On("Upsert", ctx, mock.Anything).Return(nil).Once()
	ballots.On("Replace", ctx, "voter-1", mock.Anything).Return(storageErr).Once()

	_, err := service.Submit(ctx, SubmitBallotInput{
		Principal: voter("voter-1", "Sami", "sami@club.test"),
		AwardType: "best_player",
		Votes:     bestPlayerVotes("Zubidullah", "Moh'd Eid", "Fahim"),
	})
	if !errors.Is(err, storageErr) {
		t.Fatalf("expected storage error, got %v", err)
	}
	var public *PublicError
	if errors.As(err, &public) {
		t.Fatalf("storage failures must not carry a public message: %v", err)
	}
}
