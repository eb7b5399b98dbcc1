package usecase

import (
	"time"

	"github.com/riskibarqy/tournament-votes/internal/domain/award"
	"github.com/riskibarqy/tournament-votes/internal/domain/ballot"
	"github.com/riskibarqy/tournament-votes/internal/domain/deadline"
	"github.com/riskibarqy/tournament-votes/internal/domain/user"
	"github.com/riskibarqy/tournament-votes/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/tournament-votes/internal/platform/logging"
)

var testDeadline = time.Date(2026, 1, 26, 8, 0, 0, 0, time.UTC)

type votingFixture struct {
	ballots    *memory.BallotRepository
	voters     *memory.VoterRepository
	vote       *VoteService
	tally      *TallyService
	moderation *ModerationService
	clock      *time.Time
}

func newVotingFixture(seed ...user.Voter) *votingFixture {
	now := testDeadline.Add(-time.Hour)
	f := &votingFixture{clock: &now}

	clock := func() time.Time { return *f.clock }
	gate := deadline.NewGate(testDeadline, clock)

	f.voters = memory.NewVoterRepository(seed...)
	f.ballots = memory.NewBallotRepository(f.voters, memory.WithClock(clock))
	f.vote = NewVoteService(award.DefaultRegistry(), gate, f.ballots, f.voters, logging.NewNop())
	f.tally = NewTallyService(f.ballots, gate)
	f.moderation = NewModerationService(f.ballots, f.voters, logging.NewNop())
	return f
}

func (f *votingFixture) closeVoting() {
	*f.clock = testDeadline
}

func voter(id, name, email string) user.Principal {
	return user.Principal{VoterID: id, Name: name, Email: email}
}

func admin(id string) user.Principal {
	return user.Principal{VoterID: id, Name: "Admin", Email: id + "@club.test", IsAdmin: true}
}

func rankedVotes(team string, names ...string) []ballot.VoteInput {
	votes := make([]ballot.VoteInput, 0, len(names))
	for i, name := range names {
		votes = append(votes, ballot.VoteInput{PlayerName: name, PlayerTeam: team, Rank: i + 1})
	}
	return votes
}

// bestPlayerVotes ranks three Falcon players, which keeps the team column fixed.
func bestPlayerVotes(names ...string) []ballot.VoteInput {
	return rankedVotes("falcon", names...)
}
