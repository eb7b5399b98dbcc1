package ballot

import (
	"time"

	"github.com/riskibarqy/tournament-votes/internal/domain/award"
)

const (
	RankFirst  = 1
	RankSecond = 2
	RankThird  = 3

	// Size is the number of ranked picks in a complete ballot.
	Size = 3
)

var rankPoints = map[int]int{
	RankFirst:  4,
	RankSecond: 2,
	RankThird:  1,
}

// Points returns the weighted score of a rank, or zero for an unknown rank.
func Points(rank int) int {
	return rankPoints[rank]
}

// RankPoints returns a copy of the rank weighting table.
func RankPoints() map[int]int {
	out := make(map[int]int, len(rankPoints))
	for rank, points := range rankPoints {
		out[rank] = points
	}
	return out
}

// VoteInput is one caller-supplied pick before validation.
type VoteInput struct {
	PlayerName string
	PlayerTeam string
	Rank       int
}

// Pick is a validated pick referencing the canonical registry candidate.
type Pick struct {
	Candidate award.Candidate
	Rank      int
}

// Ballot is a complete, validated set of picks ordered by rank.
type Ballot struct {
	AwardType award.Type
	Picks     []Pick
}

// Entry is one persisted ballot row.
type Entry struct {
	ID            int64
	VoterID       string
	AwardType     award.Type
	CandidateName string
	CandidateTeam award.TeamKey
	Rank          int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Entries expands the ballot into rows for the voter, stamped with now.
func (b Ballot) Entries(voterID string, now time.Time) []Entry {
	out := make([]Entry, 0, len(b.Picks))
	for _, pick := range b.Picks {
		out = append(out, Entry{
			VoterID:       voterID,
			AwardType:     b.AwardType,
			CandidateName: pick.Candidate.Name,
			CandidateTeam: pick.Candidate.Team,
			Rank:          pick.Rank,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}
	return out
}

// Tally is the derived leaderboard line for one candidate.
type Tally struct {
	Name        string
	Team        award.TeamKey
	Score       int
	VoteCount   int
	FirstPlace  int
	SecondPlace int
	ThirdPlace  int
}

// UserBallot is a voter's own ballot keyed by rank. Missing ranks are nil.
type UserBallot struct {
	First  *award.Candidate
	Second *award.Candidate
	Third  *award.Candidate
}

func (u UserBallot) Empty() bool {
	return u.First == nil && u.Second == nil && u.Third == nil
}

// AdminEntry is a ballot row joined with the voter profile for moderation views.
type AdminEntry struct {
	Entry
	VoterName  string
	VoterEmail string
}

// EntryFilter narrows admin listings. Empty fields match everything.
type EntryFilter struct {
	AwardType  award.Type
	PlayerName string
}
