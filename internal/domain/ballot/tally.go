package ballot

import (
	"sort"
	"strings"

	"github.com/riskibarqy/tournament-votes/internal/domain/award"
)

// ComputeLeaderboard aggregates rows of a single award into tallies ordered by
// score desc, then first-place count desc. Remaining ties keep the order in
// which candidates first appear in entries.
func ComputeLeaderboard(entries []Entry) []Tally {
	index := make(map[string]int)
	tallies := make([]Tally, 0)

	for _, e := range entries {
		points := Points(e.Rank)
		if points == 0 {
			continue
		}

		key := award.CandidateKey(e.CandidateName, string(e.CandidateTeam))
		pos, ok := index[key]
		if !ok {
			pos = len(tallies)
			index[key] = pos
			tallies = append(tallies, Tally{Name: e.CandidateName, Team: e.CandidateTeam})
		}

		t := &tallies[pos]
		t.Score += points
		t.VoteCount++
		switch e.Rank {
		case RankFirst:
			t.FirstPlace++
		case RankSecond:
			t.SecondPlace++
		case RankThird:
			t.ThirdPlace++
		}
	}

	sort.SliceStable(tallies, func(i, j int) bool {
		if tallies[i].Score != tallies[j].Score {
			return tallies[i].Score > tallies[j].Score
		}
		return tallies[i].FirstPlace > tallies[j].FirstPlace
	})

	return tallies
}

// UserBallotFromEntries maps a voter's rows for one award onto rank slots.
func UserBallotFromEntries(entries []Entry) UserBallot {
	var out UserBallot
	for _, e := range entries {
		c := &award.Candidate{Name: e.CandidateName, Team: e.CandidateTeam}
		switch e.Rank {
		case RankFirst:
			out.First = c
		case RankSecond:
			out.Second = c
		case RankThird:
			out.Third = c
		}
	}
	return out
}

// Summary renders picks in rank order as "1st: A, 2nd: B, 3rd: C".
func Summary(entries []Entry) string {
	ordered := append([]Entry(nil), entries...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Rank < ordered[j].Rank
	})

	parts := make([]string, 0, len(ordered))
	for _, e := range ordered {
		parts = append(parts, ordinal(e.Rank)+": "+e.CandidateName)
	}
	return strings.Join(parts, ", ")
}

func ordinal(rank int) string {
	switch rank {
	case RankFirst:
		return "1st"
	case RankSecond:
		return "2nd"
	default:
		return "3rd"
	}
}
