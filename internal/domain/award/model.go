package award

import "strings"

// Type identifies one award category. Each type has its own ballots and leaderboard.
type Type string

const (
	TypeBestPlayer     Type = "best_player"
	TypeBestGoalkeeper Type = "best_goalkeeper"
)

// AllTypes lists award types in display order.
var AllTypes = []Type{TypeBestPlayer, TypeBestGoalkeeper}

func ParseType(raw string) (Type, bool) {
	switch Type(strings.TrimSpace(raw)) {
	case TypeBestPlayer:
		return TypeBestPlayer, true
	case TypeBestGoalkeeper:
		return TypeBestGoalkeeper, true
	default:
		return "", false
	}
}

// Label returns the human form used in audit details and messages, e.g. "best player".
func (t Type) Label() string {
	return strings.ReplaceAll(string(t), "_", " ")
}

// TeamKey is one of the tournament teams.
type TeamKey string

const (
	TeamFalcon  TeamKey = "Falcon"
	TeamLeopard TeamKey = "Leopard"
	TeamOryx    TeamKey = "Oryx"
	TeamWolves  TeamKey = "Wolves"
)

var AllTeams = map[TeamKey]struct{}{
	TeamFalcon:  {},
	TeamLeopard: {},
	TeamOryx:    {},
	TeamWolves:  {},
}

// ParseTeam resolves a team case-insensitively to its canonical key.
func ParseTeam(raw string) (TeamKey, bool) {
	raw = strings.TrimSpace(raw)
	for team := range AllTeams {
		if strings.EqualFold(string(team), raw) {
			return team, true
		}
	}
	return "", false
}

// Candidate is a player who may appear on a ballot for a given award.
type Candidate struct {
	Name string
	Team TeamKey
}

// Key returns the normalized identity of the candidate.
func (c Candidate) Key() string {
	return CandidateKey(c.Name, string(c.Team))
}

// CandidateKey normalizes a name/team pair so lookups and duplicate checks
// compare the same canonical form.
func CandidateKey(name, team string) string {
	return strings.ToLower(strings.TrimSpace(name)) + "|" + strings.ToLower(strings.TrimSpace(team))
}
