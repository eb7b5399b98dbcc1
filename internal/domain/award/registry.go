package award

import (
	"fmt"
	"os"
	"strings"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
)

// Registry is the fixed list of eligible candidates per award type.
// It is built once at startup and never mutated afterwards.
type Registry struct {
	rosters map[Type][]Candidate
	index   map[Type]map[string]Candidate
}

func NewRegistry(rosters map[Type][]Candidate) (*Registry, error) {
	r := &Registry{
		rosters: make(map[Type][]Candidate, len(AllTypes)),
		index:   make(map[Type]map[string]Candidate, len(AllTypes)),
	}

	for awardType, candidates := range rosters {
		if _, ok := ParseType(string(awardType)); !ok {
			return nil, fmt.Errorf("unknown award type %q in roster", awardType)
		}

		list := make([]Candidate, 0, len(candidates))
		idx := make(map[string]Candidate, len(candidates))
		for _, c := range candidates {
			name := strings.TrimSpace(c.Name)
			if name == "" {
				return nil, fmt.Errorf("award %s: candidate name is required", awardType)
			}
			team, ok := ParseTeam(string(c.Team))
			if !ok {
				return nil, fmt.Errorf("award %s: candidate %s has unknown team %q", awardType, name, c.Team)
			}

			canonical := Candidate{Name: name, Team: team}
			key := canonical.Key()
			if _, exists := idx[key]; exists {
				return nil, fmt.Errorf("award %s: duplicate candidate %s (%s)", awardType, name, team)
			}
			idx[key] = canonical
			list = append(list, canonical)
		}

		r.rosters[awardType] = list
		r.index[awardType] = idx
	}

	return r, nil
}

// FindCandidate looks up a candidate case-insensitively. A miss is reported
// with ok=false; callers decide how to react.
func (r *Registry) FindCandidate(name, team string, awardType Type) (Candidate, bool) {
	if r == nil {
		return Candidate{}, false
	}
	idx, ok := r.index[awardType]
	if !ok {
		return Candidate{}, false
	}
	c, ok := idx[CandidateKey(name, team)]
	return c, ok
}

// Candidates returns a copy of the roster for the award type.
func (r *Registry) Candidates(awardType Type) []Candidate {
	if r == nil {
		return nil
	}
	return append([]Candidate(nil), r.rosters[awardType]...)
}

type rosterFile map[string][]struct {
	Name string `json:"name"`
	Team string `json:"team"`
}

// LoadRegistryFile builds a registry from a JSON file shaped as
// {"best_player":[{"name":"...","team":"Falcon"}], "best_goalkeeper":[...]}.
func LoadRegistryFile(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, crerr.Wrapf(err, "read eligibility file %q", path)
	}

	var decoded rosterFile
	if err := sonic.Unmarshal(raw, &decoded); err != nil {
		return nil, crerr.Wrapf(err, "decode eligibility file %q", path)
	}

	rosters := make(map[Type][]Candidate, len(decoded))
	for rawType, items := range decoded {
		awardType, ok := ParseType(rawType)
		if !ok {
			return nil, crerr.Newf("eligibility file %q: unknown award type %q", path, rawType)
		}
		for _, item := range items {
			rosters[awardType] = append(rosters[awardType], Candidate{Name: item.Name, Team: TeamKey(item.Team)})
		}
	}

	registry, err := NewRegistry(rosters)
	if err != nil {
		return nil, crerr.Wrapf(err, "build registry from %q", path)
	}
	return registry, nil
}
