package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/tournament-votes/internal/domain/user"
)

type VoterRepository struct {
	mu    sync.RWMutex
	items map[string]user.Voter
}

func NewVoterRepository(seed ...user.Voter) *VoterRepository {
	r := &VoterRepository{items: make(map[string]user.Voter, len(seed))}
	for _, v := range seed {
		r.items[v.ID] = v
	}
	return r
}

func (r *VoterRepository) Upsert(_ context.Context, voter user.Voter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.items[voter.ID]; ok {
		if voter.Name == "" {
			voter.Name = existing.Name
		}
		if voter.Email == "" {
			voter.Email = existing.Email
		}
	}
	r.items[voter.ID] = voter
	return nil
}

func (r *VoterRepository) GetByID(_ context.Context, voterID string) (user.Voter, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.items[voterID]
	return v, ok, nil
}
