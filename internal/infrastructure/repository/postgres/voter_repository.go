package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/tournament-votes/internal/domain/user"
	qb "github.com/riskibarqy/tournament-votes/internal/platform/querybuilder"
)

type VoterRepository struct {
	db *sqlx.DB
}

func NewVoterRepository(db *sqlx.DB) *VoterRepository {
	return &VoterRepository{db: db}
}

func (r *VoterRepository) Upsert(ctx context.Context, voter user.Voter) error {
	query, args, err := qb.InsertModel("tournament_voters", voterUpsertModel{
		VoterID:     strings.TrimSpace(voter.ID),
		DisplayName: optionalString(voter.Name),
		Email:       optionalString(strings.ToLower(voter.Email)),
	}, `ON CONFLICT (voter_id)
DO UPDATE SET
    display_name = COALESCE(EXCLUDED.display_name, tournament_voters.display_name),
    email = COALESCE(EXCLUDED.email, tournament_voters.email),
    last_seen_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert voter query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert voter: %w", err)
	}
	return nil
}

func (r *VoterRepository) GetByID(ctx context.Context, voterID string) (user.Voter, bool, error) {
	query, args, err := qb.Select("voter_id", "display_name", "email", "last_seen_at").
		From("tournament_voters").
		Where(qb.Eq("voter_id", strings.TrimSpace(voterID))).
		Limit(1).
		ToSQL()
	if err != nil {
		return user.Voter{}, false, fmt.Errorf("build get voter query: %w", err)
	}

	var row voterTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.Voter{}, false, nil
		}
		return user.Voter{}, false, fmt.Errorf("get voter: %w", err)
	}

	return user.Voter{
		ID:         row.VoterID,
		Name:       strings.TrimSpace(row.DisplayName.String),
		Email:      strings.TrimSpace(row.Email.String),
		LastSeenAt: row.LastSeenAt,
	}, true, nil
}
