package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/tournament-votes/internal/domain/audit"
	"github.com/riskibarqy/tournament-votes/internal/domain/award"
	"github.com/riskibarqy/tournament-votes/internal/domain/ballot"
	qb "github.com/riskibarqy/tournament-votes/internal/platform/querybuilder"
)

const (
	ballotTable   = "tournament_award_votes"
	adminLogTable = "admin_logs"
)

var ballotColumns = []string{"id", "user_id", "award_type", "player_name", "player_team", "rank", "created_at", "updated_at"}

type BallotRepository struct {
	db *sqlx.DB
}

func NewBallotRepository(db *sqlx.DB) *BallotRepository {
	return &BallotRepository{db: db}
}

func (r *BallotRepository) Replace(ctx context.Context, voterID string, b ballot.Ballot) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for ballot replace: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := lockBallotKey(ctx, tx, voterID, string(b.AwardType)); err != nil {
		return fmt.Errorf("lock ballot key: %w", err)
	}

	if _, err := deleteBallotRows(ctx, tx, voterID, b.AwardType); err != nil {
		return err
	}

	rows := make([]ballotEntryInsertModel, 0, len(b.Picks))
	for _, pick := range b.Picks {
		rows = append(rows, ballotEntryInsertModel{
			UserID:     voterID,
			AwardType:  string(b.AwardType),
			PlayerName: pick.Candidate.Name,
			PlayerTeam: string(pick.Candidate.Team),
			Rank:       pick.Rank,
		})
	}
	query, args, err := qb.InsertModels(ballotTable, rows, "")
	if err != nil {
		return fmt.Errorf("build insert ballot rows query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %v", ballot.ErrConcurrentWrite, err)
		}
		return fmt.Errorf("insert ballot rows: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ballot replace: %w", err)
	}
	return nil
}

func (r *BallotRepository) Delete(ctx context.Context, voterID string, awardType award.Type) error {
	query, args, err := qb.DeleteFrom(ballotTable).
		Where(qb.Eq("user_id", voterID), qb.Eq("award_type", string(awardType))).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete ballot query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete ballot: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete ballot rows affected: %w", err)
	}
	if affected == 0 {
		return ballot.ErrBallotNotFound
	}
	return nil
}

func (r *BallotRepository) ListByAward(ctx context.Context, awardType award.Type) ([]ballot.Entry, error) {
	query, args, err := qb.Select(ballotColumns...).
		From(ballotTable).
		Where(qb.Eq("award_type", string(awardType))).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list ballots by award query: %w", err)
	}

	var rows []ballotEntryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list ballots by award: %w", err)
	}
	return entriesFromRows(rows), nil
}

func (r *BallotRepository) ListByVoter(ctx context.Context, voterID string) ([]ballot.Entry, error) {
	query, args, err := qb.Select(ballotColumns...).
		From(ballotTable).
		Where(qb.Eq("user_id", voterID)).
		OrderBy("award_type", "rank").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list ballots by voter query: %w", err)
	}

	var rows []ballotEntryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list ballots by voter: %w", err)
	}
	return entriesFromRows(rows), nil
}

func (r *BallotRepository) ListEntries(ctx context.Context, filter ballot.EntryFilter) ([]ballot.AdminEntry, error) {
	conditions := make([]qb.Condition, 0, 2)
	if filter.AwardType != "" {
		conditions = append(conditions, qb.Eq("tv.award_type", string(filter.AwardType)))
	}
	if name := strings.TrimSpace(filter.PlayerName); name != "" {
		conditions = append(conditions, qb.ILike("tv.player_name", name))
	}

	query, args, err := qb.Select(
		"tv.id", "tv.user_id", "tv.award_type", "tv.player_name", "tv.player_team", "tv.rank",
		"tv.created_at", "tv.updated_at",
		"u.display_name AS voter_name", "u.email AS voter_email",
	).
		From(ballotTable + " tv LEFT JOIN tournament_voters u ON u.voter_id = tv.user_id").
		Where(conditions...).
		OrderBy("tv.award_type", "tv.player_name", "tv.rank", "tv.created_at DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list ballot entries query: %w", err)
	}

	var rows []adminBallotEntryRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list ballot entries: %w", err)
	}

	out := make([]ballot.AdminEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, ballot.AdminEntry{
			Entry:      entryFromRow(row.ballotEntryTableModel),
			VoterName:  strings.TrimSpace(row.VoterName.String),
			VoterEmail: strings.TrimSpace(row.VoterEmail.String),
		})
	}
	return out, nil
}

func (r *BallotRepository) CountByAward(ctx context.Context) (map[award.Type]int, error) {
	query, args, err := qb.Select("award_type", "COUNT(*) AS total").
		From(ballotTable).
		GroupBy("award_type").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build count ballots query: %w", err)
	}

	var rows []awardCountRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("count ballots by award: %w", err)
	}

	out := make(map[award.Type]int, len(rows))
	for _, row := range rows {
		out[award.Type(row.AwardType)] = row.Total
	}
	return out, nil
}

func (r *BallotRepository) ModerateDelete(ctx context.Context, voterID string, awardType award.Type, build ballot.AuditBuilder) (audit.Entry, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return audit.Entry{}, fmt.Errorf("begin tx for ballot moderation: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := lockBallotKey(ctx, tx, voterID, string(awardType)); err != nil {
		return audit.Entry{}, fmt.Errorf("lock ballot key: %w", err)
	}

	selectQuery, selectArgs, err := qb.Select(ballotColumns...).
		From(ballotTable).
		Where(qb.Eq("user_id", voterID), qb.Eq("award_type", string(awardType))).
		OrderBy("rank").
		ToSQL()
	if err != nil {
		return audit.Entry{}, fmt.Errorf("build select moderated ballot query: %w", err)
	}

	var rows []ballotEntryTableModel
	if err := tx.SelectContext(ctx, &rows, selectQuery, selectArgs...); err != nil {
		return audit.Entry{}, fmt.Errorf("select moderated ballot: %w", err)
	}
	if len(rows) == 0 {
		return audit.Entry{}, ballot.ErrBallotNotFound
	}
	removed := entriesFromRows(rows)

	if _, err := deleteBallotRows(ctx, tx, voterID, awardType); err != nil {
		return audit.Entry{}, err
	}

	record := build(removed)
	if err := record.Validate(); err != nil {
		return audit.Entry{}, fmt.Errorf("build audit record: %w", err)
	}
	insertQuery, insertArgs, err := qb.InsertModel(adminLogTable, auditLogInsertModel{
		PerformedBy: record.PerformedBy,
		Action:      record.Action,
		TargetUser:  record.Target,
		TargetName:  record.TargetName,
		Details:     record.Details,
	}, "RETURNING id, created_at")
	if err != nil {
		return audit.Entry{}, fmt.Errorf("build insert admin log query: %w", err)
	}

	entry := audit.Entry{
		PerformedBy: record.PerformedBy,
		Action:      record.Action,
		Target:      record.Target,
		TargetName:  record.TargetName,
		Details:     record.Details,
	}
	if err := tx.QueryRowxContext(ctx, insertQuery, insertArgs...).Scan(&entry.ID, &entry.CreatedAt); err != nil {
		return audit.Entry{}, fmt.Errorf("insert admin log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return audit.Entry{}, fmt.Errorf("commit ballot moderation: %w", err)
	}
	return entry, nil
}

func deleteBallotRows(ctx context.Context, tx *sqlx.Tx, voterID string, awardType award.Type) (int64, error) {
	query, args, err := qb.DeleteFrom(ballotTable).
		Where(qb.Eq("user_id", voterID), qb.Eq("award_type", string(awardType))).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build delete ballot query: %w", err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete ballot rows: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete ballot rows affected: %w", err)
	}
	return affected, nil
}

func entriesFromRows(rows []ballotEntryTableModel) []ballot.Entry {
	out := make([]ballot.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, entryFromRow(row))
	}
	return out
}

func entryFromRow(row ballotEntryTableModel) ballot.Entry {
	return ballot.Entry{
		ID:            row.ID,
		VoterID:       row.UserID,
		AwardType:     award.Type(row.AwardType),
		CandidateName: row.PlayerName,
		CandidateTeam: award.TeamKey(row.PlayerTeam),
		Rank:          row.Rank,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}
