package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const uniqueViolationCode = "23505"

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolationCode
	}
	return false
}

// lockBallotKey serializes transactions touching the same (voter, award) key.
// The lock is released on commit or rollback.
func lockBallotKey(ctx context.Context, tx *sqlx.Tx, voterID, awardType string) error {
	_, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, ballotLockKey(voterID, awardType))
	return err
}

func ballotLockKey(voterID, awardType string) string {
	return "tournament_vote:" + strings.TrimSpace(voterID) + ":" + awardType
}

func optionalString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
