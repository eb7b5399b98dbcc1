package postgres

import (
	"database/sql"
	"time"
)

type ballotEntryTableModel struct {
	ID         int64     `db:"id"`
	UserID     string    `db:"user_id"`
	AwardType  string    `db:"award_type"`
	PlayerName string    `db:"player_name"`
	PlayerTeam string    `db:"player_team"`
	Rank       int       `db:"rank"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type ballotEntryInsertModel struct {
	UserID     string `db:"user_id"`
	AwardType  string `db:"award_type"`
	PlayerName string `db:"player_name"`
	PlayerTeam string `db:"player_team"`
	Rank       int    `db:"rank"`
}

type adminBallotEntryRow struct {
	ballotEntryTableModel
	VoterName  sql.NullString `db:"voter_name"`
	VoterEmail sql.NullString `db:"voter_email"`
}

type auditLogInsertModel struct {
	PerformedBy string `db:"performed_by_user_id"`
	Action      string `db:"action"`
	TargetUser  string `db:"target_user"`
	TargetName  string `db:"target_name"`
	Details     string `db:"details"`
}

type voterTableModel struct {
	VoterID     string         `db:"voter_id"`
	DisplayName sql.NullString `db:"display_name"`
	Email       sql.NullString `db:"email"`
	LastSeenAt  time.Time      `db:"last_seen_at"`
}

type voterUpsertModel struct {
	VoterID     string  `db:"voter_id"`
	DisplayName *string `db:"display_name"`
	Email       *string `db:"email"`
}

type awardCountRow struct {
	AwardType string `db:"award_type"`
	Total     int    `db:"total"`
}
