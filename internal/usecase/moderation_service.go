package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/tournament-votes/internal/domain/audit"
	"github.com/riskibarqy/tournament-votes/internal/domain/award"
	"github.com/riskibarqy/tournament-votes/internal/domain/ballot"
	"github.com/riskibarqy/tournament-votes/internal/domain/user"
	"github.com/riskibarqy/tournament-votes/internal/platform/logging"
)

const defaultModerationWorkers = 4

type AdminOverviewInput struct {
	Principal  user.Principal
	AwardType  string
	PlayerName string
}

type AdminOverview struct {
	Votes   []ballot.AdminEntry
	Summary map[award.Type][]ballot.Tally
	Totals  map[award.Type]int
}

type ModerateInput struct {
	Principal user.Principal
	VoterID   string
	AwardType string
}

type ModerateResult struct {
	Voter     user.Voter
	AwardType award.Type
	Audit     audit.Entry
}

type ModerationService struct {
	ballots ballot.Repository
	voters  user.Repository
	logger  *logging.Logger
	workers int
}

func NewModerationService(ballots ballot.Repository, voters user.Repository, logger *logging.Logger) *ModerationService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ModerationService{
		ballots: ballots,
		voters:  voters,
		logger:  logger,
		workers: defaultModerationWorkers,
	}
}

// Overview loads the filtered ballot rows, the unfiltered weighted summary
// and the per-award row totals on a worker pool.
func (s *ModerationService) Overview(ctx context.Context, input AdminOverviewInput) (AdminOverview, error) {
	ctx, span := startSpan(ctx, "ModerationService.Overview", awardAttr(input.AwardType))
	defer span.End()

	if err := requireAdmin(input.Principal); err != nil {
		return AdminOverview{}, err
	}

	filter := ballot.EntryFilter{PlayerName: strings.TrimSpace(input.PlayerName)}
	if awardType, ok := award.ParseType(input.AwardType); ok {
		filter.AwardType = awardType
	}

	out := AdminOverview{
		Summary: make(map[award.Type][]ballot.Tally, len(award.AllTypes)),
		Totals:  make(map[award.Type]int, len(award.AllTypes)),
	}
	for _, awardType := range award.AllTypes {
		out.Summary[awardType] = []ballot.Tally{}
		out.Totals[awardType] = 0
	}

	var (
		mu       sync.Mutex
		firstErr error
	)
	record := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	tasks := []func(){
		func() {
			rows, err := s.ballots.ListEntries(ctx, filter)
			if err != nil {
				record(fmt.Errorf("list ballot entries: %w", err))
				return
			}
			mu.Lock()
			out.Votes = rows
			mu.Unlock()
		},
		func() {
			counts, err := s.ballots.CountByAward(ctx)
			if err != nil {
				record(fmt.Errorf("count ballots by award: %w", err))
				return
			}
			mu.Lock()
			for awardType, total := range counts {
				out.Totals[awardType] = total
			}
			mu.Unlock()
		},
	}
	for _, awardType := range award.AllTypes {
		awardType := awardType
		tasks = append(tasks, func() {
			entries, err := s.ballots.ListByAward(ctx, awardType)
			if err != nil {
				record(fmt.Errorf("list ballots by award %s: %w", awardType, err))
				return
			}
			tallies := ballot.ComputeLeaderboard(entries)
			mu.Lock()
			out.Summary[awardType] = tallies
			mu.Unlock()
		})
	}

	workerPool, err := ants.NewPool(s.workers)
	if err != nil {
		return AdminOverview{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	var workers sync.WaitGroup
	for _, task := range tasks {
		task := task
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()
			task()
		}); err != nil {
			workers.Done()
			record(fmt.Errorf("submit task to worker pool: %w", err))
		}
	}
	workers.Wait()

	if firstErr != nil {
		return AdminOverview{}, firstErr
	}
	if out.Votes == nil {
		out.Votes = []ballot.AdminEntry{}
	}
	return out, nil
}

// ModerateDelete removes a voter's ballot for one award and records the
// action in the audit log within the same transaction.
func (s *ModerationService) ModerateDelete(ctx context.Context, input ModerateInput) (ModerateResult, error) {
	ctx, span := startSpan(ctx, "ModerationService.ModerateDelete", awardAttr(input.AwardType), voterAttr(input.VoterID))
	defer span.End()

	if err := requireAdmin(input.Principal); err != nil {
		return ModerateResult{}, err
	}

	voterID := strings.TrimSpace(input.VoterID)
	rawAward := strings.TrimSpace(input.AwardType)
	if voterID == "" || rawAward == "" {
		return ModerateResult{}, publicError(ErrInvalidInput, "voterId and awardType are required")
	}
	awardType, ok := award.ParseType(rawAward)
	if !ok {
		return ModerateResult{}, publicError(ErrInvalidInput, "Invalid award type")
	}

	voter, exists, err := s.voters.GetByID(ctx, voterID)
	if err != nil {
		return ModerateResult{}, fmt.Errorf("get voter: %w", err)
	}
	if !exists {
		// Ballots outlive a failed profile upsert; the store decides the 404.
		voter = user.Voter{ID: voterID}
	}

	performedBy := strings.TrimSpace(input.Principal.VoterID)
	entry, err := s.ballots.ModerateDelete(ctx, voterID, awardType, func(removed []ballot.Entry) audit.Record {
		return audit.Record{
			PerformedBy: performedBy,
			Action:      audit.ActionDeleteTournamentVotes,
			Target:      voterID,
			TargetName:  voter.Label(),
			Details:     fmt.Sprintf("Removed all %s votes: %s", awardType.Label(), ballot.Summary(removed)),
		}
	})
	if err != nil {
		if errors.Is(err, ballot.ErrBallotNotFound) {
			return ModerateResult{}, publicError(ErrNotFound, "No votes found for this user and award type")
		}
		return ModerateResult{}, fmt.Errorf("moderate delete ballot: %w", err)
	}

	s.logger.InfoContext(ctx, "ballot moderated",
		"admin_id", performedBy,
		"voter_id", voterID,
		"award_type", string(awardType),
		"audit_id", entry.ID,
	)

	return ModerateResult{
		Voter:     voter,
		AwardType: awardType,
		Audit:     entry,
	}, nil
}

func requireAdmin(principal user.Principal) error {
	if strings.TrimSpace(principal.VoterID) == "" || !principal.IsAdmin {
		return publicError(ErrForbidden, "Admin access required")
	}
	return nil
}
