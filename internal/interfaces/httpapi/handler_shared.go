package httpapi

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/tournament-votes/internal/domain/award"
	"github.com/riskibarqy/tournament-votes/internal/domain/ballot"
	"github.com/riskibarqy/tournament-votes/internal/domain/deadline"
	"github.com/riskibarqy/tournament-votes/internal/platform/logging"
	"github.com/riskibarqy/tournament-votes/internal/usecase"
)

type Handler struct {
	voteService       *usecase.VoteService
	tallyService      *usecase.TallyService
	moderationService *usecase.ModerationService
	adminDirectory    *usecase.AdminDirectory
	registry          *award.Registry
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	voteService *usecase.VoteService,
	tallyService *usecase.TallyService,
	moderationService *usecase.ModerationService,
	adminDirectory *usecase.AdminDirectory,
	registry *award.Registry,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		voteService:       voteService,
		tallyService:      tallyService,
		moderationService: moderationService,
		adminDirectory:    adminDirectory,
		registry:          registry,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// Tags only bound the payload size. Ballot rules produce the client messages.
type submitVotesRequest struct {
	AwardType string            `json:"awardType" validate:"max=64"`
	Votes     []voteRequestItem `json:"votes" validate:"max=10,dive"`
}

type voteRequestItem struct {
	PlayerName string `json:"playerName" validate:"max=200"`
	PlayerTeam string `json:"playerTeam" validate:"max=64"`
	Rank       int    `json:"rank"`
}

type candidateDTO struct {
	PlayerName string `json:"playerName"`
	PlayerTeam string `json:"playerTeam"`
}

type tallyDTO struct {
	Name        string `json:"name"`
	Team        string `json:"team"`
	Score       int    `json:"score"`
	Votes       int    `json:"votes"`
	FirstPlace  int    `json:"firstPlace"`
	SecondPlace int    `json:"secondPlace"`
	ThirdPlace  int    `json:"thirdPlace"`
}

type userBallotDTO struct {
	First  *candidateDTO `json:"first"`
	Second *candidateDTO `json:"second"`
	Third  *candidateDTO `json:"third"`
}

type timeRemainingDTO struct {
	Days    int64 `json:"days"`
	Hours   int64 `json:"hours"`
	Minutes int64 `json:"minutes"`
	Seconds int64 `json:"seconds"`
	Total   int64 `json:"total"`
	Expired bool  `json:"expired"`
}

type overviewResponse struct {
	Success         bool                     `json:"success"`
	Tallies         map[string][]tallyDTO    `json:"tallies"`
	UserVotes       map[string]userBallotDTO `json:"userVotes"`
	IsAuthenticated bool                     `json:"isAuthenticated"`
	VotingOpen      bool                     `json:"votingOpen"`
	VotingDeadline  string                   `json:"votingDeadline"`
	TimeRemaining   timeRemainingDTO         `json:"timeRemaining"`
	RankPoints      map[string]int           `json:"rankPoints"`
}

type candidatesResponse struct {
	Success    bool                      `json:"success"`
	Candidates map[string][]candidateDTO `json:"candidates"`
}

type adminVoteDTO struct {
	ID         int64  `json:"id"`
	AwardType  string `json:"award_type"`
	PlayerName string `json:"player_name"`
	PlayerTeam string `json:"player_team"`
	Rank       int    `json:"rank"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
	VoterID    string `json:"voter_id"`
	VoterName  string `json:"voter_name"`
	VoterEmail string `json:"voter_email"`
}

type adminSummaryDTO struct {
	PlayerName  string `json:"playerName"`
	PlayerTeam  string `json:"playerTeam"`
	VoteCount   int    `json:"voteCount"`
	Score       int    `json:"score"`
	FirstPlace  int    `json:"firstPlace"`
	SecondPlace int    `json:"secondPlace"`
	ThirdPlace  int    `json:"thirdPlace"`
}

type adminOverviewResponse struct {
	Success bool                         `json:"success"`
	Votes   []adminVoteDTO               `json:"votes"`
	Summary map[string][]adminSummaryDTO `json:"summary"`
	Totals  map[string]int               `json:"totals"`
}

type adminReloadResponse struct {
	Success    bool   `json:"success"`
	AdminCount int    `json:"adminCount"`
	LoadedAt   string `json:"loadedAt"`
}

func voteInputsFromRequest(items []voteRequestItem) []ballot.VoteInput {
	out := make([]ballot.VoteInput, 0, len(items))
	for _, item := range items {
		out = append(out, ballot.VoteInput{
			PlayerName: item.PlayerName,
			PlayerTeam: item.PlayerTeam,
			Rank:       item.Rank,
		})
	}
	return out
}

func candidateToDTO(c *award.Candidate) *candidateDTO {
	if c == nil {
		return nil
	}
	return &candidateDTO{PlayerName: c.Name, PlayerTeam: string(c.Team)}
}

func talliesToDTO(tallies []ballot.Tally) []tallyDTO {
	out := make([]tallyDTO, 0, len(tallies))
	for _, t := range tallies {
		out = append(out, tallyDTO{
			Name:        t.Name,
			Team:        string(t.Team),
			Score:       t.Score,
			Votes:       t.VoteCount,
			FirstPlace:  t.FirstPlace,
			SecondPlace: t.SecondPlace,
			ThirdPlace:  t.ThirdPlace,
		})
	}
	return out
}

func userBallotToDTO(b ballot.UserBallot) userBallotDTO {
	return userBallotDTO{
		First:  candidateToDTO(b.First),
		Second: candidateToDTO(b.Second),
		Third:  candidateToDTO(b.Third),
	}
}

func remainingToDTO(r deadline.Remaining) timeRemainingDTO {
	return timeRemainingDTO{
		Days:    r.Days,
		Hours:   r.Hours,
		Minutes: r.Minutes,
		Seconds: r.Seconds,
		Total:   r.Total,
		Expired: r.Expired,
	}
}

func overviewToDTO(overview usecase.VotingOverview) overviewResponse {
	out := overviewResponse{
		Success:         true,
		Tallies:         make(map[string][]tallyDTO, len(award.AllTypes)),
		UserVotes:       make(map[string]userBallotDTO, len(overview.UserVotes)),
		IsAuthenticated: overview.Authenticated,
		VotingOpen:      overview.Voting.Open,
		VotingDeadline:  overview.Voting.Deadline.UTC().Format(time.RFC3339),
		TimeRemaining:   remainingToDTO(overview.Voting.Remaining),
		RankPoints:      make(map[string]int, len(overview.RankPoints)),
	}
	for _, awardType := range award.AllTypes {
		out.Tallies[string(awardType)] = talliesToDTO(overview.Tallies[awardType])
	}
	for awardType, b := range overview.UserVotes {
		out.UserVotes[string(awardType)] = userBallotToDTO(b)
	}
	for rank, points := range overview.RankPoints {
		out.RankPoints[strconv.Itoa(rank)] = points
	}
	return out
}

func adminOverviewToDTO(overview usecase.AdminOverview) adminOverviewResponse {
	out := adminOverviewResponse{
		Success: true,
		Votes:   make([]adminVoteDTO, 0, len(overview.Votes)),
		Summary: make(map[string][]adminSummaryDTO, len(award.AllTypes)),
		Totals:  make(map[string]int, len(award.AllTypes)),
	}
	for _, v := range overview.Votes {
		out.Votes = append(out.Votes, adminVoteDTO{
			ID:         v.ID,
			AwardType:  string(v.AwardType),
			PlayerName: v.CandidateName,
			PlayerTeam: string(v.CandidateTeam),
			Rank:       v.Rank,
			CreatedAt:  v.CreatedAt.UTC().Format(time.RFC3339),
			UpdatedAt:  v.UpdatedAt.UTC().Format(time.RFC3339),
			VoterID:    v.VoterID,
			VoterName:  v.VoterName,
			VoterEmail: v.VoterEmail,
		})
	}
	for _, awardType := range award.AllTypes {
		items := make([]adminSummaryDTO, 0, len(overview.Summary[awardType]))
		for _, t := range overview.Summary[awardType] {
			items = append(items, adminSummaryDTO{
				PlayerName:  t.Name,
				PlayerTeam:  string(t.Team),
				VoteCount:   t.VoteCount,
				Score:       t.Score,
				FirstPlace:  t.FirstPlace,
				SecondPlace: t.SecondPlace,
				ThirdPlace:  t.ThirdPlace,
			})
		}
		out.Summary[string(awardType)] = items
		out.Totals[string(awardType)] = overview.Totals[awardType]
	}
	return out
}
