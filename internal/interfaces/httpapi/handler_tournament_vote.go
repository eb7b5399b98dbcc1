package httpapi

import (
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/tournament-votes/internal/domain/award"
	"github.com/riskibarqy/tournament-votes/internal/domain/user"
	"github.com/riskibarqy/tournament-votes/internal/usecase"
)

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetTournamentVotes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "GetTournamentVotes")
	defer span.End()

	overview, err := h.tallyService.Overview(ctx, optionalPrincipal(ctx))
	if err != nil {
		h.logger.ErrorContext(ctx, "get tournament votes failed", "error", err)
		writeFailure(ctx, w, err, "Failed to fetch votes")
		return
	}

	writeSuccess(ctx, w, http.StatusOK, overviewToDTO(overview))
}

func (h *Handler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ListCandidates")
	defer span.End()

	out := candidatesResponse{
		Success:    true,
		Candidates: make(map[string][]candidateDTO, len(award.AllTypes)),
	}
	for _, awardType := range award.AllTypes {
		candidates := h.registry.Candidates(awardType)
		items := make([]candidateDTO, 0, len(candidates))
		for _, c := range candidates {
			items = append(items, candidateDTO{PlayerName: c.Name, PlayerTeam: string(c.Team)})
		}
		out.Candidates[string(awardType)] = items
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) SubmitTournamentVotes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "SubmitTournamentVotes")
	defer span.End()

	var req submitVotesRequest
	// Extra keys sent by older clients are ignored.
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "decode submit votes body failed", "error", err)
		writeError(ctx, w, &usecase.PublicError{Kind: usecase.ErrInvalidInput, Message: "Invalid JSON payload"})
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	var principal user.Principal
	if p := optionalPrincipal(ctx); p != nil {
		principal = *p
	}

	_, err := h.voteService.Submit(ctx, usecase.SubmitBallotInput{
		Principal: principal,
		AwardType: req.AwardType,
		Votes:     voteInputsFromRequest(req.Votes),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit tournament votes failed",
			"voter_id", principal.VoterID,
			"award_type", req.AwardType,
			"error", err,
		)
		writeFailure(ctx, w, err, "Failed to record votes")
		return
	}

	writeMessage(ctx, w, "All votes recorded successfully")
}

func (h *Handler) WithdrawTournamentVotes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "WithdrawTournamentVotes")
	defer span.End()

	var principal user.Principal
	if p := optionalPrincipal(ctx); p != nil {
		principal = *p
	}
	awardType := strings.TrimSpace(r.URL.Query().Get("awardType"))

	err := h.voteService.Withdraw(ctx, usecase.WithdrawBallotInput{
		Principal: principal,
		AwardType: awardType,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "withdraw tournament votes failed",
			"voter_id", principal.VoterID,
			"award_type", awardType,
			"error", err,
		)
		writeFailure(ctx, w, err, "Failed to remove votes")
		return
	}

	writeMessage(ctx, w, "All votes removed successfully")
}
