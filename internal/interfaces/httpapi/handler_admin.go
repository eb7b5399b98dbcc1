package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/riskibarqy/tournament-votes/internal/usecase"
)

func (h *Handler) GetAdminTournamentVotes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "GetAdminTournamentVotes")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, &usecase.PublicError{Kind: usecase.ErrForbidden, Message: "Admin access required"})
		return
	}

	query := r.URL.Query()
	overview, err := h.moderationService.Overview(ctx, usecase.AdminOverviewInput{
		Principal:  principal,
		AwardType:  strings.TrimSpace(query.Get("awardType")),
		PlayerName: strings.TrimSpace(query.Get("playerName")),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "admin tournament votes failed", "admin_id", principal.VoterID, "error", err)
		writeFailure(ctx, w, err, "Failed to fetch votes")
		return
	}

	writeSuccess(ctx, w, http.StatusOK, adminOverviewToDTO(overview))
}

func (h *Handler) DeleteAdminTournamentVotes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "DeleteAdminTournamentVotes")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, &usecase.PublicError{Kind: usecase.ErrForbidden, Message: "Admin access required"})
		return
	}

	query := r.URL.Query()
	result, err := h.moderationService.ModerateDelete(ctx, usecase.ModerateInput{
		Principal: principal,
		VoterID:   query.Get("voterId"),
		AwardType: query.Get("awardType"),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "moderate tournament votes failed",
			"admin_id", principal.VoterID,
			"voter_id", query.Get("voterId"),
			"error", err,
		)
		writeFailure(ctx, w, err, "Failed to remove votes")
		return
	}

	name := result.Voter.Name
	if strings.TrimSpace(name) == "" {
		name = result.Voter.ID
	}
	writeMessage(ctx, w, fmt.Sprintf("All %s votes removed for %s", result.AwardType.Label(), name))
}

func (h *Handler) ReloadAdminDirectory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ReloadAdminDirectory")
	defer span.End()

	count, err := h.adminDirectory.Reload(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "reload admin directory failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, adminReloadResponse{
		Success:    true,
		AdminCount: count,
		LoadedAt:   h.adminDirectory.LoadedAt().UTC().Format(time.RFC3339),
	})
}
