package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/tournament-votes/internal/domain/ballot"
	"github.com/riskibarqy/tournament-votes/internal/usecase"
)

const internalErrorMessage = "Internal server error"

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Reason  string `json:"reason"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Message    string
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	writeJSON(ctx, w, status, payload)
}

func writeMessage(ctx context.Context, w http.ResponseWriter, message string) {
	writeSuccess(ctx, w, http.StatusOK, messageResponse{Success: true, Message: message})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	writeFailure(ctx, w, err, internalErrorMessage)
}

// writeFailure maps err to a response. internalMessage replaces the text of
// unmapped errors so storage details never reach the client.
func writeFailure(ctx context.Context, w http.ResponseWriter, err error, internalMessage string) {
	mapped := mapError(ctx, err)
	if mapped.HTTPStatus == http.StatusInternalServerError {
		mapped.Message = internalMessage
	}
	writeJSON(ctx, w, mapped.HTTPStatus, errorResponse{
		Success: false,
		Error:   mapped.Message,
		Reason:  mapped.Reason,
	})
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{
		Success: false,
		Error:   internalErrorMessage,
		Reason:  "internalError",
	})
}

func mapError(ctx context.Context, err error) mappedError {
	var mapped mappedError
	switch {
	case errors.Is(err, usecase.ErrVotingClosed):
		mapped = mappedError{HTTPStatus: http.StatusBadRequest, Reason: "votingClosed", Message: "Voting has ended"}
	case errors.Is(err, usecase.ErrInvalidInput):
		mapped = mappedError{HTTPStatus: http.StatusBadRequest, Reason: "invalidInput", Message: "Invalid request"}
	case errors.Is(err, usecase.ErrUnauthorized):
		mapped = mappedError{HTTPStatus: http.StatusUnauthorized, Reason: "unauthorized", Message: "Authentication required"}
	case errors.Is(err, usecase.ErrForbidden):
		mapped = mappedError{HTTPStatus: http.StatusForbidden, Reason: "forbidden", Message: "Admin access required"}
	case errors.Is(err, usecase.ErrNotFound):
		mapped = mappedError{HTTPStatus: http.StatusNotFound, Reason: "notFound", Message: "Not found"}
	case errors.Is(err, usecase.ErrDependencyUnavailable):
		mapped = mappedError{HTTPStatus: http.StatusServiceUnavailable, Reason: "dependencyUnavailable", Message: "Service temporarily unavailable"}
	default:
		return mappedError{HTTPStatus: http.StatusInternalServerError, Reason: "internalError", Message: internalErrorMessage}
	}

	var validationErr *ballot.ValidationError
	var publicErr *usecase.PublicError
	switch {
	case errors.As(err, &validationErr):
		mapped.Reason = "invalidBallot"
		mapped.Message = validationErr.Message
	case errors.As(err, &publicErr):
		mapped.Message = publicErr.Message
	}
	return mapped
}
