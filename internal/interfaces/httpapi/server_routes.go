package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerVoterRoutes(mux *http.ServeMux, handler *Handler, auth func(http.Handler) http.Handler) {
	mux.Handle("GET /tournament-votes", auth(http.HandlerFunc(handler.GetTournamentVotes)))
	mux.HandleFunc("GET /tournament-votes/candidates", handler.ListCandidates)
	mux.Handle("POST /tournament-votes", auth(http.HandlerFunc(handler.SubmitTournamentVotes)))
	mux.Handle("DELETE /tournament-votes", auth(http.HandlerFunc(handler.WithdrawTournamentVotes)))
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, auth func(http.Handler) http.Handler) {
	mux.Handle("GET /admin/tournament-votes", auth(RequireAdmin(http.HandlerFunc(handler.GetAdminTournamentVotes))))
	mux.Handle("DELETE /admin/tournament-votes", auth(RequireAdmin(http.HandlerFunc(handler.DeleteAdminTournamentVotes))))
}

func registerInternalRoutes(mux *http.ServeMux, handler *Handler, internalToken string) {
	mux.Handle("POST /internal/admin-directory/reload", RequireInternalToken(internalToken, http.HandlerFunc(handler.ReloadAdminDirectory)))
}
