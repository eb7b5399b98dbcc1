package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/tournament-votes/internal/domain/award"
	"github.com/riskibarqy/tournament-votes/internal/domain/deadline"
	"github.com/riskibarqy/tournament-votes/internal/domain/user"
	"github.com/riskibarqy/tournament-votes/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/tournament-votes/internal/platform/logging"
	"github.com/riskibarqy/tournament-votes/internal/usecase"
)

var testDeadline = time.Date(2026, 1, 26, 8, 0, 0, 0, time.UTC)

type stubVerifier struct {
	principals map[string]user.Principal
}

func (s stubVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	if token == "account-down" {
		return user.Principal{}, fmt.Errorf("%w: breaker open", usecase.ErrDependencyUnavailable)
	}
	p, ok := s.principals[token]
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: inactive token", usecase.ErrUnauthorized)
	}
	return p, nil
}

type staticAdminSource []string

func (s staticAdminSource) AdminEmails(context.Context) ([]string, error) {
	return s, nil
}

type apiFixture struct {
	router  http.Handler
	ballots *memory.BallotRepository
	clock   *time.Time
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	now := testDeadline.Add(-2 * time.Hour)
	f := &apiFixture{clock: &now}
	clock := func() time.Time { return *f.clock }

	registry := award.DefaultRegistry()
	gate := deadline.NewGate(testDeadline, clock)
	voters := memory.NewVoterRepository()
	f.ballots = memory.NewBallotRepository(voters, memory.WithClock(clock))

	logger := logging.NewNop()
	directory := usecase.NewAdminDirectory(staticAdminSource{"Referee@Club.test"}, logger)
	if _, err := directory.Reload(context.Background()); err != nil {
		t.Fatalf("reload admin directory: %v", err)
	}

	handler := NewHandler(
		usecase.NewVoteService(registry, gate, f.ballots, voters, logger),
		usecase.NewTallyService(f.ballots, gate),
		usecase.NewModerationService(f.ballots, voters, logger),
		directory,
		registry,
		logger,
	)
	verifier := stubVerifier{principals: map[string]user.Principal{
		"voter-token": {VoterID: "voter-1", Name: "Sami", Email: "sami@club.test"},
		"other-token": {VoterID: "voter-2", Name: "Noor", Email: "noor@club.test"},
		"admin-token": {VoterID: "admin-1", Name: "Referee", Email: "referee@club.test"},
	}}
	f.router = NewRouter(handler, verifier, directory, logger, RouterConfig{InternalToken: "ops-secret", SwaggerEnabled: true})
	return f
}

func (f *apiFixture) do(t *testing.T, method, target, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
}

const bestPlayerBallot = `{"awardType":"best_player","votes":[
	{"playerName":"Zubidullah","playerTeam":"Falcon","rank":1},
	{"playerName":"Moh'd Eid","playerTeam":"Falcon","rank":2},
	{"playerName":"Fahim","playerTeam":"Falcon","rank":3}]}`

func TestSubmitTournamentVotes_RecordsAndShowsInOverview(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/tournament-votes", "voter-token", bestPlayerBallot)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var msg messageResponse
	decodeBody(t, rec, &msg)
	if !msg.Success || msg.Message != "All votes recorded successfully" {
		t.Fatalf("unexpected response %+v", msg)
	}

	rec = f.do(t, http.MethodGet, "/tournament-votes", "voter-token", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var overview overviewResponse
	decodeBody(t, rec, &overview)

	if !overview.IsAuthenticated || !overview.VotingOpen {
		t.Fatalf("expected authenticated open overview, got %+v", overview)
	}
	if overview.RankPoints["1"] != 4 || overview.RankPoints["2"] != 2 || overview.RankPoints["3"] != 1 {
		t.Fatalf("unexpected rank points %v", overview.RankPoints)
	}
	leaders := overview.Tallies["best_player"]
	if len(leaders) != 3 || leaders[0].Name != "Zubidullah" || leaders[0].Score != 4 {
		t.Fatalf("unexpected best player tallies %+v", leaders)
	}
	if _, ok := overview.Tallies["best_goalkeeper"]; !ok {
		t.Fatalf("expected best_goalkeeper key even without votes")
	}
	mine := overview.UserVotes["best_player"]
	if mine.First == nil || mine.First.PlayerName != "Zubidullah" || mine.Third == nil || mine.Third.PlayerName != "Fahim" {
		t.Fatalf("unexpected user ballot %+v", mine)
	}
	if goalkeeper := overview.UserVotes["best_goalkeeper"]; goalkeeper.First != nil {
		t.Fatalf("expected empty goalkeeper ballot, got %+v", goalkeeper)
	}
	if overview.VotingDeadline != "2026-01-26T08:00:00Z" {
		t.Fatalf("unexpected deadline %q", overview.VotingDeadline)
	}
}

func TestGetTournamentVotes_Anonymous(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/tournament-votes", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var overview overviewResponse
	decodeBody(t, rec, &overview)
	if overview.IsAuthenticated {
		t.Fatalf("expected anonymous overview")
	}
	if overview.TimeRemaining.Expired || overview.TimeRemaining.Hours != 2 {
		t.Fatalf("unexpected time remaining %+v", overview.TimeRemaining)
	}
}

func TestSubmitTournamentVotes_Errors(t *testing.T) {
	tests := []struct {
		name        string
		token       string
		body        string
		closed      bool
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "anonymous",
			body:        bestPlayerBallot,
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Authentication required to vote",
		},
		{
			name:        "rejected token acts as anonymous",
			token:       "stale-token",
			body:        bestPlayerBallot,
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Authentication required to vote",
		},
		{
			name:        "deadline checked before auth",
			body:        bestPlayerBallot,
			closed:      true,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Voting has ended",
		},
		{
			name:  "duplicate rank",
			token: "voter-token",
			body: `{"awardType":"best_player","votes":[
				{"playerName":"Zubidullah","playerTeam":"Falcon","rank":1},
				{"playerName":"Moh'd Eid","playerTeam":"Falcon","rank":1},
				{"playerName":"Fahim","playerTeam":"Falcon","rank":3}]}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Duplicate rank 1 in votes",
		},
		{
			name:        "malformed json",
			token:       "voter-token",
			body:        `{"awardType":`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid JSON payload",
		},
		{
			name:        "wrong field type",
			token:       "voter-token",
			body:        `{"awardType":"best_player","votes":"all of them"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid JSON payload",
		},
		{
			name:        "two votes",
			token:       "voter-token",
			body:        `{"awardType":"best_player","votes":[{"playerName":"Zubidullah","playerTeam":"Falcon","rank":1},{"playerName":"Fahim","playerTeam":"Falcon","rank":2}]}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Must submit exactly 3 ranked votes (1st, 2nd, 3rd)",
		},
		{
			name:        "account service down",
			token:       "account-down",
			body:        bestPlayerBallot,
			wantStatus:  http.StatusServiceUnavailable,
			wantMessage: "Service temporarily unavailable",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newAPIFixture(t)
			if tc.closed {
				*f.clock = testDeadline
			}

			rec := f.do(t, http.MethodPost, "/tournament-votes", tc.token, tc.body)
			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d body=%s", tc.wantStatus, rec.Code, rec.Body.String())
			}
			var body errorResponse
			decodeBody(t, rec, &body)
			if body.Success || body.Error != tc.wantMessage {
				t.Fatalf("unexpected error body %+v", body)
			}
		})
	}
}

func TestSubmitTournamentVotes_IgnoresUnknownFields(t *testing.T) {
	f := newAPIFixture(t)

	body := `{"awardType":"best_player","clientVersion":"2025.12","votes":[
		{"playerName":"Zubidullah","playerTeam":"Falcon","rank":1,"playerId":"p-17"},
		{"playerName":"Moh'd Eid","playerTeam":"Falcon","rank":2},
		{"playerName":"Fahim","playerTeam":"Falcon","rank":3}]}`
	rec := f.do(t, http.MethodPost, "/tournament-votes", "voter-token", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	mine, err := f.ballots.ListByVoter(context.Background(), "voter-1")
	if err != nil {
		t.Fatalf("list by voter: %v", err)
	}
	if len(mine) != 3 {
		t.Fatalf("expected stored ballot, got %d rows", len(mine))
	}
}

func TestDocsRoutes(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/openapi.yaml", "", "")
	if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Body.String(), "openapi: 3") {
		t.Fatalf("unexpected openapi response %d %q", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/yaml") {
		t.Fatalf("unexpected content type %q", ct)
	}

	rec = f.do(t, http.MethodGet, "/docs", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `url: "/openapi.yaml"`) {
		t.Fatalf("unexpected docs page %d", rec.Code)
	}
}

func TestWithdrawTournamentVotes(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodDelete, "/tournament-votes?awardType=best_player", "voter-token", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before any ballot, got %d", rec.Code)
	}

	if rec = f.do(t, http.MethodPost, "/tournament-votes", "voter-token", bestPlayerBallot); rec.Code != http.StatusOK {
		t.Fatalf("submit: %d %s", rec.Code, rec.Body.String())
	}

	rec = f.do(t, http.MethodDelete, "/tournament-votes?awardType=best_player", "voter-token", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var msg messageResponse
	decodeBody(t, rec, &msg)
	if msg.Message != "All votes removed successfully" {
		t.Fatalf("unexpected message %q", msg.Message)
	}

	rec = f.do(t, http.MethodDelete, "/tournament-votes?awardType=golden_boot", "voter-token", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown award, got %d", rec.Code)
	}
	var body errorResponse
	decodeBody(t, rec, &body)
	if body.Error != "Valid award type is required" {
		t.Fatalf("unexpected error %q", body.Error)
	}
}

func TestWithdrawTournamentVotes_AfterDeadline(t *testing.T) {
	f := newAPIFixture(t)
	if rec := f.do(t, http.MethodPost, "/tournament-votes", "voter-token", bestPlayerBallot); rec.Code != http.StatusOK {
		t.Fatalf("submit: %d", rec.Code)
	}
	*f.clock = testDeadline.Add(time.Minute)

	rec := f.do(t, http.MethodDelete, "/tournament-votes?awardType=best_player", "voter-token", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	entries, err := f.ballots.ListByVoter(context.Background(), "voter-1")
	if err != nil {
		t.Fatalf("list by voter: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected ballot untouched after deadline, got %d rows", len(entries))
	}
}

func TestListCandidates(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/tournament-votes/candidates", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body candidatesResponse
	decodeBody(t, rec, &body)
	if len(body.Candidates["best_player"]) == 0 || len(body.Candidates["best_goalkeeper"]) == 0 {
		t.Fatalf("expected both rosters, got %+v", body.Candidates)
	}
}

func TestAdminTournamentVotes_RequiresAdmin(t *testing.T) {
	f := newAPIFixture(t)

	for _, token := range []string{"", "voter-token"} {
		for _, method := range []string{http.MethodGet, http.MethodDelete} {
			rec := f.do(t, method, "/admin/tournament-votes?voterId=voter-1&awardType=best_player", token, "")
			if rec.Code != http.StatusForbidden {
				t.Fatalf("%s with token %q: expected 403, got %d", method, token, rec.Code)
			}
			var body errorResponse
			decodeBody(t, rec, &body)
			if body.Error != "Admin access required" {
				t.Fatalf("unexpected error %q", body.Error)
			}
		}
	}
}

func TestAdminTournamentVotes_OverviewAndModeration(t *testing.T) {
	f := newAPIFixture(t)

	if rec := f.do(t, http.MethodPost, "/tournament-votes", "voter-token", bestPlayerBallot); rec.Code != http.StatusOK {
		t.Fatalf("submit: %d %s", rec.Code, rec.Body.String())
	}
	if rec := f.do(t, http.MethodPost, "/tournament-votes", "other-token", bestPlayerBallot); rec.Code != http.StatusOK {
		t.Fatalf("submit other: %d", rec.Code)
	}

	rec := f.do(t, http.MethodGet, "/admin/tournament-votes?playerName=zubi", "admin-token", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var overview adminOverviewResponse
	decodeBody(t, rec, &overview)
	if len(overview.Votes) != 2 {
		t.Fatalf("expected 2 filtered rows, got %d", len(overview.Votes))
	}
	if overview.Totals["best_player"] != 6 || overview.Totals["best_goalkeeper"] != 0 {
		t.Fatalf("unexpected totals %v", overview.Totals)
	}
	if len(overview.Summary["best_player"]) != 3 {
		t.Fatalf("summary must ignore the filter, got %+v", overview.Summary["best_player"])
	}

	rec = f.do(t, http.MethodDelete, "/admin/tournament-votes?voterId=voter-1&awardType=best_player", "admin-token", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var msg messageResponse
	decodeBody(t, rec, &msg)
	if msg.Message != "All best player votes removed for Sami" {
		t.Fatalf("unexpected message %q", msg.Message)
	}

	audits := f.ballots.AuditEntries()
	if len(audits) != 1 || audits[0].PerformedBy != "admin-1" {
		t.Fatalf("unexpected audit entries %+v", audits)
	}

	rec = f.do(t, http.MethodDelete, "/admin/tournament-votes?voterId=voter-1&awardType=best_player", "admin-token", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", rec.Code)
	}
	rec = f.do(t, http.MethodDelete, "/admin/tournament-votes?voterId=ghost&awardType=best_player", "admin-token", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown voter, got %d", rec.Code)
	}
	rec = f.do(t, http.MethodDelete, "/admin/tournament-votes?awardType=best_player", "admin-token", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing voter id, got %d", rec.Code)
	}
}

func TestReloadAdminDirectory(t *testing.T) {
	f := newAPIFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/internal/admin-directory/reload", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/internal/admin-directory/reload", nil)
	req.Header.Set("X-Internal-Token", "ops-secret")
	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var body adminReloadResponse
	decodeBody(t, rec, &body)
	if body.AdminCount != 1 {
		t.Fatalf("expected one admin, got %d", body.AdminCount)
	}
}

func TestHealthz(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
