package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/riskibarqy/tournament-votes/internal/config"
	"github.com/riskibarqy/tournament-votes/internal/platform/logging"
)

func memoryConfig() config.Config {
	return config.Config{
		AppEnv:             config.EnvDev,
		HTTPAddr:           ":0",
		StoreDriver:        config.StoreDriverMemory,
		VotingDeadline:     time.Now().Add(time.Hour),
		AdminEmails:        "referee@club.test",
		CacheEnabled:       true,
		CacheTTL:           time.Second,
		CORSAllowedOrigins: []string{"*"},
		AnubisBaseURL:      "http://127.0.0.1:1",
		AnubisTimeout:      time.Second,
	}
}

func TestNew_MemoryStore(t *testing.T) {
	app, err := New(context.Background(), memoryConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })

	if !app.AdminDirectory.IsAdminEmail("Referee@Club.test") {
		t.Fatalf("expected admin email loaded at startup")
	}

	rec := httptest.NewRecorder()
	app.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tournament-votes", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from overview, got %d", rec.Code)
	}
}

func TestNew_EligibilityFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eligibility.json")
	body := `{"best_player":[{"name":"Zubidullah","team":"Falcon"}],"best_goalkeeper":[{"name":"Hadi","team":"Wolves"}]}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write eligibility file: %v", err)
	}

	cfg := memoryConfig()
	cfg.EligibilityFile = path
	app, err := New(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	_ = app.Close()

	cfg.EligibilityFile = filepath.Join(t.TempDir(), "missing.json")
	if _, err := New(context.Background(), cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected error for missing eligibility file")
	}
}

func TestNew_RequiresAddr(t *testing.T) {
	cfg := memoryConfig()
	cfg.HTTPAddr = ""
	if _, err := New(context.Background(), cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}
