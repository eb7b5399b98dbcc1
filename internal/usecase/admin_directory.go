package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/tournament-votes/internal/domain/user"
	"github.com/riskibarqy/tournament-votes/internal/platform/logging"
)

// AdminEmailSource yields the configured administrator emails.
type AdminEmailSource interface {
	AdminEmails(ctx context.Context) ([]string, error)
}

// AdminDirectory holds the administrator email set. It is loaded explicitly
// and refreshed through Reload.
type AdminDirectory struct {
	source AdminEmailSource
	logger *logging.Logger
	now    func() time.Time

	mu       sync.RWMutex
	emails   map[string]struct{}
	loadedAt time.Time
}

func NewAdminDirectory(source AdminEmailSource, logger *logging.Logger) *AdminDirectory {
	if logger == nil {
		logger = logging.Default()
	}

	return &AdminDirectory{
		source: source,
		logger: logger,
		now:    time.Now,
		emails: map[string]struct{}{},
	}
}

// Reload replaces the email set. On failure the previous set stays active.
func (d *AdminDirectory) Reload(ctx context.Context) (int, error) {
	ctx, span := startSpan(ctx, "AdminDirectory.Reload")
	defer span.End()

	if d.source == nil {
		return 0, fmt.Errorf("%w: admin email source is not configured", ErrDependencyUnavailable)
	}

	raw, err := d.source.AdminEmails(ctx)
	if err != nil {
		return 0, fmt.Errorf("load admin emails: %w", err)
	}

	next := make(map[string]struct{}, len(raw))
	for _, email := range raw {
		email = normalizeEmail(email)
		if email == "" {
			continue
		}
		next[email] = struct{}{}
	}

	d.mu.Lock()
	d.emails = next
	d.loadedAt = d.now().UTC()
	d.mu.Unlock()

	d.logger.InfoContext(ctx, "admin directory reloaded", "admin_count", len(next))
	return len(next), nil
}

func (d *AdminDirectory) IsAdminEmail(email string) bool {
	email = normalizeEmail(email)
	if email == "" {
		return false
	}

	d.mu.RLock()
	_, ok := d.emails[email]
	d.mu.RUnlock()
	return ok
}

// Resolve sets IsAdmin from the account role or the email set.
func (d *AdminDirectory) Resolve(principal user.Principal) user.Principal {
	principal.IsAdmin = principal.HasRole(user.RoleAdmin) || d.IsAdminEmail(principal.Email)
	return principal
}

func (d *AdminDirectory) LoadedAt() time.Time {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loadedAt
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
