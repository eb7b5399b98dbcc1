package user

import (
	"context"
	"strings"
	"time"
)

const RoleAdmin = "admin"

// Principal is the authenticated caller. VoterID is opaque and stable across
// providers; nothing downstream of authentication looks at the provider.
type Principal struct {
	VoterID string
	Email   string
	Name    string
	Roles   []string
	IsAdmin bool
}

// NewPrincipal normalizes a provider identity into a principal keyed by the
// account id.
func NewPrincipal(accountID string, identity Identity, roles []string) Principal {
	p := Principal{
		VoterID: strings.TrimSpace(accountID),
		Roles:   append([]string(nil), roles...),
	}
	if identity != nil {
		p.Email = strings.ToLower(strings.TrimSpace(identity.EmailAddress()))
		p.Name = identity.DisplayName()
	}
	return p
}

func (p Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

// Voter is the profile kept for moderation views.
type Voter struct {
	ID         string
	Name       string
	Email      string
	LastSeenAt time.Time
}

// Label renders "Name (email)" for audit records.
func (v Voter) Label() string {
	name := v.Name
	if strings.TrimSpace(name) == "" {
		name = v.ID
	}
	if strings.TrimSpace(v.Email) == "" {
		return name
	}
	return name + " (" + v.Email + ")"
}

// Repository stores voter profiles.
type Repository interface {
	Upsert(ctx context.Context, voter Voter) error
	GetByID(ctx context.Context, voterID string) (Voter, bool, error)
}
