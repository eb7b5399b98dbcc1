package user

import "testing"

func TestParseIdentity(t *testing.T) {
	tests := []struct {
		name      string
		claims    IdentityClaims
		wantName  string
		wantEmail string
		wantType  Provider
		wantErr   bool
	}{
		{
			name:      "google falls back to email local part",
			claims:    IdentityClaims{Provider: "Google", Subject: "g-1", Email: "fan@example.com"},
			wantName:  "fan",
			wantEmail: "fan@example.com",
			wantType:  ProviderGoogle,
		},
		{
			name:     "github falls back to login",
			claims:   IdentityClaims{Provider: "github", Subject: "42", Login: "octo"},
			wantName: "octo",
			wantType: ProviderGitHub,
		},
		{
			name:     "school uses student id when subject missing",
			claims:   IdentityClaims{Provider: "school", StudentID: "S-100"},
			wantName: "S-100",
			wantType: ProviderSchool,
		},
		{
			name:    "unknown provider",
			claims:  IdentityClaims{Provider: "myspace"},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			identity, err := ParseIdentity(tc.claims)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if identity.Provider() != tc.wantType {
				t.Fatalf("unexpected provider: %s", identity.Provider())
			}
			if identity.DisplayName() != tc.wantName {
				t.Fatalf("unexpected display name: %q", identity.DisplayName())
			}
			if identity.EmailAddress() != tc.wantEmail {
				t.Fatalf("unexpected email: %q", identity.EmailAddress())
			}
		})
	}
}

func TestNewPrincipal(t *testing.T) {
	identity := GitHubIdentity{ID: "7", Login: "octo", Email: " Octo@Example.COM "}
	p := NewPrincipal(" acct-7 ", identity, []string{"Admin"})

	if p.VoterID != "acct-7" {
		t.Fatalf("unexpected voter id: %q", p.VoterID)
	}
	if p.Email != "octo@example.com" {
		t.Fatalf("unexpected email: %q", p.Email)
	}
	if !p.HasRole(RoleAdmin) {
		t.Fatalf("expected admin role match to be case-insensitive")
	}
}

func TestVoter_Label(t *testing.T) {
	if got := (Voter{ID: "v1", Name: "Sam", Email: "sam@example.com"}).Label(); got != "Sam (sam@example.com)" {
		t.Fatalf("unexpected label: %q", got)
	}
	if got := (Voter{ID: "v1"}).Label(); got != "v1" {
		t.Fatalf("unexpected label without profile: %q", got)
	}
}
