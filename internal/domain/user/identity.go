package user

import (
	"fmt"
	"strings"
)

type Provider string

const (
	ProviderGoogle Provider = "google"
	ProviderGitHub Provider = "github"
	ProviderSchool Provider = "school"
)

// Identity is the closed set of sign-in providers. Only the variants in this
// package implement it.
type Identity interface {
	Provider() Provider
	DisplayName() string
	EmailAddress() string
	sealed()
}

type GoogleIdentity struct {
	Subject string
	Email   string
	Name    string
}

func (GoogleIdentity) Provider() Provider     { return ProviderGoogle }
func (g GoogleIdentity) EmailAddress() string { return g.Email }
func (GoogleIdentity) sealed()                {}

func (g GoogleIdentity) DisplayName() string {
	return firstNonEmpty(g.Name, localPart(g.Email))
}

type GitHubIdentity struct {
	ID    string
	Login string
	Email string
	Name  string
}

func (GitHubIdentity) Provider() Provider     { return ProviderGitHub }
func (g GitHubIdentity) EmailAddress() string { return g.Email }
func (GitHubIdentity) sealed()                {}

func (g GitHubIdentity) DisplayName() string {
	return firstNonEmpty(g.Name, g.Login)
}

// SchoolIdentity comes from the school SSO. Email may be absent for younger students.
type SchoolIdentity struct {
	StudentID string
	Email     string
	Name      string
}

func (SchoolIdentity) Provider() Provider     { return ProviderSchool }
func (s SchoolIdentity) EmailAddress() string { return s.Email }
func (SchoolIdentity) sealed()                {}

func (s SchoolIdentity) DisplayName() string {
	return firstNonEmpty(s.Name, s.StudentID)
}

// IdentityClaims is the provider-tagged payload handed over by the account service.
type IdentityClaims struct {
	Provider  string
	Subject   string
	Login     string
	StudentID string
	Email     string
	Name      string
}

// ParseIdentity decodes claims into one of the known variants.
func ParseIdentity(c IdentityClaims) (Identity, error) {
	switch Provider(strings.ToLower(strings.TrimSpace(c.Provider))) {
	case ProviderGoogle:
		return GoogleIdentity{Subject: c.Subject, Email: c.Email, Name: c.Name}, nil
	case ProviderGitHub:
		return GitHubIdentity{ID: c.Subject, Login: c.Login, Email: c.Email, Name: c.Name}, nil
	case ProviderSchool:
		return SchoolIdentity{StudentID: firstNonEmpty(c.StudentID, c.Subject), Email: c.Email, Name: c.Name}, nil
	default:
		return nil, fmt.Errorf("unsupported identity provider %q", c.Provider)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func localPart(email string) string {
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return ""
}
