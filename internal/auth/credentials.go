package auth

import (
	"errors"
	"strings"

	"github.com/kishanyadav-shop/support-portal/internal/config"
	"github.com/kishanyadav-shop/support-portal/internal/domain"
)

// ErrInvalidCredentials is returned for any failed login attempt.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Authenticator resolves an identity to a staff member and role.
type Authenticator interface {
	Authenticate(email, password string) (*domain.StaffMember, error)
}

// StaticAuthenticator verifies against the single admin credential from
// configuration. Without a configured password hash it accepts the admin
// email alone, which keeps local development working.
type StaticAuthenticator struct {
	adminEmail   string
	adminName    string
	passwordHash string
}

// NewStaticAuthenticator builds the authenticator from config.
func NewStaticAuthenticator(cfg config.AuthConfig) *StaticAuthenticator {
	return &StaticAuthenticator{
		adminEmail:   strings.ToLower(strings.TrimSpace(cfg.AdminEmail)),
		adminName:    cfg.AdminName,
		passwordHash: cfg.AdminPasswordHash,
	}
}

// Authenticate checks the identity and returns the admin principal.
func (a *StaticAuthenticator) Authenticate(email, password string) (*domain.StaffMember, error) {
	if strings.ToLower(strings.TrimSpace(email)) != a.adminEmail {
		return nil, ErrInvalidCredentials
	}
	if a.passwordHash != "" {
		if err := ComparePassword(a.passwordHash, password); err != nil {
			return nil, ErrInvalidCredentials
		}
	}
	return &domain.StaffMember{
		Email: a.adminEmail,
		Name:  a.adminName,
		Role:  domain.StaffRoleAdmin,
	}, nil
}
