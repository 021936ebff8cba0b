// Package auth reads the role and expiry out of the access token the HRMS
// backend issues. Signature verification stays with the backend; the client
// only needs the claims to pick screens and detect an expired session.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleSuperAdmin:
		return RoleSuperAdmin
	}
	return RoleUser
}

func (r Role) CanManageEmployees() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

func (r Role) CanApproveLeaves() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// Claims represents the payload extracted from an access token. Role is
// empty when the token carries no role claim.
type Claims struct {
	Subject   string
	Email     string
	Role      Role
	ExpiresAt time.Time
}

// Expired reports whether the token is past its expiry. Tokens without an
// expiry never expire client-side.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// ErrMissingToken is returned for an empty token.
var ErrMissingToken = errors.New("missing access token")

// ErrInvalidToken wraps decoding errors.
var ErrInvalidToken = errors.New("invalid access token")

// ParseToken decodes the claims of token without verifying its signature.
func ParseToken(token string) (Claims, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return Claims{}, ErrMissingToken
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	subject, _ := claims.GetSubject()
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	if subject == "" {
		// some deployments put the user id under "user_id"
		switch v := claims["user_id"].(type) {
		case string:
			subject = v
		case float64:
			subject = fmt.Sprintf("%.0f", v)
		}
	}

	out := Claims{Subject: subject, Email: email}
	if role != "" {
		out.Role = ParseRole(role)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}
