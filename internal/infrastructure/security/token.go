package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/legaltech/case-management/internal/core/domain"
	"github.com/legaltech/case-management/internal/core/ports"
)

const (
	issuer = "case-management"

	kindAccess  = "access"
	kindRefresh = "refresh"
)

// Claims carries the user id in Subject plus the role.
type Claims struct {
	jwt.RegisteredClaims
	Role domain.Role `json:"role"`
	Kind string      `json:"typ"`
}

// TokenConfig holds the two independent secrets and lifetimes.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// JWTIssuer implements ports.TokenIssuer with HS256 tokens.
type JWTIssuer struct {
	cfg   TokenConfig
	nowFn func() time.Time
}

func NewJWTIssuer(cfg TokenConfig) *JWTIssuer {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	return &JWTIssuer{cfg: cfg, nowFn: time.Now}
}

func (i *JWTIssuer) Issue(userID string, role domain.Role) (ports.TokenPair, error) {
	now := i.nowFn().UTC()
	access, accessExp, err := i.sign(userID, role, kindAccess, i.cfg.AccessSecret, i.cfg.AccessTTL, now)
	if err != nil {
		return ports.TokenPair{}, err
	}
	refresh, refreshExp, err := i.sign(userID, role, kindRefresh, i.cfg.RefreshSecret, i.cfg.RefreshTTL, now)
	if err != nil {
		return ports.TokenPair{}, err
	}
	return ports.TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (i *JWTIssuer) VerifyAccess(token string) (domain.Actor, error) {
	return i.verify(token, kindAccess, i.cfg.AccessSecret)
}

func (i *JWTIssuer) VerifyRefresh(token string) (domain.Actor, error) {
	return i.verify(token, kindRefresh, i.cfg.RefreshSecret)
}

func (i *JWTIssuer) sign(userID string, role domain.Role, kind, secret string, ttl time.Duration, now time.Time) (string, time.Time, error) {
	exp := now.Add(ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Role: role,
		Kind: kind,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, exp, nil
}

func (i *JWTIssuer) verify(token, kind, secret string) (domain.Actor, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.nowFn),
	)
	if err != nil || !tkn.Valid {
		return domain.Actor{}, domain.Errorf(domain.ErrUnauthenticated, "invalid or expired %s token", kind)
	}
	if claims.Kind != kind || claims.Subject == "" || !claims.Role.Valid() {
		return domain.Actor{}, domain.Errorf(domain.ErrUnauthenticated, "invalid %s token", kind)
	}
	return domain.Actor{ID: claims.Subject, Role: claims.Role}, nil
}
