// Package service contains application services for accounts, catalog and playlists.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	pkgcrypto "github.com/avolkov/tapedeck/internal/crypto"
	"github.com/avolkov/tapedeck/internal/errs"
	"github.com/avolkov/tapedeck/internal/limiter"
	"github.com/avolkov/tapedeck/internal/model"
	"github.com/avolkov/tapedeck/internal/repository"
)

// AuthService defines account and session operations.
type AuthService interface {
	// Register creates a new active account.
	Register(ctx context.Context, username, password string) (int64, error)
	// LoginWithIP applies rate-limiting and authenticates the user.
	LoginWithIP(ctx context.Context, username, password, ip string) (token string, user model.User, err error)
	// CheckToken verifies a previously issued token.
	CheckToken(token string) (model.Principal, error)
	// UpdateUsername changes the caller's username.
	UpdateUsername(ctx context.Context, userID int64, username string) (bool, error)
	// UpdatePicture stores the caller's picture reference.
	UpdatePicture(ctx context.Context, userID int64, picture string) (bool, error)
	// Deactivate soft-deletes the caller's account.
	Deactivate(ctx context.Context, userID int64) (bool, error)
}

// Claims is the JWT payload for issued tokens.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type AuthServiceImpl struct {
	users     repository.UserRepository
	signKey   []byte
	accessTTL time.Duration
	lim       limiter.Limiter
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, signKey []byte, accessTTL time.Duration, lim limiter.Limiter) *AuthServiceImpl {
	return &AuthServiceImpl{users: users, signKey: signKey, accessTTL: accessTTL, lim: lim}
}

// Register creates a new account with a bcrypt password hash.
func (s *AuthServiceImpl) Register(ctx context.Context, username, password string) (int64, error) {
	if username == "" || password == "" {
		return 0, errs.ErrValidation
	}
	hash, err := pkgcrypto.HashPassword(password)
	if err != nil {
		return 0, err
	}
	return s.users.Create(ctx, username, hash)
}

// LoginWithIP authenticates with rate limiting by (username, ip).
// Only active accounts can log in; a deactivated account is
// indistinguishable from a wrong password.
func (s *AuthServiceImpl) LoginWithIP(ctx context.Context, username, password, ip string) (string, model.User, error) {
	ipHash := limiter.HashIP(ip)

	allowed, _, err := s.lim.Allow(ctx, username, ipHash)
	if err != nil {
		return "", model.User{}, err
	}
	if !allowed {
		return "", model.User{}, errs.ErrRateLimited
	}

	u, err := s.users.GetActiveByUsername(ctx, username)
	if err != nil || !pkgcrypto.VerifyPassword(password, u.PwdHash) {
		if blocked, _, ferr := s.lim.Failure(ctx, username, ipHash); ferr == nil && blocked {
			return "", model.User{}, errs.ErrRateLimited
		}
		// hide existence of the user on wrong password
		return "", model.User{}, errs.ErrUnauthorized
	}

	// Success: reset counters (best-effort).
	_ = s.lim.Success(ctx, username, ipHash)

	token, err := s.issueToken(u.ID, u.Username)
	if err != nil {
		return "", model.User{}, err
	}
	return token, *u, nil
}

// issueToken creates a signed HS256 JWT for the given account.
func (s *AuthServiceImpl) issueToken(userID int64, username string) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   formatID(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(s.signKey)
}

// CheckToken verifies a token and returns its principal.
func (s *AuthServiceImpl) CheckToken(token string) (model.Principal, error) {
	return ParseToken(s.signKey, token)
}

// ParseToken verifies an HS256 token and extracts the principal.
// Expired tokens are reported as errs.ErrTokenExpired; any other defect
// (bad signature, malformed, wrong method) as errs.ErrUnauthorized.
func ParseToken(signKey []byte, token string) (model.Principal, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return signKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.Principal{}, errs.ErrTokenExpired
		}
		return model.Principal{}, errs.ErrUnauthorized
	}
	if !parsed.Valid {
		return model.Principal{}, errs.ErrUnauthorized
	}
	id, err := parseID(claims.Subject)
	if err != nil || id == 0 {
		return model.Principal{}, errs.ErrUnauthorized
	}
	return model.Principal{ID: id, Username: claims.Username}, nil
}

// UpdateUsername changes the caller's username.
func (s *AuthServiceImpl) UpdateUsername(ctx context.Context, userID int64, username string) (bool, error) {
	if username == "" {
		return false, errs.ErrValidation
	}
	return s.users.UpdateUsername(ctx, userID, username)
}

// UpdatePicture stores the picture reference produced by the blob store.
func (s *AuthServiceImpl) UpdatePicture(ctx context.Context, userID int64, picture string) (bool, error) {
	if picture == "" {
		return false, errs.ErrValidation
	}
	return s.users.UpdatePicture(ctx, userID, picture)
}

// Deactivate soft-deletes the account; issued tokens keep verifying but
// login is refused from then on.
func (s *AuthServiceImpl) Deactivate(ctx context.Context, userID int64) (bool, error) {
	return s.users.Deactivate(ctx, userID)
}
