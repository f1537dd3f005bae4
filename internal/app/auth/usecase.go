package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"surgame/internal/app/apperr"
	"surgame/internal/app/ports"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid bearer token")
)

// Principal is the caller a request acts for. UserID is zero when a trusted
// origin names a uid that has no user row.
type Principal struct {
	UserID int64
	UID    int64
}

func (p Principal) User() ports.User {
	return ports.User{ID: p.UserID, UID: p.UID}
}

type Claims struct {
	UID int64 `json:"uid"`
	jwt.RegisteredClaims
}

// TokenCodec signs and checks HS256 player tokens.
type TokenCodec struct {
	Secret []byte
	Now    func() time.Time
}

func (c TokenCodec) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c TokenCodec) Issue(uid int64, ttl time.Duration) (string, error) {
	if len(c.Secret) == 0 {
		return "", ErrInvalidToken
	}
	now := c.now()
	claims := Claims{
		UID: uid,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(uid, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.Secret)
}

// Parse returns the uid carried by token.
func (c TokenCodec) Parse(token string) (int64, error) {
	if len(c.Secret) == 0 {
		return 0, ErrInvalidToken
	}
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return c.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(c.now))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.UID <= 0 {
		return 0, ErrInvalidToken
	}
	return claims.UID, nil
}

type VerifyRequest struct {
	Bearer  string
	Origin  string
	Referer string
	// UID is the raw uid parameter, honoured only for trusted origins.
	UID string
}

// VerifyUseCase turns request credentials into a Principal. Requests whose
// Origin (or Referer) host equals PassDomain skip the token and name the
// player with a uid parameter instead.
type VerifyUseCase struct {
	Tokens     TokenCodec
	Users      ports.UserRepository
	PassDomain string
}

func (u VerifyUseCase) Execute(ctx context.Context, req VerifyRequest) (Principal, error) {
	if token := strings.TrimSpace(req.Bearer); token != "" {
		uid, err := u.Tokens.Parse(token)
		if err != nil {
			return Principal{}, err
		}
		user, err := u.Users.GetByUID(ctx, uid)
		if errors.Is(err, ports.ErrNotFound) {
			return Principal{}, apperr.New(apperr.CodeUserNotFound)
		}
		if err != nil {
			return Principal{}, err
		}
		return Principal{UserID: user.ID, UID: user.UID}, nil
	}

	if !u.Trusted(req.Origin, req.Referer) {
		return Principal{}, ErrMissingToken
	}
	uid, err := strconv.ParseInt(strings.TrimSpace(req.UID), 10, 64)
	if err != nil || uid <= 0 {
		return Principal{}, apperr.New(apperr.CodeUIDRequired)
	}
	user, err := u.Users.GetByUID(ctx, uid)
	switch {
	case errors.Is(err, ports.ErrNotFound):
		return Principal{UID: uid}, nil
	case err != nil:
		return Principal{}, err
	}
	return Principal{UserID: user.ID, UID: user.UID}, nil
}

// Trusted compares the Origin host, or the Referer host when Origin has
// none, against PassDomain.
func (u VerifyUseCase) Trusted(origin, referer string) bool {
	if u.PassDomain == "" {
		return false
	}
	host := hostOf(origin)
	if host == "" {
		host = hostOf(referer)
	}
	return host != "" && host == u.PassDomain
}

func hostOf(raw string) string {
	if raw == "" {
		return ""
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}
