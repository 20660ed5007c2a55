package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/alimon-app/mise/internal/service"
)

// Claims is the access token payload. The subject is the user's UUID.
type Claims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Authenticator verifies and issues HS256 bearer tokens.
type Authenticator struct {
	secret []byte
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// Issue signs a token for userID that expires after ttl.
func (a *Authenticator) Issue(userID uuid.UUID, name string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Authenticate reads the bearer token from an Authorization header value.
func (a *Authenticator) Authenticate(header string) (uuid.UUID, *Claims, error) {
	if len(a.secret) == 0 {
		return uuid.Nil, nil, errors.New("JWT secret is not configured")
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return uuid.Nil, nil, fmt.Errorf("authorization header required: %w", service.ErrUnauthorized)
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims,
		func(*jwt.Token) (interface{}, error) { return a.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !token.Valid {
		return uuid.Nil, nil, fmt.Errorf("invalid token: %w", service.ErrUnauthorized)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("invalid subject: %w", service.ErrUnauthorized)
	}
	return userID, claims, nil
}

type authedHandler func(w http.ResponseWriter, r *http.Request, userID uuid.UUID)

// authed resolves the caller from the bearer token, makes sure a user row
// exists and passes the user ID on.
func (s *Server) authed(h authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, claims, err := s.auth.Authenticate(r.Header.Get("Authorization"))
		if err != nil {
			s.respondServiceError(w, r, err, "authentication failed")
			return
		}
		if _, err := s.svc.EnsureUser(r.Context(), userID, claims.Name); err != nil {
			s.respondServiceError(w, r, err, "failed to load user")
			return
		}
		if info := requestInfoFrom(r.Context()); info != nil {
			info.userID = userID.String()
		}
		h(w, r, userID)
	}
}

type requestInfoKey struct{}

// requestInfo carries values discovered deep in the handler chain back out
// to the logging middleware.
type requestInfo struct {
	userID string
	route  string
}

func withRequestInfo(ctx context.Context, info *requestInfo) context.Context {
	return context.WithValue(ctx, requestInfoKey{}, info)
}

func requestInfoFrom(ctx context.Context) *requestInfo {
	info, _ := ctx.Value(requestInfoKey{}).(*requestInfo)
	return info
}
