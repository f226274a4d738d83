package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	id "vocilia/pkg/domain"
	dErrors "vocilia/pkg/domain-errors"
)

// DefaultTurnTokenTTL bounds how long a turn-submission token stays valid.
const DefaultTurnTokenTTL = 10 * time.Minute

// TurnClaims are the claims carried by a turn-submission token. The token is
// minted at session start and authorizes appends and completion for exactly
// one session.
type TurnClaims struct {
	SessionID  string `json:"session_id"`
	BusinessID string `json:"business_id"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and validates HS256 turn-submission tokens.
type TokenIssuer struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
}

// NewTokenIssuer creates an issuer. A non-positive ttl falls back to
// DefaultTurnTokenTTL.
func NewTokenIssuer(signingKey, issuer string, ttl time.Duration) (*TokenIssuer, error) {
	if signingKey == "" {
		return nil, fmt.Errorf("signing key is required")
	}
	if ttl <= 0 {
		ttl = DefaultTurnTokenTTL
	}
	return &TokenIssuer{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		ttl:        ttl,
	}, nil
}

// Issue mints a token bound to one session.
func (s *TokenIssuer) Issue(sessionID id.SessionID, businessID id.BusinessID) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, TurnClaims{
		SessionID:  sessionID.String(),
		BusinessID: businessID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(s.signingKey)
}

// Validate parses and verifies a token.
// Errors: CodeUnauthorized when the token is expired, malformed, or signed
// with the wrong key.
func (s *TokenIssuer) Validate(tokenString string) (*TurnClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &TurnClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "turn token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid turn token")
	}
	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid turn token")
	}

	claims, ok := parsed.Claims.(*TurnClaims)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid turn token claims")
	}
	return claims, nil
}

// SessionIDFromToken validates the token and returns the session it is bound
// to.
func (s *TokenIssuer) SessionIDFromToken(tokenString string) (id.SessionID, error) {
	claims, err := s.Validate(tokenString)
	if err != nil {
		return id.SessionID{}, err
	}
	sessionID, err := id.ParseSessionID(claims.SessionID)
	if err != nil {
		return id.SessionID{}, dErrors.New(dErrors.CodeUnauthorized, "invalid turn token claims")
	}
	return sessionID, nil
}
