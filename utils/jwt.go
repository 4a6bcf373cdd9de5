package utils

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"blogcms/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims mirrors what the dashboard decodes: it reads the numeric user id
// from "nameid".
type Claims struct {
	NameID string `json:"nameid"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Principal is the authenticated identity taken from a validated token.
type Principal struct {
	UserID uint
	Email  string
}

type TokenService struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	clock    Clock
}

func NewTokenService(secret, issuer, audience string, ttl time.Duration, clock Clock) *TokenService {
	if clock == nil {
		clock = NewRealClock()
	}
	return &TokenService{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
		clock:    clock,
	}
}

func (s *TokenService) Issue(user *models.User) (string, error) {
	now := s.clock.NowUtc()
	id := strconv.FormatUint(uint64(user.ID), 10)

	claims := &Claims{
		NameID: id,
		Email:  user.Email,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *TokenService) Validate(tokenString string) (Principal, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.NowUtc),
	)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid {
		return Principal{}, ErrInvalidToken
	}

	userID, err := strconv.ParseUint(claims.NameID, 10, 64)
	if err != nil || userID == 0 {
		return Principal{}, fmt.Errorf("%w: missing identity claim", ErrInvalidToken)
	}

	return Principal{UserID: uint(userID), Email: claims.Email}, nil
}
