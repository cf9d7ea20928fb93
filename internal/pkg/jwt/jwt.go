package jwt

import (
	"time"

	"omiam-waitlist/internal/domain/staff"
	"omiam-waitlist/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Issuer is stamped on every staff token and required on validation.
const Issuer = "omiam-waitlist"

var (
	ErrInvalidToken = errs.New("invalid token")
	ErrExpiredToken = errs.New("token expired")
)

// Claims identify a restaurant staff member. Guests never hold a token.
type Claims struct {
	StaffID uuid.UUID `json:"staff_id"`
	Role    string    `json:"role"`
	jwt.RegisteredClaims
}

type Service struct {
	secretKey     []byte
	tokenDuration time.Duration
	parser        *jwt.Parser
}

func NewService(secretKey string, tokenDuration time.Duration) *Service {
	return &Service{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(Issuer),
			jwt.WithIssuedAt(),
			jwt.WithLeeway(5*time.Second),
		),
	}
}

func (s *Service) GenerateToken(staffID uuid.UUID, role staff.Role) (string, error) {
	now := time.Now()
	claims := Claims{
		StaffID: staffID,
		Role:    role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   staffID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenDuration)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
	if err != nil {
		return "", errs.Wrap(err, "failed to sign staff token")
	}
	return signed, nil
}

func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := s.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.secretKey, nil
	})
	switch {
	case errs.Is(err, jwt.ErrTokenExpired):
		return nil, errs.Wrap(ErrExpiredToken, err.Error())
	case err != nil:
		return nil, errs.Wrap(ErrInvalidToken, err.Error())
	case !token.Valid || claims.StaffID == uuid.Nil:
		return nil, ErrInvalidToken
	}
	return claims, nil
}
