package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/bookmart-backend/internal/domain/apperr"
	"github.com/yungbote/bookmart-backend/internal/platform/ctxutil"
)

// TokenIssuer signs and verifies HS256 bearer tokens carrying a role and an
// account id.
type TokenIssuer interface {
	Issue(role ctxutil.Role, id int64) (string, error)
	Parse(raw string) (*ctxutil.Principal, error)
}

type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type jwtIssuer struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) TokenIssuer {
	return &jwtIssuer{secret: []byte(secret), ttl: ttl, issuer: "bookmart", now: time.Now}
}

func (j *jwtIssuer) Issue(role ctxutil.Role, id int64) (string, error) {
	now := j.now()
	claims := tokenClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(id, 10),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (j *jwtIssuer) Parse(raw string) (*ctxutil.Principal, error) {
	const op = "token.parse"
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return j.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.issuer),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, apperr.Unauthorized(op, "invalid or expired token")
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return nil, apperr.Unauthorized(op, "invalid token subject")
	}
	switch role := ctxutil.Role(claims.Role); role {
	case ctxutil.RoleStudent, ctxutil.RoleShop, ctxutil.RoleAdmin:
		return &ctxutil.Principal{Role: role, ID: id}, nil
	default:
		return nil, apperr.Unauthorized(op, "invalid token role")
	}
}
