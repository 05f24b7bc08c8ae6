package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lshigami/Marmoset/config"
	"github.com/lshigami/Marmoset/internal/model"
)

// Identity is the verified subject extracted from a credential. It is either
// fully populated or absent; a failed parse never yields a partial identity.
type Identity struct {
	UserID   uint
	Username string
	Email    string
	Role     model.UserRole
}

// Allowed is the authorization predicate over the resolved identity.
func (id Identity) Allowed(action model.Action) bool {
	return model.RoleAllowed(id.Role, action)
}

type Claims struct {
	UserID   uint           `json:"user_id"`
	Username string         `json:"username"`
	Email    string         `json:"email"`
	Role     model.UserRole `json:"role"`
	jwt.RegisteredClaims
}

type TokenService interface {
	Generate(user *model.User) (string, error)
	// Parse verifies signature and expiry. Any failure maps to
	// model.ErrUnauthenticated so callers fail closed.
	Parse(tokenString string) (*Identity, error)
}

type tokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(cfg *config.Config) TokenService {
	return &tokenService{
		secret: []byte(cfg.JWT.Secret),
		ttl:    time.Duration(cfg.JWT.TTLHours) * time.Hour,
	}
}

func (s *tokenService) Generate(user *model.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *tokenService) Parse(tokenString string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, model.ErrUnauthenticated
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, model.ErrUnauthenticated
	}
	return &Identity{
		UserID:   claims.UserID,
		Username: claims.Username,
		Email:    claims.Email,
		Role:     claims.Role,
	}, nil
}
