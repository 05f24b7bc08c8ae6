package service

import (
	"errors"
	"fmt"

	"github.com/lshigami/Marmoset/internal/dto"
	"github.com/lshigami/Marmoset/internal/model"
	"github.com/lshigami/Marmoset/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(req dto.RegisterDTO) (*dto.UserResponseDTO, error)
	Login(req dto.LoginDTO) (*dto.TokenResponseDTO, error)
}

type authService struct {
	userRepo repository.UserRepository
	tokens   TokenService
}

func NewAuthService(userRepo repository.UserRepository, tokens TokenService) AuthService {
	return &authService{userRepo: userRepo, tokens: tokens}
}

// Register creates a plain USER account. Elevated roles are assigned out of
// band, never through this endpoint.
func (s *authService) Register(req dto.RegisterDTO) (*dto.UserResponseDTO, error) {
	user := model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     model.RoleUser,
	}
	if err := s.userRepo.Create(&user); err != nil {
		log.Error().Err(err).Str("username", req.Username).Msg("Register: failed to create user")
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return &dto.UserResponseDTO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     string(user.Role),
	}, nil
}

func (s *authService) Login(req dto.LoginDTO) (*dto.TokenResponseDTO, error) {
	user, err := s.userRepo.FindByUsername(req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrUnauthenticated
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if !user.CheckPassword(req.Password) {
		return nil, model.ErrUnauthenticated
	}
	token, err := s.tokens.Generate(user)
	if err != nil {
		log.Error().Err(err).Uint("userID", user.ID).Msg("Login: failed to sign token")
		return nil, fmt.Errorf("signing token: %w", err)
	}
	return &dto.TokenResponseDTO{Token: token}, nil
}
