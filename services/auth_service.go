package services

import (
	"eyesup/auth"
	"eyesup/errors"
	"eyesup/repositories"
	"fmt"
)

type IAuthService interface {
	Login(email, password string) (Token, error)
	Register(email, password string) (Token, error)
}

type AuthService struct {
	userRepository repositories.IUserRepository
	issuer         *auth.TokenIssuer
	params         auth.Argon2Params
	autoProvision  bool
}

type Token string

func NewAuthService(repo repositories.IUserRepository, issuer *auth.TokenIssuer, params auth.Argon2Params, autoProvision bool) *AuthService {
	return &AuthService{userRepository: repo, issuer: issuer, params: params, autoProvision: autoProvision}
}

func (s *AuthService) Register(email, password string) (Token, error) {
	// Checked before any expensive cryptographic operation.
	if err := auth.ValidateNewAccount(auth.LoginRequest{Email: email, Password: password}); err != nil {
		return "", err
	}

	// The repository never sees plain passwords.
	hashedPassword, err := auth.HashPassword(password, s.params)
	if err != nil {
		return "", fmt.Errorf("hashing failed: %w", err)
	}

	userID, err := s.userRepository.CreateUser(email, hashedPassword)
	if err != nil {
		return "", err // Will propagate ErrUserAlreadyExists if email is taken
	}
	return s.token(userID, []string{"driver"})
}

// Login authenticates a known account. With auto provisioning on, an unknown
// email is registered on the spot.
func (s *AuthService) Login(email, password string) (Token, error) {
	if err := auth.ValidateLogin(auth.LoginRequest{Email: email, Password: password}); err != nil {
		return "", err
	}

	user, err := s.userRepository.GetUserByEmail(email)
	if errors.Is(err, errors.ErrNotFound) && s.autoProvision {
		return s.Register(email, password)
	}
	if err != nil {
		// Generic error to prevent user enumeration attacks
		return "", errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return "", errors.ErrInvalidCredentials
	}
	return s.token(user.ID, user.Roles)
}

func (s *AuthService) token(userID string, roles []string) (Token, error) {
	token, err := s.issuer.GenerateToken(userID, roles)
	if err != nil {
		return "", err
	}
	return Token(token), nil
}
