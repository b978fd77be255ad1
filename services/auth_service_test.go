package services_test

import (
	"eyesup/auth"
	"eyesup/errors"
	"eyesup/mocks"
	"eyesup/repositories"
	"eyesup/services"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var testParams = auth.Argon2Params{Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func newAuthService(repo repositories.IUserRepository, autoProvision bool) *services.AuthService {
	return services.NewAuthService(repo, auth.NewTokenIssuer("test-secret", 24*time.Hour), testParams, autoProvision)
}

func TestAuthService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockIUserRepository(ctrl)
	svc := newAuthService(mockRepo, false)

	t.Run("should register successfully when input is valid", func(t *testing.T) {
		req := require.New(t)
		email := "driver@example.com"
		password := "ComplexPass123!"

		// Expect CreateUser to be called with a hashed password (not the plain one)
		mockRepo.EXPECT().
			CreateUser(email, gomock.Not(password)).
			Return("user-uuid", nil).
			Times(1)

		token, err := svc.Register(email, password)

		req.NoError(err)
		req.NotEmpty(token)
	})

	t.Run("should fail when password complexity is not met", func(t *testing.T) {
		req := require.New(t)

		// Repository should NEVER be called
		mockRepo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Times(0)

		token, err := svc.Register("driver@example.com", "simplepassword")

		req.ErrorIs(err, errors.ErrValidation)
		req.Empty(token)
	})

	t.Run("should fail when user already exists in repository", func(t *testing.T) {
		req := require.New(t)
		email := "duplicate@example.com"

		mockRepo.EXPECT().
			CreateUser(email, gomock.Any()).
			Return("", errors.ErrUserAlreadyExists).
			Times(1)

		_, err := svc.Register(email, "ComplexPass123!")

		req.ErrorIs(err, errors.ErrUserAlreadyExists)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	password := "ComplexPass123!"
	hash, err := auth.HashPassword(password, testParams)
	require.NoError(t, err)

	t.Run("should login a known user", func(t *testing.T) {
		req := require.New(t)
		mockRepo := mocks.NewMockIUserRepository(ctrl)
		mockRepo.EXPECT().GetUserByEmail("driver@example.com").
			Return(repositories.User{ID: "u1", PasswordHash: hash, Roles: []string{"driver"}}, nil)

		token, err := newAuthService(mockRepo, true).Login("driver@example.com", password)
		req.NoError(err)
		req.NotEmpty(token)
	})

	t.Run("should reject a wrong password", func(t *testing.T) {
		req := require.New(t)
		mockRepo := mocks.NewMockIUserRepository(ctrl)
		mockRepo.EXPECT().GetUserByEmail(gomock.Any()).
			Return(repositories.User{ID: "u1", PasswordHash: hash}, nil)

		_, err := newAuthService(mockRepo, true).Login("driver@example.com", "WrongPass123!")
		req.ErrorIs(err, errors.ErrInvalidCredentials)
	})

	t.Run("should provision an unknown email", func(t *testing.T) {
		req := require.New(t)
		mockRepo := mocks.NewMockIUserRepository(ctrl)
		mockRepo.EXPECT().GetUserByEmail("new@example.com").Return(repositories.User{}, errors.ErrNotFound)
		mockRepo.EXPECT().CreateUser("new@example.com", gomock.Any()).Return("u2", nil)

		token, err := newAuthService(mockRepo, true).Login("new@example.com", password)
		req.NoError(err)
		req.NotEmpty(token)
	})

	t.Run("should not provision when disabled", func(t *testing.T) {
		req := require.New(t)
		mockRepo := mocks.NewMockIUserRepository(ctrl)
		mockRepo.EXPECT().GetUserByEmail(gomock.Any()).Return(repositories.User{}, errors.ErrNotFound)
		mockRepo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Times(0)

		_, err := newAuthService(mockRepo, false).Login("new@example.com", password)
		req.ErrorIs(err, errors.ErrInvalidCredentials)
	})

	t.Run("should reject malformed input before any lookup", func(t *testing.T) {
		req := require.New(t)
		mockRepo := mocks.NewMockIUserRepository(ctrl)
		mockRepo.EXPECT().GetUserByEmail(gomock.Any()).Times(0)

		_, err := newAuthService(mockRepo, true).Login("not-an-email", password)
		req.ErrorIs(err, errors.ErrValidation)
	})
}
