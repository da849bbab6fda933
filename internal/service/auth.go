package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"moodlog/internal/models"
	"moodlog/internal/store"
)

// AuthService handles registration, credential checks, token issuance and
// profile reads/edits.
type AuthService struct {
	users      store.UserRepository
	jwtSecret  []byte
	tokenTTL   time.Duration
	bcryptCost int
	logger     *zap.Logger
}

func NewAuthService(users store.UserRepository, jwtSecret []byte, tokenTTL time.Duration, bcryptCost int, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:      users,
		jwtSecret:  jwtSecret,
		tokenTTL:   tokenTTL,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Register creates a user and returns a fresh session token. A duplicate
// email surfaces as store.ErrEmailTaken.
func (s *AuthService) Register(ctx context.Context, email, password string, name *string) (string, models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", models.User{}, fmt.Errorf("%w: email and password are required", ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", models.User{}, fmt.Errorf("%w: malformed email address", ErrValidation)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, email, name, string(hashed))
	if err != nil {
		return "", models.User{}, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", models.User{}, err
	}
	s.logger.Info("user registered", zap.String("user_id", user.ID.String()))
	return token, user, nil
}

// Login verifies credentials and returns a fresh session token. The unknown
// email and wrong password cases are indistinguishable to the caller; a
// dummy hash comparison keeps the timing of both paths close.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", models.User{}, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return "", models.User{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", models.User{}, ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", models.User{}, err
	}
	return token, user, nil
}

// Profile returns the caller's own user record.
func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (models.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfile replaces the caller's display name.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, name *string) (models.User, error) {
	if name != nil && *name == "" {
		name = nil
	}
	return s.users.UpdateName(ctx, userID, name)
}

func (s *AuthService) issueToken(user models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// dummyHash is compared against when the email is unknown, so failed logins
// cost roughly the same whether or not the account exists.
var dummyHash = func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("moodlog-dummy-password"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return h
}()
