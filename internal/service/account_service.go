package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gadget-rental/internal/models"
	"gadget-rental/internal/redisclient"
	"gadget-rental/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AccountService handles registration, sessions and profiles
type AccountService struct {
	store    Store
	cache    Cache
	events   Publisher
	settings Settings
	logger   *zap.Logger
}

// NewAccountService creates a new account service
func NewAccountService(store Store, cache Cache, events Publisher, settings Settings) *AccountService {
	return &AccountService{
		store:    store,
		cache:    cache,
		events:   events,
		settings: settings,
		logger:   util.GetLogger(),
	}
}

// RegisterRequest is a new customer signing up
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone"`
}

// LoginRequest carries credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Session is an issued bearer token
type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// ProfileUpdate holds the fields a user may edit
type ProfileUpdate struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// HashPassword returns the bcrypt hash of a password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Register creates a customer account and announces it
func (s *AccountService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	ctx, span := util.StartSpan(ctx, "AccountService.Register")
	defer span.End()

	name, email := strings.TrimSpace(req.Name), strings.ToLower(strings.TrimSpace(req.Email))
	if name == "" || email == "" || req.Password == "" {
		return nil, invalid("name, email and password are required")
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Phone:        strings.TrimSpace(req.Phone),
		IsActive:     true,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		err = classify(err)
		if errors.Is(err, ErrConflict) {
			return nil, fmt.Errorf("%w: that email is already registered", ErrConflict)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered", zap.Int64("user_id", user.ID))

	if err := s.events.PublishUserRegistered(ctx, &models.UserRegisteredEvent{Recipient: recipient(user)}); err != nil {
		s.logger.Error("Failed to publish UserRegistered event", zap.Error(err))
	}
	return user, nil
}

// Login checks customer credentials and opens a session
func (s *AccountService) Login(ctx context.Context, req *LoginRequest) (*Session, error) {
	return s.login(ctx, req, false)
}

// AdminLogin is Login restricted to administrators
func (s *AccountService) AdminLogin(ctx context.Context, req *LoginRequest) (*Session, error) {
	return s.login(ctx, req, true)
}

func (s *AccountService) login(ctx context.Context, req *LoginRequest, adminOnly bool) (*Session, error) {
	ctx, span := util.StartSpan(ctx, "AccountService.Login")
	defer span.End()

	badCredentials := fmt.Errorf("%w: please check email and password", ErrUnauthorized)

	user, err := s.store.GetUserByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(classify(err), ErrNotFound) {
			return nil, badCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, badCredentials
	}
	if adminOnly && !user.IsAdmin {
		return nil, fmt.Errorf("%w: administrator access required", ErrForbidden)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account is deactivated", ErrForbidden)
	}

	token := uuid.New().String()
	if err := s.cache.CreateSession(ctx, token, user.ID, s.settings.SessionTTL); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("User logged in", zap.Int64("user_id", user.ID), zap.Bool("admin", adminOnly))
	return &Session{Token: token, User: user}, nil
}

// Logout revokes a session token
func (s *AccountService) Logout(ctx context.Context, token string) error {
	return s.cache.DeleteSession(ctx, token)
}

// Authenticate resolves a bearer token to an active user
func (s *AccountService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: missing token", ErrUnauthorized)
	}

	userID, err := s.cache.GetSession(ctx, token)
	if errors.Is(err, redisclient.ErrSessionNotFound) {
		return nil, fmt.Errorf("%w: session expired", ErrUnauthorized)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(classify(err), ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown user", ErrUnauthorized)
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account is deactivated", ErrForbidden)
	}
	return user, nil
}

// Profile returns a user's account
func (s *AccountService) Profile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	return user, classify(err)
}

// UpdateProfile saves a user's editable fields
func (s *AccountService) UpdateProfile(ctx context.Context, userID int64, req *ProfileUpdate) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, classify(err)
	}

	user.Name = strings.TrimSpace(req.Name)
	user.Email = strings.ToLower(strings.TrimSpace(req.Email))
	user.Phone = strings.TrimSpace(req.Phone)
	user.Address = strings.TrimSpace(req.Address)
	if user.Name == "" || user.Email == "" {
		return nil, invalid("name and email are required")
	}

	if err := s.store.UpdateProfile(ctx, user); err != nil {
		return nil, classify(err)
	}
	return user, nil
}

// ListCustomers returns every non-admin account
func (s *AccountService) ListCustomers(ctx context.Context) ([]models.User, error) {
	return s.store.ListCustomers(ctx)
}

// VerifyUser marks a customer verified. It is idempotent.
func (s *AccountService) VerifyUser(ctx context.Context, userID int64) error {
	changed, err := s.store.SetUserVerified(ctx, userID)
	if err != nil {
		return classify(err)
	}
	if changed {
		s.logger.Info("User verified", zap.Int64("user_id", userID))
	}
	return nil
}

// DeactivateUser stops a customer from logging in. Administrators cannot be deactivated.
func (s *AccountService) DeactivateUser(ctx context.Context, userID int64) error {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return classify(err)
	}
	if user.IsAdmin {
		return fmt.Errorf("%w: administrators cannot be deactivated", ErrForbidden)
	}

	changed, err := s.store.DeactivateUser(ctx, userID)
	if err != nil {
		return classify(err)
	}
	if changed {
		s.logger.Info("User deactivated", zap.Int64("user_id", userID))
	}
	return nil
}
