package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"shopflow/internal/apperr"
	"shopflow/internal/model"
	"shopflow/internal/repository"
	"shopflow/pkg/jwt"
)

var (
	ErrInvalidCredentials = apperr.Unauthorized("Invalid credentials")
	ErrUserInactive       = apperr.Unauthorized("Account is inactive")
	ErrInvalidToken       = apperr.Unauthorized("Invalid or expired token")
	ErrMissingToken       = apperr.Unauthorized("Authentication required")
	ErrWrongPassword      = apperr.Validation("Current password is incorrect").WithField("current_password")
	ErrEmailExists        = apperr.Conflict("Email already exists").WithField("email")
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	Register(ctx context.Context, in RegisterInput) (*LoginResponse, error)
	Me(ctx context.Context, userID uint) (*model.User, error)
	ChangePassword(ctx context.Context, userID uint, in ChangePasswordInput) error
	// ValidateToken verifies signature and expiry and that the user still
	// exists and is active.
	ValidateToken(ctx context.Context, token string) (*model.User, *jwt.Claims, error)
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

type LoginResponse struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expires_at"`
	User      model.UserResponse `json:"user"`
}

type authService struct {
	store    repository.Store
	tokens   *jwt.Manager
	activity ActivityService
	log      logrus.FieldLogger
}

func NewAuthService(store repository.Store, tokens *jwt.Manager, activity ActivityService, log logrus.FieldLogger) AuthService {
	return &authService{
		store:    store,
		tokens:   tokens,
		activity: activity,
		log:      log,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperr.Validation("Email and password are required")
	}

	// 1. Find user by email
	user, err := s.store.Users().FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, storeErr(err, "")
	}

	// 2. Verify password
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	// 3. Check if user is active
	if !user.IsActive() {
		return nil, ErrUserInactive
	}

	// 4. Issue token
	resp, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	if err := s.store.Users().UpdateLastLogin(ctx, user.ID); err != nil {
		s.log.WithError(err).WithField("user_id", user.ID).Warn("failed to update last login")
	} else {
		now := time.Now()
		resp.User.LastLogin = &now
	}

	s.activity.Record(ctx, newActivity(Actor{ID: user.ID}, model.ActionLogin,
		user.Name+" logged in", model.EntityUser, user.ID, nil))

	return resp, nil
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*LoginResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := validate(in); err != nil {
		return nil, err
	}

	user := &model.User{
		Name:   in.Name,
		Email:  in.Email,
		Role:   model.RoleUser,
		Status: model.StatusActive,
	}
	if err := user.SetPassword(in.Password); err != nil {
		return nil, apperr.Internal("Failed to hash password", err)
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, storeErr(err, "")
	}

	s.activity.Record(ctx, newActivity(Actor{ID: user.ID}, model.ActionUserCreate,
		user.Name+" registered", model.EntityUser, user.ID, nil))

	return s.issue(user)
}

func (s *authService) issue(user *model.User) (*LoginResponse, error) {
	token, expiresAt, err := s.tokens.Generate(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, apperr.Internal("Failed to generate token", err)
	}
	return &LoginResponse{Token: token, ExpiresAt: expiresAt, User: user.ToResponse()}, nil
}

func (s *authService) Me(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "User not found")
	}
	return user, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID uint, in ChangePasswordInput) error {
	if err := validate(in); err != nil {
		return err
	}

	user, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		return storeErr(err, "User not found")
	}
	if !user.CheckPassword(in.CurrentPassword) {
		return ErrWrongPassword
	}
	if err := user.SetPassword(in.NewPassword); err != nil {
		return apperr.Internal("Failed to hash password", err)
	}
	return storeErr(s.store.Users().Update(ctx, user), "User not found")
}

func (s *authService) ValidateToken(ctx context.Context, token string) (*model.User, *jwt.Claims, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		if errors.Is(err, jwt.ErrMissingToken) {
			return nil, nil, ErrMissingToken
		}
		return nil, nil, ErrInvalidToken
	}

	user, err := s.store.Users().FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrInvalidToken
		}
		return nil, nil, storeErr(err, "")
	}
	if !user.IsActive() {
		return nil, nil, ErrUserInactive
	}
	return user, claims, nil
}
