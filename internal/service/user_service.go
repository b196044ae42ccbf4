package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shopflow/internal/apperr"
	"shopflow/internal/model"
	"shopflow/internal/repository"
)

var (
	ErrUserNotFound   = apperr.NotFound("User not found")
	ErrDeleteYourself = apperr.Validation("You cannot delete your own account")
)

type UserService interface {
	List(ctx context.Context) ([]model.User, error)
	Get(ctx context.Context, id uint) (*model.User, error)
	Create(ctx context.Context, actor Actor, in CreateUserInput) (*model.User, error)
	Update(ctx context.Context, actor Actor, id uint, in UpdateUserInput) (*model.User, error)
	Delete(ctx context.Context, actor Actor, id uint) error
	// EnsureAdmin creates the bootstrap administrator when the email is unknown.
	EnsureAdmin(ctx context.Context, name, email, password string) (bool, error)
}

type CreateUserInput struct {
	Name      string  `json:"name" validate:"required,max=255"`
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=6"`
	Role      string  `json:"role" validate:"omitempty,oneof=admin user"`
	Status    string  `json:"status" validate:"omitempty,oneof=active inactive"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url"`
}

type UpdateUserInput struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=255"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Password  *string `json:"password,omitempty" validate:"omitempty,min=6"` // Optional
	Role      *string `json:"role" validate:"omitempty,oneof=admin user"`
	Status    *string `json:"status" validate:"omitempty,oneof=active inactive"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url"`
}

type userService struct {
	store    repository.Store
	activity ActivityService
}

func NewUserService(store repository.Store, activity ActivityService) UserService {
	return &userService{store: store, activity: activity}
}

func userWriteErr(err error) error {
	if errors.Is(err, repository.ErrDuplicateKey) {
		return ErrEmailExists
	}
	return storeErr(err, ErrUserNotFound.Message)
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.store.Users().List(ctx)
	return users, storeErr(err, "")
}

func (s *userService) Get(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, ErrUserNotFound.Message)
	}
	return user, nil
}

func (s *userService) Create(ctx context.Context, actor Actor, in CreateUserInput) (*model.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := validate(in); err != nil {
		return nil, err
	}

	user := &model.User{
		Name:      in.Name,
		Email:     in.Email,
		Role:      in.Role,
		Status:    in.Status,
		AvatarURL: trimPtr(in.AvatarURL),
	}
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	if user.Status == "" {
		user.Status = model.StatusActive
	}
	if err := user.SetPassword(in.Password); err != nil {
		return nil, apperr.Internal("Failed to hash password", err)
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		return nil, userWriteErr(err)
	}

	s.activity.Record(ctx, newActivity(actor, model.ActionUserCreate,
		fmt.Sprintf("User '%s' created", user.Email), model.EntityUser, user.ID,
		map[string]interface{}{"role": user.Role}))
	return user, nil
}

func (s *userService) Update(ctx context.Context, actor Actor, id uint, in UpdateUserInput) (*model.User, error) {
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		in.Email = &email
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		in.Name = &name
	}
	if err := validate(in); err != nil {
		return nil, err
	}

	user, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, ErrUserNotFound.Message)
	}

	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.Role != nil {
		user.Role = *in.Role
	}
	if in.Status != nil {
		user.Status = *in.Status
	}
	if in.AvatarURL != nil {
		user.AvatarURL = trimPtr(in.AvatarURL)
	}
	if in.Password != nil && *in.Password != "" {
		if err := user.SetPassword(*in.Password); err != nil {
			return nil, apperr.Internal("Failed to hash password", err)
		}
	}

	if err := s.store.Users().Update(ctx, user); err != nil {
		return nil, userWriteErr(err)
	}

	s.activity.Record(ctx, newActivity(actor, model.ActionUserUpdate,
		fmt.Sprintf("User '%s' updated", user.Email), model.EntityUser, user.ID, nil))
	return user, nil
}

func (s *userService) Delete(ctx context.Context, actor Actor, id uint) error {
	if actor.ID == id {
		return ErrDeleteYourself
	}
	user, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		return storeErr(err, ErrUserNotFound.Message)
	}
	if err := s.store.Users().Delete(ctx, id); err != nil {
		return storeErr(err, ErrUserNotFound.Message)
	}

	s.activity.Record(ctx, newActivity(actor, model.ActionUserDelete,
		fmt.Sprintf("User '%s' deleted", user.Email), model.EntityUser, id, nil))
	return nil
}

func (s *userService) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	email = normalizeEmail(email)
	_, err := s.store.Users().FindByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, storeErr(err, "")
	}

	admin := &model.User{
		Name:   name,
		Email:  email,
		Role:   model.RoleAdmin,
		Status: model.StatusActive,
	}
	if err := admin.SetPassword(password); err != nil {
		return false, apperr.Internal("Failed to hash password", err)
	}
	if err := s.store.Users().Create(ctx, admin); err != nil {
		return false, userWriteErr(err)
	}
	return true, nil
}
