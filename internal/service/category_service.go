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
	ErrCategoryMissing = apperr.NotFound("Category not found")
	ErrCategoryExists  = apperr.Conflict("A category with this name already exists").WithField("name")
	ErrCategoryInUse   = apperr.Conflict("Cannot delete category: it is being used by products")
)

type CategoryInput struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description"`
	Color       string  `json:"color" validate:"omitempty,hexcolor,len=7"`
}

type CategoryService interface {
	List(ctx context.Context) ([]model.Category, error)
	Get(ctx context.Context, id uint) (*model.Category, error)
	Create(ctx context.Context, actor Actor, in CategoryInput) (*model.Category, error)
	Update(ctx context.Context, actor Actor, id uint, in CategoryInput) (*model.Category, error)
	Delete(ctx context.Context, actor Actor, id uint) error
}

type categoryService struct {
	store    repository.Store
	activity ActivityService
}

func NewCategoryService(store repository.Store, activity ActivityService) CategoryService {
	return &categoryService{store: store, activity: activity}
}

func categoryWriteErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateKey):
		return ErrCategoryExists
	case errors.Is(err, repository.ErrReferenced):
		return ErrCategoryInUse
	}
	return storeErr(err, ErrCategoryMissing.Message)
}

func (in *CategoryInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Color = strings.TrimSpace(in.Color)
	in.Description = trimPtr(in.Description)
	if err := validate(in); err != nil {
		return err
	}
	if in.Color == "" {
		in.Color = model.DefaultCategoryColor
	}
	return nil
}

func (s *categoryService) List(ctx context.Context) ([]model.Category, error) {
	categories, err := s.store.Categories().List(ctx)
	return categories, storeErr(err, "")
}

func (s *categoryService) Get(ctx context.Context, id uint) (*model.Category, error) {
	category, err := s.store.Categories().FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, ErrCategoryMissing.Message)
	}
	return category, nil
}

func (s *categoryService) Create(ctx context.Context, actor Actor, in CategoryInput) (*model.Category, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	category := &model.Category{Name: in.Name, Description: in.Description, Color: in.Color}
	if err := s.store.Categories().Create(ctx, category); err != nil {
		return nil, categoryWriteErr(err)
	}

	s.activity.Record(ctx, newActivity(actor, model.ActionCategoryCreate,
		fmt.Sprintf("Category '%s' created", category.Name), model.EntityCategory, category.ID, nil))
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, actor Actor, id uint, in CategoryInput) (*model.Category, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	category, err := s.store.Categories().FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, ErrCategoryMissing.Message)
	}
	category.Name = in.Name
	category.Description = in.Description
	category.Color = in.Color
	if err := s.store.Categories().Update(ctx, category); err != nil {
		return nil, categoryWriteErr(err)
	}

	s.activity.Record(ctx, newActivity(actor, model.ActionCategoryUpdate,
		fmt.Sprintf("Category '%s' updated", category.Name), model.EntityCategory, category.ID, nil))
	return category, nil
}

func (s *categoryService) Delete(ctx context.Context, actor Actor, id uint) error {
	category, err := s.store.Categories().FindByID(ctx, id)
	if err != nil {
		return storeErr(err, ErrCategoryMissing.Message)
	}
	if err := s.store.Categories().Delete(ctx, id); err != nil {
		return categoryWriteErr(err)
	}

	s.activity.Record(ctx, newActivity(actor, model.ActionCategoryDelete,
		fmt.Sprintf("Category '%s' deleted", category.Name), model.EntityCategory, id, nil))
	return nil
}
