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
	ErrSupplierNotFound = apperr.NotFound("Supplier not found")
	ErrSupplierExists   = apperr.Conflict("A supplier with this name already exists").WithField("name")
	ErrSupplierInUse    = apperr.Conflict("Cannot delete supplier: it is being used by products")
)

type SupplierInput struct {
	Name        string  `json:"name" validate:"required,max=255"`
	ContactName *string `json:"contact_name" validate:"omitempty,max=255"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Phone       *string `json:"phone" validate:"omitempty,max=50"`
	Address     *string `json:"address"`
	Status      string  `json:"status" validate:"omitempty,oneof=active inactive"`
	Notes       *string `json:"notes"`
}

type SupplierService interface {
	List(ctx context.Context) ([]model.Supplier, error)
	Get(ctx context.Context, id uint) (*model.Supplier, error)
	Create(ctx context.Context, actor Actor, in SupplierInput) (*model.Supplier, error)
	Update(ctx context.Context, actor Actor, id uint, in SupplierInput) (*model.Supplier, error)
	Delete(ctx context.Context, actor Actor, id uint) error
}

type supplierService struct {
	store    repository.Store
	activity ActivityService
}

func NewSupplierService(store repository.Store, activity ActivityService) SupplierService {
	return &supplierService{store: store, activity: activity}
}

func (in *SupplierInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.ContactName = trimPtr(in.ContactName)
	in.Email = trimPtr(in.Email)
	in.Phone = trimPtr(in.Phone)
	in.Address = trimPtr(in.Address)
	in.Notes = trimPtr(in.Notes)
	if err := validate(in); err != nil {
		return err
	}
	if in.Status == "" {
		in.Status = model.StatusActive
	}
	return nil
}

func (in *SupplierInput) apply(sup *model.Supplier) {
	sup.Name = in.Name
	sup.ContactName = in.ContactName
	sup.Email = in.Email
	sup.Phone = in.Phone
	sup.Address = in.Address
	sup.Status = in.Status
	sup.Notes = in.Notes
}

func supplierWriteErr(err error) error {
	if errors.Is(err, repository.ErrDuplicateKey) {
		return ErrSupplierExists
	}
	return storeErr(err, ErrSupplierNotFound.Message)
}

func (s *supplierService) List(ctx context.Context) ([]model.Supplier, error) {
	suppliers, err := s.store.Suppliers().List(ctx)
	if err != nil {
		return nil, storeErr(err, "")
	}
	counts, err := s.store.Products().CountBySupplier(ctx)
	if err != nil {
		return nil, storeErr(err, "")
	}
	for i := range suppliers {
		suppliers[i].ProductsCount = counts[suppliers[i].Name]
	}
	return suppliers, nil
}

func (s *supplierService) Get(ctx context.Context, id uint) (*model.Supplier, error) {
	sup, err := s.store.Suppliers().FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, ErrSupplierNotFound.Message)
	}
	counts, err := s.store.Products().CountBySupplier(ctx)
	if err != nil {
		return nil, storeErr(err, "")
	}
	sup.ProductsCount = counts[sup.Name]
	return sup, nil
}

func (s *supplierService) Create(ctx context.Context, actor Actor, in SupplierInput) (*model.Supplier, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	sup := &model.Supplier{}
	in.apply(sup)
	if err := s.store.Suppliers().Create(ctx, sup); err != nil {
		return nil, supplierWriteErr(err)
	}

	s.activity.Record(ctx, newActivity(actor, model.ActionSupplierCreate,
		fmt.Sprintf("Supplier '%s' created", sup.Name), model.EntitySupplier, sup.ID, nil))
	return sup, nil
}

func (s *supplierService) Update(ctx context.Context, actor Actor, id uint, in SupplierInput) (*model.Supplier, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	sup, err := s.store.Suppliers().FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, ErrSupplierNotFound.Message)
	}
	in.apply(sup)
	if err := s.store.Suppliers().Update(ctx, sup); err != nil {
		return nil, supplierWriteErr(err)
	}

	s.activity.Record(ctx, newActivity(actor, model.ActionSupplierUpdate,
		fmt.Sprintf("Supplier '%s' updated", sup.Name), model.EntitySupplier, sup.ID, nil))
	return sup, nil
}

func (s *supplierService) Delete(ctx context.Context, actor Actor, id uint) error {
	sup, err := s.store.Suppliers().FindByID(ctx, id)
	if err != nil {
		return storeErr(err, ErrSupplierNotFound.Message)
	}
	counts, err := s.store.Products().CountBySupplier(ctx)
	if err != nil {
		return storeErr(err, "")
	}
	if counts[sup.Name] > 0 {
		return ErrSupplierInUse
	}
	if err := s.store.Suppliers().Delete(ctx, id); err != nil {
		return storeErr(err, ErrSupplierNotFound.Message)
	}

	s.activity.Record(ctx, newActivity(actor, model.ActionSupplierDelete,
		fmt.Sprintf("Supplier '%s' deleted", sup.Name), model.EntitySupplier, id, nil))
	return nil
}
