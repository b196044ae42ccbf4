package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories that may take part in one unit of work.
type Store interface {
	Products() ProductRepository
	Categories() CategoryRepository
	Movements() MovementRepository
	Sales() SaleRepository
	Activities() ActivityRepository
	Suppliers() SupplierRepository
	Users() UserRepository
	Settings() SettingRepository

	// Transaction runs fn against a Store bound to one database transaction.
	// Any error returned by fn rolls back every write made through tx.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db}
}

func (s *gormStore) Products() ProductRepository    { return NewProductRepo(s.db) }
func (s *gormStore) Categories() CategoryRepository { return NewCategoryRepo(s.db) }
func (s *gormStore) Movements() MovementRepository  { return NewMovementRepo(s.db) }
func (s *gormStore) Sales() SaleRepository          { return NewSaleRepo(s.db) }
func (s *gormStore) Activities() ActivityRepository { return NewActivityRepo(s.db) }
func (s *gormStore) Suppliers() SupplierRepository  { return NewSupplierRepo(s.db) }
func (s *gormStore) Users() UserRepository          { return NewUserRepo(s.db) }
func (s *gormStore) Settings() SettingRepository    { return NewSettingRepo(s.db) }

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{tx})
	})
}
