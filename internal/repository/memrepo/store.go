// Package memrepo is an in-memory repository.Store. Transactions are
// serialized and roll back by restoring a snapshot, so a failed unit of work
// leaves no partial writes behind.
package memrepo

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"shopflow/internal/model"
	"shopflow/internal/repository"
)

// ErrCheckViolation mirrors a failed CHECK constraint.
var ErrCheckViolation = errors.New("check constraint violated")

type tables struct {
	products   map[uint]model.Product
	categories map[uint]model.Category
	movements  []model.StockMovement
	sales      []model.Sale
	activities []model.ActivityLog
	suppliers  map[uint]model.Supplier
	users      map[uint]model.User
	settings   map[string]model.Setting
	seq        map[string]uint
}

func newTables() *tables {
	return &tables{
		products:   map[uint]model.Product{},
		categories: map[uint]model.Category{},
		suppliers:  map[uint]model.Supplier{},
		users:      map[uint]model.User{},
		settings:   map[string]model.Setting{},
		seq:        map[string]uint{},
	}
}

func (t *tables) clone() *tables {
	c := &tables{
		products:   make(map[uint]model.Product, len(t.products)),
		categories: make(map[uint]model.Category, len(t.categories)),
		movements:  append([]model.StockMovement(nil), t.movements...),
		sales:      append([]model.Sale(nil), t.sales...),
		activities: append([]model.ActivityLog(nil), t.activities...),
		suppliers:  make(map[uint]model.Supplier, len(t.suppliers)),
		users:      make(map[uint]model.User, len(t.users)),
		settings:   make(map[string]model.Setting, len(t.settings)),
		seq:        make(map[string]uint, len(t.seq)),
	}
	for k, v := range t.products {
		c.products[k] = v
	}
	for k, v := range t.categories {
		c.categories[k] = v
	}
	for k, v := range t.suppliers {
		c.suppliers[k] = v
	}
	for k, v := range t.users {
		c.users[k] = v
	}
	for k, v := range t.settings {
		c.settings[k] = v
	}
	for k, v := range t.seq {
		c.seq[k] = v
	}
	return c
}

func (t *tables) next(table string) uint {
	t.seq[table]++
	return t.seq[table]
}

type state struct {
	txMu   sync.Mutex // held for the whole of a transaction or a single statement
	mu     sync.Mutex
	data   *tables
	faults map[string]error
	now    func() time.Time
}

// Store implements repository.Store in memory.
type Store struct {
	st *state
	tx bool
}

var _ repository.Store = (*Store)(nil)

func New() *Store {
	return &Store{st: &state{
		data:   newTables(),
		faults: map[string]error{},
		now:    time.Now,
	}}
}

// FailOn makes every call of op return err until ClearFaults.
// op is "<table>.<method>", for example "movements.create".
func (s *Store) FailOn(op string, err error) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	s.st.faults[op] = err
}

func (s *Store) ClearFaults() {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	s.st.faults = map[string]error{}
}

// SetClock replaces the time source used for timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	s.st.now = now
}

func (s *Store) lock() {
	if !s.tx {
		s.st.txMu.Lock()
	}
	s.st.mu.Lock()
}

func (s *Store) unlock() {
	s.st.mu.Unlock()
	if !s.tx {
		s.st.txMu.Unlock()
	}
}

// begin locks the store for one statement. It fails with the fault injected
// for op, if any, in which case the lock is already released.
func (s *Store) begin(op string) (release func(), err error) {
	s.lock()
	if err := s.st.faults[op]; err != nil {
		s.unlock()
		return nil, errors.WithStack(err)
	}
	return s.unlock, nil
}

func (s *Store) Products() repository.ProductRepository    { return &productRepo{s} }
func (s *Store) Categories() repository.CategoryRepository { return &categoryRepo{s} }
func (s *Store) Movements() repository.MovementRepository  { return &movementRepo{s} }
func (s *Store) Sales() repository.SaleRepository          { return &saleRepo{s} }
func (s *Store) Activities() repository.ActivityRepository { return &activityRepo{s} }
func (s *Store) Suppliers() repository.SupplierRepository  { return &supplierRepo{s} }
func (s *Store) Users() repository.UserRepository          { return &userRepo{s} }
func (s *Store) Settings() repository.SettingRepository    { return &settingRepo{s} }

func (s *Store) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	if s.tx {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.st.txMu.Lock()
	defer s.st.txMu.Unlock()

	s.st.mu.Lock()
	snapshot := s.st.data.clone()
	s.st.mu.Unlock()

	if err := fn(&Store{st: s.st, tx: true}); err != nil {
		s.st.mu.Lock()
		s.st.data = snapshot
		s.st.mu.Unlock()
		return err
	}
	return nil
}

func notFound() error {
	return errors.WithStack(repository.ErrNotFound)
}

func duplicate(constraint string) error {
	return repository.NewConstraintError(repository.ErrDuplicateKey, constraint)
}

func referenced(constraint string) error {
	return repository.NewConstraintError(repository.ErrReferenced, constraint)
}
