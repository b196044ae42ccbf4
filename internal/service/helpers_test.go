package service

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"shopflow/internal/config"
	"shopflow/internal/metrics"
	"shopflow/internal/model"
	"shopflow/internal/money"
	"shopflow/internal/repository"
	"shopflow/internal/repository/memrepo"
	"shopflow/pkg/jwt"
)

type publishedEvent struct {
	name    string
	payload interface{}
}

type mockPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (m *mockPublisher) Publish(event string, payload interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, publishedEvent{event, payload})
}

func (m *mockPublisher) names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.events))
	for _, e := range m.events {
		names = append(names, e.name)
	}
	return names
}

func (m *mockPublisher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}

type testEnv struct {
	store     *memrepo.Store
	metrics   *metrics.Metrics
	events    *mockPublisher
	ledger    *Ledger
	activity  ActivityService
	inventory InventoryService
	alerts    AlertService
	sales     SaleService
	auth      AuthService
	users     UserService
	tokens    *jwt.Manager
}

func setup(t *testing.T, policy string) *testEnv {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	env := &testEnv{
		store:   memrepo.New(),
		metrics: metrics.New(),
		events:  &mockPublisher{},
		ledger:  NewLedger(policy),
		tokens:  jwt.NewManager("test-secret", 7*24*time.Hour),
	}
	env.activity = NewActivityService(env.store, log)
	env.inventory = NewInventoryService(env.store, env.ledger, env.activity, env.events, env.metrics, log, InventoryConfig{})
	env.alerts = NewAlertService(env.store, env.metrics)
	env.sales = NewSaleService(env.store, env.ledger, env.activity, env.events, env.metrics)
	env.auth = NewAuthService(env.store, env.tokens, env.activity, log)
	env.users = NewUserService(env.store, env.activity)
	return env
}

func setupReject(t *testing.T) *testEnv { return setup(t, config.StockPolicyReject) }

var admin = Actor{ID: 0, Email: "system", Role: model.RoleAdmin}

func (e *testEnv) createProduct(t *testing.T, sku string, qty int, threshold int) *model.Product {
	t.Helper()
	price := money.Amount(1999)
	p, err := e.inventory.CreateProduct(context.Background(), admin, ProductInput{
		Name:              "Product " + sku,
		SKU:               sku,
		Quantity:          qty,
		Price:             &price,
		LowStockThreshold: &threshold,
	})
	require.NoError(t, err)
	return p
}

func (e *testEnv) quantity(t *testing.T, id uint) int {
	t.Helper()
	p, err := e.store.Products().FindByID(context.Background(), id)
	require.NoError(t, err)
	return p.Quantity
}

func (e *testEnv) movements(t *testing.T, id uint) []model.StockMovement {
	t.Helper()
	ms, err := e.store.Movements().List(context.Background(), repository.MovementFilter{ProductID: &id})
	require.NoError(t, err)
	return ms
}

func ledgerSum(ms []model.StockMovement) int {
	sum := 0
	for _, m := range ms {
		sum += m.Quantity
	}
	return sum
}
