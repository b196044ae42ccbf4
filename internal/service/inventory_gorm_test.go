package service

import (
	"context"
	"io"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"shopflow/internal/apperr"
	"shopflow/internal/config"
	"shopflow/internal/metrics"
	"shopflow/internal/model"
	"shopflow/internal/repository"
)

const (
	sqlSelectProduct          = `SELECT * FROM "products" WHERE id = $1 ORDER BY "products"."id" LIMIT $2`
	sqlSelectProductForUpdate = sqlSelectProduct + ` FOR UPDATE`
	sqlUpdateQuantity         = `UPDATE "products" SET "quantity"=$1,"updated_at"=NOW() WHERE id = $2`
	sqlInsertMovement         = `INSERT INTO "stock_movements" ("product_id","user_id","sale_id","quantity","reason","quantity_before","quantity_after","created_at") VALUES ($1,$2,$3,$4,$5,$6,$7,$8) RETURNING "id"`
)

type sqlEnv struct {
	mock      sqlmock.Sqlmock
	events    *mockPublisher
	inventory InventoryService
}

// newSQLEnv wires the inventory service to the gorm store over a mocked connection.
func newSQLEnv(t *testing.T, policy string) *sqlEnv {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = sqlDB.Close()
	})

	log := logrus.New()
	log.SetOutput(io.Discard)

	store := repository.NewStore(db)
	events := &mockPublisher{}
	activity := NewActivityService(store, log)
	inventory := NewInventoryService(store, NewLedger(policy), activity, events, metrics.New(), log, InventoryConfig{})
	return &sqlEnv{mock: mock, events: events, inventory: inventory}
}

func productRow(id, qty int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "sku", "quantity", "low_stock_threshold"}).
		AddRow(id, "Widget", "WID-1", qty, 10)
}

func TestAdjustStockOverSQL(t *testing.T) {
	ctx := context.Background()

	t.Run("quantity and movement commit together", func(t *testing.T) {
		env := newSQLEnv(t, config.StockPolicyReject)
		mock := env.mock

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(sqlSelectProductForUpdate)).WithArgs(1, 1).WillReturnRows(productRow(1, 5))
		mock.ExpectExec(regexp.QuoteMeta(sqlUpdateQuantity)).WithArgs(2, 1).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(regexp.QuoteMeta(sqlInsertMovement)).
			WithArgs(1, nil, nil, -3, model.ReasonManualAdjustment, 5, 2, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
		mock.ExpectCommit()

		mock.ExpectQuery(regexp.QuoteMeta(sqlSelectProduct)).WithArgs(1, 1).WillReturnRows(productRow(1, 2))
		mock.ExpectBegin()
		mock.ExpectQuery(`^INSERT INTO "activity_logs" `).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectCommit()

		result, err := env.inventory.AdjustStock(ctx, admin, 1, -3, "")
		require.NoError(t, err)
		assert.Equal(t, 2, result.Product.Quantity)
		assert.Equal(t, uint(11), result.Movement.ID)
		assert.Equal(t, "Stock decreased by 3", result.Message)
		assert.Equal(t, []string{EventStockUpdate}, env.events.names())
	})

	t.Run("failed movement insert rolls back", func(t *testing.T) {
		env := newSQLEnv(t, config.StockPolicyReject)
		mock := env.mock

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(sqlSelectProductForUpdate)).WithArgs(1, 1).WillReturnRows(productRow(1, 5))
		mock.ExpectExec(regexp.QuoteMeta(sqlUpdateQuantity)).WithArgs(8, 1).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(regexp.QuoteMeta(sqlInsertMovement)).
			WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "stock_movements_product_id_fkey"})
		mock.ExpectRollback()

		_, err := env.inventory.AdjustStock(ctx, admin, 1, 3, "")
		require.Error(t, err)
		assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
		assert.Empty(t, env.events.names())
	})

	t.Run("reject policy writes nothing", func(t *testing.T) {
		env := newSQLEnv(t, config.StockPolicyReject)
		mock := env.mock

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(sqlSelectProductForUpdate)).WithArgs(1, 1).WillReturnRows(productRow(1, 2))
		mock.ExpectRollback()

		_, err := env.inventory.AdjustStock(ctx, admin, 1, -3, "")
		assert.ErrorIs(t, err, ErrInsufficientStock)
	})

	t.Run("clamp floors at zero", func(t *testing.T) {
		env := newSQLEnv(t, config.StockPolicyClamp)
		mock := env.mock

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(sqlSelectProductForUpdate)).WithArgs(1, 1).WillReturnRows(productRow(1, 2))
		mock.ExpectExec(regexp.QuoteMeta(sqlUpdateQuantity)).WithArgs(0, 1).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(regexp.QuoteMeta(sqlInsertMovement)).
			WithArgs(1, nil, nil, -2, model.ReasonSale, 2, 0, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))
		mock.ExpectCommit()

		mock.ExpectQuery(regexp.QuoteMeta(sqlSelectProduct)).WithArgs(1, 1).WillReturnRows(productRow(1, 0))
		mock.ExpectBegin()
		mock.ExpectQuery(`^INSERT INTO "activity_logs" `).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
		mock.ExpectCommit()

		result, err := env.inventory.AdjustStock(ctx, admin, 1, -5, model.ReasonSale)
		require.NoError(t, err)
		assert.Equal(t, 0, result.Product.Quantity)
		assert.Equal(t, -2, result.Movement.Quantity)
	})

	t.Run("missing product", func(t *testing.T) {
		env := newSQLEnv(t, config.StockPolicyReject)
		mock := env.mock

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(sqlSelectProductForUpdate)).WithArgs(99, 1).WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		_, err := env.inventory.AdjustStock(ctx, admin, 99, 1, "")
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})
}
