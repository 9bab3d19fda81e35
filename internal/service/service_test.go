package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"posbackend/internal/database"
	"posbackend/internal/logger"
	"posbackend/internal/model"
	"posbackend/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type notification struct {
	BusinessID uuid.UUID
	Entity     string
	EntityID   string
	Action     string
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []notification
}

func (n *fakeNotifier) NotifyTaxConfigChanged(businessID uuid.UUID, entity, entityID, action string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, notification{BusinessID: businessID, Entity: entity, EntityID: entityID, Action: action})
}

func (n *fakeNotifier) Events() []notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notification(nil), n.events...)
}

type failingOrderTaxRepo struct {
	repository.OrderTaxRepository
	calls int
	mu    sync.Mutex
}

func (r *failingOrderTaxRepo) ReplaceForOrder(context.Context, uuid.UUID, string, []model.OrderTax) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return errors.New("database unavailable")
}

type testEnv struct {
	db            *gorm.DB
	rateRepo      repository.TaxRateRepository
	exemptionRepo repository.TaxExemptionRepository
	orderTaxRepo  repository.OrderTaxRepository
	auditRepo     repository.AuditRepository
	txManager     repository.TransactionManager
	catalog       TaxCatalog
	notifier      *fakeNotifier
	taxService    TaxService
	orderService  OrderTaxService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	env := &testEnv{
		db:            db,
		rateRepo:      repository.NewTaxRateRepository(db),
		exemptionRepo: repository.NewTaxExemptionRepository(db),
		orderTaxRepo:  repository.NewOrderTaxRepository(db),
		auditRepo:     repository.NewAuditRepository(db),
		txManager:     repository.NewTransactionManager(db),
		notifier:      &fakeNotifier{},
	}
	env.catalog = NewTaxCatalog(env.rateRepo, env.exemptionRepo, time.Minute, logger.Nop())
	env.taxService = NewTaxService(env.rateRepo, env.exemptionRepo, env.auditRepo, env.catalog, env.notifier, logger.Nop())
	env.orderService = NewOrderTaxService(env.catalog, env.orderTaxRepo, env.txManager, time.Second, logger.Nop())
	return env
}

func boolPtr(b bool) *bool {
	return &b
}
