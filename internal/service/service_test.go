package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"worksync/internal/cache"
	"worksync/internal/database"
	"worksync/internal/events"
	"worksync/internal/model"
	"worksync/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Event)
	}
	return out
}

type countingCache struct {
	cache.NopProductCache
	invalidations int
}

func (c *countingCache) Invalidate(context.Context) error {
	c.invalidations++
	return nil
}

type fixture struct {
	db          *gorm.DB
	requests    repository.RequestRepository
	products    repository.ProductRepository
	suggestions repository.SuggestionRepository
	users       repository.UserRepository
	audit       repository.AuditRepository
	tx          repository.TransactionManager
	cache       *countingCache
	events      *recordingPublisher

	admin    Actor
	employee Actor
	other    Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	f := &fixture{
		db:          db,
		requests:    repository.NewRequestRepository(db),
		products:    repository.NewProductRepository(db),
		suggestions: repository.NewSuggestionRepository(db),
		users:       repository.NewUserRepository(db),
		audit:       repository.NewAuditRepository(db),
		tx:          repository.NewTransactionManager(db),
		cache:       &countingCache{},
		events:      &recordingPublisher{},
	}
	f.admin = f.addUser(t, "alice", "Alice", model.RoleAdmin)
	f.employee = f.addUser(t, "bob", "Bob", model.RoleEmployee)
	f.other = f.addUser(t, "carol", "", model.RoleEmployee)
	return f
}

func (f *fixture) addUser(t *testing.T, username, firstName, role string) Actor {
	t.Helper()
	u := &model.User{Username: username, FirstName: firstName, Password: "x", Role: role}
	require.NoError(t, f.users.Create(context.Background(), u))
	return Actor{ID: u.ID, Role: role}
}

func (f *fixture) addProduct(t *testing.T, title, price string, stock int) *model.Product {
	t.Helper()
	p := &model.Product{Title: title, Price: decimal.RequireFromString(price), Stock: stock}
	require.NoError(t, f.products.Create(context.Background(), p))
	return p
}

func (f *fixture) requestService() RequestService {
	return NewRequestService(f.requests, f.products, f.users, f.audit, f.tx, f.cache, f.events)
}

func (f *fixture) suggestionService() SuggestionService {
	return NewSuggestionService(f.suggestions, f.users, f.audit, f.tx, f.events)
}

func (f *fixture) inventoryService() InventoryService {
	return NewInventoryService(f.products, f.audit, f.tx, f.cache, f.events)
}

func (f *fixture) userService() UserService {
	return NewUserService(repository.NewUserRepository(f.db), repository.NewAPIKeyRepository(f.db), f.audit, f.tx,
		cache.NewMemoryBlacklist(), []byte("test-secret"), time.Hour)
}

func (f *fixture) auditCount(t *testing.T, action string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&model.AuditLog{}).Where("action = ?", action).Count(&n).Error)
	return n
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func strPtr(v string) *string { return &v }
