package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-aura/backend/internal/domain"
	"github.com/campus-aura/backend/internal/repository"
	apperrors "github.com/campus-aura/backend/pkg/util/errorutil"
)

func seedProduct(t *testing.T, env *testEnv, id string, status domain.ProductStatus) {
	t.Helper()
	require.NoError(t, env.products.Create(context.Background(), &domain.Product{
		ID:        id,
		Name:      "Item " + id,
		Price:     100,
		Status:    status,
		CreatedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}))
}

func TestProductLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedProduct(t, env, "p1", domain.ProductStatusPending)

	_, err := env.productSvc.SetStatus(ctx, "p1", "bogus", admin.ID)
	requireCode(t, err, apperrors.CodeValidation)

	_, err = env.productSvc.SetStatus(ctx, "p1", "SOLD", admin.ID)
	requireCode(t, err, apperrors.CodeInvalidTransition)

	p, err := env.productSvc.Approve(ctx, "p1", admin.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProductStatusApproved, p.Status)

	p, err = env.productSvc.SetStatus(ctx, "p1", "sold", admin.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProductStatusSold, p.Status)

	stored, err := env.productSvc.Get(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, stored.SoldAt)

	_, err = env.productSvc.Disable(ctx, "p1", admin.ID)
	requireCode(t, err, apperrors.CodeInvalidTransition)

	_, err = env.productSvc.Get(ctx, "missing")
	requireCode(t, err, apperrors.CodeNotFound)
}

func TestProductListAndCounts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedProduct(t, env, "p1", domain.ProductStatusPending)
	seedProduct(t, env, "p2", domain.ProductStatusPending)
	seedProduct(t, env, "p3", domain.ProductStatusAvailable)
	require.NoError(t, env.store.Set(ctx, repository.ProductsCollection, "legacy", map[string]any{
		"id":     "legacy",
		"name":   "Old",
		"status": "available",
	}))

	available, err := env.productSvc.List(ctx, "available")
	require.NoError(t, err)
	assert.Len(t, available, 2)

	_, err = env.productSvc.List(ctx, "gone")
	requireCode(t, err, apperrors.CodeValidation)

	require.NoError(t, env.productSvc.SoftDelete(ctx, "p2", admin.ID))
	pending, err := env.productSvc.CountByStatus(ctx, domain.ProductStatusPending)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending)

	total, err := env.productSvc.CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
}

func TestPaymentStatsCountsCompletedOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	seed := []domain.Transaction{
		{ID: "t1", Type: domain.TransactionTypeTicket, Amount: 1500, Status: domain.TransactionStatusCompleted, CreatedAt: base},
		{ID: "t2", Type: domain.TransactionTypeMarketplace, Amount: 700, Status: domain.TransactionStatusCompleted, CreatedAt: base.Add(time.Hour)},
		{ID: "t3", Type: domain.TransactionTypeTicket, Amount: 999, Status: domain.TransactionStatusRefunded, CreatedAt: base.Add(2 * time.Hour)},
		{ID: "t4", Type: domain.TransactionTypeMarketplace, Amount: 50, Status: domain.TransactionStatusPending, CreatedAt: base.Add(3 * time.Hour)},
	}
	for i := range seed {
		require.NoError(t, env.transactions.Create(ctx, &seed[i]))
	}
	require.NoError(t, env.store.Set(ctx, repository.TransactionsCollection, "legacy", map[string]any{
		"id":     "legacy",
		"type":   "TICKET",
		"amount": 500.0,
		"status": "completed",
	}))

	stats, err := env.transactionSvc.PaymentStats(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 2000.0, stats.TicketRevenue, 0.001)
	assert.InDelta(t, 700.0, stats.MarketplaceRevenue, 0.001)
	assert.InDelta(t, 2700.0, stats.TotalRevenue, 0.001)
	assert.Len(t, stats.RecentTransactions, 5)

	recent, err := env.transactionSvc.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "t4", recent[0].ID)
	assert.Equal(t, "t3", recent[1].ID)
}

func TestDashboardStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a, err := env.coordinatorSvc.Register(ctx, coordinatorInput("a@campus.lk", ""))
	require.NoError(t, err)
	in := coordinatorInput("b@campus.lk", "")
	in.FirstName = "Amali"
	b, err := env.coordinatorSvc.Register(ctx, in)
	require.NoError(t, err)

	seedEvent(t, env, domain.Event{ID: "e1", CoordinatorID: b.ID, Title: "One", Status: domain.EventStatusPending})
	seedEvent(t, env, domain.Event{ID: "e2", CoordinatorID: b.ID, Title: "Two", Status: domain.EventStatusPublished})
	seedEvent(t, env, domain.Event{ID: "e3", CoordinatorID: a.ID, Title: "Three", Status: domain.EventStatusPending})
	seedProduct(t, env, "p1", domain.ProductStatusPending)
	seedProduct(t, env, "p2", domain.ProductStatusSold)
	_, err = env.userSvc.RegisterExternal(ctx, ExternalRegistration{UID: "x1", Email: "x@example.com", Name: "Ext"})
	require.NoError(t, err)

	stats, err := env.dashboardSvc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalEvents)
	assert.Equal(t, int64(1), stats.TotalUsers)
	assert.Equal(t, int64(2), stats.TotalProducts)
	assert.Equal(t, int64(1), stats.ProductsSold)
	assert.Equal(t, int64(2), stats.PendingEvents)
	assert.Equal(t, int64(1), stats.PendingProducts)
	assert.Len(t, stats.RecentEvents, 3)
	require.Len(t, stats.TopCoordinators, 2)
	assert.Equal(t, domain.TopCoordinator{ID: b.ID, Name: "Amali Perera", EventCount: 2}, stats.TopCoordinators[0])
}

func TestDocumentServicePassthrough(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doc, err := env.documentSvc.Save(ctx, "notes", "n1", map[string]any{"text": "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello", doc.Fields["text"])
	assert.NotEmpty(t, doc.UpdateTime)

	list, err := env.documentSvc.List(ctx, "notes")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "n1", list[0].ID)

	require.NoError(t, env.documentSvc.Delete(ctx, "notes", "n1"))
	_, err = env.documentSvc.Get(ctx, "notes", "n1")
	requireCode(t, err, apperrors.CodeNotFound)
	requireCode(t, env.documentSvc.Delete(ctx, "notes", "n1"), apperrors.CodeNotFound)
}

func TestDocumentServiceGuards(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.documentSvc.List(ctx, "credentials")
	requireCode(t, err, apperrors.CodeForbidden)
	_, err = env.documentSvc.Get(ctx, "Credentials", "admin@campus.lk")
	requireCode(t, err, apperrors.CodeForbidden)
	_, err = env.documentSvc.List(ctx, "bad/name")
	requireCode(t, err, apperrors.CodeValidation)
	_, err = env.documentSvc.Save(ctx, "notes", "a/b", map[string]any{})
	requireCode(t, err, apperrors.CodeValidation)
	_, err = env.documentSvc.Save(ctx, "notes", "n1", nil)
	requireCode(t, err, apperrors.CodeValidation)
}
