package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campus-aura/backend/internal/cache"
	"github.com/campus-aura/backend/internal/config"
	"github.com/campus-aura/backend/internal/docstore"
	"github.com/campus-aura/backend/internal/events"
	"github.com/campus-aura/backend/internal/media"
	"github.com/campus-aura/backend/internal/repository"
	apperrors "github.com/campus-aura/backend/pkg/util/errorutil"
)

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) handle(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type testEnv struct {
	store        *docstore.MemoryStore
	events       repository.EventRepository
	users        repository.UserRepository
	coordinators repository.CoordinatorRepository
	products     repository.ProductRepository
	transactions repository.TransactionRepository
	credentials  repository.CredentialRepository
	published    *recorder

	eventSvc       *EventService
	userSvc        *UserService
	userAdminSvc   *UserAdminService
	authSvc        *AuthService
	coordinatorSvc *CoordinatorService
	productSvc     *ProductService
	transactionSvc *TransactionService
	dashboardSvc   *DashboardService
	documentSvc    *DocumentService
}

type envOption func(*envOptions)

type envOptions struct {
	cache    cache.ListingCache
	uploader media.Uploader
}

func withCache(c cache.ListingCache) envOption {
	return func(o *envOptions) { o.cache = c }
}

func withUploader(u media.Uploader) envOption {
	return func(o *envOptions) { o.uploader = u }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	var o envOptions
	for _, opt := range opts {
		opt(&o)
	}

	logger := zap.NewNop()
	store := docstore.NewMemoryStore()
	dispatcher := events.NewInMemoryDispatcher(logger)
	rec := &recorder{}
	dispatcher.Subscribe(events.AllEvents, rec.handle)

	env := &testEnv{
		store:        store,
		events:       repository.NewEventRepository(store),
		users:        repository.NewUserRepository(store),
		coordinators: repository.NewCoordinatorRepository(store),
		products:     repository.NewProductRepository(store),
		transactions: repository.NewTransactionRepository(store),
		credentials:  repository.NewCredentialRepository(store),
		published:    rec,
	}

	cfg := config.Config{Auth: config.AuthConfig{
		JWTSecret:             "test-secret",
		JWTIssuer:             "campus-aura-test",
		AccessTokenTTLMinutes: 5,
		BcryptCost:            4,
	}}

	env.eventSvc = NewEventService(EventDependencies{
		EventRepo:       env.events,
		CoordinatorRepo: env.coordinators,
		Dispatcher:      dispatcher,
		Cache:           o.cache,
		Logger:          logger,
	})
	env.userSvc = NewUserService(UserDependencies{
		UserRepo:           env.users,
		Uploader:           o.uploader,
		UploadFolder:       "ids",
		StudentEmailDomain: "@std.uwu.ac.lk",
		Dispatcher:         dispatcher,
		Logger:             logger,
	})
	env.userAdminSvc = NewUserAdminService(UserAdminDependencies{UserRepo: env.users, Dispatcher: dispatcher, Logger: logger})
	env.authSvc = NewAuthService(cfg, AuthDependencies{CredentialRepo: env.credentials, UserRepo: env.users, Logger: logger})
	env.coordinatorSvc = NewCoordinatorService(CoordinatorDependencies{
		CoordinatorRepo: env.coordinators,
		EventRepo:       env.events,
		UserRepo:        env.users,
		AuthService:     env.authSvc,
		Dispatcher:      dispatcher,
		Logger:          logger,
	})
	env.productSvc = NewProductService(ProductDependencies{ProductRepo: env.products, Dispatcher: dispatcher, Logger: logger})
	env.transactionSvc = NewTransactionService(env.transactions)
	env.dashboardSvc = NewDashboardService(DashboardDependencies{
		EventService:       env.eventSvc,
		ProductService:     env.productSvc,
		CoordinatorService: env.coordinatorSvc,
		UserRepo:           env.users,
	})
	env.documentSvc = NewDocumentService(DocumentDependencies{Store: store, Cache: o.cache, Logger: logger})
	return env
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	assert.Truef(t, apperrors.IsCode(err, code), "expected %s, got %v", code, err)
}

func strPtr(s string) *string { return &s }

func TestStoreErrorMapping(t *testing.T) {
	requireCode(t, storeError("event", "e1", docstore.ErrNotFound), apperrors.CodeNotFound)
	requireCode(t, storeError("user", "u1", docstore.ErrAlreadyExists), apperrors.CodeDuplicateEntity)
	requireCode(t, storeError("event", "e1", assert.AnError), apperrors.CodeInternal)
	assert.NoError(t, storeError("event", "e1", nil))
}

func TestRequiredListsMissingFieldsSorted(t *testing.T) {
	err := required(map[string]string{"name": " ", "uid": "", "email": "a@b"})
	requireCode(t, err, apperrors.CodeValidation)

	de := apperrors.ToDomainError(err)
	assert.Equal(t, []string{"name", "uid"}, de.Details["fields"])
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1, clamp(0, 1, 20))
	assert.Equal(t, 20, clamp(99, 1, 20))
	assert.Equal(t, 7, clamp(7, 1, 20))
}
