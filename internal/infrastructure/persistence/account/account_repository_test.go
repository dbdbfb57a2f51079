package account

import (
	"context"
	"testing"
	"time"

	"github.com/rewater/rewater-go/internal/domain/account"
	schema "github.com/rewater/rewater-go/internal/infrastructure/database"
	"github.com/rewater/rewater-go/internal/infrastructure/observability/logging"
	"github.com/rewater/rewater-go/internal/infrastructure/persistence/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *SQLAccountRepository {
	t.Helper()
	db, err := database.Open(database.DriverSQLite, ":memory:", database.PoolOptions{MaxOpenConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, schema.NewTableCreator(true).CreateSchema(context.Background(), db.DB))
	return NewSQLAccountRepository(db, logging.NewDiscardLogger())
}

func strPtr(s string) *string { return &s }

func testAccount(id string, email, phone *string) *account.Account {
	return &account.Account{
		ID:           id,
		FullName:     "Laila K.",
		Email:        email,
		Phone:        phone,
		PasswordHash: "$2a$10$hash",
		Role:         account.RoleCustomer,
		IsActive:     true,
		CreatedAt:    time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC),
	}
}

func TestAccountRepository_StoreAndFindByEmail(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Store(ctx, testAccount("a1", strPtr("laila@example.com"), nil)))

	got, err := repo.FindByLogin(ctx, "laila@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a1", got.ID)
	assert.Equal(t, "Laila K.", got.FullName)
	assert.Equal(t, "laila@example.com", *got.Email)
	assert.Nil(t, got.Phone)
	assert.True(t, got.IsActive)
	assert.Equal(t, account.RoleCustomer, got.Role)
	assert.Equal(t, "2026-10-15 09:30:00", got.CreatedAt.Format("2006-01-02 15:04:05"))
}

func TestAccountRepository_FindByPhone(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Store(ctx, testAccount("a1", nil, strPtr("01712345678"))))

	got, err := repo.FindByLogin(ctx, "01712345678")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.Email)
	assert.Equal(t, "01712345678", *got.Phone)
}

func TestAccountRepository_FindMissing(t *testing.T) {
	repo := newTestRepository(t)

	got, err := repo.FindByLogin(context.Background(), "nobody@example.com")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestAccountRepository_DisabledFlagRoundTrips(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	a := testAccount("a1", strPtr("off@example.com"), nil)
	a.IsActive = false
	require.NoError(t, repo.Store(ctx, a))

	got, err := repo.FindByLogin(ctx, "off@example.com")
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestAccountRepository_ExistsByLogin(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.Store(ctx, testAccount("a1", strPtr("laila@example.com"), nil)))
	require.NoError(t, repo.Store(ctx, testAccount("a2", nil, strPtr("01712345678"))))

	exists, err := repo.ExistsByLogin(ctx, strPtr("laila@example.com"), nil)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByLogin(ctx, nil, strPtr("01712345678"))
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByLogin(ctx, strPtr("new@example.com"), nil)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.ExistsByLogin(ctx, nil, nil)
	require.NoError(t, err)
	assert.False(t, exists, "NULL never matches")
}

func TestAccountRepository_DuplicateEmail(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.Store(ctx, testAccount("a1", strPtr("laila@example.com"), nil)))

	err := repo.Store(ctx, testAccount("a2", strPtr("laila@example.com"), nil))
	assert.ErrorIs(t, err, account.ErrAccountExists)
}

func TestAccountRepository_ClosedDatabase(t *testing.T) {
	repo := newTestRepository(t)
	require.NoError(t, repo.db.Close())

	_, err := repo.FindByLogin(context.Background(), "x")
	assert.Error(t, err)
	_, err = repo.ExistsByLogin(context.Background(), strPtr("x"), nil)
	assert.Error(t, err)
}
