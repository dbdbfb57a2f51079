package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rewater/rewater-go/internal/domain/account"
	"github.com/rewater/rewater-go/internal/infrastructure/caching/stores"
	"github.com/rewater/rewater-go/internal/infrastructure/observability/logging"
	"github.com/rewater/rewater-go/internal/infrastructure/observability/performance"
	"golang.org/x/crypto/bcrypt"
)

var errStoreDown = errors.New("store down")

type memoryAccounts struct {
	mu       sync.Mutex
	accounts []*account.Account
	err      error
}

func (m *memoryAccounts) FindByLogin(_ context.Context, login string) (*account.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, a := range m.accounts {
		if (a.Email != nil && *a.Email == login) || (a.Phone != nil && *a.Phone == login) {
			c := *a
			return &c, nil
		}
	}
	return nil, nil
}

func (m *memoryAccounts) ExistsByLogin(_ context.Context, email, phone *string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	for _, a := range m.accounts {
		if email != nil && a.Email != nil && *a.Email == *email {
			return true, nil
		}
		if phone != nil && a.Phone != nil && *a.Phone == *phone {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryAccounts) Store(_ context.Context, a *account.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	c := *a
	m.accounts = append(m.accounts, &c)
	return nil
}

func (m *memoryAccounts) add(email, phone, password string, active bool) *account.Account {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	a := &account.Account{
		ID:           "acct-" + email + phone,
		FullName:     "Test User",
		PasswordHash: string(hash),
		Role:         account.RoleCustomer,
		IsActive:     active,
		CreatedAt:    time.Now(),
	}
	if email != "" {
		a.Email = &email
	}
	if phone != "" {
		a.Phone = &phone
	}
	m.accounts = append(m.accounts, a)
	return a
}

func newTestAuthService(accounts account.Repository) (*AuthService, *stores.SessionsStore) {
	logger := logging.NewDiscardLogger()
	sessions := stores.NewSessionsStore(time.Hour, logger)
	svc := NewAuthService(logger, performance.NewTracker(nil), accounts, sessions, "test-secret", time.Hour)
	svc.SetBcryptCost(bcrypt.MinCost)
	return svc, sessions
}
