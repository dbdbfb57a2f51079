// Package account provides the SQL implementation of the account repository.
package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
	"github.com/rewater/rewater-go/internal/domain/account"
	"github.com/rewater/rewater-go/internal/domain/report"
	"github.com/rewater/rewater-go/internal/infrastructure/observability/logging"
	"github.com/rewater/rewater-go/internal/infrastructure/persistence/database"
)

const mysqlDuplicateEntry = 1062

// SQLAccountRepository stores accounts in the users table.
type SQLAccountRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLAccountRepository creates a new instance of the repository.
func NewSQLAccountRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLAccountRepository {
	return &SQLAccountRepository{
		db:     db,
		logger: logger,
	}
}

// FindByLogin retrieves the account whose email or phone equals login.
func (r *SQLAccountRepository) FindByLogin(ctx context.Context, login string) (*account.Account, error) {
	const query = `
		SELECT id, full_name, email, phone, password_hash, role, is_active, created_at
		FROM users
		WHERE email = ? OR phone = ?
		LIMIT 1`

	start := time.Now()
	r.logger.Database().Debug("Loading account by login")

	row := r.db.QueryRowContext(ctx, query, login, login)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.logger.Database().Debug("Account not found by login")
			return nil, nil
		}
		r.logger.Database().Error("Failed to load account by login", "error", err.Error())
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	duration := time.Since(start)
	r.logger.Database().Info("Account loaded by login", "accountId", a.ID, "duration", duration)
	database.CheckAndLogSlowQuery(r.logger, query, duration)
	return a, nil
}

// ExistsByLogin reports whether an account already uses email or phone. Nil
// arguments never match.
func (r *SQLAccountRepository) ExistsByLogin(ctx context.Context, email, phone *string) (bool, error) {
	const query = `SELECT COUNT(*) FROM users WHERE email = ? OR phone = ?`

	start := time.Now()
	var count int
	err := r.db.QueryRowContext(ctx, query, database.NullableString(email), database.NullableString(phone)).Scan(&count)
	if err != nil {
		r.logger.Database().Error("Failed to check account existence", "error", err.Error())
		return false, fmt.Errorf("failed to check account existence: %w", err)
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return count > 0, nil
}

// Store inserts a new account. A unique-key violation is reported as
// account.ErrAccountExists.
func (r *SQLAccountRepository) Store(ctx context.Context, a *account.Account) error {
	const query = `
		INSERT INTO users (id, full_name, email, phone, password_hash, role, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	start := time.Now()
	r.logger.Database().Debug("Executing account insert", "id", a.ID)

	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.FullName,
		database.NullableString(a.Email),
		database.NullableString(a.Phone),
		a.PasswordHash,
		a.Role,
		a.IsActive,
		a.CreatedAt.Format(report.TimestampLayout),
	)
	if err != nil {
		if isUniqueViolation(err) {
			r.logger.Database().Info("Account insert rejected as duplicate", "id", a.ID)
			return account.ErrAccountExists
		}
		r.logger.Database().Error("Account insert failed", "error", err.Error(), "id", a.ID)
		return fmt.Errorf("failed to store account: %w", err)
	}

	duration := time.Since(start)
	r.logger.Database().Info("Account insert completed", "id", a.ID, "duration", duration)
	database.CheckAndLogSlowQuery(r.logger, query, duration)
	return nil
}

func scanAccount(row *sql.Row) (*account.Account, error) {
	var (
		a         account.Account
		email     sql.NullString
		phone     sql.NullString
		createdAt any
	)
	if err := row.Scan(&a.ID, &a.FullName, &email, &phone, &a.PasswordHash, &a.Role, &a.IsActive, &createdAt); err != nil {
		return nil, err
	}
	a.Email = database.StringPtr(email)
	a.Phone = database.StringPtr(phone)
	if createdAt != nil {
		t, err := report.ParseTimestamp(createdAt)
		if err != nil {
			return nil, err
		}
		a.CreatedAt = t
	}
	return &a, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDuplicateEntry
	}
	return false
}
