// Package refill provides the read-only SQL queries behind the dashboard
// metrics.
package refill

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rewater/rewater-go/internal/domain/report"
	"github.com/rewater/rewater-go/internal/infrastructure/observability/logging"
	"github.com/rewater/rewater-go/internal/infrastructure/persistence/database"
	"github.com/shopspring/decimal"
)

const statusCompleted = "completed"

// SQLMetricsRepository implements report.MetricsSource over the refills,
// users and vendors tables.
type SQLMetricsRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
	dayKey string
}

// NewSQLMetricsRepository creates a new instance of the repository.
func NewSQLMetricsRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLMetricsRepository {
	return &SQLMetricsRepository{db: db, logger: logger, dayKey: dayKeyExpr(db)}
}

// dayKeyExpr is the SQL expression for the wall-clock calendar day of
// created_at. SQLite's DATE() shifts offset-bearing text such as
// "2026-10-15 03:00:00+06:00" to UTC, so the SQLite family takes the stored
// date prefix instead.
func dayKeyExpr(db *database.DB) string {
	if db != nil && database.IsSQLiteFamily(db.Driver) {
		return "substr(created_at, 1, 10)"
	}
	return "DATE(created_at)"
}

func (r *SQLMetricsRepository) CountCompletedRefills(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM refills WHERE status = ?`
	return r.scalarInt(ctx, "count_completed_refills", query, statusCompleted)
}

func (r *SQLMetricsRepository) CountActiveCustomers(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM users WHERE role = 'customer' AND is_active = 1`
	return r.scalarInt(ctx, "count_active_customers", query)
}

// SumCompletedLiters returns the total volume of completed refills; NULL
// volumes count as zero.
func (r *SQLMetricsRepository) SumCompletedLiters(ctx context.Context) (float64, error) {
	const query = `SELECT COALESCE(SUM(volume_l), 0) FROM refills WHERE status = ?`

	start := time.Now()
	var sum sql.NullFloat64
	if err := r.db.QueryRowContext(ctx, query, statusCompleted).Scan(&sum); err != nil {
		r.logger.Database().Error("Metric query failed", "metric", "sum_completed_liters", "error", err.Error())
		return 0, fmt.Errorf("failed to sum completed liters: %w", err)
	}
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))

	if !sum.Valid {
		return 0, nil
	}
	return sum.Float64, nil
}

// CompletedRefillsByDay groups completed refills created at or after since by
// calendar day. The day keys are returned as the driver produced them.
func (r *SQLMetricsRepository) CompletedRefillsByDay(ctx context.Context, since string) ([]report.DayCount, error) {
	query := `
		SELECT ` + r.dayKey + ` AS d, COUNT(*) AS c
		FROM refills
		WHERE status = ? AND created_at >= ?
		GROUP BY d
		ORDER BY d ASC`

	start := time.Now()
	rows, err := r.db.QueryContext(ctx, query, statusCompleted, since)
	if err != nil {
		r.logger.Database().Error("Metric query failed", "metric", "completed_refills_by_day", "error", err.Error())
		return nil, fmt.Errorf("failed to group refills by day: %w", err)
	}
	defer rows.Close()

	var out []report.DayCount
	for rows.Next() {
		var (
			day   any
			count int
		)
		if err := rows.Scan(&day, &count); err != nil {
			return nil, fmt.Errorf("failed to scan daily count: %w", err)
		}
		out = append(out, report.DayCount{Day: day, Count: count})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate daily counts: %w", err)
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return out, nil
}

// RecentRefills returns the newest refills joined with the customer and
// vendor names.
func (r *SQLMetricsRepository) RecentRefills(ctx context.Context, limit int) ([]report.RefillRow, error) {
	const query = `
		SELECT r.created_at, u.full_name, v.name, r.bottle_id, r.volume_l, r.amount, r.status
		FROM refills r
		LEFT JOIN users u ON u.id = r.customer_id
		LEFT JOIN vendors v ON v.id = r.vendor_id
		ORDER BY r.created_at DESC
		LIMIT ?`

	start := time.Now()
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		r.logger.Database().Error("Metric query failed", "metric", "recent_refills", "error", err.Error())
		return nil, fmt.Errorf("failed to load recent refills: %w", err)
	}
	defer rows.Close()

	out := make([]report.RefillRow, 0, limit)
	for rows.Next() {
		var (
			createdAt any
			customer  sql.NullString
			vendor    sql.NullString
			bottleID  sql.NullString
			volume    sql.NullFloat64
			amount    decimal.NullDecimal
			status    sql.NullString
		)
		if err := rows.Scan(&createdAt, &customer, &vendor, &bottleID, &volume, &amount, &status); err != nil {
			return nil, fmt.Errorf("failed to scan refill: %w", err)
		}

		row := report.RefillRow{
			CreatedAt: createdAt,
			Customer:  database.StringPtr(customer),
			Vendor:    database.StringPtr(vendor),
			BottleID:  database.StringPtr(bottleID),
			Status:    status.String,
		}
		if volume.Valid {
			v := int(volume.Float64)
			row.VolumeLiters = &v
		}
		if amount.Valid {
			a := amount.Decimal
			row.Amount = &a
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate refills: %w", err)
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return out, nil
}

func (r *SQLMetricsRepository) scalarInt(ctx context.Context, metric, query string, args ...any) (int, error) {
	start := time.Now()
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		r.logger.Database().Error("Metric query failed", "metric", metric, "error", err.Error())
		return 0, fmt.Errorf("failed to run %s: %w", metric, err)
	}
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return n, nil
}
