package refill

import (
	"context"
	"testing"
	"time"

	"github.com/rewater/rewater-go/internal/domain/report"
	schema "github.com/rewater/rewater-go/internal/infrastructure/database"
	"github.com/rewater/rewater-go/internal/infrastructure/observability/logging"
	"github.com/rewater/rewater-go/internal/infrastructure/persistence/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(database.DriverSQLite, ":memory:", database.PoolOptions{MaxOpenConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, schema.NewTableCreator(true).CreateSchema(context.Background(), db.DB))
	return db
}

func exec(t *testing.T, db *database.DB, query string, args ...any) {
	t.Helper()
	_, err := db.Exec(query, args...)
	require.NoError(t, err)
}

func seed(t *testing.T, db *database.DB) {
	exec(t, db, `INSERT INTO users (id, full_name, email, password_hash, role, is_active, created_at) VALUES
		('u1', 'Rahim H.', 'rahim@example.com', 'x', 'customer', 1, '2026-01-01 00:00:00'),
		('u2', 'Sadia R.', 'sadia@example.com', 'x', 'customer', 0, '2026-01-01 00:00:00'),
		('u3', 'Admin', 'admin@example.com', 'x', 'admin', 1, '2026-01-01 00:00:00')`)
	exec(t, db, `INSERT INTO vendors (id, name, vendor_type, created_at) VALUES ('v1', 'AquaPure - Dhanmondi', 'retail', '2026-01-01 00:00:00')`)
	exec(t, db, `INSERT INTO refills (id, created_at, customer_id, vendor_id, bottle_id, volume_l, amount, status) VALUES
		('r1', '2026-10-15 10:00:00', 'u1', 'v1', 'RW-111111', 10, 70.00, 'completed'),
		('r2', '2026-10-15 11:30:00', 'u1', NULL, NULL, NULL, NULL, 'completed'),
		('r3', '2026-10-14 08:00:00', NULL, 'v1', 'RW-222222', 5, 47.5, 'completed'),
		('r4', '2026-10-15 12:00:00', 'u2', 'v1', 'RW-333333', 5, 40, 'pending'),
		('r5', '2026-09-01 12:00:00', 'u1', 'v1', 'RW-444444', 5, 40, 'completed')`)
}

func TestMetricsRepository_Scalars(t *testing.T) {
	db := openTestDB(t)
	seed(t, db)
	repo := NewSQLMetricsRepository(db, logging.NewDiscardLogger())
	ctx := context.Background()

	refills, err := repo.CountCompletedRefills(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, refills)

	customers, err := repo.CountActiveCustomers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, customers)

	liters, err := repo.SumCompletedLiters(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20.0, liters)
}

func TestMetricsRepository_EmptyTables(t *testing.T) {
	repo := NewSQLMetricsRepository(openTestDB(t), logging.NewDiscardLogger())
	ctx := context.Background()

	liters, err := repo.SumCompletedLiters(ctx)
	require.NoError(t, err)
	assert.Zero(t, liters)

	days, err := repo.CompletedRefillsByDay(ctx, "2026-09-16 00:00:00")
	require.NoError(t, err)
	assert.Empty(t, days)

	rows, err := repo.RecentRefills(ctx, report.RecentActivityLimit)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestMetricsRepository_CompletedRefillsByDay(t *testing.T) {
	db := openTestDB(t)
	seed(t, db)
	repo := NewSQLMetricsRepository(db, logging.NewDiscardLogger())

	days, err := repo.CompletedRefillsByDay(context.Background(), "2026-09-16 00:00:00")
	require.NoError(t, err)
	require.Len(t, days, 2)

	got := map[string]int{}
	for _, d := range days {
		key, err := report.NormalizeDayKey(d.Day)
		require.NoError(t, err)
		got[key] = d.Count
	}
	assert.Equal(t, map[string]int{"2026-10-14": 1, "2026-10-15": 2}, got)
}

func TestMetricsRepository_CompletedRefillsByDayKeepsWallClockDate(t *testing.T) {
	db := openTestDB(t)
	repo := NewSQLMetricsRepository(db, logging.NewDiscardLogger())
	dhaka := time.FixedZone("Asia/Dhaka", 6*60*60)

	// time.Time values are stored with their offset, e.g. "2026-10-15 03:00:00+06:00".
	exec(t, db, `INSERT INTO refills (id, created_at, volume_l, status) VALUES (?, ?, 5, 'completed')`,
		"early-today", time.Date(2026, 10, 15, 3, 0, 0, 0, dhaka))
	exec(t, db, `INSERT INTO refills (id, created_at, volume_l, status) VALUES (?, ?, 5, 'completed')`,
		"early-first-day", time.Date(2026, 9, 16, 1, 30, 0, 0, dhaka))

	days, err := repo.CompletedRefillsByDay(context.Background(), "2026-09-16 00:00:00")
	require.NoError(t, err)

	got := map[string]int{}
	for _, d := range days {
		key, err := report.NormalizeDayKey(d.Day)
		require.NoError(t, err)
		got[key] = d.Count
	}
	assert.Equal(t, map[string]int{"2026-09-16": 1, "2026-10-15": 1}, got)

	now := func() time.Time { return time.Date(2026, 10, 15, 18, 0, 0, 0, dhaka) }
	series := report.NewAggregator(repo, report.DefaultFallbacks(), report.SystemRandom{}, now).DailySeries(context.Background())
	require.False(t, series.Degraded, "cause: %v", series.Cause)
	assert.Equal(t, 1, series.Value[0], "first day of the window")
	assert.Equal(t, 0, series.Value[report.SeriesDays-2])
	assert.Equal(t, 1, series.Value[report.SeriesDays-1], "today")
}

func TestMetricsRepository_RecentRefills(t *testing.T) {
	db := openTestDB(t)
	seed(t, db)
	repo := NewSQLMetricsRepository(db, logging.NewDiscardLogger())

	rows, err := repo.RecentRefills(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// newest first: r4, r2, r1
	assert.Equal(t, "pending", rows[0].Status)
	require.NotNil(t, rows[0].Customer)
	assert.Equal(t, "Sadia R.", *rows[0].Customer)

	assert.Equal(t, "Rahim H.", *rows[1].Customer)
	assert.Nil(t, rows[1].Vendor)
	assert.Nil(t, rows[1].BottleID)
	assert.Nil(t, rows[1].VolumeLiters)
	assert.Nil(t, rows[1].Amount)

	require.NotNil(t, rows[2].Amount)
	assert.Equal(t, "70.00", rows[2].Amount.StringFixed(2))
	assert.Equal(t, 10, *rows[2].VolumeLiters)
	assert.Equal(t, "AquaPure - Dhanmondi", *rows[2].Vendor)

	ts, err := report.FormatTimestamp(rows[2].CreatedAt)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-15 10:00:00", ts)
}

func TestMetricsRepository_RecentRefillsTruncatesFractionalVolume(t *testing.T) {
	db := openTestDB(t)
	repo := NewSQLMetricsRepository(db, logging.NewDiscardLogger())
	exec(t, db, `INSERT INTO refills (id, created_at, volume_l, status) VALUES ('r1', '2026-10-15 10:00:00', 7.6, 'success')`)

	rows, err := repo.RecentRefills(context.Background(), 12)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].VolumeLiters)
	assert.Equal(t, 7, *rows[0].VolumeLiters)
}

func TestMetricsRepository_FeedsGenerator(t *testing.T) {
	db := openTestDB(t)
	seed(t, db)
	repo := NewSQLMetricsRepository(db, logging.NewDiscardLogger())

	now := func() time.Time { return time.Date(2026, 10, 15, 18, 0, 0, 0, time.UTC) }
	rng := report.SystemRandom{}
	gen := report.NewGenerator(
		report.NewAggregator(repo, report.DefaultFallbacks(), rng, now),
		report.NewNormalizer(repo, rng, now),
	)

	r := gen.Generate(context.Background())
	assert.Equal(t, 4, r.Payload.RefillsTotal)
	assert.Equal(t, 1, r.Payload.ActiveCustomers)
	assert.Equal(t, 20, r.Payload.PlasticLitersSaved)
	assert.Equal(t, 4, r.Payload.BottlesSaved)
	assert.Equal(t, 2, r.Payload.DailySeries[report.SeriesDays-1])
	assert.Equal(t, 1, r.Payload.DailySeries[report.SeriesDays-2])
	require.Len(t, r.Payload.RecentActivity, 5)
	assert.Equal(t, "47.50", r.Payload.RecentActivity[3].Amount)
	assert.Equal(t, "40.00", r.Payload.RecentActivity[1].Amount, "missing amount derives from default volume")
	assert.Equal(t, report.Placeholder, r.Payload.RecentActivity[1].Vendor)

	require.Len(t, r.Degraded, 1)
	assert.Equal(t, "vendorBreakdown", r.Degraded[0].Metric)
}

func TestMetricsRepository_ClosedDatabaseServesFallbacks(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Close())
	repo := NewSQLMetricsRepository(db, logging.NewDiscardLogger())

	rng := report.SystemRandom{}
	gen := report.NewGenerator(
		report.NewAggregator(repo, report.DefaultFallbacks(), rng, nil),
		report.NewNormalizer(repo, rng, nil),
	)

	p := gen.Generate(context.Background()).Payload
	assert.Equal(t, 2348, p.RefillsTotal)
	assert.Equal(t, 1412, p.ActiveCustomers)
	assert.Equal(t, 14720, p.PlasticLitersSaved)
	assert.Equal(t, 2944, p.BottlesSaved)
	assert.Len(t, p.RecentActivity, report.RecentActivityLimit)
	for _, v := range p.DailySeries {
		assert.GreaterOrEqual(t, v, 32)
		assert.LessOrEqual(t, v, 83)
	}
}
