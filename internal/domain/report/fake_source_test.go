package report

import (
	"context"
	"errors"
)

var errUnavailable = errors.New("database unavailable")

// fakeSource returns canned results; a non-nil err field makes the matching
// query fail.
type fakeSource struct {
	refills      int
	refillsErr   error
	customers    int
	customersErr error
	liters       float64
	litersErr    error
	days         []DayCount
	daysErr      error
	rows         []RefillRow
	rowsErr      error

	since string
	calls int
}

func (f *fakeSource) CountCompletedRefills(context.Context) (int, error) {
	f.calls++
	return f.refills, f.refillsErr
}

func (f *fakeSource) CountActiveCustomers(context.Context) (int, error) {
	f.calls++
	return f.customers, f.customersErr
}

func (f *fakeSource) SumCompletedLiters(context.Context) (float64, error) {
	f.calls++
	return f.liters, f.litersErr
}

func (f *fakeSource) CompletedRefillsByDay(_ context.Context, since string) ([]DayCount, error) {
	f.calls++
	f.since = since
	return f.days, f.daysErr
}

func (f *fakeSource) RecentRefills(context.Context, int) ([]RefillRow, error) {
	f.calls++
	return f.rows, f.rowsErr
}

func failingSource() *fakeSource {
	return &fakeSource{
		refillsErr:   errUnavailable,
		customersErr: errUnavailable,
		litersErr:    errUnavailable,
		daysErr:      errUnavailable,
		rowsErr:      errUnavailable,
	}
}

// panickingSource blows up on every call.
type panickingSource struct{}

func (panickingSource) CountCompletedRefills(context.Context) (int, error) { panic("boom") }
func (panickingSource) CountActiveCustomers(context.Context) (int, error)  { panic("boom") }
func (panickingSource) SumCompletedLiters(context.Context) (float64, error) {
	panic("boom")
}
func (panickingSource) CompletedRefillsByDay(context.Context, string) ([]DayCount, error) {
	panic("boom")
}
func (panickingSource) RecentRefills(context.Context, int) ([]RefillRow, error) { panic("boom") }

// sequence replays fixed values, cycling when exhausted.
type sequence struct {
	values []int
	i      int
}

func (s *sequence) IntN(n int) int {
	v := s.values[s.i%len(s.values)]
	s.i++
	if v >= n {
		return n - 1
	}
	return v
}

func ptr[T any](v T) *T { return &v }
