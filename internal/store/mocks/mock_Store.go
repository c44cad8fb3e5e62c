// Package mocks provides test doubles for the store.
package mocks

import (
	"context"
	"testing"

	mock "github.com/stretchr/testify/mock"

	model "github.com/brandlift/partnerfit/internal/model"
	store "github.com/brandlift/partnerfit/internal/store"
)

// MockStore is a mock type for the Store interface.
type MockStore struct {
	mock.Mock
}

// SaveAnalysis provides a mock function with given fields: ctx, rec
func (_m *MockStore) SaveAnalysis(ctx context.Context, rec model.AnalysisRecord) (*model.SavedAnalysis, error) {
	ret := _m.Called(ctx, rec)

	if len(ret) == 0 {
		panic("no return value specified for SaveAnalysis")
	}

	var r0 *model.SavedAnalysis
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, model.AnalysisRecord) (*model.SavedAnalysis, error)); ok {
		return rf(ctx, rec)
	}
	if rf, ok := ret.Get(0).(func(context.Context, model.AnalysisRecord) *model.SavedAnalysis); ok {
		r0 = rf(ctx, rec)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*model.SavedAnalysis)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, model.AnalysisRecord) error); ok {
		r1 = rf(ctx, rec)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// GetRun provides a mock function with given fields: ctx, runID
func (_m *MockStore) GetRun(ctx context.Context, runID string) (*model.AnalysisRecord, error) {
	ret := _m.Called(ctx, runID)

	if len(ret) == 0 {
		panic("no return value specified for GetRun")
	}

	var r0 *model.AnalysisRecord
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (*model.AnalysisRecord, error)); ok {
		return rf(ctx, runID)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) *model.AnalysisRecord); ok {
		r0 = rf(ctx, runID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*model.AnalysisRecord)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, runID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// ListRuns provides a mock function with given fields: ctx, filter
func (_m *MockStore) ListRuns(ctx context.Context, filter store.RunFilter) ([]model.AnalysisRecord, error) {
	ret := _m.Called(ctx, filter)

	if len(ret) == 0 {
		panic("no return value specified for ListRuns")
	}

	var r0 []model.AnalysisRecord
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, store.RunFilter) ([]model.AnalysisRecord, error)); ok {
		return rf(ctx, filter)
	}
	if rf, ok := ret.Get(0).(func(context.Context, store.RunFilter) []model.AnalysisRecord); ok {
		r0 = rf(ctx, filter)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]model.AnalysisRecord)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, store.RunFilter) error); ok {
		r1 = rf(ctx, filter)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// GetCreditBalance provides a mock function with given fields: ctx, userID
func (_m *MockStore) GetCreditBalance(ctx context.Context, userID string) (int64, error) {
	ret := _m.Called(ctx, userID)

	if len(ret) == 0 {
		panic("no return value specified for GetCreditBalance")
	}

	var r0 int64
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (int64, error)); ok {
		return rf(ctx, userID)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) int64); ok {
		r0 = rf(ctx, userID)
	} else {
		r0 = ret.Get(0).(int64)
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, userID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// DebitCredits provides a mock function with given fields: ctx, entry
func (_m *MockStore) DebitCredits(ctx context.Context, entry model.LedgerEntry) error {
	ret := _m.Called(ctx, entry)

	if len(ret) == 0 {
		panic("no return value specified for DebitCredits")
	}

	if rf, ok := ret.Get(0).(func(context.Context, model.LedgerEntry) error); ok {
		return rf(ctx, entry)
	}
	return ret.Error(0)
}

// Grant provides a mock function with given fields: ctx, userID, amount
func (_m *MockStore) Grant(ctx context.Context, userID string, amount int64) error {
	ret := _m.Called(ctx, userID, amount)

	if len(ret) == 0 {
		panic("no return value specified for Grant")
	}

	if rf, ok := ret.Get(0).(func(context.Context, string, int64) error); ok {
		return rf(ctx, userID, amount)
	}
	return ret.Error(0)
}

// IncrementUsage provides a mock function with given fields: ctx, inc
func (_m *MockStore) IncrementUsage(ctx context.Context, inc model.UsageIncrement) error {
	ret := _m.Called(ctx, inc)

	if len(ret) == 0 {
		panic("no return value specified for IncrementUsage")
	}

	if rf, ok := ret.Get(0).(func(context.Context, model.UsageIncrement) error); ok {
		return rf(ctx, inc)
	}
	return ret.Error(0)
}

// Migrate provides a mock function with given fields: ctx
func (_m *MockStore) Migrate(ctx context.Context) error {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for Migrate")
	}

	if rf, ok := ret.Get(0).(func(context.Context) error); ok {
		return rf(ctx)
	}
	return ret.Error(0)
}

// Close provides a mock function with no fields
func (_m *MockStore) Close() error {
	ret := _m.Called()

	if len(ret) == 0 {
		panic("no return value specified for Close")
	}

	if rf, ok := ret.Get(0).(func() error); ok {
		return rf()
	}
	return ret.Error(0)
}

// NewMockStore creates a new instance of MockStore. It registers a cleanup
// function to assert the mock's expectations.
func NewMockStore(t *testing.T) *MockStore {
	m := &MockStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
