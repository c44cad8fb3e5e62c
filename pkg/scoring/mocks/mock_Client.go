// Package mocks provides test doubles for the scoring client.
package mocks

import (
	"context"
	"testing"

	mock "github.com/stretchr/testify/mock"

	scoring "github.com/brandlift/partnerfit/pkg/scoring"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// Complete provides a mock function with given fields: ctx, req
func (_m *MockClient) Complete(ctx context.Context, req scoring.Request) (*scoring.Response, error) {
	ret := _m.Called(ctx, req)

	if len(ret) == 0 {
		panic("no return value specified for Complete")
	}

	var r0 *scoring.Response
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, scoring.Request) (*scoring.Response, error)); ok {
		return rf(ctx, req)
	}
	if rf, ok := ret.Get(0).(func(context.Context, scoring.Request) *scoring.Response); ok {
		r0 = rf(ctx, req)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*scoring.Response)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, scoring.Request) error); ok {
		r1 = rf(ctx, req)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockClient creates a new instance of MockClient. It registers a cleanup
// function to assert the mock's expectations.
func NewMockClient(t *testing.T) *MockClient {
	m := &MockClient{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
