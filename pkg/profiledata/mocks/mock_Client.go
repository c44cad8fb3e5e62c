// Package mocks provides test doubles for the profiledata client.
package mocks

import (
	"context"
	"testing"

	mock "github.com/stretchr/testify/mock"

	profiledata "github.com/brandlift/partnerfit/pkg/profiledata"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// Fetch provides a mock function with given fields: ctx, handle
func (_m *MockClient) Fetch(ctx context.Context, handle string) (*profiledata.ProfileAttributes, error) {
	ret := _m.Called(ctx, handle)

	if len(ret) == 0 {
		panic("no return value specified for Fetch")
	}

	var r0 *profiledata.ProfileAttributes
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (*profiledata.ProfileAttributes, error)); ok {
		return rf(ctx, handle)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) *profiledata.ProfileAttributes); ok {
		r0 = rf(ctx, handle)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*profiledata.ProfileAttributes)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, handle)
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
