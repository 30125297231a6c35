package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"storyweaver-server/internal/ai"
	"storyweaver-server/internal/service"
)

// MockNarrativeGateway is a mock type for the NarrativeGateway type
type MockNarrativeGateway struct {
	mock.Mock
}

func (_m *MockNarrativeGateway) GenerateOpening(ctx context.Context, req ai.OpeningRequest) (*ai.OpeningResult, error) {
	ret := _m.Called(ctx, req)

	var r0 *ai.OpeningResult
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*ai.OpeningResult)
	}
	return r0, ret.Error(1)
}

func (_m *MockNarrativeGateway) GenerateNext(ctx context.Context, req ai.NextChapterRequest) (*ai.NextChapterResult, error) {
	ret := _m.Called(ctx, req)

	var r0 *ai.NextChapterResult
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*ai.NextChapterResult)
	}
	return r0, ret.Error(1)
}

// NewMockNarrativeGateway creates a new instance of MockNarrativeGateway.
// The first argument is typically a *testing.T value.
func NewMockNarrativeGateway(t interface {
	mock.TestingT
	Helper()
}) *MockNarrativeGateway {
	m := &MockNarrativeGateway{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ service.NarrativeGateway = (*MockNarrativeGateway)(nil)
