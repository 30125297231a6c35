package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"storyweaver-server/internal/models"
	"storyweaver-server/internal/repository"
)

// MockProfileRepository is a mock type for the ProfileRepository type
type MockProfileRepository struct {
	mock.Mock
}

func (_m *MockProfileRepository) List(ctx context.Context) ([]models.Profile, error) {
	ret := _m.Called(ctx)

	var r0 []models.Profile
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.Profile)
	}
	return r0, ret.Error(1)
}

func (_m *MockProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	ret := _m.Called(ctx, id)

	var r0 *models.Profile
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Profile)
	}
	return r0, ret.Error(1)
}

func (_m *MockProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	ret := _m.Called(ctx, profile)
	return ret.Error(0)
}

func (_m *MockProfileRepository) Update(ctx context.Context, profile *models.Profile) error {
	ret := _m.Called(ctx, profile)
	return ret.Error(0)
}

func (_m *MockProfileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

// NewMockProfileRepository creates a new instance of MockProfileRepository.
// The first argument is typically a *testing.T value.
func NewMockProfileRepository(t interface {
	mock.TestingT
	Helper()
}) *MockProfileRepository {
	m := &MockProfileRepository{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ repository.ProfileRepository = (*MockProfileRepository)(nil)

// MockStoryRepository is a mock type for the StoryRepository type
type MockStoryRepository struct {
	mock.Mock
}

func (_m *MockStoryRepository) List(ctx context.Context) ([]models.Story, error) {
	ret := _m.Called(ctx)

	var r0 []models.Story
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.Story)
	}
	return r0, ret.Error(1)
}

func (_m *MockStoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Story, error) {
	ret := _m.Called(ctx, id)

	var r0 *models.Story
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Story)
	}
	return r0, ret.Error(1)
}

func (_m *MockStoryRepository) Create(ctx context.Context, story *models.Story) error {
	ret := _m.Called(ctx, story)
	return ret.Error(0)
}

func (_m *MockStoryRepository) Update(ctx context.Context, story *models.Story) error {
	ret := _m.Called(ctx, story)
	return ret.Error(0)
}

func (_m *MockStoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

// NewMockStoryRepository creates a new instance of MockStoryRepository.
// The first argument is typically a *testing.T value.
func NewMockStoryRepository(t interface {
	mock.TestingT
	Helper()
}) *MockStoryRepository {
	m := &MockStoryRepository{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ repository.StoryRepository = (*MockStoryRepository)(nil)
