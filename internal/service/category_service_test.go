package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "galleria/internal/errors"
	"galleria/internal/model"
)

// MockCategoryRepository is a mock implementation of CategoryRepository.
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *model.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) (bool, error) {
	args := m.Called(ctx, id, fields)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uint) (*model.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindByTitle(ctx context.Context, title string) (*model.Category, error) {
	args := m.Called(ctx, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uint) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func TestCategoryService_Create(t *testing.T) {
	tests := []struct {
		name          string
		title         string
		setupMock     func(*MockCategoryRepository)
		expectedError error
	}{
		{
			name:  "successful create",
			title: "Paintings",
			setupMock: func(m *MockCategoryRepository) {
				m.On("FindByTitle", mock.Anything, "Paintings").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.Category")).Return(nil)
			},
		},
		{
			name:  "duplicate title",
			title: "Paintings",
			setupMock: func(m *MockCategoryRepository) {
				m.On("FindByTitle", mock.Anything, "Paintings").Return(&model.Category{ID: 1, Title: "Paintings"}, nil)
			},
			expectedError: apperrors.ErrCategoryTitleTaken,
		},
		{
			// A concurrent create slips past the title check and trips the
			// unique index instead; still a conflict, not a server error.
			name:  "duplicate title raced past the check",
			title: "Paintings",
			setupMock: func(m *MockCategoryRepository) {
				m.On("FindByTitle", mock.Anything, "Paintings").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.Category")).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: apperrors.ErrCategoryTitleTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockCategoryRepository)
			tt.setupMock(mockRepo)

			service := NewCategoryService(mockRepo, new(MockObjectGateway))
			category, err := service.Create(context.Background(), tt.title, nil)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, category)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.title, category.Title)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestCategoryService_FindAll_Enrichment(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	mockStore := new(MockObjectGateway)

	managed := "uploads/cat.jpg"
	broken := "uploads/broken.jpg"
	legacy := "https://images.example.com/legacy.jpg"
	mockRepo.On("List", mock.Anything).Return([]model.Category{
		{ID: 1, Title: "Paintings", Image: &managed},
		{ID: 2, Title: "Prints", Image: &broken},
		{ID: 3, Title: "Sculpture", Image: &legacy},
		{ID: 4, Title: "Furniture"},
	}, nil)
	mockStore.On("PresignView", mock.Anything, managed, mock.Anything).
		Return("https://store.example.com/signed/cat", nil)
	mockStore.On("PresignView", mock.Anything, broken, mock.Anything).
		Return("", errors.New("storage down"))

	service := NewCategoryService(mockRepo, mockStore)
	categories, err := service.FindAll(context.Background())

	assert.NoError(t, err)
	assert.Len(t, categories, 4)
	assert.Equal(t, "https://store.example.com/signed/cat", categories[0].ImageURL)
	assert.Equal(t, broken, categories[1].ImageURL) // degraded to the raw key
	assert.Equal(t, legacy, categories[2].ImageURL) // passthrough
	assert.Empty(t, categories[3].ImageURL)

	mockRepo.AssertExpectations(t)
	mockStore.AssertExpectations(t)
}

func TestCategoryService_Update(t *testing.T) {
	mockRepo := new(MockCategoryRepository)

	mockRepo.On("FindByTitle", mock.Anything, "Prints").Return(nil, gorm.ErrRecordNotFound)
	mockRepo.On("UpdateFields", mock.Anything, uint(2), map[string]interface{}{"title": "Prints"}).
		Return(true, nil)
	mockRepo.On("FindByID", mock.Anything, uint(2)).Return(&model.Category{ID: 2, Title: "Prints"}, nil)

	service := NewCategoryService(mockRepo, new(MockObjectGateway))
	title := "Prints"
	updated, err := service.Update(context.Background(), 2, &title, nil)

	assert.NoError(t, err)
	assert.Equal(t, "Prints", updated.Title)
	mockRepo.AssertExpectations(t)
}

func TestCategoryService_Update_TitleConflict(t *testing.T) {
	mockRepo := new(MockCategoryRepository)

	mockRepo.On("FindByTitle", mock.Anything, "Paintings").Return(&model.Category{ID: 1, Title: "Paintings"}, nil)

	service := NewCategoryService(mockRepo, new(MockObjectGateway))
	title := "Paintings"
	_, err := service.Update(context.Background(), 2, &title, nil)

	assert.ErrorIs(t, err, apperrors.ErrCategoryTitleTaken)
	mockRepo.AssertExpectations(t)
}

func TestCategoryService_Update_MissingCategory(t *testing.T) {
	mockRepo := new(MockCategoryRepository)

	image := "uploads/gone.jpg"
	mockRepo.On("UpdateFields", mock.Anything, uint(9), map[string]interface{}{"image": image}).
		Return(false, nil)

	service := NewCategoryService(mockRepo, new(MockObjectGateway))
	_, err := service.Update(context.Background(), 9, nil, &image)

	assert.ErrorIs(t, err, apperrors.ErrCategoryNotFound)
	mockRepo.AssertExpectations(t)
}

func TestCategoryService_Delete(t *testing.T) {
	tests := []struct {
		name          string
		affected      int64
		expectedError error
	}{
		{name: "existing category", affected: 1},
		{name: "missing category", affected: 0, expectedError: apperrors.ErrCategoryNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockCategoryRepository)
			mockRepo.On("Delete", mock.Anything, uint(3)).Return(tt.affected, nil)

			service := NewCategoryService(mockRepo, new(MockObjectGateway))
			err := service.Delete(context.Background(), 3)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}
