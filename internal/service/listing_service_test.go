package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "galleria/internal/errors"
	"galleria/internal/model"
	"galleria/internal/repository"
)

// MockAuctionRepository is a mock implementation of AuctionRepository.
type MockAuctionRepository struct {
	mock.Mock
}

func (m *MockAuctionRepository) Create(ctx context.Context, auction *model.Auction) error {
	args := m.Called(ctx, auction)
	return args.Error(0)
}

func (m *MockAuctionRepository) FindByID(ctx context.Context, id uint) (*model.Auction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Auction), args.Error(1)
}

func (m *MockAuctionRepository) ListPage(ctx context.Context, filter repository.AuctionFilter, limit int, cursor *uint) ([]model.Auction, error) {
	args := m.Called(ctx, filter, limit, cursor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Auction), args.Error(1)
}

func (m *MockAuctionRepository) ListRecent(ctx context.Context, limit int) ([]model.Auction, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Auction), args.Error(1)
}

func (m *MockAuctionRepository) ListByUser(ctx context.Context, userID uint) ([]model.Auction, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Auction), args.Error(1)
}

func (m *MockAuctionRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) (bool, error) {
	args := m.Called(ctx, id, fields)
	return args.Bool(0), args.Error(1)
}

func (m *MockAuctionRepository) Delete(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockObjectGateway is a mock implementation of ObjectGateway.
type MockObjectGateway struct {
	mock.Mock
}

func (m *MockObjectGateway) PresignUpload(ctx context.Context, fileName, contentType string, expiry time.Duration) (string, string, error) {
	args := m.Called(ctx, fileName, contentType, expiry)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockObjectGateway) PresignView(ctx context.Context, key string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, key, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockObjectGateway) Upload(ctx context.Context, r io.Reader, size int64, fileName, contentType string) (string, error) {
	args := m.Called(ctx, r, size, fileName, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockObjectGateway) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func legacyAuctions(n int) []model.Auction {
	// ids n..1, newest first, legacy image URLs so no signing happens
	rows := make([]model.Auction, n)
	base := time.Now()
	for i := 0; i < n; i++ {
		id := uint(n - i)
		rows[i] = model.Auction{
			ID:        id,
			Title:     "lot",
			Image:     "https://images.example.com/legacy.jpg",
			CreatedAt: base.Add(-time.Duration(i) * time.Minute),
		}
	}
	return rows
}

func TestListingService_List_PageSizeContract(t *testing.T) {
	tests := []struct {
		name           string
		available      int
		limit          int
		expectedItems  int
		expectedMore   bool
		expectedCursor *uint
	}{
		{
			name:          "exactly limit rows means last page",
			available:     5,
			limit:         5,
			expectedItems: 5,
			expectedMore:  false,
		},
		{
			name:           "limit plus one row means another page",
			available:      6,
			limit:          5,
			expectedItems:  5,
			expectedMore:   true,
			expectedCursor: uintPtr(2), // ids 6..2 kept, 5th row has id 2
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockAuctionRepository)
			mockStore := new(MockObjectGateway)

			rows := legacyAuctions(tt.available)
			mockRepo.On("ListPage", mock.Anything, repository.AuctionFilter{}, tt.limit+1, (*uint)(nil)).
				Return(rows, nil)

			service := NewListingService(mockRepo, mockStore)
			page, err := service.List(context.Background(), repository.AuctionFilter{}, tt.limit, nil)

			assert.NoError(t, err)
			assert.Len(t, page.Items, tt.expectedItems)
			assert.Equal(t, tt.expectedMore, page.HasMore)
			if tt.expectedCursor == nil {
				assert.Nil(t, page.NextCursor)
			} else {
				assert.NotNil(t, page.NextCursor)
				assert.Equal(t, *tt.expectedCursor, *page.NextCursor)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestListingService_List_DefaultLimit(t *testing.T) {
	mockRepo := new(MockAuctionRepository)
	mockStore := new(MockObjectGateway)

	mockRepo.On("ListPage", mock.Anything, repository.AuctionFilter{}, DefaultPageSize+1, (*uint)(nil)).
		Return([]model.Auction{}, nil)

	service := NewListingService(mockRepo, mockStore)
	page, err := service.List(context.Background(), repository.AuctionFilter{}, 0, nil)

	assert.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.False(t, page.HasMore)
	assert.Nil(t, page.NextCursor)
	mockRepo.AssertExpectations(t)
}

func TestListingService_List_EnrichmentFallback(t *testing.T) {
	mockRepo := new(MockAuctionRepository)
	mockStore := new(MockObjectGateway)

	rows := []model.Auction{
		{ID: 3, Image: "uploads/ok.jpg"},
		{ID: 2, Image: "uploads/broken.jpg"},
		{ID: 1, Image: "https://images.example.com/legacy.jpg"},
	}
	mockRepo.On("ListPage", mock.Anything, repository.AuctionFilter{}, 13, (*uint)(nil)).Return(rows, nil)
	mockStore.On("PresignView", mock.Anything, "uploads/ok.jpg", mock.Anything).
		Return("https://store.example.com/signed/ok", nil)
	mockStore.On("PresignView", mock.Anything, "uploads/broken.jpg", mock.Anything).
		Return("", errors.New("storage down"))

	service := NewListingService(mockRepo, mockStore)
	page, err := service.List(context.Background(), repository.AuctionFilter{}, 0, nil)

	// a single signing failure degrades only its own row
	assert.NoError(t, err)
	assert.Len(t, page.Items, 3)
	assert.Equal(t, "https://store.example.com/signed/ok", page.Items[0].ImageURL)
	assert.Equal(t, "uploads/broken.jpg", page.Items[1].ImageURL)
	assert.Equal(t, "https://images.example.com/legacy.jpg", page.Items[2].ImageURL)

	// stored keys are never mutated
	assert.Equal(t, "uploads/ok.jpg", page.Items[0].Image)
	assert.Equal(t, "uploads/broken.jpg", page.Items[1].Image)

	mockRepo.AssertExpectations(t)
	mockStore.AssertExpectations(t)
}

func TestListingService_FindRecent(t *testing.T) {
	mockRepo := new(MockAuctionRepository)
	mockStore := new(MockObjectGateway)

	mockRepo.On("ListRecent", mock.Anything, 20).Return(legacyAuctions(20), nil)

	service := NewListingService(mockRepo, mockStore)
	items, err := service.FindRecent(context.Background())

	assert.NoError(t, err)
	assert.Len(t, items, 20)
	mockRepo.AssertExpectations(t)
}

func TestListingService_FindAllByUser(t *testing.T) {
	mockRepo := new(MockAuctionRepository)
	mockStore := new(MockObjectGateway)

	owner := uint(9)
	rows := legacyAuctions(3)
	for i := range rows {
		rows[i].UserID = &owner
	}
	mockRepo.On("ListByUser", mock.Anything, owner).Return(rows, nil)

	service := NewListingService(mockRepo, mockStore)
	items, err := service.FindAllByUser(context.Background(), owner)

	assert.NoError(t, err)
	assert.Len(t, items, 3)
	mockRepo.AssertExpectations(t)
}

func TestListingService_FindOne_NotFound(t *testing.T) {
	mockRepo := new(MockAuctionRepository)
	mockStore := new(MockObjectGateway)

	mockRepo.On("FindByID", mock.Anything, uint(42)).Return(nil, gorm.ErrRecordNotFound)

	service := NewListingService(mockRepo, mockStore)
	_, err := service.FindOne(context.Background(), 42)

	assert.ErrorIs(t, err, apperrors.ErrAuctionNotFound)
	mockRepo.AssertExpectations(t)
}

func TestListingService_Create_OwnerFromPrincipal(t *testing.T) {
	mockRepo := new(MockAuctionRepository)
	mockStore := new(MockObjectGateway)

	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(a *model.Auction) bool {
		return a.UserID != nil && *a.UserID == 9 && a.Title == "Vase" && a.Image == "uploads/v.jpg"
	})).Return(nil)

	service := NewListingService(mockRepo, mockStore)
	auction, err := service.Create(context.Background(), 9, "Vase", "uploads/v.jpg", nil)

	assert.NoError(t, err)
	assert.Equal(t, uint(9), *auction.UserID)
	mockRepo.AssertExpectations(t)
}

func TestListingService_Update_NotFound(t *testing.T) {
	mockRepo := new(MockAuctionRepository)
	mockStore := new(MockObjectGateway)

	title := "New title"
	mockRepo.On("UpdateFields", mock.Anything, uint(5), map[string]interface{}{"title": title}).
		Return(false, nil)

	service := NewListingService(mockRepo, mockStore)
	_, err := service.Update(context.Background(), 5, &title, nil, nil)

	assert.ErrorIs(t, err, apperrors.ErrAuctionNotFound)
	mockRepo.AssertExpectations(t)
}

func TestListingService_Delete_RemovesManagedObject(t *testing.T) {
	mockRepo := new(MockAuctionRepository)
	mockStore := new(MockObjectGateway)

	mockRepo.On("FindByID", mock.Anything, uint(5)).Return(&model.Auction{
		ID:    5,
		Image: "uploads/gone.jpg",
	}, nil)
	mockRepo.On("Delete", mock.Anything, uint(5)).Return(true, nil)
	mockStore.On("Delete", mock.Anything, "uploads/gone.jpg").Return(nil)

	service := NewListingService(mockRepo, mockStore)
	err := service.Delete(context.Background(), 5)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockStore.AssertExpectations(t)
}

func TestListingService_Delete_StorageFailureIsSwallowed(t *testing.T) {
	mockRepo := new(MockAuctionRepository)
	mockStore := new(MockObjectGateway)

	mockRepo.On("FindByID", mock.Anything, uint(5)).Return(&model.Auction{
		ID:    5,
		Image: "uploads/gone.jpg",
	}, nil)
	mockRepo.On("Delete", mock.Anything, uint(5)).Return(true, nil)
	mockStore.On("Delete", mock.Anything, "uploads/gone.jpg").Return(errors.New("storage down"))

	service := NewListingService(mockRepo, mockStore)
	err := service.Delete(context.Background(), 5)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestListingService_DeleteThenFindOne_NotFound(t *testing.T) {
	mockRepo := new(MockAuctionRepository)
	mockStore := new(MockObjectGateway)

	mockRepo.On("FindByID", mock.Anything, uint(5)).Return(&model.Auction{
		ID:    5,
		Image: "https://images.example.com/legacy.jpg",
	}, nil).Once()
	mockRepo.On("Delete", mock.Anything, uint(5)).Return(true, nil)
	mockRepo.On("FindByID", mock.Anything, uint(5)).Return(nil, gorm.ErrRecordNotFound)

	service := NewListingService(mockRepo, mockStore)

	assert.NoError(t, service.Delete(context.Background(), 5))
	_, err := service.FindOne(context.Background(), 5)
	assert.ErrorIs(t, err, apperrors.ErrAuctionNotFound)

	mockRepo.AssertExpectations(t)
}

// stubAuctionRepo serves keyset pages from an in-memory slice sorted newest
// first, with the same skip-after-cursor semantics as the SQL query.
type stubAuctionRepo struct {
	repository.AuctionRepository
	rows []model.Auction
}

func (s *stubAuctionRepo) ListPage(ctx context.Context, filter repository.AuctionFilter, limit int, cursor *uint) ([]model.Auction, error) {
	var out []model.Auction
	for _, r := range s.rows {
		if cursor != nil && r.ID >= *cursor {
			continue
		}
		if filter.UserID != nil && (r.UserID == nil || *r.UserID != *filter.UserID) {
			continue
		}
		if filter.CategoryID != nil && (r.CategoryID == nil || *r.CategoryID != *filter.CategoryID) {
			continue
		}
		out = append(out, r)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *stubAuctionRepo) remove(id uint) {
	for i, r := range s.rows {
		if r.ID == id {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return
		}
	}
}

func TestListingService_List_WalkYieldsEveryRowOnce(t *testing.T) {
	repo := &stubAuctionRepo{rows: legacyAuctions(25)}
	service := NewListingService(repo, new(MockObjectGateway))

	var seen []uint
	var cursor *uint
	for {
		page, err := service.List(context.Background(), repository.AuctionFilter{}, 7, cursor)
		assert.NoError(t, err)
		for _, item := range page.Items {
			seen = append(seen, item.ID)
		}
		if !page.HasMore {
			assert.Nil(t, page.NextCursor)
			break
		}
		assert.NotNil(t, page.NextCursor)
		cursor = page.NextCursor
	}

	assert.Len(t, seen, 25)
	for i, id := range seen {
		assert.Equal(t, uint(25-i), id, "descending order with no gaps or repeats")
	}
}

func TestListingService_List_CursorAtDeletedRowResumesAfterIt(t *testing.T) {
	repo := &stubAuctionRepo{rows: legacyAuctions(10)}
	service := NewListingService(repo, new(MockObjectGateway))

	page, err := service.List(context.Background(), repository.AuctionFilter{}, 3, nil)
	assert.NoError(t, err)
	assert.Equal(t, []uint{10, 9, 8}, itemIDs(page.Items))
	assert.NotNil(t, page.NextCursor)

	// The cursor row disappears between pages; the walk continues exactly
	// after its id.
	repo.remove(*page.NextCursor)

	next, err := service.List(context.Background(), repository.AuctionFilter{}, 3, page.NextCursor)
	assert.NoError(t, err)
	assert.Equal(t, []uint{7, 6, 5}, itemIDs(next.Items))
	assert.True(t, next.HasMore)
}

func itemIDs(items []model.EnrichedAuction) []uint {
	ids := make([]uint, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}

func uintPtr(v uint) *uint {
	return &v
}
